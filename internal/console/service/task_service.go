package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aimhigh31/work-ten-sub005/internal/console/entity"
	"github.com/aimhigh31/work-ten-sub005/internal/console/repository"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// TaskService drives the task table.
type TaskService struct {
	repo      *repository.TaskRepository
	changeLog *ChangeLogger
	rdb       *redis.Client
}

func NewTaskService(repo *repository.TaskRepository, changeLog *ChangeLogger, rdb *redis.Client) *TaskService {
	return &TaskService{repo: repo, changeLog: changeLog, rdb: rdb}
}

// CreateTaskRequest carries a new task from the console form.
type CreateTaskRequest struct {
	Title        string     `json:"title" binding:"required"`
	Details      string     `json:"details"`
	Status       string     `json:"status"`
	AssigneeName string     `json:"assignee_name"`
	TeamName     string     `json:"team_name"`
	RegisteredAt *time.Time `json:"registered_at"`
	DueDate      *time.Time `json:"due_date"`
}

// UpdateTaskRequest patches an existing task; nil fields stay untouched.
type UpdateTaskRequest struct {
	Title        *string    `json:"title"`
	Details      *string    `json:"details"`
	Status       *string    `json:"status"`
	AssigneeName *string    `json:"assignee_name"`
	TeamName     *string    `json:"team_name"`
	DueDate      *time.Time `json:"due_date"`
}

var taskStatuses = map[string]bool{
	entity.TaskStatusPending:    true,
	entity.TaskStatusInProgress: true,
	entity.TaskStatusDone:       true,
	entity.TaskStatusHold:       true,
}

func (s *TaskService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Task, int64, error) {
	return s.repo.FindAll(ctx, page, pageSize, filters)
}

func (s *TaskService) Get(ctx context.Context, id string) (*entity.Task, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *TaskService) Create(ctx context.Context, userID string, actor Actor, req *CreateTaskRequest) (*entity.Task, error) {
	if req.Title == "" {
		return nil, errors.New("title is required")
	}
	status := req.Status
	if status == "" {
		status = entity.TaskStatusPending
	}
	if !taskStatuses[status] {
		return nil, fmt.Errorf("unknown task status %q", status)
	}

	codes, err := s.repo.Codes(ctx)
	if err != nil {
		return nil, err
	}
	code, err := generateCode(ctx, s.rdb, "TASK", codes, s.repo.CodeExists)
	if err != nil {
		return nil, err
	}

	registeredAt := time.Now()
	if req.RegisteredAt != nil {
		registeredAt = *req.RegisteredAt
	}

	task := &entity.Task{
		ID:           uuid.New().String()[:32],
		Code:         code,
		RegisteredAt: registeredAt,
		Status:       status,
		Title:        req.Title,
		Details:      req.Details,
		AssigneeName: req.AssigneeName,
		TeamName:     req.TeamName,
		DueDate:      req.DueDate,
		CreatedBy:    userID,
	}

	if err := s.repo.Create(ctx, task); err != nil {
		return nil, err
	}
	s.changeLog.LogCreate(ctx, actor, task.Code, task.Title)
	return task, nil
}

func (s *TaskService) Update(ctx context.Context, id string, actor Actor, req *UpdateTaskRequest) (*entity.Task, error) {
	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	type change struct{ label, before, after string }
	var changes []change

	if req.Title != nil && *req.Title != task.Title {
		changes = append(changes, change{"제목", task.Title, *req.Title})
		task.Title = *req.Title
	}
	if req.Details != nil && *req.Details != task.Details {
		changes = append(changes, change{"내용", task.Details, *req.Details})
		task.Details = *req.Details
	}
	if req.Status != nil && *req.Status != task.Status {
		if !taskStatuses[*req.Status] {
			return nil, fmt.Errorf("unknown task status %q", *req.Status)
		}
		changes = append(changes, change{"상태", task.Status, *req.Status})
		task.Status = *req.Status
	}
	if req.AssigneeName != nil && *req.AssigneeName != task.AssigneeName {
		changes = append(changes, change{"담당자", task.AssigneeName, *req.AssigneeName})
		task.AssigneeName = *req.AssigneeName
	}
	if req.TeamName != nil && *req.TeamName != task.TeamName {
		changes = append(changes, change{"팀", task.TeamName, *req.TeamName})
		task.TeamName = *req.TeamName
	}
	if req.DueDate != nil {
		before := formatDate(task.DueDate)
		after := formatDate(req.DueDate)
		if before != after {
			changes = append(changes, change{"마감일", before, after})
			task.DueDate = req.DueDate
		}
	}

	if err := s.repo.Update(ctx, task); err != nil {
		return nil, err
	}
	for _, ch := range changes {
		s.changeLog.LogFieldChange(ctx, actor, task.Code, task.Title, ch.label, ch.before, ch.after)
	}
	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, id string, actor Actor) error {
	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.changeLog.LogDelete(ctx, actor, task.Code, task.Title)
	return nil
}

// BatchDelete removes each id independently and tallies the outcome; partial
// success is expected, not an error.
func (s *TaskService) BatchDelete(ctx context.Context, ids []string, actor Actor) BatchOutcome {
	var outcome BatchOutcome
	for _, id := range ids {
		if err := s.Delete(ctx, id, actor); err != nil {
			outcome.Failed = append(outcome.Failed, id)
			continue
		}
		outcome.Deleted = append(outcome.Deleted, id)
	}
	return outcome
}

func (s *TaskService) CodeExists(ctx context.Context, code string) (bool, error) {
	return s.repo.CodeExists(ctx, code)
}

// BatchOutcome tallies a batch delete.
type BatchOutcome struct {
	Deleted []string `json:"deleted"`
	Failed  []string `json:"failed"`
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
