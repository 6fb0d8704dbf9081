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

type ChecklistService struct {
	repo      *repository.ChecklistRepository
	changeLog *ChangeLogger
	rdb       *redis.Client
}

func NewChecklistService(repo *repository.ChecklistRepository, changeLog *ChangeLogger, rdb *redis.Client) *ChecklistService {
	return &ChecklistService{repo: repo, changeLog: changeLog, rdb: rdb}
}

type CreateChecklistRequest struct {
	Title        string     `json:"title" binding:"required"`
	Category     string     `json:"category"`
	CycleType    string     `json:"cycle_type"`
	Notes        string     `json:"notes"`
	Status       string     `json:"status"`
	AssigneeName string     `json:"assignee_name"`
	TeamName     string     `json:"team_name"`
	RegisteredAt *time.Time `json:"registered_at"`
}

type UpdateChecklistRequest struct {
	Title        *string `json:"title"`
	Category     *string `json:"category"`
	CycleType    *string `json:"cycle_type"`
	Notes        *string `json:"notes"`
	Status       *string `json:"status"`
	AssigneeName *string `json:"assignee_name"`
	TeamName     *string `json:"team_name"`
}

var checklistStatuses = map[string]bool{
	entity.ChecklistStatusPending: true,
	entity.ChecklistStatusDone:    true,
	entity.ChecklistStatusSkipped: true,
}

var checklistCycles = map[string]bool{
	entity.ChecklistCycleDaily:   true,
	entity.ChecklistCycleWeekly:  true,
	entity.ChecklistCycleMonthly: true,
}

func (s *ChecklistService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Checklist, int64, error) {
	return s.repo.FindAll(ctx, page, pageSize, filters)
}

func (s *ChecklistService) Get(ctx context.Context, id string) (*entity.Checklist, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *ChecklistService) Create(ctx context.Context, userID string, actor Actor, req *CreateChecklistRequest) (*entity.Checklist, error) {
	if req.Title == "" {
		return nil, errors.New("title is required")
	}
	status := req.Status
	if status == "" {
		status = entity.ChecklistStatusPending
	}
	if !checklistStatuses[status] {
		return nil, fmt.Errorf("unknown checklist status %q", status)
	}
	cycle := req.CycleType
	if cycle == "" {
		cycle = entity.ChecklistCycleWeekly
	}
	if !checklistCycles[cycle] {
		return nil, fmt.Errorf("unknown checklist cycle %q", cycle)
	}

	codes, err := s.repo.Codes(ctx)
	if err != nil {
		return nil, err
	}
	code, err := generateCode(ctx, s.rdb, "CHK", codes, s.repo.CodeExists)
	if err != nil {
		return nil, err
	}

	registeredAt := time.Now()
	if req.RegisteredAt != nil {
		registeredAt = *req.RegisteredAt
	}

	item := &entity.Checklist{
		ID:           uuid.New().String()[:32],
		Code:         code,
		RegisteredAt: registeredAt,
		Status:       status,
		Title:        req.Title,
		Category:     req.Category,
		CycleType:    cycle,
		Notes:        req.Notes,
		AssigneeName: req.AssigneeName,
		TeamName:     req.TeamName,
		CreatedBy:    userID,
	}

	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	s.changeLog.LogCreate(ctx, actor, item.Code, item.Title)
	return item, nil
}

func (s *ChecklistService) Update(ctx context.Context, id string, actor Actor, req *UpdateChecklistRequest) (*entity.Checklist, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	type change struct{ label, before, after string }
	var changes []change

	if req.Title != nil && *req.Title != item.Title {
		changes = append(changes, change{"제목", item.Title, *req.Title})
		item.Title = *req.Title
	}
	if req.Category != nil && *req.Category != item.Category {
		changes = append(changes, change{"분류", item.Category, *req.Category})
		item.Category = *req.Category
	}
	if req.CycleType != nil && *req.CycleType != item.CycleType {
		if !checklistCycles[*req.CycleType] {
			return nil, fmt.Errorf("unknown checklist cycle %q", *req.CycleType)
		}
		changes = append(changes, change{"주기", item.CycleType, *req.CycleType})
		item.CycleType = *req.CycleType
	}
	if req.Notes != nil && *req.Notes != item.Notes {
		changes = append(changes, change{"비고", item.Notes, *req.Notes})
		item.Notes = *req.Notes
	}
	if req.Status != nil && *req.Status != item.Status {
		if !checklistStatuses[*req.Status] {
			return nil, fmt.Errorf("unknown checklist status %q", *req.Status)
		}
		changes = append(changes, change{"상태", item.Status, *req.Status})
		item.Status = *req.Status
	}
	if req.AssigneeName != nil && *req.AssigneeName != item.AssigneeName {
		changes = append(changes, change{"담당자", item.AssigneeName, *req.AssigneeName})
		item.AssigneeName = *req.AssigneeName
	}
	if req.TeamName != nil && *req.TeamName != item.TeamName {
		changes = append(changes, change{"팀", item.TeamName, *req.TeamName})
		item.TeamName = *req.TeamName
	}

	if err := s.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	for _, ch := range changes {
		s.changeLog.LogFieldChange(ctx, actor, item.Code, item.Title, ch.label, ch.before, ch.after)
	}
	return item, nil
}

func (s *ChecklistService) Delete(ctx context.Context, id string, actor Actor) error {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.changeLog.LogDelete(ctx, actor, item.Code, item.Title)
	return nil
}

func (s *ChecklistService) BatchDelete(ctx context.Context, ids []string, actor Actor) BatchOutcome {
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

func (s *ChecklistService) CodeExists(ctx context.Context, code string) (bool, error) {
	return s.repo.CodeExists(ctx, code)
}
