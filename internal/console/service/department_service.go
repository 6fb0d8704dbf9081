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

type DepartmentService struct {
	repo      *repository.DepartmentRepository
	changeLog *ChangeLogger
	rdb       *redis.Client
}

func NewDepartmentService(repo *repository.DepartmentRepository, changeLog *ChangeLogger, rdb *redis.Client) *DepartmentService {
	return &DepartmentService{repo: repo, changeLog: changeLog, rdb: rdb}
}

type CreateDepartmentRequest struct {
	Name         string     `json:"name" binding:"required"`
	ParentName   string     `json:"parent_name"`
	ManagerName  string     `json:"manager_name"`
	Notes        string     `json:"notes"`
	Status       string     `json:"status"`
	RegisteredAt *time.Time `json:"registered_at"`
}

type UpdateDepartmentRequest struct {
	Name        *string `json:"name"`
	ParentName  *string `json:"parent_name"`
	ManagerName *string `json:"manager_name"`
	Notes       *string `json:"notes"`
	Status      *string `json:"status"`
}

var departmentStatuses = map[string]bool{
	entity.DepartmentStatusActive: true,
	entity.DepartmentStatusClosed: true,
}

func (s *DepartmentService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Department, int64, error) {
	return s.repo.FindAll(ctx, page, pageSize, filters)
}

func (s *DepartmentService) Get(ctx context.Context, id string) (*entity.Department, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *DepartmentService) Create(ctx context.Context, userID string, actor Actor, req *CreateDepartmentRequest) (*entity.Department, error) {
	if req.Name == "" {
		return nil, errors.New("name is required")
	}
	status := req.Status
	if status == "" {
		status = entity.DepartmentStatusActive
	}
	if !departmentStatuses[status] {
		return nil, fmt.Errorf("unknown department status %q", status)
	}

	codes, err := s.repo.Codes(ctx)
	if err != nil {
		return nil, err
	}
	code, err := generateCode(ctx, s.rdb, "DEPT", codes, s.repo.CodeExists)
	if err != nil {
		return nil, err
	}

	registeredAt := time.Now()
	if req.RegisteredAt != nil {
		registeredAt = *req.RegisteredAt
	}

	dept := &entity.Department{
		ID:           uuid.New().String()[:32],
		Code:         code,
		RegisteredAt: registeredAt,
		Status:       status,
		Name:         req.Name,
		ParentName:   req.ParentName,
		ManagerName:  req.ManagerName,
		Notes:        req.Notes,
		CreatedBy:    userID,
	}

	if err := s.repo.Create(ctx, dept); err != nil {
		return nil, err
	}
	s.changeLog.LogCreate(ctx, actor, dept.Code, dept.Name)
	return dept, nil
}

func (s *DepartmentService) Update(ctx context.Context, id string, actor Actor, req *UpdateDepartmentRequest) (*entity.Department, error) {
	dept, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	type change struct{ label, before, after string }
	var changes []change

	if req.Name != nil && *req.Name != dept.Name {
		changes = append(changes, change{"부서명", dept.Name, *req.Name})
		dept.Name = *req.Name
	}
	if req.ParentName != nil && *req.ParentName != dept.ParentName {
		changes = append(changes, change{"상위부서", dept.ParentName, *req.ParentName})
		dept.ParentName = *req.ParentName
	}
	if req.ManagerName != nil && *req.ManagerName != dept.ManagerName {
		changes = append(changes, change{"부서장", dept.ManagerName, *req.ManagerName})
		dept.ManagerName = *req.ManagerName
	}
	if req.Notes != nil && *req.Notes != dept.Notes {
		changes = append(changes, change{"비고", dept.Notes, *req.Notes})
		dept.Notes = *req.Notes
	}
	if req.Status != nil && *req.Status != dept.Status {
		if !departmentStatuses[*req.Status] {
			return nil, fmt.Errorf("unknown department status %q", *req.Status)
		}
		changes = append(changes, change{"상태", dept.Status, *req.Status})
		dept.Status = *req.Status
	}

	if err := s.repo.Update(ctx, dept); err != nil {
		return nil, err
	}
	for _, ch := range changes {
		s.changeLog.LogFieldChange(ctx, actor, dept.Code, dept.Name, ch.label, ch.before, ch.after)
	}
	return dept, nil
}

func (s *DepartmentService) Delete(ctx context.Context, id string, actor Actor) error {
	dept, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.changeLog.LogDelete(ctx, actor, dept.Code, dept.Name)
	return nil
}

func (s *DepartmentService) BatchDelete(ctx context.Context, ids []string, actor Actor) BatchOutcome {
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

func (s *DepartmentService) CodeExists(ctx context.Context, code string) (bool, error) {
	return s.repo.CodeExists(ctx, code)
}
