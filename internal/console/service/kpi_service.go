package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aimhigh31/work-ten-sub005/internal/console/entity"
	"github.com/aimhigh31/work-ten-sub005/internal/console/repository"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type KPIService struct {
	repo      *repository.KPIRepository
	changeLog *ChangeLogger
	rdb       *redis.Client
}

func NewKPIService(repo *repository.KPIRepository, changeLog *ChangeLogger, rdb *redis.Client) *KPIService {
	return &KPIService{repo: repo, changeLog: changeLog, rdb: rdb}
}

type CreateKPIRequest struct {
	Metric       string     `json:"metric" binding:"required"`
	Period       string     `json:"period"`
	TargetValue  float64    `json:"target_value"`
	ActualValue  float64    `json:"actual_value"`
	Unit         string     `json:"unit"`
	Notes        string     `json:"notes"`
	Status       string     `json:"status"`
	OwnerName    string     `json:"owner_name"`
	TeamName     string     `json:"team_name"`
	RegisteredAt *time.Time `json:"registered_at"`
}

type UpdateKPIRequest struct {
	Metric      *string  `json:"metric"`
	Period      *string  `json:"period"`
	TargetValue *float64 `json:"target_value"`
	ActualValue *float64 `json:"actual_value"`
	Unit        *string  `json:"unit"`
	Notes       *string  `json:"notes"`
	Status      *string  `json:"status"`
	OwnerName   *string  `json:"owner_name"`
	TeamName    *string  `json:"team_name"`
}

var kpiStatuses = map[string]bool{
	entity.KPIStatusOnTrack: true,
	entity.KPIStatusAtRisk:  true,
	entity.KPIStatusMissed:  true,
	entity.KPIStatusPending: true,
}

func (s *KPIService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.KPIRecord, int64, error) {
	return s.repo.FindAll(ctx, page, pageSize, filters)
}

func (s *KPIService) Get(ctx context.Context, id string) (*entity.KPIRecord, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *KPIService) Create(ctx context.Context, userID string, actor Actor, req *CreateKPIRequest) (*entity.KPIRecord, error) {
	if req.Metric == "" {
		return nil, errors.New("metric is required")
	}
	status := req.Status
	if status == "" {
		status = entity.KPIStatusPending
	}
	if !kpiStatuses[status] {
		return nil, fmt.Errorf("unknown kpi status %q", status)
	}
	if req.Period != "" {
		if _, err := time.Parse("2006-01", req.Period); err != nil {
			return nil, fmt.Errorf("period must be YYYY-MM: %w", err)
		}
	}

	codes, err := s.repo.Codes(ctx)
	if err != nil {
		return nil, err
	}
	code, err := generateCode(ctx, s.rdb, "KPI", codes, s.repo.CodeExists)
	if err != nil {
		return nil, err
	}

	registeredAt := time.Now()
	if req.RegisteredAt != nil {
		registeredAt = *req.RegisteredAt
	}

	rec := &entity.KPIRecord{
		ID:           uuid.New().String()[:32],
		Code:         code,
		RegisteredAt: registeredAt,
		Status:       status,
		Metric:       req.Metric,
		Period:       req.Period,
		TargetValue:  req.TargetValue,
		ActualValue:  req.ActualValue,
		Unit:         req.Unit,
		Notes:        req.Notes,
		OwnerName:    req.OwnerName,
		TeamName:     req.TeamName,
		CreatedBy:    userID,
	}

	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, err
	}
	s.changeLog.LogCreate(ctx, actor, rec.Code, rec.Metric)
	return rec, nil
}

func (s *KPIService) Update(ctx context.Context, id string, actor Actor, req *UpdateKPIRequest) (*entity.KPIRecord, error) {
	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	type change struct{ label, before, after string }
	var changes []change

	if req.Metric != nil && *req.Metric != rec.Metric {
		changes = append(changes, change{"지표", rec.Metric, *req.Metric})
		rec.Metric = *req.Metric
	}
	if req.Period != nil && *req.Period != rec.Period {
		if *req.Period != "" {
			if _, err := time.Parse("2006-01", *req.Period); err != nil {
				return nil, fmt.Errorf("period must be YYYY-MM: %w", err)
			}
		}
		changes = append(changes, change{"기간", rec.Period, *req.Period})
		rec.Period = *req.Period
	}
	if req.TargetValue != nil && *req.TargetValue != rec.TargetValue {
		changes = append(changes, change{"목표", formatValue(rec.TargetValue), formatValue(*req.TargetValue)})
		rec.TargetValue = *req.TargetValue
	}
	if req.ActualValue != nil && *req.ActualValue != rec.ActualValue {
		changes = append(changes, change{"실적", formatValue(rec.ActualValue), formatValue(*req.ActualValue)})
		rec.ActualValue = *req.ActualValue
	}
	if req.Unit != nil && *req.Unit != rec.Unit {
		changes = append(changes, change{"단위", rec.Unit, *req.Unit})
		rec.Unit = *req.Unit
	}
	if req.Notes != nil && *req.Notes != rec.Notes {
		changes = append(changes, change{"비고", rec.Notes, *req.Notes})
		rec.Notes = *req.Notes
	}
	if req.Status != nil && *req.Status != rec.Status {
		if !kpiStatuses[*req.Status] {
			return nil, fmt.Errorf("unknown kpi status %q", *req.Status)
		}
		changes = append(changes, change{"상태", rec.Status, *req.Status})
		rec.Status = *req.Status
	}
	if req.OwnerName != nil && *req.OwnerName != rec.OwnerName {
		changes = append(changes, change{"담당자", rec.OwnerName, *req.OwnerName})
		rec.OwnerName = *req.OwnerName
	}
	if req.TeamName != nil && *req.TeamName != rec.TeamName {
		changes = append(changes, change{"팀", rec.TeamName, *req.TeamName})
		rec.TeamName = *req.TeamName
	}

	if err := s.repo.Update(ctx, rec); err != nil {
		return nil, err
	}
	for _, ch := range changes {
		s.changeLog.LogFieldChange(ctx, actor, rec.Code, rec.Metric, ch.label, ch.before, ch.after)
	}
	return rec, nil
}

func (s *KPIService) Delete(ctx context.Context, id string, actor Actor) error {
	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.changeLog.LogDelete(ctx, actor, rec.Code, rec.Metric)
	return nil
}

func (s *KPIService) BatchDelete(ctx context.Context, ids []string, actor Actor) BatchOutcome {
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

func (s *KPIService) CodeExists(ctx context.Context, code string) (bool, error) {
	return s.repo.CodeExists(ctx, code)
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
