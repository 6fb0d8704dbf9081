package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aimhigh31/work-ten-sub005/internal/console/entity"
	"github.com/aimhigh31/work-ten-sub005/internal/console/repository"
	"github.com/aimhigh31/work-ten-sub005/internal/console/storage"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type HardwareService struct {
	repo      *repository.HardwareRepository
	changeLog *ChangeLogger
	rdb       *redis.Client
	store     storage.Store
}

func NewHardwareService(repo *repository.HardwareRepository, changeLog *ChangeLogger, rdb *redis.Client, store storage.Store) *HardwareService {
	return &HardwareService{repo: repo, changeLog: changeLog, rdb: rdb, store: store}
}

type CreateHardwareRequest struct {
	AssetName    string     `json:"asset_name" binding:"required"`
	Model        string     `json:"model"`
	SerialNo     string     `json:"serial_no"`
	Vendor       string     `json:"vendor"`
	Location     string     `json:"location"`
	PurchaseDate *time.Time `json:"purchase_date"`
	Notes        string     `json:"notes"`
	Status       string     `json:"status"`
	AssigneeName string     `json:"assignee_name"`
	TeamName     string     `json:"team_name"`
	RegisteredAt *time.Time `json:"registered_at"`
}

type UpdateHardwareRequest struct {
	AssetName    *string    `json:"asset_name"`
	Model        *string    `json:"model"`
	SerialNo     *string    `json:"serial_no"`
	Vendor       *string    `json:"vendor"`
	Location     *string    `json:"location"`
	PurchaseDate *time.Time `json:"purchase_date"`
	Notes        *string    `json:"notes"`
	Status       *string    `json:"status"`
	AssigneeName *string    `json:"assignee_name"`
	TeamName     *string    `json:"team_name"`
}

var hardwareStatuses = map[string]bool{
	entity.HardwareStatusInUse:   true,
	entity.HardwareStatusInStock: true,
	entity.HardwareStatusRepair:  true,
	entity.HardwareStatusRetired: true,
}

func (s *HardwareService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Hardware, int64, error) {
	return s.repo.FindAll(ctx, page, pageSize, filters)
}

func (s *HardwareService) Get(ctx context.Context, id string) (*entity.Hardware, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *HardwareService) Create(ctx context.Context, userID string, actor Actor, req *CreateHardwareRequest) (*entity.Hardware, error) {
	if req.AssetName == "" {
		return nil, errors.New("asset_name is required")
	}
	status := req.Status
	if status == "" {
		status = entity.HardwareStatusInStock
	}
	if !hardwareStatuses[status] {
		return nil, fmt.Errorf("unknown hardware status %q", status)
	}

	codes, err := s.repo.Codes(ctx)
	if err != nil {
		return nil, err
	}
	code, err := generateCode(ctx, s.rdb, "HW", codes, s.repo.CodeExists)
	if err != nil {
		return nil, err
	}

	registeredAt := time.Now()
	if req.RegisteredAt != nil {
		registeredAt = *req.RegisteredAt
	}

	hw := &entity.Hardware{
		ID:           uuid.New().String()[:32],
		Code:         code,
		RegisteredAt: registeredAt,
		Status:       status,
		AssetName:    req.AssetName,
		Model:        req.Model,
		SerialNo:     req.SerialNo,
		Vendor:       req.Vendor,
		Location:     req.Location,
		PurchaseDate: req.PurchaseDate,
		Notes:        req.Notes,
		AssigneeName: req.AssigneeName,
		TeamName:     req.TeamName,
		CreatedBy:    userID,
	}

	if err := s.repo.Create(ctx, hw); err != nil {
		return nil, err
	}
	s.changeLog.LogCreate(ctx, actor, hw.Code, hw.AssetName)
	return hw, nil
}

func (s *HardwareService) Update(ctx context.Context, id string, actor Actor, req *UpdateHardwareRequest) (*entity.Hardware, error) {
	hw, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	type change struct{ label, before, after string }
	var changes []change

	if req.AssetName != nil && *req.AssetName != hw.AssetName {
		changes = append(changes, change{"자산명", hw.AssetName, *req.AssetName})
		hw.AssetName = *req.AssetName
	}
	if req.Model != nil && *req.Model != hw.Model {
		changes = append(changes, change{"모델", hw.Model, *req.Model})
		hw.Model = *req.Model
	}
	if req.SerialNo != nil && *req.SerialNo != hw.SerialNo {
		changes = append(changes, change{"시리얼", hw.SerialNo, *req.SerialNo})
		hw.SerialNo = *req.SerialNo
	}
	if req.Vendor != nil && *req.Vendor != hw.Vendor {
		changes = append(changes, change{"제조사", hw.Vendor, *req.Vendor})
		hw.Vendor = *req.Vendor
	}
	if req.Location != nil && *req.Location != hw.Location {
		changes = append(changes, change{"위치", hw.Location, *req.Location})
		hw.Location = *req.Location
	}
	if req.PurchaseDate != nil {
		before := formatDate(hw.PurchaseDate)
		after := formatDate(req.PurchaseDate)
		if before != after {
			changes = append(changes, change{"구매일", before, after})
			hw.PurchaseDate = req.PurchaseDate
		}
	}
	if req.Notes != nil && *req.Notes != hw.Notes {
		changes = append(changes, change{"비고", hw.Notes, *req.Notes})
		hw.Notes = *req.Notes
	}
	if req.Status != nil && *req.Status != hw.Status {
		if !hardwareStatuses[*req.Status] {
			return nil, fmt.Errorf("unknown hardware status %q", *req.Status)
		}
		changes = append(changes, change{"상태", hw.Status, *req.Status})
		hw.Status = *req.Status
	}
	if req.AssigneeName != nil && *req.AssigneeName != hw.AssigneeName {
		changes = append(changes, change{"담당자", hw.AssigneeName, *req.AssigneeName})
		hw.AssigneeName = *req.AssigneeName
	}
	if req.TeamName != nil && *req.TeamName != hw.TeamName {
		changes = append(changes, change{"팀", hw.TeamName, *req.TeamName})
		hw.TeamName = *req.TeamName
	}

	if err := s.repo.Update(ctx, hw); err != nil {
		return nil, err
	}
	for _, ch := range changes {
		s.changeLog.LogFieldChange(ctx, actor, hw.Code, hw.AssetName, ch.label, ch.before, ch.after)
	}
	return hw, nil
}

func (s *HardwareService) Delete(ctx context.Context, id string, actor Actor) error {
	hw, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	for _, att := range hw.Attachments {
		if key, ok := storageKey(att.URL); ok {
			_ = s.store.Delete(ctx, key)
		}
	}
	s.changeLog.LogDelete(ctx, actor, hw.Code, hw.AssetName)
	return nil
}

func (s *HardwareService) BatchDelete(ctx context.Context, ids []string, actor Actor) BatchOutcome {
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

func (s *HardwareService) CodeExists(ctx context.Context, code string) (bool, error) {
	return s.repo.CodeExists(ctx, code)
}

// AddAttachment stores the file and records it on the asset. Size is checked
// before any bytes leave the request.
func (s *HardwareService) AddAttachment(ctx context.Context, hardwareID, userID string, fileName, contentType string, size int64, r io.Reader) (*entity.Attachment, error) {
	hw, err := s.repo.FindByID(ctx, hardwareID)
	if err != nil {
		return nil, err
	}
	if err := storage.CheckSize(size); err != nil {
		return nil, err
	}

	key := storage.ObjectKey("hardware", fileName)
	url, err := s.store.Save(ctx, key, r, size, contentType)
	if err != nil {
		return nil, err
	}

	att := &entity.Attachment{
		ID:          uuid.New().String()[:32],
		HardwareID:  hw.ID,
		FileName:    fileName,
		ContentType: contentType,
		Size:        size,
		URL:         url,
		UploadedBy:  userID,
	}
	if err := s.repo.AddAttachment(ctx, att); err != nil {
		_ = s.store.Delete(ctx, key)
		return nil, err
	}
	return att, nil
}

func (s *HardwareService) DeleteAttachment(ctx context.Context, hardwareID, attachmentID string) error {
	att, err := s.repo.FindAttachment(ctx, hardwareID, attachmentID)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteAttachment(ctx, attachmentID); err != nil {
		return err
	}
	if key, ok := storageKey(att.URL); ok {
		_ = s.store.Delete(ctx, key)
	}
	return nil
}

// storageKey recovers the store key from a served URL. Attachment URLs end
// with "<prefix>/<yyyy>/<mm>/<name>"; anything shorter is not ours to delete.
func storageKey(url string) (string, bool) {
	parts := strings.Split(url, "/")
	if len(parts) < 4 {
		return "", false
	}
	return strings.Join(parts[len(parts)-4:], "/"), true
}
