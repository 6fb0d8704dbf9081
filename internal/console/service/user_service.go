package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/aimhigh31/work-ten-sub005/internal/console/entity"
	"github.com/aimhigh31/work-ten-sub005/internal/console/repository"
	"github.com/aimhigh31/work-ten-sub005/internal/console/storage"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type UserService struct {
	repo      *repository.UserRepository
	changeLog *ChangeLogger
	rdb       *redis.Client
	store     storage.Store
}

func NewUserService(repo *repository.UserRepository, changeLog *ChangeLogger, rdb *redis.Client, store storage.Store) *UserService {
	return &UserService{repo: repo, changeLog: changeLog, rdb: rdb, store: store}
}

type CreateUserRequest struct {
	Name         string     `json:"name" binding:"required"`
	Email        string     `json:"email"`
	Position     string     `json:"position"`
	Role         string     `json:"role"`
	TeamName     string     `json:"team_name"`
	Status       string     `json:"status"`
	JoinedAt     *time.Time `json:"joined_at"`
	RegisteredAt *time.Time `json:"registered_at"`
}

type UpdateUserRequest struct {
	Name     *string    `json:"name"`
	Email    *string    `json:"email"`
	Position *string    `json:"position"`
	Role     *string    `json:"role"`
	TeamName *string    `json:"team_name"`
	Status   *string    `json:"status"`
	JoinedAt *time.Time `json:"joined_at"`
}

var userStatuses = map[string]bool{
	entity.UserStatusActive:   true,
	entity.UserStatusInactive: true,
}

func (s *UserService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.User, int64, error) {
	return s.repo.FindAll(ctx, page, pageSize, filters)
}

func (s *UserService) Get(ctx context.Context, id string) (*entity.User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *UserService) Create(ctx context.Context, userID string, actor Actor, req *CreateUserRequest) (*entity.User, error) {
	if req.Name == "" {
		return nil, errors.New("name is required")
	}
	status := req.Status
	if status == "" {
		status = entity.UserStatusActive
	}
	if !userStatuses[status] {
		return nil, fmt.Errorf("unknown user status %q", status)
	}
	role := req.Role
	if role == "" {
		role = "member"
	}

	codes, err := s.repo.Codes(ctx)
	if err != nil {
		return nil, err
	}
	code, err := generateCode(ctx, s.rdb, "USR", codes, s.repo.CodeExists)
	if err != nil {
		return nil, err
	}

	registeredAt := time.Now()
	if req.RegisteredAt != nil {
		registeredAt = *req.RegisteredAt
	}

	u := &entity.User{
		ID:           uuid.New().String()[:32],
		Code:         code,
		RegisteredAt: registeredAt,
		Status:       status,
		Name:         req.Name,
		Email:        req.Email,
		Position:     req.Position,
		Role:         role,
		TeamName:     req.TeamName,
		JoinedAt:     req.JoinedAt,
		CreatedBy:    userID,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	s.changeLog.LogCreate(ctx, actor, u.Code, u.Name)
	return u, nil
}

func (s *UserService) Update(ctx context.Context, id string, actor Actor, req *UpdateUserRequest) (*entity.User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	type change struct{ label, before, after string }
	var changes []change

	if req.Name != nil && *req.Name != u.Name {
		changes = append(changes, change{"이름", u.Name, *req.Name})
		u.Name = *req.Name
	}
	if req.Email != nil && *req.Email != u.Email {
		changes = append(changes, change{"이메일", u.Email, *req.Email})
		u.Email = *req.Email
	}
	if req.Position != nil && *req.Position != u.Position {
		changes = append(changes, change{"직책", u.Position, *req.Position})
		u.Position = *req.Position
	}
	if req.Role != nil && *req.Role != u.Role {
		changes = append(changes, change{"권한", u.Role, *req.Role})
		u.Role = *req.Role
	}
	if req.TeamName != nil && *req.TeamName != u.TeamName {
		changes = append(changes, change{"팀", u.TeamName, *req.TeamName})
		u.TeamName = *req.TeamName
	}
	if req.Status != nil && *req.Status != u.Status {
		if !userStatuses[*req.Status] {
			return nil, fmt.Errorf("unknown user status %q", *req.Status)
		}
		changes = append(changes, change{"상태", u.Status, *req.Status})
		u.Status = *req.Status
	}
	if req.JoinedAt != nil {
		before := formatDate(u.JoinedAt)
		after := formatDate(req.JoinedAt)
		if before != after {
			changes = append(changes, change{"입사일", before, after})
			u.JoinedAt = req.JoinedAt
		}
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	for _, ch := range changes {
		s.changeLog.LogFieldChange(ctx, actor, u.Code, u.Name, ch.label, ch.before, ch.after)
	}
	return u, nil
}

func (s *UserService) Delete(ctx context.Context, id string, actor Actor) error {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if key, ok := storageKey(u.ProfileImageURL); ok {
		_ = s.store.Delete(ctx, key)
	}
	s.changeLog.LogDelete(ctx, actor, u.Code, u.Name)
	return nil
}

func (s *UserService) BatchDelete(ctx context.Context, ids []string, actor Actor) BatchOutcome {
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

func (s *UserService) CodeExists(ctx context.Context, code string) (bool, error) {
	return s.repo.CodeExists(ctx, code)
}

// SetProfileImage validates, stores and links a new profile image, replacing
// the previous one if any.
func (s *UserService) SetProfileImage(ctx context.Context, id string, fileName, contentType string, size int64, r io.Reader) (*entity.User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := storage.CheckProfileImage(contentType, size); err != nil {
		return nil, err
	}

	key := storage.ObjectKey("profiles", s.profileFileName(fileName, contentType))
	url, err := s.store.Save(ctx, key, r, size, contentType)
	if err != nil {
		return nil, err
	}

	oldURL := u.ProfileImageURL
	u.ProfileImageURL = url
	if err := s.repo.Update(ctx, u); err != nil {
		_ = s.store.Delete(ctx, key)
		return nil, err
	}
	if key, ok := storageKey(oldURL); ok {
		_ = s.store.Delete(ctx, key)
	}
	return u, nil
}

func (s *UserService) profileFileName(fileName, contentType string) string {
	if ext := path.Ext(fileName); ext != "" {
		return fileName
	}
	exts := map[string]string{
		"image/jpeg": ".jpg",
		"image/png":  ".png",
		"image/gif":  ".gif",
		"image/webp": ".webp",
	}
	return uuid.New().String()[:8] + exts[contentType]
}
