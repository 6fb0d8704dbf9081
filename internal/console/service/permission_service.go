package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/aimhigh31/work-ten-sub005/internal/console/entity"
	"github.com/aimhigh31/work-ten-sub005/internal/console/repository"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Capability is the answer the permission oracle gives for one route.
type Capability struct {
	RouteKey string `json:"route_key"`
	CanRead  bool   `json:"can_read"`
	CanWrite bool   `json:"can_write"`
	CanFull  bool   `json:"can_full"`
}

type PermissionService struct {
	repo *repository.MenuRepository
	rdb  *redis.Client
}

func NewPermissionService(repo *repository.MenuRepository, rdb *redis.Client) *PermissionService {
	return &PermissionService{repo: repo, rdb: rdb}
}

const permCacheTTL = time.Minute

// Resolve merges the grants of every role the caller holds. A route nobody
// granted resolves to all-false, not an error.
func (s *PermissionService) Resolve(ctx context.Context, routeKey string, roles []string) (Capability, error) {
	grant := Capability{RouteKey: routeKey}
	if len(roles) == 0 {
		return grant, nil
	}

	cacheKey := permCacheKey(routeKey, roles)
	if s.rdb != nil {
		if raw, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			if json.Unmarshal([]byte(raw), &grant) == nil {
				return grant, nil
			}
		}
	}

	perms, err := s.repo.FindPermissions(ctx, routeKey, roles)
	if err != nil {
		return grant, err
	}
	for _, p := range perms {
		grant.CanRead = grant.CanRead || p.CanRead
		grant.CanWrite = grant.CanWrite || p.CanWrite
		grant.CanFull = grant.CanFull || p.CanFull
	}
	// full access implies the rest
	if grant.CanFull {
		grant.CanRead = true
		grant.CanWrite = true
	}

	if s.rdb != nil {
		if raw, err := json.Marshal(grant); err == nil {
			s.rdb.Set(ctx, cacheKey, raw, permCacheTTL)
		}
	}
	return grant, nil
}

func permCacheKey(routeKey string, roles []string) string {
	key := "console:perm:" + routeKey
	for _, r := range roles {
		key += ":" + r
	}
	return key
}

func (s *PermissionService) Menus(ctx context.Context) ([]entity.Menu, error) {
	return s.repo.FindAll(ctx)
}

func (s *PermissionService) CreateMenu(ctx context.Context, routeKey, label, parentID string, sortOrder int) (*entity.Menu, error) {
	if routeKey == "" || label == "" {
		return nil, errors.New("route_key and label are required")
	}
	menu := &entity.Menu{
		ID:        uuid.New().String()[:32],
		RouteKey:  routeKey,
		Label:     label,
		ParentID:  parentID,
		SortOrder: sortOrder,
	}
	if err := s.repo.Create(ctx, menu); err != nil {
		return nil, err
	}
	return menu, nil
}

// Grant upserts one role's capability row and drops any cached answers for
// the route.
func (s *PermissionService) Grant(ctx context.Context, routeKey, role string, canRead, canWrite, canFull bool) error {
	if _, err := s.repo.FindByRouteKey(ctx, routeKey); err != nil {
		return err
	}
	perm := &entity.MenuPermission{
		ID:       uuid.New().String()[:32],
		RouteKey: routeKey,
		Role:     role,
		CanRead:  canRead,
		CanWrite: canWrite,
		CanFull:  canFull,
	}
	if err := s.repo.UpsertPermission(ctx, perm); err != nil {
		return err
	}
	s.invalidate(ctx, routeKey)
	return nil
}

func (s *PermissionService) invalidate(ctx context.Context, routeKey string) {
	if s.rdb == nil {
		return
	}
	iter := s.rdb.Scan(ctx, 0, "console:perm:"+routeKey+":*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if len(keys) > 0 {
		s.rdb.Del(ctx, keys...)
	}
}
