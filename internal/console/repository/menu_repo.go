package repository

import (
	"context"

	"github.com/aimhigh31/work-ten-sub005/internal/console/entity"
	"gorm.io/gorm"
)

// MenuRepository backs the console menus and their per-role permission rows.
type MenuRepository struct {
	db *gorm.DB
}

func NewMenuRepository(db *gorm.DB) *MenuRepository {
	return &MenuRepository{db: db}
}

func (r *MenuRepository) FindAll(ctx context.Context) ([]entity.Menu, error) {
	var menus []entity.Menu
	err := r.db.WithContext(ctx).Order("sort_order ASC").Find(&menus).Error
	return menus, err
}

func (r *MenuRepository) FindByRouteKey(ctx context.Context, routeKey string) (*entity.Menu, error) {
	var menu entity.Menu
	err := r.db.WithContext(ctx).Where("route_key = ?", routeKey).First(&menu).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &menu, nil
}

func (r *MenuRepository) Create(ctx context.Context, menu *entity.Menu) error {
	return r.db.WithContext(ctx).Create(menu).Error
}

func (r *MenuRepository) Update(ctx context.Context, menu *entity.Menu) error {
	return r.db.WithContext(ctx).Save(menu).Error
}

func (r *MenuRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var menu entity.Menu
		if err := tx.Where("id = ?", id).First(&menu).Error; err != nil {
			return notFound(err)
		}
		if err := tx.Where("route_key = ?", menu.RouteKey).Delete(&entity.MenuPermission{}).Error; err != nil {
			return err
		}
		return tx.Delete(&menu).Error
	})
}

// FindPermissions returns the permission rows for a route restricted to the
// given roles.
func (r *MenuRepository) FindPermissions(ctx context.Context, routeKey string, roles []string) ([]entity.MenuPermission, error) {
	var perms []entity.MenuPermission
	err := r.db.WithContext(ctx).
		Where("route_key = ? AND role IN ?", routeKey, roles).
		Find(&perms).Error
	return perms, err
}

// UpsertPermission creates or replaces one role's grant on a route.
func (r *MenuRepository) UpsertPermission(ctx context.Context, perm *entity.MenuPermission) error {
	var existing entity.MenuPermission
	err := r.db.WithContext(ctx).
		Where("route_key = ? AND role = ?", perm.RouteKey, perm.Role).
		First(&existing).Error
	switch {
	case err == nil:
		perm.ID = existing.ID
		return r.db.WithContext(ctx).Save(perm).Error
	case err == gorm.ErrRecordNotFound:
		return r.db.WithContext(ctx).Create(perm).Error
	default:
		return err
	}
}
