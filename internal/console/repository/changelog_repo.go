package repository

import (
	"context"

	"github.com/aimhigh31/work-ten-sub005/internal/console/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChangeLogRepository is the append-only audit store: create and paged reads,
// no update, no delete.
type ChangeLogRepository struct {
	db *gorm.DB
}

func NewChangeLogRepository(db *gorm.DB) *ChangeLogRepository {
	return &ChangeLogRepository{db: db}
}

func (r *ChangeLogRepository) Create(ctx context.Context, log *entity.ChangeLog) error {
	if log.ID == "" {
		log.ID = uuid.New().String()[:32]
	}
	return r.db.WithContext(ctx).Create(log).Error
}

// FindAll pages the trail newest first. Filters: target_code, actor, action.
func (r *ChangeLogRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.ChangeLog, int64, error) {
	var items []entity.ChangeLog
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.ChangeLog{})

	if code := filters["target_code"]; code != "" {
		query = query.Where("target_code = ?", code)
	}
	if actor := filters["actor"]; actor != "" {
		query = query.Where("actor_name = ?", actor)
	}
	if action := filters["action"]; action != "" {
		query = query.Where("action = ?", action)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}
