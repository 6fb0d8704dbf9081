package repository

import (
	"context"

	"github.com/aimhigh31/work-ten-sub005/internal/console/entity"
	"gorm.io/gorm"
)

// ChecklistRepository backs the checklist table.
type ChecklistRepository struct {
	db *gorm.DB
}

func NewChecklistRepository(db *gorm.DB) *ChecklistRepository {
	return &ChecklistRepository{db: db}
}

// FindAll lists checklist items newest first. Filters: search, status,
// category, cycle_type, assignee_name, team_name.
func (r *ChecklistRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Checklist, int64, error) {
	var items []entity.Checklist
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Checklist{})

	if search := filters["search"]; search != "" {
		query = query.Where("title ILIKE ? OR code ILIKE ?", "%"+search+"%", "%"+search+"%")
	}
	query = applyExact(query, filters, "status", "category", "cycle_type", "assignee_name", "team_name")

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Order("seq DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}

func (r *ChecklistRepository) FindByID(ctx context.Context, id string) (*entity.Checklist, error) {
	var item entity.Checklist
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &item, nil
}

func (r *ChecklistRepository) Create(ctx context.Context, item *entity.Checklist) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seq, err := nextSeq(tx, &entity.Checklist{})
		if err != nil {
			return err
		}
		item.Seq = seq
		return tx.Create(item).Error
	})
}

func (r *ChecklistRepository) Update(ctx context.Context, item *entity.Checklist) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *ChecklistRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Checklist{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ChecklistRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	return codeExists(ctx, r.db, &entity.Checklist{}, code)
}

func (r *ChecklistRepository) Codes(ctx context.Context) ([]string, error) {
	return codesWithPrefix(ctx, r.db, &entity.Checklist{}, "CHK")
}
