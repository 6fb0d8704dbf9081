package repository

import (
	"context"

	"github.com/aimhigh31/work-ten-sub005/internal/console/entity"
	"gorm.io/gorm"
)

// KPIRepository backs the KPI record table.
type KPIRepository struct {
	db *gorm.DB
}

func NewKPIRepository(db *gorm.DB) *KPIRepository {
	return &KPIRepository{db: db}
}

// FindAll lists KPI records newest first. Filters: search, status, period,
// owner_name, team_name.
func (r *KPIRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.KPIRecord, int64, error) {
	var items []entity.KPIRecord
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.KPIRecord{})

	if search := filters["search"]; search != "" {
		query = query.Where("metric ILIKE ? OR code ILIKE ?", "%"+search+"%", "%"+search+"%")
	}
	query = applyExact(query, filters, "status", "period", "owner_name", "team_name")

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

func (r *KPIRepository) FindByID(ctx context.Context, id string) (*entity.KPIRecord, error) {
	var item entity.KPIRecord
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &item, nil
}

func (r *KPIRepository) Create(ctx context.Context, item *entity.KPIRecord) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seq, err := nextSeq(tx, &entity.KPIRecord{})
		if err != nil {
			return err
		}
		item.Seq = seq
		return tx.Create(item).Error
	})
}

func (r *KPIRepository) Update(ctx context.Context, item *entity.KPIRecord) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *KPIRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.KPIRecord{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *KPIRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	return codeExists(ctx, r.db, &entity.KPIRecord{}, code)
}

func (r *KPIRepository) Codes(ctx context.Context) ([]string, error) {
	return codesWithPrefix(ctx, r.db, &entity.KPIRecord{}, "KPI")
}
