package repository

import (
	"context"

	"github.com/aimhigh31/work-ten-sub005/internal/console/entity"
	"gorm.io/gorm"
)

// HardwareRepository backs the hardware asset table and its attachments.
type HardwareRepository struct {
	db *gorm.DB
}

func NewHardwareRepository(db *gorm.DB) *HardwareRepository {
	return &HardwareRepository{db: db}
}

// FindAll lists assets newest first. Filters: search (name/model/serial/
// code), status, vendor, location, assignee_name, team_name.
func (r *HardwareRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Hardware, int64, error) {
	var items []entity.Hardware
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Hardware{})

	if search := filters["search"]; search != "" {
		query = query.Where("asset_name ILIKE ? OR model ILIKE ? OR serial_no ILIKE ? OR code ILIKE ?",
			"%"+search+"%", "%"+search+"%", "%"+search+"%", "%"+search+"%")
	}
	query = applyExact(query, filters, "status", "vendor", "location", "assignee_name", "team_name")

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

func (r *HardwareRepository) FindByID(ctx context.Context, id string) (*entity.Hardware, error) {
	var hw entity.Hardware
	err := r.db.WithContext(ctx).
		Preload("Attachments").
		Where("id = ?", id).
		First(&hw).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &hw, nil
}

func (r *HardwareRepository) Create(ctx context.Context, hw *entity.Hardware) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seq, err := nextSeq(tx, &entity.Hardware{})
		if err != nil {
			return err
		}
		hw.Seq = seq
		return tx.Create(hw).Error
	})
}

func (r *HardwareRepository) Update(ctx context.Context, hw *entity.Hardware) error {
	return r.db.WithContext(ctx).Omit("Attachments").Save(hw).Error
}

// Delete soft-deletes the asset and hard-deletes its attachments; an
// attachment is owned by exactly one record and never shared.
func (r *HardwareRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ?", id).Delete(&entity.Hardware{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Where("hardware_id = ?", id).Delete(&entity.Attachment{}).Error
	})
}

func (r *HardwareRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	return codeExists(ctx, r.db, &entity.Hardware{}, code)
}

func (r *HardwareRepository) Codes(ctx context.Context) ([]string, error) {
	return codesWithPrefix(ctx, r.db, &entity.Hardware{}, "HW")
}

// === attachments ===

func (r *HardwareRepository) AddAttachment(ctx context.Context, att *entity.Attachment) error {
	return r.db.WithContext(ctx).Create(att).Error
}

// FindAttachment is scoped to the owning asset so one asset's delete route
// cannot touch another's files.
func (r *HardwareRepository) FindAttachment(ctx context.Context, hardwareID, id string) (*entity.Attachment, error) {
	var att entity.Attachment
	err := r.db.WithContext(ctx).Where("hardware_id = ? AND id = ?", hardwareID, id).First(&att).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &att, nil
}

func (r *HardwareRepository) DeleteAttachment(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Attachment{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
