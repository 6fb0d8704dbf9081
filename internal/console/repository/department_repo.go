package repository

import (
	"context"

	"github.com/aimhigh31/work-ten-sub005/internal/console/entity"
	"gorm.io/gorm"
)

// DepartmentRepository backs the department table.
type DepartmentRepository struct {
	db *gorm.DB
}

func NewDepartmentRepository(db *gorm.DB) *DepartmentRepository {
	return &DepartmentRepository{db: db}
}

// FindAll lists departments newest first. Filters: search (name/code),
// status, parent_name, manager_name.
func (r *DepartmentRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Department, int64, error) {
	var items []entity.Department
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Department{})

	if search := filters["search"]; search != "" {
		query = query.Where("name ILIKE ? OR code ILIKE ?", "%"+search+"%", "%"+search+"%")
	}
	query = applyExact(query, filters, "status", "parent_name", "manager_name")

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

func (r *DepartmentRepository) FindByID(ctx context.Context, id string) (*entity.Department, error) {
	var dept entity.Department
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&dept).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &dept, nil
}

func (r *DepartmentRepository) Create(ctx context.Context, dept *entity.Department) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seq, err := nextSeq(tx, &entity.Department{})
		if err != nil {
			return err
		}
		dept.Seq = seq
		return tx.Create(dept).Error
	})
}

func (r *DepartmentRepository) Update(ctx context.Context, dept *entity.Department) error {
	return r.db.WithContext(ctx).Save(dept).Error
}

func (r *DepartmentRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Department{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *DepartmentRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	return codeExists(ctx, r.db, &entity.Department{}, code)
}

func (r *DepartmentRepository) Codes(ctx context.Context) ([]string, error) {
	return codesWithPrefix(ctx, r.db, &entity.Department{}, "DEPT")
}
