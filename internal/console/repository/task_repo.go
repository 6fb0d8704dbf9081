package repository

import (
	"context"

	"github.com/aimhigh31/work-ten-sub005/internal/console/entity"
	"gorm.io/gorm"
)

// TaskRepository backs the task table.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// FindAll lists tasks newest first. Filters: search (title/code/assignee
// substring), status, assignee_name, team_name, date_from/date_to on
// registration date.
func (r *TaskRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Task, int64, error) {
	var items []entity.Task
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Task{})

	if search := filters["search"]; search != "" {
		query = query.Where("title ILIKE ? OR code ILIKE ? OR assignee_name ILIKE ?",
			"%"+search+"%", "%"+search+"%", "%"+search+"%")
	}
	query = applyExact(query, filters, "status", "assignee_name", "team_name")
	if from := filters["date_from"]; from != "" {
		query = query.Where("registered_at >= ?", from)
	}
	if to := filters["date_to"]; to != "" {
		query = query.Where("registered_at <= ?", to)
	}

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

func (r *TaskRepository) FindByID(ctx context.Context, id string) (*entity.Task, error) {
	var task entity.Task
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&task).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &task, nil
}

// Create assigns the next display sequence and inserts in one transaction.
func (r *TaskRepository) Create(ctx context.Context, task *entity.Task) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seq, err := nextSeq(tx, &entity.Task{})
		if err != nil {
			return err
		}
		task.Seq = seq
		return tx.Create(task).Error
	})
}

func (r *TaskRepository) Update(ctx context.Context, task *entity.Task) error {
	return r.db.WithContext(ctx).Save(task).Error
}

// Delete soft-deletes; the row stays flagged in the store.
func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Task{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *TaskRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	return codeExists(ctx, r.db, &entity.Task{}, code)
}

func (r *TaskRepository) Codes(ctx context.Context) ([]string, error) {
	return codesWithPrefix(ctx, r.db, &entity.Task{}, "TASK")
}
