// Package repository is the gorm data access layer for the console entities.
package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("record not found")

// Repositories bundles the per-entity repositories for wiring.
type Repositories struct {
	Task       *TaskRepository
	Checklist  *ChecklistRepository
	KPI        *KPIRepository
	Hardware   *HardwareRepository
	User       *UserRepository
	Department *DepartmentRepository
	Menu       *MenuRepository
	ChangeLog  *ChangeLogRepository
}

func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Task:       NewTaskRepository(db),
		Checklist:  NewChecklistRepository(db),
		KPI:        NewKPIRepository(db),
		Hardware:   NewHardwareRepository(db),
		User:       NewUserRepository(db),
		Department: NewDepartmentRepository(db),
		Menu:       NewMenuRepository(db),
		ChangeLog:  NewChangeLogRepository(db),
	}
}

// codeExists checks Unscoped: the unique index on code covers soft-deleted
// rows too, so a deleted row's code stays taken and the generator skips it.
func codeExists(ctx context.Context, db *gorm.DB, model interface{}, code string) (bool, error) {
	var count int64
	err := db.WithContext(ctx).Unscoped().Model(model).Where("code = ?", code).Count(&count).Error
	return count > 0, err
}

// codesWithPrefix lists every code under a prefix for sequence scanning,
// soft-deleted rows included for the same reason as codeExists.
func codesWithPrefix(ctx context.Context, db *gorm.DB, model interface{}, prefix string) ([]string, error) {
	var codes []string
	err := db.WithContext(ctx).Unscoped().Model(model).
		Where("code LIKE ?", prefix+"-%").
		Pluck("code", &codes).Error
	return codes, err
}

// applyExact adds one exact-match predicate per present filter key. Filter
// keys match column names one to one.
func applyExact(query *gorm.DB, filters map[string]string, keys ...string) *gorm.DB {
	for _, key := range keys {
		if v := filters[key]; v != "" {
			query = query.Where(key+" = ?", v)
		}
	}
	return query
}

// nextSeq allocates the next display sequence number for a table.
func nextSeq(tx *gorm.DB, model interface{}) (int64, error) {
	var max int64
	err := tx.Model(model).Select("COALESCE(MAX(seq), 0)").Scan(&max).Error
	return max + 1, err
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
