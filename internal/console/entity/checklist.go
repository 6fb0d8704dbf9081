package entity

import (
	"time"

	"gorm.io/gorm"
)

const (
	ChecklistCycleDaily   = "daily"
	ChecklistCycleWeekly  = "weekly"
	ChecklistCycleMonthly = "monthly"

	ChecklistStatusPending = "pending"
	ChecklistStatusDone    = "done"
	ChecklistStatusSkipped = "skipped"
)

// Checklist is one recurring operational check item. Codes follow CHK-YY-NNN.
type Checklist struct {
	ID           string    `json:"id" gorm:"primaryKey;size:32"`
	Seq          int64     `json:"seq" gorm:"not null;index"`
	Code         string    `json:"code" gorm:"size:32;uniqueIndex;not null"`
	RegisteredAt time.Time `json:"registered_at"`
	Status       string    `json:"status" gorm:"size:20;default:pending"`

	Title     string `json:"title" gorm:"size:200;not null"`
	Category  string `json:"category" gorm:"size:50"`
	CycleType string `json:"cycle_type" gorm:"size:20;default:weekly"`
	Notes     string `json:"notes" gorm:"type:text"`

	AssigneeName string `json:"assignee_name" gorm:"size:100"`
	TeamName     string `json:"team_name" gorm:"size:100"`

	CreatedBy string         `json:"created_by" gorm:"size:32"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Checklist) TableName() string {
	return "console_checklists"
}
