package entity

import (
	"time"

	"gorm.io/gorm"
)

// Task statuses form a closed set; the console renders them as
// 대기/진행/완료/홀딩.
const (
	TaskStatusPending    = "pending"
	TaskStatusInProgress = "in_progress"
	TaskStatusDone       = "done"
	TaskStatusHold       = "hold"
)

// Task is one row of the task management table. Codes follow TASK-YY-NNN.
type Task struct {
	ID           string    `json:"id" gorm:"primaryKey;size:32"`
	Seq          int64     `json:"seq" gorm:"not null;index"` // display order, descending = newest first
	Code         string    `json:"code" gorm:"size:32;uniqueIndex;not null"`
	RegisteredAt time.Time `json:"registered_at"`
	Status       string    `json:"status" gorm:"size:20;default:pending"`

	Title   string `json:"title" gorm:"size:200;not null"`
	Details string `json:"details" gorm:"type:text"`

	// Assignee and team are display-name references, resolved by the user
	// directory, not foreign keys.
	AssigneeName string `json:"assignee_name" gorm:"size:100"`
	TeamName     string `json:"team_name" gorm:"size:100"`

	DueDate *time.Time `json:"due_date"`

	CreatedBy string         `json:"created_by" gorm:"size:32"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Task) TableName() string {
	return "console_tasks"
}
