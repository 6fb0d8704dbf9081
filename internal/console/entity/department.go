package entity

import (
	"time"

	"gorm.io/gorm"
)

const (
	DepartmentStatusActive = "active"
	DepartmentStatusClosed = "closed"
)

// Department is one organizational unit. Codes follow DEPT-YY-NNN.
type Department struct {
	ID           string    `json:"id" gorm:"primaryKey;size:32"`
	Seq          int64     `json:"seq" gorm:"not null;index"`
	Code         string    `json:"code" gorm:"size:32;uniqueIndex;not null"`
	RegisteredAt time.Time `json:"registered_at"`
	Status       string    `json:"status" gorm:"size:20;default:active"`

	Name        string `json:"name" gorm:"size:100;not null"`
	ParentName  string `json:"parent_name" gorm:"size:100"`
	ManagerName string `json:"manager_name" gorm:"size:100"`
	Notes       string `json:"notes" gorm:"type:text"`

	CreatedBy string         `json:"created_by" gorm:"size:32"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Department) TableName() string {
	return "console_departments"
}
