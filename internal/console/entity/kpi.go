package entity

import (
	"time"

	"gorm.io/gorm"
)

const (
	KPIStatusOnTrack = "on_track"
	KPIStatusAtRisk  = "at_risk"
	KPIStatusMissed  = "missed"
	KPIStatusPending = "pending"
)

// KPIRecord is one tracked indicator for one period. Codes follow KPI-YY-NNN.
type KPIRecord struct {
	ID           string    `json:"id" gorm:"primaryKey;size:32"`
	Seq          int64     `json:"seq" gorm:"not null;index"`
	Code         string    `json:"code" gorm:"size:32;uniqueIndex;not null"`
	RegisteredAt time.Time `json:"registered_at"`
	Status       string    `json:"status" gorm:"size:20;default:pending"`

	Metric      string  `json:"metric" gorm:"size:200;not null"`
	Period      string  `json:"period" gorm:"size:10"` // YYYY-MM
	TargetValue float64 `json:"target_value" gorm:"type:decimal(15,2)"`
	ActualValue float64 `json:"actual_value" gorm:"type:decimal(15,2)"`
	Unit        string  `json:"unit" gorm:"size:20"`
	Notes       string  `json:"notes" gorm:"type:text"`

	OwnerName string `json:"owner_name" gorm:"size:100"`
	TeamName  string `json:"team_name" gorm:"size:100"`

	CreatedBy string         `json:"created_by" gorm:"size:32"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (KPIRecord) TableName() string {
	return "console_kpi_records"
}
