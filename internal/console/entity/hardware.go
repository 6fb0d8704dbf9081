package entity

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

const (
	HardwareStatusInUse   = "in_use"
	HardwareStatusInStock = "in_stock"
	HardwareStatusRepair  = "repair"
	HardwareStatusRetired = "retired"
)

// Hardware is one managed asset. Codes follow HW-YY-NNN. An asset owns its
// attachments; deleting the asset deletes them.
type Hardware struct {
	ID           string    `json:"id" gorm:"primaryKey;size:32"`
	Seq          int64     `json:"seq" gorm:"not null;index"`
	Code         string    `json:"code" gorm:"size:32;uniqueIndex;not null"`
	RegisteredAt time.Time `json:"registered_at"`
	Status       string    `json:"status" gorm:"size:20;default:in_stock"`

	AssetName    string     `json:"asset_name" gorm:"size:200;not null"`
	Model        string     `json:"model" gorm:"size:100"`
	SerialNo     string     `json:"serial_no" gorm:"size:100"`
	Vendor       string     `json:"vendor" gorm:"size:100"`
	Location     string     `json:"location" gorm:"size:200"`
	PurchaseDate *time.Time `json:"purchase_date"`
	Notes        string     `json:"notes" gorm:"type:text"`

	AssigneeName string `json:"assignee_name" gorm:"size:100"`
	TeamName     string `json:"team_name" gorm:"size:100"`

	Attachments []Attachment `json:"attachments,omitempty" gorm:"foreignKey:HardwareID"`

	CreatedBy string         `json:"created_by" gorm:"size:32"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Hardware) TableName() string {
	return "console_hardware"
}

// Attachment is a stored file owned by exactly one hardware record.
type Attachment struct {
	ID          string    `json:"id" gorm:"primaryKey;size:32"`
	HardwareID  string    `json:"hardware_id" gorm:"size:32;not null;index"`
	FileName    string    `json:"file_name" gorm:"size:300;not null"`
	ContentType string    `json:"content_type" gorm:"size:100"`
	Size        int64     `json:"size"`
	URL         string    `json:"url" gorm:"size:500"`
	UploadedBy  string    `json:"uploaded_by" gorm:"size:32"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Attachment) TableName() string {
	return "console_attachments"
}

// SizeLabel renders the byte count the way the console displays it.
func (a Attachment) SizeLabel() string {
	const (
		kb = 1 << 10
		mb = 1 << 20
	)
	switch {
	case a.Size >= mb:
		return fmt.Sprintf("%.1f MB", float64(a.Size)/mb)
	case a.Size >= kb:
		return fmt.Sprintf("%.1f KB", float64(a.Size)/kb)
	default:
		return fmt.Sprintf("%d B", a.Size)
	}
}
