package entity

import (
	"time"

	"gorm.io/gorm"
)

const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// User is one directory entry. Codes follow USR-YY-NNN.
type User struct {
	ID           string    `json:"id" gorm:"primaryKey;size:32"`
	Seq          int64     `json:"seq" gorm:"not null;index"`
	Code         string    `json:"code" gorm:"size:32;uniqueIndex;not null"`
	RegisteredAt time.Time `json:"registered_at"`
	Status       string    `json:"status" gorm:"size:20;default:active"`

	Name     string `json:"name" gorm:"size:100;not null"`
	Email    string `json:"email" gorm:"size:200"`
	Position string `json:"position" gorm:"size:100"`
	Role     string `json:"role" gorm:"size:50;default:member"`
	TeamName string `json:"team_name" gorm:"size:100"`

	// ProfileImageURL points into the file storage collaborator.
	ProfileImageURL string `json:"profile_image_url" gorm:"size:500"`

	JoinedAt *time.Time `json:"joined_at"`

	CreatedBy string         `json:"created_by" gorm:"size:32"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (User) TableName() string {
	return "console_users"
}
