package entity

import "time"

// ChangeLog is one committed change in the audit trail. Entries are
// append-only: the repository exposes create and paged reads, nothing else.
type ChangeLog struct {
	ID string `json:"id" gorm:"primaryKey;size:32"`

	// LoggedAt is the caller's wall clock at emission time, already
	// formatted YYYY-MM-DD HH:MM by the client.
	LoggedAt string `json:"logged_at" gorm:"size:16;not null;index"`

	ActorTeam string `json:"actor_team" gorm:"size:100"`
	ActorName string `json:"actor_name" gorm:"size:100"`

	Action      string `json:"action" gorm:"size:50;not null"`
	TargetCode  string `json:"target_code" gorm:"size:32;index"`
	Description string `json:"description" gorm:"type:text"`

	BeforeValue string `json:"before_value,omitempty" gorm:"type:text"`
	AfterValue  string `json:"after_value,omitempty" gorm:"type:text"`
	FieldLabel  string `json:"field_label,omitempty" gorm:"size:100"`
	EntityTitle string `json:"entity_title,omitempty" gorm:"size:200"`

	CreatedAt time.Time `json:"created_at"`
}

func (ChangeLog) TableName() string {
	return "console_change_logs"
}
