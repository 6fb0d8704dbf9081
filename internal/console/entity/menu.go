package entity

import "time"

// Menu is one console route the permission oracle knows about.
type Menu struct {
	ID        string    `json:"id" gorm:"primaryKey;size:32"`
	RouteKey  string    `json:"route_key" gorm:"size:100;uniqueIndex;not null"`
	Label     string    `json:"label" gorm:"size:100;not null"`
	ParentID  string    `json:"parent_id" gorm:"size:32"`
	SortOrder int       `json:"sort_order" gorm:"default:0"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Menu) TableName() string {
	return "console_menus"
}

// MenuPermission grants one role a capability set on one route.
type MenuPermission struct {
	ID       string `json:"id" gorm:"primaryKey;size:32"`
	RouteKey string `json:"route_key" gorm:"size:100;not null;uniqueIndex:idx_menu_perm_route_role"`
	Role     string `json:"role" gorm:"size:50;not null;uniqueIndex:idx_menu_perm_route_role"`
	CanRead  bool   `json:"can_read"`
	CanWrite bool   `json:"can_write"`
	CanFull  bool   `json:"can_full"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (MenuPermission) TableName() string {
	return "console_menu_permissions"
}
