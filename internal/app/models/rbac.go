package models

import "time"

// Role defines the role model based on the 'roles' table
type Role struct {
	ID        int64      `json:"id" db:"id"`
	Name      string     `json:"name" db:"name"`
	Visible   bool       `json:"visible" db:"visible"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty" db:"updated_at"`
	DeletedAt *time.Time `json:"-" db:"deleted_at"`
}

// Page defines a navigable page of the client application
type Page struct {
	ID        int64      `json:"id" db:"id"`
	Name      string     `json:"name" db:"name"`
	Route     string     `json:"route" db:"route"`
	Visible   bool       `json:"visible" db:"visible"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty" db:"updated_at"`
	DeletedAt *time.Time `json:"-" db:"deleted_at"`
}

// Permission holds the capability flags of a role over a page
type Permission struct {
	ID        int64      `json:"id" db:"id"`
	RoleID    int64      `json:"roleId" db:"role_id"`
	PageID    int64      `json:"pageId" db:"page_id"`
	CanView   bool       `json:"canView" db:"can_view"`
	CanCreate bool       `json:"canCreate" db:"can_create"`
	CanEdit   bool       `json:"canEdit" db:"can_edit"`
	CanDelete bool       `json:"canDelete" db:"can_delete"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty" db:"updated_at"`
	DeletedAt *time.Time `json:"-" db:"deleted_at"`

	Role *Role `json:"role,omitempty"`
	Page *Page `json:"page,omitempty"`
}

// Allows reports whether the permission grants the capability
func (p Permission) Allows(c Capability) bool {
	switch c {
	case CanView:
		return p.CanView
	case CanCreate:
		return p.CanCreate
	case CanEdit:
		return p.CanEdit
	case CanDelete:
		return p.CanDelete
	default:
		return false
	}
}

// UserRole links a user to a role
type UserRole struct {
	ID        int64      `json:"id" db:"id"`
	UserID    int64      `json:"userId" db:"user_id"`
	RoleID    int64      `json:"roleId" db:"role_id"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty" db:"updated_at"`
	DeletedAt *time.Time `json:"-" db:"deleted_at"`

	Role *Role `json:"role,omitempty"`
}
