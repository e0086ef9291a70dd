package dto

import "github.com/avillada/escolar/internal/app/models"

// CreateRoleRequest represents role creation data
type CreateRoleRequest struct {
	Name    string `json:"name" binding:"required,min=2,max=50"`
	Visible *bool  `json:"visible"`
}

// UpdateRoleRequest represents role update data
type UpdateRoleRequest struct {
	Name    string `json:"name" binding:"required,min=2,max=50"`
	Visible *bool  `json:"visible"`
}

// RoleListResponse represents a paginated list of roles
type RoleListResponse struct {
	Roles []models.Role `json:"roles"`
	PaginationInfo
}

// CreatePageRequest represents page creation data
type CreatePageRequest struct {
	Name    string `json:"name" binding:"required,min=2,max=100"`
	Route   string `json:"route" binding:"required,min=1,max=200"`
	Visible *bool  `json:"visible"`
}

// UpdatePageRequest represents page update data
type UpdatePageRequest struct {
	Name    string `json:"name" binding:"required,min=2,max=100"`
	Route   string `json:"route" binding:"required,min=1,max=200"`
	Visible *bool  `json:"visible"`
}

// PageListResponse represents a paginated list of pages
type PageListResponse struct {
	Pages []models.Page `json:"pages"`
	PaginationInfo
}

// CreatePermissionRequest represents permission creation data
type CreatePermissionRequest struct {
	RoleID    int64 `json:"roleId" binding:"required,gt=0"`
	PageID    int64 `json:"pageId" binding:"required,gt=0"`
	CanView   bool  `json:"canView"`
	CanCreate bool  `json:"canCreate"`
	CanEdit   bool  `json:"canEdit"`
	CanDelete bool  `json:"canDelete"`
}

// UpdatePermissionRequest represents permission flag updates
type UpdatePermissionRequest struct {
	CanView   bool `json:"canView"`
	CanCreate bool `json:"canCreate"`
	CanEdit   bool `json:"canEdit"`
	CanDelete bool `json:"canDelete"`
}

// PermissionListResponse represents a paginated list of permissions
type PermissionListResponse struct {
	Permissions []models.Permission `json:"permissions"`
	PaginationInfo
}

// AssignRoleRequest links a role to a user
type AssignRoleRequest struct {
	UserID int64 `json:"userId" binding:"required,gt=0"`
	RoleID int64 `json:"roleId" binding:"required,gt=0"`
}
