package dto

import "github.com/avillada/escolar/internal/app/models"

// LoginRequest represents user login credentials
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued access token
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresIn int          `json:"expiresIn"`
	User      *models.User `json:"user"`
}

// RecoverPasswordRequest starts the password recovery flow
type RecoverPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// VerifyCodeRequest checks a recovery code without consuming it
type VerifyCodeRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,len=6"`
}

// ResetPasswordRequest consumes a recovery code and sets a new password
type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Code        string `json:"code" binding:"required,len=6"`
	NewPassword string `json:"newPassword" binding:"required,min=8"`
}

// ChangePasswordRequest updates the authenticated user's password
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8"`
}

// PageAccess is one page of the profile permission matrix
type PageAccess struct {
	PageID    int64  `json:"pageId"`
	Name      string `json:"name"`
	Route     string `json:"route"`
	Visible   bool   `json:"visible"`
	CanView   bool   `json:"canView"`
	CanCreate bool   `json:"canCreate"`
	CanEdit   bool   `json:"canEdit"`
	CanDelete bool   `json:"canDelete"`
}

// ProfileResponse is the authenticated user's profile with effective access
type ProfileResponse struct {
	User  *models.User  `json:"user"`
	Roles []models.Role `json:"roles"`
	Pages []PageAccess  `json:"pages"`
}
