package services

import (
	"context"
	"fmt"
	"time"

	"github.com/avillada/escolar/internal/app/models"
	"github.com/avillada/escolar/internal/app/models/dto"
	"github.com/avillada/escolar/internal/app/repositories"
	"github.com/avillada/escolar/internal/pkg/apperrors"
	"github.com/avillada/escolar/internal/pkg/auth"
	"github.com/avillada/escolar/internal/pkg/email"
	"github.com/avillada/escolar/internal/pkg/logger"
)

// recoveryCodeTTL is how long an emailed recovery code stays valid.
const recoveryCodeTTL = 10 * time.Minute

// developerRoleName marks the role that also sees hidden pages in its profile.
const developerRoleName = "Desarrollador"

// AuthService handles authentication and account recovery
type AuthService struct {
	userRepo     *repositories.UserRepository
	personRepo   *repositories.PersonRepository
	userRoleRepo *repositories.UserRoleRepository
	permRepo     *repositories.PermissionRepository
	pageRepo     *repositories.PageRepository
	resetRepo    *repositories.PasswordResetRepository
	jwtService   *auth.JWTService
	emailService email.EmailService
}

// NewAuthService creates a new authentication service instance
func NewAuthService(
	userRepo *repositories.UserRepository,
	personRepo *repositories.PersonRepository,
	userRoleRepo *repositories.UserRoleRepository,
	permRepo *repositories.PermissionRepository,
	pageRepo *repositories.PageRepository,
	resetRepo *repositories.PasswordResetRepository,
	jwtService *auth.JWTService,
	emailService email.EmailService,
) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		personRepo:   personRepo,
		userRoleRepo: userRoleRepo,
		permRepo:     permRepo,
		pageRepo:     pageRepo,
		resetRepo:    resetRepo,
		jwtService:   jwtService,
		emailService: emailService,
	}
}

// Login authenticates a user and issues an access token
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}
	if user == nil || !auth.CheckPassword(user.Password, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	token, expiresIn, err := s.jwtService.GenerateToken(user.ID, user.Username, user.IsTeacher)
	if err != nil {
		return nil, fmt.Errorf("error generating token: %w", err)
	}

	if user.PersonID != nil {
		person, err := s.personRepo.GetByID(ctx, *user.PersonID)
		if err == nil && person != nil {
			user.Person = person
		}
	}

	user.Password = ""
	return &dto.LoginResponse{Token: token, ExpiresIn: expiresIn, User: user}, nil
}

// GetProfile returns the user with their roles and effective page access.
// Users holding the developer role also see hidden pages.
func (s *AuthService) GetProfile(ctx context.Context, userID int64) (*dto.ProfileResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}
	if user == nil {
		return nil, apperrors.ErrUserNotFound
	}

	if user.PersonID != nil {
		person, err := s.personRepo.GetByID(ctx, *user.PersonID)
		if err == nil && person != nil {
			user.Person = person
		}
	}

	roles, err := s.userRoleRepo.GetRolesForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving roles: %w", err)
	}

	isDeveloper := false
	roleIDs := make([]int64, 0, len(roles))
	for _, role := range roles {
		roleIDs = append(roleIDs, role.ID)
		if role.Name == developerRoleName {
			isDeveloper = true
		}
	}

	pages, err := s.pageRepo.GetVisible(ctx, !isDeveloper)
	if err != nil {
		return nil, fmt.Errorf("error retrieving pages: %w", err)
	}

	var permissions []models.Permission
	if len(roleIDs) > 0 {
		permissions, err = s.permRepo.GetForRoles(ctx, roleIDs)
		if err != nil {
			return nil, fmt.Errorf("error retrieving permissions: %w", err)
		}
	}

	// the lowest-id permission row per page wins, matching the request guard
	perPage := map[int64]*models.Permission{}
	for i := range permissions {
		p := &permissions[i]
		if current, ok := perPage[p.PageID]; !ok || p.ID < current.ID {
			perPage[p.PageID] = p
		}
	}

	access := make([]dto.PageAccess, 0, len(pages))
	for _, page := range pages {
		entry := dto.PageAccess{
			PageID:  page.ID,
			Name:    page.Name,
			Route:   page.Route,
			Visible: page.Visible,
		}
		if p, ok := perPage[page.ID]; ok {
			entry.CanView = p.CanView
			entry.CanCreate = p.CanCreate
			entry.CanEdit = p.CanEdit
			entry.CanDelete = p.CanDelete
		}
		access = append(access, entry)
	}

	user.Password = ""
	return &dto.ProfileResponse{User: user, Roles: roles, Pages: access}, nil
}

// RecoverPassword generates a recovery code and emails it to the account's
// person. The response is the same whether or not the email exists, and the
// email dispatch runs after the response with any failure only logged.
func (s *AuthService) RecoverPassword(ctx context.Context, req *dto.RecoverPasswordRequest) error {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return fmt.Errorf("error retrieving user: %w", err)
	}
	if user == nil {
		logger.Info().Str("email", req.Email).Msg("Password recovery requested for unknown email")
		return nil
	}

	code, err := auth.GenerateRecoveryCode()
	if err != nil {
		return fmt.Errorf("error generating recovery code: %w", err)
	}

	if err := s.resetRepo.InvalidateForUser(ctx, user.ID); err != nil {
		return fmt.Errorf("error invalidating previous codes: %w", err)
	}

	reset := &models.PasswordReset{
		UserID:    user.ID,
		Code:      code,
		ExpiresAt: time.Now().Add(recoveryCodeTTL),
	}
	if _, err := s.resetRepo.Create(ctx, reset); err != nil {
		return fmt.Errorf("error storing recovery code: %w", err)
	}

	toName := user.Username
	if user.PersonID != nil {
		if person, err := s.personRepo.GetByID(ctx, *user.PersonID); err == nil && person != nil {
			toName = person.FullName()
		}
	}

	go func(toEmail, toName, code string) {
		if err := s.emailService.SendRecoveryCode(toEmail, toName, code); err != nil {
			logger.Error().Err(err).Str("email", toEmail).Msg("Failed to send recovery code email")
		}
	}(req.Email, toName, code)

	return nil
}

// VerifyRecoveryCode checks a recovery code without consuming it
func (s *AuthService) VerifyRecoveryCode(ctx context.Context, req *dto.VerifyCodeRequest) error {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return fmt.Errorf("error retrieving user: %w", err)
	}
	if user == nil {
		return apperrors.ErrInvalidRecoveryCode
	}

	reset, err := s.resetRepo.GetValid(ctx, user.ID, req.Code)
	if err != nil {
		return fmt.Errorf("error retrieving recovery code: %w", err)
	}
	if reset == nil {
		return apperrors.ErrInvalidRecoveryCode
	}
	return nil
}

// ResetPassword consumes a recovery code and sets a new password
func (s *AuthService) ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return fmt.Errorf("error retrieving user: %w", err)
	}
	if user == nil {
		return apperrors.ErrInvalidRecoveryCode
	}

	reset, err := s.resetRepo.GetValid(ctx, user.ID, req.Code)
	if err != nil {
		return fmt.Errorf("error retrieving recovery code: %w", err)
	}
	if reset == nil {
		return apperrors.ErrInvalidRecoveryCode
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("error updating password: %w", err)
	}

	if err := s.resetRepo.MarkUsed(ctx, reset.ID); err != nil {
		return fmt.Errorf("error consuming recovery code: %w", err)
	}

	go func(toEmail, toName string) {
		if err := s.emailService.SendPasswordChanged(toEmail, toName); err != nil {
			logger.Error().Err(err).Str("email", toEmail).Msg("Failed to send password changed email")
		}
	}(req.Email, user.Username)

	return nil
}

// ChangePassword updates the authenticated user's password
func (s *AuthService) ChangePassword(ctx context.Context, userID int64, req *dto.ChangePasswordRequest) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("error retrieving user: %w", err)
	}
	if user == nil {
		return apperrors.ErrUserNotFound
	}

	if !auth.CheckPassword(user.Password, req.CurrentPassword) {
		return apperrors.ErrInvalidPassword
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, userID, hash); err != nil {
		return fmt.Errorf("error updating password: %w", err)
	}
	return nil
}
