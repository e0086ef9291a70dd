package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/avillada/escolar/internal/app/models"
	"github.com/avillada/escolar/internal/app/models/dto"
	"github.com/avillada/escolar/internal/app/repositories"
	"github.com/avillada/escolar/internal/pkg/apperrors"
	"github.com/avillada/escolar/internal/pkg/auth"
	"github.com/avillada/escolar/internal/pkg/dberrors"
	"github.com/avillada/escolar/internal/pkg/logger"
)

// UserService manages user accounts
type UserService struct {
	userRepo     *repositories.UserRepository
	personRepo   *repositories.PersonRepository
	userRoleRepo *repositories.UserRoleRepository
	roleRepo     *repositories.RoleRepository
}

// NewUserService creates a new user service instance
func NewUserService(
	userRepo *repositories.UserRepository,
	personRepo *repositories.PersonRepository,
	userRoleRepo *repositories.UserRoleRepository,
	roleRepo *repositories.RoleRepository,
) *UserService {
	return &UserService{
		userRepo:     userRepo,
		personRepo:   personRepo,
		userRoleRepo: userRoleRepo,
		roleRepo:     roleRepo,
	}
}

// GetUsers lists users with pagination
func (s *UserService) GetUsers(ctx context.Context, page, pageSize int) ([]models.User, int64, error) {
	users, total, err := s.userRepo.GetAll(ctx, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("error retrieving users: %w", err)
	}
	for i := range users {
		users[i].Password = ""
	}
	return users, total, nil
}

// GetUserByID retrieves one user with their person record attached
func (s *UserService) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
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

	user.Password = ""
	return user, nil
}

// CreateUser registers a user account and binds any requested roles
func (s *UserService) CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*models.User, error) {
	if req.PersonID != nil {
		person, err := s.personRepo.GetByID(ctx, *req.PersonID)
		if err != nil {
			return nil, fmt.Errorf("error loading person: %w", err)
		}
		if person == nil {
			return nil, apperrors.NewResourceNotFoundError(fmt.Sprintf("person with ID %d not found", *req.PersonID))
		}
	}

	for _, roleID := range req.RoleIDs {
		role, err := s.roleRepo.GetByID(ctx, roleID)
		if err != nil {
			return nil, fmt.Errorf("error loading role: %w", err)
		}
		if role == nil {
			return nil, apperrors.NewResourceNotFoundError(fmt.Sprintf("role with ID %d not found", roleID))
		}
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		PersonID:  req.PersonID,
		Username:  req.Username,
		Password:  hash,
		IsTeacher: req.IsTeacher,
	}

	id, err := s.userRepo.Create(ctx, user)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return nil, apperrors.ErrUsernameTaken
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	user.ID = id

	for _, roleID := range req.RoleIDs {
		if _, err := s.userRoleRepo.Assign(ctx, id, roleID); err != nil {
			logger.Error().Err(err).Int64("userId", id).Int64("roleId", roleID).Msg("Failed to assign role to new user")
		}
	}

	user.Password = ""
	return user, nil
}

// UpdateUser updates a user account
func (s *UserService) UpdateUser(ctx context.Context, id int64, req *dto.UpdateUserRequest) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}
	if user == nil {
		return nil, apperrors.ErrUserNotFound
	}

	if req.PersonID != nil {
		person, err := s.personRepo.GetByID(ctx, *req.PersonID)
		if err != nil {
			return nil, fmt.Errorf("error loading person: %w", err)
		}
		if person == nil {
			return nil, apperrors.NewResourceNotFoundError(fmt.Sprintf("person with ID %d not found", *req.PersonID))
		}
	}

	user.PersonID = req.PersonID
	user.Username = req.Username
	user.IsTeacher = req.IsTeacher

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		if dberrors.IsUniqueViolation(err) {
			return nil, apperrors.ErrUsernameTaken
		}
		return nil, fmt.Errorf("error updating user: %w", err)
	}

	user.Password = ""
	return user, nil
}

// DeleteUser soft deletes a user account
func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	deleted, err := s.userRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("error deleting user: %w", err)
	}
	if !deleted {
		return apperrors.ErrUserNotFound
	}
	return nil
}
