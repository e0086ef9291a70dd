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
	"github.com/avillada/escolar/internal/pkg/dberrors"
)

// RbacService manages roles, pages and permissions
type RbacService struct {
	roleRepo     *repositories.RoleRepository
	pageRepo     *repositories.PageRepository
	permRepo     *repositories.PermissionRepository
	userRoleRepo *repositories.UserRoleRepository
	userRepo     *repositories.UserRepository
}

// NewRbacService creates a new RBAC service instance
func NewRbacService(
	roleRepo *repositories.RoleRepository,
	pageRepo *repositories.PageRepository,
	permRepo *repositories.PermissionRepository,
	userRoleRepo *repositories.UserRoleRepository,
	userRepo *repositories.UserRepository,
) *RbacService {
	return &RbacService{
		roleRepo:     roleRepo,
		pageRepo:     pageRepo,
		permRepo:     permRepo,
		userRoleRepo: userRoleRepo,
		userRepo:     userRepo,
	}
}

// GetRoles lists roles with pagination
func (s *RbacService) GetRoles(ctx context.Context, page, pageSize int) ([]models.Role, int64, error) {
	roles, total, err := s.roleRepo.GetAll(ctx, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("error retrieving roles: %w", err)
	}
	return roles, total, nil
}

// GetRoleByID retrieves one role
func (s *RbacService) GetRoleByID(ctx context.Context, id int64) (*models.Role, error) {
	role, err := s.roleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error retrieving role: %w", err)
	}
	if role == nil {
		return nil, apperrors.NewResourceNotFoundError(fmt.Sprintf("role with ID %d not found", id))
	}
	return role, nil
}

// visibleOrDefault treats an omitted visibility flag as visible
func visibleOrDefault(v *bool) bool {
	if v == nil {
		return true
	}
	return *v
}

// CreateRole creates a new role
func (s *RbacService) CreateRole(ctx context.Context, req *dto.CreateRoleRequest) (*models.Role, error) {
	role := &models.Role{Name: req.Name, Visible: visibleOrDefault(req.Visible)}
	id, err := s.roleRepo.Create(ctx, role)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return nil, apperrors.NewConflictError("a role with this name already exists")
		}
		return nil, fmt.Errorf("error creating role: %w", err)
	}
	role.ID = id
	return role, nil
}

// UpdateRole updates a role
func (s *RbacService) UpdateRole(ctx context.Context, id int64, req *dto.UpdateRoleRequest) (*models.Role, error) {
	role, err := s.GetRoleByID(ctx, id)
	if err != nil {
		return nil, err
	}

	role.Name = req.Name
	role.Visible = visibleOrDefault(req.Visible)
	if err := s.roleRepo.Update(ctx, role); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewResourceNotFoundError(fmt.Sprintf("role with ID %d not found", id))
		}
		if dberrors.IsUniqueViolation(err) {
			return nil, apperrors.NewConflictError("a role with this name already exists")
		}
		return nil, fmt.Errorf("error updating role: %w", err)
	}
	return role, nil
}

// DeleteRole soft deletes a role
func (s *RbacService) DeleteRole(ctx context.Context, id int64) error {
	deleted, err := s.roleRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("error deleting role: %w", err)
	}
	if !deleted {
		return apperrors.NewResourceNotFoundError(fmt.Sprintf("role with ID %d not found", id))
	}
	return nil
}

// GetPages lists pages with pagination
func (s *RbacService) GetPages(ctx context.Context, page, pageSize int) ([]models.Page, int64, error) {
	pages, total, err := s.pageRepo.GetAll(ctx, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("error retrieving pages: %w", err)
	}
	return pages, total, nil
}

// GetPageByID retrieves one page
func (s *RbacService) GetPageByID(ctx context.Context, id int64) (*models.Page, error) {
	page, err := s.pageRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error retrieving page: %w", err)
	}
	if page == nil {
		return nil, apperrors.NewResourceNotFoundError(fmt.Sprintf("page with ID %d not found", id))
	}
	return page, nil
}

// CreatePage registers a new page
func (s *RbacService) CreatePage(ctx context.Context, req *dto.CreatePageRequest) (*models.Page, error) {
	page := &models.Page{Name: req.Name, Route: req.Route, Visible: visibleOrDefault(req.Visible)}
	id, err := s.pageRepo.Create(ctx, page)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return nil, apperrors.NewConflictError("a page with this route already exists")
		}
		return nil, fmt.Errorf("error creating page: %w", err)
	}
	page.ID = id
	return page, nil
}

// UpdatePage updates a page
func (s *RbacService) UpdatePage(ctx context.Context, id int64, req *dto.UpdatePageRequest) (*models.Page, error) {
	page, err := s.GetPageByID(ctx, id)
	if err != nil {
		return nil, err
	}

	page.Name = req.Name
	page.Route = req.Route
	page.Visible = visibleOrDefault(req.Visible)
	if err := s.pageRepo.Update(ctx, page); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewResourceNotFoundError(fmt.Sprintf("page with ID %d not found", id))
		}
		if dberrors.IsUniqueViolation(err) {
			return nil, apperrors.NewConflictError("a page with this route already exists")
		}
		return nil, fmt.Errorf("error updating page: %w", err)
	}
	return page, nil
}

// DeletePage soft deletes a page
func (s *RbacService) DeletePage(ctx context.Context, id int64) error {
	deleted, err := s.pageRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("error deleting page: %w", err)
	}
	if !deleted {
		return apperrors.NewResourceNotFoundError(fmt.Sprintf("page with ID %d not found", id))
	}
	return nil
}

// GetPermissions lists permissions, optionally filtered by role or page
func (s *RbacService) GetPermissions(ctx context.Context, roleID, pageID *int64, page, pageSize int) ([]models.Permission, int64, error) {
	permissions, total, err := s.permRepo.GetAll(ctx, roleID, pageID, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("error retrieving permissions: %w", err)
	}
	return permissions, total, nil
}

// CreatePermission grants a role capabilities on a page
func (s *RbacService) CreatePermission(ctx context.Context, req *dto.CreatePermissionRequest) (*models.Permission, error) {
	if _, err := s.GetRoleByID(ctx, req.RoleID); err != nil {
		return nil, err
	}
	if _, err := s.GetPageByID(ctx, req.PageID); err != nil {
		return nil, err
	}

	perm := &models.Permission{
		RoleID:    req.RoleID,
		PageID:    req.PageID,
		CanView:   req.CanView,
		CanCreate: req.CanCreate,
		CanEdit:   req.CanEdit,
		CanDelete: req.CanDelete,
	}
	id, err := s.permRepo.Create(ctx, perm)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return nil, apperrors.NewConflictError("a permission already exists for this role and page")
		}
		return nil, fmt.Errorf("error creating permission: %w", err)
	}
	perm.ID = id
	return perm, nil
}

// UpdatePermission changes the capability flags of a permission
func (s *RbacService) UpdatePermission(ctx context.Context, id int64, req *dto.UpdatePermissionRequest) (*models.Permission, error) {
	perm, err := s.permRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error retrieving permission: %w", err)
	}
	if perm == nil {
		return nil, apperrors.NewResourceNotFoundError(fmt.Sprintf("permission with ID %d not found", id))
	}

	perm.CanView = req.CanView
	perm.CanCreate = req.CanCreate
	perm.CanEdit = req.CanEdit
	perm.CanDelete = req.CanDelete
	if err := s.permRepo.Update(ctx, perm); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewResourceNotFoundError(fmt.Sprintf("permission with ID %d not found", id))
		}
		return nil, fmt.Errorf("error updating permission: %w", err)
	}
	return perm, nil
}

// DeletePermission soft deletes a permission
func (s *RbacService) DeletePermission(ctx context.Context, id int64) error {
	deleted, err := s.permRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("error deleting permission: %w", err)
	}
	if !deleted {
		return apperrors.NewResourceNotFoundError(fmt.Sprintf("permission with ID %d not found", id))
	}
	return nil
}

// AssignRole binds a role to a user
func (s *RbacService) AssignRole(ctx context.Context, req *dto.AssignRoleRequest) error {
	user, err := s.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		return fmt.Errorf("error retrieving user: %w", err)
	}
	if user == nil {
		return apperrors.ErrUserNotFound
	}
	if _, err := s.GetRoleByID(ctx, req.RoleID); err != nil {
		return err
	}

	if _, err := s.userRoleRepo.Assign(ctx, req.UserID, req.RoleID); err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.NewConflictError("the user already holds this role")
		}
		return fmt.Errorf("error assigning role: %w", err)
	}
	return nil
}

// RemoveRole unbinds a role from a user
func (s *RbacService) RemoveRole(ctx context.Context, userRoleID int64) error {
	removed, err := s.userRoleRepo.Remove(ctx, userRoleID)
	if err != nil {
		return fmt.Errorf("error removing role: %w", err)
	}
	if !removed {
		return apperrors.NewResourceNotFoundError(fmt.Sprintf("role assignment with ID %d not found", userRoleID))
	}
	return nil
}

// GetUserRoles lists a user's active roles
func (s *RbacService) GetUserRoles(ctx context.Context, userID int64) ([]models.Role, error) {
	roles, err := s.userRoleRepo.GetRolesForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving user roles: %w", err)
	}
	return roles, nil
}
