package services

import (
	"context"
	"fmt"

	"github.com/avillada/escolar/internal/app/models"
	"github.com/avillada/escolar/internal/pkg/apperrors"
)

// pageFinder resolves a visible page by its exact route.
type pageFinder interface {
	GetByRoute(ctx context.Context, route string) (*models.Page, error)
}

// userRoleLister lists the active role IDs of a user.
type userRoleLister interface {
	GetActiveRoleIDs(ctx context.Context, userID int64) ([]int64, error)
}

// permissionFinder resolves the first permission row a set of roles has on a page.
type permissionFinder interface {
	FirstForRolesAndPage(ctx context.Context, roleIDs []int64, pageID int64) (*models.Permission, error)
}

// AccessService decides whether a user may perform an action on a page
type AccessService struct {
	pageRepo       pageFinder
	userRoleRepo   userRoleLister
	permissionRepo permissionFinder
}

// NewAccessService creates a new access service instance
func NewAccessService(pageRepo pageFinder, userRoleRepo userRoleLister, permissionRepo permissionFinder) *AccessService {
	return &AccessService{
		pageRepo:       pageRepo,
		userRoleRepo:   userRoleRepo,
		permissionRepo: permissionRepo,
	}
}

// Authorize checks whether userID may perform action on the page registered
// under route. When several of the user's roles hold a row for the same page,
// the row with the lowest id wins. A later row with a broader grant does not
// override a narrower first match.
func (s *AccessService) Authorize(ctx context.Context, userID int64, route string, action models.Action) error {
	capability, err := action.Capability()
	if err != nil {
		return apperrors.NewBadRequestError(fmt.Sprintf("unknown action: %s", action))
	}

	page, err := s.pageRepo.GetByRoute(ctx, route)
	if err != nil {
		return fmt.Errorf("error resolving page: %w", err)
	}
	if page == nil {
		return apperrors.NewResourceNotFoundError(fmt.Sprintf("page not found for route %s", route))
	}

	roleIDs, err := s.userRoleRepo.GetActiveRoleIDs(ctx, userID)
	if err != nil {
		return fmt.Errorf("error loading user roles: %w", err)
	}
	if len(roleIDs) == 0 {
		return apperrors.NewForbiddenError("no_roles")
	}

	permission, err := s.permissionRepo.FirstForRolesAndPage(ctx, roleIDs, page.ID)
	if err != nil {
		return fmt.Errorf("error loading permission: %w", err)
	}
	if permission == nil {
		return apperrors.NewForbiddenError("no_permission")
	}

	if !permission.Allows(capability) {
		return apperrors.NewForbiddenError("denied")
	}

	return nil
}
