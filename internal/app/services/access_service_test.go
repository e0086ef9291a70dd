package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avillada/escolar/internal/app/models"
	"github.com/avillada/escolar/internal/pkg/apperrors"
)

type fakePageRepo struct {
	pages map[string]*models.Page
}

func (f *fakePageRepo) GetByRoute(_ context.Context, route string) (*models.Page, error) {
	return f.pages[route], nil
}

type fakeUserRoleRepo struct {
	roles map[int64][]int64
}

func (f *fakeUserRoleRepo) GetActiveRoleIDs(_ context.Context, userID int64) ([]int64, error) {
	return f.roles[userID], nil
}

type fakePermissionRepo struct {
	rows []*models.Permission
}

// firstForRolesAndPage mirrors the repository: lowest id wins among the rows
// any of the roles holds on the page.
func (f *fakePermissionRepo) FirstForRolesAndPage(_ context.Context, roleIDs []int64, pageID int64) (*models.Permission, error) {
	var best *models.Permission
	for _, row := range f.rows {
		if row.PageID != pageID {
			continue
		}
		for _, roleID := range roleIDs {
			if row.RoleID == roleID && (best == nil || row.ID < best.ID) {
				best = row
			}
		}
	}
	return best, nil
}

func newAccessFixture() (*AccessService, *fakePageRepo, *fakeUserRoleRepo, *fakePermissionRepo) {
	pages := &fakePageRepo{pages: map[string]*models.Page{
		"/scores": {ID: 10, Name: "Calificaciones", Route: "/scores", Visible: true},
	}}
	userRoles := &fakeUserRoleRepo{roles: map[int64][]int64{
		1: {100},
		2: {},
		3: {100, 200},
	}}
	permissions := &fakePermissionRepo{}
	return NewAccessService(pages, userRoles, permissions), pages, userRoles, permissions
}

func TestAuthorize_UnknownRoute(t *testing.T) {
	svc, _, _, _ := newAccessFixture()

	err := svc.Authorize(context.Background(), 1, "/nowhere", models.ActionView)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestAuthorize_UnknownAction(t *testing.T) {
	svc, _, _, _ := newAccessFixture()

	err := svc.Authorize(context.Background(), 1, "/scores", models.Action("volar"))

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
}

func TestAuthorize_NoActiveRoles(t *testing.T) {
	svc, _, _, _ := newAccessFixture()

	err := svc.Authorize(context.Background(), 2, "/scores", models.ActionView)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	assert.Equal(t, "no_roles", err.Error())
}

func TestAuthorize_NoPermissionRow(t *testing.T) {
	svc, _, _, _ := newAccessFixture()

	err := svc.Authorize(context.Background(), 1, "/scores", models.ActionView)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	assert.Equal(t, "no_permission", err.Error())
}

func TestAuthorize_FlagDenied(t *testing.T) {
	svc, _, _, perms := newAccessFixture()
	perms.rows = []*models.Permission{
		{ID: 1, RoleID: 100, PageID: 10, CanView: true, CanEdit: false},
	}

	err := svc.Authorize(context.Background(), 1, "/scores", models.ActionEdit)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	assert.Equal(t, "denied", err.Error())
}

func TestAuthorize_Granted(t *testing.T) {
	svc, _, _, perms := newAccessFixture()
	perms.rows = []*models.Permission{
		{ID: 1, RoleID: 100, PageID: 10, CanView: true, CanCreate: true},
	}

	assert.NoError(t, svc.Authorize(context.Background(), 1, "/scores", models.ActionView))
	assert.NoError(t, svc.Authorize(context.Background(), 1, "/scores", models.ActionCreate))
}

func TestAuthorize_AliasActionsRideOnBaseFlags(t *testing.T) {
	svc, _, _, perms := newAccessFixture()
	perms.rows = []*models.Permission{
		{ID: 1, RoleID: 100, PageID: 10, CanView: true, CanCreate: false},
	}

	assert.NoError(t, svc.Authorize(context.Background(), 1, "/scores", models.ActionExport))
	assert.NoError(t, svc.Authorize(context.Background(), 1, "/scores", models.ActionPrint))

	err := svc.Authorize(context.Background(), 1, "/scores", models.ActionImport)
	require.Error(t, err)
	assert.Equal(t, "denied", err.Error())
}

// A second role with a broader grant but a higher row id does not override the
// first match.
func TestAuthorize_FirstMatchWins(t *testing.T) {
	svc, _, _, perms := newAccessFixture()
	perms.rows = []*models.Permission{
		{ID: 5, RoleID: 100, PageID: 10, CanView: true, CanDelete: false},
		{ID: 9, RoleID: 200, PageID: 10, CanView: true, CanDelete: true},
	}

	err := svc.Authorize(context.Background(), 3, "/scores", models.ActionDelete)

	require.Error(t, err)
	assert.Equal(t, "denied", err.Error())
}
