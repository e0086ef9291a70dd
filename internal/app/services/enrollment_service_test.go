package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avillada/escolar/internal/app/models"
	"github.com/avillada/escolar/internal/app/models/dto"
	"github.com/avillada/escolar/internal/pkg/apperrors"
)

type memEnrollmentStore struct {
	nextID int64
	rows   []*models.Enrollment
}

func newMemEnrollmentStore() *memEnrollmentStore {
	return &memEnrollmentStore{nextID: 1}
}

func (m *memEnrollmentStore) GetAll(_ context.Context, _, _, _ *int64, _, _ int) ([]models.Enrollment, int64, error) {
	var out []models.Enrollment
	for _, row := range m.rows {
		if row.DeletedAt == nil {
			out = append(out, *row)
		}
	}
	return out, int64(len(out)), nil
}

func (m *memEnrollmentStore) GetByID(_ context.Context, id int64) (*models.Enrollment, error) {
	for _, row := range m.rows {
		if row.ID == id && row.DeletedAt == nil {
			copied := *row
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *memEnrollmentStore) CountActiveByGroup(_ context.Context, groupID int64, excludeID *int64) (int, error) {
	count := 0
	for _, row := range m.rows {
		if row.DeletedAt != nil || !row.Active || row.GroupID != groupID {
			continue
		}
		if excludeID != nil && row.ID == *excludeID {
			continue
		}
		count++
	}
	return count, nil
}

func (m *memEnrollmentStore) Create(_ context.Context, e *models.Enrollment) (int64, error) {
	copied := *e
	copied.ID = m.nextID
	m.nextID++
	m.rows = append(m.rows, &copied)
	return copied.ID, nil
}

func (m *memEnrollmentStore) Update(_ context.Context, e *models.Enrollment) error {
	for i, row := range m.rows {
		if row.ID == e.ID && row.DeletedAt == nil {
			copied := *e
			m.rows[i] = &copied
			return nil
		}
	}
	return nil
}

func (m *memEnrollmentStore) Delete(_ context.Context, id int64) (bool, error) {
	for _, row := range m.rows {
		if row.ID == id && row.DeletedAt == nil {
			now := time.Now()
			row.DeletedAt = &now
			return true, nil
		}
	}
	return false, nil
}

func newEnrollmentFixture(capacity int) (*EnrollmentService, *memEnrollmentStore) {
	store := newMemEnrollmentStore()
	groups := &memGroupStore{groups: []models.Group{
		{ID: 10, GradeID: 3, SchoolYearID: 1, Code: "3A", Capacity: capacity},
		{ID: 11, GradeID: 3, SchoolYearID: 1, Code: "3B", Capacity: capacity},
	}}
	return NewEnrollmentService(store, groups), store
}

func enrollN(t *testing.T, svc *EnrollmentService, groupID int64, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		_, err := svc.CreateEnrollment(context.Background(), &dto.CreateEnrollmentRequest{
			PersonID:     int64(100 + i),
			GroupID:      groupID,
			SchoolYearID: 1,
		})
		require.NoError(t, err)
	}
}

func TestCreateEnrollment_RefusedWhenGroupFull(t *testing.T) {
	svc, _ := newEnrollmentFixture(2)
	enrollN(t, svc, 10, 2)

	_, err := svc.CreateEnrollment(context.Background(), &dto.CreateEnrollmentRequest{
		PersonID:     200,
		GroupID:      10,
		SchoolYearID: 1,
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrGroupFull)
}

func TestCreateEnrollment_ZeroCapacityIsUnbounded(t *testing.T) {
	svc, _ := newEnrollmentFixture(0)
	enrollN(t, svc, 10, 40)

	_, err := svc.CreateEnrollment(context.Background(), &dto.CreateEnrollmentRequest{
		PersonID:     200,
		GroupID:      10,
		SchoolYearID: 1,
	})

	assert.NoError(t, err)
}

func TestUpdateEnrollment_MoveExcludesOwnRowFromCount(t *testing.T) {
	svc, store := newEnrollmentFixture(1)
	enrollment, err := svc.CreateEnrollment(context.Background(), &dto.CreateEnrollmentRequest{
		PersonID:     100,
		GroupID:      10,
		SchoolYearID: 1,
	})
	require.NoError(t, err)

	// re-activating inside the same full group must not count itself
	updated, err := svc.UpdateEnrollment(context.Background(), enrollment.ID, &dto.UpdateEnrollmentRequest{
		GroupID: 10,
		Active:  true,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(10), updated.GroupID)

	row, err := store.GetByID(context.Background(), enrollment.ID)
	require.NoError(t, err)
	assert.True(t, row.Active)
}

func TestUpdateEnrollment_MoveToFullGroupRefused(t *testing.T) {
	svc, _ := newEnrollmentFixture(1)
	enrollN(t, svc, 11, 1)
	enrollment, err := svc.CreateEnrollment(context.Background(), &dto.CreateEnrollmentRequest{
		PersonID:     200,
		GroupID:      10,
		SchoolYearID: 1,
	})
	require.NoError(t, err)

	_, err = svc.UpdateEnrollment(context.Background(), enrollment.ID, &dto.UpdateEnrollmentRequest{
		GroupID: 11,
		Active:  true,
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrGroupFull)
}

func TestCreateEnrollment_BadDateRejected(t *testing.T) {
	svc, _ := newEnrollmentFixture(0)

	_, err := svc.CreateEnrollment(context.Background(), &dto.CreateEnrollmentRequest{
		PersonID:     100,
		GroupID:      10,
		SchoolYearID: 1,
		EnrolledOn:   "03/02/2025",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
}
