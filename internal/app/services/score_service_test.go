package services

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avillada/escolar/internal/app/models"
	"github.com/avillada/escolar/internal/app/models/dto"
	"github.com/avillada/escolar/internal/pkg/apperrors"
)

type memScoreStore struct {
	nextID int64
	rows   []*models.Score
}

func newMemScoreStore() *memScoreStore {
	return &memScoreStore{nextID: 1}
}

func (m *memScoreStore) GetAll(_ context.Context, _, _, _, _ *int64, _, _ int) ([]models.Score, int64, error) {
	var out []models.Score
	for _, row := range m.rows {
		if row.DeletedAt == nil {
			out = append(out, *row)
		}
	}
	return out, int64(len(out)), nil
}

func (m *memScoreStore) GetByID(_ context.Context, id int64) (*models.Score, error) {
	for _, row := range m.rows {
		if row.ID == id && row.DeletedAt == nil {
			copied := *row
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *memScoreStore) Create(_ context.Context, s *models.Score) (int64, error) {
	for _, row := range m.rows {
		if row.DeletedAt == nil &&
			row.PersonID == s.PersonID && row.SubjectID == s.SubjectID && row.PeriodID == s.PeriodID {
			return 0, &pgconn.PgError{Code: "23505", ConstraintName: "idx_scores_row"}
		}
	}
	copied := *s
	copied.ID = m.nextID
	m.nextID++
	m.rows = append(m.rows, &copied)
	return copied.ID, nil
}

func (m *memScoreStore) Update(_ context.Context, s *models.Score) error {
	for i, row := range m.rows {
		if row.ID == s.ID && row.DeletedAt == nil {
			copied := *s
			m.rows[i] = &copied
			return nil
		}
	}
	return nil
}

func (m *memScoreStore) Delete(_ context.Context, id int64) (bool, error) {
	for _, row := range m.rows {
		if row.ID == id && row.DeletedAt == nil {
			now := time.Now()
			row.DeletedAt = &now
			return true, nil
		}
	}
	return false, nil
}

func newScoreFixture() (*ScoreService, *memScoreStore) {
	store := newMemScoreStore()
	periods := &stubPeriodFinder{periods: map[int64]*models.Period{
		5: {ID: 5, SchoolYearID: 1, Name: "Primer Periodo", Status: models.PeriodActive},
		6: {ID: 6, SchoolYearID: 1, Name: "Periodo Cerrado", Status: models.PeriodClosed},
	}}
	return NewScoreService(store, periods), store
}

func TestCreateScore_RegistersInOpenPeriod(t *testing.T) {
	svc, _ := newScoreFixture()

	score, err := svc.CreateScore(context.Background(), 9, &dto.CreateScoreRequest{
		PersonID: 100, SubjectID: 7, PeriodID: 5, SchoolYearID: 1, Value: 4.5,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(9), score.TeacherUserID)
	assert.Equal(t, 4.5, score.Value)
}

func TestCreateScore_RefusedInClosedPeriod(t *testing.T) {
	svc, _ := newScoreFixture()

	_, err := svc.CreateScore(context.Background(), 9, &dto.CreateScoreRequest{
		PersonID: 100, SubjectID: 7, PeriodID: 6, SchoolYearID: 1, Value: 4.5,
	})
	assert.ErrorIs(t, err, apperrors.ErrPeriodClosed)
}

func TestCreateScore_UnknownPeriod(t *testing.T) {
	svc, _ := newScoreFixture()

	_, err := svc.CreateScore(context.Background(), 9, &dto.CreateScoreRequest{
		PersonID: 100, SubjectID: 7, PeriodID: 99, SchoolYearID: 1, Value: 4.5,
	})
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestCreateScore_DuplicateRowIsConflict(t *testing.T) {
	svc, _ := newScoreFixture()
	ctx := context.Background()

	_, err := svc.CreateScore(ctx, 9, &dto.CreateScoreRequest{
		PersonID: 100, SubjectID: 7, PeriodID: 5, SchoolYearID: 1, Value: 4.0,
	})
	require.NoError(t, err)

	_, err = svc.CreateScore(ctx, 9, &dto.CreateScoreRequest{
		PersonID: 100, SubjectID: 7, PeriodID: 5, SchoolYearID: 1, Value: 3.0,
	})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestCreateScore_ValueOutOfRange(t *testing.T) {
	svc, _ := newScoreFixture()

	_, err := svc.CreateScore(context.Background(), 9, &dto.CreateScoreRequest{
		PersonID: 100, SubjectID: 7, PeriodID: 5, SchoolYearID: 1, Value: 5.5,
	})
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
}

func TestUpdateScore_RefusedOncePeriodCloses(t *testing.T) {
	svc, store := newScoreFixture()
	ctx := context.Background()

	score, err := svc.CreateScore(ctx, 9, &dto.CreateScoreRequest{
		PersonID: 100, SubjectID: 7, PeriodID: 5, SchoolYearID: 1, Value: 4.0,
	})
	require.NoError(t, err)

	updated, err := svc.UpdateScore(ctx, score.ID, &dto.UpdateScoreRequest{Value: 4.8})
	require.NoError(t, err)
	assert.Equal(t, 4.8, updated.Value)

	// Close the period and try again
	for _, row := range store.rows {
		if row.ID == score.ID {
			row.PeriodID = 6
		}
	}
	_, err = svc.UpdateScore(ctx, score.ID, &dto.UpdateScoreRequest{Value: 2.0})
	assert.ErrorIs(t, err, apperrors.ErrPeriodClosed)
}

func TestDeleteScore_RemovesRowWhilePeriodOpen(t *testing.T) {
	svc, _ := newScoreFixture()
	ctx := context.Background()

	score, err := svc.CreateScore(ctx, 9, &dto.CreateScoreRequest{
		PersonID: 100, SubjectID: 7, PeriodID: 5, SchoolYearID: 1, Value: 4.0,
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteScore(ctx, score.ID))

	_, err = svc.GetScoreByID(ctx, score.ID)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}
