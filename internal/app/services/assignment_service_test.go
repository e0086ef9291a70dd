package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avillada/escolar/internal/app/models"
	"github.com/avillada/escolar/internal/app/models/dto"
	"github.com/avillada/escolar/internal/app/repositories"
	"github.com/avillada/escolar/internal/pkg/apperrors"
	"github.com/avillada/escolar/internal/pkg/helpers"
)

// memAssignmentStore keeps assignment rows in memory with the same matching
// rules the SQL layer applies.
type memAssignmentStore struct {
	nextID int64
	rows   []*models.TeacherAssignment
}

func newMemAssignmentStore() *memAssignmentStore {
	return &memAssignmentStore{nextID: 1}
}

func int64PtrEq(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (m *memAssignmentStore) GetAll(_ context.Context, filter repositories.AssignmentFilter, _, _ int) ([]models.TeacherAssignment, int64, error) {
	var out []models.TeacherAssignment
	for _, row := range m.rows {
		if row.DeletedAt != nil {
			continue
		}
		if filter.SubjectID != nil && row.SubjectID != *filter.SubjectID {
			continue
		}
		if filter.TeacherPersonID != nil && !int64PtrEq(row.TeacherPersonID, filter.TeacherPersonID) {
			continue
		}
		if filter.GradeID != nil && !int64PtrEq(row.GradeID, filter.GradeID) {
			continue
		}
		if filter.GroupID != nil && !int64PtrEq(row.GroupID, filter.GroupID) {
			continue
		}
		if filter.SchoolYearID != nil && !int64PtrEq(row.SchoolYearID, filter.SchoolYearID) {
			continue
		}
		out = append(out, *row)
	}
	return out, int64(len(out)), nil
}

func (m *memAssignmentStore) GetByID(_ context.Context, id int64) (*models.TeacherAssignment, error) {
	for _, row := range m.rows {
		if row.ID == id && row.DeletedAt == nil {
			copied := *row
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *memAssignmentStore) FindReusable(_ context.Context, a *models.TeacherAssignment) (*models.TeacherAssignment, error) {
	for _, row := range m.rows {
		if row.DeletedAt != nil || row.SubjectID != a.SubjectID {
			continue
		}
		open := row.TeacherPersonID == nil || row.GradeID == nil || row.GroupID == nil || row.SchoolYearID == nil
		if !open {
			continue
		}
		if (row.TeacherPersonID == nil || int64PtrEq(row.TeacherPersonID, a.TeacherPersonID)) &&
			(row.GradeID == nil || int64PtrEq(row.GradeID, a.GradeID)) &&
			(row.GroupID == nil || int64PtrEq(row.GroupID, a.GroupID)) &&
			(row.SchoolYearID == nil || int64PtrEq(row.SchoolYearID, a.SchoolYearID)) {
			copied := *row
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *memAssignmentStore) GetSiblings(_ context.Context, a *models.TeacherAssignment, gradeID, schoolYearID int64) ([]models.TeacherAssignment, error) {
	var out []models.TeacherAssignment
	for _, row := range m.rows {
		if row.DeletedAt != nil || row.ID == a.ID {
			continue
		}
		if row.SubjectID != a.SubjectID || !int64PtrEq(row.TeacherPersonID, a.TeacherPersonID) {
			continue
		}
		if row.GradeID == nil || *row.GradeID != gradeID {
			continue
		}
		if row.SchoolYearID == nil || *row.SchoolYearID != schoolYearID {
			continue
		}
		out = append(out, *row)
	}
	return out, nil
}

func (m *memAssignmentStore) GetAllLive(_ context.Context) ([]models.TeacherAssignment, error) {
	var out []models.TeacherAssignment
	for _, row := range m.rows {
		if row.DeletedAt == nil {
			out = append(out, *row)
		}
	}
	return out, nil
}

func (m *memAssignmentStore) CountDuplicates(_ context.Context) (int64, error) {
	type key struct {
		teacher, grade, group, year int64
		subject                     int64
	}
	deref := func(p *int64) int64 {
		if p == nil {
			return -1
		}
		return *p
	}
	counts := map[key]int64{}
	for _, row := range m.rows {
		if row.DeletedAt != nil {
			continue
		}
		k := key{deref(row.TeacherPersonID), deref(row.GradeID), deref(row.GroupID), deref(row.SchoolYearID), row.SubjectID}
		counts[k]++
	}
	var dup int64
	for _, c := range counts {
		if c > 1 {
			dup += c - 1
		}
	}
	return dup, nil
}

func (m *memAssignmentStore) Create(_ context.Context, a *models.TeacherAssignment) (int64, error) {
	copied := *a
	copied.ID = m.nextID
	copied.CreatedAt = time.Now()
	m.nextID++
	m.rows = append(m.rows, &copied)
	return copied.ID, nil
}

func (m *memAssignmentStore) Update(_ context.Context, a *models.TeacherAssignment) error {
	for i, row := range m.rows {
		if row.ID == a.ID && row.DeletedAt == nil {
			copied := *a
			copied.CreatedAt = row.CreatedAt
			m.rows[i] = &copied
			return nil
		}
	}
	return nil
}

func (m *memAssignmentStore) Delete(_ context.Context, id int64) (bool, error) {
	for _, row := range m.rows {
		if row.ID == id && row.DeletedAt == nil {
			now := time.Now()
			row.DeletedAt = &now
			return true, nil
		}
	}
	return false, nil
}

func (m *memAssignmentStore) HasScores(_ context.Context, _ *int64, _ int64, _ *int64) (bool, error) {
	return false, nil
}

type memGroupStore struct {
	groups []models.Group
}

func (m *memGroupStore) GetByID(_ context.Context, id int64) (*models.Group, error) {
	for _, g := range m.groups {
		if g.ID == id {
			copied := g
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *memGroupStore) GetByGradeAndYear(_ context.Context, gradeID, schoolYearID int64) ([]models.Group, error) {
	var out []models.Group
	for _, g := range m.groups {
		if g.GradeID == gradeID && g.SchoolYearID == schoolYearID {
			out = append(out, g)
		}
	}
	return out, nil
}

type memYearStore struct {
	active *models.SchoolYear
}

func (m *memYearStore) GetActive(_ context.Context) (*models.SchoolYear, error) {
	return m.active, nil
}

type stubTeacherLister struct{ teachers []models.Person }

func (s *stubTeacherLister) GetTeachers(_ context.Context) ([]models.Person, error) {
	return s.teachers, nil
}

type stubRosterStore struct{ enrollments []models.Enrollment }

func (s *stubRosterStore) GetActiveStudentsByGroups(_ context.Context, _ []int64) ([]models.Enrollment, error) {
	return s.enrollments, nil
}

type stubSubjectFinder struct{ subjects map[int64]*models.Subject }

func (s *stubSubjectFinder) GetByID(_ context.Context, id int64) (*models.Subject, error) {
	return s.subjects[id], nil
}

type stubScoreStore struct{ scores []models.Score }

func (s *stubScoreStore) GetForStudentsInPeriod(_ context.Context, _ []int64, _, _ int64) ([]models.Score, error) {
	return s.scores, nil
}

type stubSubjectAbsences struct{ counts map[absenceKey]int }

func (s *stubSubjectAbsences) CountForSubject(_ context.Context, personID, subjectID int64) (int, error) {
	return s.counts[absenceKey{personID, subjectID}], nil
}

func newAssignmentFixture(groups []models.Group) (*AssignmentService, *memAssignmentStore) {
	store := newMemAssignmentStore()
	svc := NewAssignmentService(
		store,
		&memGroupStore{groups: groups},
		&memYearStore{active: &models.SchoolYear{ID: 1, Year: 2025}},
		&stubTeacherLister{},
		&stubRosterStore{},
		&stubSubjectFinder{subjects: map[int64]*models.Subject{
			7: {ID: 7, Name: "Matemáticas"},
		}},
		&stubScoreStore{},
		&stubSubjectAbsences{},
	)
	return svc, store
}

func threeGroups() []models.Group {
	return []models.Group{
		{ID: 10, GradeID: 3, SchoolYearID: 1, Code: "3A"},
		{ID: 11, GradeID: 3, SchoolYearID: 1, Code: "3B"},
		{ID: 12, GradeID: 3, SchoolYearID: 1, Code: "3C"},
	}
}

func TestExpand_SkipsWithoutGrade(t *testing.T) {
	svc, _ := newAssignmentFixture(nil)
	a := &models.TeacherAssignment{ID: 1, SubjectID: 7, SchoolYearID: helpers.Int64Ptr(1)}

	result, err := svc.Expand(context.Background(), a, nil, nil)

	require.NoError(t, err)
	assert.False(t, result.Changed)
	assert.Zero(t, result.Created)
	assert.Equal(t, models.SkipNoGrade, result.Skipped)
}

func TestExpand_SkipsWithoutYear(t *testing.T) {
	svc, _ := newAssignmentFixture(nil)
	a := &models.TeacherAssignment{ID: 1, SubjectID: 7, GradeID: helpers.Int64Ptr(3)}

	result, err := svc.Expand(context.Background(), a, nil, nil)

	require.NoError(t, err)
	assert.Equal(t, models.SkipNoYear, result.Skipped)
}

func TestExpand_SkipsWithoutGroups(t *testing.T) {
	svc, _ := newAssignmentFixture(nil)
	a := &models.TeacherAssignment{ID: 1, SubjectID: 7, GradeID: helpers.Int64Ptr(3), SchoolYearID: helpers.Int64Ptr(1)}

	result, err := svc.Expand(context.Background(), a, nil, nil)

	require.NoError(t, err)
	assert.Equal(t, models.SkipNoGroups, result.Skipped)
}

func TestExpand_WildcardClaimsFirstGroupAndFillsTheRest(t *testing.T) {
	svc, store := newAssignmentFixture(threeGroups())
	teacher := helpers.Int64Ptr(42)
	id, err := store.Create(context.Background(), &models.TeacherAssignment{
		TeacherPersonID: teacher,
		SubjectID:       7,
		GradeID:         helpers.Int64Ptr(3),
		SchoolYearID:    helpers.Int64Ptr(1),
	})
	require.NoError(t, err)
	a, err := store.GetByID(context.Background(), id)
	require.NoError(t, err)

	result, err := svc.Expand(context.Background(), a, nil, nil)

	require.NoError(t, err)
	assert.True(t, result.Changed)
	assert.Equal(t, 2, result.Created)
	assert.Empty(t, result.Skipped)
	require.NotNil(t, a.GroupID)
	assert.Equal(t, int64(10), *a.GroupID)

	rows, err := store.GetAllLive(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 3)
	covered := map[int64]bool{}
	for _, row := range rows {
		require.NotNil(t, row.GroupID)
		covered[*row.GroupID] = true
	}
	assert.Equal(t, map[int64]bool{10: true, 11: true, 12: true}, covered)
}

func TestExpand_OccupiedSiblingIsNotDuplicated(t *testing.T) {
	svc, store := newAssignmentFixture(threeGroups())
	teacher := helpers.Int64Ptr(42)
	ctx := context.Background()

	_, err := store.Create(ctx, &models.TeacherAssignment{
		TeacherPersonID: teacher,
		SubjectID:       7,
		GradeID:         helpers.Int64Ptr(3),
		GroupID:         helpers.Int64Ptr(11),
		SchoolYearID:    helpers.Int64Ptr(1),
	})
	require.NoError(t, err)

	id, err := store.Create(ctx, &models.TeacherAssignment{
		TeacherPersonID: teacher,
		SubjectID:       7,
		GradeID:         helpers.Int64Ptr(3),
		SchoolYearID:    helpers.Int64Ptr(1),
	})
	require.NoError(t, err)
	a, err := store.GetByID(ctx, id)
	require.NoError(t, err)

	result, err := svc.Expand(ctx, a, nil, nil)

	require.NoError(t, err)
	assert.True(t, result.Changed)
	assert.Equal(t, 1, result.Created)
	require.NotNil(t, a.GroupID)
	assert.Equal(t, int64(10), *a.GroupID)

	dup, err := store.CountDuplicates(ctx)
	require.NoError(t, err)
	assert.Zero(t, dup)
}

func TestExpand_IsIdempotent(t *testing.T) {
	svc, store := newAssignmentFixture(threeGroups())
	ctx := context.Background()
	id, err := store.Create(ctx, &models.TeacherAssignment{
		TeacherPersonID: helpers.Int64Ptr(42),
		SubjectID:       7,
		GradeID:         helpers.Int64Ptr(3),
		SchoolYearID:    helpers.Int64Ptr(1),
	})
	require.NoError(t, err)
	a, err := store.GetByID(ctx, id)
	require.NoError(t, err)

	first, err := svc.Expand(ctx, a, nil, nil)
	require.NoError(t, err)
	require.Equal(t, 2, first.Created)

	again, err := store.GetByID(ctx, id)
	require.NoError(t, err)
	second, err := svc.Expand(ctx, again, nil, nil)

	require.NoError(t, err)
	assert.False(t, second.Changed)
	assert.Zero(t, second.Created)
}

func TestExpand_YearFallbackFillsOpenYear(t *testing.T) {
	svc, store := newAssignmentFixture(threeGroups())
	ctx := context.Background()
	id, err := store.Create(ctx, &models.TeacherAssignment{
		TeacherPersonID: helpers.Int64Ptr(42),
		SubjectID:       7,
		GradeID:         helpers.Int64Ptr(3),
	})
	require.NoError(t, err)
	a, err := store.GetByID(ctx, id)
	require.NoError(t, err)

	result, err := svc.Expand(ctx, a, nil, helpers.Int64Ptr(1))

	require.NoError(t, err)
	assert.True(t, result.Changed)
	assert.Equal(t, 2, result.Created)
	require.NotNil(t, a.SchoolYearID)
	assert.Equal(t, int64(1), *a.SchoolYearID)
}

func TestCreateAssignment_ReusesPartiallyFilledRow(t *testing.T) {
	svc, store := newAssignmentFixture(threeGroups())
	ctx := context.Background()

	openID, err := store.Create(ctx, &models.TeacherAssignment{SubjectID: 7})
	require.NoError(t, err)

	response, err := svc.CreateAssignment(ctx, &dto.CreateAssignmentRequest{
		TeacherPersonID: helpers.Int64Ptr(42),
		SubjectID:       7,
		GradeID:         helpers.Int64Ptr(3),
		SchoolYearID:    helpers.Int64Ptr(1),
	})

	require.NoError(t, err)
	assert.True(t, response.Reused)
	assert.Equal(t, openID, response.Assignment.ID)
	require.NotNil(t, response.Expansion)
	assert.Equal(t, 2, response.Expansion.Created)

	rows, err := store.GetAllLive(ctx)
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestDeleteAssignment_RefusedAfterEditWindow(t *testing.T) {
	svc, store := newAssignmentFixture(threeGroups())
	ctx := context.Background()
	id, err := store.Create(ctx, &models.TeacherAssignment{
		SubjectID:    7,
		GradeID:      helpers.Int64Ptr(3),
		GroupID:      helpers.Int64Ptr(10),
		SchoolYearID: helpers.Int64Ptr(1),
	})
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(6 * 24 * time.Hour) }

	err = svc.DeleteAssignment(ctx, id)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrEditWindowExpired)
}

func TestNormalize_RepairsEveryLiveAssignment(t *testing.T) {
	svc, store := newAssignmentFixture(threeGroups())
	ctx := context.Background()

	_, err := store.Create(ctx, &models.TeacherAssignment{
		TeacherPersonID: helpers.Int64Ptr(42),
		SubjectID:       7,
		GradeID:         helpers.Int64Ptr(3),
	})
	require.NoError(t, err)

	response, err := svc.Normalize(ctx)

	require.NoError(t, err)
	assert.Equal(t, 1, response.Updated)
	assert.Equal(t, 2, response.Created)
	assert.Zero(t, response.Duplicates)
}

func TestCreateAssignment_AcceptsOpenTeacher(t *testing.T) {
	svc, store := newAssignmentFixture(threeGroups())
	ctx := context.Background()

	response, err := svc.CreateAssignment(ctx, &dto.CreateAssignmentRequest{
		SubjectID: 7,
		GroupID:   helpers.Int64Ptr(10),
	})

	require.NoError(t, err)
	assert.Nil(t, response.Assignment.TeacherPersonID)
	assert.Equal(t, 2, response.Expansion.Created)

	rows, err := store.GetAllLive(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	for _, row := range rows {
		assert.Nil(t, row.TeacherPersonID)
	}
}

func TestClassRoster_CarriesScoresAndAbsenceCounts(t *testing.T) {
	store := newMemAssignmentStore()
	svc := NewAssignmentService(
		store,
		&memGroupStore{groups: threeGroups()},
		&memYearStore{active: &models.SchoolYear{ID: 1, Year: 2025}},
		&stubTeacherLister{},
		&stubRosterStore{enrollments: []models.Enrollment{
			{
				PersonID: 100,
				GroupID:  10,
				Person:   &models.Person{ID: 100, FirstName: "Laura", LastName: "Gómez"},
				Group:    &models.Group{ID: 10, Code: "3A"},
			},
			{
				PersonID: 101,
				GroupID:  10,
				Person:   &models.Person{ID: 101, FirstName: "Pedro", LastName: "Ruiz"},
				Group:    &models.Group{ID: 10, Code: "3A"},
			},
		}},
		&stubSubjectFinder{subjects: map[int64]*models.Subject{
			7: {ID: 7, Name: "Matemáticas"},
		}},
		&stubScoreStore{scores: []models.Score{
			{PersonID: 100, SubjectID: 7, PeriodID: 5, SchoolYearID: 1, Value: 4.2},
		}},
		&stubSubjectAbsences{counts: map[absenceKey]int{
			{personID: 100, subjectID: 7}: 3,
		}},
	)
	ctx := context.Background()
	id, err := store.Create(ctx, &models.TeacherAssignment{
		TeacherPersonID: helpers.Int64Ptr(42),
		SubjectID:       7,
		GradeID:         helpers.Int64Ptr(3),
		GroupID:         helpers.Int64Ptr(10),
		SchoolYearID:    helpers.Int64Ptr(1),
	})
	require.NoError(t, err)

	roster, err := svc.ClassRoster(ctx, id, helpers.Int64Ptr(5))

	require.NoError(t, err)
	require.Len(t, roster.Students, 2)

	require.NotNil(t, roster.Students[0].Score)
	assert.Equal(t, 4.2, *roster.Students[0].Score)
	assert.Equal(t, 3, roster.Students[0].Absences)

	assert.Nil(t, roster.Students[1].Score)
	assert.Zero(t, roster.Students[1].Absences)
}
