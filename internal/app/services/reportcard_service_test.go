package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avillada/escolar/internal/app/models"
	"github.com/avillada/escolar/internal/pkg/apperrors"
	"github.com/avillada/escolar/internal/pkg/helpers"
)

type stubGradeFinder struct{ grades map[int64]*models.Grade }

func (s *stubGradeFinder) GetByID(_ context.Context, id int64) (*models.Grade, error) {
	return s.grades[id], nil
}

type stubShiftFinder struct{ shifts map[int64]*models.Shift }

func (s *stubShiftFinder) GetByID(_ context.Context, id int64) (*models.Shift, error) {
	return s.shifts[id], nil
}

type stubYearFinder struct{ years map[int64]*models.SchoolYear }

func (s *stubYearFinder) GetByID(_ context.Context, id int64) (*models.SchoolYear, error) {
	return s.years[id], nil
}

type stubPeriodFinder struct{ periods map[int64]*models.Period }

func (s *stubPeriodFinder) GetByID(_ context.Context, id int64) (*models.Period, error) {
	return s.periods[id], nil
}

type stubWeeklyHoursFinder struct{ hours map[int64]int }

func (s *stubWeeklyHoursFinder) GetWeeklyHours(_ context.Context, _, subjectID, _ int64) (*int, error) {
	if h, ok := s.hours[subjectID]; ok {
		return &h, nil
	}
	return nil, nil
}

type absenceKey struct{ personID, subjectID int64 }

type stubAbsenceCounter struct {
	excused   map[absenceKey]int
	unexcused map[absenceKey]int
}

func (s *stubAbsenceCounter) CountInRange(_ context.Context, personID, subjectID int64, _, _ time.Time) (int, int, error) {
	k := absenceKey{personID, subjectID}
	return s.excused[k], s.unexcused[k], nil
}

type reportFixture struct {
	svc         *ReportCardService
	assignments *memAssignmentStore
	roster      *stubRosterStore
	scores      *stubScoreStore
	periods     *stubPeriodFinder
	hours       *stubWeeklyHoursFinder
	absences    *stubAbsenceCounter
}

func newReportFixture(t *testing.T) *reportFixture {
	t.Helper()
	ctx := context.Background()

	assignments := newMemAssignmentStore()
	for _, subjectID := range []int64{7, 8} {
		_, err := assignments.Create(ctx, &models.TeacherAssignment{
			TeacherPersonID: helpers.Int64Ptr(42),
			SubjectID:       subjectID,
			GradeID:         helpers.Int64Ptr(3),
			GroupID:         helpers.Int64Ptr(10),
			SchoolYearID:    helpers.Int64Ptr(1),
		})
		require.NoError(t, err)
	}

	f := &reportFixture{
		assignments: assignments,
		roster: &stubRosterStore{enrollments: []models.Enrollment{
			{ID: 1, PersonID: 100, GroupID: 10, SchoolYearID: 1, Active: true,
				Person: &models.Person{ID: 100, FirstName: "Ana", LastName: "García", IDNumber: "1001001"}},
			{ID: 2, PersonID: 101, GroupID: 10, SchoolYearID: 1, Active: true,
				Person: &models.Person{ID: 101, FirstName: "Luis", LastName: "Pérez", IDNumber: "1001002"}},
		}},
		scores: &stubScoreStore{scores: []models.Score{
			{PersonID: 100, SubjectID: 7, PeriodID: 5, SchoolYearID: 1, Value: 4.6},
			{PersonID: 100, SubjectID: 8, PeriodID: 5, SchoolYearID: 1, Value: 3.2},
			{PersonID: 101, SubjectID: 7, PeriodID: 5, SchoolYearID: 1, Value: 2.5},
		}},
		periods: &stubPeriodFinder{periods: map[int64]*models.Period{
			5: {ID: 5, SchoolYearID: 1, Name: "Primer Periodo", Status: models.PeriodActive,
				StartDate: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
				EndDate:   time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC)},
			6: {ID: 6, SchoolYearID: 2, Name: "Periodo Ajeno", Status: models.PeriodActive},
		}},
		hours: &stubWeeklyHoursFinder{hours: map[int64]int{7: 5}},
		absences: &stubAbsenceCounter{
			excused:   map[absenceKey]int{{101, 7}: 1},
			unexcused: map[absenceKey]int{{101, 7}: 2},
		},
	}

	f.svc = NewReportCardService(
		"Institución Educativa La Esperanza",
		&memGroupStore{groups: []models.Group{
			{ID: 10, GradeID: 3, ShiftID: 1, SchoolYearID: 1, Code: "3A"},
		}},
		&stubGradeFinder{grades: map[int64]*models.Grade{3: {ID: 3, Name: "Tercero", Level: models.LevelPrimaria}}},
		&stubShiftFinder{shifts: map[int64]*models.Shift{1: {ID: 1, Name: "Mañana"}}},
		&stubYearFinder{years: map[int64]*models.SchoolYear{1: {ID: 1, Year: 2025}}},
		f.periods,
		f.roster,
		assignments,
		&stubSubjectFinder{subjects: map[int64]*models.Subject{
			7: {ID: 7, Name: "Matemáticas"},
			8: {ID: 8, Name: "Español", WeeklyHours: intPtr(3)},
		}},
		f.hours,
		f.scores,
		f.absences,
	)
	f.svc.now = func() time.Time { return time.Date(2025, 4, 20, 9, 30, 0, 0, time.UTC) }
	return f
}

func intPtr(i int) *int { return &i }

func TestBuildGroupReport_AssemblesFullContext(t *testing.T) {
	f := newReportFixture(t)

	report, err := f.svc.BuildGroupReport(context.Background(), 10, 5)

	require.NoError(t, err)
	assert.Equal(t, "Institución Educativa La Esperanza", report.Institution)
	assert.Equal(t, "3A", report.GroupCode)
	assert.Equal(t, "Tercero", report.GradeName)
	assert.Equal(t, string(models.LevelPrimaria), report.Level)
	assert.Equal(t, "Mañana", report.ShiftName)
	assert.Equal(t, 2025, report.Year)
	assert.Equal(t, "Primer Periodo", report.PeriodName)
	assert.Equal(t, "activo", report.PeriodState)
	assert.Equal(t, "2025-02-01", report.PeriodStart)
	assert.Equal(t, "2025-04-15", report.PeriodEnd)
	assert.Equal(t, "2025-04-20 09:30", report.GeneratedAt)
	require.Len(t, report.Students, 2)

	ana := report.Students[0]
	assert.Equal(t, "García Ana", ana.FullName)
	assert.Equal(t, "1001001", ana.IDNumber)
	assert.Equal(t, "3A", ana.GroupCode)
	require.Len(t, ana.Subjects, 2)
	assert.Equal(t, "3.9", ana.Average)
}

func TestBuildGroupReport_SubjectsSortedByNameWithBands(t *testing.T) {
	f := newReportFixture(t)

	report, err := f.svc.BuildGroupReport(context.Background(), 10, 5)

	require.NoError(t, err)
	ana := report.Students[0]

	require.Equal(t, "Español", ana.Subjects[0].Subject)
	assert.Equal(t, "3.2", ana.Subjects[0].Score)
	assert.Equal(t, models.BandBasico, ana.Subjects[0].Performance)

	require.Equal(t, "Matemáticas", ana.Subjects[1].Subject)
	assert.Equal(t, "4.6", ana.Subjects[1].Score)
	assert.Equal(t, models.BandSuperior, ana.Subjects[1].Performance)
}

func TestBuildGroupReport_MissingScoreLeavesRowEmpty(t *testing.T) {
	f := newReportFixture(t)

	report, err := f.svc.BuildGroupReport(context.Background(), 10, 5)

	require.NoError(t, err)
	luis := report.Students[1]
	require.Len(t, luis.Subjects, 2)

	assert.Empty(t, luis.Subjects[0].Score)
	assert.Empty(t, luis.Subjects[0].Performance)
	assert.Equal(t, "2.5", luis.Subjects[1].Score)
	assert.Equal(t, models.BandBajo, luis.Subjects[1].Performance)
	assert.Equal(t, "2.5", luis.Average, "average skips subjects without a score")
}

func TestBuildGroupReport_WeeklyHoursPreferCurriculumOverride(t *testing.T) {
	f := newReportFixture(t)

	report, err := f.svc.BuildGroupReport(context.Background(), 10, 5)

	require.NoError(t, err)
	ana := report.Students[0]

	// Español has no override so the subject's own value wins
	assert.Equal(t, 3, ana.Subjects[0].WeeklyHours)
	// Matemáticas is overridden in the grade curriculum
	assert.Equal(t, 5, ana.Subjects[1].WeeklyHours)
}

func TestBuildGroupReport_CountsAbsencesPerSubject(t *testing.T) {
	f := newReportFixture(t)

	report, err := f.svc.BuildGroupReport(context.Background(), 10, 5)

	require.NoError(t, err)
	luis := report.Students[1]

	assert.Equal(t, 1, luis.Subjects[1].ExcusedAbsences)
	assert.Equal(t, 2, luis.Subjects[1].UnexcusedAbsences)
	assert.Zero(t, luis.Subjects[0].ExcusedAbsences)
	assert.Zero(t, luis.Subjects[0].UnexcusedAbsences)
}

func TestBuildGroupReport_UnknownGroup(t *testing.T) {
	f := newReportFixture(t)

	_, err := f.svc.BuildGroupReport(context.Background(), 99, 5)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestBuildGroupReport_PeriodFromAnotherYearRejected(t *testing.T) {
	f := newReportFixture(t)

	_, err := f.svc.BuildGroupReport(context.Background(), 10, 6)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
}

func TestBuildGroupReport_EmptyGroupRejected(t *testing.T) {
	f := newReportFixture(t)
	f.roster.enrollments = nil

	_, err := f.svc.BuildGroupReport(context.Background(), 10, 5)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestBuildGroupReport_NoSubjectsRejected(t *testing.T) {
	f := newReportFixture(t)
	for _, row := range f.assignments.rows {
		_, err := f.assignments.Delete(context.Background(), row.ID)
		require.NoError(t, err)
	}

	_, err := f.svc.BuildGroupReport(context.Background(), 10, 5)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}
