package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/avillada/escolar/internal/app/models"
	"github.com/avillada/escolar/internal/app/models/dto"
	"github.com/avillada/escolar/internal/app/repositories"
	"github.com/avillada/escolar/internal/pkg/apperrors"
)

// defaultWeeklyHours is used when neither the curriculum nor the subject
// states an hour load.
const defaultWeeklyHours = 1

type gradeFinder interface {
	GetByID(ctx context.Context, id int64) (*models.Grade, error)
}

type shiftFinder interface {
	GetByID(ctx context.Context, id int64) (*models.Shift, error)
}

type yearFinder interface {
	GetByID(ctx context.Context, id int64) (*models.SchoolYear, error)
}

type groupAssignmentLister interface {
	GetAll(ctx context.Context, filter repositories.AssignmentFilter, page, pageSize int) ([]models.TeacherAssignment, int64, error)
}

type weeklyHoursFinder interface {
	GetWeeklyHours(ctx context.Context, gradeID, subjectID, schoolYearID int64) (*int, error)
}

type absenceCounter interface {
	CountInRange(ctx context.Context, personID, subjectID int64, from, to time.Time) (excused, unexcused int, err error)
}

// ReportCardService assembles the bulletin context for a group and period
type ReportCardService struct {
	institution      string
	groupRepo        groupFinder
	gradeRepo        gradeFinder
	shiftRepo        shiftFinder
	yearRepo         yearFinder
	periodRepo       periodFinder
	enrollmentRepo   rosterStore
	assignmentRepo   groupAssignmentLister
	subjectRepo      subjectFinder
	gradeSubjectRepo weeklyHoursFinder
	scoreRepo        rosterScoreStore
	absenceRepo      absenceCounter
	now              func() time.Time
}

// NewReportCardService creates a new report card service instance
func NewReportCardService(
	institution string,
	groupRepo groupFinder,
	gradeRepo gradeFinder,
	shiftRepo shiftFinder,
	yearRepo yearFinder,
	periodRepo periodFinder,
	enrollmentRepo rosterStore,
	assignmentRepo groupAssignmentLister,
	subjectRepo subjectFinder,
	gradeSubjectRepo weeklyHoursFinder,
	scoreRepo rosterScoreStore,
	absenceRepo absenceCounter,
) *ReportCardService {
	return &ReportCardService{
		institution:      institution,
		groupRepo:        groupRepo,
		gradeRepo:        gradeRepo,
		shiftRepo:        shiftRepo,
		yearRepo:         yearRepo,
		periodRepo:       periodRepo,
		enrollmentRepo:   enrollmentRepo,
		assignmentRepo:   assignmentRepo,
		subjectRepo:      subjectRepo,
		gradeSubjectRepo: gradeSubjectRepo,
		scoreRepo:        scoreRepo,
		absenceRepo:      absenceRepo,
		now:              time.Now,
	}
}

// BuildGroupReport assembles the report card context for every active student
// of a group in one period. The period must belong to the group's school year.
func (s *ReportCardService) BuildGroupReport(ctx context.Context, groupID, periodID int64) (*dto.ReportCardContext, error) {
	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("error loading group: %w", err)
	}
	if group == nil {
		return nil, apperrors.NewResourceNotFoundError(fmt.Sprintf("group with ID %d not found", groupID))
	}

	period, err := s.periodRepo.GetByID(ctx, periodID)
	if err != nil {
		return nil, fmt.Errorf("error loading period: %w", err)
	}
	if period == nil {
		return nil, apperrors.NewResourceNotFoundError(fmt.Sprintf("period with ID %d not found", periodID))
	}
	if period.SchoolYearID != group.SchoolYearID {
		return nil, apperrors.NewBadRequestError("period does not belong to the group's school year")
	}

	grade, err := s.gradeRepo.GetByID(ctx, group.GradeID)
	if err != nil {
		return nil, fmt.Errorf("error loading grade: %w", err)
	}
	shift, err := s.shiftRepo.GetByID(ctx, group.ShiftID)
	if err != nil {
		return nil, fmt.Errorf("error loading shift: %w", err)
	}
	year, err := s.yearRepo.GetByID(ctx, group.SchoolYearID)
	if err != nil {
		return nil, fmt.Errorf("error loading school year: %w", err)
	}

	enrollments, err := s.enrollmentRepo.GetActiveStudentsByGroups(ctx, []int64{group.ID})
	if err != nil {
		return nil, fmt.Errorf("error loading students: %w", err)
	}
	if len(enrollments) == 0 {
		return nil, apperrors.NewResourceNotFoundError("no active students enrolled in the group")
	}

	subjects, err := s.groupSubjects(ctx, group)
	if err != nil {
		return nil, err
	}
	if len(subjects) == 0 {
		return nil, apperrors.NewResourceNotFoundError("no subjects assigned to the group")
	}

	hoursBySubject := make(map[int64]int, len(subjects))
	for _, subject := range subjects {
		hoursBySubject[subject.ID] = s.weeklyHours(ctx, group, subject)
	}

	personIDs := make([]int64, 0, len(enrollments))
	for _, e := range enrollments {
		personIDs = append(personIDs, e.PersonID)
	}

	scores, err := s.scoreRepo.GetForStudentsInPeriod(ctx, personIDs, periodID, group.SchoolYearID)
	if err != nil {
		return nil, fmt.Errorf("error loading scores: %w", err)
	}
	scoreByStudent := map[int64]map[int64]float64{}
	for _, sc := range scores {
		if scoreByStudent[sc.PersonID] == nil {
			scoreByStudent[sc.PersonID] = map[int64]float64{}
		}
		scoreByStudent[sc.PersonID][sc.SubjectID] = sc.Value
	}

	report := &dto.ReportCardContext{
		Institution: s.institution,
		GroupCode:   group.Code,
		PeriodName:  period.Name,
		PeriodState: string(period.Status),
		PeriodStart: period.StartDate.Format("2006-01-02"),
		PeriodEnd:   period.EndDate.Format("2006-01-02"),
		GeneratedAt: s.now().Format("2006-01-02 15:04"),
	}
	if grade != nil {
		report.GradeName = grade.Name
		report.Level = string(grade.Level)
	}
	if shift != nil {
		report.ShiftName = shift.Name
	}
	if year != nil {
		report.Year = year.Year
	}

	for _, e := range enrollments {
		student := dto.ReportCardStudent{
			PersonID:  e.PersonID,
			GroupCode: group.Code,
			Subjects:  make([]dto.ReportCardSubject, 0, len(subjects)),
		}
		if e.Person != nil {
			student.FullName = e.Person.FullName()
			student.IDNumber = e.Person.IDNumber
		}

		var sum float64
		var counted int
		for _, subject := range subjects {
			row := dto.ReportCardSubject{
				Subject:     subject.Name,
				WeeklyHours: hoursBySubject[subject.ID],
			}

			if value, ok := scoreByStudent[e.PersonID][subject.ID]; ok {
				row.Score = fmt.Sprintf("%.1f", value)
				row.Performance = models.PerformanceBand(&value)
				sum += value
				counted++
			}

			excused, unexcused, err := s.absenceRepo.CountInRange(ctx, e.PersonID, subject.ID, period.StartDate, period.EndDate)
			if err != nil {
				return nil, fmt.Errorf("error counting absences: %w", err)
			}
			row.ExcusedAbsences = excused
			row.UnexcusedAbsences = unexcused

			student.Subjects = append(student.Subjects, row)
		}

		if counted > 0 {
			student.Average = fmt.Sprintf("%.1f", sum/float64(counted))
		}
		report.Students = append(report.Students, student)
	}

	return report, nil
}

// groupSubjects resolves the subjects taught in a group from its live
// assignments, sorted by name.
func (s *ReportCardService) groupSubjects(ctx context.Context, group *models.Group) ([]*models.Subject, error) {
	filter := repositories.AssignmentFilter{
		GroupID:      &group.ID,
		SchoolYearID: &group.SchoolYearID,
	}
	assignments, _, err := s.assignmentRepo.GetAll(ctx, filter, 1, 1000)
	if err != nil {
		return nil, fmt.Errorf("error loading assignments: %w", err)
	}

	seen := map[int64]bool{}
	var subjects []*models.Subject
	for _, a := range assignments {
		if seen[a.SubjectID] {
			continue
		}
		seen[a.SubjectID] = true

		subject, err := s.subjectRepo.GetByID(ctx, a.SubjectID)
		if err != nil {
			return nil, fmt.Errorf("error loading subject: %w", err)
		}
		if subject != nil {
			subjects = append(subjects, subject)
		}
	}

	sort.Slice(subjects, func(i, j int) bool { return subjects[i].Name < subjects[j].Name })
	return subjects, nil
}

// weeklyHours resolves a subject's hour load: the grade curriculum override
// wins, then the subject's own value, then a floor of one hour.
func (s *ReportCardService) weeklyHours(ctx context.Context, group *models.Group, subject *models.Subject) int {
	hours, err := s.gradeSubjectRepo.GetWeeklyHours(ctx, group.GradeID, subject.ID, group.SchoolYearID)
	if err == nil && hours != nil && *hours > 0 {
		return *hours
	}
	if subject.WeeklyHours != nil && *subject.WeeklyHours > 0 {
		return *subject.WeeklyHours
	}
	return defaultWeeklyHours
}
