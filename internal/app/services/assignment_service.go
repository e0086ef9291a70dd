package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/avillada/escolar/internal/app/models"
	"github.com/avillada/escolar/internal/app/models/dto"
	"github.com/avillada/escolar/internal/app/repositories"
	"github.com/avillada/escolar/internal/pkg/apperrors"
	"github.com/avillada/escolar/internal/pkg/dberrors"
	"github.com/avillada/escolar/internal/pkg/helpers"
	"github.com/avillada/escolar/internal/pkg/logger"
)

// editWindowDays is how long after creation an assignment stays editable.
const editWindowDays = 5

type assignmentStore interface {
	GetAll(ctx context.Context, filter repositories.AssignmentFilter, page, pageSize int) ([]models.TeacherAssignment, int64, error)
	GetByID(ctx context.Context, id int64) (*models.TeacherAssignment, error)
	FindReusable(ctx context.Context, a *models.TeacherAssignment) (*models.TeacherAssignment, error)
	GetSiblings(ctx context.Context, a *models.TeacherAssignment, gradeID, schoolYearID int64) ([]models.TeacherAssignment, error)
	GetAllLive(ctx context.Context) ([]models.TeacherAssignment, error)
	CountDuplicates(ctx context.Context) (int64, error)
	Create(ctx context.Context, a *models.TeacherAssignment) (int64, error)
	Update(ctx context.Context, a *models.TeacherAssignment) error
	Delete(ctx context.Context, id int64) (bool, error)
	HasScores(ctx context.Context, teacherPersonID *int64, subjectID int64, schoolYearID *int64) (bool, error)
}

type groupStore interface {
	GetByID(ctx context.Context, id int64) (*models.Group, error)
	GetByGradeAndYear(ctx context.Context, gradeID, schoolYearID int64) ([]models.Group, error)
}

type activeYearFinder interface {
	GetActive(ctx context.Context) (*models.SchoolYear, error)
}

type teacherLister interface {
	GetTeachers(ctx context.Context) ([]models.Person, error)
}

type rosterStore interface {
	GetActiveStudentsByGroups(ctx context.Context, groupIDs []int64) ([]models.Enrollment, error)
}

type subjectFinder interface {
	GetByID(ctx context.Context, id int64) (*models.Subject, error)
}

type rosterScoreStore interface {
	GetForStudentsInPeriod(ctx context.Context, personIDs []int64, periodID, schoolYearID int64) ([]models.Score, error)
}

type subjectAbsenceCounter interface {
	CountForSubject(ctx context.Context, personID, subjectID int64) (int, error)
}

// AssignmentService manages teacher assignments and their group expansion
type AssignmentService struct {
	assignmentRepo assignmentStore
	groupRepo      groupStore
	yearRepo       activeYearFinder
	personRepo     teacherLister
	enrollmentRepo rosterStore
	subjectRepo    subjectFinder
	scoreRepo      rosterScoreStore
	absenceRepo    subjectAbsenceCounter
	now            func() time.Time
}

// NewAssignmentService creates a new assignment service instance
func NewAssignmentService(
	assignmentRepo assignmentStore,
	groupRepo groupStore,
	yearRepo activeYearFinder,
	personRepo teacherLister,
	enrollmentRepo rosterStore,
	subjectRepo subjectFinder,
	scoreRepo rosterScoreStore,
	absenceRepo subjectAbsenceCounter,
) *AssignmentService {
	return &AssignmentService{
		assignmentRepo: assignmentRepo,
		groupRepo:      groupRepo,
		yearRepo:       yearRepo,
		personRepo:     personRepo,
		enrollmentRepo: enrollmentRepo,
		subjectRepo:    subjectRepo,
		scoreRepo:      scoreRepo,
		absenceRepo:    absenceRepo,
		now:            time.Now,
	}
}

// mapAssignmentWriteError turns a unique violation on the assignment tuple
// into a conflict outcome. The constraint is the serialization point for
// concurrent expansions, so the violation is surfaced, never retried.
func mapAssignmentWriteError(err error) error {
	if dberrors.IsUniqueViolation(err) {
		return apperrors.NewConflictError("an assignment already exists for this teacher, subject, grade, group and year")
	}
	return err
}

// checkGroupMatchesGrade validates that a requested group belongs to the
// requested grade and year, filling either in from the group when absent.
func (s *AssignmentService) checkGroupMatchesGrade(ctx context.Context, a *models.TeacherAssignment) error {
	if a.GroupID == nil {
		return nil
	}

	group, err := s.groupRepo.GetByID(ctx, *a.GroupID)
	if err != nil {
		return fmt.Errorf("error loading group: %w", err)
	}
	if group == nil {
		return apperrors.NewResourceNotFoundError(fmt.Sprintf("group with ID %d not found", *a.GroupID))
	}

	if a.GradeID != nil && *a.GradeID != group.GradeID {
		return apperrors.NewBadRequestError("group does not belong to the requested grade")
	}
	if a.SchoolYearID != nil && *a.SchoolYearID != group.SchoolYearID {
		return apperrors.NewBadRequestError("group does not belong to the requested school year")
	}

	if a.GradeID == nil {
		a.GradeID = helpers.Int64Ptr(group.GradeID)
	}
	if a.SchoolYearID == nil {
		a.SchoolYearID = helpers.Int64Ptr(group.SchoolYearID)
	}

	return nil
}

// GetAssignments lists assignments with optional filters
func (s *AssignmentService) GetAssignments(ctx context.Context, filter repositories.AssignmentFilter, page, pageSize int) ([]models.TeacherAssignment, int64, error) {
	assignments, total, err := s.assignmentRepo.GetAll(ctx, filter, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("error retrieving assignments: %w", err)
	}
	return assignments, total, nil
}

// GetAssignmentByID retrieves one assignment
func (s *AssignmentService) GetAssignmentByID(ctx context.Context, id int64) (*models.TeacherAssignment, error) {
	assignment, err := s.assignmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error retrieving assignment: %w", err)
	}
	if assignment == nil {
		return nil, apperrors.NewResourceNotFoundError(fmt.Sprintf("assignment with ID %d not found", id))
	}
	return assignment, nil
}

// CreateAssignment creates an assignment, reusing a partially filled row when
// one matches the request, and expands it into per-group rows.
func (s *AssignmentService) CreateAssignment(ctx context.Context, req *dto.CreateAssignmentRequest) (*dto.AssignmentResponse, error) {
	candidate := &models.TeacherAssignment{
		TeacherPersonID: req.TeacherPersonID,
		SubjectID:       req.SubjectID,
		GradeID:         req.GradeID,
		GroupID:         req.GroupID,
		SchoolYearID:    req.SchoolYearID,
	}

	if err := s.checkGroupMatchesGrade(ctx, candidate); err != nil {
		return nil, err
	}

	reusable, err := s.assignmentRepo.FindReusable(ctx, candidate)
	if err != nil {
		return nil, fmt.Errorf("error searching reusable assignment: %w", err)
	}

	if reusable != nil {
		if s.fillOpenFields(reusable, candidate) {
			if err := s.assignmentRepo.Update(ctx, reusable); err != nil {
				return nil, mapAssignmentWriteError(err)
			}
		}
		expansion, err := s.Expand(ctx, reusable, nil, nil)
		if err != nil {
			return nil, err
		}
		return &dto.AssignmentResponse{Assignment: reusable, Expansion: expansion, Reused: true}, nil
	}

	id, err := s.assignmentRepo.Create(ctx, candidate)
	if err != nil {
		return nil, mapAssignmentWriteError(err)
	}
	candidate.ID = id

	expansion, err := s.Expand(ctx, candidate, nil, nil)
	if err != nil {
		return nil, err
	}
	return &dto.AssignmentResponse{Assignment: candidate, Expansion: expansion}, nil
}

// fillOpenFields copies fields the reused row left open from the request.
// Returns true when the row was mutated.
func (s *AssignmentService) fillOpenFields(dst, src *models.TeacherAssignment) bool {
	changed := false
	if dst.TeacherPersonID == nil && src.TeacherPersonID != nil {
		dst.TeacherPersonID = src.TeacherPersonID
		changed = true
	}
	if dst.GradeID == nil && src.GradeID != nil {
		dst.GradeID = src.GradeID
		changed = true
	}
	if dst.GroupID == nil && src.GroupID != nil {
		dst.GroupID = src.GroupID
		changed = true
	}
	if dst.SchoolYearID == nil && src.SchoolYearID != nil {
		dst.SchoolYearID = src.SchoolYearID
		changed = true
	}
	return changed
}

// UpdateAssignment updates an assignment within its edit window and re-expands it
func (s *AssignmentService) UpdateAssignment(ctx context.Context, id int64, req *dto.UpdateAssignmentRequest) (*dto.AssignmentResponse, error) {
	assignment, err := s.GetAssignmentByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if helpers.DaysSince(assignment.CreatedAt, s.now()) > editWindowDays {
		return nil, apperrors.ErrEditWindowExpired
	}

	assignment.TeacherPersonID = req.TeacherPersonID
	assignment.SubjectID = req.SubjectID
	assignment.GradeID = req.GradeID
	assignment.GroupID = req.GroupID
	assignment.SchoolYearID = req.SchoolYearID

	if err := s.checkGroupMatchesGrade(ctx, assignment); err != nil {
		return nil, err
	}

	if err := s.assignmentRepo.Update(ctx, assignment); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewResourceNotFoundError(fmt.Sprintf("assignment with ID %d not found", id))
		}
		return nil, mapAssignmentWriteError(err)
	}

	expansion, err := s.Expand(ctx, assignment, nil, nil)
	if err != nil {
		return nil, err
	}
	return &dto.AssignmentResponse{Assignment: assignment, Expansion: expansion}, nil
}

// DeleteAssignment soft deletes an assignment. It refuses when the teacher has
// already registered scores for the subject in that year, or when the edit
// window has passed.
func (s *AssignmentService) DeleteAssignment(ctx context.Context, id int64) error {
	assignment, err := s.GetAssignmentByID(ctx, id)
	if err != nil {
		return err
	}

	if helpers.DaysSince(assignment.CreatedAt, s.now()) > editWindowDays {
		return apperrors.ErrEditWindowExpired
	}

	hasScores, err := s.assignmentRepo.HasScores(ctx, assignment.TeacherPersonID, assignment.SubjectID, assignment.SchoolYearID)
	if err != nil {
		return fmt.Errorf("error checking scores: %w", err)
	}
	if hasScores {
		return apperrors.ErrAssignmentInUse
	}

	deleted, err := s.assignmentRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("error deleting assignment: %w", err)
	}
	if !deleted {
		return apperrors.NewResourceNotFoundError(fmt.Sprintf("assignment with ID %d not found", id))
	}
	return nil
}

// Expand materializes an assignment into one row per group of its grade and
// year. Grade and year left open on the assignment are resolved from the
// fallbacks; when either is still missing, or the grade has no groups, the
// expansion reports a skip instead of failing.
//
// A wildcard assignment (open group) claims the lowest-id group not already
// covered by a sibling row; the remaining uncovered groups each get a new row.
// Running Expand again over the stabilized state creates nothing.
func (s *AssignmentService) Expand(ctx context.Context, a *models.TeacherAssignment, fallbackGradeID, fallbackYearID *int64) (*models.ExpandResult, error) {
	gradeID := a.GradeID
	if gradeID == nil {
		gradeID = fallbackGradeID
	}
	yearID := a.SchoolYearID
	if yearID == nil {
		yearID = fallbackYearID
	}

	if gradeID == nil {
		return &models.ExpandResult{Skipped: models.SkipNoGrade}, nil
	}
	if yearID == nil {
		return &models.ExpandResult{Skipped: models.SkipNoYear}, nil
	}

	groups, err := s.groupRepo.GetByGradeAndYear(ctx, *gradeID, *yearID)
	if err != nil {
		return nil, fmt.Errorf("error loading groups: %w", err)
	}
	if len(groups) == 0 {
		return &models.ExpandResult{Skipped: models.SkipNoGroups}, nil
	}

	siblings, err := s.assignmentRepo.GetSiblings(ctx, a, *gradeID, *yearID)
	if err != nil {
		return nil, fmt.Errorf("error loading sibling assignments: %w", err)
	}

	occupied := make(map[int64]bool, len(siblings)+1)
	for _, sib := range siblings {
		if sib.GroupID != nil {
			occupied[*sib.GroupID] = true
		}
	}

	result := &models.ExpandResult{}

	if scope := a.Scope(); !scope.AllGroups() {
		occupied[*scope.GroupID] = true
		if a.GradeID == nil || a.SchoolYearID == nil {
			a.GradeID = gradeID
			a.SchoolYearID = yearID
			result.Changed = true
		}
	} else {
		// groups come back ordered by id, so the claim is deterministic
		for _, g := range groups {
			if occupied[g.ID] {
				continue
			}
			a.GroupID = helpers.Int64Ptr(g.ID)
			a.GradeID = gradeID
			a.SchoolYearID = yearID
			occupied[g.ID] = true
			result.Changed = true
			break
		}
	}

	if result.Changed {
		if err := s.assignmentRepo.Update(ctx, a); err != nil {
			return nil, mapAssignmentWriteError(err)
		}
	}

	for _, g := range groups {
		if occupied[g.ID] {
			continue
		}
		clone := &models.TeacherAssignment{
			TeacherPersonID: a.TeacherPersonID,
			SubjectID:       a.SubjectID,
			GradeID:         gradeID,
			GroupID:         helpers.Int64Ptr(g.ID),
			SchoolYearID:    yearID,
		}
		if _, err := s.assignmentRepo.Create(ctx, clone); err != nil {
			return nil, mapAssignmentWriteError(err)
		}
		occupied[g.ID] = true
		result.Created++
	}

	return result, nil
}

// Normalize runs the expansion over every live assignment, filling open years
// from the active school year, and reports how many duplicate tuples remain.
func (s *AssignmentService) Normalize(ctx context.Context) (*dto.NormalizeResponse, error) {
	var fallbackYearID *int64
	activeYear, err := s.yearRepo.GetActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("error loading active school year: %w", err)
	}
	if activeYear != nil {
		fallbackYearID = helpers.Int64Ptr(activeYear.ID)
	}

	assignments, err := s.assignmentRepo.GetAllLive(ctx)
	if err != nil {
		return nil, fmt.Errorf("error loading assignments: %w", err)
	}

	response := &dto.NormalizeResponse{}
	for i := range assignments {
		expansion, err := s.Expand(ctx, &assignments[i], nil, fallbackYearID)
		if err != nil {
			logger.Error().Err(err).Int64("assignmentId", assignments[i].ID).Msg("Failed to expand assignment during normalization")
			continue
		}
		if expansion.Changed {
			response.Updated++
		}
		response.Created += expansion.Created
	}

	duplicates, err := s.assignmentRepo.CountDuplicates(ctx)
	if err != nil {
		return nil, fmt.Errorf("error counting duplicates: %w", err)
	}
	response.Duplicates = duplicates

	return response, nil
}

// AvailableTeachers lists every teacher, flagging those already assigned to
// the subject in the given year.
func (s *AssignmentService) AvailableTeachers(ctx context.Context, subjectID int64, schoolYearID *int64) ([]dto.TeacherOption, error) {
	teachers, err := s.personRepo.GetTeachers(ctx)
	if err != nil {
		return nil, fmt.Errorf("error loading teachers: %w", err)
	}

	filter := repositories.AssignmentFilter{SubjectID: &subjectID, SchoolYearID: schoolYearID}
	assignments, _, err := s.assignmentRepo.GetAll(ctx, filter, 1, 1000)
	if err != nil {
		return nil, fmt.Errorf("error loading assignments: %w", err)
	}

	assigned := make(map[int64]bool, len(assignments))
	for _, a := range assignments {
		if a.TeacherPersonID != nil {
			assigned[*a.TeacherPersonID] = true
		}
	}

	options := make([]dto.TeacherOption, 0, len(teachers))
	for _, t := range teachers {
		options = append(options, dto.TeacherOption{
			PersonID:  t.ID,
			FirstName: t.FirstName,
			LastName:  t.LastName,
			IDNumber:  t.IDNumber,
			Assigned:  assigned[t.ID],
		})
	}
	return options, nil
}

// ClassRoster lists the active students an assignment teaches. When a period
// is given, each row carries the student's score for the subject in that
// period and their absence count.
func (s *AssignmentService) ClassRoster(ctx context.Context, assignmentID int64, periodID *int64) (*dto.ClassRosterResponse, error) {
	assignment, err := s.GetAssignmentByID(ctx, assignmentID)
	if err != nil {
		return nil, err
	}

	subject, err := s.subjectRepo.GetByID(ctx, assignment.SubjectID)
	if err != nil {
		return nil, fmt.Errorf("error loading subject: %w", err)
	}
	if subject == nil {
		return nil, apperrors.NewResourceNotFoundError("subject for assignment not found")
	}

	var groupIDs []int64
	scope := assignment.Scope()
	switch {
	case !scope.AllGroups():
		groupIDs = []int64{*scope.GroupID}
	case assignment.GradeID != nil && assignment.SchoolYearID != nil:
		groups, err := s.groupRepo.GetByGradeAndYear(ctx, *assignment.GradeID, *assignment.SchoolYearID)
		if err != nil {
			return nil, fmt.Errorf("error loading groups: %w", err)
		}
		for _, g := range groups {
			groupIDs = append(groupIDs, g.ID)
		}
	}

	response := &dto.ClassRosterResponse{
		AssignmentID: assignment.ID,
		SubjectName:  subject.Name,
		Students:     []dto.ClassStudent{},
	}
	if len(groupIDs) == 0 {
		return response, nil
	}

	enrollments, err := s.enrollmentRepo.GetActiveStudentsByGroups(ctx, groupIDs)
	if err != nil {
		return nil, fmt.Errorf("error loading students: %w", err)
	}

	scoreByPerson := map[int64]float64{}
	if periodID != nil && assignment.SchoolYearID != nil {
		personIDs := make([]int64, 0, len(enrollments))
		for _, e := range enrollments {
			personIDs = append(personIDs, e.PersonID)
		}
		scores, err := s.scoreRepo.GetForStudentsInPeriod(ctx, personIDs, *periodID, *assignment.SchoolYearID)
		if err != nil {
			return nil, fmt.Errorf("error loading scores: %w", err)
		}
		for _, sc := range scores {
			if sc.SubjectID == assignment.SubjectID {
				scoreByPerson[sc.PersonID] = sc.Value
			}
		}
	}

	for _, e := range enrollments {
		student := dto.ClassStudent{PersonID: e.PersonID}
		if e.Person != nil {
			student.FirstName = e.Person.FirstName
			student.LastName = e.Person.LastName
		}
		if e.Group != nil {
			student.GroupCode = e.Group.Code
		}
		if value, ok := scoreByPerson[e.PersonID]; ok {
			student.Score = &value
		}
		if periodID != nil {
			absences, err := s.absenceRepo.CountForSubject(ctx, e.PersonID, assignment.SubjectID)
			if err != nil {
				return nil, fmt.Errorf("error counting absences: %w", err)
			}
			student.Absences = absences
		}
		response.Students = append(response.Students, student)
	}

	return response, nil
}
