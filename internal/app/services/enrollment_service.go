package services

import (
	"context"
	"fmt"
	"time"

	"github.com/avillada/escolar/internal/app/models"
	"github.com/avillada/escolar/internal/app/models/dto"
	"github.com/avillada/escolar/internal/pkg/apperrors"
	"github.com/avillada/escolar/internal/pkg/dberrors"
)

type enrollmentStore interface {
	GetAll(ctx context.Context, personID, groupID, schoolYearID *int64, page, pageSize int) ([]models.Enrollment, int64, error)
	GetByID(ctx context.Context, id int64) (*models.Enrollment, error)
	CountActiveByGroup(ctx context.Context, groupID int64, excludeID *int64) (int, error)
	Create(ctx context.Context, e *models.Enrollment) (int64, error)
	Update(ctx context.Context, e *models.Enrollment) error
	Delete(ctx context.Context, id int64) (bool, error)
}

type groupFinder interface {
	GetByID(ctx context.Context, id int64) (*models.Group, error)
}

// EnrollmentService manages student enrollments with seat capacity control
type EnrollmentService struct {
	enrollmentRepo enrollmentStore
	groupRepo      groupFinder
}

// NewEnrollmentService creates a new enrollment service instance
func NewEnrollmentService(enrollmentRepo enrollmentStore, groupRepo groupFinder) *EnrollmentService {
	return &EnrollmentService{enrollmentRepo: enrollmentRepo, groupRepo: groupRepo}
}

// checkCapacity refuses when the group has no seat left. Capacity zero means
// unbounded. The enrollment being moved is excluded from the head count.
func (s *EnrollmentService) checkCapacity(ctx context.Context, groupID int64, excludeID *int64) error {
	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return fmt.Errorf("error loading group: %w", err)
	}
	if group == nil {
		return apperrors.NewResourceNotFoundError(fmt.Sprintf("group with ID %d not found", groupID))
	}
	if group.Capacity <= 0 {
		return nil
	}

	occupied, err := s.enrollmentRepo.CountActiveByGroup(ctx, groupID, excludeID)
	if err != nil {
		return fmt.Errorf("error counting enrollments: %w", err)
	}
	if occupied >= group.Capacity {
		return apperrors.ErrGroupFull
	}
	return nil
}

// GetEnrollments lists enrollments with optional filters
func (s *EnrollmentService) GetEnrollments(ctx context.Context, personID, groupID, schoolYearID *int64, page, pageSize int) ([]models.Enrollment, int64, error) {
	enrollments, total, err := s.enrollmentRepo.GetAll(ctx, personID, groupID, schoolYearID, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("error retrieving enrollments: %w", err)
	}
	return enrollments, total, nil
}

// GetEnrollmentByID retrieves one enrollment
func (s *EnrollmentService) GetEnrollmentByID(ctx context.Context, id int64) (*models.Enrollment, error) {
	enrollment, err := s.enrollmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error retrieving enrollment: %w", err)
	}
	if enrollment == nil {
		return nil, apperrors.NewResourceNotFoundError(fmt.Sprintf("enrollment with ID %d not found", id))
	}
	return enrollment, nil
}

// CreateEnrollment enrolls a student in a group after checking capacity
func (s *EnrollmentService) CreateEnrollment(ctx context.Context, req *dto.CreateEnrollmentRequest) (*models.Enrollment, error) {
	if err := s.checkCapacity(ctx, req.GroupID, nil); err != nil {
		return nil, err
	}

	enrolledOn := time.Now()
	if req.EnrolledOn != "" {
		parsed, err := time.Parse("2006-01-02", req.EnrolledOn)
		if err != nil {
			return nil, apperrors.NewBadRequestError("enrolledOn must be a date in YYYY-MM-DD format")
		}
		enrolledOn = parsed
	}

	enrollment := &models.Enrollment{
		PersonID:     req.PersonID,
		GroupID:      req.GroupID,
		SchoolYearID: req.SchoolYearID,
		Active:       true,
		EnrolledOn:   enrolledOn,
	}

	id, err := s.enrollmentRepo.Create(ctx, enrollment)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return nil, apperrors.NewConflictError("the student is already enrolled in this school year")
		}
		return nil, fmt.Errorf("error creating enrollment: %w", err)
	}
	enrollment.ID = id
	return enrollment, nil
}

// UpdateEnrollment moves or re-activates an enrollment, re-checking capacity
// on the target group. The row itself never counts against the seat limit.
func (s *EnrollmentService) UpdateEnrollment(ctx context.Context, id int64, req *dto.UpdateEnrollmentRequest) (*models.Enrollment, error) {
	enrollment, err := s.GetEnrollmentByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Active {
		if err := s.checkCapacity(ctx, req.GroupID, &id); err != nil {
			return nil, err
		}
	}

	enrollment.GroupID = req.GroupID
	enrollment.Active = req.Active

	if err := s.enrollmentRepo.Update(ctx, enrollment); err != nil {
		return nil, fmt.Errorf("error updating enrollment: %w", err)
	}
	return enrollment, nil
}

// DeleteEnrollment soft deletes an enrollment
func (s *EnrollmentService) DeleteEnrollment(ctx context.Context, id int64) error {
	deleted, err := s.enrollmentRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("error deleting enrollment: %w", err)
	}
	if !deleted {
		return apperrors.NewResourceNotFoundError(fmt.Sprintf("enrollment with ID %d not found", id))
	}
	return nil
}
