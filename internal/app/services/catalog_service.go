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

// CatalogService manages the small reference catalogs: grades, shifts,
// subjects and year states.
type CatalogService struct {
	gradeRepo     *repositories.GradeRepository
	shiftRepo     *repositories.ShiftRepository
	subjectRepo   *repositories.SubjectRepository
	yearStateRepo *repositories.YearStateRepository
}

// NewCatalogService creates a new catalog service instance
func NewCatalogService(
	gradeRepo *repositories.GradeRepository,
	shiftRepo *repositories.ShiftRepository,
	subjectRepo *repositories.SubjectRepository,
	yearStateRepo *repositories.YearStateRepository,
) *CatalogService {
	return &CatalogService{
		gradeRepo:     gradeRepo,
		shiftRepo:     shiftRepo,
		subjectRepo:   subjectRepo,
		yearStateRepo: yearStateRepo,
	}
}

// GetGrades lists all grades
func (s *CatalogService) GetGrades(ctx context.Context) ([]models.Grade, error) {
	grades, err := s.gradeRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error retrieving grades: %w", err)
	}
	return grades, nil
}

// GetGradeByID retrieves one grade
func (s *CatalogService) GetGradeByID(ctx context.Context, id int64) (*models.Grade, error) {
	grade, err := s.gradeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error retrieving grade: %w", err)
	}
	if grade == nil {
		return nil, apperrors.NewResourceNotFoundError(fmt.Sprintf("grade with ID %d not found", id))
	}
	return grade, nil
}

// CreateGrade adds a grade level
func (s *CatalogService) CreateGrade(ctx context.Context, req *dto.CreateGradeRequest) (*models.Grade, error) {
	grade := &models.Grade{Name: req.Name, Level: req.Level}
	id, err := s.gradeRepo.Create(ctx, grade)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return nil, apperrors.NewConflictError("a grade with this name already exists")
		}
		return nil, fmt.Errorf("error creating grade: %w", err)
	}
	grade.ID = id
	return grade, nil
}

// UpdateGrade updates a grade level
func (s *CatalogService) UpdateGrade(ctx context.Context, id int64, req *dto.CreateGradeRequest) (*models.Grade, error) {
	grade, err := s.GetGradeByID(ctx, id)
	if err != nil {
		return nil, err
	}

	grade.Name = req.Name
	grade.Level = req.Level
	if err := s.gradeRepo.Update(ctx, grade); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewResourceNotFoundError(fmt.Sprintf("grade with ID %d not found", id))
		}
		return nil, fmt.Errorf("error updating grade: %w", err)
	}
	return grade, nil
}

// DeleteGrade soft deletes a grade level
func (s *CatalogService) DeleteGrade(ctx context.Context, id int64) error {
	deleted, err := s.gradeRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("error deleting grade: %w", err)
	}
	if !deleted {
		return apperrors.NewResourceNotFoundError(fmt.Sprintf("grade with ID %d not found", id))
	}
	return nil
}

// GetShifts lists all shifts
func (s *CatalogService) GetShifts(ctx context.Context) ([]models.Shift, error) {
	shifts, err := s.shiftRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error retrieving shifts: %w", err)
	}
	return shifts, nil
}

// CreateShift adds a shift
func (s *CatalogService) CreateShift(ctx context.Context, req *dto.CreateShiftRequest) (*models.Shift, error) {
	shift := &models.Shift{Name: req.Name}
	id, err := s.shiftRepo.Create(ctx, shift)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return nil, apperrors.NewConflictError("a shift with this name already exists")
		}
		return nil, fmt.Errorf("error creating shift: %w", err)
	}
	shift.ID = id
	return shift, nil
}

// DeleteShift soft deletes a shift
func (s *CatalogService) DeleteShift(ctx context.Context, id int64) error {
	deleted, err := s.shiftRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("error deleting shift: %w", err)
	}
	if !deleted {
		return apperrors.NewResourceNotFoundError(fmt.Sprintf("shift with ID %d not found", id))
	}
	return nil
}

// GetSubjects lists all subjects
func (s *CatalogService) GetSubjects(ctx context.Context) ([]models.Subject, error) {
	subjects, err := s.subjectRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error retrieving subjects: %w", err)
	}
	return subjects, nil
}

// GetSubjectByID retrieves one subject
func (s *CatalogService) GetSubjectByID(ctx context.Context, id int64) (*models.Subject, error) {
	subject, err := s.subjectRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error retrieving subject: %w", err)
	}
	if subject == nil {
		return nil, apperrors.NewResourceNotFoundError(fmt.Sprintf("subject with ID %d not found", id))
	}
	return subject, nil
}

// CreateSubject adds a subject
func (s *CatalogService) CreateSubject(ctx context.Context, req *dto.CreateSubjectRequest) (*models.Subject, error) {
	subject := &models.Subject{Name: req.Name, WeeklyHours: req.WeeklyHours}
	id, err := s.subjectRepo.Create(ctx, subject)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return nil, apperrors.NewConflictError("a subject with this name already exists")
		}
		return nil, fmt.Errorf("error creating subject: %w", err)
	}
	subject.ID = id
	return subject, nil
}

// UpdateSubject updates a subject
func (s *CatalogService) UpdateSubject(ctx context.Context, id int64, req *dto.UpdateSubjectRequest) (*models.Subject, error) {
	subject, err := s.GetSubjectByID(ctx, id)
	if err != nil {
		return nil, err
	}

	subject.Name = req.Name
	subject.WeeklyHours = req.WeeklyHours
	if err := s.subjectRepo.Update(ctx, subject); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewResourceNotFoundError(fmt.Sprintf("subject with ID %d not found", id))
		}
		return nil, fmt.Errorf("error updating subject: %w", err)
	}
	return subject, nil
}

// DeleteSubject soft deletes a subject
func (s *CatalogService) DeleteSubject(ctx context.Context, id int64) error {
	deleted, err := s.subjectRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("error deleting subject: %w", err)
	}
	if !deleted {
		return apperrors.NewResourceNotFoundError(fmt.Sprintf("subject with ID %d not found", id))
	}
	return nil
}

// GetYearStates lists the school year state catalog
func (s *CatalogService) GetYearStates(ctx context.Context) ([]models.YearState, error) {
	states, err := s.yearStateRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error retrieving year states: %w", err)
	}
	return states, nil
}
