package services

import (
	"context"
	"fmt"

	"github.com/avillada/escolar/internal/app/models"
	"github.com/avillada/escolar/internal/app/models/dto"
	"github.com/avillada/escolar/internal/app/repositories"
	"github.com/avillada/escolar/internal/pkg/apperrors"
	"github.com/avillada/escolar/internal/pkg/dberrors"
)

// GradeSubjectService manages a grade's curriculum for a school year
type GradeSubjectService struct {
	gradeSubjectRepo *repositories.GradeSubjectRepository
	gradeRepo        *repositories.GradeRepository
	subjectRepo      *repositories.SubjectRepository
	yearRepo         *repositories.SchoolYearRepository
}

// NewGradeSubjectService creates a new curriculum service instance
func NewGradeSubjectService(
	gradeSubjectRepo *repositories.GradeSubjectRepository,
	gradeRepo *repositories.GradeRepository,
	subjectRepo *repositories.SubjectRepository,
	yearRepo *repositories.SchoolYearRepository,
) *GradeSubjectService {
	return &GradeSubjectService{
		gradeSubjectRepo: gradeSubjectRepo,
		gradeRepo:        gradeRepo,
		subjectRepo:      subjectRepo,
		yearRepo:         yearRepo,
	}
}

// GetGradeSubjects lists curriculum rows, optionally filtered
func (s *GradeSubjectService) GetGradeSubjects(ctx context.Context, gradeID, schoolYearID *int64) ([]models.GradeSubject, error) {
	rows, err := s.gradeSubjectRepo.GetAll(ctx, gradeID, schoolYearID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving curriculum: %w", err)
	}
	return rows, nil
}

// CreateGradeSubject binds a subject into a grade's curriculum
func (s *GradeSubjectService) CreateGradeSubject(ctx context.Context, req *dto.CreateGradeSubjectRequest) (*models.GradeSubject, error) {
	grade, err := s.gradeRepo.GetByID(ctx, req.GradeID)
	if err != nil {
		return nil, fmt.Errorf("error loading grade: %w", err)
	}
	if grade == nil {
		return nil, apperrors.NewResourceNotFoundError(fmt.Sprintf("grade with ID %d not found", req.GradeID))
	}

	subject, err := s.subjectRepo.GetByID(ctx, req.SubjectID)
	if err != nil {
		return nil, fmt.Errorf("error loading subject: %w", err)
	}
	if subject == nil {
		return nil, apperrors.NewResourceNotFoundError(fmt.Sprintf("subject with ID %d not found", req.SubjectID))
	}

	year, err := s.yearRepo.GetByID(ctx, req.SchoolYearID)
	if err != nil {
		return nil, fmt.Errorf("error loading school year: %w", err)
	}
	if year == nil {
		return nil, apperrors.NewResourceNotFoundError(fmt.Sprintf("school year with ID %d not found", req.SchoolYearID))
	}

	row := &models.GradeSubject{
		GradeID:      req.GradeID,
		SubjectID:    req.SubjectID,
		SchoolYearID: req.SchoolYearID,
		WeeklyHours:  req.WeeklyHours,
	}
	id, err := s.gradeSubjectRepo.Create(ctx, row)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return nil, apperrors.NewConflictError("the subject is already part of this grade's curriculum")
		}
		return nil, fmt.Errorf("error creating curriculum row: %w", err)
	}
	row.ID = id
	return row, nil
}

// UpdateGradeSubject changes the hour override of a curriculum row
func (s *GradeSubjectService) UpdateGradeSubject(ctx context.Context, id int64, weeklyHours *int) (*models.GradeSubject, error) {
	row, err := s.gradeSubjectRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error retrieving curriculum row: %w", err)
	}
	if row == nil {
		return nil, apperrors.NewResourceNotFoundError(fmt.Sprintf("curriculum row with ID %d not found", id))
	}

	row.WeeklyHours = weeklyHours
	if err := s.gradeSubjectRepo.Update(ctx, row); err != nil {
		return nil, fmt.Errorf("error updating curriculum row: %w", err)
	}
	return row, nil
}

// DeleteGradeSubject soft deletes a curriculum row
func (s *GradeSubjectService) DeleteGradeSubject(ctx context.Context, id int64) error {
	deleted, err := s.gradeSubjectRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("error deleting curriculum row: %w", err)
	}
	if !deleted {
		return apperrors.NewResourceNotFoundError(fmt.Sprintf("curriculum row with ID %d not found", id))
	}
	return nil
}
