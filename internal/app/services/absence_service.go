package services

import (
	"context"
	"fmt"
	"time"

	"github.com/avillada/escolar/internal/app/models"
	"github.com/avillada/escolar/internal/app/models/dto"
	"github.com/avillada/escolar/internal/pkg/apperrors"
)

type absenceStore interface {
	GetAll(ctx context.Context, personID, subjectID *int64, page, pageSize int) ([]models.Absence, int64, error)
	GetByID(ctx context.Context, id int64) (*models.Absence, error)
	Create(ctx context.Context, a *models.Absence) (int64, error)
	Update(ctx context.Context, a *models.Absence) error
	Delete(ctx context.Context, id int64) (bool, error)
}

// AbsenceService manages student absences
type AbsenceService struct {
	absenceRepo absenceStore
}

// NewAbsenceService creates a new absence service instance
func NewAbsenceService(absenceRepo absenceStore) *AbsenceService {
	return &AbsenceService{absenceRepo: absenceRepo}
}

// GetAbsences lists absences with optional filters
func (s *AbsenceService) GetAbsences(ctx context.Context, personID, subjectID *int64, page, pageSize int) ([]models.Absence, int64, error) {
	absences, total, err := s.absenceRepo.GetAll(ctx, personID, subjectID, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("error retrieving absences: %w", err)
	}
	return absences, total, nil
}

// GetAbsenceByID retrieves one absence
func (s *AbsenceService) GetAbsenceByID(ctx context.Context, id int64) (*models.Absence, error) {
	absence, err := s.absenceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error retrieving absence: %w", err)
	}
	if absence == nil {
		return nil, apperrors.NewResourceNotFoundError(fmt.Sprintf("absence with ID %d not found", id))
	}
	return absence, nil
}

// CreateAbsence records a new absence
func (s *AbsenceService) CreateAbsence(ctx context.Context, req *dto.CreateAbsenceRequest) (*models.Absence, error) {
	absentOn, err := time.Parse("2006-01-02", req.AbsentOn)
	if err != nil {
		return nil, apperrors.NewBadRequestError("absentOn must be a date in YYYY-MM-DD format")
	}

	absence := &models.Absence{
		ScoreID:   req.ScoreID,
		PersonID:  req.PersonID,
		SubjectID: req.SubjectID,
		AbsentOn:  absentOn,
		Excused:   req.Excused,
	}

	id, err := s.absenceRepo.Create(ctx, absence)
	if err != nil {
		return nil, fmt.Errorf("error creating absence: %w", err)
	}
	absence.ID = id
	return absence, nil
}

// UpdateAbsence toggles the excused flag of an absence
func (s *AbsenceService) UpdateAbsence(ctx context.Context, id int64, req *dto.UpdateAbsenceRequest) (*models.Absence, error) {
	absence, err := s.GetAbsenceByID(ctx, id)
	if err != nil {
		return nil, err
	}

	absence.Excused = req.Excused
	if err := s.absenceRepo.Update(ctx, absence); err != nil {
		return nil, fmt.Errorf("error updating absence: %w", err)
	}
	return absence, nil
}

// DeleteAbsence soft deletes an absence
func (s *AbsenceService) DeleteAbsence(ctx context.Context, id int64) error {
	deleted, err := s.absenceRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("error deleting absence: %w", err)
	}
	if !deleted {
		return apperrors.NewResourceNotFoundError(fmt.Sprintf("absence with ID %d not found", id))
	}
	return nil
}
