package services

import (
	"context"
	"fmt"

	"github.com/avillada/escolar/internal/app/models"
	"github.com/avillada/escolar/internal/app/models/dto"
	"github.com/avillada/escolar/internal/pkg/apperrors"
	"github.com/avillada/escolar/internal/pkg/dberrors"
	"github.com/avillada/escolar/internal/pkg/validation"
)

type scoreStore interface {
	GetAll(ctx context.Context, personID, subjectID, periodID, schoolYearID *int64, page, pageSize int) ([]models.Score, int64, error)
	GetByID(ctx context.Context, id int64) (*models.Score, error)
	Create(ctx context.Context, s *models.Score) (int64, error)
	Update(ctx context.Context, s *models.Score) error
	Delete(ctx context.Context, id int64) (bool, error)
}

type periodFinder interface {
	GetByID(ctx context.Context, id int64) (*models.Period, error)
}

// ScoreService manages student scores
type ScoreService struct {
	scoreRepo  scoreStore
	periodRepo periodFinder
}

// NewScoreService creates a new score service instance
func NewScoreService(scoreRepo scoreStore, periodRepo periodFinder) *ScoreService {
	return &ScoreService{scoreRepo: scoreRepo, periodRepo: periodRepo}
}

// checkPeriodOpen refuses score writes outside an open period
func (s *ScoreService) checkPeriodOpen(ctx context.Context, periodID int64) error {
	period, err := s.periodRepo.GetByID(ctx, periodID)
	if err != nil {
		return fmt.Errorf("error loading period: %w", err)
	}
	if period == nil {
		return apperrors.NewResourceNotFoundError(fmt.Sprintf("period with ID %d not found", periodID))
	}
	if period.Status != models.PeriodActive {
		return apperrors.ErrPeriodClosed
	}
	return nil
}

// GetScores lists scores with optional filters
func (s *ScoreService) GetScores(ctx context.Context, personID, subjectID, periodID, schoolYearID *int64, page, pageSize int) ([]models.Score, int64, error) {
	scores, total, err := s.scoreRepo.GetAll(ctx, personID, subjectID, periodID, schoolYearID, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("error retrieving scores: %w", err)
	}
	return scores, total, nil
}

// GetScoreByID retrieves one score
func (s *ScoreService) GetScoreByID(ctx context.Context, id int64) (*models.Score, error) {
	score, err := s.scoreRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error retrieving score: %w", err)
	}
	if score == nil {
		return nil, apperrors.NewResourceNotFoundError(fmt.Sprintf("score with ID %d not found", id))
	}
	return score, nil
}

// CreateScore registers a score for a student in an open period
func (s *ScoreService) CreateScore(ctx context.Context, teacherUserID int64, req *dto.CreateScoreRequest) (*models.Score, error) {
	if !validation.ValidScore(req.Value) {
		return nil, apperrors.NewBadRequestError("score value must be between 0.0 and 5.0")
	}

	if err := s.checkPeriodOpen(ctx, req.PeriodID); err != nil {
		return nil, err
	}

	score := &models.Score{
		PersonID:      req.PersonID,
		SubjectID:     req.SubjectID,
		PeriodID:      req.PeriodID,
		SchoolYearID:  req.SchoolYearID,
		TeacherUserID: teacherUserID,
		Value:         req.Value,
	}

	id, err := s.scoreRepo.Create(ctx, score)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return nil, apperrors.NewConflictError("a score already exists for this student, subject and period")
		}
		return nil, fmt.Errorf("error creating score: %w", err)
	}
	score.ID = id
	return score, nil
}

// UpdateScore changes a score's value while its period is still open
func (s *ScoreService) UpdateScore(ctx context.Context, id int64, req *dto.UpdateScoreRequest) (*models.Score, error) {
	if !validation.ValidScore(req.Value) {
		return nil, apperrors.NewBadRequestError("score value must be between 0.0 and 5.0")
	}

	score, err := s.GetScoreByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.checkPeriodOpen(ctx, score.PeriodID); err != nil {
		return nil, err
	}

	score.Value = req.Value
	if err := s.scoreRepo.Update(ctx, score); err != nil {
		return nil, fmt.Errorf("error updating score: %w", err)
	}
	return score, nil
}

// DeleteScore soft deletes a score while its period is still open
func (s *ScoreService) DeleteScore(ctx context.Context, id int64) error {
	score, err := s.GetScoreByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.checkPeriodOpen(ctx, score.PeriodID); err != nil {
		return err
	}

	deleted, err := s.scoreRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("error deleting score: %w", err)
	}
	if !deleted {
		return apperrors.NewResourceNotFoundError(fmt.Sprintf("score with ID %d not found", id))
	}
	return nil
}
