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
)

// YearService manages school years and their academic periods
type YearService struct {
	yearRepo   *repositories.SchoolYearRepository
	periodRepo *repositories.PeriodRepository
}

// NewYearService creates a new year service instance
func NewYearService(yearRepo *repositories.SchoolYearRepository, periodRepo *repositories.PeriodRepository) *YearService {
	return &YearService{yearRepo: yearRepo, periodRepo: periodRepo}
}

func parseDate(value, field string) (time.Time, error) {
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, apperrors.NewBadRequestError(field + " must be a date in YYYY-MM-DD format")
	}
	return parsed, nil
}

// GetSchoolYears lists all school years, newest first
func (s *YearService) GetSchoolYears(ctx context.Context) ([]models.SchoolYear, error) {
	years, err := s.yearRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error retrieving school years: %w", err)
	}
	return years, nil
}

// GetSchoolYearByID retrieves one school year
func (s *YearService) GetSchoolYearByID(ctx context.Context, id int64) (*models.SchoolYear, error) {
	year, err := s.yearRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error retrieving school year: %w", err)
	}
	if year == nil {
		return nil, apperrors.NewResourceNotFoundError(fmt.Sprintf("school year with ID %d not found", id))
	}
	return year, nil
}

// GetActiveSchoolYear retrieves the school year currently in the active state
func (s *YearService) GetActiveSchoolYear(ctx context.Context) (*models.SchoolYear, error) {
	year, err := s.yearRepo.GetActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("error retrieving active school year: %w", err)
	}
	if year == nil {
		return nil, apperrors.NewResourceNotFoundError("no active school year")
	}
	return year, nil
}

// CreateSchoolYear registers a new school year
func (s *YearService) CreateSchoolYear(ctx context.Context, req *dto.CreateSchoolYearRequest) (*models.SchoolYear, error) {
	startDate, err := parseDate(req.StartDate, "startDate")
	if err != nil {
		return nil, err
	}
	endDate, err := parseDate(req.EndDate, "endDate")
	if err != nil {
		return nil, err
	}
	if !endDate.After(startDate) {
		return nil, apperrors.NewBadRequestError("endDate must be after startDate")
	}

	year := &models.SchoolYear{
		Year:      req.Year,
		StartDate: startDate,
		EndDate:   endDate,
		StateID:   req.StateID,
	}
	id, err := s.yearRepo.Create(ctx, year)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return nil, apperrors.NewConflictError(fmt.Sprintf("school year %d already exists", req.Year))
		}
		return nil, fmt.Errorf("error creating school year: %w", err)
	}
	year.ID = id
	return year, nil
}

// UpdateSchoolYear updates a school year
func (s *YearService) UpdateSchoolYear(ctx context.Context, id int64, req *dto.CreateSchoolYearRequest) (*models.SchoolYear, error) {
	year, err := s.GetSchoolYearByID(ctx, id)
	if err != nil {
		return nil, err
	}

	startDate, err := parseDate(req.StartDate, "startDate")
	if err != nil {
		return nil, err
	}
	endDate, err := parseDate(req.EndDate, "endDate")
	if err != nil {
		return nil, err
	}
	if !endDate.After(startDate) {
		return nil, apperrors.NewBadRequestError("endDate must be after startDate")
	}

	year.Year = req.Year
	year.StartDate = startDate
	year.EndDate = endDate
	year.StateID = req.StateID
	if err := s.yearRepo.Update(ctx, year); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewResourceNotFoundError(fmt.Sprintf("school year with ID %d not found", id))
		}
		return nil, fmt.Errorf("error updating school year: %w", err)
	}
	return year, nil
}

// DeleteSchoolYear soft deletes a school year
func (s *YearService) DeleteSchoolYear(ctx context.Context, id int64) error {
	deleted, err := s.yearRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("error deleting school year: %w", err)
	}
	if !deleted {
		return apperrors.NewResourceNotFoundError(fmt.Sprintf("school year with ID %d not found", id))
	}
	return nil
}

// GetPeriods lists periods, optionally scoped to one school year
func (s *YearService) GetPeriods(ctx context.Context, schoolYearID *int64) ([]models.Period, error) {
	periods, err := s.periodRepo.GetAll(ctx, schoolYearID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving periods: %w", err)
	}
	return periods, nil
}

// GetPeriodByID retrieves one period
func (s *YearService) GetPeriodByID(ctx context.Context, id int64) (*models.Period, error) {
	period, err := s.periodRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error retrieving period: %w", err)
	}
	if period == nil {
		return nil, apperrors.NewResourceNotFoundError(fmt.Sprintf("period with ID %d not found", id))
	}
	return period, nil
}

// CreatePeriod adds an academic period to a school year
func (s *YearService) CreatePeriod(ctx context.Context, req *dto.CreatePeriodRequest) (*models.Period, error) {
	if _, err := s.GetSchoolYearByID(ctx, req.SchoolYearID); err != nil {
		return nil, err
	}

	startDate, err := parseDate(req.StartDate, "startDate")
	if err != nil {
		return nil, err
	}
	endDate, err := parseDate(req.EndDate, "endDate")
	if err != nil {
		return nil, err
	}
	if !endDate.After(startDate) {
		return nil, apperrors.NewBadRequestError("endDate must be after startDate")
	}

	status := req.Status
	if status == "" {
		status = models.PeriodPending
	}

	period := &models.Period{
		SchoolYearID: req.SchoolYearID,
		Name:         req.Name,
		StartDate:    startDate,
		EndDate:      endDate,
		Status:       status,
	}
	id, err := s.periodRepo.Create(ctx, period)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return nil, apperrors.NewConflictError("a period with this name already exists in the school year")
		}
		return nil, fmt.Errorf("error creating period: %w", err)
	}
	period.ID = id
	return period, nil
}

// UpdatePeriod updates a period's dates and status
func (s *YearService) UpdatePeriod(ctx context.Context, id int64, req *dto.UpdatePeriodRequest) (*models.Period, error) {
	period, err := s.GetPeriodByID(ctx, id)
	if err != nil {
		return nil, err
	}

	startDate, err := parseDate(req.StartDate, "startDate")
	if err != nil {
		return nil, err
	}
	endDate, err := parseDate(req.EndDate, "endDate")
	if err != nil {
		return nil, err
	}
	if !endDate.After(startDate) {
		return nil, apperrors.NewBadRequestError("endDate must be after startDate")
	}

	period.Name = req.Name
	period.StartDate = startDate
	period.EndDate = endDate
	period.Status = req.Status
	if err := s.periodRepo.Update(ctx, period); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewResourceNotFoundError(fmt.Sprintf("period with ID %d not found", id))
		}
		return nil, fmt.Errorf("error updating period: %w", err)
	}
	return period, nil
}

// DeletePeriod soft deletes a period
func (s *YearService) DeletePeriod(ctx context.Context, id int64) error {
	deleted, err := s.periodRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("error deleting period: %w", err)
	}
	if !deleted {
		return apperrors.NewResourceNotFoundError(fmt.Sprintf("period with ID %d not found", id))
	}
	return nil
}
