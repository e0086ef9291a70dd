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
	"github.com/avillada/escolar/internal/pkg/validation"
)

// GroupService manages class groups
type GroupService struct {
	groupRepo *repositories.GroupRepository
	gradeRepo *repositories.GradeRepository
	shiftRepo *repositories.ShiftRepository
	yearRepo  *repositories.SchoolYearRepository
}

// NewGroupService creates a new group service instance
func NewGroupService(
	groupRepo *repositories.GroupRepository,
	gradeRepo *repositories.GradeRepository,
	shiftRepo *repositories.ShiftRepository,
	yearRepo *repositories.SchoolYearRepository,
) *GroupService {
	return &GroupService{
		groupRepo: groupRepo,
		gradeRepo: gradeRepo,
		shiftRepo: shiftRepo,
		yearRepo:  yearRepo,
	}
}

func (s *GroupService) validateGroupRefs(ctx context.Context, gradeID, shiftID int64) error {
	grade, err := s.gradeRepo.GetByID(ctx, gradeID)
	if err != nil {
		return fmt.Errorf("error loading grade: %w", err)
	}
	if grade == nil {
		return apperrors.NewResourceNotFoundError(fmt.Sprintf("grade with ID %d not found", gradeID))
	}

	shift, err := s.shiftRepo.GetByID(ctx, shiftID)
	if err != nil {
		return fmt.Errorf("error loading shift: %w", err)
	}
	if shift == nil {
		return apperrors.NewResourceNotFoundError(fmt.Sprintf("shift with ID %d not found", shiftID))
	}
	return nil
}

// GetGroups lists groups, optionally filtered by grade and school year
func (s *GroupService) GetGroups(ctx context.Context, gradeID, schoolYearID *int64, page, pageSize int) ([]models.Group, int64, error) {
	groups, total, err := s.groupRepo.GetAll(ctx, gradeID, schoolYearID, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("error retrieving groups: %w", err)
	}
	return groups, total, nil
}

// GetGroupByID retrieves one group
func (s *GroupService) GetGroupByID(ctx context.Context, id int64) (*models.Group, error) {
	group, err := s.groupRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error retrieving group: %w", err)
	}
	if group == nil {
		return nil, apperrors.NewResourceNotFoundError(fmt.Sprintf("group with ID %d not found", id))
	}
	return group, nil
}

// CreateGroup creates a class group
func (s *GroupService) CreateGroup(ctx context.Context, req *dto.CreateGroupRequest) (*models.Group, error) {
	if !validation.CompiledPatterns.GroupCode.MatchString(req.Code) {
		return nil, apperrors.NewBadRequestError("code may only contain letters, digits and dashes")
	}
	if err := s.validateGroupRefs(ctx, req.GradeID, req.ShiftID); err != nil {
		return nil, err
	}

	year, err := s.yearRepo.GetByID(ctx, req.SchoolYearID)
	if err != nil {
		return nil, fmt.Errorf("error loading school year: %w", err)
	}
	if year == nil {
		return nil, apperrors.NewResourceNotFoundError(fmt.Sprintf("school year with ID %d not found", req.SchoolYearID))
	}

	capacity := 0
	if req.Capacity != nil {
		capacity = *req.Capacity
	}

	group := &models.Group{
		GradeID:        req.GradeID,
		ShiftID:        req.ShiftID,
		SchoolYearID:   req.SchoolYearID,
		DirectorUserID: req.DirectorUserID,
		Code:           req.Code,
		Capacity:       capacity,
	}
	id, err := s.groupRepo.Create(ctx, group)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return nil, apperrors.NewConflictError("a group with this code already exists in the school year")
		}
		return nil, fmt.Errorf("error creating group: %w", err)
	}
	group.ID = id
	return group, nil
}

// UpdateGroup updates a class group. The school year is fixed at creation.
func (s *GroupService) UpdateGroup(ctx context.Context, id int64, req *dto.UpdateGroupRequest) (*models.Group, error) {
	if !validation.CompiledPatterns.GroupCode.MatchString(req.Code) {
		return nil, apperrors.NewBadRequestError("code may only contain letters, digits and dashes")
	}

	group, err := s.GetGroupByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.validateGroupRefs(ctx, req.GradeID, req.ShiftID); err != nil {
		return nil, err
	}

	group.GradeID = req.GradeID
	group.ShiftID = req.ShiftID
	group.DirectorUserID = req.DirectorUserID
	group.Code = req.Code
	if req.Capacity != nil {
		group.Capacity = *req.Capacity
	}

	if err := s.groupRepo.Update(ctx, group); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewResourceNotFoundError(fmt.Sprintf("group with ID %d not found", id))
		}
		if dberrors.IsUniqueViolation(err) {
			return nil, apperrors.NewConflictError("a group with this code already exists in the school year")
		}
		return nil, fmt.Errorf("error updating group: %w", err)
	}
	return group, nil
}

// DeleteGroup soft deletes a group
func (s *GroupService) DeleteGroup(ctx context.Context, id int64) error {
	deleted, err := s.groupRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("error deleting group: %w", err)
	}
	if !deleted {
		return apperrors.NewResourceNotFoundError(fmt.Sprintf("group with ID %d not found", id))
	}
	return nil
}
