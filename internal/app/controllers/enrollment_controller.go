package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/avillada/escolar/internal/app/models/dto"
	"github.com/avillada/escolar/internal/app/services"
	"github.com/avillada/escolar/internal/middleware"
	"github.com/avillada/escolar/internal/pkg/helpers"
)

// EnrollmentController handles student enrollments
type EnrollmentController struct {
	enrollmentService *services.EnrollmentService
}

// NewEnrollmentController creates a new EnrollmentController
func NewEnrollmentController(enrollmentService *services.EnrollmentService) *EnrollmentController {
	return &EnrollmentController{
		enrollmentService: enrollmentService,
	}
}

// GetEnrollments lists enrollments with optional filters
func (c *EnrollmentController) GetEnrollments(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)
	personID := queryInt64(ctx, "personId")
	groupID := queryInt64(ctx, "groupId")
	schoolYearID := queryInt64(ctx, "schoolYearId")

	enrollments, total, err := c.enrollmentService.GetEnrollments(ctx.Request.Context(), personID, groupID, schoolYearID, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.EnrollmentListResponse{
			Enrollments:    enrollments,
			PaginationInfo: helpers.NewPaginationInfo(total, page, size),
		},
		Timestamp: time.Now(),
	})
}

// GetEnrollmentByID retrieves an enrollment
func (c *EnrollmentController) GetEnrollmentByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	enrollment, err := c.enrollmentService.GetEnrollmentByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      enrollment,
		Timestamp: time.Now(),
	})
}

// CreateEnrollment enrolls a student into a group
func (c *EnrollmentController) CreateEnrollment(ctx *gin.Context) {
	var req dto.CreateEnrollmentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	enrollment, err := c.enrollmentService.CreateEnrollment(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      enrollment,
		Timestamp: time.Now(),
	})
}

// UpdateEnrollment moves or re-activates an enrollment
func (c *EnrollmentController) UpdateEnrollment(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateEnrollmentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	enrollment, err := c.enrollmentService.UpdateEnrollment(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      enrollment,
		Timestamp: time.Now(),
	})
}

// DeleteEnrollment withdraws an enrollment
func (c *EnrollmentController) DeleteEnrollment(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.enrollmentService.DeleteEnrollment(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Enrollment deleted successfully"},
		Timestamp: time.Now(),
	})
}
