package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/avillada/escolar/internal/app/models/dto"
	"github.com/avillada/escolar/internal/app/repositories"
	"github.com/avillada/escolar/internal/app/services"
	"github.com/avillada/escolar/internal/middleware"
	"github.com/avillada/escolar/internal/pkg/helpers"
)

// AssignmentController handles teacher assignments and their group coverage
type AssignmentController struct {
	assignmentService *services.AssignmentService
}

// NewAssignmentController creates a new AssignmentController
func NewAssignmentController(assignmentService *services.AssignmentService) *AssignmentController {
	return &AssignmentController{
		assignmentService: assignmentService,
	}
}

// GetAssignments lists assignments with optional filters
func (c *AssignmentController) GetAssignments(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)
	filter := repositories.AssignmentFilter{
		TeacherPersonID: queryInt64(ctx, "teacherPersonId"),
		SubjectID:       queryInt64(ctx, "subjectId"),
		GradeID:         queryInt64(ctx, "gradeId"),
		GroupID:         queryInt64(ctx, "groupId"),
		SchoolYearID:    queryInt64(ctx, "schoolYearId"),
	}

	assignments, total, err := c.assignmentService.GetAssignments(ctx.Request.Context(), filter, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.AssignmentListResponse{
			Assignments:    assignments,
			PaginationInfo: helpers.NewPaginationInfo(total, page, size),
		},
		Timestamp: time.Now(),
	})
}

// GetAssignmentByID retrieves an assignment
func (c *AssignmentController) GetAssignmentByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	assignment, err := c.assignmentService.GetAssignmentByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      assignment,
		Timestamp: time.Now(),
	})
}

// CreateAssignment registers an assignment and expands its group coverage
func (c *AssignmentController) CreateAssignment(ctx *gin.Context) {
	var req dto.CreateAssignmentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	response, err := c.assignmentService.CreateAssignment(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	status := http.StatusCreated
	if response.Reused {
		status = http.StatusOK
	}

	ctx.JSON(status, dto.APIResponse{
		Data:      response,
		Timestamp: time.Now(),
	})
}

// UpdateAssignment updates an assignment and re-expands its coverage
func (c *AssignmentController) UpdateAssignment(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateAssignmentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	response, err := c.assignmentService.UpdateAssignment(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      response,
		Timestamp: time.Now(),
	})
}

// DeleteAssignment removes an assignment
func (c *AssignmentController) DeleteAssignment(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.assignmentService.DeleteAssignment(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Assignment deleted successfully"},
		Timestamp: time.Now(),
	})
}

// Normalize repairs group coverage across every live assignment
func (c *AssignmentController) Normalize(ctx *gin.Context) {
	response, err := c.assignmentService.Normalize(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      response,
		Timestamp: time.Now(),
	})
}

// AvailableTeachers lists teachers selectable for a subject
func (c *AssignmentController) AvailableTeachers(ctx *gin.Context) {
	subjectID := queryInt64(ctx, "subjectId")
	if subjectID == nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "subjectId query parameter is required")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}
	schoolYearID := queryInt64(ctx, "schoolYearId")

	teachers, err := c.assignmentService.AvailableTeachers(ctx.Request.Context(), *subjectID, schoolYearID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      teachers,
		Timestamp: time.Now(),
	})
}

// ClassRoster lists the students an assignment teaches, optionally with
// their scores for one period.
func (c *AssignmentController) ClassRoster(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	// Period comes either as a path segment or a query parameter
	periodID := queryInt64(ctx, "periodId")
	if ctx.Param("periodId") != "" {
		p, ok := parseIDParam(ctx, "periodId")
		if !ok {
			return
		}
		periodID = &p
	}

	roster, err := c.assignmentService.ClassRoster(ctx.Request.Context(), id, periodID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      roster,
		Timestamp: time.Now(),
	})
}
