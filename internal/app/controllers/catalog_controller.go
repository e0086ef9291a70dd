package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/avillada/escolar/internal/app/models/dto"
	"github.com/avillada/escolar/internal/app/services"
	"github.com/avillada/escolar/internal/middleware"
)

// CatalogController handles the academic catalogs: grades, shifts,
// subjects, year states and the grade curriculum.
type CatalogController struct {
	catalogService      *services.CatalogService
	gradeSubjectService *services.GradeSubjectService
}

// NewCatalogController creates a new CatalogController
func NewCatalogController(catalogService *services.CatalogService, gradeSubjectService *services.GradeSubjectService) *CatalogController {
	return &CatalogController{
		catalogService:      catalogService,
		gradeSubjectService: gradeSubjectService,
	}
}

// GetGrades lists the grade catalog
func (c *CatalogController) GetGrades(ctx *gin.Context) {
	grades, err := c.catalogService.GetGrades(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      grades,
		Timestamp: time.Now(),
	})
}

// CreateGrade adds a grade
func (c *CatalogController) CreateGrade(ctx *gin.Context) {
	var req dto.CreateGradeRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	grade, err := c.catalogService.CreateGrade(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      grade,
		Timestamp: time.Now(),
	})
}

// UpdateGrade updates a grade
func (c *CatalogController) UpdateGrade(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.CreateGradeRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	grade, err := c.catalogService.UpdateGrade(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      grade,
		Timestamp: time.Now(),
	})
}

// DeleteGrade removes a grade
func (c *CatalogController) DeleteGrade(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.catalogService.DeleteGrade(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Grade deleted successfully"},
		Timestamp: time.Now(),
	})
}

// GetShifts lists the shift catalog
func (c *CatalogController) GetShifts(ctx *gin.Context) {
	shifts, err := c.catalogService.GetShifts(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      shifts,
		Timestamp: time.Now(),
	})
}

// CreateShift adds a shift
func (c *CatalogController) CreateShift(ctx *gin.Context) {
	var req dto.CreateShiftRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	shift, err := c.catalogService.CreateShift(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      shift,
		Timestamp: time.Now(),
	})
}

// DeleteShift removes a shift
func (c *CatalogController) DeleteShift(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.catalogService.DeleteShift(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Shift deleted successfully"},
		Timestamp: time.Now(),
	})
}

// GetSubjects lists the subject catalog
func (c *CatalogController) GetSubjects(ctx *gin.Context) {
	subjects, err := c.catalogService.GetSubjects(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      subjects,
		Timestamp: time.Now(),
	})
}

// CreateSubject adds a subject
func (c *CatalogController) CreateSubject(ctx *gin.Context) {
	var req dto.CreateSubjectRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	subject, err := c.catalogService.CreateSubject(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      subject,
		Timestamp: time.Now(),
	})
}

// UpdateSubject updates a subject
func (c *CatalogController) UpdateSubject(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateSubjectRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	subject, err := c.catalogService.UpdateSubject(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      subject,
		Timestamp: time.Now(),
	})
}

// DeleteSubject removes a subject
func (c *CatalogController) DeleteSubject(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.catalogService.DeleteSubject(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Subject deleted successfully"},
		Timestamp: time.Now(),
	})
}

// GetYearStates lists the school year state catalog
func (c *CatalogController) GetYearStates(ctx *gin.Context) {
	states, err := c.catalogService.GetYearStates(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      states,
		Timestamp: time.Now(),
	})
}

// GetGradeSubjects lists curriculum entries, optionally filtered
func (c *CatalogController) GetGradeSubjects(ctx *gin.Context) {
	gradeID := queryInt64(ctx, "gradeId")
	schoolYearID := queryInt64(ctx, "schoolYearId")

	entries, err := c.gradeSubjectService.GetGradeSubjects(ctx.Request.Context(), gradeID, schoolYearID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      entries,
		Timestamp: time.Now(),
	})
}

// CreateGradeSubject binds a subject into a grade's curriculum
func (c *CatalogController) CreateGradeSubject(ctx *gin.Context) {
	var req dto.CreateGradeSubjectRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	entry, err := c.gradeSubjectService.CreateGradeSubject(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      entry,
		Timestamp: time.Now(),
	})
}

// UpdateGradeSubject changes a curriculum entry's weekly hours
func (c *CatalogController) UpdateGradeSubject(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req struct {
		WeeklyHours *int `json:"weeklyHours" binding:"omitempty,gte=1,lte=40"`
	}
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	entry, err := c.gradeSubjectService.UpdateGradeSubject(ctx.Request.Context(), id, req.WeeklyHours)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      entry,
		Timestamp: time.Now(),
	})
}

// DeleteGradeSubject removes a curriculum entry
func (c *CatalogController) DeleteGradeSubject(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.gradeSubjectService.DeleteGradeSubject(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Curriculum entry deleted successfully"},
		Timestamp: time.Now(),
	})
}
