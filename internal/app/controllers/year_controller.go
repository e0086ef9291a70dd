package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/avillada/escolar/internal/app/models/dto"
	"github.com/avillada/escolar/internal/app/services"
	"github.com/avillada/escolar/internal/middleware"
)

// YearController handles school years and their academic periods
type YearController struct {
	yearService *services.YearService
}

// NewYearController creates a new YearController
func NewYearController(yearService *services.YearService) *YearController {
	return &YearController{
		yearService: yearService,
	}
}

// GetSchoolYears lists school years
func (c *YearController) GetSchoolYears(ctx *gin.Context) {
	years, err := c.yearService.GetSchoolYears(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      years,
		Timestamp: time.Now(),
	})
}

// GetActiveSchoolYear returns the school year currently in the active state
func (c *YearController) GetActiveSchoolYear(ctx *gin.Context) {
	year, err := c.yearService.GetActiveSchoolYear(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      year,
		Timestamp: time.Now(),
	})
}

// GetSchoolYearByID retrieves a school year
func (c *YearController) GetSchoolYearByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	year, err := c.yearService.GetSchoolYearByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      year,
		Timestamp: time.Now(),
	})
}

// CreateSchoolYear registers a school year
func (c *YearController) CreateSchoolYear(ctx *gin.Context) {
	var req dto.CreateSchoolYearRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	year, err := c.yearService.CreateSchoolYear(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      year,
		Timestamp: time.Now(),
	})
}

// UpdateSchoolYear updates a school year
func (c *YearController) UpdateSchoolYear(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.CreateSchoolYearRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	year, err := c.yearService.UpdateSchoolYear(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      year,
		Timestamp: time.Now(),
	})
}

// DeleteSchoolYear removes a school year
func (c *YearController) DeleteSchoolYear(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.yearService.DeleteSchoolYear(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "School year deleted successfully"},
		Timestamp: time.Now(),
	})
}

// GetPeriods lists academic periods, optionally for one school year
func (c *YearController) GetPeriods(ctx *gin.Context) {
	schoolYearID := queryInt64(ctx, "schoolYearId")

	periods, err := c.yearService.GetPeriods(ctx.Request.Context(), schoolYearID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      periods,
		Timestamp: time.Now(),
	})
}

// CreatePeriod registers an academic period
func (c *YearController) CreatePeriod(ctx *gin.Context) {
	var req dto.CreatePeriodRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	period, err := c.yearService.CreatePeriod(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      period,
		Timestamp: time.Now(),
	})
}

// UpdatePeriod updates an academic period
func (c *YearController) UpdatePeriod(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdatePeriodRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	period, err := c.yearService.UpdatePeriod(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      period,
		Timestamp: time.Now(),
	})
}

// DeletePeriod removes an academic period
func (c *YearController) DeletePeriod(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.yearService.DeletePeriod(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Period deleted successfully"},
		Timestamp: time.Now(),
	})
}
