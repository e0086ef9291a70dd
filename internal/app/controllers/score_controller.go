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

// ScoreController handles student scores and absences
type ScoreController struct {
	scoreService   *services.ScoreService
	absenceService *services.AbsenceService
}

// NewScoreController creates a new ScoreController
func NewScoreController(scoreService *services.ScoreService, absenceService *services.AbsenceService) *ScoreController {
	return &ScoreController{
		scoreService:   scoreService,
		absenceService: absenceService,
	}
}

// GetScores lists scores with optional filters
func (c *ScoreController) GetScores(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)
	personID := queryInt64(ctx, "personId")
	subjectID := queryInt64(ctx, "subjectId")
	periodID := queryInt64(ctx, "periodId")
	schoolYearID := queryInt64(ctx, "schoolYearId")

	scores, total, err := c.scoreService.GetScores(ctx.Request.Context(), personID, subjectID, periodID, schoolYearID, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.ScoreListResponse{
			Scores:         scores,
			PaginationInfo: helpers.NewPaginationInfo(total, page, size),
		},
		Timestamp: time.Now(),
	})
}

// CreateScore records a score for the authenticated teacher
func (c *ScoreController) CreateScore(ctx *gin.Context) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	var req dto.CreateScoreRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	score, err := c.scoreService.CreateScore(ctx.Request.Context(), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      score,
		Timestamp: time.Now(),
	})
}

// UpdateScore changes a score's value while its period is open
func (c *ScoreController) UpdateScore(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateScoreRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	score, err := c.scoreService.UpdateScore(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      score,
		Timestamp: time.Now(),
	})
}

// DeleteScore removes a score while its period is open
func (c *ScoreController) DeleteScore(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.scoreService.DeleteScore(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Score deleted successfully"},
		Timestamp: time.Now(),
	})
}

// GetAbsences lists absences with optional filters
func (c *ScoreController) GetAbsences(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)
	personID := queryInt64(ctx, "personId")
	subjectID := queryInt64(ctx, "subjectId")

	absences, total, err := c.absenceService.GetAbsences(ctx.Request.Context(), personID, subjectID, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.AbsenceListResponse{
			Absences:       absences,
			PaginationInfo: helpers.NewPaginationInfo(total, page, size),
		},
		Timestamp: time.Now(),
	})
}

// CreateAbsence records a missed class
func (c *ScoreController) CreateAbsence(ctx *gin.Context) {
	var req dto.CreateAbsenceRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	absence, err := c.absenceService.CreateAbsence(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      absence,
		Timestamp: time.Now(),
	})
}

// UpdateAbsence toggles an absence's excused flag
func (c *ScoreController) UpdateAbsence(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateAbsenceRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	absence, err := c.absenceService.UpdateAbsence(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      absence,
		Timestamp: time.Now(),
	})
}

// DeleteAbsence removes an absence record
func (c *ScoreController) DeleteAbsence(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.absenceService.DeleteAbsence(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Absence deleted successfully"},
		Timestamp: time.Now(),
	})
}
