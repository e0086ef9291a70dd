package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/avillada/escolar/internal/app/models/dto"
	"github.com/avillada/escolar/internal/app/services"
	"github.com/avillada/escolar/internal/middleware"
)

// ReportCardController assembles report card bulletins
type ReportCardController struct {
	reportCardService *services.ReportCardService
}

// NewReportCardController creates a new ReportCardController
func NewReportCardController(reportCardService *services.ReportCardService) *ReportCardController {
	return &ReportCardController{
		reportCardService: reportCardService,
	}
}

// GetGroupReport builds the report card context for every active
// student of a group in one period.
func (c *ReportCardController) GetGroupReport(ctx *gin.Context) {
	groupID, ok := parseIDParam(ctx, "groupId")
	if !ok {
		return
	}
	periodID, ok := parseIDParam(ctx, "periodId")
	if !ok {
		return
	}

	report, err := c.reportCardService.BuildGroupReport(ctx.Request.Context(), groupID, periodID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      report,
		Timestamp: time.Now(),
	})
}
