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

// GroupController handles class groups
type GroupController struct {
	groupService *services.GroupService
}

// NewGroupController creates a new GroupController
func NewGroupController(groupService *services.GroupService) *GroupController {
	return &GroupController{
		groupService: groupService,
	}
}

// GetGroups lists class groups, optionally filtered by grade or year
func (c *GroupController) GetGroups(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)
	gradeID := queryInt64(ctx, "gradeId")
	schoolYearID := queryInt64(ctx, "schoolYearId")

	groups, total, err := c.groupService.GetGroups(ctx.Request.Context(), gradeID, schoolYearID, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.GroupListResponse{
			Groups:         groups,
			PaginationInfo: helpers.NewPaginationInfo(total, page, size),
		},
		Timestamp: time.Now(),
	})
}

// GetGroupByID retrieves a class group
func (c *GroupController) GetGroupByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	group, err := c.groupService.GetGroupByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      group,
		Timestamp: time.Now(),
	})
}

// CreateGroup registers a class group
func (c *GroupController) CreateGroup(ctx *gin.Context) {
	var req dto.CreateGroupRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	group, err := c.groupService.CreateGroup(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      group,
		Timestamp: time.Now(),
	})
}

// UpdateGroup updates a class group
func (c *GroupController) UpdateGroup(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateGroupRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	group, err := c.groupService.UpdateGroup(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      group,
		Timestamp: time.Now(),
	})
}

// DeleteGroup removes a class group
func (c *GroupController) DeleteGroup(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.groupService.DeleteGroup(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Group deleted successfully"},
		Timestamp: time.Now(),
	})
}
