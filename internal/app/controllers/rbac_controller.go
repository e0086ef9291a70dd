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

// RbacController administers roles, pages and permissions
type RbacController struct {
	rbacService *services.RbacService
}

// NewRbacController creates a new RbacController
func NewRbacController(rbacService *services.RbacService) *RbacController {
	return &RbacController{
		rbacService: rbacService,
	}
}

// GetRoles lists roles
func (c *RbacController) GetRoles(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)

	roles, total, err := c.rbacService.GetRoles(ctx.Request.Context(), page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.RoleListResponse{
			Roles:          roles,
			PaginationInfo: helpers.NewPaginationInfo(total, page, size),
		},
		Timestamp: time.Now(),
	})
}

// CreateRole adds a role
func (c *RbacController) CreateRole(ctx *gin.Context) {
	var req dto.CreateRoleRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	role, err := c.rbacService.CreateRole(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      role,
		Timestamp: time.Now(),
	})
}

// UpdateRole updates a role
func (c *RbacController) UpdateRole(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateRoleRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	role, err := c.rbacService.UpdateRole(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      role,
		Timestamp: time.Now(),
	})
}

// DeleteRole removes a role
func (c *RbacController) DeleteRole(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.rbacService.DeleteRole(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Role deleted successfully"},
		Timestamp: time.Now(),
	})
}

// GetPages lists pages
func (c *RbacController) GetPages(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)

	pages, total, err := c.rbacService.GetPages(ctx.Request.Context(), page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.PageListResponse{
			Pages:          pages,
			PaginationInfo: helpers.NewPaginationInfo(total, page, size),
		},
		Timestamp: time.Now(),
	})
}

// CreatePage registers a page
func (c *RbacController) CreatePage(ctx *gin.Context) {
	var req dto.CreatePageRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	pageModel, err := c.rbacService.CreatePage(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      pageModel,
		Timestamp: time.Now(),
	})
}

// UpdatePage updates a page
func (c *RbacController) UpdatePage(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdatePageRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	pageModel, err := c.rbacService.UpdatePage(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      pageModel,
		Timestamp: time.Now(),
	})
}

// DeletePage removes a page
func (c *RbacController) DeletePage(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.rbacService.DeletePage(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Page deleted successfully"},
		Timestamp: time.Now(),
	})
}

// GetPermissions lists permission rows, optionally filtered by role or page
func (c *RbacController) GetPermissions(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)
	roleID := queryInt64(ctx, "roleId")
	pageID := queryInt64(ctx, "pageId")

	permissions, total, err := c.rbacService.GetPermissions(ctx.Request.Context(), roleID, pageID, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.PermissionListResponse{
			Permissions:    permissions,
			PaginationInfo: helpers.NewPaginationInfo(total, page, size),
		},
		Timestamp: time.Now(),
	})
}

// CreatePermission grants a role capability flags over a page
func (c *RbacController) CreatePermission(ctx *gin.Context) {
	var req dto.CreatePermissionRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	permission, err := c.rbacService.CreatePermission(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      permission,
		Timestamp: time.Now(),
	})
}

// UpdatePermission changes a permission row's capability flags
func (c *RbacController) UpdatePermission(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdatePermissionRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	permission, err := c.rbacService.UpdatePermission(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      permission,
		Timestamp: time.Now(),
	})
}

// DeletePermission removes a permission row
func (c *RbacController) DeletePermission(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.rbacService.DeletePermission(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Permission deleted successfully"},
		Timestamp: time.Now(),
	})
}
