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

// UserController handles user account administration
type UserController struct {
	userService *services.UserService
	rbacService *services.RbacService
}

// NewUserController creates a new UserController
func NewUserController(userService *services.UserService, rbacService *services.RbacService) *UserController {
	return &UserController{
		userService: userService,
		rbacService: rbacService,
	}
}

// GetUsers lists user accounts
func (c *UserController) GetUsers(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)

	users, total, err := c.userService.GetUsers(ctx.Request.Context(), page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.UserListResponse{
			Users:          users,
			PaginationInfo: helpers.NewPaginationInfo(total, page, size),
		},
		Timestamp: time.Now(),
	})
}

// GetUserByID retrieves a user account
func (c *UserController) GetUserByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	user, err := c.userService.GetUserByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      user,
		Timestamp: time.Now(),
	})
}

// CreateUser registers a user account, optionally assigning roles
func (c *UserController) CreateUser(ctx *gin.Context) {
	var req dto.CreateUserRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	user, err := c.userService.CreateUser(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      user,
		Timestamp: time.Now(),
	})
}

// UpdateUser updates a user account
func (c *UserController) UpdateUser(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateUserRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	user, err := c.userService.UpdateUser(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      user,
		Timestamp: time.Now(),
	})
}

// DeleteUser deactivates a user account
func (c *UserController) DeleteUser(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.userService.DeleteUser(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "User deleted successfully"},
		Timestamp: time.Now(),
	})
}

// GetUserRoles lists the roles assigned to a user
func (c *UserController) GetUserRoles(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	roles, err := c.rbacService.GetUserRoles(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      roles,
		Timestamp: time.Now(),
	})
}

// AssignRole links a role to a user
func (c *UserController) AssignRole(ctx *gin.Context) {
	var req dto.AssignRoleRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	if err := c.rbacService.AssignRole(ctx.Request.Context(), &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Role assigned successfully"},
		Timestamp: time.Now(),
	})
}

// RemoveRole unlinks a role assignment
func (c *UserController) RemoveRole(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "userRoleId")
	if !ok {
		return
	}

	if err := c.rbacService.RemoveRole(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Role removed successfully"},
		Timestamp: time.Now(),
	})
}
