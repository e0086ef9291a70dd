package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/avillada/escolar/internal/app/models/dto"
	"github.com/avillada/escolar/internal/app/services"
	"github.com/avillada/escolar/internal/middleware"
)

// AuthController handles authentication and password recovery
type AuthController struct {
	authService *services.AuthService
}

// NewAuthController creates a new AuthController
func NewAuthController(authService *services.AuthService) *AuthController {
	return &AuthController{
		authService: authService,
	}
}

// Login authenticates a user and issues an access token
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	response, err := c.authService.Login(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      response,
		Timestamp: time.Now(),
	})
}

// GetProfile returns the authenticated user with roles and page access
func (c *AuthController) GetProfile(ctx *gin.Context) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	profile, err := c.authService.GetProfile(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      profile,
		Timestamp: time.Now(),
	})
}

// RecoverPassword starts the password recovery flow. The response is
// the same whether or not the email belongs to a user.
func (c *AuthController) RecoverPassword(ctx *gin.Context) {
	var req dto.RecoverPasswordRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	if err := c.authService.RecoverPassword(ctx.Request.Context(), &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "If the email is registered, a recovery code was sent"},
		Timestamp: time.Now(),
	})
}

// VerifyRecoveryCode checks a recovery code without consuming it
func (c *AuthController) VerifyRecoveryCode(ctx *gin.Context) {
	var req dto.VerifyCodeRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	if err := c.authService.VerifyRecoveryCode(ctx.Request.Context(), &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Recovery code is valid"},
		Timestamp: time.Now(),
	})
}

// ResetPassword consumes a recovery code and sets a new password
func (c *AuthController) ResetPassword(ctx *gin.Context) {
	var req dto.ResetPasswordRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	if err := c.authService.ResetPassword(ctx.Request.Context(), &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Password updated successfully"},
		Timestamp: time.Now(),
	})
}

// ChangePassword updates the authenticated user's password
func (c *AuthController) ChangePassword(ctx *gin.Context) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	var req dto.ChangePasswordRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	if err := c.authService.ChangePassword(ctx.Request.Context(), userID, &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Password updated successfully"},
		Timestamp: time.Now(),
	})
}
