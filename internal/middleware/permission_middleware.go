package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avillada/escolar/internal/app/models"
	"github.com/avillada/escolar/internal/app/models/dto"
	"github.com/avillada/escolar/internal/app/services"
)

// PermissionMiddleware guards routes with the page permission matrix.
// Each guarded route names the page it belongs to; the action defaults
// to one derived from the HTTP method unless stated explicitly.
type PermissionMiddleware struct {
	accessService *services.AccessService
}

// NewPermissionMiddleware creates a new PermissionMiddleware
func NewPermissionMiddleware(accessService *services.AccessService) *PermissionMiddleware {
	return &PermissionMiddleware{
		accessService: accessService,
	}
}

// Require checks that the authenticated user may perform action on the
// page registered under route. JWTAuth must run first.
func (m *PermissionMiddleware) Require(route string, action models.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := UserID(c)
		if !ok {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		requested := action
		if override := c.Query("action"); override != "" {
			requested = models.Action(override)
		}

		if err := m.accessService.Authorize(c.Request.Context(), userID, route, requested); err != nil {
			HandleAPIError(c, err)
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireByMethod derives the action from the HTTP method: GET checks
// the view flag, POST the create flag, PUT and PATCH the edit flag,
// and DELETE the delete flag.
func (m *PermissionMiddleware) RequireByMethod(route string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var action models.Action
		switch c.Request.Method {
		case http.MethodPost:
			action = models.ActionCreate
		case http.MethodPut, http.MethodPatch:
			action = models.ActionEdit
		case http.MethodDelete:
			action = models.ActionDelete
		default:
			action = models.ActionView
		}
		m.Require(route, action)(c)
	}
}
