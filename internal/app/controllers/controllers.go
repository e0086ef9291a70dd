// Package controllers exposes the HTTP handlers of the API. Each
// controller binds requests, delegates to a service and writes the
// response envelope; error translation lives in the middleware package.
package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/avillada/escolar/internal/app/models/dto"
)

// parseIDParam reads a positive int64 path parameter. On failure it
// writes the validation response and reports ok=false.
func parseIDParam(c *gin.Context, name string) (int64, bool) {
	value := c.Param(name)
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid "+name)
		errorDetail = errorDetail.WithDetails(name + " must be a positive number")
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}

// queryInt64 reads an optional int64 query parameter, nil when absent
func queryInt64(c *gin.Context, name string) *int64 {
	value := c.Query(name)
	if value == "" {
		return nil
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return nil
	}
	return &parsed
}

// queryString reads an optional string query parameter, nil when absent
func queryString(c *gin.Context, name string) *string {
	value := c.Query(name)
	if value == "" {
		return nil
	}
	return &value
}
