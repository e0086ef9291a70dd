package controllers

import (
	"context"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/avillada/escolar/internal/app/models"
	"github.com/avillada/escolar/internal/app/models/dto"
	"github.com/avillada/escolar/internal/app/services"
	"github.com/avillada/escolar/internal/middleware"
	"github.com/avillada/escolar/internal/pkg/helpers"
)

// PersonController handles personal records and the document type catalog
type PersonController struct {
	personService *services.PersonService
}

// NewPersonController creates a new PersonController
func NewPersonController(personService *services.PersonService) *PersonController {
	return &PersonController{
		personService: personService,
	}
}

// GetPeople lists people, optionally filtered by a search term
func (c *PersonController) GetPeople(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)
	search := queryString(ctx, "search")

	people, total, err := c.personService.GetPeople(ctx.Request.Context(), search, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.PersonListResponse{
			People:         people,
			PaginationInfo: helpers.NewPaginationInfo(total, page, size),
		},
		Timestamp: time.Now(),
	})
}

// GetPersonByID retrieves a person
func (c *PersonController) GetPersonByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	person, err := c.personService.GetPersonByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      person,
		Timestamp: time.Now(),
	})
}

// CreatePerson registers a person
func (c *PersonController) CreatePerson(ctx *gin.Context) {
	var req dto.CreatePersonRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	person, err := c.personService.CreatePerson(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      person,
		Timestamp: time.Now(),
	})
}

// UpdatePerson updates a person's record
func (c *PersonController) UpdatePerson(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdatePersonRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	person, err := c.personService.UpdatePerson(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      person,
		Timestamp: time.Now(),
	})
}

// DeletePerson soft deletes a person
func (c *PersonController) DeletePerson(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.personService.DeletePerson(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Person deleted successfully"},
		Timestamp: time.Now(),
	})
}

// UploadPhoto stores a person's photo
func (c *PersonController) UploadPhoto(ctx *gin.Context) {
	c.uploadImage(ctx, "photo", c.personService.UploadPhoto)
}

// UploadSignature stores a person's signature image
func (c *PersonController) UploadSignature(ctx *gin.Context) {
	c.uploadImage(ctx, "signature", c.personService.UploadSignature)
}

func (c *PersonController) uploadImage(ctx *gin.Context, field string, save func(context.Context, int64, *multipart.FileHeader) (*models.Person, error)) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	fileHeader, err := ctx.FormFile(field)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "A "+field+" file is required")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	person, err := save(ctx.Request.Context(), id, fileHeader)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      person,
		Timestamp: time.Now(),
	})
}

// GetIDTypes lists the identity document type catalog
func (c *PersonController) GetIDTypes(ctx *gin.Context) {
	idTypes, err := c.personService.GetIDTypes(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      idTypes,
		Timestamp: time.Now(),
	})
}

// CreateIDType adds an identity document type
func (c *PersonController) CreateIDType(ctx *gin.Context) {
	var req dto.CreateIDTypeRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	idType, err := c.personService.CreateIDType(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      idType,
		Timestamp: time.Now(),
	})
}
