package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/avillada/escolar/internal/app/models"
	"github.com/avillada/escolar/internal/app/models/dto"
	"github.com/avillada/escolar/internal/app/repositories"
	"github.com/avillada/escolar/internal/pkg/apperrors"
	"github.com/avillada/escolar/internal/pkg/dberrors"
	"github.com/avillada/escolar/internal/pkg/filestorage"
	"github.com/avillada/escolar/internal/pkg/logger"
	"github.com/avillada/escolar/internal/pkg/validation"
)

// PersonService manages personal records
type PersonService struct {
	personRepo *repositories.PersonRepository
	idTypeRepo *repositories.IDTypeRepository
	storage    filestorage.FileStorage
}

// NewPersonService creates a new person service instance
func NewPersonService(personRepo *repositories.PersonRepository, idTypeRepo *repositories.IDTypeRepository, storage filestorage.FileStorage) *PersonService {
	return &PersonService{personRepo: personRepo, idTypeRepo: idTypeRepo, storage: storage}
}

func parseBirthDate(value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	parsed, err := time.Parse("2006-01-02", *value)
	if err != nil {
		return nil, apperrors.NewBadRequestError("birthDate must be a date in YYYY-MM-DD format")
	}
	return &parsed, nil
}

func (s *PersonService) validateIDNumber(idNumber string) error {
	if !validation.CompiledPatterns.Document.MatchString(idNumber) {
		return apperrors.NewBadRequestError("idNumber must be 6 to 12 digits")
	}
	return nil
}

// GetPeople lists people, optionally filtered by a name or document search
func (s *PersonService) GetPeople(ctx context.Context, search *string, page, pageSize int) ([]models.Person, int64, error) {
	people, total, err := s.personRepo.GetAll(ctx, search, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("error retrieving people: %w", err)
	}
	return people, total, nil
}

// GetPersonByID retrieves one person
func (s *PersonService) GetPersonByID(ctx context.Context, id int64) (*models.Person, error) {
	person, err := s.personRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error retrieving person: %w", err)
	}
	if person == nil {
		return nil, apperrors.NewResourceNotFoundError(fmt.Sprintf("person with ID %d not found", id))
	}
	return person, nil
}

// CreatePerson registers a new person
func (s *PersonService) CreatePerson(ctx context.Context, req *dto.CreatePersonRequest) (*models.Person, error) {
	if err := s.validateIDNumber(req.IDNumber); err != nil {
		return nil, err
	}
	birthDate, err := parseBirthDate(req.BirthDate)
	if err != nil {
		return nil, err
	}

	if req.IDTypeID != nil {
		idType, err := s.idTypeRepo.GetByID(ctx, *req.IDTypeID)
		if err != nil {
			return nil, fmt.Errorf("error loading id type: %w", err)
		}
		if idType == nil {
			return nil, apperrors.NewResourceNotFoundError(fmt.Sprintf("id type with ID %d not found", *req.IDTypeID))
		}
	}

	person := &models.Person{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		IDTypeID:  req.IDTypeID,
		IDNumber:  req.IDNumber,
		BirthDate: birthDate,
		Gender:    req.Gender,
		Phone:     req.Phone,
		Email:     req.Email,
	}

	id, err := s.personRepo.Create(ctx, person)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return nil, apperrors.ErrIdentifierExists
		}
		return nil, fmt.Errorf("error creating person: %w", err)
	}
	person.ID = id
	return person, nil
}

// UpdatePerson updates a person's record
func (s *PersonService) UpdatePerson(ctx context.Context, id int64, req *dto.UpdatePersonRequest) (*models.Person, error) {
	if err := s.validateIDNumber(req.IDNumber); err != nil {
		return nil, err
	}
	birthDate, err := parseBirthDate(req.BirthDate)
	if err != nil {
		return nil, err
	}

	person, err := s.GetPersonByID(ctx, id)
	if err != nil {
		return nil, err
	}

	person.FirstName = req.FirstName
	person.LastName = req.LastName
	person.IDTypeID = req.IDTypeID
	person.IDNumber = req.IDNumber
	person.BirthDate = birthDate
	person.Gender = req.Gender
	person.Phone = req.Phone
	person.Email = req.Email

	if err := s.personRepo.Update(ctx, person); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewResourceNotFoundError(fmt.Sprintf("person with ID %d not found", id))
		}
		if dberrors.IsUniqueViolation(err) {
			return nil, apperrors.ErrIdentifierExists
		}
		return nil, fmt.Errorf("error updating person: %w", err)
	}
	return person, nil
}

// DeletePerson soft deletes a person
func (s *PersonService) DeletePerson(ctx context.Context, id int64) error {
	deleted, err := s.personRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("error deleting person: %w", err)
	}
	if !deleted {
		return apperrors.NewResourceNotFoundError(fmt.Sprintf("person with ID %d not found", id))
	}
	return nil
}

// UploadPhoto stores a person's photo and records its URL. A previous
// photo is removed from storage after the record is updated.
func (s *PersonService) UploadPhoto(ctx context.Context, id int64, fileHeader *multipart.FileHeader) (*models.Person, error) {
	return s.uploadImage(ctx, id, fileHeader, "photos")
}

// UploadSignature stores a person's signature image and records its URL
func (s *PersonService) UploadSignature(ctx context.Context, id int64, fileHeader *multipart.FileHeader) (*models.Person, error) {
	return s.uploadImage(ctx, id, fileHeader, "signatures")
}

func (s *PersonService) uploadImage(ctx context.Context, id int64, fileHeader *multipart.FileHeader, subPath string) (*models.Person, error) {
	if fileHeader == nil {
		return nil, apperrors.NewBadRequestError("file is required")
	}

	person, err := s.GetPersonByID(ctx, id)
	if err != nil {
		return nil, err
	}

	url, err := s.storage.SaveFileWithPath(fileHeader, subPath)
	if err != nil {
		return nil, apperrors.NewBadRequestError(fmt.Sprintf("could not store file: %v", err))
	}

	var previous *string
	switch subPath {
	case "photos":
		previous = person.PhotoURL
		person.PhotoURL = &url
	case "signatures":
		previous = person.SignatureURL
		person.SignatureURL = &url
	}

	if err := s.personRepo.Update(ctx, person); err != nil {
		_ = s.storage.DeleteFile(url)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewResourceNotFoundError(fmt.Sprintf("person with ID %d not found", id))
		}
		return nil, fmt.Errorf("error updating person: %w", err)
	}

	if previous != nil {
		if err := s.storage.DeleteFile(*previous); err != nil {
			logger.Warn().Err(err).Str("file", *previous).Msg("Could not remove replaced image")
		}
	}

	return person, nil
}

// GetIDTypes lists the identity document type catalog
func (s *PersonService) GetIDTypes(ctx context.Context) ([]models.IDType, error) {
	idTypes, err := s.idTypeRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error retrieving id types: %w", err)
	}
	return idTypes, nil
}

// CreateIDType adds an identity document type
func (s *PersonService) CreateIDType(ctx context.Context, req *dto.CreateIDTypeRequest) (*models.IDType, error) {
	idType := &models.IDType{Name: req.Name}
	id, err := s.idTypeRepo.Create(ctx, idType)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return nil, apperrors.NewConflictError("an id type with this name already exists")
		}
		return nil, fmt.Errorf("error creating id type: %w", err)
	}
	idType.ID = id
	return idType, nil
}
