package dto

import "github.com/avillada/escolar/internal/app/models"

// CreatePersonRequest represents person creation data
type CreatePersonRequest struct {
	FirstName string  `json:"firstName" binding:"required,min=2,max=100"`
	LastName  string  `json:"lastName" binding:"required,min=2,max=100"`
	IDTypeID  *int64  `json:"idTypeId"`
	IDNumber  string  `json:"idNumber" binding:"required"`
	BirthDate *string `json:"birthDate"`
	Gender    *string `json:"gender"`
	Phone     *string `json:"phone"`
	Email     *string `json:"email" binding:"omitempty,email"`
}

// UpdatePersonRequest represents person update data
type UpdatePersonRequest struct {
	FirstName string  `json:"firstName" binding:"required,min=2,max=100"`
	LastName  string  `json:"lastName" binding:"required,min=2,max=100"`
	IDTypeID  *int64  `json:"idTypeId"`
	IDNumber  string  `json:"idNumber" binding:"required"`
	BirthDate *string `json:"birthDate"`
	Gender    *string `json:"gender"`
	Phone     *string `json:"phone"`
	Email     *string `json:"email" binding:"omitempty,email"`
}

// PersonListResponse represents a paginated list of people
type PersonListResponse struct {
	People []models.Person `json:"people"`
	PaginationInfo
}

// CreateUserRequest represents user creation data
type CreateUserRequest struct {
	PersonID  *int64 `json:"personId"`
	Username  string `json:"username" binding:"required,min=3,max=50"`
	Password  string `json:"password" binding:"required,min=8"`
	IsTeacher bool   `json:"isTeacher"`
	RoleIDs   []int64 `json:"roleIds"`
}

// UpdateUserRequest represents user update data
type UpdateUserRequest struct {
	PersonID  *int64 `json:"personId"`
	Username  string `json:"username" binding:"required,min=3,max=50"`
	IsTeacher bool   `json:"isTeacher"`
}

// UserListResponse represents a paginated list of users
type UserListResponse struct {
	Users []models.User `json:"users"`
	PaginationInfo
}

// CreateIDTypeRequest represents identity document type creation data
type CreateIDTypeRequest struct {
	Name string `json:"name" binding:"required,min=2,max=50"`
}
