package dto

import "github.com/avillada/escolar/internal/app/models"

// CreateGradeRequest represents grade creation data
type CreateGradeRequest struct {
	Name  string       `json:"name" binding:"required,min=2,max=50"`
	Level models.Level `json:"level" binding:"required,oneof=primaria secundaria media"`
}

// CreateShiftRequest represents shift creation data
type CreateShiftRequest struct {
	Name string `json:"name" binding:"required,min=2,max=50"`
}

// CreateSubjectRequest represents subject creation data
type CreateSubjectRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=100"`
	WeeklyHours *int   `json:"weeklyHours" binding:"omitempty,gte=1,lte=40"`
}

// UpdateSubjectRequest represents subject update data
type UpdateSubjectRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=100"`
	WeeklyHours *int   `json:"weeklyHours" binding:"omitempty,gte=1,lte=40"`
}

// CreateSchoolYearRequest represents school year creation data
type CreateSchoolYearRequest struct {
	Year      int    `json:"year" binding:"required,gte=2000,lte=2100"`
	StartDate string `json:"startDate" binding:"required"`
	EndDate   string `json:"endDate" binding:"required"`
	StateID   int64  `json:"stateId" binding:"required,gt=0"`
}

// CreatePeriodRequest represents academic period creation data
type CreatePeriodRequest struct {
	SchoolYearID int64               `json:"schoolYearId" binding:"required,gt=0"`
	Name         string              `json:"name" binding:"required,min=2,max=50"`
	StartDate    string              `json:"startDate" binding:"required"`
	EndDate      string              `json:"endDate" binding:"required"`
	Status       models.PeriodStatus `json:"status" binding:"omitempty,oneof=activo cerrado pendiente"`
}

// UpdatePeriodRequest represents academic period update data
type UpdatePeriodRequest struct {
	Name      string              `json:"name" binding:"required,min=2,max=50"`
	StartDate string              `json:"startDate" binding:"required"`
	EndDate   string              `json:"endDate" binding:"required"`
	Status    models.PeriodStatus `json:"status" binding:"required,oneof=activo cerrado pendiente"`
}

// CreateGroupRequest represents class group creation data
type CreateGroupRequest struct {
	GradeID        int64  `json:"gradeId" binding:"required,gt=0"`
	ShiftID        int64  `json:"shiftId" binding:"required,gt=0"`
	SchoolYearID   int64  `json:"schoolYearId" binding:"required,gt=0"`
	DirectorUserID *int64 `json:"directorUserId"`
	Code           string `json:"code" binding:"required,min=1,max=10"`
	Capacity       *int   `json:"capacity" binding:"omitempty,gte=1,lte=60"`
}

// UpdateGroupRequest represents class group update data
type UpdateGroupRequest struct {
	GradeID        int64  `json:"gradeId" binding:"required,gt=0"`
	ShiftID        int64  `json:"shiftId" binding:"required,gt=0"`
	DirectorUserID *int64 `json:"directorUserId"`
	Code           string `json:"code" binding:"required,min=1,max=10"`
	Capacity       *int   `json:"capacity" binding:"omitempty,gte=1,lte=60"`
}

// GroupListResponse represents a paginated list of groups
type GroupListResponse struct {
	Groups []models.Group `json:"groups"`
	PaginationInfo
}

// CreateGradeSubjectRequest binds a subject into a grade's curriculum
type CreateGradeSubjectRequest struct {
	GradeID      int64 `json:"gradeId" binding:"required,gt=0"`
	SubjectID    int64 `json:"subjectId" binding:"required,gt=0"`
	SchoolYearID int64 `json:"schoolYearId" binding:"required,gt=0"`
	WeeklyHours  *int  `json:"weeklyHours" binding:"omitempty,gte=1,lte=40"`
}
