package dto

import "github.com/avillada/escolar/internal/app/models"

// CreateEnrollmentRequest represents enrollment creation data
type CreateEnrollmentRequest struct {
	PersonID     int64  `json:"personId" binding:"required,gt=0"`
	GroupID      int64  `json:"groupId" binding:"required,gt=0"`
	SchoolYearID int64  `json:"schoolYearId" binding:"required,gt=0"`
	EnrolledOn   string `json:"enrolledOn"`
}

// UpdateEnrollmentRequest moves or re-activates an enrollment
type UpdateEnrollmentRequest struct {
	GroupID int64 `json:"groupId" binding:"required,gt=0"`
	Active  bool  `json:"active"`
}

// EnrollmentListResponse represents a paginated list of enrollments
type EnrollmentListResponse struct {
	Enrollments []models.Enrollment `json:"enrollments"`
	PaginationInfo
}

// CreateScoreRequest represents score creation data
type CreateScoreRequest struct {
	PersonID     int64   `json:"personId" binding:"required,gt=0"`
	SubjectID    int64   `json:"subjectId" binding:"required,gt=0"`
	PeriodID     int64   `json:"periodId" binding:"required,gt=0"`
	SchoolYearID int64   `json:"schoolYearId" binding:"required,gt=0"`
	Value        float64 `json:"value" binding:"gte=0,lte=5"`
}

// UpdateScoreRequest represents score update data
type UpdateScoreRequest struct {
	Value float64 `json:"value" binding:"gte=0,lte=5"`
}

// ScoreListResponse represents a paginated list of scores
type ScoreListResponse struct {
	Scores []models.Score `json:"scores"`
	PaginationInfo
}

// CreateAbsenceRequest represents absence creation data
type CreateAbsenceRequest struct {
	PersonID  int64  `json:"personId" binding:"required,gt=0"`
	SubjectID int64  `json:"subjectId" binding:"required,gt=0"`
	ScoreID   *int64 `json:"scoreId"`
	AbsentOn  string `json:"absentOn" binding:"required"`
	Excused   bool   `json:"excused"`
}

// UpdateAbsenceRequest toggles the excused flag of an absence
type UpdateAbsenceRequest struct {
	Excused bool `json:"excused"`
}

// AbsenceListResponse represents a paginated list of absences
type AbsenceListResponse struct {
	Absences []models.Absence `json:"absences"`
	PaginationInfo
}
