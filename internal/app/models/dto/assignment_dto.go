package dto

import "github.com/avillada/escolar/internal/app/models"

// CreateAssignmentRequest represents teacher assignment creation data.
// Everything except the subject may be left open and completed later.
type CreateAssignmentRequest struct {
	TeacherPersonID *int64 `json:"teacherPersonId"`
	SubjectID       int64  `json:"subjectId" binding:"required,gt=0"`
	GradeID         *int64 `json:"gradeId"`
	GroupID         *int64 `json:"groupId"`
	SchoolYearID    *int64 `json:"schoolYearId"`
}

// UpdateAssignmentRequest represents teacher assignment update data
type UpdateAssignmentRequest struct {
	TeacherPersonID *int64 `json:"teacherPersonId"`
	SubjectID       int64  `json:"subjectId" binding:"required,gt=0"`
	GradeID         *int64 `json:"gradeId"`
	GroupID         *int64 `json:"groupId"`
	SchoolYearID    *int64 `json:"schoolYearId"`
}

// AssignmentResponse is an assignment plus the outcome of its group expansion
type AssignmentResponse struct {
	Assignment *models.TeacherAssignment `json:"assignment"`
	Expansion  *models.ExpandResult      `json:"expansion,omitempty"`
	Reused     bool                      `json:"reused,omitempty"`
}

// AssignmentListResponse represents a paginated list of assignments
type AssignmentListResponse struct {
	Assignments []models.TeacherAssignment `json:"assignments"`
	PaginationInfo
}

// NormalizeResponse summarizes a repair pass over all assignments
type NormalizeResponse struct {
	Updated    int   `json:"updated"`
	Created    int   `json:"created"`
	Duplicates int64 `json:"duplicates"`
}

// TeacherOption is a selectable teacher in assignment forms
type TeacherOption struct {
	PersonID  int64  `json:"personId"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	IDNumber  string `json:"idNumber"`
	Assigned  bool   `json:"assigned"`
}

// ClassStudent is one roster entry of an assignment's class listing
type ClassStudent struct {
	PersonID  int64    `json:"personId"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	GroupCode string   `json:"groupCode"`
	Score     *float64 `json:"score,omitempty"`
	Absences  int      `json:"absences"`
}

// ClassRosterResponse lists the students an assignment teaches
type ClassRosterResponse struct {
	AssignmentID int64          `json:"assignmentId"`
	SubjectName  string         `json:"subjectName"`
	Students     []ClassStudent `json:"students"`
}
