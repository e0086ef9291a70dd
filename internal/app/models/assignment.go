package models

import "time"

// TeacherAssignment maps a teacher to a subject inside a grade, group and
// school year. Every field but the subject may be left open; a NULL group
// means the assignment covers every group of the grade, and group rows are
// materialized by the expansion step.
type TeacherAssignment struct {
	ID              int64      `json:"id" db:"id"`
	TeacherPersonID *int64     `json:"teacherPersonId,omitempty" db:"teacher_person_id"`
	SubjectID       int64      `json:"subjectId" db:"subject_id"`
	GradeID         *int64     `json:"gradeId,omitempty" db:"grade_id"`
	GroupID         *int64     `json:"groupId,omitempty" db:"group_id"`
	SchoolYearID    *int64     `json:"schoolYearId,omitempty" db:"school_year_id"`
	CreatedAt       time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt       *time.Time `json:"updatedAt,omitempty" db:"updated_at"`
	DeletedAt       *time.Time `json:"-" db:"deleted_at"`

	Teacher *Person  `json:"teacher,omitempty"`
	Subject *Subject `json:"subject,omitempty"`
	Grade   *Grade   `json:"grade,omitempty"`
	Group   *Group   `json:"group,omitempty"`
}

// Scope returns the assignment's group coverage
func (a TeacherAssignment) Scope() GroupScope {
	return GroupScope{GroupID: a.GroupID}
}

// ExpandResult reports what the group expansion did for one assignment
type ExpandResult struct {
	Changed bool   `json:"changed"`
	Created int    `json:"created"`
	Skipped string `json:"skipped,omitempty"`
}

// Expansion skip reasons
const (
	SkipNoGrade  = "sin_grado"
	SkipNoYear   = "sin_anio"
	SkipNoGroups = "sin_grupos"
)
