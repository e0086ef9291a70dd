package models

import "time"

// YearState is the catalog of school year states (Activo, Cerrado)
type YearState struct {
	ID        int64      `json:"id" db:"id"`
	Name      string     `json:"name" db:"name"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty" db:"updated_at"`
	DeletedAt *time.Time `json:"-" db:"deleted_at"`
}

// SchoolYear defines the school year model based on the 'school_years' table
type SchoolYear struct {
	ID        int64      `json:"id" db:"id"`
	Year      int        `json:"year" db:"year"`
	StartDate time.Time  `json:"startDate" db:"start_date"`
	EndDate   time.Time  `json:"endDate" db:"end_date"`
	StateID   int64      `json:"stateId" db:"state_id"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty" db:"updated_at"`
	DeletedAt *time.Time `json:"-" db:"deleted_at"`

	State *YearState `json:"state,omitempty"`
}

// Period defines an academic period within a school year
type Period struct {
	ID           int64        `json:"id" db:"id"`
	SchoolYearID int64        `json:"schoolYearId" db:"school_year_id"`
	Name         string       `json:"name" db:"name"`
	StartDate    time.Time    `json:"startDate" db:"start_date"`
	EndDate      time.Time    `json:"endDate" db:"end_date"`
	Status       PeriodStatus `json:"status" db:"status"`
	CreatedAt    time.Time    `json:"createdAt" db:"created_at"`
	UpdatedAt    *time.Time   `json:"updatedAt,omitempty" db:"updated_at"`
	DeletedAt    *time.Time   `json:"-" db:"deleted_at"`
}

// Grade defines a grade level (e.g. Sexto) based on the 'grades' table
type Grade struct {
	ID        int64      `json:"id" db:"id"`
	Name      string     `json:"name" db:"name"`
	Level     Level      `json:"level" db:"level"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty" db:"updated_at"`
	DeletedAt *time.Time `json:"-" db:"deleted_at"`
}

// Shift defines the school day shift catalog (mañana, tarde)
type Shift struct {
	ID        int64      `json:"id" db:"id"`
	Name      string     `json:"name" db:"name"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty" db:"updated_at"`
	DeletedAt *time.Time `json:"-" db:"deleted_at"`
}

// Group defines a class group within a grade, shift and school year
type Group struct {
	ID             int64      `json:"id" db:"id"`
	GradeID        int64      `json:"gradeId" db:"grade_id"`
	ShiftID        int64      `json:"shiftId" db:"shift_id"`
	SchoolYearID   int64      `json:"schoolYearId" db:"school_year_id"`
	DirectorUserID *int64     `json:"directorUserId,omitempty" db:"director_user_id"`
	Code           string     `json:"code" db:"code"`
	Capacity       int        `json:"capacity" db:"capacity"`
	CreatedAt      time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt      *time.Time `json:"updatedAt,omitempty" db:"updated_at"`
	DeletedAt      *time.Time `json:"-" db:"deleted_at"`

	Grade *Grade `json:"grade,omitempty"`
	Shift *Shift `json:"shift,omitempty"`
}

// Subject defines the subject model based on the 'subjects' table
type Subject struct {
	ID          int64      `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	WeeklyHours *int       `json:"weeklyHours,omitempty" db:"weekly_hours"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty" db:"updated_at"`
	DeletedAt   *time.Time `json:"-" db:"deleted_at"`
}

// GradeSubject binds a subject into a grade's curriculum for a school year,
// optionally overriding the subject's weekly hours.
type GradeSubject struct {
	ID           int64      `json:"id" db:"id"`
	GradeID      int64      `json:"gradeId" db:"grade_id"`
	SubjectID    int64      `json:"subjectId" db:"subject_id"`
	SchoolYearID int64      `json:"schoolYearId" db:"school_year_id"`
	WeeklyHours  *int       `json:"weeklyHours,omitempty" db:"weekly_hours"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt    *time.Time `json:"updatedAt,omitempty" db:"updated_at"`
	DeletedAt    *time.Time `json:"-" db:"deleted_at"`

	Subject *Subject `json:"subject,omitempty"`
}
