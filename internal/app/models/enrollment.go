package models

import "time"

// Enrollment registers a student in a group for a school year
type Enrollment struct {
	ID           int64      `json:"id" db:"id"`
	PersonID     int64      `json:"personId" db:"person_id"`
	GroupID      int64      `json:"groupId" db:"group_id"`
	SchoolYearID int64      `json:"schoolYearId" db:"school_year_id"`
	Active       bool       `json:"active" db:"active"`
	EnrolledOn   time.Time  `json:"enrolledOn" db:"enrolled_on"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt    *time.Time `json:"updatedAt,omitempty" db:"updated_at"`
	DeletedAt    *time.Time `json:"-" db:"deleted_at"`

	Person *Person `json:"person,omitempty"`
	Group  *Group  `json:"group,omitempty"`
}

// Score stores a student's grade for a subject in a period
type Score struct {
	ID            int64      `json:"id" db:"id"`
	PersonID      int64      `json:"personId" db:"person_id"`
	SubjectID     int64      `json:"subjectId" db:"subject_id"`
	PeriodID      int64      `json:"periodId" db:"period_id"`
	SchoolYearID  int64      `json:"schoolYearId" db:"school_year_id"`
	TeacherUserID int64      `json:"teacherUserId" db:"teacher_user_id"`
	Value         float64    `json:"value" db:"value"`
	CreatedAt     time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt     *time.Time `json:"updatedAt,omitempty" db:"updated_at"`
	DeletedAt     *time.Time `json:"-" db:"deleted_at"`

	Person  *Person  `json:"person,omitempty"`
	Subject *Subject `json:"subject,omitempty"`
}

// Absence records a missed class, optionally linked to a score row
type Absence struct {
	ID        int64      `json:"id" db:"id"`
	ScoreID   *int64     `json:"scoreId,omitempty" db:"score_id"`
	PersonID  int64      `json:"personId" db:"person_id"`
	SubjectID int64      `json:"subjectId" db:"subject_id"`
	AbsentOn  time.Time  `json:"absentOn" db:"absent_on"`
	Excused   bool       `json:"excused" db:"excused"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty" db:"updated_at"`
	DeletedAt *time.Time `json:"-" db:"deleted_at"`
}
