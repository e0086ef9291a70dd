package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	RoleRepository          *RoleRepository
	PageRepository          *PageRepository
	PermissionRepository    *PermissionRepository
	UserRoleRepository      *UserRoleRepository
	UserRepository          *UserRepository
	PersonRepository        *PersonRepository
	IDTypeRepository        *IDTypeRepository
	GradeRepository         *GradeRepository
	ShiftRepository         *ShiftRepository
	SubjectRepository       *SubjectRepository
	YearStateRepository     *YearStateRepository
	SchoolYearRepository    *SchoolYearRepository
	PeriodRepository        *PeriodRepository
	GroupRepository         *GroupRepository
	GradeSubjectRepository  *GradeSubjectRepository
	AssignmentRepository    *AssignmentRepository
	EnrollmentRepository    *EnrollmentRepository
	ScoreRepository         *ScoreRepository
	AbsenceRepository       *AbsenceRepository
	PasswordResetRepository *PasswordResetRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		RoleRepository:          NewRoleRepository(db),
		PageRepository:          NewPageRepository(db),
		PermissionRepository:    NewPermissionRepository(db),
		UserRoleRepository:      NewUserRoleRepository(db),
		UserRepository:          NewUserRepository(db),
		PersonRepository:        NewPersonRepository(db),
		IDTypeRepository:        NewIDTypeRepository(db),
		GradeRepository:         NewGradeRepository(db),
		ShiftRepository:         NewShiftRepository(db),
		SubjectRepository:       NewSubjectRepository(db),
		YearStateRepository:     NewYearStateRepository(db),
		SchoolYearRepository:    NewSchoolYearRepository(db),
		PeriodRepository:        NewPeriodRepository(db),
		GroupRepository:         NewGroupRepository(db),
		GradeSubjectRepository:  NewGradeSubjectRepository(db),
		AssignmentRepository:    NewAssignmentRepository(db),
		EnrollmentRepository:    NewEnrollmentRepository(db),
		ScoreRepository:         NewScoreRepository(db),
		AbsenceRepository:       NewAbsenceRepository(db),
		PasswordResetRepository: NewPasswordResetRepository(db),
	}
}
