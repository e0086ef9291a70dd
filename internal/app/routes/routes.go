package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avillada/escolar/internal/app/controllers"
	"github.com/avillada/escolar/internal/app/models"
	"github.com/avillada/escolar/internal/middleware"
)

// Page routes registered in the permission matrix. Every guarded endpoint
// names the page it belongs to; the seed data creates a page row per route.
const (
	PageUsers       = "/usuarios"
	PageRoles       = "/roles"
	PagePages       = "/paginas"
	PagePermissions = "/permisos"
	PageUserRoles   = "/usuario-rol"
	PagePeople      = "/personas"
	PageIDTypes     = "/tipos-identificacion"
	PageGrades      = "/grados"
	PageShifts      = "/jornadas"
	PageSubjects    = "/asignaturas"
	PageSchoolYears = "/aniolectivo"
	PageYearStates  = "/estados-anio"
	PagePeriods     = "/periodos"
	PageGroups      = "/grupos"
	PageEnrollments = "/matriculas"
	PageScores      = "/calificaciones"
	PageAbsences    = "/fallas"
	PageAssignments = "/docente-asignatura"
	PageReportCards = "/boletin"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	userController *controllers.UserController,
	personController *controllers.PersonController,
	rbacController *controllers.RbacController,
	catalogController *controllers.CatalogController,
	yearController *controllers.YearController,
	groupController *controllers.GroupController,
	assignmentController *controllers.AssignmentController,
	enrollmentController *controllers.EnrollmentController,
	scoreController *controllers.ScoreController,
	reportCardController *controllers.ReportCardController,
	authMiddleware *middleware.AuthMiddleware,
	permissionMiddleware *middleware.PermissionMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	v1.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/login", authController.Login)
		auth.POST("/recover", authController.RecoverPassword)
		auth.POST("/verify-code", authController.VerifyRecoveryCode)
		auth.POST("/reset-password", authController.ResetPassword)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	authenticated.GET("/auth/me", authController.GetProfile)
	authenticated.POST("/auth/change-password", authController.ChangePassword)

	// User management
	users := authenticated.Group("/users", permissionMiddleware.RequireByMethod(PageUsers))
	{
		users.GET("", userController.GetUsers)
		users.GET("/:id", userController.GetUserByID)
		users.POST("", userController.CreateUser)
		users.PUT("/:id", userController.UpdateUser)
		users.DELETE("/:id", userController.DeleteUser)
	}

	userRoles := authenticated.Group("", permissionMiddleware.RequireByMethod(PageUserRoles))
	{
		userRoles.GET("/users/:id/roles", userController.GetUserRoles)
		userRoles.POST("/user-roles", userController.AssignRole)
		userRoles.DELETE("/user-roles/:userRoleId", userController.RemoveRole)
	}

	// RBAC administration
	roles := authenticated.Group("/roles", permissionMiddleware.RequireByMethod(PageRoles))
	{
		roles.GET("", rbacController.GetRoles)
		roles.POST("", rbacController.CreateRole)
		roles.PUT("/:id", rbacController.UpdateRole)
		roles.DELETE("/:id", rbacController.DeleteRole)
	}

	pages := authenticated.Group("/pages", permissionMiddleware.RequireByMethod(PagePages))
	{
		pages.GET("", rbacController.GetPages)
		pages.POST("", rbacController.CreatePage)
		pages.PUT("/:id", rbacController.UpdatePage)
		pages.DELETE("/:id", rbacController.DeletePage)
	}

	permissions := authenticated.Group("/permissions", permissionMiddleware.RequireByMethod(PagePermissions))
	{
		permissions.GET("", rbacController.GetPermissions)
		permissions.POST("", rbacController.CreatePermission)
		permissions.PUT("/:id", rbacController.UpdatePermission)
		permissions.DELETE("/:id", rbacController.DeletePermission)
	}

	// People registry
	people := authenticated.Group("/people", permissionMiddleware.RequireByMethod(PagePeople))
	{
		people.GET("", personController.GetPeople)
		people.GET("/:id", personController.GetPersonByID)
		people.POST("", personController.CreatePerson)
		people.PUT("/:id", personController.UpdatePerson)
		people.DELETE("/:id", personController.DeletePerson)
		people.POST("/:id/photo", personController.UploadPhoto)
		people.POST("/:id/signature", personController.UploadSignature)
	}

	idTypes := authenticated.Group("/id-types", permissionMiddleware.RequireByMethod(PageIDTypes))
	{
		idTypes.GET("", personController.GetIDTypes)
		idTypes.POST("", personController.CreateIDType)
	}

	// Academic catalogs
	grades := authenticated.Group("/grades", permissionMiddleware.RequireByMethod(PageGrades))
	{
		grades.GET("", catalogController.GetGrades)
		grades.POST("", catalogController.CreateGrade)
		grades.PUT("/:id", catalogController.UpdateGrade)
		grades.DELETE("/:id", catalogController.DeleteGrade)
	}

	shifts := authenticated.Group("/shifts", permissionMiddleware.RequireByMethod(PageShifts))
	{
		shifts.GET("", catalogController.GetShifts)
		shifts.POST("", catalogController.CreateShift)
		shifts.DELETE("/:id", catalogController.DeleteShift)
	}

	subjects := authenticated.Group("/subjects", permissionMiddleware.RequireByMethod(PageSubjects))
	{
		subjects.GET("", catalogController.GetSubjects)
		subjects.POST("", catalogController.CreateSubject)
		subjects.PUT("/:id", catalogController.UpdateSubject)
		subjects.DELETE("/:id", catalogController.DeleteSubject)
	}

	// Grade curriculum shares the subjects page
	gradeSubjects := authenticated.Group("/grade-subjects", permissionMiddleware.RequireByMethod(PageSubjects))
	{
		gradeSubjects.GET("", catalogController.GetGradeSubjects)
		gradeSubjects.POST("", catalogController.CreateGradeSubject)
		gradeSubjects.PUT("/:id", catalogController.UpdateGradeSubject)
		gradeSubjects.DELETE("/:id", catalogController.DeleteGradeSubject)
	}

	// School years and periods
	schoolYears := authenticated.Group("/school-years", permissionMiddleware.RequireByMethod(PageSchoolYears))
	{
		schoolYears.GET("", yearController.GetSchoolYears)
		schoolYears.GET("/active", yearController.GetActiveSchoolYear)
		schoolYears.GET("/:id", yearController.GetSchoolYearByID)
		schoolYears.POST("", yearController.CreateSchoolYear)
		schoolYears.PUT("/:id", yearController.UpdateSchoolYear)
		schoolYears.DELETE("/:id", yearController.DeleteSchoolYear)
	}

	yearStates := authenticated.Group("/year-states", permissionMiddleware.RequireByMethod(PageYearStates))
	{
		yearStates.GET("", catalogController.GetYearStates)
	}

	periods := authenticated.Group("/periods", permissionMiddleware.RequireByMethod(PagePeriods))
	{
		periods.GET("", yearController.GetPeriods)
		periods.POST("", yearController.CreatePeriod)
		periods.PUT("/:id", yearController.UpdatePeriod)
		periods.DELETE("/:id", yearController.DeletePeriod)
	}

	// Groups and enrollment
	groups := authenticated.Group("/groups", permissionMiddleware.RequireByMethod(PageGroups))
	{
		groups.GET("", groupController.GetGroups)
		groups.GET("/:id", groupController.GetGroupByID)
		groups.POST("", groupController.CreateGroup)
		groups.PUT("/:id", groupController.UpdateGroup)
		groups.DELETE("/:id", groupController.DeleteGroup)
	}

	enrollments := authenticated.Group("/enrollments", permissionMiddleware.RequireByMethod(PageEnrollments))
	{
		enrollments.GET("", enrollmentController.GetEnrollments)
		enrollments.GET("/:id", enrollmentController.GetEnrollmentByID)
		enrollments.POST("", enrollmentController.CreateEnrollment)
		enrollments.PUT("/:id", enrollmentController.UpdateEnrollment)
		enrollments.DELETE("/:id", enrollmentController.DeleteEnrollment)
	}

	// Teacher assignments
	assignments := authenticated.Group("/teacher-assignments", permissionMiddleware.RequireByMethod(PageAssignments))
	{
		assignments.GET("", assignmentController.GetAssignments)
		assignments.GET("/:id", assignmentController.GetAssignmentByID)
		assignments.GET("/:id/class", assignmentController.ClassRoster)
		assignments.GET("/:id/class/periods/:periodId", assignmentController.ClassRoster)
		assignments.GET("/available-teachers", assignmentController.AvailableTeachers)
		assignments.GET("/candidate-teachers", assignmentController.AvailableTeachers)
		assignments.POST("", assignmentController.CreateAssignment)
		assignments.POST("/normalize", assignmentController.Normalize)
		assignments.PUT("/:id", assignmentController.UpdateAssignment)
		assignments.DELETE("/:id", assignmentController.DeleteAssignment)
	}

	// Scores and absences
	scores := authenticated.Group("/scores", permissionMiddleware.RequireByMethod(PageScores))
	{
		scores.GET("", scoreController.GetScores)
		scores.POST("", scoreController.CreateScore)
		scores.PUT("/:id", scoreController.UpdateScore)
		scores.DELETE("/:id", scoreController.DeleteScore)
	}

	absences := authenticated.Group("/absences", permissionMiddleware.RequireByMethod(PageAbsences))
	{
		absences.GET("", scoreController.GetAbsences)
		absences.POST("", scoreController.CreateAbsence)
		absences.PUT("/:id", scoreController.UpdateAbsence)
		absences.DELETE("/:id", scoreController.DeleteAbsence)
	}

	// Report cards. The explicit view action lets clients request the
	// export and print aliases through the action query parameter.
	authenticated.GET(
		"/report-cards/groups/:groupId/periods/:periodId",
		permissionMiddleware.Require(PageReportCards, models.ActionView),
		reportCardController.GetGroupReport,
	)
}
