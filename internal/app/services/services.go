package services

// Services defined in this package:
// - AuthService: authentication, profile and password recovery
// - AccessService: per-request page/action permission checks
// - UserService: user account management
// - PersonService: personal records and identity document types
// - RbacService: roles, pages, permissions and role bindings
// - CatalogService: grades, shifts, subjects and year states
// - YearService: school years and academic periods
// - GroupService: class groups
// - GradeSubjectService: grade curricula
// - AssignmentService: teacher assignments and group expansion
// - EnrollmentService: student enrollments with seat capacity
// - ScoreService: period scores
// - AbsenceService: absences
// - ReportCardService: bulletin context assembly
