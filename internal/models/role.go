package models

// UserRole represents the available roles for the role policy.
type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleTeacher UserRole = "teacher"
	RoleAdmin   UserRole = "admin"
)

// Valid reports whether the role is one of the three known roles.
func (r UserRole) Valid() bool {
	switch r {
	case RoleStudent, RoleTeacher, RoleAdmin:
		return true
	}
	return false
}

// Module identifies a feature surface of the application. Module names are
// also the navigation identifiers exposed to clients.
type Module string

const (
	ModuleDashboard      Module = "dashboard"
	ModuleStudents       Module = "students"
	ModuleTeachers       Module = "teachers"
	ModuleCourses        Module = "courses"
	ModuleAttendance     Module = "attendance"
	ModuleFees           Module = "fees"
	ModuleExaminations   Module = "examinations"
	ModuleContentLibrary Module = "content-library"
	ModuleReports        Module = "reports"
)

// AllModules lists every module in display order.
var AllModules = []Module{
	ModuleDashboard,
	ModuleStudents,
	ModuleTeachers,
	ModuleCourses,
	ModuleAttendance,
	ModuleFees,
	ModuleExaminations,
	ModuleContentLibrary,
	ModuleReports,
}

// AccessLevel describes how much of a module a role may use.
type AccessLevel string

const (
	AccessFull     AccessLevel = "full"
	AccessNone     AccessLevel = "none"
	AccessReadOnly AccessLevel = "readonly"
	AccessLimited  AccessLevel = "limited"
)
