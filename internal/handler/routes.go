package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/eduerp-dev/eduerp-api/internal/middleware"
	"github.com/eduerp-dev/eduerp-api/internal/models"
	"github.com/eduerp-dev/eduerp-api/internal/service"
)

// Handlers bundles every HTTP handler for route registration.
type Handlers struct {
	Auth       *AuthHandler
	Navigation *NavigationHandler
	Dashboard  *DashboardHandler
	Students   *StudentHandler
	Teachers   *TeacherHandler
	Courses    *CourseHandler
	Attendance *AttendanceHandler
	Fees       *FeeHandler
	Exams      *ExamHandler
	Library    *LibraryHandler
	Settings   *SettingsHandler
	Reports    *ReportHandler
	Admin      *AdminHandler
}

// RegisterRoutes mounts the API surface on the router. Download endpoints
// authenticate by signed token instead of a session, so they stay outside
// the secured group. Module middleware refuses early; the store re-checks
// the same policy on every operation.
func RegisterRoutes(r *gin.Engine, h Handlers, sessions *service.SessionService) {
	r.POST("/auth/login", h.Auth.Login)
	r.GET("/reports/download", h.Reports.Download)
	r.GET("/admin/backups/download", h.Admin.DownloadBackup)

	secured := r.Group("")
	secured.Use(middleware.Session(sessions))

	secured.GET("/auth/session", h.Auth.Session)
	secured.POST("/auth/logout", h.Auth.Logout)

	secured.GET("/navigation", h.Navigation.List)
	secured.POST("/navigation/activate", h.Navigation.Activate)

	secured.GET("/dashboard", middleware.RequireModule(models.ModuleDashboard), h.Dashboard.Overview)

	students := secured.Group("/students", middleware.RequireModule(models.ModuleStudents))
	students.GET("", h.Students.List)
	students.GET("/:id", h.Students.Get)
	students.PUT("", h.Students.Upsert)
	students.DELETE("/:id", h.Students.Remove)

	teachers := secured.Group("/teachers", middleware.RequireModule(models.ModuleTeachers))
	teachers.GET("", h.Teachers.List)
	teachers.GET("/search", h.Teachers.Find)
	teachers.PUT("", h.Teachers.Upsert)
	teachers.DELETE("/:id", h.Teachers.Remove)

	courses := secured.Group("/courses", middleware.RequireModule(models.ModuleCourses))
	courses.GET("", h.Courses.List)
	courses.GET("/:code", h.Courses.Get)
	courses.PUT("", h.Courses.Upsert)
	courses.DELETE("/:code", h.Courses.Remove)

	attendance := secured.Group("/attendance", middleware.RequireModule(models.ModuleAttendance))
	attendance.GET("", h.Attendance.List)
	attendance.PUT("", h.Attendance.Upsert)
	attendance.DELETE("/:id", h.Attendance.Remove)

	fees := secured.Group("/fees", middleware.RequireModule(models.ModuleFees))
	fees.GET("", h.Fees.List)
	fees.GET("/summary", h.Fees.Summary)
	fees.PUT("", h.Fees.Upsert)
	fees.DELETE("/:id", h.Fees.Remove)

	exams := secured.Group("/examinations", middleware.RequireModule(models.ModuleExaminations))
	exams.GET("", h.Exams.List)
	exams.PUT("", h.Exams.Upsert)
	exams.DELETE("/:id", h.Exams.Remove)

	library := secured.Group("/library/books", middleware.RequireModule(models.ModuleContentLibrary))
	library.GET("", h.Library.List)
	library.PUT("", h.Library.Upsert)
	library.DELETE("/:id", h.Library.Remove)

	secured.GET("/settings", h.Settings.Get)
	secured.PUT("/settings", middleware.RequireRoles(models.RoleAdmin), h.Settings.Update)

	reports := secured.Group("/reports", middleware.RequireModule(models.ModuleReports))
	reports.POST("", h.Reports.Generate)
	reports.GET("/:id", h.Reports.Status)

	admin := secured.Group("/admin", middleware.RequireRoles(models.RoleAdmin))
	admin.POST("/import/users", h.Admin.ImportUsers)
	admin.GET("/export/users", h.Admin.ExportUsers)
	admin.POST("/backups", h.Admin.CreateBackup)
	admin.GET("/backups/:id", h.Admin.BackupStatus)
	admin.POST("/restore", h.Admin.Restore)
	admin.POST("/factory-reset", h.Admin.FactoryReset)
}
