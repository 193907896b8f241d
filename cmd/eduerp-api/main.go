package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/eduerp-dev/eduerp-api/api/swagger"
	"github.com/eduerp-dev/eduerp-api/internal/dispatch"
	"github.com/eduerp-dev/eduerp-api/internal/handler"
	"github.com/eduerp-dev/eduerp-api/internal/kv"
	internalmiddleware "github.com/eduerp-dev/eduerp-api/internal/middleware"
	"github.com/eduerp-dev/eduerp-api/internal/models"
	"github.com/eduerp-dev/eduerp-api/internal/service"
	"github.com/eduerp-dev/eduerp-api/internal/state"
	"github.com/eduerp-dev/eduerp-api/pkg/config"
	"github.com/eduerp-dev/eduerp-api/pkg/jobs"
	"github.com/eduerp-dev/eduerp-api/pkg/logger"
	corsmiddleware "github.com/eduerp-dev/eduerp-api/pkg/middleware/cors"
	reqidmiddleware "github.com/eduerp-dev/eduerp-api/pkg/middleware/requestid"
	"github.com/eduerp-dev/eduerp-api/pkg/storage"
)

// @title EduERP API
// @version 1.0.0
// @description School administration API: rosters, courses, attendance, fees, examinations, library, reports
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	docStore, err := openDocumentStore(cfg)
	if err != nil {
		logr.Sugar().Fatalw("failed to open document store", "driver", cfg.Storage.Driver, "error", err)
	}
	if closer, ok := docStore.(interface{ Close() error }); ok {
		defer closer.Close() //nolint:errcheck
	}

	ctx := context.Background()

	gateway := state.NewGateway(docStore, logr)
	store, report, err := state.Open(ctx, gateway, logr)
	if err != nil {
		logr.Sugar().Fatalw("failed to open state store", "error", err)
	}
	if report.Corrupt() {
		logr.Sugar().Warnw("persisted state partially corrupt; affected collections reset", "keys", report.CorruptKeys)
	}

	validate := validator.New()

	sessions := service.NewSessionService(gateway, cfg.Session.Secret, cfg.Session.Expiration, cfg.Session.Issuer, validate, logr)
	metrics := service.NewMetricsService()

	studentSvc := service.NewStudentService(store, validate, logr)
	teacherSvc := service.NewTeacherService(store, validate, logr)
	courseSvc := service.NewCourseService(store, validate, logr)
	attendanceSvc := service.NewAttendanceService(store, validate, logr)
	feeSvc := service.NewFeeService(store, validate, logr)
	examSvc := service.NewExamService(store, validate, logr)
	librarySvc := service.NewLibraryService(store, validate, logr)
	settingsSvc := service.NewSettingsService(store, validate, logr)
	dashboardSvc := service.NewDashboardService(store, logr)
	importSvc := service.NewImportService(store, logr)

	queueCfg := jobs.QueueConfig{
		Workers:    cfg.Jobs.Workers,
		MaxRetries: cfg.Jobs.MaxRetries,
		Logger:     logr,
	}
	tracker := service.NewArtifactTracker()

	backupFiles, err := storage.NewLocalStorage(cfg.Backups.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init backup storage", "error", err)
	}
	backupSigner := storage.NewSignedURLSigner(cfg.Backups.SignedURLSecret, cfg.Backups.SignedURLTTL)
	backupSvc := service.NewBackupService(store, backupFiles, backupSigner, tracker, queueCfg, logr)
	backupSvc.Start(ctx)
	defer backupSvc.Stop()

	reportFiles, err := storage.NewLocalStorage(cfg.Reports.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init report storage", "error", err)
	}
	reportSigner := storage.NewSignedURLSigner(cfg.Reports.SignedURLSecret, cfg.Reports.SignedURLTTL)
	reportSvc := service.NewReportService(store, reportFiles, reportSigner, tracker, queueCfg, validate, logr)
	reportSvc.Start(ctx)
	defer reportSvc.Stop()

	dispatcher := newDispatcher(logr, dashboardSvc, studentSvc, teacherSvc, courseSvc, attendanceSvc, feeSvc, examSvc, librarySvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metrics))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if _, _, err := gateway.LoadAll(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "storage unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handlers := handler.Handlers{
		Auth:       handler.NewAuthHandler(sessions, metrics),
		Navigation: handler.NewNavigationHandler(dispatcher),
		Dashboard:  handler.NewDashboardHandler(dashboardSvc),
		Students:   handler.NewStudentHandler(studentSvc),
		Teachers:   handler.NewTeacherHandler(teacherSvc),
		Courses:    handler.NewCourseHandler(courseSvc),
		Attendance: handler.NewAttendanceHandler(attendanceSvc),
		Fees:       handler.NewFeeHandler(feeSvc),
		Exams:      handler.NewExamHandler(examSvc),
		Library:    handler.NewLibraryHandler(librarySvc),
		Settings:   handler.NewSettingsHandler(settingsSvc),
		Reports:    handler.NewReportHandler(reportSvc),
		Admin:      handler.NewAdminHandler(importSvc, backupSvc),
	}
	handler.RegisterRoutes(r, handlers, sessions)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "storage", cfg.Storage.Driver)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

// openDocumentStore picks the key-value backend from configuration.
func openDocumentStore(cfg *config.Config) (kv.Store, error) {
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		return kv.NewMemory(), nil
	case config.DriverRedis:
		return kv.NewRedis(cfg.Redis)
	case config.DriverPostgres:
		return kv.NewPostgres(cfg.Database)
	case config.DriverFile:
		return kv.NewFile(cfg.Storage.DataDir)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// newDispatcher registers a view loader per module so activation returns the
// module's current payload.
func newDispatcher(
	logr *zap.Logger,
	dashboard *service.DashboardService,
	students *service.StudentService,
	teachers *service.TeacherService,
	courses *service.CourseService,
	attendance *service.AttendanceService,
	fees *service.FeeService,
	exams *service.ExamService,
	library *service.LibraryService,
) *dispatch.Dispatcher {
	d := dispatch.New(logr)
	d.Register(models.ModuleDashboard, func(_ context.Context, role models.UserRole) (any, error) {
		return dashboard.Overview(role)
	})
	d.Register(models.ModuleStudents, func(_ context.Context, role models.UserRole) (any, error) {
		return students.List(role)
	})
	d.Register(models.ModuleTeachers, func(_ context.Context, role models.UserRole) (any, error) {
		return teachers.List(role)
	})
	d.Register(models.ModuleCourses, func(_ context.Context, role models.UserRole) (any, error) {
		return courses.List(role)
	})
	d.Register(models.ModuleAttendance, func(_ context.Context, role models.UserRole) (any, error) {
		return attendance.List(role)
	})
	d.Register(models.ModuleFees, func(_ context.Context, role models.UserRole) (any, error) {
		return fees.List(role)
	})
	d.Register(models.ModuleExaminations, func(_ context.Context, role models.UserRole) (any, error) {
		return exams.List(role)
	})
	d.Register(models.ModuleContentLibrary, func(_ context.Context, role models.UserRole) (any, error) {
		return library.List(role)
	})
	return d
}
