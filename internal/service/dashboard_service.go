package service

import (
	"go.uber.org/zap"

	"github.com/eduerp-dev/eduerp-api/internal/models"
	"github.com/eduerp-dev/eduerp-api/internal/policy"
	appErrors "github.com/eduerp-dev/eduerp-api/pkg/errors"
)

type dashboardStore interface {
	ListStudents(role models.UserRole) ([]models.Student, error)
	ListTeachers(role models.UserRole) ([]models.Teacher, error)
	ListCourses(role models.UserRole) ([]models.Course, error)
	ListAttendance(role models.UserRole) ([]models.AttendanceRecord, error)
	ListFees(role models.UserRole) ([]models.FeeRecord, error)
	ListExaminations(role models.UserRole) ([]models.Examination, error)
	ListBooks(role models.UserRole) ([]models.Book, error)
	Settings(role models.UserRole) (models.Settings, error)
}

// DashboardOverview is the landing-view payload. Counts only cover the
// collections the role is allowed to see.
type DashboardOverview struct {
	SchoolName   string                  `json:"schoolName"`
	AcademicYear string                  `json:"academicYear"`
	Semester     string                  `json:"semester"`
	Counts       map[string]int          `json:"counts"`
	PendingFees  float64                 `json:"pendingFees,omitempty"`
	Modules      []models.Module         `json:"modules"`
	Access       map[models.Module]models.AccessLevel `json:"access"`
}

// DashboardService aggregates the landing view for each role.
type DashboardService struct {
	store  dashboardStore
	logger *zap.Logger
}

// NewDashboardService constructs the dashboard service.
func NewDashboardService(store dashboardStore, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{store: store, logger: logger}
}

// Overview builds the role's dashboard. Hidden collections are simply left
// out of the counts rather than surfacing a permission error on the landing
// page.
func (s *DashboardService) Overview(role models.UserRole) (*DashboardOverview, error) {
	if !role.Valid() {
		return nil, appErrors.ErrInvalidRole
	}

	settings, err := s.store.Settings(role)
	if err != nil {
		return nil, err
	}

	overview := &DashboardOverview{
		SchoolName:   settings.SchoolName,
		AcademicYear: settings.AcademicYear,
		Semester:     settings.Semester,
		Counts:       make(map[string]int),
		Modules:      policy.AllowedModules(role),
		Access:       make(map[models.Module]models.AccessLevel),
	}
	for _, m := range overview.Modules {
		overview.Access[m] = policy.Access(role, m)
	}

	if students, err := s.store.ListStudents(role); err == nil {
		overview.Counts["students"] = len(students)
	}
	if teachers, err := s.store.ListTeachers(role); err == nil {
		overview.Counts["teachers"] = len(teachers)
	}
	if courses, err := s.store.ListCourses(role); err == nil {
		overview.Counts["courses"] = len(courses)
	}
	if attendance, err := s.store.ListAttendance(role); err == nil {
		overview.Counts["attendance"] = len(attendance)
	}
	if exams, err := s.store.ListExaminations(role); err == nil {
		overview.Counts["examinations"] = len(exams)
	}
	if books, err := s.store.ListBooks(role); err == nil {
		overview.Counts["books"] = len(books)
	}
	if fees, err := s.store.ListFees(role); err == nil {
		overview.Counts["fees"] = len(fees)
		for _, fee := range fees {
			if fee.Status != models.FeePaid {
				overview.PendingFees += fee.Amount
			}
		}
	}

	return overview, nil
}
