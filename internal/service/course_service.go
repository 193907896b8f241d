package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/eduerp-dev/eduerp-api/internal/models"
	appErrors "github.com/eduerp-dev/eduerp-api/pkg/errors"
)

type courseStore interface {
	ListCourses(role models.UserRole) ([]models.Course, error)
	FindCourse(role models.UserRole, code string) (models.Course, bool, error)
	UpsertCourse(ctx context.Context, role models.UserRole, in models.Course) (models.Course, error)
	RemoveCourse(ctx context.Context, role models.UserRole, code string) error
}

// UpsertCourseRequest is keyed by course code.
type UpsertCourseRequest struct {
	Code       string `json:"code" validate:"required"`
	Name       string `json:"name"`
	Department string `json:"department"`
	Duration   string `json:"duration"`
	Credits    int    `json:"credits" validate:"omitempty,min=0"`
}

// CourseService handles the course catalogue.
type CourseService struct {
	store     courseStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCourseService constructs the course service.
func NewCourseService(store courseStore, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{store: store, validator: validate, logger: logger}
}

func (s *CourseService) List(role models.UserRole) ([]models.Course, error) {
	return s.store.ListCourses(role)
}

func (s *CourseService) Get(role models.UserRole, code string) (*models.Course, error) {
	course, ok, err := s.store.FindCourse(role, code)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
	}
	return &course, nil
}

func (s *CourseService) Upsert(ctx context.Context, role models.UserRole, req UpsertCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	course, err := s.store.UpsertCourse(ctx, role, models.Course{
		Code:       req.Code,
		Name:       req.Name,
		Department: req.Department,
		Duration:   req.Duration,
		Credits:    req.Credits,
	})
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (s *CourseService) Remove(ctx context.Context, role models.UserRole, code string) error {
	return s.store.RemoveCourse(ctx, role, code)
}
