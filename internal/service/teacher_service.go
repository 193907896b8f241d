package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/eduerp-dev/eduerp-api/internal/models"
	appErrors "github.com/eduerp-dev/eduerp-api/pkg/errors"
)

type teacherStore interface {
	ListTeachers(role models.UserRole) ([]models.Teacher, error)
	FindTeacher(role models.UserRole, email string) (models.Teacher, bool, error)
	UpsertTeacher(ctx context.Context, role models.UserRole, in models.Teacher) (models.Teacher, error)
	RemoveTeacher(ctx context.Context, role models.UserRole, id int64) error
}

// UpsertTeacherRequest mirrors UpsertStudentRequest for the staff roster.
type UpsertTeacherRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email" validate:"required,email"`
	Department string `json:"department"`
	Subject    string `json:"subject"`
	Experience int    `json:"experience" validate:"omitempty,min=0"`
	Status     string `json:"status" validate:"omitempty,oneof=active inactive"`
	JoinDate   string `json:"joinDate"`
}

// TeacherService handles staff roster use-cases.
type TeacherService struct {
	store     teacherStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTeacherService constructs the teacher service.
func NewTeacherService(store teacherStore, validate *validator.Validate, logger *zap.Logger) *TeacherService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeacherService{store: store, validator: validate, logger: logger}
}

func (s *TeacherService) List(role models.UserRole) ([]models.Teacher, error) {
	return s.store.ListTeachers(role)
}

func (s *TeacherService) Find(role models.UserRole, email string) (*models.Teacher, error) {
	teacher, ok, err := s.store.FindTeacher(role, email)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
	}
	return &teacher, nil
}

func (s *TeacherService) Upsert(ctx context.Context, role models.UserRole, req UpsertTeacherRequest) (*models.Teacher, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid teacher payload")
	}
	teacher, err := s.store.UpsertTeacher(ctx, role, models.Teacher{
		Name:       req.Name,
		Email:      req.Email,
		Department: req.Department,
		Subject:    req.Subject,
		Experience: req.Experience,
		Status:     req.Status,
		JoinDate:   req.JoinDate,
	})
	if err != nil {
		return nil, err
	}
	return &teacher, nil
}

func (s *TeacherService) Remove(ctx context.Context, role models.UserRole, id int64) error {
	return s.store.RemoveTeacher(ctx, role, id)
}
