package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/eduerp-dev/eduerp-api/internal/models"
	appErrors "github.com/eduerp-dev/eduerp-api/pkg/errors"
)

type studentStore interface {
	ListStudents(role models.UserRole) ([]models.Student, error)
	GetStudent(role models.UserRole, id int64) (models.Student, bool, error)
	FindStudent(role models.UserRole, email string) (models.Student, bool, error)
	UpsertStudent(ctx context.Context, role models.UserRole, in models.Student) (models.Student, error)
	RemoveStudent(ctx context.Context, role models.UserRole, id int64) error
}

// UpsertStudentRequest carries the fields a caller may set. Email is the
// collection's natural key; a request matching an existing email updates
// that record in place.
type UpsertStudentRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email" validate:"required,email"`
	Course         string `json:"course"`
	Year           string `json:"year"`
	Status         string `json:"status" validate:"omitempty,oneof=active inactive"`
	EnrollmentDate string `json:"enrollmentDate"`
}

// StudentService handles student roster use-cases.
type StudentService struct {
	store     studentStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs the student service.
func NewStudentService(store studentStore, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{store: store, validator: validate, logger: logger}
}

// List returns the roster in insertion order.
func (s *StudentService) List(role models.UserRole) ([]models.Student, error) {
	return s.store.ListStudents(role)
}

// Get fetches one student by id.
func (s *StudentService) Get(role models.UserRole, id int64) (*models.Student, error) {
	student, ok, err := s.store.GetStudent(role, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	return &student, nil
}

// Upsert inserts or merges a student keyed by email.
func (s *StudentService) Upsert(ctx context.Context, role models.UserRole, req UpsertStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	student, err := s.store.UpsertStudent(ctx, role, models.Student{
		Name:           req.Name,
		Email:          req.Email,
		Course:         req.Course,
		Year:           req.Year,
		Status:         req.Status,
		EnrollmentDate: req.EnrollmentDate,
	})
	if err != nil {
		return nil, err
	}
	return &student, nil
}

// Remove deletes by id; an absent id is a silent no-op.
func (s *StudentService) Remove(ctx context.Context, role models.UserRole, id int64) error {
	return s.store.RemoveStudent(ctx, role, id)
}
