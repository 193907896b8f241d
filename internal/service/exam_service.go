package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/eduerp-dev/eduerp-api/internal/models"
	appErrors "github.com/eduerp-dev/eduerp-api/pkg/errors"
)

type examStore interface {
	ListExaminations(role models.UserRole) ([]models.Examination, error)
	UpsertExamination(ctx context.Context, role models.UserRole, in models.Examination) (models.Examination, error)
	RemoveExamination(ctx context.Context, role models.UserRole, id int64) error
}

// UpsertExamRequest schedules or reschedules an examination. Subject is free
// text, deliberately not a foreign key into the course catalogue.
type UpsertExamRequest struct {
	ID       int64  `json:"id"`
	Subject  string `json:"subject" validate:"required_without=ID"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	Duration int    `json:"duration" validate:"omitempty,min=0"`
	Room     string `json:"room"`
}

// ExamService handles examination scheduling.
type ExamService struct {
	store     examStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewExamService constructs the exam service.
func NewExamService(store examStore, validate *validator.Validate, logger *zap.Logger) *ExamService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExamService{store: store, validator: validate, logger: logger}
}

func (s *ExamService) List(role models.UserRole) ([]models.Examination, error) {
	return s.store.ListExaminations(role)
}

func (s *ExamService) Upsert(ctx context.Context, role models.UserRole, req UpsertExamRequest) (*models.Examination, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid examination payload")
	}
	exam, err := s.store.UpsertExamination(ctx, role, models.Examination{
		ID:       req.ID,
		Subject:  req.Subject,
		Date:     req.Date,
		Time:     req.Time,
		Duration: req.Duration,
		Room:     req.Room,
	})
	if err != nil {
		return nil, err
	}
	return &exam, nil
}

func (s *ExamService) Remove(ctx context.Context, role models.UserRole, id int64) error {
	return s.store.RemoveExamination(ctx, role, id)
}
