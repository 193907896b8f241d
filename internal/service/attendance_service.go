package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/eduerp-dev/eduerp-api/internal/models"
	appErrors "github.com/eduerp-dev/eduerp-api/pkg/errors"
)

type attendanceStore interface {
	ListAttendance(role models.UserRole) ([]models.AttendanceRecord, error)
	UpsertAttendance(ctx context.Context, role models.UserRole, in models.AttendanceRecord) (models.AttendanceRecord, error)
	RemoveAttendance(ctx context.Context, role models.UserRole, id int64) error
	StudentNameByID(id int64) (string, bool)
}

// UpsertAttendanceRequest marks a student present or absent. Providing an id
// updates the matching record; id zero records a new mark.
type UpsertAttendanceRequest struct {
	ID        int64  `json:"id"`
	StudentID int64  `json:"studentId" validate:"required_without=ID"`
	Status    string `json:"status" validate:"omitempty,oneof=present absent"`
	Time      string `json:"time"`
}

// AttendanceService handles attendance marks. The studentId on a record is a
// weak reference: list responses resolve the live student name when the
// reference still resolves, falling back to the stored snapshot otherwise.
type AttendanceService struct {
	store     attendanceStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAttendanceService constructs the attendance service.
func NewAttendanceService(store attendanceStore, validate *validator.Validate, logger *zap.Logger) *AttendanceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{store: store, validator: validate, logger: logger}
}

// List returns attendance records with display names resolved.
func (s *AttendanceService) List(role models.UserRole) ([]models.AttendanceRecord, error) {
	records, err := s.store.ListAttendance(role)
	if err != nil {
		return nil, err
	}
	for i := range records {
		if name, ok := s.store.StudentNameByID(records[i].StudentID); ok {
			records[i].StudentName = name
		}
	}
	return records, nil
}

func (s *AttendanceService) Upsert(ctx context.Context, role models.UserRole, req UpsertAttendanceRequest) (*models.AttendanceRecord, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid attendance payload")
	}
	record, err := s.store.UpsertAttendance(ctx, role, models.AttendanceRecord{
		ID:        req.ID,
		StudentID: req.StudentID,
		Status:    req.Status,
		Time:      req.Time,
	})
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *AttendanceService) Remove(ctx context.Context, role models.UserRole, id int64) error {
	return s.store.RemoveAttendance(ctx, role, id)
}
