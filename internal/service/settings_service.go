package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/eduerp-dev/eduerp-api/internal/models"
	appErrors "github.com/eduerp-dev/eduerp-api/pkg/errors"
)

type settingsStore interface {
	Settings(role models.UserRole) (models.Settings, error)
	SaveSettings(ctx context.Context, role models.UserRole, settings models.Settings) error
}

// UpdateSettingsRequest carries partial settings updates; empty fields keep
// their current value.
type UpdateSettingsRequest struct {
	SchoolName   string `json:"schoolName"`
	AcademicYear string `json:"academicYear"`
	Semester     string `json:"semester"`
	Timezone     string `json:"timezone"`
	Language     string `json:"language"`
	Currency     string `json:"currency"`
}

// SettingsService manages the admin-settings document.
type SettingsService struct {
	store     settingsStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSettingsService constructs the settings service.
func NewSettingsService(store settingsStore, validate *validator.Validate, logger *zap.Logger) *SettingsService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingsService{store: store, validator: validate, logger: logger}
}

func (s *SettingsService) Get(role models.UserRole) (*models.Settings, error) {
	settings, err := s.store.Settings(role)
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// Update merges the provided fields over the current document. Only admins
// pass the store's write gate.
func (s *SettingsService) Update(ctx context.Context, role models.UserRole, req UpdateSettingsRequest) (*models.Settings, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid settings payload")
	}

	current, err := s.store.Settings(role)
	if err != nil {
		return nil, err
	}
	if req.SchoolName != "" {
		current.SchoolName = req.SchoolName
	}
	if req.AcademicYear != "" {
		current.AcademicYear = req.AcademicYear
	}
	if req.Semester != "" {
		current.Semester = req.Semester
	}
	if req.Timezone != "" {
		current.Timezone = req.Timezone
	}
	if req.Language != "" {
		current.Language = req.Language
	}
	if req.Currency != "" {
		current.Currency = req.Currency
	}

	if err := s.store.SaveSettings(ctx, role, current); err != nil {
		return nil, err
	}
	s.logger.Info("settings updated", zap.String("school", current.SchoolName))
	return &current, nil
}
