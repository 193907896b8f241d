package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/eduerp-dev/eduerp-api/internal/models"
	appErrors "github.com/eduerp-dev/eduerp-api/pkg/errors"
)

type libraryStore interface {
	ListBooks(role models.UserRole) ([]models.Book, error)
	UpsertBook(ctx context.Context, role models.UserRole, in models.Book) (models.Book, error)
	RemoveBook(ctx context.Context, role models.UserRole, id int64) error
}

// UpsertBookRequest adds or updates a content-library entry.
type UpsertBookRequest struct {
	ID     int64  `json:"id"`
	Title  string `json:"title" validate:"required_without=ID"`
	Author string `json:"author"`
	ISBN   string `json:"isbn"`
	Status string `json:"status" validate:"omitempty,oneof=available borrowed"`
}

// LibraryService serves the content-library catalogue.
type LibraryService struct {
	store     libraryStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewLibraryService constructs the library service.
func NewLibraryService(store libraryStore, validate *validator.Validate, logger *zap.Logger) *LibraryService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LibraryService{store: store, validator: validate, logger: logger}
}

func (s *LibraryService) List(role models.UserRole) ([]models.Book, error) {
	return s.store.ListBooks(role)
}

func (s *LibraryService) Upsert(ctx context.Context, role models.UserRole, req UpsertBookRequest) (*models.Book, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid book payload")
	}
	book, err := s.store.UpsertBook(ctx, role, models.Book{
		ID:     req.ID,
		Title:  req.Title,
		Author: req.Author,
		ISBN:   req.ISBN,
		Status: req.Status,
	})
	if err != nil {
		return nil, err
	}
	return &book, nil
}

func (s *LibraryService) Remove(ctx context.Context, role models.UserRole, id int64) error {
	return s.store.RemoveBook(ctx, role, id)
}
