package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/eduerp-dev/eduerp-api/internal/models"
	appErrors "github.com/eduerp-dev/eduerp-api/pkg/errors"
)

type feeStore interface {
	ListFees(role models.UserRole) ([]models.FeeRecord, error)
	UpsertFee(ctx context.Context, role models.UserRole, in models.FeeRecord) (models.FeeRecord, error)
	RemoveFee(ctx context.Context, role models.UserRole, id int64) error
	StudentNameByID(id int64) (string, bool)
}

// UpsertFeeRequest creates or updates a payment obligation.
type UpsertFeeRequest struct {
	ID        int64   `json:"id"`
	StudentID int64   `json:"studentId" validate:"required_without=ID"`
	Amount    float64 `json:"amount" validate:"omitempty,min=0"`
	DueDate   string  `json:"dueDate"`
	Status    string  `json:"status" validate:"omitempty,oneof=paid pending"`
	FeeType   string  `json:"feeType"`
}

// FeeSummary aggregates the fee book for the fees view.
type FeeSummary struct {
	TotalAmount   float64 `json:"totalAmount"`
	PaidAmount    float64 `json:"paidAmount"`
	PendingAmount float64 `json:"pendingAmount"`
	PendingCount  int     `json:"pendingCount"`
}

// FeeService handles fee records.
type FeeService struct {
	store     feeStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewFeeService constructs the fee service.
func NewFeeService(store feeStore, validate *validator.Validate, logger *zap.Logger) *FeeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FeeService{store: store, validator: validate, logger: logger}
}

// List returns fee records with display names resolved.
func (s *FeeService) List(role models.UserRole) ([]models.FeeRecord, error) {
	fees, err := s.store.ListFees(role)
	if err != nil {
		return nil, err
	}
	for i := range fees {
		if name, ok := s.store.StudentNameByID(fees[i].StudentID); ok {
			fees[i].StudentName = name
		}
	}
	return fees, nil
}

// Summary totals the fee book.
func (s *FeeService) Summary(role models.UserRole) (*FeeSummary, error) {
	fees, err := s.store.ListFees(role)
	if err != nil {
		return nil, err
	}
	summary := &FeeSummary{}
	for _, fee := range fees {
		summary.TotalAmount += fee.Amount
		if fee.Status == models.FeePaid {
			summary.PaidAmount += fee.Amount
		} else {
			summary.PendingAmount += fee.Amount
			summary.PendingCount++
		}
	}
	return summary, nil
}

func (s *FeeService) Upsert(ctx context.Context, role models.UserRole, req UpsertFeeRequest) (*models.FeeRecord, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid fee payload")
	}
	fee, err := s.store.UpsertFee(ctx, role, models.FeeRecord{
		ID:        req.ID,
		StudentID: req.StudentID,
		Amount:    req.Amount,
		DueDate:   req.DueDate,
		Status:    req.Status,
		FeeType:   req.FeeType,
	})
	if err != nil {
		return nil, err
	}
	return &fee, nil
}

func (s *FeeService) Remove(ctx context.Context, role models.UserRole, id int64) error {
	return s.store.RemoveFee(ctx, role, id)
}
