package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/edu-admin-api/internal/models"
	appErrors "github.com/noah-isme/edu-admin-api/pkg/errors"
)

type paymentHistoryRepository interface {
	List(ctx context.Context, filter models.ListFilter) ([]models.PaymentHistory, int, error)
	FindByID(ctx context.Context, id string) (*models.PaymentHistory, error)
	Create(ctx context.Context, history *models.PaymentHistory) error
	Update(ctx context.Context, history *models.PaymentHistory) error
	Delete(ctx context.Context, id string) error
}

type historyPaymentRepository interface {
	FindByID(ctx context.Context, id string) (*models.Payment, error)
}

// PaymentHistoryRequest holds payload for appending an audit row directly.
type PaymentHistoryRequest struct {
	PaymentID      string               `json:"payment_id" validate:"required"`
	PreviousStatus models.PaymentStatus `json:"previous_status" validate:"required,oneof=complete pending partial"`
	NewStatus      models.PaymentStatus `json:"new_status" validate:"required,oneof=complete pending partial"`
	Comment        *string              `json:"comment"`
}

// PaymentHistoryService handles the payment audit trail. Rows are
// normally appended by payment status updates; direct edits exist for
// administrative corrections.
type PaymentHistoryService struct {
	repo      paymentHistoryRepository
	payments  historyPaymentRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPaymentHistoryService constructs the payment history service.
func NewPaymentHistoryService(repo paymentHistoryRepository, payments historyPaymentRepository,
	validate *validator.Validate, logger *zap.Logger) *PaymentHistoryService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentHistoryService{repo: repo, payments: payments, validator: validate, logger: logger}
}

// List returns audit rows, newest first.
func (s *PaymentHistoryService) List(ctx context.Context, filter models.ListFilter) ([]models.PaymentHistory, *models.Pagination, error) {
	histories, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list payment histories")
	}
	return histories, paginationFor(filter.Page, filter.PageSize, total), nil
}

// Get returns one audit row.
func (s *PaymentHistoryService) Get(ctx context.Context, id string) (*models.PaymentHistory, error) {
	history, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "payment history not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load payment history")
	}
	return history, nil
}

// Create appends an audit row.
func (s *PaymentHistoryService) Create(ctx context.Context, req PaymentHistoryRequest) (*models.PaymentHistory, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payment history payload")
	}
	if _, err := s.payments.FindByID(ctx, req.PaymentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "payment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load payment")
	}
	history := &models.PaymentHistory{
		PaymentID:      req.PaymentID,
		PreviousStatus: req.PreviousStatus,
		NewStatus:      req.NewStatus,
		Comment:        req.Comment,
	}
	if err := s.repo.Create(ctx, history); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create payment history")
	}
	return history, nil
}

// Update rewrites an audit row. Intended for administrative fixes only.
func (s *PaymentHistoryService) Update(ctx context.Context, id string, req PaymentHistoryRequest) (*models.PaymentHistory, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payment history payload")
	}
	history, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.payments.FindByID(ctx, req.PaymentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "payment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load payment")
	}
	history.PaymentID = req.PaymentID
	history.PreviousStatus = req.PreviousStatus
	history.NewStatus = req.NewStatus
	history.Comment = req.Comment
	if err := s.repo.Update(ctx, history); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update payment history")
	}
	return history, nil
}

// Delete removes an audit row.
func (s *PaymentHistoryService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete payment history")
	}
	return nil
}
