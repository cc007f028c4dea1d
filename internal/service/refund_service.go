package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/edu-admin-api/internal/models"
	appErrors "github.com/noah-isme/edu-admin-api/pkg/errors"
)

type refundRepository interface {
	List(ctx context.Context, filter models.ListFilter) ([]models.Refund, int, error)
	FindByID(ctx context.Context, id string) (*models.Refund, error)
	Create(ctx context.Context, refund *models.Refund) error
	Update(ctx context.Context, refund *models.Refund) error
	Delete(ctx context.Context, id string) error
}

type refundPaymentRepository interface {
	FindByID(ctx context.Context, id string) (*models.Payment, error)
}

// CreateRefundRequest holds payload for filing a refund request.
type CreateRefundRequest struct {
	UserID    string `json:"user_id" validate:"required"`
	PaymentID string `json:"payment_id" validate:"required"`
	Reason    string `json:"reason" validate:"required"`
}

// ResolveRefundRequest holds payload for resolving a refund request.
type ResolveRefundRequest struct {
	Status models.RefundStatus `json:"status" validate:"required,oneof=pending approved rejected"`
	Reason string              `json:"reason" validate:"omitempty"`
}

// RefundService handles refund request use-cases.
type RefundService struct {
	repo      refundRepository
	payments  refundPaymentRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRefundService constructs the refund service.
func NewRefundService(repo refundRepository, payments refundPaymentRepository,
	validate *validator.Validate, logger *zap.Logger) *RefundService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RefundService{repo: repo, payments: payments, validator: validate, logger: logger}
}

// List returns refund requests, newest first.
func (s *RefundService) List(ctx context.Context, filter models.ListFilter) ([]models.Refund, *models.Pagination, error) {
	refunds, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list refunds")
	}
	return refunds, paginationFor(filter.Page, filter.PageSize, total), nil
}

// Get returns one refund request.
func (s *RefundService) Get(ctx context.Context, id string) (*models.Refund, error) {
	refund, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "refund not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load refund")
	}
	return refund, nil
}

// Create files a new refund request in pending state.
func (s *RefundService) Create(ctx context.Context, req CreateRefundRequest) (*models.Refund, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid refund payload")
	}
	if _, err := s.payments.FindByID(ctx, req.PaymentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "payment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load payment")
	}
	refund := &models.Refund{
		UserID:    req.UserID,
		PaymentID: req.PaymentID,
		Reason:    req.Reason,
		Status:    models.RefundStatusPending,
	}
	if err := s.repo.Create(ctx, refund); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create refund")
	}
	return refund, nil
}

// Resolve approves or rejects a pending refund request. Moving away
// from pending stamps the resolution time.
func (s *RefundService) Resolve(ctx context.Context, id string, req ResolveRefundRequest) (*models.Refund, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid refund payload")
	}
	refund, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	refund.Status = req.Status
	if req.Reason != "" {
		refund.Reason = req.Reason
	}
	if req.Status == models.RefundStatusPending {
		refund.ResolvedAt = nil
	} else {
		now := time.Now().UTC()
		refund.ResolvedAt = &now
	}
	if err := s.repo.Update(ctx, refund); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update refund")
	}
	s.logger.Info("refund resolved", zap.String("refund_id", id), zap.String("status", string(req.Status)))
	return refund, nil
}

// Delete removes a refund request.
func (s *RefundService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete refund")
	}
	return nil
}
