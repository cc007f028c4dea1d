package service

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/edu-admin-api/internal/models"
	appErrors "github.com/noah-isme/edu-admin-api/pkg/errors"
)

type paymentRepository interface {
	List(ctx context.Context, filter models.PaymentFilter) ([]models.Payment, int, error)
	FindByID(ctx context.Context, id string) (*models.Payment, error)
	ListByEnrollment(ctx context.Context, enrollmentID string) ([]models.Payment, error)
	Create(ctx context.Context, payment *models.Payment) error
	Update(ctx context.Context, payment *models.Payment) error
	UpdateStatusWithHistory(ctx context.Context, id string, previous, next models.PaymentStatus, comment *string) error
	Delete(ctx context.Context, id string) error
}

type paymentEnrollmentRepository interface {
	FindByID(ctx context.Context, id string) (*models.Enrollment, error)
}

// PaymentRequest holds payload for creating or updating a payment.
type PaymentRequest struct {
	EnrollmentID string               `json:"enrollment_id" validate:"required"`
	Method       models.PaymentMethod `json:"method" validate:"required,oneof=transfer paypal manual"`
	Amount       string               `json:"amount" validate:"required"`
	Status       models.PaymentStatus `json:"status" validate:"required,oneof=complete pending partial"`
	PaidAt       *time.Time           `json:"paid_at"`
	DueDate      *time.Time           `json:"due_date"`
}

// UpdatePaymentStatusRequest is the partial-update payload for flipping
// a payment's status. The transition is recorded in the audit trail.
type UpdatePaymentStatusRequest struct {
	Status  models.PaymentStatus `json:"status" validate:"required,oneof=complete pending partial"`
	Comment *string              `json:"comment"`
}

// PaymentService handles payment use-cases.
type PaymentService struct {
	repo        paymentRepository
	enrollments paymentEnrollmentRepository
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewPaymentService constructs the payment service.
func NewPaymentService(repo paymentRepository, enrollments paymentEnrollmentRepository,
	validate *validator.Validate, logger *zap.Logger) *PaymentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentService{repo: repo, enrollments: enrollments, validator: validate, logger: logger}
}

// List returns payments matching the filter.
func (s *PaymentService) List(ctx context.Context, filter models.PaymentFilter) ([]models.Payment, *models.Pagination, error) {
	payments, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list payments")
	}
	return payments, paginationFor(filter.Page, filter.PageSize, total), nil
}

// Get returns one payment.
func (s *PaymentService) Get(ctx context.Context, id string) (*models.Payment, error) {
	payment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "payment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load payment")
	}
	return payment, nil
}

// ListByEnrollment returns every payment against an enrollment.
func (s *PaymentService) ListByEnrollment(ctx context.Context, enrollmentID string) ([]models.Payment, error) {
	if _, err := s.enrollments.FindByID(ctx, enrollmentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
	}
	payments, err := s.repo.ListByEnrollment(ctx, enrollmentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollment payments")
	}
	return payments, nil
}

// Create records a new payment.
func (s *PaymentService) Create(ctx context.Context, req PaymentRequest) (*models.Payment, error) {
	if err := s.validate(ctx, req); err != nil {
		return nil, err
	}
	payment := &models.Payment{
		EnrollmentID: req.EnrollmentID,
		Method:       req.Method,
		Amount:       req.Amount,
		Status:       req.Status,
		PaidAt:       req.PaidAt,
		DueDate:      req.DueDate,
	}
	if err := s.repo.Create(ctx, payment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create payment")
	}
	return payment, nil
}

// Update modifies an existing payment.
func (s *PaymentService) Update(ctx context.Context, id string, req PaymentRequest) (*models.Payment, error) {
	if err := s.validate(ctx, req); err != nil {
		return nil, err
	}
	payment, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	payment.Method = req.Method
	payment.Amount = req.Amount
	payment.Status = req.Status
	payment.PaidAt = req.PaidAt
	payment.DueDate = req.DueDate
	if err := s.repo.Update(ctx, payment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update payment")
	}
	return payment, nil
}

// UpdateStatus flips the payment status and appends an audit row for
// the transition, including a no-op transition to the same status.
func (s *PaymentService) UpdateStatus(ctx context.Context, id string, req UpdatePaymentStatusRequest) (*models.Payment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "status is required")
	}
	payment, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	previous := payment.Status
	if err := s.repo.UpdateStatusWithHistory(ctx, id, previous, req.Status, req.Comment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update payment status")
	}
	payment.Status = req.Status
	s.logger.Info("payment status updated",
		zap.String("payment_id", id),
		zap.String("previous_status", string(previous)),
		zap.String("new_status", string(req.Status)),
	)
	return payment, nil
}

// Delete removes the payment with its histories and refund requests.
func (s *PaymentService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete payment")
	}
	s.logger.Info("payment deleted", zap.String("payment_id", id))
	return nil
}

func (s *PaymentService) validate(ctx context.Context, req PaymentRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payment payload")
	}
	amount, err := strconv.ParseFloat(req.Amount, 64)
	if err != nil || amount <= 0 {
		return appErrors.Clone(appErrors.ErrValidation, "amount must be a positive decimal")
	}
	if _, err := s.enrollments.FindByID(ctx, req.EnrollmentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
	}
	return nil
}
