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
	"github.com/noah-isme/edu-admin-api/pkg/jobs"
	"github.com/noah-isme/edu-admin-api/pkg/mailer"
)

type notificationRepository interface {
	List(ctx context.Context, filter models.ListFilter) ([]models.Notification, int, error)
	FindByID(ctx context.Context, id string) (*models.Notification, error)
	ListPending(ctx context.Context, limit int) ([]models.PendingDelivery, error)
	MarkSent(ctx context.Context, id string, sentAt time.Time) error
	Create(ctx context.Context, notification *models.Notification) error
	Update(ctx context.Context, notification *models.Notification) error
	Delete(ctx context.Context, id string) error
}

type deliveryQueue interface {
	Enqueue(d jobs.Delivery) error
}

// NotificationRequest holds payload for creating or updating a notification.
type NotificationRequest struct {
	UserID  string                  `json:"user_id" validate:"required"`
	Kind    models.NotificationKind `json:"kind" validate:"required,oneof=payment_reminder income_recorded"`
	Message string                  `json:"message" validate:"required"`
}

// NotificationService handles notification use-cases and the async
// delivery of pending messages.
type NotificationService struct {
	repo      notificationRepository
	queue     deliveryQueue
	sender    mailer.Sender
	validator *validator.Validate
	logger    *zap.Logger
}

// NewNotificationService constructs the notification service. The queue
// may be nil when dispatching is disabled.
func NewNotificationService(repo notificationRepository, queue deliveryQueue, sender mailer.Sender,
	validate *validator.Validate, logger *zap.Logger) *NotificationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{repo: repo, queue: queue, sender: sender, validator: validate, logger: logger}
}

// List returns notifications, newest first.
func (s *NotificationService) List(ctx context.Context, filter models.ListFilter) ([]models.Notification, *models.Pagination, error) {
	notifications, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list notifications")
	}
	return notifications, paginationFor(filter.Page, filter.PageSize, total), nil
}

// Get returns one notification.
func (s *NotificationService) Get(ctx context.Context, id string) (*models.Notification, error) {
	notification, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "notification not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load notification")
	}
	return notification, nil
}

// Create records a new notification in pending state.
func (s *NotificationService) Create(ctx context.Context, req NotificationRequest) (*models.Notification, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid notification payload")
	}
	notification := &models.Notification{
		UserID:  req.UserID,
		Kind:    req.Kind,
		Message: req.Message,
		Status:  models.NotificationStatusPending,
	}
	if err := s.repo.Create(ctx, notification); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create notification")
	}
	return notification, nil
}

// Update modifies an existing notification.
func (s *NotificationService) Update(ctx context.Context, id string, req NotificationRequest) (*models.Notification, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid notification payload")
	}
	notification, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	notification.Kind = req.Kind
	notification.Message = req.Message
	if err := s.repo.Update(ctx, notification); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update notification")
	}
	return notification, nil
}

// Delete removes a notification.
func (s *NotificationService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete notification")
	}
	return nil
}

// DispatchPending enqueues pending notifications for delivery and
// returns how many were queued.
func (s *NotificationService) DispatchPending(ctx context.Context, limit int) (int, error) {
	if s.queue == nil {
		return 0, nil
	}
	pending, err := s.repo.ListPending(ctx, limit)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list pending notifications")
	}
	queued := 0
	for _, p := range pending {
		delivery := jobs.Delivery{
			NotificationID: p.ID,
			Recipient:      p.RecipientEmail,
			Subject:        subjectFor(p.Kind),
			Body:           p.Message,
		}
		if err := s.queue.Enqueue(delivery); err != nil {
			s.logger.Warn("failed to enqueue notification", zap.String("notification_id", p.ID), zap.Error(err))
			continue
		}
		queued++
	}
	return queued, nil
}

// Deliver sends one queued notification and marks it sent. Used as the
// queue handler.
func (s *NotificationService) Deliver(ctx context.Context, d jobs.Delivery) error {
	if err := s.sender.Send(d.Recipient, d.Subject, d.Body); err != nil {
		return err
	}
	if err := s.repo.MarkSent(ctx, d.NotificationID, time.Now().UTC()); err != nil {
		return err
	}
	s.logger.Info("notification delivered", zap.String("notification_id", d.NotificationID))
	return nil
}

func subjectFor(kind models.NotificationKind) string {
	switch kind {
	case models.NotificationKindPaymentReminder:
		return "Payment reminder"
	case models.NotificationKindIncomeRecorded:
		return "Income recorded"
	}
	return "Notification"
}
