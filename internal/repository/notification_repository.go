package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/edu-admin-api/internal/models"
)

const notificationColumns = `id, user_id, kind, message, sent_at, status`

// NotificationRepository manages persistence for notifications.
type NotificationRepository struct {
	db *sqlx.DB
}

// NewNotificationRepository constructs a NotificationRepository.
func NewNotificationRepository(db *sqlx.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// List returns a page of notifications, newest first.
func (r *NotificationRepository) List(ctx context.Context, filter models.ListFilter) ([]models.Notification, int, error) {
	page, size := normalizePage(filter.Page, filter.PageSize)
	query := fmt.Sprintf(`SELECT %s FROM notifications ORDER BY sent_at DESC LIMIT %d OFFSET %d`,
		notificationColumns, size, (page-1)*size)

	var notifications []models.Notification
	if err := r.db.SelectContext(ctx, &notifications, query); err != nil {
		return nil, 0, fmt.Errorf("list notifications: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM notifications"); err != nil {
		return nil, 0, fmt.Errorf("count notifications: %w", err)
	}
	return notifications, total, nil
}

// FindByID fetches a notification by ID.
func (r *NotificationRepository) FindByID(ctx context.Context, id string) (*models.Notification, error) {
	query := fmt.Sprintf(`SELECT %s FROM notifications WHERE id = $1`, notificationColumns)
	var notification models.Notification
	if err := r.db.GetContext(ctx, &notification, query, id); err != nil {
		return nil, err
	}
	return &notification, nil
}

// ListPending returns pending notifications joined with the recipient's
// email, oldest first, for the dispatcher.
func (r *NotificationRepository) ListPending(ctx context.Context, limit int) ([]models.PendingDelivery, error) {
	if limit <= 0 {
		limit = 50
	}
	query := fmt.Sprintf(`SELECT n.id, n.user_id, n.kind, n.message, n.sent_at, n.status, u.email AS recipient_email
        FROM notifications n JOIN users u ON u.id = n.user_id
        WHERE n.status = $1 ORDER BY n.sent_at ASC LIMIT %d`, limit)
	var pending []models.PendingDelivery
	if err := r.db.SelectContext(ctx, &pending, query, models.NotificationStatusPending); err != nil {
		return nil, fmt.Errorf("list pending notifications: %w", err)
	}
	return pending, nil
}

// MarkSent flips a notification to sent with the delivery time.
func (r *NotificationRepository) MarkSent(ctx context.Context, id string, sentAt time.Time) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE notifications SET status = $2, sent_at = $3 WHERE id = $1`,
		id, models.NotificationStatusSent, sentAt); err != nil {
		return fmt.Errorf("mark notification sent: %w", err)
	}
	return nil
}

// Create inserts a new notification.
func (r *NotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	if notification.ID == "" {
		notification.ID = uuid.NewString()
	}
	if notification.SentAt.IsZero() {
		notification.SentAt = time.Now().UTC()
	}
	if notification.Status == "" {
		notification.Status = models.NotificationStatusPending
	}
	const query = `INSERT INTO notifications (id, user_id, kind, message, sent_at, status)
        VALUES (:id, :user_id, :kind, :message, :sent_at, :status)`
	if _, err := r.db.NamedExecContext(ctx, query, notification); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

// Update modifies an existing notification.
func (r *NotificationRepository) Update(ctx context.Context, notification *models.Notification) error {
	const query = `UPDATE notifications SET kind = :kind, message = :message, status = :status WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, notification); err != nil {
		return fmt.Errorf("update notification: %w", err)
	}
	return nil
}

// Delete removes a notification.
func (r *NotificationRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM notifications WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete notification %s: %w", id, err)
	}
	return nil
}
