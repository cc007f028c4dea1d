package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/edu-admin-api/internal/models"
)

const paymentHistoryColumns = `id, payment_id, previous_status, new_status, changed_at, comment`

// PaymentHistoryRepository manages the append-only payment audit trail.
type PaymentHistoryRepository struct {
	db *sqlx.DB
}

// NewPaymentHistoryRepository constructs a PaymentHistoryRepository.
func NewPaymentHistoryRepository(db *sqlx.DB) *PaymentHistoryRepository {
	return &PaymentHistoryRepository{db: db}
}

// List returns a page of history rows, newest first.
func (r *PaymentHistoryRepository) List(ctx context.Context, filter models.ListFilter) ([]models.PaymentHistory, int, error) {
	page, size := normalizePage(filter.Page, filter.PageSize)
	query := fmt.Sprintf(`SELECT %s FROM payment_histories ORDER BY changed_at DESC LIMIT %d OFFSET %d`,
		paymentHistoryColumns, size, (page-1)*size)

	var histories []models.PaymentHistory
	if err := r.db.SelectContext(ctx, &histories, query); err != nil {
		return nil, 0, fmt.Errorf("list payment histories: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM payment_histories"); err != nil {
		return nil, 0, fmt.Errorf("count payment histories: %w", err)
	}
	return histories, total, nil
}

// FindByID fetches a history row by ID.
func (r *PaymentHistoryRepository) FindByID(ctx context.Context, id string) (*models.PaymentHistory, error) {
	query := fmt.Sprintf(`SELECT %s FROM payment_histories WHERE id = $1`, paymentHistoryColumns)
	var history models.PaymentHistory
	if err := r.db.GetContext(ctx, &history, query, id); err != nil {
		return nil, err
	}
	return &history, nil
}

// LatestByPayment returns the most recent history row for a payment, or
// nil when the payment has no history yet.
func (r *PaymentHistoryRepository) LatestByPayment(ctx context.Context, paymentID string) (*models.PaymentHistory, error) {
	query := fmt.Sprintf(`SELECT %s FROM payment_histories WHERE payment_id = $1 ORDER BY changed_at DESC LIMIT 1`, paymentHistoryColumns)
	var history models.PaymentHistory
	if err := r.db.GetContext(ctx, &history, query, paymentID); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("latest payment history: %w", err)
	}
	return &history, nil
}

// Create appends a new history row.
func (r *PaymentHistoryRepository) Create(ctx context.Context, history *models.PaymentHistory) error {
	if history.ID == "" {
		history.ID = uuid.NewString()
	}
	if history.ChangedAt.IsZero() {
		history.ChangedAt = time.Now().UTC()
	}
	const query = `INSERT INTO payment_histories (id, payment_id, previous_status, new_status, changed_at, comment)
        VALUES (:id, :payment_id, :previous_status, :new_status, :changed_at, :comment)`
	if _, err := r.db.NamedExecContext(ctx, query, history); err != nil {
		return fmt.Errorf("create payment history: %w", err)
	}
	return nil
}

// Update rewrites an existing history row.
func (r *PaymentHistoryRepository) Update(ctx context.Context, history *models.PaymentHistory) error {
	const query = `UPDATE payment_histories SET payment_id = :payment_id, previous_status = :previous_status,
        new_status = :new_status, comment = :comment WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, history); err != nil {
		return fmt.Errorf("update payment history %s: %w", history.ID, err)
	}
	return nil
}

// Delete removes a history row.
func (r *PaymentHistoryRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM payment_histories WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete payment history %s: %w", id, err)
	}
	return nil
}
