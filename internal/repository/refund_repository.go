package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/edu-admin-api/internal/models"
)

const refundColumns = `id, user_id, payment_id, reason, status, requested_at, resolved_at`

// RefundRepository manages persistence for refund requests.
type RefundRepository struct {
	db *sqlx.DB
}

// NewRefundRepository constructs a RefundRepository.
func NewRefundRepository(db *sqlx.DB) *RefundRepository {
	return &RefundRepository{db: db}
}

// List returns a page of refund requests, newest first.
func (r *RefundRepository) List(ctx context.Context, filter models.ListFilter) ([]models.Refund, int, error) {
	page, size := normalizePage(filter.Page, filter.PageSize)
	query := fmt.Sprintf(`SELECT %s FROM refunds ORDER BY requested_at DESC LIMIT %d OFFSET %d`,
		refundColumns, size, (page-1)*size)

	var refunds []models.Refund
	if err := r.db.SelectContext(ctx, &refunds, query); err != nil {
		return nil, 0, fmt.Errorf("list refunds: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM refunds"); err != nil {
		return nil, 0, fmt.Errorf("count refunds: %w", err)
	}
	return refunds, total, nil
}

// FindByID fetches a refund request by ID.
func (r *RefundRepository) FindByID(ctx context.Context, id string) (*models.Refund, error) {
	query := fmt.Sprintf(`SELECT %s FROM refunds WHERE id = $1`, refundColumns)
	var refund models.Refund
	if err := r.db.GetContext(ctx, &refund, query, id); err != nil {
		return nil, err
	}
	return &refund, nil
}

// Create inserts a new refund request.
func (r *RefundRepository) Create(ctx context.Context, refund *models.Refund) error {
	if refund.ID == "" {
		refund.ID = uuid.NewString()
	}
	if refund.RequestedAt.IsZero() {
		refund.RequestedAt = time.Now().UTC()
	}
	const query = `INSERT INTO refunds (id, user_id, payment_id, reason, status, requested_at, resolved_at)
        VALUES (:id, :user_id, :payment_id, :reason, :status, :requested_at, :resolved_at)`
	if _, err := r.db.NamedExecContext(ctx, query, refund); err != nil {
		return fmt.Errorf("create refund: %w", err)
	}
	return nil
}

// Update modifies an existing refund request.
func (r *RefundRepository) Update(ctx context.Context, refund *models.Refund) error {
	const query = `UPDATE refunds SET reason = :reason, status = :status, resolved_at = :resolved_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, refund); err != nil {
		return fmt.Errorf("update refund: %w", err)
	}
	return nil
}

// Delete removes a refund request.
func (r *RefundRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM refunds WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete refund %s: %w", id, err)
	}
	return nil
}
