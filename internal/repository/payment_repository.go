package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/edu-admin-api/internal/models"
)

const paymentColumns = `id, enrollment_id, method, amount, status, paid_at, due_date`

// PaymentRepository manages persistence for payment records.
type PaymentRepository struct {
	db *sqlx.DB
}

// NewPaymentRepository constructs a PaymentRepository.
func NewPaymentRepository(db *sqlx.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// List returns payments matching the provided filters.
func (r *PaymentRepository) List(ctx context.Context, filter models.PaymentFilter) ([]models.Payment, int, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}

	if filter.EnrollmentID != "" {
		conditions = append(conditions, fmt.Sprintf("enrollment_id = $%d", len(args)+1))
		args = append(args, filter.EnrollmentID)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}

	where := strings.Join(conditions, " AND ")
	page, size := normalizePage(filter.Page, filter.PageSize)
	query := fmt.Sprintf(`SELECT %s FROM payments WHERE %s ORDER BY paid_at DESC NULLS LAST LIMIT %d OFFSET %d`,
		paymentColumns, where, size, (page-1)*size)

	var payments []models.Payment
	if err := r.db.SelectContext(ctx, &payments, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list payments: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, fmt.Sprintf("SELECT COUNT(*) FROM payments WHERE %s", where), args...); err != nil {
		return nil, 0, fmt.Errorf("count payments: %w", err)
	}
	return payments, total, nil
}

// FindByID fetches a payment by ID.
func (r *PaymentRepository) FindByID(ctx context.Context, id string) (*models.Payment, error) {
	query := fmt.Sprintf(`SELECT %s FROM payments WHERE id = $1`, paymentColumns)
	var payment models.Payment
	if err := r.db.GetContext(ctx, &payment, query, id); err != nil {
		return nil, err
	}
	return &payment, nil
}

// ListByEnrollment returns every payment against an enrollment.
func (r *PaymentRepository) ListByEnrollment(ctx context.Context, enrollmentID string) ([]models.Payment, error) {
	query := fmt.Sprintf(`SELECT %s FROM payments WHERE enrollment_id = $1 ORDER BY paid_at DESC NULLS LAST`, paymentColumns)
	var payments []models.Payment
	if err := r.db.SelectContext(ctx, &payments, query, enrollmentID); err != nil {
		return nil, fmt.Errorf("list enrollment payments: %w", err)
	}
	return payments, nil
}

// ListPendingByEnrollment returns the enrollment's payments still pending.
func (r *PaymentRepository) ListPendingByEnrollment(ctx context.Context, enrollmentID string) ([]models.Payment, error) {
	query := fmt.Sprintf(`SELECT %s FROM payments WHERE enrollment_id = $1 AND status = $2 ORDER BY due_date ASC NULLS LAST`, paymentColumns)
	var payments []models.Payment
	if err := r.db.SelectContext(ctx, &payments, query, enrollmentID, models.PaymentStatusPending); err != nil {
		return nil, fmt.Errorf("list pending payments: %w", err)
	}
	return payments, nil
}

// Create inserts a new payment record.
func (r *PaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	if payment.ID == "" {
		payment.ID = uuid.NewString()
	}
	if payment.PaidAt == nil {
		now := time.Now().UTC()
		payment.PaidAt = &now
	}
	const query = `INSERT INTO payments (id, enrollment_id, method, amount, status, paid_at, due_date)
        VALUES (:id, :enrollment_id, :method, :amount, :status, :paid_at, :due_date)`
	if _, err := r.db.NamedExecContext(ctx, query, payment); err != nil {
		return fmt.Errorf("create payment: %w", err)
	}
	return nil
}

// Update modifies an existing payment.
func (r *PaymentRepository) Update(ctx context.Context, payment *models.Payment) error {
	const query = `UPDATE payments SET method = :method, amount = :amount, status = :status, paid_at = :paid_at, due_date = :due_date WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, payment); err != nil {
		return fmt.Errorf("update payment: %w", err)
	}
	return nil
}

// UpdateStatusWithHistory flips the payment status and appends the audit
// row in the same transaction.
func (r *PaymentRepository) UpdateStatusWithHistory(ctx context.Context, id string, previous, next models.PaymentStatus, comment *string) error {
	return runInTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `UPDATE payments SET status = $2 WHERE id = $1`, id, next); err != nil {
			return fmt.Errorf("update payment status: %w", err)
		}
		const query = `INSERT INTO payment_histories (id, payment_id, previous_status, new_status, changed_at, comment)
            VALUES ($1, $2, $3, $4, $5, $6)`
		if _, err := tx.ExecContext(ctx, query, uuid.NewString(), id, previous, next, time.Now().UTC(), comment); err != nil {
			return fmt.Errorf("append payment history: %w", err)
		}
		return nil
	})
}

// Delete removes the payment with its histories and refund requests.
func (r *PaymentRepository) Delete(ctx context.Context, id string) error {
	return runInTx(ctx, r.db, func(tx *sqlx.Tx) error {
		return deletePaymentTreeTx(ctx, tx, id)
	})
}
