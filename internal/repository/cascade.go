package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Deletion propagation is explicit: removing an enrollment takes its
// payments down, and removing a payment takes its histories and refund
// requests down. The helpers below run inside the caller's transaction.

// deleteEnrollmentTreeTx deletes enrollments selected by the given
// column (student_id, course_id or id) plus every dependent record.
func deleteEnrollmentTreeTx(ctx context.Context, tx *sqlx.Tx, column, id string) error {
	paymentsOf := fmt.Sprintf("SELECT id FROM payments WHERE enrollment_id IN (SELECT id FROM enrollments WHERE %s = $1)", column)
	statements := []string{
		fmt.Sprintf("DELETE FROM payment_histories WHERE payment_id IN (%s)", paymentsOf),
		fmt.Sprintf("DELETE FROM refunds WHERE payment_id IN (%s)", paymentsOf),
		fmt.Sprintf("DELETE FROM payments WHERE enrollment_id IN (SELECT id FROM enrollments WHERE %s = $1)", column),
		fmt.Sprintf("DELETE FROM enrollments WHERE %s = $1", column),
	}
	for _, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
			return fmt.Errorf("cascade enrollments by %s: %w", column, err)
		}
	}
	return nil
}

// deletePaymentTreeTx deletes one payment plus its histories and refunds.
func deletePaymentTreeTx(ctx context.Context, tx *sqlx.Tx, paymentID string) error {
	statements := []string{
		`DELETE FROM payment_histories WHERE payment_id = $1`,
		`DELETE FROM refunds WHERE payment_id = $1`,
		`DELETE FROM payments WHERE id = $1`,
	}
	for _, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt, paymentID); err != nil {
			return fmt.Errorf("cascade payment %s: %w", paymentID, err)
		}
	}
	return nil
}

func runInTx(ctx context.Context, db *sqlx.DB, fn func(*sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
