package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/edu-admin-api/internal/models"
)

func TestPaymentRepositoryListPendingByEnrollment(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewPaymentRepository(db)

	due := time.Now().Add(72 * time.Hour)
	rows := sqlmock.NewRows([]string{"id", "enrollment_id", "method", "amount", "status", "paid_at", "due_date"}).
		AddRow("p1", "e1", "transfer", "1500.00", "pending", nil, due)
	mock.ExpectQuery("WHERE enrollment_id = \\$1 AND status = \\$2 ORDER BY due_date ASC NULLS LAST").
		WithArgs("e1", models.PaymentStatusPending).
		WillReturnRows(rows)

	payments, err := repo.ListPendingByEnrollment(context.Background(), "e1")
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, "1500.00", payments[0].Amount)
	assert.Nil(t, payments[0].PaidAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepositoryUpdateStatusWithHistory(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewPaymentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE payments SET status = \\$2 WHERE id = \\$1").
		WithArgs("p1", models.PaymentStatusComplete).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO payment_histories").
		WithArgs(sqlmock.AnyArg(), "p1", models.PaymentStatusPending, models.PaymentStatusComplete, sqlmock.AnyArg(), nil).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := repo.UpdateStatusWithHistory(context.Background(), "p1", models.PaymentStatusPending, models.PaymentStatusComplete, nil)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepositoryUpdateStatusRollsBackOnHistoryFailure(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewPaymentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE payments SET status = \\$2 WHERE id = \\$1").
		WithArgs("p1", models.PaymentStatusComplete).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO payment_histories").
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := repo.UpdateStatusWithHistory(context.Background(), "p1", models.PaymentStatusPending, models.PaymentStatusComplete, nil)
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
