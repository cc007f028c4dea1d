package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentHistoryRepositoryLatestByPayment(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewPaymentHistoryRepository(db)

	comment := "partial settlement received"
	rows := sqlmock.NewRows([]string{"id", "payment_id", "previous_status", "new_status", "changed_at", "comment"}).
		AddRow("h2", "p1", "pending", "partial", time.Now(), comment)
	mock.ExpectQuery("WHERE payment_id = \\$1 ORDER BY changed_at DESC LIMIT 1").
		WithArgs("p1").
		WillReturnRows(rows)

	history, err := repo.LatestByPayment(context.Background(), "p1")
	require.NoError(t, err)
	require.NotNil(t, history)
	assert.Equal(t, "h2", history.ID)
	require.NotNil(t, history.Comment)
	assert.Equal(t, comment, *history.Comment)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentHistoryRepositoryLatestByPaymentEmpty(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewPaymentHistoryRepository(db)

	mock.ExpectQuery("WHERE payment_id = \\$1 ORDER BY changed_at DESC LIMIT 1").
		WithArgs("p9").
		WillReturnRows(sqlmock.NewRows([]string{"id", "payment_id", "previous_status", "new_status", "changed_at", "comment"}))

	history, err := repo.LatestByPayment(context.Background(), "p9")
	require.NoError(t, err)
	assert.Nil(t, history)
	assert.NoError(t, mock.ExpectationsWereMet())
}
