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

// UserRepository exposes checks against the shared base user table.
// Row manipulation happens through the extension repositories, which
// call the transactional helpers below so base and extension rows stay
// in step.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository constructs a UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// IdentityTaken reports whether the national ID or email is already in
// use, optionally excluding a user ID during updates.
func (r *UserRepository) IdentityTaken(ctx context.Context, nationalID, email, excludeID string) (bool, error) {
	query := "SELECT 1 FROM users WHERE (national_id = $1 OR email = $2)"
	args := []interface{}{nationalID, email}
	if excludeID != "" {
		query += " AND id <> $3"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check user identity: %w", err)
	}
	return true, nil
}

func insertUserTx(ctx context.Context, tx *sqlx.Tx, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	if user.Status == "" {
		user.Status = models.UserStatusActive
	}
	const query = `INSERT INTO users (id, full_name, national_id, email, phone, mobile, address, secret_hash, status, created_at)
        VALUES (:id, :full_name, :national_id, :email, :phone, :mobile, :address, :secret_hash, :status, :created_at)`
	if _, err := tx.NamedExecContext(ctx, query, user); err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func updateUserTx(ctx context.Context, tx *sqlx.Tx, user *models.User) error {
	const query = `UPDATE users SET full_name = :full_name, national_id = :national_id, email = :email, phone = :phone,
        mobile = :mobile, address = :address, secret_hash = :secret_hash, status = :status WHERE id = :id`
	if _, err := tx.NamedExecContext(ctx, query, user); err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

// deleteUserTx removes a base user row together with the records that
// hang off it directly: notifications and refund requests.
func deleteUserTx(ctx context.Context, tx *sqlx.Tx, userID string) error {
	statements := []string{
		`DELETE FROM notifications WHERE user_id = $1`,
		`DELETE FROM refunds WHERE user_id = $1`,
		`DELETE FROM users WHERE id = $1`,
	}
	for _, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt, userID); err != nil {
			return fmt.Errorf("delete user %s: %w", userID, err)
		}
	}
	return nil
}
