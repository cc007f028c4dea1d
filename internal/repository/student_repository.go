package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/edu-admin-api/internal/models"
)

const studentColumns = `u.id, u.full_name, u.national_id, u.email, u.phone, u.mobile, u.address, u.secret_hash, u.status, u.created_at,
        s.enrollment_code, s.registered_at`

// StudentRepository manages persistence for student records.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// List returns a page of students ordered by registration time.
func (r *StudentRepository) List(ctx context.Context, filter models.ListFilter) ([]models.Student, int, error) {
	page, size := normalizePage(filter.Page, filter.PageSize)
	query := fmt.Sprintf(`SELECT %s FROM users u JOIN students s ON s.user_id = u.id
        ORDER BY s.registered_at DESC LIMIT %d OFFSET %d`, studentColumns, size, (page-1)*size)

	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query); err != nil {
		return nil, 0, fmt.Errorf("list students: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM students"); err != nil {
		return nil, 0, fmt.Errorf("count students: %w", err)
	}
	return students, total, nil
}

// FindByID fetches a student by ID.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	query := fmt.Sprintf(`SELECT %s FROM users u JOIN students s ON s.user_id = u.id WHERE u.id = $1`, studentColumns)
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		return nil, err
	}
	return &student, nil
}

// FindByEnrollmentCode fetches a student by the unique enrollment code.
func (r *StudentRepository) FindByEnrollmentCode(ctx context.Context, code string) (*models.Student, error) {
	query := fmt.Sprintf(`SELECT %s FROM users u JOIN students s ON s.user_id = u.id WHERE s.enrollment_code = $1`, studentColumns)
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, code); err != nil {
		return nil, err
	}
	return &student, nil
}

// ExistsByEnrollmentCode checks whether the enrollment code is taken,
// optionally excluding an ID.
func (r *StudentRepository) ExistsByEnrollmentCode(ctx context.Context, code string, excludeID string) (bool, error) {
	return existsByCode(ctx, r.db, "students", "enrollment_code", "user_id", code, excludeID)
}

// Create inserts the base user row and the student extension row.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	if student.RegisteredAt.IsZero() {
		student.RegisteredAt = time.Now().UTC()
	}
	return runInTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := insertUserTx(ctx, tx, &student.User); err != nil {
			return err
		}
		const query = `INSERT INTO students (user_id, enrollment_code, registered_at) VALUES ($1, $2, $3)`
		if _, err := tx.ExecContext(ctx, query, student.ID, student.EnrollmentCode, student.RegisteredAt); err != nil {
			return fmt.Errorf("insert student: %w", err)
		}
		return nil
	})
}

// Update modifies base and extension fields of an existing student.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	return runInTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := updateUserTx(ctx, tx, &student.User); err != nil {
			return err
		}
		const query = `UPDATE students SET enrollment_code = $2 WHERE user_id = $1`
		if _, err := tx.ExecContext(ctx, query, student.ID, student.EnrollmentCode); err != nil {
			return fmt.Errorf("update student: %w", err)
		}
		return nil
	})
}

// Delete removes the student with all enrollments, payments, histories,
// refunds and notifications that depend on it.
func (r *StudentRepository) Delete(ctx context.Context, id string) error {
	return runInTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := deleteEnrollmentTreeTx(ctx, tx, "student_id", id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM students WHERE user_id = $1`, id); err != nil {
			return fmt.Errorf("delete student %s: %w", id, err)
		}
		return deleteUserTx(ctx, tx, id)
	})
}
