package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/edu-admin-api/internal/models"
)

const instructorColumns = `u.id, u.full_name, u.national_id, u.email, u.phone, u.mobile, u.address, u.secret_hash, u.status, u.created_at,
        i.specialty, i.hired_at, i.faculty, i.school, i.campus, i.instructor_code, i.employment_status, i.category`

// InstructorRepository manages persistence for instructor records.
type InstructorRepository struct {
	db *sqlx.DB
}

// NewInstructorRepository constructs an InstructorRepository.
func NewInstructorRepository(db *sqlx.DB) *InstructorRepository {
	return &InstructorRepository{db: db}
}

// List returns a page of instructors ordered by hire date.
func (r *InstructorRepository) List(ctx context.Context, filter models.ListFilter) ([]models.Instructor, int, error) {
	page, size := normalizePage(filter.Page, filter.PageSize)
	query := fmt.Sprintf(`SELECT %s FROM users u JOIN instructors i ON i.user_id = u.id
        ORDER BY i.hired_at DESC LIMIT %d OFFSET %d`, instructorColumns, size, (page-1)*size)

	var instructors []models.Instructor
	if err := r.db.SelectContext(ctx, &instructors, query); err != nil {
		return nil, 0, fmt.Errorf("list instructors: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM instructors"); err != nil {
		return nil, 0, fmt.Errorf("count instructors: %w", err)
	}
	return instructors, total, nil
}

// FindByID fetches an instructor by ID.
func (r *InstructorRepository) FindByID(ctx context.Context, id string) (*models.Instructor, error) {
	query := fmt.Sprintf(`SELECT %s FROM users u JOIN instructors i ON i.user_id = u.id WHERE u.id = $1`, instructorColumns)
	var instructor models.Instructor
	if err := r.db.GetContext(ctx, &instructor, query, id); err != nil {
		return nil, err
	}
	return &instructor, nil
}

// FindByInstructorCode fetches an instructor by the unique code.
func (r *InstructorRepository) FindByInstructorCode(ctx context.Context, code string) (*models.Instructor, error) {
	query := fmt.Sprintf(`SELECT %s FROM users u JOIN instructors i ON i.user_id = u.id WHERE i.instructor_code = $1`, instructorColumns)
	var instructor models.Instructor
	if err := r.db.GetContext(ctx, &instructor, query, code); err != nil {
		return nil, err
	}
	return &instructor, nil
}

// ExistsByInstructorCode checks whether the instructor code is taken.
func (r *InstructorRepository) ExistsByInstructorCode(ctx context.Context, code string, excludeID string) (bool, error) {
	return existsByCode(ctx, r.db, "instructors", "instructor_code", "user_id", code, excludeID)
}

// Create inserts the base user row and the instructor extension row.
func (r *InstructorRepository) Create(ctx context.Context, instructor *models.Instructor) error {
	return runInTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := insertUserTx(ctx, tx, &instructor.User); err != nil {
			return err
		}
		const query = `INSERT INTO instructors (user_id, specialty, hired_at, faculty, school, campus, instructor_code, employment_status, category)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
		if _, err := tx.ExecContext(ctx, query, instructor.ID, instructor.Specialty, instructor.HiredAt, instructor.Faculty,
			instructor.School, instructor.Campus, instructor.InstructorCode, instructor.EmploymentStatus, instructor.Category); err != nil {
			return fmt.Errorf("insert instructor: %w", err)
		}
		return nil
	})
}

// Update modifies base and extension fields of an existing instructor.
func (r *InstructorRepository) Update(ctx context.Context, instructor *models.Instructor) error {
	return runInTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := updateUserTx(ctx, tx, &instructor.User); err != nil {
			return err
		}
		const query = `UPDATE instructors SET specialty = $2, hired_at = $3, faculty = $4, school = $5, campus = $6,
            instructor_code = $7, employment_status = $8, category = $9 WHERE user_id = $1`
		if _, err := tx.ExecContext(ctx, query, instructor.ID, instructor.Specialty, instructor.HiredAt, instructor.Faculty,
			instructor.School, instructor.Campus, instructor.InstructorCode, instructor.EmploymentStatus, instructor.Category); err != nil {
			return fmt.Errorf("update instructor: %w", err)
		}
		return nil
	})
}

// Delete removes the instructor. Owned courses survive with their
// instructor reference cleared.
func (r *InstructorRepository) Delete(ctx context.Context, id string) error {
	return runInTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `UPDATE courses SET instructor_id = NULL WHERE instructor_id = $1`, id); err != nil {
			return fmt.Errorf("detach instructor courses: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM instructors WHERE user_id = $1`, id); err != nil {
			return fmt.Errorf("delete instructor %s: %w", id, err)
		}
		return deleteUserTx(ctx, tx, id)
	})
}
