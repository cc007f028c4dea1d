package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/edu-admin-api/internal/models"
)

const staffColumns = `u.id, u.full_name, u.national_id, u.email, u.phone, u.mobile, u.address, u.secret_hash, u.status, u.created_at,
        a.department, a.role, a.hired_at, a.staff_code, a.access_level`

// StaffRepository manages persistence for administrative staff records.
type StaffRepository struct {
	db *sqlx.DB
}

// NewStaffRepository constructs a StaffRepository.
func NewStaffRepository(db *sqlx.DB) *StaffRepository {
	return &StaffRepository{db: db}
}

// List returns a page of staff members ordered by hire date.
func (r *StaffRepository) List(ctx context.Context, filter models.ListFilter) ([]models.AdminStaff, int, error) {
	page, size := normalizePage(filter.Page, filter.PageSize)
	query := fmt.Sprintf(`SELECT %s FROM users u JOIN admin_staff a ON a.user_id = u.id
        ORDER BY a.hired_at DESC LIMIT %d OFFSET %d`, staffColumns, size, (page-1)*size)

	var staff []models.AdminStaff
	if err := r.db.SelectContext(ctx, &staff, query); err != nil {
		return nil, 0, fmt.Errorf("list staff: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM admin_staff"); err != nil {
		return nil, 0, fmt.Errorf("count staff: %w", err)
	}
	return staff, total, nil
}

// FindByID fetches a staff member by ID.
func (r *StaffRepository) FindByID(ctx context.Context, id string) (*models.AdminStaff, error) {
	query := fmt.Sprintf(`SELECT %s FROM users u JOIN admin_staff a ON a.user_id = u.id WHERE u.id = $1`, staffColumns)
	var staff models.AdminStaff
	if err := r.db.GetContext(ctx, &staff, query, id); err != nil {
		return nil, err
	}
	return &staff, nil
}

// FindByStaffCode fetches a staff member by the unique staff code.
func (r *StaffRepository) FindByStaffCode(ctx context.Context, code string) (*models.AdminStaff, error) {
	query := fmt.Sprintf(`SELECT %s FROM users u JOIN admin_staff a ON a.user_id = u.id WHERE a.staff_code = $1`, staffColumns)
	var staff models.AdminStaff
	if err := r.db.GetContext(ctx, &staff, query, code); err != nil {
		return nil, err
	}
	return &staff, nil
}

// ExistsByStaffCode checks whether the staff code is taken.
func (r *StaffRepository) ExistsByStaffCode(ctx context.Context, code string, excludeID string) (bool, error) {
	return existsByCode(ctx, r.db, "admin_staff", "staff_code", "user_id", code, excludeID)
}

// Create inserts the base user row and the staff extension row.
func (r *StaffRepository) Create(ctx context.Context, staff *models.AdminStaff) error {
	return runInTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := insertUserTx(ctx, tx, &staff.User); err != nil {
			return err
		}
		const query = `INSERT INTO admin_staff (user_id, department, role, hired_at, staff_code, access_level)
            VALUES ($1, $2, $3, $4, $5, $6)`
		if _, err := tx.ExecContext(ctx, query, staff.ID, staff.Department, staff.Role, staff.HiredAt, staff.StaffCode, staff.AccessLevel); err != nil {
			return fmt.Errorf("insert staff: %w", err)
		}
		return nil
	})
}

// Update modifies base and extension fields of an existing staff member.
func (r *StaffRepository) Update(ctx context.Context, staff *models.AdminStaff) error {
	return runInTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := updateUserTx(ctx, tx, &staff.User); err != nil {
			return err
		}
		const query = `UPDATE admin_staff SET department = $2, role = $3, hired_at = $4, staff_code = $5, access_level = $6 WHERE user_id = $1`
		if _, err := tx.ExecContext(ctx, query, staff.ID, staff.Department, staff.Role, staff.HiredAt, staff.StaffCode, staff.AccessLevel); err != nil {
			return fmt.Errorf("update staff: %w", err)
		}
		return nil
	})
}

// Delete removes the staff member and dependent user records.
func (r *StaffRepository) Delete(ctx context.Context, id string) error {
	return runInTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM admin_staff WHERE user_id = $1`, id); err != nil {
			return fmt.Errorf("delete staff %s: %w", id, err)
		}
		return deleteUserTx(ctx, tx, id)
	})
}
