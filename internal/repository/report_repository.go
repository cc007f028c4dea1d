package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/edu-admin-api/internal/models"
)

// ReportRepository manages persistence for generated reports.
type ReportRepository struct {
	db *sqlx.DB
}

// NewReportRepository constructs a ReportRepository.
func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// List returns a page of reports, newest first.
func (r *ReportRepository) List(ctx context.Context, filter models.ListFilter) ([]models.Report, int, error) {
	page, size := normalizePage(filter.Page, filter.PageSize)
	query := fmt.Sprintf(`SELECT id, kind, generated_at, description FROM reports
        ORDER BY generated_at DESC LIMIT %d OFFSET %d`, size, (page-1)*size)

	var reports []models.Report
	if err := r.db.SelectContext(ctx, &reports, query); err != nil {
		return nil, 0, fmt.Errorf("list reports: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM reports"); err != nil {
		return nil, 0, fmt.Errorf("count reports: %w", err)
	}
	return reports, total, nil
}

// FindByID fetches a report by ID.
func (r *ReportRepository) FindByID(ctx context.Context, id string) (*models.Report, error) {
	var report models.Report
	if err := r.db.GetContext(ctx, &report, `SELECT id, kind, generated_at, description FROM reports WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &report, nil
}

// PendingPaymentRows returns the dataset backing pending-payment report
// exports: one row per pending payment with student and course context.
func (r *ReportRepository) PendingPaymentRows(ctx context.Context) ([]models.PendingPaymentRow, error) {
	const query = `SELECT p.id AS payment_id, u.full_name AS student_name, c.name AS course_name, p.amount, p.due_date
        FROM payments p
        JOIN enrollments e ON e.id = p.enrollment_id
        JOIN users u ON u.id = e.student_id
        JOIN courses c ON c.id = e.course_id
        WHERE p.status = $1
        ORDER BY p.due_date ASC NULLS LAST`
	var rows []models.PendingPaymentRow
	if err := r.db.SelectContext(ctx, &rows, query, models.PaymentStatusPending); err != nil {
		return nil, fmt.Errorf("pending payment rows: %w", err)
	}
	return rows, nil
}

// IncomeRows returns the dataset backing income report exports: one row
// per completed payment with student and course context.
func (r *ReportRepository) IncomeRows(ctx context.Context) ([]models.IncomeRow, error) {
	const query = `SELECT p.id AS payment_id, u.full_name AS student_name, c.name AS course_name, p.amount, p.method, p.paid_at
        FROM payments p
        JOIN enrollments e ON e.id = p.enrollment_id
        JOIN users u ON u.id = e.student_id
        JOIN courses c ON c.id = e.course_id
        WHERE p.status = $1
        ORDER BY p.paid_at DESC NULLS LAST`
	var rows []models.IncomeRow
	if err := r.db.SelectContext(ctx, &rows, query, models.PaymentStatusComplete); err != nil {
		return nil, fmt.Errorf("income rows: %w", err)
	}
	return rows, nil
}

// Create inserts a new report.
func (r *ReportRepository) Create(ctx context.Context, report *models.Report) error {
	if report.ID == "" {
		report.ID = uuid.NewString()
	}
	if report.GeneratedAt.IsZero() {
		report.GeneratedAt = time.Now().UTC()
	}
	const query = `INSERT INTO reports (id, kind, generated_at, description)
        VALUES (:id, :kind, :generated_at, :description)`
	if _, err := r.db.NamedExecContext(ctx, query, report); err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	return nil
}

// Update modifies an existing report.
func (r *ReportRepository) Update(ctx context.Context, report *models.Report) error {
	const query = `UPDATE reports SET kind = :kind, description = :description WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, report); err != nil {
		return fmt.Errorf("update report: %w", err)
	}
	return nil
}

// Delete removes a report.
func (r *ReportRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM reports WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete report %s: %w", id, err)
	}
	return nil
}
