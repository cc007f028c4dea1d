package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/edu-admin-api/internal/models"
	appErrors "github.com/noah-isme/edu-admin-api/pkg/errors"
	"github.com/noah-isme/edu-admin-api/pkg/export"
)

type reportRepository interface {
	List(ctx context.Context, filter models.ListFilter) ([]models.Report, int, error)
	FindByID(ctx context.Context, id string) (*models.Report, error)
	PendingPaymentRows(ctx context.Context) ([]models.PendingPaymentRow, error)
	IncomeRows(ctx context.Context) ([]models.IncomeRow, error)
	Create(ctx context.Context, report *models.Report) error
	Update(ctx context.Context, report *models.Report) error
	Delete(ctx context.Context, id string) error
}

// ReportRequest holds payload for creating or updating a report.
type ReportRequest struct {
	Kind        models.ReportKind `json:"kind" validate:"required,oneof=income pending_payments attendance"`
	Description string            `json:"description" validate:"required"`
}

// ExportResult is a rendered report document.
type ExportResult struct {
	Filename    string
	ContentType string
	Content     []byte
}

// ReportService handles report use-cases and document exports.
type ReportService struct {
	repo      reportRepository
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
	validator *validator.Validate
	logger    *zap.Logger
}

// NewReportService constructs the report service.
func NewReportService(repo reportRepository, csv *export.CSVExporter, pdf *export.PDFExporter,
	validate *validator.Validate, logger *zap.Logger) *ReportService {
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{repo: repo, csv: csv, pdf: pdf, validator: validate, logger: logger}
}

// List returns reports, newest first.
func (s *ReportService) List(ctx context.Context, filter models.ListFilter) ([]models.Report, *models.Pagination, error) {
	reports, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list reports")
	}
	return reports, paginationFor(filter.Page, filter.PageSize, total), nil
}

// Get returns one report.
func (s *ReportService) Get(ctx context.Context, id string) (*models.Report, error) {
	report, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "report not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load report")
	}
	return report, nil
}

// Create records a new report.
func (s *ReportService) Create(ctx context.Context, req ReportRequest) (*models.Report, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid report payload")
	}
	report := &models.Report{
		Kind:        req.Kind,
		Description: req.Description,
	}
	if err := s.repo.Create(ctx, report); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create report")
	}
	return report, nil
}

// Update modifies an existing report.
func (s *ReportService) Update(ctx context.Context, id string, req ReportRequest) (*models.Report, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid report payload")
	}
	report, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	report.Kind = req.Kind
	report.Description = req.Description
	if err := s.repo.Update(ctx, report); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update report")
	}
	return report, nil
}

// Delete removes a report.
func (s *ReportService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete report")
	}
	return nil
}

// Export renders the report's dataset as a downloadable document.
// Supported formats are "csv" and "pdf".
func (s *ReportService) Export(ctx context.Context, id, format string) (*ExportResult, error) {
	if format != "csv" && format != "pdf" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
	report, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	dataset, err := s.dataset(ctx, report)
	if err != nil {
		return nil, err
	}

	filename := fmt.Sprintf("%s-%s.%s", report.Kind, report.GeneratedAt.Format("2006-01-02"), format)
	if format == "pdf" {
		content, err := s.pdf.Render(dataset, string(report.Kind))
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportResult{Filename: filename, ContentType: "application/pdf", Content: content}, nil
	}
	content, err := s.csv.Render(dataset)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
	}
	return &ExportResult{Filename: filename, ContentType: "text/csv", Content: content}, nil
}

func (s *ReportService) dataset(ctx context.Context, report *models.Report) (export.Dataset, error) {
	switch report.Kind {
	case models.ReportKindPendingPayments:
		rows, err := s.repo.PendingPaymentRows(ctx)
		if err != nil {
			return export.Dataset{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load pending payments")
		}
		dataset := export.NewDataset("payment_id", "student", "course", "amount", "due_date")
		for _, row := range rows {
			due := ""
			if row.DueDate != nil {
				due = row.DueDate.Format("2006-01-02")
			}
			dataset.AddRow(row.PaymentID, row.StudentName, row.CourseName, row.Amount, due)
		}
		return dataset, nil
	case models.ReportKindIncome:
		rows, err := s.repo.IncomeRows(ctx)
		if err != nil {
			return export.Dataset{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load income rows")
		}
		dataset := export.NewDataset("payment_id", "student", "course", "amount", "method", "paid_at")
		for _, row := range rows {
			paid := ""
			if row.PaidAt != nil {
				paid = row.PaidAt.UTC().Format(time.RFC3339)
			}
			dataset.AddRow(row.PaymentID, row.StudentName, row.CourseName, row.Amount, string(row.Method), paid)
		}
		return dataset, nil
	default:
		// Attendance tracking has no backing dataset yet; export the
		// report metadata only.
		dataset := export.NewDataset("report_id", "kind", "generated_at", "description")
		dataset.AddRow(report.ID, string(report.Kind), report.GeneratedAt.UTC().Format(time.RFC3339), report.Description)
		return dataset, nil
	}
}
