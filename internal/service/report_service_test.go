package service

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/edu-admin-api/internal/models"
	appErrors "github.com/noah-isme/edu-admin-api/pkg/errors"
)

type mockReportRepo struct {
	reports     map[string]*models.Report
	pendingRows []models.PendingPaymentRow
	incomeRows  []models.IncomeRow
}

func newMockReportRepo() *mockReportRepo {
	return &mockReportRepo{reports: map[string]*models.Report{}}
}

func (m *mockReportRepo) List(ctx context.Context, filter models.ListFilter) ([]models.Report, int, error) {
	out := make([]models.Report, 0, len(m.reports))
	for _, r := range m.reports {
		out = append(out, *r)
	}
	return out, len(out), nil
}

func (m *mockReportRepo) FindByID(ctx context.Context, id string) (*models.Report, error) {
	if r, ok := m.reports[id]; ok {
		copied := *r
		return &copied, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockReportRepo) PendingPaymentRows(ctx context.Context) ([]models.PendingPaymentRow, error) {
	return m.pendingRows, nil
}

func (m *mockReportRepo) IncomeRows(ctx context.Context) ([]models.IncomeRow, error) {
	return m.incomeRows, nil
}

func (m *mockReportRepo) Create(ctx context.Context, report *models.Report) error {
	report.ID = "r-generated"
	report.GeneratedAt = time.Now().UTC()
	m.reports[report.ID] = report
	return nil
}

func (m *mockReportRepo) Update(ctx context.Context, report *models.Report) error {
	m.reports[report.ID] = report
	return nil
}

func (m *mockReportRepo) Delete(ctx context.Context, id string) error {
	delete(m.reports, id)
	return nil
}

func newReportService(repo *mockReportRepo) *ReportService {
	return NewReportService(repo, nil, nil, validator.New(), zap.NewNop())
}

func TestReportExportPendingPaymentsCSV(t *testing.T) {
	repo := newMockReportRepo()
	generated := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	repo.reports["r1"] = &models.Report{ID: "r1", Kind: models.ReportKindPendingPayments, GeneratedAt: generated, Description: "weekly dunning run"}
	due := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	repo.pendingRows = []models.PendingPaymentRow{
		{PaymentID: "p1", StudentName: "Nora Webster", CourseName: "Databases", Amount: "1500.00", DueDate: &due},
		{PaymentID: "p2", StudentName: "Omar Little", CourseName: "Networks", Amount: "900.00"},
	}
	svc := newReportService(repo)

	result, err := svc.Export(context.Background(), "r1", "csv")
	require.NoError(t, err)
	assert.Equal(t, "pending_payments-2026-08-30.csv", result.Filename)
	assert.Equal(t, "text/csv", result.ContentType)

	lines := strings.Split(strings.TrimSpace(string(result.Content)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "payment_id,student,course,amount,due_date", lines[0])
	assert.Equal(t, "p1,Nora Webster,Databases,1500.00,2026-09-15", lines[1])
	assert.Equal(t, "p2,Omar Little,Networks,900.00,", lines[2])
}

func TestReportExportIncomeCSV(t *testing.T) {
	repo := newMockReportRepo()
	repo.reports["r1"] = &models.Report{ID: "r1", Kind: models.ReportKindIncome, GeneratedAt: time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)}
	paid := time.Date(2026, 8, 20, 9, 30, 0, 0, time.UTC)
	repo.incomeRows = []models.IncomeRow{
		{PaymentID: "p1", StudentName: "Nora Webster", CourseName: "Databases", Amount: "1500.00", Method: models.PaymentMethodTransfer, PaidAt: &paid},
	}
	svc := newReportService(repo)

	result, err := svc.Export(context.Background(), "r1", "csv")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(result.Content)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "payment_id,student,course,amount,method,paid_at", lines[0])
	assert.Equal(t, "p1,Nora Webster,Databases,1500.00,transfer,2026-08-20T09:30:00Z", lines[1])
}

func TestReportExportAttendanceFallsBackToMetadata(t *testing.T) {
	repo := newMockReportRepo()
	repo.reports["r1"] = &models.Report{
		ID:          "r1",
		Kind:        models.ReportKindAttendance,
		GeneratedAt: time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC),
		Description: "term attendance",
	}
	svc := newReportService(repo)

	result, err := svc.Export(context.Background(), "r1", "csv")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(result.Content)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "report_id,kind,generated_at,description", lines[0])
	assert.Contains(t, lines[1], "attendance")
	assert.Contains(t, lines[1], "term attendance")
}

func TestReportExportRejectsUnknownFormat(t *testing.T) {
	repo := newMockReportRepo()
	repo.reports["r1"] = &models.Report{ID: "r1", Kind: models.ReportKindIncome}
	svc := newReportService(repo)

	_, err := svc.Export(context.Background(), "r1", "xlsx")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
	assert.Equal(t, "format must be csv or pdf", appErr.Message)
}

func TestReportExportUnknownReport(t *testing.T) {
	svc := newReportService(newMockReportRepo())

	_, err := svc.Export(context.Background(), "missing", "csv")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, appErrors.FromError(err).Status)
}

func TestReportExportPDFProducesDocument(t *testing.T) {
	repo := newMockReportRepo()
	repo.reports["r1"] = &models.Report{ID: "r1", Kind: models.ReportKindIncome, GeneratedAt: time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)}
	svc := newReportService(repo)

	result, err := svc.Export(context.Background(), "r1", "pdf")
	require.NoError(t, err)
	assert.Equal(t, "income-2026-08-30.pdf", result.Filename)
	assert.Equal(t, "application/pdf", result.ContentType)
	assert.True(t, strings.HasPrefix(string(result.Content), "%PDF"))
}
