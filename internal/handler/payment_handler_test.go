package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/edu-admin-api/internal/models"
	"github.com/noah-isme/edu-admin-api/internal/service"
	"github.com/noah-isme/edu-admin-api/pkg/response"
)

type paymentRepoStub struct {
	payment        *models.Payment
	lastPrevious   models.PaymentStatus
	lastNext       models.PaymentStatus
	lastComment    *string
	statusRecorded bool
}

func (s *paymentRepoStub) List(ctx context.Context, filter models.PaymentFilter) ([]models.Payment, int, error) {
	return nil, 0, nil
}

func (s *paymentRepoStub) FindByID(ctx context.Context, id string) (*models.Payment, error) {
	if s.payment != nil && s.payment.ID == id {
		copied := *s.payment
		return &copied, nil
	}
	return nil, sql.ErrNoRows
}

func (s *paymentRepoStub) ListByEnrollment(ctx context.Context, enrollmentID string) ([]models.Payment, error) {
	return nil, nil
}

func (s *paymentRepoStub) Create(ctx context.Context, payment *models.Payment) error {
	return nil
}

func (s *paymentRepoStub) Update(ctx context.Context, payment *models.Payment) error {
	return nil
}

func (s *paymentRepoStub) UpdateStatusWithHistory(ctx context.Context, id string, previous, next models.PaymentStatus, comment *string) error {
	s.statusRecorded = true
	s.lastPrevious = previous
	s.lastNext = next
	s.lastComment = comment
	return nil
}

func (s *paymentRepoStub) Delete(ctx context.Context, id string) error {
	return nil
}

type enrollmentRepoStub struct{}

func (s *enrollmentRepoStub) FindByID(ctx context.Context, id string) (*models.Enrollment, error) {
	return &models.Enrollment{ID: id, Status: models.EnrollmentStatusEnrolled}, nil
}

func paymentHandlerFixture(repo *paymentRepoStub) *PaymentHandler {
	svc := service.NewPaymentService(repo, &enrollmentRepoStub{}, nil, nil)
	return NewPaymentHandler(svc)
}

func patchStatus(t *testing.T, body string) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, err := http.NewRequest(http.MethodPatch, "/payments/p1/status", bytes.NewBufferString(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "p1"}}
	return w, c
}

func TestPaymentHandlerUpdateStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &paymentRepoStub{payment: &models.Payment{ID: "p1", EnrollmentID: "e1", Amount: "1500.00", Status: models.PaymentStatusPending}}
	handler := paymentHandlerFixture(repo)

	w, c := patchStatus(t, `{"status":"complete","comment":"confirmed by bank"}`)

	handler.UpdateStatus(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, repo.statusRecorded)
	assert.Equal(t, models.PaymentStatusPending, repo.lastPrevious)
	assert.Equal(t, models.PaymentStatusComplete, repo.lastNext)
	require.NotNil(t, repo.lastComment)
	assert.Equal(t, "confirmed by bank", *repo.lastComment)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	data, ok := envelope.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "complete", data["status"])
}

func TestPaymentHandlerUpdateStatusMissingStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &paymentRepoStub{payment: &models.Payment{ID: "p1", EnrollmentID: "e1", Amount: "1500.00", Status: models.PaymentStatusPending}}
	handler := paymentHandlerFixture(repo)

	w, c := patchStatus(t, `{"comment":"no status supplied"}`)

	handler.UpdateStatus(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, repo.statusRecorded)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "status is required", envelope.Error.Message)
}

func TestPaymentHandlerUpdateStatusMalformedBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := paymentHandlerFixture(&paymentRepoStub{})

	w, c := patchStatus(t, `{"status":"complete"`)

	handler.UpdateStatus(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPaymentHandlerUpdateStatusUnknownPayment(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := paymentHandlerFixture(&paymentRepoStub{})

	w, c := patchStatus(t, `{"status":"complete"}`)

	handler.UpdateStatus(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}
