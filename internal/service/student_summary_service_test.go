package service

import (
	"context"
	"database/sql"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/edu-admin-api/internal/dto"
	"github.com/noah-isme/edu-admin-api/internal/models"
	appErrors "github.com/noah-isme/edu-admin-api/pkg/errors"
)

type mockSummaryEnrollmentRepo struct {
	byStudent map[string][]models.Enrollment
	counts    map[string]int
}

func (m *mockSummaryEnrollmentRepo) ListByStudent(ctx context.Context, studentID string) ([]models.Enrollment, error) {
	return m.byStudent[studentID], nil
}

func (m *mockSummaryEnrollmentRepo) CountByCourse(ctx context.Context, courseID string) (int, error) {
	return m.counts[courseID], nil
}

type mockSummaryCourseRepo struct {
	courses map[string]*models.Course
}

func (m *mockSummaryCourseRepo) FindByID(ctx context.Context, id string) (*models.Course, error) {
	if c, ok := m.courses[id]; ok {
		return c, nil
	}
	return nil, sql.ErrNoRows
}

type mockSummaryPaymentRepo struct {
	pending map[string][]models.Payment
}

func (m *mockSummaryPaymentRepo) ListPendingByEnrollment(ctx context.Context, enrollmentID string) ([]models.Payment, error) {
	return m.pending[enrollmentID], nil
}

type mockSummaryHistoryRepo struct {
	latest map[string]*models.PaymentHistory
}

func (m *mockSummaryHistoryRepo) LatestByPayment(ctx context.Context, paymentID string) (*models.PaymentHistory, error) {
	return m.latest[paymentID], nil
}

func disabledCache() *CacheService {
	return NewCacheService(nil, nil, 0, nil, false)
}

func TestSummarizeNoEnrollmentsIsNotFound(t *testing.T) {
	svc := NewStudentSummaryService(
		&mockSummaryEnrollmentRepo{byStudent: map[string][]models.Enrollment{}},
		&mockSummaryCourseRepo{},
		&mockSummaryPaymentRepo{},
		&mockSummaryHistoryRepo{},
		disabledCache(), time.Minute, zap.NewNop(),
	)

	_, err := svc.Summarize(context.Background(), "s1")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusNotFound, appErr.Status)
	assert.Equal(t, "student has no enrollments", appErr.Message)
}

func TestSummarizeComposesPendingPaymentsWithHistory(t *testing.T) {
	due := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	comment := "waiting on bank transfer"
	enrollments := &mockSummaryEnrollmentRepo{
		byStudent: map[string][]models.Enrollment{
			"s1": {{ID: "e1", StudentID: "s1", CourseID: "c1", Status: models.EnrollmentStatusEnrolled}},
		},
		counts: map[string]int{"c1": 27},
	}
	courses := &mockSummaryCourseRepo{courses: map[string]*models.Course{
		"c1": {ID: "c1", Name: "Databases", Capacity: 40},
	}}
	payments := &mockSummaryPaymentRepo{pending: map[string][]models.Payment{
		"e1": {{ID: "p1", EnrollmentID: "e1", Amount: "1500.00", Status: models.PaymentStatusPending, DueDate: &due}},
	}}
	histories := &mockSummaryHistoryRepo{latest: map[string]*models.PaymentHistory{
		"p1": {
			ID:             "h1",
			PaymentID:      "p1",
			PreviousStatus: models.PaymentStatusComplete,
			NewStatus:      models.PaymentStatusPending,
			Comment:        &comment,
		},
	}}
	svc := NewStudentSummaryService(enrollments, courses, payments, histories, disabledCache(), time.Minute, zap.NewNop())

	entries, err := svc.Summarize(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, entries, 1)

	entry := entries[0]
	assert.Equal(t, "Databases", entry.Course)
	assert.Equal(t, models.EnrollmentStatusEnrolled, entry.EnrollmentStatus)
	assert.Equal(t, 67.5, entry.OccupancyPercent)
	assert.Equal(t, 40, entry.Capacity)
	assert.Equal(t, 27, entry.CurrentEnrollmentCount)

	require.Len(t, entry.PendingPayments, 1)
	pending := entry.PendingPayments[0]
	assert.Equal(t, "1500.00", pending.Amount)
	require.NotNil(t, pending.DueDate)
	assert.Equal(t, "2026-09-15", *pending.DueDate)
	require.NotNil(t, pending.Comment)
	assert.Equal(t, comment, *pending.Comment)
	require.NotNil(t, pending.PreviousStatus)
	assert.Equal(t, models.PaymentStatusComplete, *pending.PreviousStatus)
	require.NotNil(t, pending.NewStatus)
	assert.Equal(t, models.PaymentStatusPending, *pending.NewStatus)
	assert.Nil(t, pending.PaidAt)
}

func TestSummarizeMarksPaymentsWithoutHistory(t *testing.T) {
	enrollments := &mockSummaryEnrollmentRepo{
		byStudent: map[string][]models.Enrollment{
			"s1": {{ID: "e1", StudentID: "s1", CourseID: "c1", Status: models.EnrollmentStatusPending}},
		},
		counts: map[string]int{"c1": 10},
	}
	courses := &mockSummaryCourseRepo{courses: map[string]*models.Course{
		"c1": {ID: "c1", Name: "Databases", Capacity: 30},
	}}
	payments := &mockSummaryPaymentRepo{pending: map[string][]models.Payment{
		"e1": {{ID: "p1", EnrollmentID: "e1", Amount: "800.00", Status: models.PaymentStatusPending}},
	}}
	svc := NewStudentSummaryService(enrollments, courses, payments, &mockSummaryHistoryRepo{}, disabledCache(), time.Minute, zap.NewNop())

	entries, err := svc.Summarize(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Len(t, entries[0].PendingPayments, 1)

	pending := entries[0].PendingPayments[0]
	require.NotNil(t, pending.Comment)
	assert.Equal(t, dto.NoRecentChanges, *pending.Comment)
	assert.Nil(t, pending.PreviousStatus)
	assert.Nil(t, pending.NewStatus)
	assert.Nil(t, pending.DueDate)
}

func TestSummarizeZeroCapacityCourse(t *testing.T) {
	enrollments := &mockSummaryEnrollmentRepo{
		byStudent: map[string][]models.Enrollment{
			"s1": {{ID: "e1", StudentID: "s1", CourseID: "c1", Status: models.EnrollmentStatusEnrolled}},
		},
		counts: map[string]int{"c1": 4},
	}
	courses := &mockSummaryCourseRepo{courses: map[string]*models.Course{
		"c1": {ID: "c1", Name: "Seminar", Capacity: 0},
	}}
	svc := NewStudentSummaryService(enrollments, courses, &mockSummaryPaymentRepo{}, &mockSummaryHistoryRepo{}, disabledCache(), time.Minute, zap.NewNop())

	entries, err := svc.Summarize(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 0.0, entries[0].OccupancyPercent)
	assert.Empty(t, entries[0].PendingPayments)
}
