package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/edu-admin-api/internal/dto"
	"github.com/noah-isme/edu-admin-api/internal/models"
	appErrors "github.com/noah-isme/edu-admin-api/pkg/errors"
)

type summaryEnrollmentRepository interface {
	ListByStudent(ctx context.Context, studentID string) ([]models.Enrollment, error)
	CountByCourse(ctx context.Context, courseID string) (int, error)
}

type summaryCourseRepository interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

type summaryPaymentRepository interface {
	ListPendingByEnrollment(ctx context.Context, enrollmentID string) ([]models.Payment, error)
}

type summaryHistoryRepository interface {
	LatestByPayment(ctx context.Context, paymentID string) (*models.PaymentHistory, error)
}

// StudentSummaryService composes the per-enrollment payment and
// occupancy view for one student.
type StudentSummaryService struct {
	enrollments summaryEnrollmentRepository
	courses     summaryCourseRepository
	payments    summaryPaymentRepository
	histories   summaryHistoryRepository
	cache       *CacheService
	cacheTTL    time.Duration
	logger      *zap.Logger
}

// NewStudentSummaryService constructs the summary service.
func NewStudentSummaryService(enrollments summaryEnrollmentRepository, courses summaryCourseRepository,
	payments summaryPaymentRepository, histories summaryHistoryRepository,
	cache *CacheService, cacheTTL time.Duration, logger *zap.Logger) *StudentSummaryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentSummaryService{
		enrollments: enrollments,
		courses:     courses,
		payments:    payments,
		histories:   histories,
		cache:       cache,
		cacheTTL:    cacheTTL,
		logger:      logger,
	}
}

// Summarize returns one entry per enrollment of the student, or
// not-found when the student has none.
func (s *StudentSummaryService) Summarize(ctx context.Context, studentID string) ([]dto.StudentSummaryEntry, error) {
	cacheKey := fmt.Sprintf("summary:student:%s", studentID)
	var cached []dto.StudentSummaryEntry
	if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		return cached, nil
	}

	enrollments, err := s.enrollments.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments")
	}
	if len(enrollments) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student has no enrollments")
	}

	result := make([]dto.StudentSummaryEntry, 0, len(enrollments))
	for _, enrollment := range enrollments {
		course, err := s.courses.FindByID(ctx, enrollment.CourseID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
		}

		count, err := s.enrollments.CountByCourse(ctx, enrollment.CourseID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count enrollments")
		}

		occupancy := 0.0
		if course.Capacity > 0 {
			occupancy = roundTwo(float64(count) / float64(course.Capacity) * 100)
		}

		pending, err := s.pendingPayments(ctx, enrollment.ID)
		if err != nil {
			return nil, err
		}

		result = append(result, dto.StudentSummaryEntry{
			Course:                 course.Name,
			EnrollmentStatus:       enrollment.Status,
			PendingPayments:        pending,
			OccupancyPercent:       occupancy,
			Capacity:               course.Capacity,
			CurrentEnrollmentCount: count,
		})
	}

	if err := s.cache.Set(ctx, cacheKey, result, s.cacheTTL); err != nil {
		s.logger.Warn("failed to cache student summary", zap.String("student_id", studentID), zap.Error(err))
	}
	return result, nil
}

func (s *StudentSummaryService) pendingPayments(ctx context.Context, enrollmentID string) ([]dto.PendingPaymentSummary, error) {
	payments, err := s.payments.ListPendingByEnrollment(ctx, enrollmentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list pending payments")
	}

	summaries := make([]dto.PendingPaymentSummary, 0, len(payments))
	for _, payment := range payments {
		latest, err := s.histories.LatestByPayment(ctx, payment.ID)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load payment history")
		}

		summary := dto.PendingPaymentSummary{
			ID:      payment.ID,
			Amount:  payment.Amount,
			Status:  payment.Status,
			DueDate: formatDate(payment.DueDate),
			PaidAt:  formatTimestamp(payment.PaidAt),
		}
		if latest != nil {
			summary.Comment = latest.Comment
			prev := latest.PreviousStatus
			next := latest.NewStatus
			summary.PreviousStatus = &prev
			summary.NewStatus = &next
		} else {
			marker := dto.NoRecentChanges
			summary.Comment = &marker
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func roundTwo(v float64) float64 {
	return math.Round(v*100) / 100
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("2006-01-02")
	return &s
}

func formatTimestamp(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}
