package service

import (
	"context"
	"database/sql"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/edu-admin-api/internal/models"
	appErrors "github.com/noah-isme/edu-admin-api/pkg/errors"
	"github.com/noah-isme/edu-admin-api/pkg/mailer"
)

type mockOccupancyInstructorRepo struct {
	instructors map[string]*models.Instructor
}

func (m *mockOccupancyInstructorRepo) FindByID(ctx context.Context, id string) (*models.Instructor, error) {
	if i, ok := m.instructors[id]; ok {
		return i, nil
	}
	return nil, sql.ErrNoRows
}

type mockOccupancyCourseRepo struct {
	courses        []models.Course
	statusChanges  map[string]models.CourseStatus
	updateStatusFn func(id string, status models.CourseStatus) error
}

func (m *mockOccupancyCourseRepo) ListByInstructor(ctx context.Context, instructorID string) ([]models.Course, error) {
	return m.courses, nil
}

func (m *mockOccupancyCourseRepo) UpdateStatus(ctx context.Context, id string, status models.CourseStatus) error {
	if m.updateStatusFn != nil {
		if err := m.updateStatusFn(id, status); err != nil {
			return err
		}
	}
	if m.statusChanges == nil {
		m.statusChanges = map[string]models.CourseStatus{}
	}
	m.statusChanges[id] = status
	return nil
}

type mockOccupancyEnrollmentRepo struct {
	counts map[string]int
}

func (m *mockOccupancyEnrollmentRepo) CountByCourse(ctx context.Context, courseID string) (int, error) {
	return m.counts[courseID], nil
}

func occupancyFixture() (*mockOccupancyInstructorRepo, *mockOccupancyCourseRepo, *mockOccupancyEnrollmentRepo) {
	instructors := &mockOccupancyInstructorRepo{instructors: map[string]*models.Instructor{
		"i1": {User: models.User{ID: "i1", FullName: "Grace Hopper", Email: "grace@example.com"}, InstructorCode: "INS-1"},
	}}
	courses := &mockOccupancyCourseRepo{}
	enrollments := &mockOccupancyEnrollmentRepo{counts: map[string]int{}}
	return instructors, courses, enrollments
}

func TestOccupancyBelowThresholdLeavesCourseInactive(t *testing.T) {
	instructors, courses, enrollments := occupancyFixture()
	courses.courses = []models.Course{{ID: "c1", Name: "Databases", Capacity: 40, Fee: "2500.00", Status: models.CourseStatusInactive}}
	enrollments.counts["c1"] = 19
	sender := mailer.NewFakeSender()
	svc := NewCourseOccupancyService(instructors, courses, enrollments, sender, zap.NewNop())

	entries, err := svc.Report(context.Background(), "i1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.CourseStatusInactive, entries[0].Status)
	assert.Equal(t, 47.5, entries[0].OccupancyPercent)
	assert.Equal(t, 21, entries[0].AvailableSeats)
	assert.Empty(t, sender.Messages())
	assert.Empty(t, courses.statusChanges)
}

func TestOccupancyAtThresholdActivatesAndNotifies(t *testing.T) {
	instructors, courses, enrollments := occupancyFixture()
	courses.courses = []models.Course{{ID: "c1", Name: "Databases", Capacity: 40, Fee: "2500.00", Status: models.CourseStatusInactive}}
	enrollments.counts["c1"] = 20
	sender := mailer.NewFakeSender()
	svc := NewCourseOccupancyService(instructors, courses, enrollments, sender, zap.NewNop())

	entries, err := svc.Report(context.Background(), "i1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.CourseStatusActive, entries[0].Status)
	assert.Equal(t, 50.0, entries[0].OccupancyPercent)
	assert.Equal(t, models.CourseStatusActive, courses.statusChanges["c1"])

	messages := sender.Messages()
	require.Len(t, messages, 1)
	assert.Equal(t, "grace@example.com", messages[0].Recipient)
	assert.Equal(t, "Course Databases ready for payments", messages[0].Subject)
	assert.Contains(t, messages[0].Body, "Enrolled students: 20")
}

func TestOccupancyActiveCourseDoesNotResend(t *testing.T) {
	instructors, courses, enrollments := occupancyFixture()
	courses.courses = []models.Course{{ID: "c1", Name: "Databases", Capacity: 40, Fee: "2500.00", Status: models.CourseStatusActive}}
	enrollments.counts["c1"] = 35
	sender := mailer.NewFakeSender()
	svc := NewCourseOccupancyService(instructors, courses, enrollments, sender, zap.NewNop())

	entries, err := svc.Report(context.Background(), "i1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.CourseStatusActive, entries[0].Status)
	assert.Empty(t, sender.Messages())
	assert.Empty(t, courses.statusChanges)
}

func TestOccupancyZeroCapacityReportsZeroPercent(t *testing.T) {
	instructors, courses, enrollments := occupancyFixture()
	courses.courses = []models.Course{{ID: "c1", Name: "Seminar", Capacity: 0, Fee: "0.00", Status: models.CourseStatusInactive}}
	enrollments.counts["c1"] = 5
	sender := mailer.NewFakeSender()
	svc := NewCourseOccupancyService(instructors, courses, enrollments, sender, zap.NewNop())

	entries, err := svc.Report(context.Background(), "i1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 0.0, entries[0].OccupancyPercent)
	assert.Equal(t, models.CourseStatusInactive, entries[0].Status)
	assert.Equal(t, -5, entries[0].AvailableSeats)
	assert.Empty(t, sender.Messages())
}

func TestOccupancySendFailureKeepsActivation(t *testing.T) {
	instructors, courses, enrollments := occupancyFixture()
	courses.courses = []models.Course{{ID: "c1", Name: "Databases", Capacity: 40, Fee: "2500.00", Status: models.CourseStatusInactive}}
	enrollments.counts["c1"] = 30
	sender := mailer.NewFakeSender()
	sender.Err = assert.AnError
	svc := NewCourseOccupancyService(instructors, courses, enrollments, sender, zap.NewNop())

	_, err := svc.Report(context.Background(), "i1")
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, appErrors.FromError(err).Status)
	// The status flip is not compensated when the mail fails.
	assert.Equal(t, models.CourseStatusActive, courses.statusChanges["c1"])
}

func TestOccupancyUnknownInstructor(t *testing.T) {
	instructors, courses, enrollments := occupancyFixture()
	svc := NewCourseOccupancyService(instructors, courses, enrollments, mailer.NewFakeSender(), zap.NewNop())

	_, err := svc.Report(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, appErrors.FromError(err).Status)
}
