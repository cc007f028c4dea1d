package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/edu-admin-api/internal/dto"
	"github.com/noah-isme/edu-admin-api/internal/models"
	appErrors "github.com/noah-isme/edu-admin-api/pkg/errors"
	"github.com/noah-isme/edu-admin-api/pkg/mailer"
)

// ActivationThresholdPercent is the occupancy share at which an
// inactive course opens for payments.
const ActivationThresholdPercent = 50

type occupancyInstructorRepository interface {
	FindByID(ctx context.Context, id string) (*models.Instructor, error)
}

type occupancyCourseRepository interface {
	ListByInstructor(ctx context.Context, instructorID string) ([]models.Course, error)
	UpdateStatus(ctx context.Context, id string, status models.CourseStatus) error
}

type occupancyEnrollmentRepository interface {
	CountByCourse(ctx context.Context, courseID string) (int, error)
}

// CourseOccupancyService reports per-course occupancy for an instructor
// and activates courses crossing the enrollment threshold. The
// activation is edge-triggered on the inactive state: an already active
// course never re-sends the threshold mail.
type CourseOccupancyService struct {
	instructors occupancyInstructorRepository
	courses     occupancyCourseRepository
	enrollments occupancyEnrollmentRepository
	sender      mailer.Sender
	logger      *zap.Logger
}

// NewCourseOccupancyService constructs the occupancy service.
func NewCourseOccupancyService(instructors occupancyInstructorRepository, courses occupancyCourseRepository,
	enrollments occupancyEnrollmentRepository, sender mailer.Sender, logger *zap.Logger) *CourseOccupancyService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseOccupancyService{instructors: instructors, courses: courses, enrollments: enrollments, sender: sender, logger: logger}
}

// Report returns one entry per course owned by the instructor.
func (s *CourseOccupancyService) Report(ctx context.Context, instructorID string) ([]dto.CourseOccupancyEntry, error) {
	instructor, err := s.instructors.FindByID(ctx, instructorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "instructor not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load instructor")
	}

	courses, err := s.courses.ListByInstructor(ctx, instructorID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}

	entries := make([]dto.CourseOccupancyEntry, 0, len(courses))
	for _, course := range courses {
		count, err := s.enrollments.CountByCourse(ctx, course.ID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count enrollments")
		}

		occupancy := 0.0
		if course.Capacity > 0 {
			occupancy = float64(count) / float64(course.Capacity) * 100
		}

		if occupancy >= ActivationThresholdPercent && course.Status == models.CourseStatusInactive {
			if err := s.courses.UpdateStatus(ctx, course.ID, models.CourseStatusActive); err != nil {
				return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to activate course")
			}
			course.Status = models.CourseStatusActive

			subject := fmt.Sprintf("Course %s ready for payments", course.Name)
			body := fmt.Sprintf("Course %s has reached %d%% of its capacity. Enrolled students: %d.",
				course.Name, ActivationThresholdPercent, count)
			// Status change is already persisted; a send failure fails
			// the request without compensating rollback.
			if err := s.sender.Send(instructor.Email, subject, body); err != nil {
				return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to notify instructor")
			}
			s.logger.Info("course activated",
				zap.String("course_id", course.ID),
				zap.Int("enrollment_count", count),
				zap.String("instructor_id", instructorID),
			)
		}

		entries = append(entries, dto.CourseOccupancyEntry{
			ID:                     course.ID,
			Name:                   course.Name,
			Description:            course.Description,
			Capacity:               course.Capacity,
			CurrentEnrollmentCount: count,
			AvailableSeats:         course.Capacity - count,
			Fee:                    course.Fee,
			Status:                 course.Status,
			InstructorName:         instructor.FullName,
			OccupancyPercent:       roundTwo(occupancy),
		})
	}
	return entries, nil
}
