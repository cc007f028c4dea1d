package service

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/edu-admin-api/internal/models"
	appErrors "github.com/noah-isme/edu-admin-api/pkg/errors"
)

type courseRepository interface {
	List(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error)
	FindByID(ctx context.Context, id string) (*models.Course, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id string) error
}

type courseInstructorRepository interface {
	FindByID(ctx context.Context, id string) (*models.Instructor, error)
}

// CourseRequest holds payload for creating or updating a course.
type CourseRequest struct {
	Name         string              `json:"name" validate:"required"`
	Description  *string             `json:"description"`
	Kind         models.CourseKind   `json:"kind" validate:"required,oneof=course diploma"`
	Fee          string              `json:"fee" validate:"required"`
	Status       models.CourseStatus `json:"status" validate:"required,oneof=active inactive"`
	StartDate    time.Time           `json:"start_date" validate:"required"`
	EndDate      time.Time           `json:"end_date" validate:"required"`
	Capacity     int                 `json:"capacity" validate:"gte=0"`
	InstructorID *string             `json:"instructor_id"`
	ModuleCount  int                 `json:"module_count" validate:"gte=0"`
	HourCount    int                 `json:"hour_count" validate:"gte=0"`
	Code         string              `json:"code" validate:"required"`
	TeacherName  string              `json:"teacher_name"`
	Faculty      string              `json:"faculty"`
	Phone        string              `json:"phone"`
	ImageURL     *string             `json:"image_url"`
}

// CourseService handles course use-cases.
type CourseService struct {
	repo        courseRepository
	instructors courseInstructorRepository
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewCourseService constructs the course service.
func NewCourseService(repo courseRepository, instructors courseInstructorRepository, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{repo: repo, instructors: instructors, validator: validate, logger: logger}
}

// List returns courses matching the filter.
func (s *CourseService) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, *models.Pagination, error) {
	courses, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	return courses, paginationFor(filter.Page, filter.PageSize, total), nil
}

// Get returns one course.
func (s *CourseService) Get(ctx context.Context, id string) (*models.Course, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return course, nil
}

// Create registers a new course.
func (s *CourseService) Create(ctx context.Context, req CourseRequest) (*models.Course, error) {
	if err := s.validate(ctx, req); err != nil {
		return nil, err
	}
	course := s.build(req)
	if err := s.repo.Create(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course")
	}
	return course, nil
}

// Update modifies an existing course.
func (s *CourseService) Update(ctx context.Context, id string, req CourseRequest) (*models.Course, error) {
	if err := s.validate(ctx, req); err != nil {
		return nil, err
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	course := s.build(req)
	course.ID = id
	if err := s.repo.Update(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update course")
	}
	return course, nil
}

// Delete removes the course with every enrollment depending on it.
func (s *CourseService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete course")
	}
	s.logger.Info("course deleted", zap.String("course_id", id))
	return nil
}

func (s *CourseService) validate(ctx context.Context, req CourseRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	if fee, err := strconv.ParseFloat(req.Fee, 64); err != nil || fee < 0 {
		return appErrors.Clone(appErrors.ErrValidation, "fee must be a non-negative decimal")
	}
	if req.EndDate.Before(req.StartDate) {
		return appErrors.Clone(appErrors.ErrValidation, "end date precedes start date")
	}
	if req.InstructorID != nil && *req.InstructorID != "" {
		if _, err := s.instructors.FindByID(ctx, *req.InstructorID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return appErrors.Clone(appErrors.ErrNotFound, "instructor not found")
			}
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load instructor")
		}
	}
	return nil
}

func (s *CourseService) build(req CourseRequest) *models.Course {
	return &models.Course{
		Name:         req.Name,
		Description:  req.Description,
		Kind:         req.Kind,
		Fee:          req.Fee,
		Status:       req.Status,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		Capacity:     req.Capacity,
		InstructorID: req.InstructorID,
		ModuleCount:  req.ModuleCount,
		HourCount:    req.HourCount,
		Code:         req.Code,
		TeacherName:  req.TeacherName,
		Faculty:      req.Faculty,
		Phone:        req.Phone,
		ImageURL:     req.ImageURL,
	}
}
