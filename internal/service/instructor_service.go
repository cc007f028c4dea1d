package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/edu-admin-api/internal/models"
	appErrors "github.com/noah-isme/edu-admin-api/pkg/errors"
)

type instructorRepository interface {
	List(ctx context.Context, filter models.ListFilter) ([]models.Instructor, int, error)
	FindByID(ctx context.Context, id string) (*models.Instructor, error)
	ExistsByInstructorCode(ctx context.Context, code string, excludeID string) (bool, error)
	Create(ctx context.Context, instructor *models.Instructor) error
	Update(ctx context.Context, instructor *models.Instructor) error
	Delete(ctx context.Context, id string) error
}

// CreateInstructorRequest holds payload for registering instructors.
type CreateInstructorRequest struct {
	FullName         string                    `json:"full_name" validate:"required"`
	NationalID       string                    `json:"national_id" validate:"required"`
	Email            string                    `json:"email" validate:"required,email"`
	Phone            *string                   `json:"phone"`
	Mobile           *string                   `json:"mobile"`
	Address          *string                   `json:"address"`
	Secret           string                    `json:"secret" validate:"required,min=6"`
	Specialty        string                    `json:"specialty" validate:"required"`
	HiredAt          time.Time                 `json:"hired_at" validate:"required"`
	Faculty          string                    `json:"faculty"`
	School           string                    `json:"school"`
	Campus           string                    `json:"campus"`
	InstructorCode   string                    `json:"instructor_code" validate:"required"`
	EmploymentStatus models.EmploymentStatus   `json:"employment_status" validate:"required,oneof=active retired"`
	Category         models.InstructorCategory `json:"category" validate:"required,oneof=guest official"`
}

// UpdateInstructorRequest holds payload for updating instructors.
type UpdateInstructorRequest struct {
	FullName         string                    `json:"full_name" validate:"required"`
	NationalID       string                    `json:"national_id" validate:"required"`
	Email            string                    `json:"email" validate:"required,email"`
	Phone            *string                   `json:"phone"`
	Mobile           *string                   `json:"mobile"`
	Address          *string                   `json:"address"`
	Secret           string                    `json:"secret" validate:"omitempty,min=6"`
	Specialty        string                    `json:"specialty" validate:"required"`
	HiredAt          time.Time                 `json:"hired_at" validate:"required"`
	Faculty          string                    `json:"faculty"`
	School           string                    `json:"school"`
	Campus           string                    `json:"campus"`
	InstructorCode   string                    `json:"instructor_code" validate:"required"`
	EmploymentStatus models.EmploymentStatus   `json:"employment_status" validate:"required,oneof=active retired"`
	Category         models.InstructorCategory `json:"category" validate:"required,oneof=guest official"`
	Status           models.UserStatus         `json:"status" validate:"omitempty,oneof=active inactive"`
}

// InstructorService handles instructor use-cases.
type InstructorService struct {
	repo      instructorRepository
	users     identityChecker
	validator *validator.Validate
	logger    *zap.Logger
}

// NewInstructorService constructs the instructor service.
func NewInstructorService(repo instructorRepository, users identityChecker, validate *validator.Validate, logger *zap.Logger) *InstructorService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InstructorService{repo: repo, users: users, validator: validate, logger: logger}
}

// List returns instructors and pagination metadata.
func (s *InstructorService) List(ctx context.Context, filter models.ListFilter) ([]models.Instructor, *models.Pagination, error) {
	instructors, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list instructors")
	}
	return instructors, paginationFor(filter.Page, filter.PageSize, total), nil
}

// Get returns one instructor.
func (s *InstructorService) Get(ctx context.Context, id string) (*models.Instructor, error) {
	instructor, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "instructor not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load instructor")
	}
	return instructor, nil
}

// Create registers a new instructor.
func (s *InstructorService) Create(ctx context.Context, req CreateInstructorRequest) (*models.Instructor, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid instructor payload")
	}
	if err := s.checkUniqueness(ctx, req.NationalID, req.Email, req.InstructorCode, ""); err != nil {
		return nil, err
	}
	hash, err := hashSecret(req.Secret)
	if err != nil {
		return nil, err
	}
	instructor := &models.Instructor{
		User: models.User{
			FullName:   req.FullName,
			NationalID: req.NationalID,
			Email:      req.Email,
			Phone:      req.Phone,
			Mobile:     req.Mobile,
			Address:    req.Address,
			SecretHash: hash,
			Status:     models.UserStatusActive,
		},
		Specialty:        req.Specialty,
		HiredAt:          req.HiredAt,
		Faculty:          req.Faculty,
		School:           req.School,
		Campus:           req.Campus,
		InstructorCode:   req.InstructorCode,
		EmploymentStatus: req.EmploymentStatus,
		Category:         req.Category,
	}
	if err := s.repo.Create(ctx, instructor); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create instructor")
	}
	return instructor, nil
}

// Update modifies an existing instructor record.
func (s *InstructorService) Update(ctx context.Context, id string, req UpdateInstructorRequest) (*models.Instructor, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid instructor payload")
	}
	instructor, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkUniqueness(ctx, req.NationalID, req.Email, req.InstructorCode, id); err != nil {
		return nil, err
	}
	instructor.FullName = req.FullName
	instructor.NationalID = req.NationalID
	instructor.Email = req.Email
	instructor.Phone = req.Phone
	instructor.Mobile = req.Mobile
	instructor.Address = req.Address
	instructor.Specialty = req.Specialty
	instructor.HiredAt = req.HiredAt
	instructor.Faculty = req.Faculty
	instructor.School = req.School
	instructor.Campus = req.Campus
	instructor.InstructorCode = req.InstructorCode
	instructor.EmploymentStatus = req.EmploymentStatus
	instructor.Category = req.Category
	if req.Status != "" {
		instructor.Status = req.Status
	}
	if req.Secret != "" {
		hash, err := hashSecret(req.Secret)
		if err != nil {
			return nil, err
		}
		instructor.SecretHash = hash
	}
	if err := s.repo.Update(ctx, instructor); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update instructor")
	}
	return instructor, nil
}

// Delete removes the instructor. Courses it owned remain, detached.
func (s *InstructorService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete instructor")
	}
	s.logger.Info("instructor deleted", zap.String("instructor_id", id))
	return nil
}

func (s *InstructorService) checkUniqueness(ctx context.Context, nationalID, email, code, excludeID string) error {
	taken, err := s.users.IdentityTaken(ctx, nationalID, email, excludeID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate identity")
	}
	if taken {
		return appErrors.Clone(appErrors.ErrConflict, "national id or email already used")
	}
	exists, err := s.repo.ExistsByInstructorCode(ctx, code, excludeID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate instructor code")
	}
	if exists {
		return appErrors.Clone(appErrors.ErrConflict, "instructor code already used")
	}
	return nil
}
