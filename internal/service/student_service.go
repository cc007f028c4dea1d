package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/edu-admin-api/internal/models"
	appErrors "github.com/noah-isme/edu-admin-api/pkg/errors"
)

type studentRepository interface {
	List(ctx context.Context, filter models.ListFilter) ([]models.Student, int, error)
	FindByID(ctx context.Context, id string) (*models.Student, error)
	ExistsByEnrollmentCode(ctx context.Context, code string, excludeID string) (bool, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id string) error
}

type identityChecker interface {
	IdentityTaken(ctx context.Context, nationalID, email, excludeID string) (bool, error)
}

// CreateStudentRequest holds payload for registering students.
type CreateStudentRequest struct {
	FullName       string  `json:"full_name" validate:"required"`
	NationalID     string  `json:"national_id" validate:"required"`
	Email          string  `json:"email" validate:"required,email"`
	Phone          *string `json:"phone"`
	Mobile         *string `json:"mobile"`
	Address        *string `json:"address"`
	Secret         string  `json:"secret" validate:"required,min=6"`
	EnrollmentCode string  `json:"enrollment_code" validate:"required"`
}

// UpdateStudentRequest holds payload for updating students. An empty
// secret keeps the stored one.
type UpdateStudentRequest struct {
	FullName       string            `json:"full_name" validate:"required"`
	NationalID     string            `json:"national_id" validate:"required"`
	Email          string            `json:"email" validate:"required,email"`
	Phone          *string           `json:"phone"`
	Mobile         *string           `json:"mobile"`
	Address        *string           `json:"address"`
	Secret         string            `json:"secret" validate:"omitempty,min=6"`
	EnrollmentCode string            `json:"enrollment_code" validate:"required"`
	Status         models.UserStatus `json:"status" validate:"omitempty,oneof=active inactive"`
}

// StudentService handles student use-cases.
type StudentService struct {
	repo      studentRepository
	users     identityChecker
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs the student service.
func NewStudentService(repo studentRepository, users identityChecker, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, users: users, validator: validate, logger: logger}
}

// List returns students and pagination metadata.
func (s *StudentService) List(ctx context.Context, filter models.ListFilter) ([]models.Student, *models.Pagination, error) {
	students, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	return students, paginationFor(filter.Page, filter.PageSize, total), nil
}

// Get returns one student.
func (s *StudentService) Get(ctx context.Context, id string) (*models.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	return student, nil
}

// Create registers a new student.
func (s *StudentService) Create(ctx context.Context, req CreateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	if err := s.checkUniqueness(ctx, req.NationalID, req.Email, req.EnrollmentCode, ""); err != nil {
		return nil, err
	}
	hash, err := hashSecret(req.Secret)
	if err != nil {
		return nil, err
	}
	student := &models.Student{
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
		EnrollmentCode: req.EnrollmentCode,
		RegisteredAt:   time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student")
	}
	return student, nil
}

// Update modifies an existing student record.
func (s *StudentService) Update(ctx context.Context, id string, req UpdateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	student, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkUniqueness(ctx, req.NationalID, req.Email, req.EnrollmentCode, id); err != nil {
		return nil, err
	}
	student.FullName = req.FullName
	student.NationalID = req.NationalID
	student.Email = req.Email
	student.Phone = req.Phone
	student.Mobile = req.Mobile
	student.Address = req.Address
	student.EnrollmentCode = req.EnrollmentCode
	if req.Status != "" {
		student.Status = req.Status
	}
	if req.Secret != "" {
		hash, err := hashSecret(req.Secret)
		if err != nil {
			return nil, err
		}
		student.SecretHash = hash
	}
	if err := s.repo.Update(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update student")
	}
	return student, nil
}

// Delete removes the student together with its enrollment tree.
func (s *StudentService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete student")
	}
	s.logger.Info("student deleted", zap.String("student_id", id))
	return nil
}

func (s *StudentService) checkUniqueness(ctx context.Context, nationalID, email, code, excludeID string) error {
	taken, err := s.users.IdentityTaken(ctx, nationalID, email, excludeID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate identity")
	}
	if taken {
		return appErrors.Clone(appErrors.ErrConflict, "national id or email already used")
	}
	exists, err := s.repo.ExistsByEnrollmentCode(ctx, code, excludeID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate enrollment code")
	}
	if exists {
		return appErrors.Clone(appErrors.ErrConflict, "enrollment code already used")
	}
	return nil
}

func hashSecret(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash secret")
	}
	return string(hash), nil
}

func paginationFor(page, size, total int) *models.Pagination {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}
	return &models.Pagination{Page: page, PageSize: size, TotalCount: total}
}
