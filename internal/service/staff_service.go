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

type staffRepository interface {
	List(ctx context.Context, filter models.ListFilter) ([]models.AdminStaff, int, error)
	FindByID(ctx context.Context, id string) (*models.AdminStaff, error)
	ExistsByStaffCode(ctx context.Context, code string, excludeID string) (bool, error)
	Create(ctx context.Context, staff *models.AdminStaff) error
	Update(ctx context.Context, staff *models.AdminStaff) error
	Delete(ctx context.Context, id string) error
}

// CreateStaffRequest holds payload for registering administrative staff.
type CreateStaffRequest struct {
	FullName    string             `json:"full_name" validate:"required"`
	NationalID  string             `json:"national_id" validate:"required"`
	Email       string             `json:"email" validate:"required,email"`
	Phone       *string            `json:"phone"`
	Mobile      *string            `json:"mobile"`
	Address     *string            `json:"address"`
	Secret      string             `json:"secret" validate:"required,min=6"`
	Department  string             `json:"department" validate:"required"`
	Role        string             `json:"role" validate:"required"`
	HiredAt     time.Time          `json:"hired_at" validate:"required"`
	StaffCode   string             `json:"staff_code" validate:"required"`
	AccessLevel models.AccessLevel `json:"access_level" validate:"required,oneof=view_only view_and_add superuser"`
}

// UpdateStaffRequest holds payload for updating administrative staff.
type UpdateStaffRequest struct {
	FullName    string             `json:"full_name" validate:"required"`
	NationalID  string             `json:"national_id" validate:"required"`
	Email       string             `json:"email" validate:"required,email"`
	Phone       *string            `json:"phone"`
	Mobile      *string            `json:"mobile"`
	Address     *string            `json:"address"`
	Secret      string             `json:"secret" validate:"omitempty,min=6"`
	Department  string             `json:"department" validate:"required"`
	Role        string             `json:"role" validate:"required"`
	HiredAt     time.Time          `json:"hired_at" validate:"required"`
	StaffCode   string             `json:"staff_code" validate:"required"`
	AccessLevel models.AccessLevel `json:"access_level" validate:"required,oneof=view_only view_and_add superuser"`
	Status      models.UserStatus  `json:"status" validate:"omitempty,oneof=active inactive"`
}

// StaffService handles administrative staff use-cases.
type StaffService struct {
	repo      staffRepository
	users     identityChecker
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStaffService constructs the staff service.
func NewStaffService(repo staffRepository, users identityChecker, validate *validator.Validate, logger *zap.Logger) *StaffService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StaffService{repo: repo, users: users, validator: validate, logger: logger}
}

// List returns staff members and pagination metadata.
func (s *StaffService) List(ctx context.Context, filter models.ListFilter) ([]models.AdminStaff, *models.Pagination, error) {
	staff, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list staff")
	}
	return staff, paginationFor(filter.Page, filter.PageSize, total), nil
}

// Get returns one staff member.
func (s *StaffService) Get(ctx context.Context, id string) (*models.AdminStaff, error) {
	staff, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "staff member not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load staff member")
	}
	return staff, nil
}

// Create registers a new staff member.
func (s *StaffService) Create(ctx context.Context, req CreateStaffRequest) (*models.AdminStaff, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid staff payload")
	}
	if err := s.checkUniqueness(ctx, req.NationalID, req.Email, req.StaffCode, ""); err != nil {
		return nil, err
	}
	hash, err := hashSecret(req.Secret)
	if err != nil {
		return nil, err
	}
	staff := &models.AdminStaff{
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
		Department:  req.Department,
		Role:        req.Role,
		HiredAt:     req.HiredAt,
		StaffCode:   req.StaffCode,
		AccessLevel: req.AccessLevel,
	}
	if err := s.repo.Create(ctx, staff); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create staff member")
	}
	return staff, nil
}

// Update modifies an existing staff member.
func (s *StaffService) Update(ctx context.Context, id string, req UpdateStaffRequest) (*models.AdminStaff, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid staff payload")
	}
	staff, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkUniqueness(ctx, req.NationalID, req.Email, req.StaffCode, id); err != nil {
		return nil, err
	}
	staff.FullName = req.FullName
	staff.NationalID = req.NationalID
	staff.Email = req.Email
	staff.Phone = req.Phone
	staff.Mobile = req.Mobile
	staff.Address = req.Address
	staff.Department = req.Department
	staff.Role = req.Role
	staff.HiredAt = req.HiredAt
	staff.StaffCode = req.StaffCode
	staff.AccessLevel = req.AccessLevel
	if req.Status != "" {
		staff.Status = req.Status
	}
	if req.Secret != "" {
		hash, err := hashSecret(req.Secret)
		if err != nil {
			return nil, err
		}
		staff.SecretHash = hash
	}
	if err := s.repo.Update(ctx, staff); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update staff member")
	}
	return staff, nil
}

// Delete removes the staff member.
func (s *StaffService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete staff member")
	}
	s.logger.Info("staff member deleted", zap.String("staff_id", id))
	return nil
}

func (s *StaffService) checkUniqueness(ctx context.Context, nationalID, email, code, excludeID string) error {
	taken, err := s.users.IdentityTaken(ctx, nationalID, email, excludeID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate identity")
	}
	if taken {
		return appErrors.Clone(appErrors.ErrConflict, "national id or email already used")
	}
	exists, err := s.repo.ExistsByStaffCode(ctx, code, excludeID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate staff code")
	}
	if exists {
		return appErrors.Clone(appErrors.ErrConflict, "staff code already used")
	}
	return nil
}
