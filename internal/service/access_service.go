package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/edu-admin-api/internal/dto"
	"github.com/noah-isme/edu-admin-api/internal/models"
	appErrors "github.com/noah-isme/edu-admin-api/pkg/errors"
)

type accessStaffRepository interface {
	FindByStaffCode(ctx context.Context, code string) (*models.AdminStaff, error)
}

type accessStudentRepository interface {
	FindByEnrollmentCode(ctx context.Context, code string) (*models.Student, error)
}

type accessInstructorRepository interface {
	FindByInstructorCode(ctx context.Context, code string) (*models.Instructor, error)
}

// AccessTokenConfig tunes the JWT issued on a successful check.
type AccessTokenConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

// AccessService verifies caller credentials against the three user
// kinds. Probes run in a fixed order over the supplied codes; a wrong
// secret is indistinguishable from an unknown code so the endpoint
// cannot be used to enumerate identifiers.
type AccessService struct {
	staff       accessStaffRepository
	students    accessStudentRepository
	instructors accessInstructorRepository
	validator   *validator.Validate
	logger      *zap.Logger
	tokens      AccessTokenConfig
}

// NewAccessService constructs the access service.
func NewAccessService(staff accessStaffRepository, students accessStudentRepository, instructors accessInstructorRepository,
	validate *validator.Validate, logger *zap.Logger, tokens AccessTokenConfig) *AccessService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccessService{staff: staff, students: students, instructors: instructors, validator: validate, logger: logger, tokens: tokens}
}

// Check resolves the supplied credentials to a user and access level.
func (s *AccessService) Check(ctx context.Context, req dto.AccessCheckRequest) (*dto.AccessCheckResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "secret is required")
	}

	for _, cred := range req.Credentials() {
		switch cred.Kind {
		case models.CredentialKindStaff:
			staff, err := s.staff.FindByStaffCode(ctx, cred.Code)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					continue
				}
				return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to probe staff credentials")
			}
			if !secretMatches(staff.SecretHash, req.Secret) {
				continue
			}
			return s.grantStaff(staff)
		case models.CredentialKindStudent:
			student, err := s.students.FindByEnrollmentCode(ctx, cred.Code)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					continue
				}
				return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to probe student credentials")
			}
			if !secretMatches(student.SecretHash, req.Secret) {
				continue
			}
			return s.grant(student.ID, "student", student)
		case models.CredentialKindInstructor:
			instructor, err := s.instructors.FindByInstructorCode(ctx, cred.Code)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					continue
				}
				return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to probe instructor credentials")
			}
			if !secretMatches(instructor.SecretHash, req.Secret) {
				continue
			}
			return s.grant(instructor.ID, "instructor", instructor)
		}
	}

	return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid credentials")
}

func (s *AccessService) grantStaff(staff *models.AdminStaff) (*dto.AccessCheckResponse, error) {
	if !staff.AccessLevel.Valid() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "access level not recognized")
	}

	token, err := s.issueToken(staff.ID, "staff")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to issue access token")
	}

	level := staff.AccessLevel
	return &dto.AccessCheckResponse{
		Message:     "access granted",
		AccessLevel: &level,
		ID:          staff.ID,
		Data: dto.StaffAccessProfile{
			ID:          staff.ID,
			FullName:    staff.FullName,
			Email:       staff.Email,
			Department:  staff.Department,
			Role:        staff.Role,
			StaffCode:   staff.StaffCode,
			AccessLevel: staff.AccessLevel,
		},
		AccessToken: token,
	}, nil
}

func (s *AccessService) grant(userID, kind string, data interface{}) (*dto.AccessCheckResponse, error) {
	token, err := s.issueToken(userID, kind)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to issue access token")
	}
	return &dto.AccessCheckResponse{
		Message:     "access granted",
		ID:          userID,
		Data:        data,
		AccessToken: token,
	}, nil
}

func (s *AccessService) issueToken(userID, kind string) (string, error) {
	if s.tokens.Secret == "" {
		return "", nil
	}
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":  userID,
		"kind": kind,
		"iss":  s.tokens.Issuer,
		"iat":  now.Unix(),
		"exp":  now.Add(s.tokens.Expiration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.tokens.Secret))
}

func secretMatches(hash, secret string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) == nil
}
