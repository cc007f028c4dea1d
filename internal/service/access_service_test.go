package service

import (
	"context"
	"database/sql"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/edu-admin-api/internal/dto"
	"github.com/noah-isme/edu-admin-api/internal/models"
	appErrors "github.com/noah-isme/edu-admin-api/pkg/errors"
)

type mockAccessStaffRepo struct {
	byCode map[string]*models.AdminStaff
}

func (m *mockAccessStaffRepo) FindByStaffCode(ctx context.Context, code string) (*models.AdminStaff, error) {
	if s, ok := m.byCode[code]; ok {
		return s, nil
	}
	return nil, sql.ErrNoRows
}

type mockAccessStudentRepo struct {
	byCode map[string]*models.Student
}

func (m *mockAccessStudentRepo) FindByEnrollmentCode(ctx context.Context, code string) (*models.Student, error) {
	if s, ok := m.byCode[code]; ok {
		return s, nil
	}
	return nil, sql.ErrNoRows
}

type mockAccessInstructorRepo struct {
	byCode map[string]*models.Instructor
}

func (m *mockAccessInstructorRepo) FindByInstructorCode(ctx context.Context, code string) (*models.Instructor, error) {
	if i, ok := m.byCode[code]; ok {
		return i, nil
	}
	return nil, sql.ErrNoRows
}

func hashFor(t *testing.T, secret string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func newAccessService(staff *mockAccessStaffRepo, students *mockAccessStudentRepo, instructors *mockAccessInstructorRepo) *AccessService {
	if staff == nil {
		staff = &mockAccessStaffRepo{}
	}
	if students == nil {
		students = &mockAccessStudentRepo{}
	}
	if instructors == nil {
		instructors = &mockAccessInstructorRepo{}
	}
	return NewAccessService(staff, students, instructors, validator.New(), zap.NewNop(), AccessTokenConfig{Secret: "test-secret"})
}

func TestAccessCheckGrantsStaff(t *testing.T) {
	staff := &mockAccessStaffRepo{byCode: map[string]*models.AdminStaff{
		"ADM-1": {
			User:        models.User{ID: "u1", FullName: "Ada", Email: "ada@example.com", SecretHash: hashFor(t, "hunter2")},
			Department:  "Registry",
			Role:        "clerk",
			StaffCode:   "ADM-1",
			AccessLevel: models.AccessLevelViewAndAdd,
		},
	}}
	svc := newAccessService(staff, nil, nil)

	result, err := svc.Check(context.Background(), dto.AccessCheckRequest{Secret: "hunter2", StaffCode: "ADM-1"})
	require.NoError(t, err)
	require.NotNil(t, result.AccessLevel)
	assert.Equal(t, models.AccessLevelViewAndAdd, *result.AccessLevel)
	assert.Equal(t, "u1", result.ID)
	assert.NotEmpty(t, result.AccessToken)

	profile, ok := result.Data.(dto.StaffAccessProfile)
	require.True(t, ok)
	assert.Equal(t, "Registry", profile.Department)
}

func TestAccessCheckWrongSecretLooksLikeUnknownCode(t *testing.T) {
	staff := &mockAccessStaffRepo{byCode: map[string]*models.AdminStaff{
		"ADM-1": {User: models.User{ID: "u1", SecretHash: hashFor(t, "right")}, StaffCode: "ADM-1", AccessLevel: models.AccessLevelViewOnly},
	}}
	svc := newAccessService(staff, nil, nil)

	_, wrongSecret := svc.Check(context.Background(), dto.AccessCheckRequest{Secret: "wrong", StaffCode: "ADM-1"})
	_, unknownCode := svc.Check(context.Background(), dto.AccessCheckRequest{Secret: "right", StaffCode: "ADM-9"})

	require.Error(t, wrongSecret)
	require.Error(t, unknownCode)
	assert.Equal(t, appErrors.FromError(wrongSecret).Status, appErrors.FromError(unknownCode).Status)
	assert.Equal(t, http.StatusNotFound, appErrors.FromError(wrongSecret).Status)
}

func TestAccessCheckUnknownAccessLevelForbidden(t *testing.T) {
	staff := &mockAccessStaffRepo{byCode: map[string]*models.AdminStaff{
		"ADM-1": {User: models.User{ID: "u1", SecretHash: hashFor(t, "hunter2")}, StaffCode: "ADM-1", AccessLevel: "owner"},
	}}
	svc := newAccessService(staff, nil, nil)

	_, err := svc.Check(context.Background(), dto.AccessCheckRequest{Secret: "hunter2", StaffCode: "ADM-1"})
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, appErrors.FromError(err).Status)
}

func TestAccessCheckMissingSecretIsBadRequest(t *testing.T) {
	svc := newAccessService(nil, nil, nil)

	_, err := svc.Check(context.Background(), dto.AccessCheckRequest{StaffCode: "ADM-1"})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, appErrors.FromError(err).Status)
}

func TestAccessCheckProbesStaffBeforeStudent(t *testing.T) {
	staff := &mockAccessStaffRepo{byCode: map[string]*models.AdminStaff{
		"ADM-1": {User: models.User{ID: "staff-user", SecretHash: hashFor(t, "s3cret")}, StaffCode: "ADM-1", AccessLevel: models.AccessLevelSuperuser},
	}}
	students := &mockAccessStudentRepo{byCode: map[string]*models.Student{
		"MAT-1": {User: models.User{ID: "student-user", SecretHash: hashFor(t, "s3cret")}, EnrollmentCode: "MAT-1"},
	}}
	svc := newAccessService(staff, students, nil)

	result, err := svc.Check(context.Background(), dto.AccessCheckRequest{
		Secret:         "s3cret",
		StaffCode:      "ADM-1",
		EnrollmentCode: "MAT-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "staff-user", result.ID)
}

func TestAccessCheckFallsThroughToStudent(t *testing.T) {
	students := &mockAccessStudentRepo{byCode: map[string]*models.Student{
		"MAT-1": {User: models.User{ID: "student-user", SecretHash: hashFor(t, "s3cret")}, EnrollmentCode: "MAT-1"},
	}}
	svc := newAccessService(nil, students, nil)

	result, err := svc.Check(context.Background(), dto.AccessCheckRequest{
		Secret:         "s3cret",
		StaffCode:      "ADM-9",
		EnrollmentCode: "MAT-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "student-user", result.ID)
	assert.Nil(t, result.AccessLevel)
}

func TestAccessCheckNoCodesSupplied(t *testing.T) {
	svc := newAccessService(nil, nil, nil)

	_, err := svc.Check(context.Background(), dto.AccessCheckRequest{Secret: "whatever"})
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, appErrors.FromError(err).Status)
}
