package service

import (
	"context"
	"database/sql"
	"net/http"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/edu-admin-api/internal/models"
	appErrors "github.com/noah-isme/edu-admin-api/pkg/errors"
)

type mockStudentRepo struct {
	students map[string]*models.Student
}

func newMockStudentRepo() *mockStudentRepo {
	return &mockStudentRepo{students: map[string]*models.Student{}}
}

func (m *mockStudentRepo) List(ctx context.Context, filter models.ListFilter) ([]models.Student, int, error) {
	out := make([]models.Student, 0, len(m.students))
	for _, s := range m.students {
		out = append(out, *s)
	}
	return out, len(out), nil
}

func (m *mockStudentRepo) FindByID(ctx context.Context, id string) (*models.Student, error) {
	if s, ok := m.students[id]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockStudentRepo) ExistsByEnrollmentCode(ctx context.Context, code string, excludeID string) (bool, error) {
	for _, s := range m.students {
		if s.EnrollmentCode == code && s.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockStudentRepo) Create(ctx context.Context, student *models.Student) error {
	student.ID = "s-generated"
	m.students[student.ID] = student
	return nil
}

func (m *mockStudentRepo) Update(ctx context.Context, student *models.Student) error {
	m.students[student.ID] = student
	return nil
}

func (m *mockStudentRepo) Delete(ctx context.Context, id string) error {
	delete(m.students, id)
	return nil
}

type mockIdentityChecker struct {
	taken map[string]string // nationalID or email -> owning user id
}

func (m *mockIdentityChecker) IdentityTaken(ctx context.Context, nationalID, email, excludeID string) (bool, error) {
	for _, key := range []string{nationalID, email} {
		if owner, ok := m.taken[key]; ok && owner != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func validCreateStudentRequest() CreateStudentRequest {
	return CreateStudentRequest{
		FullName:       "Nora Webster",
		NationalID:     "NID-100",
		Email:          "nora@example.com",
		Secret:         "topsecret",
		EnrollmentCode: "MAT-100",
	}
}

func TestStudentCreateHashesSecret(t *testing.T) {
	repo := newMockStudentRepo()
	svc := NewStudentService(repo, &mockIdentityChecker{}, validator.New(), zap.NewNop())

	student, err := svc.Create(context.Background(), validCreateStudentRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, student.ID)
	assert.Equal(t, models.UserStatusActive, student.Status)
	assert.WithinDuration(t, time.Now().UTC(), student.RegisteredAt, time.Minute)

	assert.NotEqual(t, "topsecret", student.SecretHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(student.SecretHash), []byte("topsecret")))
}

func TestStudentCreateDuplicateEnrollmentCode(t *testing.T) {
	repo := newMockStudentRepo()
	repo.students["s1"] = &models.Student{User: models.User{ID: "s1"}, EnrollmentCode: "MAT-100"}
	svc := NewStudentService(repo, &mockIdentityChecker{}, validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), validCreateStudentRequest())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusConflict, appErr.Status)
	assert.Equal(t, "enrollment code already used", appErr.Message)
}

func TestStudentCreateIdentityTaken(t *testing.T) {
	checker := &mockIdentityChecker{taken: map[string]string{"nora@example.com": "other-user"}}
	svc := NewStudentService(newMockStudentRepo(), checker, validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), validCreateStudentRequest())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusConflict, appErr.Status)
	assert.Equal(t, "national id or email already used", appErr.Message)
}

func TestStudentCreateShortSecretRejected(t *testing.T) {
	svc := NewStudentService(newMockStudentRepo(), &mockIdentityChecker{}, validator.New(), zap.NewNop())

	req := validCreateStudentRequest()
	req.Secret = "abc"
	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, appErrors.FromError(err).Status)
}

func TestStudentUpdateEmptySecretKeepsHash(t *testing.T) {
	repo := newMockStudentRepo()
	hash, err := bcrypt.GenerateFromPassword([]byte("original"), bcrypt.MinCost)
	require.NoError(t, err)
	repo.students["s1"] = &models.Student{
		User:           models.User{ID: "s1", FullName: "Nora", NationalID: "NID-100", Email: "nora@example.com", SecretHash: string(hash), Status: models.UserStatusActive},
		EnrollmentCode: "MAT-100",
	}
	svc := NewStudentService(repo, &mockIdentityChecker{}, validator.New(), zap.NewNop())

	updated, err := svc.Update(context.Background(), "s1", UpdateStudentRequest{
		FullName:       "Nora Webster",
		NationalID:     "NID-100",
		Email:          "nora@example.com",
		EnrollmentCode: "MAT-100",
	})
	require.NoError(t, err)
	assert.Equal(t, "Nora Webster", updated.FullName)
	assert.Equal(t, string(hash), updated.SecretHash)
	assert.Equal(t, models.UserStatusActive, updated.Status)
}

func TestStudentUpdateNewSecretRotatesHash(t *testing.T) {
	repo := newMockStudentRepo()
	hash, err := bcrypt.GenerateFromPassword([]byte("original"), bcrypt.MinCost)
	require.NoError(t, err)
	repo.students["s1"] = &models.Student{
		User:           models.User{ID: "s1", FullName: "Nora", NationalID: "NID-100", Email: "nora@example.com", SecretHash: string(hash)},
		EnrollmentCode: "MAT-100",
	}
	svc := NewStudentService(repo, &mockIdentityChecker{}, validator.New(), zap.NewNop())

	updated, err := svc.Update(context.Background(), "s1", UpdateStudentRequest{
		FullName:       "Nora",
		NationalID:     "NID-100",
		Email:          "nora@example.com",
		EnrollmentCode: "MAT-100",
		Secret:         "rotated-secret",
		Status:         models.UserStatusInactive,
	})
	require.NoError(t, err)
	assert.NotEqual(t, string(hash), updated.SecretHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.SecretHash), []byte("rotated-secret")))
	assert.Equal(t, models.UserStatusInactive, updated.Status)
}

func TestStudentGetUnknown(t *testing.T) {
	svc := NewStudentService(newMockStudentRepo(), &mockIdentityChecker{}, validator.New(), zap.NewNop())

	_, err := svc.Get(context.Background(), "missing")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusNotFound, appErr.Status)
	assert.Equal(t, "student not found", appErr.Message)
}
