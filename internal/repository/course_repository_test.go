package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/edu-admin-api/internal/models"
)

func courseRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "description", "kind", "fee", "status", "start_date", "end_date",
		"capacity", "instructor_id", "module_count", "hour_count", "code", "teacher_name", "faculty", "phone", "image_url"}).
		AddRow("c1", "Databases", nil, "course", "2500.00", "inactive", time.Now(), time.Now().Add(30*24*time.Hour),
			40, "i1", 6, 48, "DB-101", "Dr. Smith", "Engineering", "555-0100", nil)
}

func TestCourseRepositoryListByInstructor(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectQuery("FROM courses WHERE instructor_id = \\$1 ORDER BY name").
		WithArgs("i1").
		WillReturnRows(courseRows())

	courses, err := repo.ListByInstructor(context.Background(), "i1")
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, models.CourseStatusInactive, courses[0].Status)
	assert.Equal(t, 40, courses[0].Capacity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryUpdateStatus(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectExec("UPDATE courses SET status = \\$2 WHERE id = \\$1").
		WithArgs("c1", models.CourseStatusActive).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateStatus(context.Background(), "c1", models.CourseStatusActive))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryDeleteCascadesEnrollments(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM payment_histories WHERE payment_id IN").
		WithArgs("c1").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM refunds WHERE payment_id IN").
		WithArgs("c1").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM payments WHERE enrollment_id IN").
		WithArgs("c1").WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("DELETE FROM enrollments WHERE course_id = \\$1").
		WithArgs("c1").WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("DELETE FROM courses WHERE id = \\$1").
		WithArgs("c1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete(context.Background(), "c1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
