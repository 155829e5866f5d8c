package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edudesk/edudesk/internal/models"
	"github.com/edudesk/edudesk/internal/server/storage"
)

func TestStudent_CreateListDelete(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	student := &models.Student{
		Name:        "Ivan Petrov",
		Email:       "ivan@school.local",
		ClassName:   "7A",
		AdmissionNo: "A-100",
		Status:      models.StudentStatusPending,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	require.NoError(t, s.CreateStudent(ctx, student))
	assert.NotZero(t, student.ID)

	students, err := s.ListStudents(ctx)
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "Ivan Petrov", students[0].Name)
	assert.Equal(t, models.StudentStatusPending, students[0].Status)

	require.NoError(t, s.DeleteStudent(ctx, student.ID))
	students, err = s.ListStudents(ctx)
	require.NoError(t, err)
	assert.Empty(t, students)
}

func TestStudent_NotFound(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	_, err := s.GetStudentByID(ctx, 9999)
	assert.ErrorIs(t, err, storage.ErrStudentNotFound)

	err = s.DeleteStudent(ctx, 9999)
	assert.ErrorIs(t, err, storage.ErrStudentNotFound)

	err = s.UpdateStudentPhoto(ctx, 9999, "/uploads/x.jpg")
	assert.ErrorIs(t, err, storage.ErrStudentNotFound)
}

func TestStudent_UpdatePhoto(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	student := &models.Student{
		Name:      "Ivan",
		Status:    models.StudentStatusAdmitted,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	require.NoError(t, s.CreateStudent(ctx, student))

	require.NoError(t, s.UpdateStudentPhoto(ctx, student.ID, "/uploads/1.jpg"))

	got, err := s.GetStudentByID(ctx, student.ID)
	require.NoError(t, err)
	assert.Equal(t, "/uploads/1.jpg", got.PhotoPath)
}

func TestTeacher_CreateAndList(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	teacher := &models.Teacher{
		Name:      "Anna Sergeevna",
		Email:     "anna@school.local",
		Subject:   "math",
		CreatedAt: time.Now(),
	}
	require.NoError(t, s.CreateTeacher(ctx, teacher))
	assert.NotZero(t, teacher.ID)

	teachers, err := s.ListTeachers(ctx)
	require.NoError(t, err)
	require.Len(t, teachers, 1)
	assert.Equal(t, "math", teachers[0].Subject)
}
