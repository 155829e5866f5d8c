package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edudesk/edudesk/internal/models"
	"github.com/edudesk/edudesk/internal/server/storage/sqlite"
	"github.com/edudesk/edudesk/pkg/api"
)

func newSchoolTestEnv(t *testing.T) (*sqlite.Storage, *SchoolHandler) {
	t.Helper()

	s, err := sqlite.New(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = s.Close()
	})

	return s, NewSchoolHandler(testLogger(), s, t.TempDir())
}

func TestCreateStudent(t *testing.T) {
	_, handler := newSchoolTestEnv(t)

	body, err := json.Marshal(api.CreateStudentRequest{
		Name:        "Ivan Petrov",
		Email:       "ivan@school.local",
		ClassName:   "7A",
		AdmissionNo: "A-100",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/students", bytes.NewReader(body))
	w := httptest.NewRecorder()
	handler.CreateStudent(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp api.StudentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Data)
	assert.NotZero(t, resp.Data.ID)
	assert.Equal(t, "Ivan Petrov", resp.Data.Name)
	assert.Equal(t, models.StudentStatusPending, resp.Data.Status, "new students start as pending")
}

func TestCreateStudent_NameRequired(t *testing.T) {
	_, handler := newSchoolTestEnv(t)

	body, err := json.Marshal(api.CreateStudentRequest{Email: "x@school.local"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/students", bytes.NewReader(body))
	w := httptest.NewRecorder()
	handler.CreateStudent(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "name is required")
}

func TestListStudents(t *testing.T) {
	s, handler := newSchoolTestEnv(t)
	ctx := context.Background()

	for _, name := range []string{"Ivan", "Maria"} {
		require.NoError(t, s.CreateStudent(ctx, &models.Student{
			Name:      name,
			Status:    models.StudentStatusPending,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}))
	}

	req := httptest.NewRequest(http.MethodGet, "/api/students", nil)
	w := httptest.NewRecorder()
	handler.ListStudents(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp api.StudentListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Len(t, resp.Data, 2)
}

func TestDeleteStudent(t *testing.T) {
	s, handler := newSchoolTestEnv(t)
	ctx := context.Background()

	student := &models.Student{
		Name:      "Ivan",
		Status:    models.StudentStatusPending,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	require.NoError(t, s.CreateStudent(ctx, student))

	req := httptest.NewRequest(http.MethodDelete, "/api/students/1", nil)
	req.SetPathValue("id", "1")
	w := httptest.NewRecorder()
	handler.DeleteStudent(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	students, err := s.ListStudents(ctx)
	require.NoError(t, err)
	assert.Empty(t, students)

	// Повторное удаление: 404
	req = httptest.NewRequest(http.MethodDelete, "/api/students/1", nil)
	req.SetPathValue("id", "1")
	w = httptest.NewRecorder()
	handler.DeleteStudent(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "student not found")
}

func TestUploadPhoto(t *testing.T) {
	s, handler := newSchoolTestEnv(t)
	ctx := context.Background()

	student := &models.Student{
		Name:      "Ivan",
		Status:    models.StudentStatusAdmitted,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	require.NoError(t, s.CreateStudent(ctx, student))

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("photo", "face.jpg")
	require.NoError(t, err)
	_, err = part.Write([]byte("fake jpeg bytes"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/students/1/photo", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.SetPathValue("id", "1")
	w := httptest.NewRecorder()
	handler.UploadPhoto(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp api.StudentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Data)
	require.NotEmpty(t, resp.Data.PhotoPath)
	assert.Equal(t, ".jpg", filepath.Ext(resp.Data.PhotoPath))

	// Файл реально записан на диск
	content, err := os.ReadFile(resp.Data.PhotoPath)
	require.NoError(t, err)
	assert.Equal(t, "fake jpeg bytes", string(content))
}

func TestUploadPhoto_StudentNotFound(t *testing.T) {
	_, handler := newSchoolTestEnv(t)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	_, err := writer.CreateFormFile("photo", "face.jpg")
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/students/99/photo", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.SetPathValue("id", "99")
	w := httptest.NewRecorder()
	handler.UploadPhoto(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListTeachers(t *testing.T) {
	s, handler := newSchoolTestEnv(t)
	ctx := context.Background()

	require.NoError(t, s.CreateTeacher(ctx, &models.Teacher{
		Name:      "Anna Sergeevna",
		Subject:   "math",
		CreatedAt: time.Now(),
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/teachers", nil)
	w := httptest.NewRecorder()
	handler.ListTeachers(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp api.TeacherListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "math", resp.Data[0].Subject)
}
