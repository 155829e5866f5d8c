package school

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	clientapi "github.com/edudesk/edudesk/internal/client/api"
	"github.com/edudesk/edudesk/internal/client/session"
	"github.com/edudesk/edudesk/internal/models"
	"github.com/edudesk/edudesk/pkg/api"
)

// staticTokens это TokenSource с фиксированным токеном
type staticTokens struct {
	token string
}

func (s *staticTokens) AccessToken(ctx context.Context) string {
	return s.token
}

func TestService_Students(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/students", r.URL.Path)
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(api.StudentListResponse{
			Success: true,
			Data: []api.StudentPayload{
				{ID: 1, Name: "Ivan", ClassName: "7A", Status: "admitted"},
				{ID: 2, Name: "Maria"},
			},
		})
	}))
	defer server.Close()

	svc := NewService(clientapi.NewClient(server.URL, nil), &staticTokens{token: "tok-1"})
	students, err := svc.Students(context.Background())
	require.NoError(t, err)

	require.Len(t, students, 2)
	assert.Equal(t, "Ivan", students[0].Name)
	assert.Equal(t, models.StudentStatusAdmitted, students[0].Status)
	// Пустой статус нормализуется в pending
	assert.Equal(t, models.StudentStatusPending, students[1].Status)
}

func TestService_NotAuthenticated(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected without a token")
	}))
	defer server.Close()

	svc := NewService(clientapi.NewClient(server.URL, nil), &staticTokens{token: ""})

	_, err := svc.Students(context.Background())
	assert.ErrorIs(t, err, session.ErrNotAuthenticated)

	_, err = svc.AddStudent(context.Background(), api.CreateStudentRequest{Name: "Ivan"})
	assert.ErrorIs(t, err, session.ErrNotAuthenticated)

	err = svc.RemoveStudent(context.Background(), 1)
	assert.ErrorIs(t, err, session.ErrNotAuthenticated)

	_, err = svc.Teachers(context.Background())
	assert.ErrorIs(t, err, session.ErrNotAuthenticated)
}

func TestService_AddStudent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)

		var req api.CreateStudentRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Ivan", req.Name)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(api.StudentResponse{
			Success: true,
			Data:    &api.StudentPayload{ID: 10, Name: req.Name, Status: "pending"},
		})
	}))
	defer server.Close()

	svc := NewService(clientapi.NewClient(server.URL, nil), &staticTokens{token: "tok-1"})
	student, err := svc.AddStudent(context.Background(), api.CreateStudentRequest{Name: "Ivan", ClassName: "7A"})
	require.NoError(t, err)

	assert.EqualValues(t, 10, student.ID)
	assert.Equal(t, models.StudentStatusPending, student.Status)
}

func TestService_AddStudentRequiresName(t *testing.T) {
	svc := NewService(nil, &staticTokens{token: "tok-1"})
	_, err := svc.AddStudent(context.Background(), api.CreateStudentRequest{})
	assert.Error(t, err)
}

func TestService_RemoveStudent(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		assert.Equal(t, http.MethodDelete, r.Method)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(api.ErrorResponse{Success: true})
	}))
	defer server.Close()

	svc := NewService(clientapi.NewClient(server.URL, nil), &staticTokens{token: "tok-1"})
	require.NoError(t, svc.RemoveStudent(context.Background(), 42))
	assert.Equal(t, "/api/students/42", gotPath)
}

func TestService_UploadPhoto(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		file, _, err := r.FormFile("photo")
		require.NoError(t, err)
		defer func() { _ = file.Close() }()

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(api.StudentResponse{
			Success: true,
			Data:    &api.StudentPayload{ID: 7, Name: "Ivan", PhotoPath: "/uploads/7.jpg"},
		})
	}))
	defer server.Close()

	svc := NewService(clientapi.NewClient(server.URL, nil), &staticTokens{token: "tok-1"})
	student, err := svc.UploadPhoto(context.Background(), 7, "photo.jpg", strings.NewReader("bytes"))
	require.NoError(t, err)
	assert.Equal(t, "/uploads/7.jpg", student.PhotoPath)
}

func TestService_Teachers(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/teachers", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(api.TeacherListResponse{
			Success: true,
			Data:    []api.TeacherPayload{{ID: 1, Name: "Petrov", Subject: "math"}},
		})
	}))
	defer server.Close()

	svc := NewService(clientapi.NewClient(server.URL, nil), &staticTokens{token: "tok-1"})
	teachers, err := svc.Teachers(context.Background())
	require.NoError(t, err)
	require.Len(t, teachers, 1)
	assert.Equal(t, "math", teachers[0].Subject)
}
