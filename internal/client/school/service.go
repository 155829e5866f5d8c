package school

//go:generate moq -out token_source_mock.go . TokenSource

import (
	"context"
	"fmt"
	"io"

	clientapi "github.com/edudesk/edudesk/internal/client/api"
	"github.com/edudesk/edudesk/internal/client/session"
	"github.com/edudesk/edudesk/internal/models"
	"github.com/edudesk/edudesk/pkg/api"
)

// TokenSource выдает рабочий bearer токен, пустая строка значит
// "токена нет"
type TokenSource interface {
	AccessToken(ctx context.Context) string
}

// Service предоставляет операции над списками учеников и преподавателей.
// Каждая операция берет токен у координатора сессии перед вызовом API.
type Service struct {
	apiClient *clientapi.Client
	tokens    TokenSource
}

// NewService создает новый сервис школы
func NewService(apiClient *clientapi.Client, tokens TokenSource) *Service {
	return &Service{
		apiClient: apiClient,
		tokens:    tokens,
	}
}

// Students возвращает список учеников
func (s *Service) Students(ctx context.Context) ([]models.Student, error) {
	tok := s.tokens.AccessToken(ctx)
	if tok == "" {
		return nil, session.ErrNotAuthenticated
	}

	resp, err := s.apiClient.ListStudents(ctx, tok)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}

	students := make([]models.Student, 0, len(resp.Data))
	for _, p := range resp.Data {
		students = append(students, studentFromPayload(p))
	}
	return students, nil
}

// AddStudent создает заявку на зачисление ученика
func (s *Service) AddStudent(ctx context.Context, req api.CreateStudentRequest) (*models.Student, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("student name is required")
	}

	tok := s.tokens.AccessToken(ctx)
	if tok == "" {
		return nil, session.ErrNotAuthenticated
	}

	resp, err := s.apiClient.CreateStudent(ctx, tok, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create student: %w", err)
	}
	if resp.Data == nil {
		return nil, fmt.Errorf("server returned no student data")
	}

	student := studentFromPayload(*resp.Data)
	return &student, nil
}

// RemoveStudent удаляет ученика
func (s *Service) RemoveStudent(ctx context.Context, id int64) error {
	tok := s.tokens.AccessToken(ctx)
	if tok == "" {
		return session.ErrNotAuthenticated
	}

	if err := s.apiClient.DeleteStudent(ctx, tok, id); err != nil {
		return fmt.Errorf("failed to delete student: %w", err)
	}
	return nil
}

// UploadPhoto загружает фотографию ученика
func (s *Service) UploadPhoto(ctx context.Context, id int64, filename string, photo io.Reader) (*models.Student, error) {
	tok := s.tokens.AccessToken(ctx)
	if tok == "" {
		return nil, session.ErrNotAuthenticated
	}

	resp, err := s.apiClient.UploadStudentPhoto(ctx, tok, id, filename, photo)
	if err != nil {
		return nil, fmt.Errorf("failed to upload photo: %w", err)
	}
	if resp.Data == nil {
		return nil, fmt.Errorf("server returned no student data")
	}

	student := studentFromPayload(*resp.Data)
	return &student, nil
}

// Teachers возвращает список преподавателей
func (s *Service) Teachers(ctx context.Context) ([]models.Teacher, error) {
	tok := s.tokens.AccessToken(ctx)
	if tok == "" {
		return nil, session.ErrNotAuthenticated
	}

	resp, err := s.apiClient.ListTeachers(ctx, tok)
	if err != nil {
		return nil, fmt.Errorf("failed to list teachers: %w", err)
	}

	teachers := make([]models.Teacher, 0, len(resp.Data))
	for _, p := range resp.Data {
		teachers = append(teachers, models.Teacher{
			ID:      p.ID,
			Name:    p.Name,
			Email:   p.Email,
			Subject: p.Subject,
		})
	}
	return teachers, nil
}

func studentFromPayload(p api.StudentPayload) models.Student {
	status := p.Status
	if status == "" {
		status = models.StudentStatusPending
	}
	return models.Student{
		ID:          p.ID,
		Name:        p.Name,
		Email:       p.Email,
		ClassName:   p.ClassName,
		AdmissionNo: p.AdmissionNo,
		Status:      status,
		PhotoPath:   p.PhotoPath,
	}
}
