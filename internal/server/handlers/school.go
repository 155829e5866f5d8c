package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/edudesk/edudesk/internal/models"
	"github.com/edudesk/edudesk/internal/server/storage"
	"github.com/edudesk/edudesk/pkg/api"
)

// maxPhotoSize ограничивает размер загружаемой фотографии
const maxPhotoSize = 10 << 20 // 10 MiB

// SchoolHandler обрабатывает запросы списков учеников и преподавателей
type SchoolHandler struct {
	logger    *slog.Logger
	school    storage.SchoolStorage
	uploadDir string
}

// NewSchoolHandler создает новый handler для школьных данных.
// uploadDir это каталог для загруженных фотографий.
func NewSchoolHandler(logger *slog.Logger, school storage.SchoolStorage, uploadDir string) *SchoolHandler {
	return &SchoolHandler{
		logger:    logger,
		school:    school,
		uploadDir: uploadDir,
	}
}

// ListStudents обрабатывает GET /api/students
func (h *SchoolHandler) ListStudents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	students, err := h.school.ListStudents(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list students", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	payloads := make([]api.StudentPayload, 0, len(students))
	for _, s := range students {
		payloads = append(payloads, studentPayload(&s))
	}

	h.sendJSON(w, api.StudentListResponse{Success: true, Data: payloads}, http.StatusOK)
}

// CreateStudent обрабатывает POST /api/students
// Создает заявку на зачисление со статусом pending
func (h *SchoolHandler) CreateStudent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.CreateStudentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(ctx, "failed to decode create student request", slog.Any("error", err))
		h.sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		h.sendError(w, "name is required", http.StatusBadRequest)
		return
	}

	now := time.Now()
	student := &models.Student{
		Name:        req.Name,
		Email:       req.Email,
		ClassName:   req.ClassName,
		AdmissionNo: req.AdmissionNo,
		Status:      models.StudentStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.school.CreateStudent(ctx, student); err != nil {
		h.logger.ErrorContext(ctx, "failed to create student", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "student created",
		slog.Int64("student_id", student.ID),
		slog.String("name", student.Name))

	payload := studentPayload(student)
	h.sendJSON(w, api.StudentResponse{Success: true, Data: &payload}, http.StatusCreated)
}

// DeleteStudent обрабатывает DELETE /api/students/{id}
func (h *SchoolHandler) DeleteStudent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		h.sendError(w, "invalid student id", http.StatusBadRequest)
		return
	}

	if err := h.school.DeleteStudent(ctx, id); err != nil {
		if errors.Is(err, storage.ErrStudentNotFound) {
			h.sendError(w, "student not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to delete student", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "student deleted", slog.Int64("student_id", id))
	h.sendJSON(w, api.ErrorResponse{Success: true, Message: "Student deleted"}, http.StatusOK)
}

// UploadPhoto обрабатывает POST /api/students/{id}/photo
// Принимает multipart form с файлом в поле "photo"
func (h *SchoolHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		h.sendError(w, "invalid student id", http.StatusBadRequest)
		return
	}

	if _, err := h.school.GetStudentByID(ctx, id); err != nil {
		if errors.Is(err, storage.ErrStudentNotFound) {
			h.sendError(w, "student not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get student", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if err := r.ParseMultipartForm(maxPhotoSize); err != nil {
		h.sendError(w, "invalid multipart body", http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("photo")
	if err != nil {
		h.sendError(w, "photo file is required", http.StatusBadRequest)
		return
	}
	defer func() {
		_ = file.Close()
	}()

	// Имя файла на диске не зависит от клиентского
	ext := filepath.Ext(header.Filename)
	photoPath := filepath.Join(h.uploadDir, fmt.Sprintf("student_%d%s", id, ext))

	dst, err := os.Create(photoPath)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to create photo file", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	defer func() {
		_ = dst.Close()
	}()

	if _, err := io.Copy(dst, file); err != nil {
		h.logger.ErrorContext(ctx, "failed to write photo file", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if err := h.school.UpdateStudentPhoto(ctx, id, photoPath); err != nil {
		h.logger.ErrorContext(ctx, "failed to update photo path", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	student, err := h.school.GetStudentByID(ctx, id)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to reload student", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "student photo uploaded",
		slog.Int64("student_id", id),
		slog.String("path", photoPath))

	payload := studentPayload(student)
	h.sendJSON(w, api.StudentResponse{Success: true, Data: &payload}, http.StatusOK)
}

// ListTeachers обрабатывает GET /api/teachers
func (h *SchoolHandler) ListTeachers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	teachers, err := h.school.ListTeachers(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list teachers", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	payloads := make([]api.TeacherPayload, 0, len(teachers))
	for _, t := range teachers {
		payloads = append(payloads, api.TeacherPayload{
			ID:      t.ID,
			Name:    t.Name,
			Email:   t.Email,
			Subject: t.Subject,
		})
	}

	h.sendJSON(w, api.TeacherListResponse{Success: true, Data: payloads}, http.StatusOK)
}

func studentPayload(s *models.Student) api.StudentPayload {
	return api.StudentPayload{
		ID:          s.ID,
		Name:        s.Name,
		Email:       s.Email,
		ClassName:   s.ClassName,
		AdmissionNo: s.AdmissionNo,
		Status:      s.Status,
		PhotoPath:   s.PhotoPath,
	}
}

func (h *SchoolHandler) sendJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	sendJSON(h.logger, w, data, statusCode)
}

func (h *SchoolHandler) sendError(w http.ResponseWriter, message string, statusCode int) {
	sendJSON(h.logger, w, api.ErrorResponse{Success: false, Message: message}, statusCode)
}
