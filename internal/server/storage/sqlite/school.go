package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/edudesk/edudesk/internal/models"
	"github.com/edudesk/edudesk/internal/server/storage"
)

// CreateStudent stores a new student and fills in its ID
func (s *Storage) CreateStudent(ctx context.Context, student *models.Student) error {
	query := `
		INSERT INTO students (name, email, class_name, admission_no, status, photo_path, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := s.db.ExecContext(ctx, query,
		student.Name,
		student.Email,
		student.ClassName,
		student.AdmissionNo,
		student.Status,
		student.PhotoPath,
		student.CreatedAt,
		student.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert student: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get inserted student id: %w", err)
	}
	student.ID = id

	return nil
}

// GetStudentByID retrieves student by ID
func (s *Storage) GetStudentByID(ctx context.Context, id int64) (*models.Student, error) {
	query := `
		SELECT id, name, email, class_name, admission_no, status, photo_path, created_at, updated_at
		FROM students
		WHERE id = ?
	`

	student := &models.Student{}
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&student.ID,
		&student.Name,
		&student.Email,
		&student.ClassName,
		&student.AdmissionNo,
		&student.Status,
		&student.PhotoPath,
		&student.CreatedAt,
		&student.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to get student: %w", err)
	}

	return student, nil
}

// ListStudents retrieves all students ordered by ID
func (s *Storage) ListStudents(ctx context.Context) ([]models.Student, error) {
	query := `
		SELECT id, name, email, class_name, admission_no, status, photo_path, created_at, updated_at
		FROM students
		ORDER BY id
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	defer rows.Close()

	var students []models.Student
	for rows.Next() {
		var student models.Student
		err := rows.Scan(
			&student.ID,
			&student.Name,
			&student.Email,
			&student.ClassName,
			&student.AdmissionNo,
			&student.Status,
			&student.PhotoPath,
			&student.CreatedAt,
			&student.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan student: %w", err)
		}
		students = append(students, student)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate students: %w", err)
	}

	return students, nil
}

// UpdateStudentPhoto sets the student's photo path
func (s *Storage) UpdateStudentPhoto(ctx context.Context, id int64, photoPath string) error {
	query := `UPDATE students SET photo_path = ?, updated_at = ? WHERE id = ?`

	result, err := s.db.ExecContext(ctx, query, photoPath, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update student photo: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return storage.ErrStudentNotFound
	}

	return nil
}

// DeleteStudent removes a student by ID
func (s *Storage) DeleteStudent(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM students WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete student: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return storage.ErrStudentNotFound
	}

	return nil
}

// CreateTeacher stores a new teacher and fills in its ID
func (s *Storage) CreateTeacher(ctx context.Context, teacher *models.Teacher) error {
	query := `
		INSERT INTO teachers (name, email, subject, created_at)
		VALUES (?, ?, ?, ?)
	`

	result, err := s.db.ExecContext(ctx, query,
		teacher.Name,
		teacher.Email,
		teacher.Subject,
		teacher.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert teacher: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get inserted teacher id: %w", err)
	}
	teacher.ID = id

	return nil
}

// ListTeachers retrieves all teachers ordered by ID
func (s *Storage) ListTeachers(ctx context.Context) ([]models.Teacher, error) {
	query := `
		SELECT id, name, email, subject, created_at
		FROM teachers
		ORDER BY id
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list teachers: %w", err)
	}
	defer rows.Close()

	var teachers []models.Teacher
	for rows.Next() {
		var teacher models.Teacher
		err := rows.Scan(
			&teacher.ID,
			&teacher.Name,
			&teacher.Email,
			&teacher.Subject,
			&teacher.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan teacher: %w", err)
		}
		teachers = append(teachers, teacher)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate teachers: %w", err)
	}

	return teachers, nil
}
