package storage

import (
	"context"

	"github.com/edudesk/edudesk/internal/models"
)

// SchoolStorage defines interface for student and teacher persistence
type SchoolStorage interface {
	// CreateStudent stores a new student and fills in its ID
	CreateStudent(ctx context.Context, student *models.Student) error

	// GetStudentByID retrieves student by ID
	// Returns ErrStudentNotFound if student doesn't exist
	GetStudentByID(ctx context.Context, id int64) (*models.Student, error)

	// ListStudents retrieves all students ordered by ID
	ListStudents(ctx context.Context) ([]models.Student, error)

	// UpdateStudentPhoto sets the student's photo path
	// Returns ErrStudentNotFound if student doesn't exist
	UpdateStudentPhoto(ctx context.Context, id int64, photoPath string) error

	// DeleteStudent removes a student by ID
	// Returns ErrStudentNotFound if student doesn't exist
	DeleteStudent(ctx context.Context, id int64) error

	// CreateTeacher stores a new teacher and fills in its ID
	CreateTeacher(ctx context.Context, teacher *models.Teacher) error

	// ListTeachers retrieves all teachers ordered by ID
	ListTeachers(ctx context.Context) ([]models.Teacher, error)
}
