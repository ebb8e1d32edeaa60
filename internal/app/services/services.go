package services

import (
	"context"

	"github.com/emre/campusreg/internal/app/models"
)

// CourseStore is the persistence contract consumed by the catalog service.
// Implemented by repositories.CourseRepository.
type CourseStore interface {
	Create(ctx context.Context, course *models.Course) error
	GetByCode(ctx context.Context, code string) (*models.Course, error)
	List(ctx context.Context, deleted bool) ([]*models.Course, error)
	SetDeleted(ctx context.Context, code string, deleted bool) error
	Rename(ctx context.Context, code, name string) error
	Resize(ctx context.Context, code string, maxCapacity int) error
}

// StudentStore is the persistence contract consumed by the roster service.
// Implemented by repositories.StudentRepository.
type StudentStore interface {
	Create(ctx context.Context, student *models.Student) error
	GetByID(ctx context.Context, id string) (*models.Student, error)
	List(ctx context.Context, deleted bool) ([]*models.Student, error)
	SetDeleted(ctx context.Context, id string, deleted bool) error
	Rename(ctx context.Context, id, name string) error
}

// EnrollmentStore is the persistence contract consumed by the enrollment
// service. EnrollAtomic must apply the counter increment and the relationship
// insert as one unit. Implemented by repositories.EnrollmentRepository.
type EnrollmentStore interface {
	EnrollAtomic(ctx context.Context, studentID, courseCode string) error
	SetGrade(ctx context.Context, studentID, courseCode string, grade float64) error
	ListByStudent(ctx context.Context, studentID string) ([]*models.Enrollment, error)
}
