package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all repository instances
type Repositories struct {
	CourseRepository     *CourseRepository
	StudentRepository    *StudentRepository
	EnrollmentRepository *EnrollmentRepository
}

// NewRepositories creates all repositories backed by the given pool
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		CourseRepository:     NewCourseRepository(db),
		StudentRepository:    NewStudentRepository(db),
		EnrollmentRepository: NewEnrollmentRepository(db),
	}
}
