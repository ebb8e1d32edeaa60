package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/emre/campusreg/internal/app/models"
	"github.com/emre/campusreg/internal/pkg/apperrors"
	"github.com/emre/campusreg/internal/pkg/dberrors"
)

// CourseRepository handles database operations for courses
type CourseRepository struct {
	db *pgxpool.Pool
}

// NewCourseRepository creates a new course repository
func NewCourseRepository(db *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{
		db: db,
	}
}

// Create inserts a new course row. The counter starts at zero and the course
// is created in the active state.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	query := `
		INSERT INTO courses (code, name, max_capacity, current_enrollment, is_deleted)
		VALUES ($1, $2, $3, 0, FALSE)
	`

	_, err := r.db.Exec(ctx, query, course.Code, course.Name, course.MaxCapacity)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrCourseAlreadyExists
		}
		return apperrors.NewStorageError(err, "error inserting course")
	}

	return nil
}

// GetByCode retrieves a course by its code, case-insensitively, regardless of
// deletion state.
func (r *CourseRepository) GetByCode(ctx context.Context, code string) (*models.Course, error) {
	query := `
		SELECT code, name, max_capacity, current_enrollment, is_deleted
		FROM courses
		WHERE UPPER(code) = $1
	`

	var course models.Course
	err := r.db.QueryRow(ctx, query, models.CanonicalCode(code)).Scan(
		&course.Code,
		&course.Name,
		&course.MaxCapacity,
		&course.CurrentEnrollment,
		&course.Deleted,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, apperrors.NewStorageError(err, "error retrieving course")
	}

	return &course, nil
}

// List retrieves courses filtered by deletion state, ordered by code.
func (r *CourseRepository) List(ctx context.Context, deleted bool) ([]*models.Course, error) {
	query := `
		SELECT code, name, max_capacity, current_enrollment, is_deleted
		FROM courses
		WHERE is_deleted = $1
		ORDER BY code
	`

	rows, err := r.db.Query(ctx, query, deleted)
	if err != nil {
		return nil, apperrors.NewStorageError(err, "error listing courses")
	}
	defer rows.Close()

	var courses []*models.Course
	for rows.Next() {
		var course models.Course
		if err := rows.Scan(
			&course.Code,
			&course.Name,
			&course.MaxCapacity,
			&course.CurrentEnrollment,
			&course.Deleted,
		); err != nil {
			return nil, apperrors.NewStorageError(err, "error scanning course row")
		}
		courses = append(courses, &course)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStorageError(err, "error listing courses")
	}

	return courses, nil
}

// SetDeleted flips the soft-delete flag. The row is retained either way.
func (r *CourseRepository) SetDeleted(ctx context.Context, code string, deleted bool) error {
	query := `UPDATE courses SET is_deleted = $2 WHERE UPPER(code) = $1`

	cmdTag, err := r.db.Exec(ctx, query, models.CanonicalCode(code), deleted)
	if err != nil {
		return apperrors.NewStorageError(err, "error updating course deletion state")
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}

	return nil
}

// Rename updates the course name.
func (r *CourseRepository) Rename(ctx context.Context, code, name string) error {
	query := `UPDATE courses SET name = $2 WHERE UPPER(code) = $1`

	cmdTag, err := r.db.Exec(ctx, query, models.CanonicalCode(code), name)
	if err != nil {
		return apperrors.NewStorageError(err, "error renaming course")
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}

	return nil
}

// Resize updates the maximum capacity. The guard against shrinking below the
// current enrollment lives in the catalog service; the CHECK constraint on the
// table backs it up.
func (r *CourseRepository) Resize(ctx context.Context, code string, maxCapacity int) error {
	query := `UPDATE courses SET max_capacity = $2 WHERE UPPER(code) = $1`

	cmdTag, err := r.db.Exec(ctx, query, models.CanonicalCode(code), maxCapacity)
	if err != nil {
		return apperrors.NewStorageError(err, "error resizing course")
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}

	return nil
}
