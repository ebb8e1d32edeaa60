package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/emre/campusreg/internal/app/models"
	"github.com/emre/campusreg/internal/pkg/apperrors"
	"github.com/emre/campusreg/internal/pkg/dberrors"
	"github.com/emre/campusreg/internal/pkg/logger"
)

// EnrollmentRepository handles database operations for the student-course
// relationship, including the atomic enroll write.
type EnrollmentRepository struct {
	db *pgxpool.Pool
}

// NewEnrollmentRepository creates a new enrollment repository
func NewEnrollmentRepository(db *pgxpool.Pool) *EnrollmentRepository {
	return &EnrollmentRepository{
		db: db,
	}
}

// EnrollAtomic creates the relationship row and increments the course counter
// as a single transaction. The counter update carries the capacity guard, so
// either both effects commit or neither does: a duplicate enrollment or a full
// course leaves the counter and the relationship rows untouched.
//
// studentID and courseCode must be the stored (already resolved) identifiers.
func (r *EnrollmentRepository) EnrollAtomic(ctx context.Context, studentID, courseCode string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return apperrors.NewStorageError(err, "error starting enrollment transaction")
	}
	defer tx.Rollback(ctx)

	// Relationship row first: a duplicate aborts before the counter moves.
	_, err = tx.Exec(ctx, `
		INSERT INTO enrollments (student_id, course_code)
		VALUES ($1, $2)`,
		studentID, courseCode)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrAlreadyEnrolled
		}
		return apperrors.NewStorageError(err, "error inserting enrollment")
	}

	cmdTag, err := tx.Exec(ctx, `
		UPDATE courses
		SET current_enrollment = current_enrollment + 1
		WHERE code = $1 AND current_enrollment < max_capacity`,
		courseCode)
	if err != nil {
		return apperrors.NewStorageError(err, "error incrementing course enrollment")
	}

	// Guard failed: the course is full. Rolling back discards the inserted
	// relationship row as well.
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCapacityExceeded
	}

	if err := tx.Commit(ctx); err != nil {
		logger.Error().Err(err).
			Str("studentId", studentID).
			Str("courseCode", courseCode).
			Msg("Failed to commit enrollment transaction")
		return apperrors.NewStorageError(err, "error committing enrollment transaction")
	}

	return nil
}

// SetGrade persists the grade for an existing enrollment.
func (r *EnrollmentRepository) SetGrade(ctx context.Context, studentID, courseCode string, grade float64) error {
	query := `
		UPDATE enrollments
		SET grade = $3
		WHERE student_id = $1 AND course_code = $2
	`

	cmdTag, err := r.db.Exec(ctx, query, studentID, courseCode, grade)
	if err != nil {
		return apperrors.NewStorageError(err, "error updating grade")
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotEnrolled
	}

	return nil
}

// ListByStudent retrieves a student's enrollments ordered by course code.
func (r *EnrollmentRepository) ListByStudent(ctx context.Context, studentID string) ([]*models.Enrollment, error) {
	query := `
		SELECT student_id, course_code, grade
		FROM enrollments
		WHERE student_id = $1
		ORDER BY course_code
	`

	rows, err := r.db.Query(ctx, query, studentID)
	if err != nil {
		return nil, apperrors.NewStorageError(err, "error listing enrollments")
	}
	defer rows.Close()

	var enrollments []*models.Enrollment
	for rows.Next() {
		var enrollment models.Enrollment
		if err := rows.Scan(
			&enrollment.StudentID,
			&enrollment.CourseCode,
			&enrollment.Grade,
		); err != nil {
			return nil, apperrors.NewStorageError(err, "error scanning enrollment row")
		}
		enrollments = append(enrollments, &enrollment)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStorageError(err, "error listing enrollments")
	}

	return enrollments, nil
}
