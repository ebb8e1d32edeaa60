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

// StudentRepository handles database operations for students
type StudentRepository struct {
	db *pgxpool.Pool
}

// NewStudentRepository creates a new student repository
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{
		db: db,
	}
}

// Create inserts a new student row in the active state.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	query := `
		INSERT INTO students (id, name, is_deleted)
		VALUES ($1, $2, FALSE)
	`

	_, err := r.db.Exec(ctx, query, student.ID, student.Name)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrStudentAlreadyExists
		}
		return apperrors.NewStorageError(err, "error inserting student")
	}

	return nil
}

// GetByID retrieves a student by identifier, case-insensitively, regardless
// of deletion state. The enrollment map is not populated here; callers load
// it through the enrollment repository.
func (r *StudentRepository) GetByID(ctx context.Context, id string) (*models.Student, error) {
	query := `
		SELECT id, name, is_deleted
		FROM students
		WHERE UPPER(id) = $1
	`

	var student models.Student
	err := r.db.QueryRow(ctx, query, models.CanonicalStudentID(id)).Scan(
		&student.ID,
		&student.Name,
		&student.Deleted,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, apperrors.NewStorageError(err, "error retrieving student")
	}

	return &student, nil
}

// List retrieves students filtered by deletion state, ordered by identifier.
func (r *StudentRepository) List(ctx context.Context, deleted bool) ([]*models.Student, error) {
	query := `
		SELECT id, name, is_deleted
		FROM students
		WHERE is_deleted = $1
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, query, deleted)
	if err != nil {
		return nil, apperrors.NewStorageError(err, "error listing students")
	}
	defer rows.Close()

	var students []*models.Student
	for rows.Next() {
		var student models.Student
		if err := rows.Scan(
			&student.ID,
			&student.Name,
			&student.Deleted,
		); err != nil {
			return nil, apperrors.NewStorageError(err, "error scanning student row")
		}
		students = append(students, &student)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStorageError(err, "error listing students")
	}

	return students, nil
}

// SetDeleted flips the soft-delete flag. The row is retained either way.
func (r *StudentRepository) SetDeleted(ctx context.Context, id string, deleted bool) error {
	query := `UPDATE students SET is_deleted = $2 WHERE UPPER(id) = $1`

	cmdTag, err := r.db.Exec(ctx, query, models.CanonicalStudentID(id), deleted)
	if err != nil {
		return apperrors.NewStorageError(err, "error updating student deletion state")
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}

	return nil
}

// Rename updates the student name.
func (r *StudentRepository) Rename(ctx context.Context, id, name string) error {
	query := `UPDATE students SET name = $2 WHERE UPPER(id) = $1`

	cmdTag, err := r.db.Exec(ctx, query, models.CanonicalStudentID(id), name)
	if err != nil {
		return apperrors.NewStorageError(err, "error renaming student")
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}

	return nil
}
