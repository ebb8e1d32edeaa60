package services

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/emre/campusreg/internal/app/models"
	"github.com/emre/campusreg/internal/pkg/apperrors"
	"github.com/emre/campusreg/internal/pkg/validation"
)

// RosterService owns the student lifecycle and the in-memory active working
// set, mirroring the catalog service. Each student's enrollment map is
// populated from persisted relationship rows at load time and mutated only
// by the enrollment service.
type RosterService struct {
	store       StudentStore
	enrollments EnrollmentStore
	logger      zerolog.Logger

	mu       sync.RWMutex
	students map[string]*models.Student // canonical ID -> active student
}

// NewRosterService creates a new roster service
func NewRosterService(store StudentStore, enrollments EnrollmentStore, logger zerolog.Logger) *RosterService {
	return &RosterService{
		store:       store,
		enrollments: enrollments,
		logger:      logger,
		students:    make(map[string]*models.Student),
	}
}

// Load populates the active working set, including enrollment maps, from
// storage.
func (s *RosterService) Load(ctx context.Context) error {
	students, err := s.store.List(ctx, false)
	if err != nil {
		return fmt.Errorf("error loading student roster: %w", err)
	}

	for _, student := range students {
		if err := s.loadEnrollments(ctx, student); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.students = make(map[string]*models.Student, len(students))
	for _, student := range students {
		s.students[models.CanonicalStudentID(student.ID)] = student
	}

	s.logger.Info().Int("count", len(students)).Msg("Student roster loaded")
	return nil
}

func (s *RosterService) loadEnrollments(ctx context.Context, student *models.Student) error {
	rows, err := s.enrollments.ListByStudent(ctx, student.ID)
	if err != nil {
		return fmt.Errorf("error loading enrollments for student %s: %w", student.ID, err)
	}

	student.Enrollments = make(map[string]*float64, len(rows))
	for _, row := range rows {
		student.Enrollments[models.CanonicalCode(row.CourseCode)] = row.Grade
	}
	return nil
}

// AddStudent validates and creates a new active student.
func (s *RosterService) AddStudent(ctx context.Context, id, name string) (models.Student, error) {
	if !validation.IsValidStudentID(id) {
		return models.Student{}, apperrors.NewValidationError("student ID must be alphanumeric, at most 64 characters")
	}
	if !validation.IsValidName(name) {
		return models.Student{}, apperrors.NewValidationError("student name cannot be blank")
	}

	if _, err := s.store.GetByID(ctx, id); err == nil {
		return models.Student{}, apperrors.ErrStudentAlreadyExists
	} else if !apperrors.Is(err, apperrors.ErrStudentNotFound) {
		return models.Student{}, err
	}

	student := &models.Student{
		ID:          models.CanonicalStudentID(id),
		Name:        name,
		Enrollments: make(map[string]*float64),
	}

	if err := s.store.Create(ctx, student); err != nil {
		return models.Student{}, err
	}

	s.mu.Lock()
	s.students[models.CanonicalStudentID(student.ID)] = student
	s.mu.Unlock()

	s.logger.Info().Str("id", student.ID).Msg("Student added")
	return copyStudent(student), nil
}

// RemoveStudent soft-deletes an active student. Enrollments are retained.
func (s *RosterService) RemoveStudent(ctx context.Context, id string) error {
	key := models.CanonicalStudentID(id)

	s.mu.RLock()
	student, ok := s.students[key]
	s.mu.RUnlock()
	if !ok {
		return apperrors.ErrStudentNotFound
	}

	if err := s.store.SetDeleted(ctx, student.ID, true); err != nil {
		return err
	}

	s.mu.Lock()
	student.Deleted = true
	delete(s.students, key)
	s.mu.Unlock()

	s.logger.Info().Str("id", student.ID).Msg("Student soft-deleted")
	return nil
}

// RestoreStudent reactivates a soft-deleted student and reloads the
// enrollment map from storage.
func (s *RosterService) RestoreStudent(ctx context.Context, id string) (models.Student, error) {
	student, err := s.store.GetByID(ctx, id)
	if err != nil {
		return models.Student{}, err
	}
	if !student.Deleted {
		return models.Student{}, apperrors.ErrStudentNotFound
	}

	if err := s.store.SetDeleted(ctx, student.ID, false); err != nil {
		return models.Student{}, err
	}

	student.Deleted = false
	if err := s.loadEnrollments(ctx, student); err != nil {
		return models.Student{}, err
	}

	s.mu.Lock()
	s.students[models.CanonicalStudentID(student.ID)] = student
	s.mu.Unlock()

	s.logger.Info().Str("id", student.ID).Msg("Student restored")
	return copyStudent(student), nil
}

// RenameStudent updates an active student's name.
func (s *RosterService) RenameStudent(ctx context.Context, id, name string) (models.Student, error) {
	if !validation.IsValidName(name) {
		return models.Student{}, apperrors.NewValidationError("student name cannot be blank")
	}

	s.mu.RLock()
	student, ok := s.students[models.CanonicalStudentID(id)]
	s.mu.RUnlock()
	if !ok {
		return models.Student{}, apperrors.ErrStudentNotFound
	}

	if err := s.store.Rename(ctx, student.ID, name); err != nil {
		return models.Student{}, err
	}

	s.mu.Lock()
	student.Name = name
	updated := copyStudent(student)
	s.mu.Unlock()

	return updated, nil
}

// FindStudent looks up an active student by ID, case-insensitively. Returns
// a copy with a cloned enrollment map.
func (s *RosterService) FindStudent(id string) (models.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	student, ok := s.students[models.CanonicalStudentID(id)]
	if !ok {
		return models.Student{}, apperrors.ErrStudentNotFound
	}
	return copyStudent(student), nil
}

// ListStudents returns the active students ordered by ID.
func (s *RosterService) ListStudents() []models.Student {
	s.mu.RLock()
	defer s.mu.RUnlock()

	students := make([]models.Student, 0, len(s.students))
	for _, student := range s.students {
		students = append(students, copyStudent(student))
	}
	sort.Slice(students, func(i, j int) bool { return students[i].ID < students[j].ID })
	return students
}

// ListDeleted returns the soft-deleted students from storage, ordered by ID.
func (s *RosterService) ListDeleted(ctx context.Context) ([]*models.Student, error) {
	return s.store.List(ctx, true)
}

// noteEnrollment mirrors a committed enrollment write onto the in-memory map.
// Only the enrollment service calls this, after the store confirms.
func (s *RosterService) noteEnrollment(id, courseCode string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if student, ok := s.students[models.CanonicalStudentID(id)]; ok {
		key := models.CanonicalCode(courseCode)
		if _, enrolled := student.Enrollments[key]; !enrolled {
			student.Enrollments[key] = nil
		}
	}
}

// noteGrade mirrors a committed grade write onto the in-memory map.
func (s *RosterService) noteGrade(id, courseCode string, grade float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if student, ok := s.students[models.CanonicalStudentID(id)]; ok {
		if _, enrolled := student.Enrollments[models.CanonicalCode(courseCode)]; enrolled {
			student.Enrollments[models.CanonicalCode(courseCode)] = &grade
		}
	}
}

// copyStudent clones a student including the enrollment map so callers never
// alias the working set.
func copyStudent(student *models.Student) models.Student {
	clone := *student
	clone.Enrollments = make(map[string]*float64, len(student.Enrollments))
	for code, grade := range student.Enrollments {
		clone.Enrollments[code] = grade
	}
	return clone
}
