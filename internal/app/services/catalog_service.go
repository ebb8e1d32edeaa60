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

// CatalogService owns the course lifecycle and the in-memory active working
// set. The set is loaded from storage at startup and kept consistent by
// writing through to the store before mutating memory; a failed store call
// leaves memory untouched.
type CatalogService struct {
	store  CourseStore
	logger zerolog.Logger

	mu      sync.RWMutex
	courses map[string]*models.Course // canonical code -> active course
}

// NewCatalogService creates a new catalog service
func NewCatalogService(store CourseStore, logger zerolog.Logger) *CatalogService {
	return &CatalogService{
		store:   store,
		logger:  logger,
		courses: make(map[string]*models.Course),
	}
}

// Load populates the active working set from storage.
func (s *CatalogService) Load(ctx context.Context) error {
	courses, err := s.store.List(ctx, false)
	if err != nil {
		return fmt.Errorf("error loading course catalog: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.courses = make(map[string]*models.Course, len(courses))
	for _, course := range courses {
		s.courses[models.CanonicalCode(course.Code)] = course
	}

	s.logger.Info().Int("count", len(courses)).Msg("Course catalog loaded")
	return nil
}

// AddCourse validates and creates a new active course. Creation fails when a
// course with the same code exists in any state, active or soft-deleted.
func (s *CatalogService) AddCourse(ctx context.Context, code, name string, maxCapacity int) (models.Course, error) {
	if !validation.IsValidCourseCode(code) {
		return models.Course{}, apperrors.NewValidationError("course code must be letters followed by digits, e.g. CS101")
	}
	if !validation.IsValidName(name) {
		return models.Course{}, apperrors.NewValidationError("course name cannot be blank")
	}
	if !validation.IsValidCapacity(maxCapacity) {
		return models.Course{}, apperrors.NewValidationError(
			fmt.Sprintf("maximum capacity must be between %d and %d", validation.CapacityMin, validation.CapacityMax))
	}

	if _, err := s.store.GetByCode(ctx, code); err == nil {
		return models.Course{}, apperrors.ErrCourseAlreadyExists
	} else if !apperrors.Is(err, apperrors.ErrCourseNotFound) {
		return models.Course{}, err
	}

	course := &models.Course{
		Code:        models.CanonicalCode(code),
		Name:        name,
		MaxCapacity: maxCapacity,
	}

	if err := s.store.Create(ctx, course); err != nil {
		return models.Course{}, err
	}

	s.mu.Lock()
	s.courses[models.CanonicalCode(course.Code)] = course
	s.mu.Unlock()

	s.logger.Info().Str("code", course.Code).Int("maxCapacity", maxCapacity).Msg("Course added")
	return *course, nil
}

// RemoveCourse soft-deletes an active course. The row is retained so the
// course can be restored later; existing enrollments are unaffected.
func (s *CatalogService) RemoveCourse(ctx context.Context, code string) error {
	key := models.CanonicalCode(code)

	s.mu.RLock()
	course, ok := s.courses[key]
	s.mu.RUnlock()
	if !ok {
		return apperrors.ErrCourseNotFound
	}

	if err := s.store.SetDeleted(ctx, course.Code, true); err != nil {
		return err
	}

	s.mu.Lock()
	course.Deleted = true
	delete(s.courses, key)
	s.mu.Unlock()

	s.logger.Info().Str("code", course.Code).Msg("Course soft-deleted")
	return nil
}

// RestoreCourse reactivates a soft-deleted course. The enrollment counter is
// left exactly as it was when the course was deleted.
func (s *CatalogService) RestoreCourse(ctx context.Context, code string) (models.Course, error) {
	course, err := s.store.GetByCode(ctx, code)
	if err != nil {
		return models.Course{}, err
	}
	if !course.Deleted {
		return models.Course{}, apperrors.ErrCourseNotFound
	}

	if err := s.store.SetDeleted(ctx, course.Code, false); err != nil {
		return models.Course{}, err
	}

	course.Deleted = false

	s.mu.Lock()
	s.courses[models.CanonicalCode(course.Code)] = course
	s.mu.Unlock()

	s.logger.Info().Str("code", course.Code).Msg("Course restored")
	return *course, nil
}

// RenameCourse updates an active course's name. The code is the identity key
// and never changes.
func (s *CatalogService) RenameCourse(ctx context.Context, code, name string) (models.Course, error) {
	if !validation.IsValidName(name) {
		return models.Course{}, apperrors.NewValidationError("course name cannot be blank")
	}

	s.mu.RLock()
	course, ok := s.courses[models.CanonicalCode(code)]
	s.mu.RUnlock()
	if !ok {
		return models.Course{}, apperrors.ErrCourseNotFound
	}

	if err := s.store.Rename(ctx, course.Code, name); err != nil {
		return models.Course{}, err
	}

	s.mu.Lock()
	course.Name = name
	updated := *course
	s.mu.Unlock()

	return updated, nil
}

// ResizeCourse updates an active course's maximum capacity. Shrinking below
// the current enrollment is rejected so the capacity invariant cannot be
// violated after the fact.
func (s *CatalogService) ResizeCourse(ctx context.Context, code string, maxCapacity int) (models.Course, error) {
	if !validation.IsValidCapacity(maxCapacity) {
		return models.Course{}, apperrors.NewValidationError(
			fmt.Sprintf("maximum capacity must be between %d and %d", validation.CapacityMin, validation.CapacityMax))
	}

	s.mu.RLock()
	course, ok := s.courses[models.CanonicalCode(code)]
	s.mu.RUnlock()
	if !ok {
		return models.Course{}, apperrors.ErrCourseNotFound
	}

	if maxCapacity < course.CurrentEnrollment {
		return models.Course{}, apperrors.NewCustomError(apperrors.ErrCapacityBelowCount,
			fmt.Sprintf("cannot set capacity to %d: %d students are enrolled", maxCapacity, course.CurrentEnrollment))
	}

	if err := s.store.Resize(ctx, course.Code, maxCapacity); err != nil {
		return models.Course{}, err
	}

	s.mu.Lock()
	course.MaxCapacity = maxCapacity
	updated := *course
	s.mu.Unlock()

	return updated, nil
}

// FindCourse looks up an active course by code, case-insensitively. Returns
// a copy so callers cannot mutate the working set.
func (s *CatalogService) FindCourse(code string) (models.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	course, ok := s.courses[models.CanonicalCode(code)]
	if !ok {
		return models.Course{}, apperrors.ErrCourseNotFound
	}
	return *course, nil
}

// ListCourses returns the active courses ordered by code.
func (s *CatalogService) ListCourses() []models.Course {
	s.mu.RLock()
	defer s.mu.RUnlock()

	courses := make([]models.Course, 0, len(s.courses))
	for _, course := range s.courses {
		courses = append(courses, *course)
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].Code < courses[j].Code })
	return courses
}

// ListDeleted returns the soft-deleted courses from storage, ordered by code.
func (s *CatalogService) ListDeleted(ctx context.Context) ([]*models.Course, error) {
	return s.store.List(ctx, true)
}

// TotalEnrollment derives the total number of enrollments across active
// courses. Derived on demand so there is no cached aggregate to drift.
func (s *CatalogService) TotalEnrollment() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := 0
	for _, course := range s.courses {
		total += course.CurrentEnrollment
	}
	return total
}

// noteEnrollment mirrors a committed enrollment write onto the in-memory
// counter. Only the enrollment service calls this, after the store confirms.
func (s *CatalogService) noteEnrollment(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if course, ok := s.courses[models.CanonicalCode(code)]; ok && course.HasCapacity() {
		course.CurrentEnrollment++
	}
}
