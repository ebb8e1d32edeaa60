package services

import (
	"context"
	"sort"

	"github.com/rs/zerolog"

	"github.com/emre/campusreg/internal/app/models"
	"github.com/emre/campusreg/internal/pkg/apperrors"
	"github.com/emre/campusreg/internal/pkg/validation"
)

// EnrollmentService coordinates the cross-entity enrollment invariant: an
// enrollment exists only if the course had remaining capacity at enrollment
// time, and the course counter never diverges from the set of relationship
// rows. It reads the catalog and roster working sets but owns neither; the
// store's atomic enroll write is the single point where both effects commit.
type EnrollmentService struct {
	catalog *CatalogService
	roster  *RosterService
	store   EnrollmentStore
	logger  zerolog.Logger
}

// NewEnrollmentService creates a new enrollment service
func NewEnrollmentService(catalog *CatalogService, roster *RosterService, store EnrollmentStore, logger zerolog.Logger) *EnrollmentService {
	return &EnrollmentService{
		catalog: catalog,
		roster:  roster,
		store:   store,
		logger:  logger,
	}
}

// Enroll enrolls a student in a course. Both must be active. A duplicate
// enrollment is rejected without touching storage; the capacity guard and the
// relationship insert are applied by the store as one atomic unit, and the
// in-memory counter and map are updated only after that unit commits.
func (s *EnrollmentService) Enroll(ctx context.Context, studentID, courseCode string) (models.Enrollment, error) {
	student, err := s.roster.FindStudent(studentID)
	if err != nil {
		return models.Enrollment{}, err
	}

	course, err := s.catalog.FindCourse(courseCode)
	if err != nil {
		return models.Enrollment{}, err
	}

	if student.EnrolledIn(course.Code) {
		return models.Enrollment{}, apperrors.ErrAlreadyEnrolled
	}

	if err := s.store.EnrollAtomic(ctx, student.ID, course.Code); err != nil {
		return models.Enrollment{}, err
	}

	s.catalog.noteEnrollment(course.Code)
	s.roster.noteEnrollment(student.ID, course.Code)

	s.logger.Info().
		Str("studentId", student.ID).
		Str("courseCode", course.Code).
		Msg("Student enrolled")

	return models.Enrollment{StudentID: student.ID, CourseCode: course.Code}, nil
}

// AssignGrade records a grade for an existing enrollment. The grade must be
// within [0, 100]; the in-memory map entry is overwritten only after the
// store confirms the write.
func (s *EnrollmentService) AssignGrade(ctx context.Context, studentID, courseCode string, grade float64) error {
	student, err := s.roster.FindStudent(studentID)
	if err != nil {
		return err
	}

	course, err := s.catalog.FindCourse(courseCode)
	if err != nil {
		return err
	}

	if !student.EnrolledIn(course.Code) {
		return apperrors.ErrNotEnrolled
	}

	if !validation.IsValidGrade(grade) {
		return apperrors.ErrInvalidGrade
	}

	if err := s.store.SetGrade(ctx, student.ID, course.Code, grade); err != nil {
		return err
	}

	s.roster.noteGrade(student.ID, course.Code, grade)

	s.logger.Info().
		Str("studentId", student.ID).
		Str("courseCode", course.Code).
		Float64("grade", grade).
		Msg("Grade assigned")

	return nil
}

// OverallGrade computes the unweighted mean of a student's assigned grades.
// Ungraded courses are excluded from both the sum and the divisor; a student
// with no graded courses gets 0.0, not an error. The second return value is
// the number of graded courses.
func (s *EnrollmentService) OverallGrade(studentID string) (float64, int, error) {
	student, err := s.roster.FindStudent(studentID)
	if err != nil {
		return 0, 0, err
	}

	sum := 0.0
	count := 0
	for _, grade := range student.Enrollments {
		if grade != nil {
			sum += *grade
			count++
		}
	}

	if count == 0 {
		return 0.0, 0, nil
	}
	return sum / float64(count), count, nil
}

// ListEnrollments returns a student's enrollments ordered by course code.
func (s *EnrollmentService) ListEnrollments(studentID string) ([]models.Enrollment, error) {
	student, err := s.roster.FindStudent(studentID)
	if err != nil {
		return nil, err
	}

	enrollments := make([]models.Enrollment, 0, len(student.Enrollments))
	for code, grade := range student.Enrollments {
		enrollments = append(enrollments, models.Enrollment{
			StudentID:  student.ID,
			CourseCode: code,
			Grade:      grade,
		})
	}
	sort.Slice(enrollments, func(i, j int) bool { return enrollments[i].CourseCode < enrollments[j].CourseCode })
	return enrollments, nil
}
