package services

import (
	"context"
	"sort"

	"github.com/rs/zerolog"

	"github.com/emre/campusreg/internal/app/models"
	"github.com/emre/campusreg/internal/pkg/apperrors"
)

// fakeCourseStore is an in-memory CourseStore. It stores copies of the rows
// it is given, the way a real database would, so working-set pointers never
// alias stored state.
type fakeCourseStore struct {
	courses  map[string]*models.Course
	failNext error
}

func newFakeCourseStore() *fakeCourseStore {
	return &fakeCourseStore{courses: make(map[string]*models.Course)}
}

func (f *fakeCourseStore) takeFailure() error {
	err := f.failNext
	f.failNext = nil
	return err
}

func (f *fakeCourseStore) Create(ctx context.Context, course *models.Course) error {
	if err := f.takeFailure(); err != nil {
		return err
	}
	key := models.CanonicalCode(course.Code)
	if _, ok := f.courses[key]; ok {
		return apperrors.ErrCourseAlreadyExists
	}
	clone := *course
	f.courses[key] = &clone
	return nil
}

func (f *fakeCourseStore) GetByCode(ctx context.Context, code string) (*models.Course, error) {
	if err := f.takeFailure(); err != nil {
		return nil, err
	}
	course, ok := f.courses[models.CanonicalCode(code)]
	if !ok {
		return nil, apperrors.ErrCourseNotFound
	}
	clone := *course
	return &clone, nil
}

func (f *fakeCourseStore) List(ctx context.Context, deleted bool) ([]*models.Course, error) {
	if err := f.takeFailure(); err != nil {
		return nil, err
	}
	var out []*models.Course
	for _, course := range f.courses {
		if course.Deleted == deleted {
			clone := *course
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (f *fakeCourseStore) SetDeleted(ctx context.Context, code string, deleted bool) error {
	if err := f.takeFailure(); err != nil {
		return err
	}
	course, ok := f.courses[models.CanonicalCode(code)]
	if !ok {
		return apperrors.ErrCourseNotFound
	}
	course.Deleted = deleted
	return nil
}

func (f *fakeCourseStore) Rename(ctx context.Context, code, name string) error {
	if err := f.takeFailure(); err != nil {
		return err
	}
	course, ok := f.courses[models.CanonicalCode(code)]
	if !ok {
		return apperrors.ErrCourseNotFound
	}
	course.Name = name
	return nil
}

func (f *fakeCourseStore) Resize(ctx context.Context, code string, maxCapacity int) error {
	if err := f.takeFailure(); err != nil {
		return err
	}
	course, ok := f.courses[models.CanonicalCode(code)]
	if !ok {
		return apperrors.ErrCourseNotFound
	}
	course.MaxCapacity = maxCapacity
	return nil
}

// fakeStudentStore is an in-memory StudentStore.
type fakeStudentStore struct {
	students map[string]*models.Student
	failNext error
}

func newFakeStudentStore() *fakeStudentStore {
	return &fakeStudentStore{students: make(map[string]*models.Student)}
}

func (f *fakeStudentStore) takeFailure() error {
	err := f.failNext
	f.failNext = nil
	return err
}

func (f *fakeStudentStore) Create(ctx context.Context, student *models.Student) error {
	if err := f.takeFailure(); err != nil {
		return err
	}
	key := models.CanonicalStudentID(student.ID)
	if _, ok := f.students[key]; ok {
		return apperrors.ErrStudentAlreadyExists
	}
	clone := *student
	clone.Enrollments = nil // relationship rows live in the enrollment store
	f.students[key] = &clone
	return nil
}

func (f *fakeStudentStore) GetByID(ctx context.Context, id string) (*models.Student, error) {
	if err := f.takeFailure(); err != nil {
		return nil, err
	}
	student, ok := f.students[models.CanonicalStudentID(id)]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	clone := *student
	return &clone, nil
}

func (f *fakeStudentStore) List(ctx context.Context, deleted bool) ([]*models.Student, error) {
	if err := f.takeFailure(); err != nil {
		return nil, err
	}
	var out []*models.Student
	for _, student := range f.students {
		if student.Deleted == deleted {
			clone := *student
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStudentStore) SetDeleted(ctx context.Context, id string, deleted bool) error {
	if err := f.takeFailure(); err != nil {
		return err
	}
	student, ok := f.students[models.CanonicalStudentID(id)]
	if !ok {
		return apperrors.ErrStudentNotFound
	}
	student.Deleted = deleted
	return nil
}

func (f *fakeStudentStore) Rename(ctx context.Context, id, name string) error {
	if err := f.takeFailure(); err != nil {
		return err
	}
	student, ok := f.students[models.CanonicalStudentID(id)]
	if !ok {
		return apperrors.ErrStudentNotFound
	}
	student.Name = name
	return nil
}

// fakeEnrollmentStore is an in-memory EnrollmentStore wired to a
// fakeCourseStore so EnrollAtomic can apply the capacity guard and the
// relationship insert as one unit, mirroring the real transaction.
type fakeEnrollmentStore struct {
	courses  *fakeCourseStore
	rows     map[string]map[string]*float64 // student ID -> course code -> grade
	failNext error
}

func newFakeEnrollmentStore(courses *fakeCourseStore) *fakeEnrollmentStore {
	return &fakeEnrollmentStore{
		courses: courses,
		rows:    make(map[string]map[string]*float64),
	}
}

func (f *fakeEnrollmentStore) takeFailure() error {
	err := f.failNext
	f.failNext = nil
	return err
}

func (f *fakeEnrollmentStore) EnrollAtomic(ctx context.Context, studentID, courseCode string) error {
	if err := f.takeFailure(); err != nil {
		return err
	}
	sid := models.CanonicalStudentID(studentID)
	code := models.CanonicalCode(courseCode)

	byStudent := f.rows[sid]
	if byStudent == nil {
		byStudent = make(map[string]*float64)
		f.rows[sid] = byStudent
	}
	if _, ok := byStudent[code]; ok {
		return apperrors.ErrAlreadyEnrolled
	}

	course, ok := f.courses.courses[code]
	if !ok {
		return apperrors.NewStorageError(nil, "course row missing")
	}
	if course.CurrentEnrollment >= course.MaxCapacity {
		return apperrors.ErrCapacityExceeded
	}

	byStudent[code] = nil
	course.CurrentEnrollment++
	return nil
}

func (f *fakeEnrollmentStore) SetGrade(ctx context.Context, studentID, courseCode string, grade float64) error {
	if err := f.takeFailure(); err != nil {
		return err
	}
	sid := models.CanonicalStudentID(studentID)
	code := models.CanonicalCode(courseCode)

	byStudent, ok := f.rows[sid]
	if !ok {
		return apperrors.ErrNotEnrolled
	}
	if _, ok := byStudent[code]; !ok {
		return apperrors.ErrNotEnrolled
	}
	byStudent[code] = &grade
	return nil
}

func (f *fakeEnrollmentStore) ListByStudent(ctx context.Context, studentID string) ([]*models.Enrollment, error) {
	if err := f.takeFailure(); err != nil {
		return nil, err
	}
	sid := models.CanonicalStudentID(studentID)

	var out []*models.Enrollment
	for code, grade := range f.rows[sid] {
		out = append(out, &models.Enrollment{
			StudentID:  sid,
			CourseCode: code,
			Grade:      grade,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CourseCode < out[j].CourseCode })
	return out, nil
}

// fixture wires the three services against the in-memory stores.
type fixture struct {
	courses     *fakeCourseStore
	students    *fakeStudentStore
	enrollments *fakeEnrollmentStore
	catalog     *CatalogService
	roster      *RosterService
	service     *EnrollmentService
}

func newFixture() *fixture {
	courses := newFakeCourseStore()
	students := newFakeStudentStore()
	enrollments := newFakeEnrollmentStore(courses)
	lgr := zerolog.Nop()

	catalog := NewCatalogService(courses, lgr)
	roster := NewRosterService(students, enrollments, lgr)
	return &fixture{
		courses:     courses,
		students:    students,
		enrollments: enrollments,
		catalog:     catalog,
		roster:      roster,
		service:     NewEnrollmentService(catalog, roster, enrollments, lgr),
	}
}
