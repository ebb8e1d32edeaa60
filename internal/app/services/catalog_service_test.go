package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emre/campusreg/internal/pkg/apperrors"
)

func TestAddCourse(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	course, err := f.catalog.AddCourse(ctx, "cs101", "Introduction to Programming", 30)
	require.NoError(t, err)

	assert.Equal(t, "CS101", course.Code, "code should be canonicalized")
	assert.Equal(t, "Introduction to Programming", course.Name)
	assert.Equal(t, 30, course.MaxCapacity)
	assert.Equal(t, 0, course.CurrentEnrollment)
	assert.False(t, course.Deleted)

	stored, err := f.courses.GetByCode(ctx, "CS101")
	require.NoError(t, err)
	assert.Equal(t, "CS101", stored.Code)
}

func TestAddCourse_Validation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	tests := []struct {
		name     string
		code     string
		courseNm string
		capacity int
	}{
		{"code without digits", "CSONLY", "Valid Name", 10},
		{"code without letters", "12345", "Valid Name", 10},
		{"code with spaces", "CS 101", "Valid Name", 10},
		{"blank name", "CS101", "   ", 10},
		{"capacity zero", "CS101", "Valid Name", 0},
		{"capacity negative", "CS101", "Valid Name", -5},
		{"capacity above maximum", "CS101", "Valid Name", 101},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.catalog.AddCourse(ctx, tt.code, tt.courseNm, tt.capacity)
			assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
			assert.Empty(t, f.catalog.ListCourses(), "catalog must stay empty after rejected add")
		})
	}
}

func TestAddCourse_CapacityBounds(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.catalog.AddCourse(ctx, "CS101", "Min Capacity", 1)
	assert.NoError(t, err)

	_, err = f.catalog.AddCourse(ctx, "CS102", "Max Capacity", 100)
	assert.NoError(t, err)
}

func TestAddCourse_Duplicate(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.catalog.AddCourse(ctx, "CS101", "First", 10)
	require.NoError(t, err)

	_, err = f.catalog.AddCourse(ctx, "cs101", "Second", 10)
	assert.ErrorIs(t, err, apperrors.ErrCourseAlreadyExists, "codes compare case-insensitively")
}

func TestAddCourse_DuplicateOfSoftDeleted(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.catalog.AddCourse(ctx, "CS101", "First", 10)
	require.NoError(t, err)
	require.NoError(t, f.catalog.RemoveCourse(ctx, "CS101"))

	// The soft-deleted row still owns the code.
	_, err = f.catalog.AddCourse(ctx, "CS101", "Second", 10)
	assert.ErrorIs(t, err, apperrors.ErrCourseAlreadyExists)
}

func TestAddCourse_StorageFailureLeavesCatalogUnchanged(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	// First call is the duplicate probe, second the insert.
	_, err := f.catalog.AddCourse(ctx, "CS101", "Course", 10)
	require.NoError(t, err)

	f.courses.failNext = apperrors.NewStorageError(nil, "connection reset")
	_, err = f.catalog.AddCourse(ctx, "CS102", "Other", 10)
	require.ErrorIs(t, err, apperrors.ErrStorage)

	courses := f.catalog.ListCourses()
	require.Len(t, courses, 1)
	assert.Equal(t, "CS101", courses[0].Code)
}

func TestRemoveCourse(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.catalog.AddCourse(ctx, "CS101", "Course", 10)
	require.NoError(t, err)

	require.NoError(t, f.catalog.RemoveCourse(ctx, "cs101"))

	_, err = f.catalog.FindCourse("CS101")
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound, "deleted course leaves the active set")

	deleted, err := f.catalog.ListDeleted(ctx)
	require.NoError(t, err)
	require.Len(t, deleted, 1)
	assert.Equal(t, "CS101", deleted[0].Code)
	assert.True(t, deleted[0].Deleted)
}

func TestRemoveCourse_NotFound(t *testing.T) {
	f := newFixture()

	err := f.catalog.RemoveCourse(context.Background(), "CS404")
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
}

func TestRemoveCourse_AlreadyDeleted(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.catalog.AddCourse(ctx, "CS101", "Course", 10)
	require.NoError(t, err)
	require.NoError(t, f.catalog.RemoveCourse(ctx, "CS101"))

	err = f.catalog.RemoveCourse(ctx, "CS101")
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
}

func TestRestoreCourse(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.catalog.AddCourse(ctx, "CS101", "Course", 10)
	require.NoError(t, err)
	require.NoError(t, f.catalog.RemoveCourse(ctx, "CS101"))

	restored, err := f.catalog.RestoreCourse(ctx, "cs101")
	require.NoError(t, err)
	assert.False(t, restored.Deleted)

	found, err := f.catalog.FindCourse("CS101")
	require.NoError(t, err)
	assert.Equal(t, "Course", found.Name)
}

func TestRestoreCourse_NotDeleted(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.catalog.AddCourse(ctx, "CS101", "Course", 10)
	require.NoError(t, err)

	_, err = f.catalog.RestoreCourse(ctx, "CS101")
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound, "restoring an active course is not a valid transition")
}

func TestRestoreCourse_Unknown(t *testing.T) {
	f := newFixture()

	_, err := f.catalog.RestoreCourse(context.Background(), "CS404")
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
}

func TestRenameCourse(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.catalog.AddCourse(ctx, "CS101", "Old Name", 10)
	require.NoError(t, err)

	renamed, err := f.catalog.RenameCourse(ctx, "cs101", "New Name")
	require.NoError(t, err)
	assert.Equal(t, "New Name", renamed.Name)
	assert.Equal(t, "CS101", renamed.Code, "code is the identity key and never changes")

	stored, err := f.courses.GetByCode(ctx, "CS101")
	require.NoError(t, err)
	assert.Equal(t, "New Name", stored.Name)
}

func TestRenameCourse_BlankName(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.catalog.AddCourse(ctx, "CS101", "Old Name", 10)
	require.NoError(t, err)

	_, err = f.catalog.RenameCourse(ctx, "CS101", "  ")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestResizeCourse(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.catalog.AddCourse(ctx, "CS101", "Course", 10)
	require.NoError(t, err)

	resized, err := f.catalog.ResizeCourse(ctx, "CS101", 50)
	require.NoError(t, err)
	assert.Equal(t, 50, resized.MaxCapacity)
}

func TestResizeCourse_RejectsBelowEnrollment(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.catalog.AddCourse(ctx, "CS101", "Course", 10)
	require.NoError(t, err)
	for _, id := range []string{"S1", "S2", "S3"} {
		_, err = f.roster.AddStudent(ctx, id, "Student "+id)
		require.NoError(t, err)
		_, err = f.service.Enroll(ctx, id, "CS101")
		require.NoError(t, err)
	}

	_, err = f.catalog.ResizeCourse(ctx, "CS101", 2)
	require.ErrorIs(t, err, apperrors.ErrCapacityBelowCount)

	course, err := f.catalog.FindCourse("CS101")
	require.NoError(t, err)
	assert.Equal(t, 10, course.MaxCapacity, "rejected resize must not change capacity")

	// Shrinking down to exactly the current enrollment is allowed.
	resized, err := f.catalog.ResizeCourse(ctx, "CS101", 3)
	require.NoError(t, err)
	assert.Equal(t, 3, resized.MaxCapacity)
}

func TestFindCourse_ReturnsCopy(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.catalog.AddCourse(ctx, "CS101", "Course", 10)
	require.NoError(t, err)

	found, err := f.catalog.FindCourse("CS101")
	require.NoError(t, err)
	found.Name = "Mutated"

	again, err := f.catalog.FindCourse("CS101")
	require.NoError(t, err)
	assert.Equal(t, "Course", again.Name)
}

func TestListCourses_SortedByCode(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	for _, c := range []struct {
		code string
		name string
	}{
		{"PHYS150", "Mechanics"},
		{"CS101", "Programming"},
		{"MATH201", "Linear Algebra"},
	} {
		_, err := f.catalog.AddCourse(ctx, c.code, c.name, 10)
		require.NoError(t, err)
	}

	courses := f.catalog.ListCourses()
	require.Len(t, courses, 3)
	assert.Equal(t, "CS101", courses[0].Code)
	assert.Equal(t, "MATH201", courses[1].Code)
	assert.Equal(t, "PHYS150", courses[2].Code)
}

func TestCatalogLoad(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.catalog.AddCourse(ctx, "CS101", "Course", 10)
	require.NoError(t, err)
	_, err = f.catalog.AddCourse(ctx, "MATH201", "Algebra", 10)
	require.NoError(t, err)
	require.NoError(t, f.catalog.RemoveCourse(ctx, "MATH201"))

	// A fresh service instance sees only the active rows.
	fresh := NewCatalogService(f.courses, f.catalog.logger)
	require.NoError(t, fresh.Load(ctx))

	courses := fresh.ListCourses()
	require.Len(t, courses, 1)
	assert.Equal(t, "CS101", courses[0].Code)
}
