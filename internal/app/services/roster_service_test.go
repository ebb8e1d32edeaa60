package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emre/campusreg/internal/pkg/apperrors"
)

func TestAddStudent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	student, err := f.roster.AddStudent(ctx, "s-1001", "Ada Lovelace")
	require.NoError(t, err)

	assert.Equal(t, "S-1001", student.ID, "ID should be canonicalized")
	assert.Equal(t, "Ada Lovelace", student.Name)
	assert.Empty(t, student.Enrollments)
}

func TestAddStudent_Validation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	tests := []struct {
		name      string
		id        string
		studentNm string
	}{
		{"blank ID", "   ", "Ada"},
		{"ID with spaces", "S 1001", "Ada"},
		{"ID too long", strings.Repeat("A", 65), "Ada"},
		{"blank name", "S-1001", "  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.roster.AddStudent(ctx, tt.id, tt.studentNm)
			assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
		})
	}
}

func TestAddStudent_Duplicate(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.roster.AddStudent(ctx, "S-1001", "Ada")
	require.NoError(t, err)

	_, err = f.roster.AddStudent(ctx, "s-1001", "Other")
	assert.ErrorIs(t, err, apperrors.ErrStudentAlreadyExists, "IDs compare case-insensitively")
}

func TestRemoveStudent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.roster.AddStudent(ctx, "S-1001", "Ada")
	require.NoError(t, err)

	require.NoError(t, f.roster.RemoveStudent(ctx, "s-1001"))

	_, err = f.roster.FindStudent("S-1001")
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)

	deleted, err := f.roster.ListDeleted(ctx)
	require.NoError(t, err)
	require.Len(t, deleted, 1)
	assert.Equal(t, "S-1001", deleted[0].ID)
}

func TestRemoveStudent_NotFound(t *testing.T) {
	f := newFixture()

	err := f.roster.RemoveStudent(context.Background(), "S-404")
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
}

func TestRestoreStudent_KeepsEnrollments(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.catalog.AddCourse(ctx, "CS101", "Course", 10)
	require.NoError(t, err)
	_, err = f.roster.AddStudent(ctx, "S-1001", "Ada")
	require.NoError(t, err)
	_, err = f.service.Enroll(ctx, "S-1001", "CS101")
	require.NoError(t, err)
	require.NoError(t, f.service.AssignGrade(ctx, "S-1001", "CS101", 95))

	require.NoError(t, f.roster.RemoveStudent(ctx, "S-1001"))

	restored, err := f.roster.RestoreStudent(ctx, "S-1001")
	require.NoError(t, err)
	assert.False(t, restored.Deleted)

	found, err := f.roster.FindStudent("S-1001")
	require.NoError(t, err)
	require.True(t, found.EnrolledIn("CS101"), "enrollments survive the delete/restore round trip")
	grade := found.Enrollments["CS101"]
	require.NotNil(t, grade)
	assert.InDelta(t, 95.0, *grade, 1e-9)
}

func TestRestoreStudent_NotDeleted(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.roster.AddStudent(ctx, "S-1001", "Ada")
	require.NoError(t, err)

	_, err = f.roster.RestoreStudent(ctx, "S-1001")
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
}

func TestRenameStudent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.roster.AddStudent(ctx, "S-1001", "Old Name")
	require.NoError(t, err)

	renamed, err := f.roster.RenameStudent(ctx, "s-1001", "New Name")
	require.NoError(t, err)
	assert.Equal(t, "New Name", renamed.Name)

	stored, err := f.students.GetByID(ctx, "S-1001")
	require.NoError(t, err)
	assert.Equal(t, "New Name", stored.Name)
}

func TestFindStudent_ReturnsCopy(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.catalog.AddCourse(ctx, "CS101", "Course", 10)
	require.NoError(t, err)
	_, err = f.roster.AddStudent(ctx, "S-1001", "Ada")
	require.NoError(t, err)
	_, err = f.service.Enroll(ctx, "S-1001", "CS101")
	require.NoError(t, err)

	found, err := f.roster.FindStudent("S-1001")
	require.NoError(t, err)
	delete(found.Enrollments, "CS101")

	again, err := f.roster.FindStudent("S-1001")
	require.NoError(t, err)
	assert.True(t, again.EnrolledIn("CS101"), "callers must not be able to mutate the working set")
}

func TestListStudents_SortedByID(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	for _, id := range []string{"S-3", "S-1", "S-2"} {
		_, err := f.roster.AddStudent(ctx, id, "Student "+id)
		require.NoError(t, err)
	}

	students := f.roster.ListStudents()
	require.Len(t, students, 3)
	assert.Equal(t, "S-1", students[0].ID)
	assert.Equal(t, "S-2", students[1].ID)
	assert.Equal(t, "S-3", students[2].ID)
}

func TestRosterLoad_PopulatesEnrollments(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.catalog.AddCourse(ctx, "CS101", "Course", 10)
	require.NoError(t, err)
	_, err = f.roster.AddStudent(ctx, "S-1001", "Ada")
	require.NoError(t, err)
	_, err = f.service.Enroll(ctx, "S-1001", "CS101")
	require.NoError(t, err)
	require.NoError(t, f.service.AssignGrade(ctx, "S-1001", "CS101", 80))

	// A fresh service instance rebuilds the enrollment maps from rows.
	fresh := NewRosterService(f.students, f.enrollments, f.roster.logger)
	require.NoError(t, fresh.Load(ctx))

	student, err := fresh.FindStudent("S-1001")
	require.NoError(t, err)
	require.True(t, student.EnrolledIn("CS101"))
	grade := student.Enrollments["CS101"]
	require.NotNil(t, grade)
	assert.InDelta(t, 80.0, *grade, 1e-9)
}
