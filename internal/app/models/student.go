package models

import "strings"

// Student represents a student in the roster based on the 'students' table.
// Enrollments maps canonical course codes to the grade for that course; the
// grade is nil until one is assigned.
type Student struct {
	ID      string `json:"id" db:"id"`
	Name    string `json:"name" db:"name"`
	Deleted bool   `json:"deleted" db:"is_deleted"`

	Enrollments map[string]*float64 `json:"enrollments,omitempty"`
}

// CanonicalStudentID returns the canonical (uppercase, trimmed) form of a
// student identifier. Identifiers compare case-insensitively.
func CanonicalStudentID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

// EnrolledIn reports whether the student holds an enrollment for the course.
func (s *Student) EnrolledIn(courseCode string) bool {
	if s.Enrollments == nil {
		return false
	}
	_, ok := s.Enrollments[CanonicalCode(courseCode)]
	return ok
}
