package models

import "strings"

// Course represents a course in the catalog based on the 'courses' table.
// Codes are unique and compare case-insensitively.
type Course struct {
	Code              string `json:"code" db:"code"`
	Name              string `json:"name" db:"name"`
	MaxCapacity       int    `json:"maxCapacity" db:"max_capacity"`
	CurrentEnrollment int    `json:"currentEnrollment" db:"current_enrollment"`
	Deleted           bool   `json:"deleted" db:"is_deleted"`
}

// CanonicalCode returns the canonical (uppercase, trimmed) form of a course
// code. All lookups and map keys use the canonical form.
func CanonicalCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// HasCapacity reports whether another student can still enroll.
func (c *Course) HasCapacity() bool {
	return c.CurrentEnrollment < c.MaxCapacity
}
