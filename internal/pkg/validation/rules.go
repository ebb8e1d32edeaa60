package validation

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validation rule patterns
var (
	// Course code pattern - letters followed by digits, e.g. CS101
	CourseCodePattern = `^[A-Za-z]{2,8}[0-9]{2,4}$`

	// Student identifier pattern - alphanumeric, up to 64 characters
	StudentIDPattern = `^[A-Za-z0-9\-]{1,64}$`

	// Name validation min/max length
	NameMinLength = 1
	NameMaxLength = 100

	// Capacity bounds for a course
	CapacityMin = 1
	CapacityMax = 100

	// Grade bounds
	GradeMin = 0.0
	GradeMax = 100.0
)

// CompiledPatterns caches compiled regex patterns for better performance
var CompiledPatterns = struct {
	CourseCode *regexp.Regexp
	StudentID  *regexp.Regexp
}{
	CourseCode: regexp.MustCompile(CourseCodePattern),
	StudentID:  regexp.MustCompile(StudentIDPattern),
}

// validate is the shared validator instance used for struct tag validation
var validate = validator.New()

// Struct validates a struct using its validate tags
func Struct(s interface{}) error {
	return validate.Struct(s)
}

// IsValidCourseCode reports whether code is a well-formed course code.
func IsValidCourseCode(code string) bool {
	return CompiledPatterns.CourseCode.MatchString(strings.TrimSpace(code))
}

// IsValidStudentID reports whether id is a well-formed student identifier.
func IsValidStudentID(id string) bool {
	return CompiledPatterns.StudentID.MatchString(strings.TrimSpace(id))
}

// IsValidName reports whether name is non-blank and within length bounds.
func IsValidName(name string) bool {
	trimmed := strings.TrimSpace(name)
	return len(trimmed) >= NameMinLength && len(trimmed) <= NameMaxLength
}

// IsValidCapacity reports whether capacity is within the allowed range.
func IsValidCapacity(capacity int) bool {
	return capacity >= CapacityMin && capacity <= CapacityMax
}

// IsValidGrade reports whether grade is within the allowed range.
func IsValidGrade(grade float64) bool {
	return grade >= GradeMin && grade <= GradeMax
}
