package models

// Enrollment represents the relationship between a student and a course,
// backed by the 'enrollments' table. Grade is nil until assigned.
type Enrollment struct {
	StudentID  string   `json:"studentId" db:"student_id"`
	CourseCode string   `json:"courseCode" db:"course_code"`
	Grade      *float64 `json:"grade,omitempty" db:"grade"`
}
