package dto

// EnrollRequest is the payload for enrolling a student in a course
type EnrollRequest struct {
	StudentID  string `json:"studentId" binding:"required" example:"S1024"`
	CourseCode string `json:"courseCode" binding:"required" example:"CS101"`
}

// AssignGradeRequest is the payload for assigning a grade. Grade is a pointer
// so a legitimate 0.0 still passes the required binding.
type AssignGradeRequest struct {
	Grade *float64 `json:"grade" binding:"required" example:"92.5"`
}

// EnrollmentResponse represents one of a student's enrollments
type EnrollmentResponse struct {
	CourseCode string   `json:"courseCode" example:"CS101"`
	CourseName string   `json:"courseName,omitempty" example:"Introduction to Computer Science"`
	Grade      *float64 `json:"grade,omitempty" example:"92.5"`
}

// OverallGradeResponse represents a student's aggregated grade
type OverallGradeResponse struct {
	StudentID     string  `json:"studentId" example:"S1024"`
	OverallGrade  float64 `json:"overallGrade" example:"85.0"`
	GradedCourses int     `json:"gradedCourses" example:"2"`
}
