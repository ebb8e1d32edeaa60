package dto

// CreateCourseRequest is the payload for creating a course
type CreateCourseRequest struct {
	Code        string `json:"code" binding:"required" example:"CS101"`
	Name        string `json:"name" binding:"required" example:"Introduction to Computer Science"`
	MaxCapacity int    `json:"maxCapacity" binding:"required,min=1,max=100" example:"30"`
}

// RenameCourseRequest is the payload for renaming a course
type RenameCourseRequest struct {
	Name string `json:"name" binding:"required" example:"Advanced Computer Science"`
}

// ResizeCourseRequest is the payload for changing a course's maximum capacity
type ResizeCourseRequest struct {
	MaxCapacity int `json:"maxCapacity" binding:"required,min=1,max=100" example:"50"`
}

// CourseResponse represents a course in API responses
type CourseResponse struct {
	Code              string `json:"code" example:"CS101"`
	Name              string `json:"name" example:"Introduction to Computer Science"`
	MaxCapacity       int    `json:"maxCapacity" example:"30"`
	CurrentEnrollment int    `json:"currentEnrollment" example:"12"`
}

// CourseListResponse represents the active course catalog along with the
// total enrollment across all active courses.
type CourseListResponse struct {
	Courses         []CourseResponse `json:"courses"`
	TotalEnrollment int              `json:"totalEnrollment" example:"42"`
}
