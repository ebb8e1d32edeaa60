package dto

// CreateStudentRequest is the payload for creating a student
type CreateStudentRequest struct {
	ID   string `json:"id" binding:"required" example:"S1024"`
	Name string `json:"name" binding:"required" example:"Ada Lovelace"`
}

// RenameStudentRequest is the payload for renaming a student
type RenameStudentRequest struct {
	Name string `json:"name" binding:"required" example:"Ada King"`
}

// StudentResponse represents a student in API responses
type StudentResponse struct {
	ID   string `json:"id" example:"S1024"`
	Name string `json:"name" example:"Ada Lovelace"`
}
