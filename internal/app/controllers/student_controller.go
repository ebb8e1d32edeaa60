package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/emre/campusreg/internal/app/models"
	"github.com/emre/campusreg/internal/app/models/dto"
	"github.com/emre/campusreg/internal/app/services"
	"github.com/emre/campusreg/internal/middleware"
)

// StudentController handles student roster operations
type StudentController struct {
	roster *services.RosterService
}

// NewStudentController creates a new StudentController
func NewStudentController(roster *services.RosterService) *StudentController {
	return &StudentController{
		roster: roster,
	}
}

func studentResponse(student models.Student) dto.StudentResponse {
	return dto.StudentResponse{
		ID:   student.ID,
		Name: student.Name,
	}
}

// CreateStudent handles student creation
// @Summary Create a new student
// @Tags students
// @Accept json
// @Produce json
// @Param request body dto.CreateStudentRequest true "Student information"
// @Success 201 {object} dto.APIResponse{data=dto.StudentResponse}
// @Failure 409 {object} dto.ErrorResponse "Student already exists"
// @Router /students [post]
func (c *StudentController) CreateStudent(ctx *gin.Context) {
	var req dto.CreateStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid student data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	student, err := c.roster.AddStudent(ctx, req.ID, req.Name)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      studentResponse(student),
		Timestamp: time.Now(),
	})
}

// ListStudents lists active students
// @Summary List active students
// @Tags students
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.StudentResponse}
// @Router /students [get]
func (c *StudentController) ListStudents(ctx *gin.Context) {
	students := c.roster.ListStudents()

	resp := make([]dto.StudentResponse, 0, len(students))
	for _, student := range students {
		resp = append(resp, studentResponse(student))
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      resp,
		Timestamp: time.Now(),
	})
}

// ListDeletedStudents lists soft-deleted students available for restore
// @Summary List soft-deleted students
// @Tags students
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.StudentResponse}
// @Router /students/deleted [get]
func (c *StudentController) ListDeletedStudents(ctx *gin.Context) {
	students, err := c.roster.ListDeleted(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := make([]dto.StudentResponse, 0, len(students))
	for _, student := range students {
		resp = append(resp, studentResponse(*student))
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      resp,
		Timestamp: time.Now(),
	})
}

// GetStudent retrieves an active student by ID
// @Summary Get student details
// @Tags students
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} dto.APIResponse{data=dto.StudentResponse}
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id} [get]
func (c *StudentController) GetStudent(ctx *gin.Context) {
	student, err := c.roster.FindStudent(ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      studentResponse(student),
		Timestamp: time.Now(),
	})
}

// DeleteStudent soft-deletes a student
// @Summary Soft-delete a student
// @Tags students
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} dto.APIResponse
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id} [delete]
func (c *StudentController) DeleteStudent(ctx *gin.Context) {
	if err := c.roster.RemoveStudent(ctx, ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Timestamp: time.Now(),
	})
}

// RestoreStudent reactivates a soft-deleted student
// @Summary Restore a soft-deleted student
// @Tags students
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} dto.APIResponse{data=dto.StudentResponse}
// @Failure 404 {object} dto.ErrorResponse "Student not found among deleted"
// @Router /students/{id}/restore [post]
func (c *StudentController) RestoreStudent(ctx *gin.Context) {
	student, err := c.roster.RestoreStudent(ctx, ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      studentResponse(student),
		Timestamp: time.Now(),
	})
}

// RenameStudent updates a student name
// @Summary Rename a student
// @Tags students
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param request body dto.RenameStudentRequest true "New name"
// @Success 200 {object} dto.APIResponse{data=dto.StudentResponse}
// @Router /students/{id}/name [put]
func (c *StudentController) RenameStudent(ctx *gin.Context) {
	var req dto.RenameStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid rename data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	student, err := c.roster.RenameStudent(ctx, ctx.Param("id"), req.Name)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      studentResponse(student),
		Timestamp: time.Now(),
	})
}
