package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/emre/campusreg/internal/app/models/dto"
	"github.com/emre/campusreg/internal/app/services"
	"github.com/emre/campusreg/internal/middleware"
)

// EnrollmentController handles enrollment and grade operations
type EnrollmentController struct {
	enrollments *services.EnrollmentService
	catalog     *services.CatalogService
}

// NewEnrollmentController creates a new EnrollmentController
func NewEnrollmentController(enrollments *services.EnrollmentService, catalog *services.CatalogService) *EnrollmentController {
	return &EnrollmentController{
		enrollments: enrollments,
		catalog:     catalog,
	}
}

// Enroll enrolls a student in a course
// @Summary Enroll a student in a course
// @Tags enrollments
// @Accept json
// @Produce json
// @Param request body dto.EnrollRequest true "Enrollment request"
// @Success 201 {object} dto.APIResponse{data=dto.EnrollmentResponse}
// @Failure 404 {object} dto.ErrorResponse "Student or course not found"
// @Failure 409 {object} dto.ErrorResponse "Already enrolled or course full"
// @Router /enrollments [post]
func (c *EnrollmentController) Enroll(ctx *gin.Context) {
	var req dto.EnrollRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid enrollment data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	enrollment, err := c.enrollments.Enroll(ctx, req.StudentID, req.CourseCode)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data: dto.EnrollmentResponse{
			CourseCode: enrollment.CourseCode,
			Grade:      enrollment.Grade,
		},
		Timestamp: time.Now(),
	})
}

// ListEnrollments lists a student's enrollments with grades
// @Summary List a student's enrollments
// @Tags enrollments
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.EnrollmentResponse}
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id}/enrollments [get]
func (c *EnrollmentController) ListEnrollments(ctx *gin.Context) {
	enrollments, err := c.enrollments.ListEnrollments(ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := make([]dto.EnrollmentResponse, 0, len(enrollments))
	for _, enrollment := range enrollments {
		item := dto.EnrollmentResponse{
			CourseCode: enrollment.CourseCode,
			Grade:      enrollment.Grade,
		}
		// Soft-deleted courses keep their enrollments but are absent from
		// the active catalog, so the name may be unavailable.
		if course, err := c.catalog.FindCourse(enrollment.CourseCode); err == nil {
			item.CourseName = course.Name
		}
		resp = append(resp, item)
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      resp,
		Timestamp: time.Now(),
	})
}

// AssignGrade records a grade for an enrollment
// @Summary Assign a grade
// @Tags enrollments
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param code path string true "Course code"
// @Param request body dto.AssignGradeRequest true "Grade"
// @Success 200 {object} dto.APIResponse
// @Failure 404 {object} dto.ErrorResponse "Student or course not found"
// @Failure 409 {object} dto.ErrorResponse "Student not enrolled"
// @Router /students/{id}/enrollments/{code}/grade [put]
func (c *EnrollmentController) AssignGrade(ctx *gin.Context) {
	var req dto.AssignGradeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid grade data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	err := c.enrollments.AssignGrade(ctx, ctx.Param("id"), ctx.Param("code"), *req.Grade)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Timestamp: time.Now(),
	})
}

// OverallGrade returns the unweighted mean of a student's assigned grades
// @Summary Get a student's overall grade
// @Tags enrollments
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} dto.APIResponse{data=dto.OverallGradeResponse}
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id}/grade [get]
func (c *EnrollmentController) OverallGrade(ctx *gin.Context) {
	id := ctx.Param("id")
	overall, graded, err := c.enrollments.OverallGrade(id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.OverallGradeResponse{
			StudentID:     id,
			OverallGrade:  overall,
			GradedCourses: graded,
		},
		Timestamp: time.Now(),
	})
}
