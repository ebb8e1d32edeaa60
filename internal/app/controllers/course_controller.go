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

// CourseController handles course catalog operations
type CourseController struct {
	catalog *services.CatalogService
}

// NewCourseController creates a new CourseController
func NewCourseController(catalog *services.CatalogService) *CourseController {
	return &CourseController{
		catalog: catalog,
	}
}

func courseResponse(course models.Course) dto.CourseResponse {
	return dto.CourseResponse{
		Code:              course.Code,
		Name:              course.Name,
		MaxCapacity:       course.MaxCapacity,
		CurrentEnrollment: course.CurrentEnrollment,
	}
}

// CreateCourse handles course creation
// @Summary Create a new course
// @Tags courses
// @Accept json
// @Produce json
// @Param request body dto.CreateCourseRequest true "Course information"
// @Success 201 {object} dto.APIResponse{data=dto.CourseResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 409 {object} dto.ErrorResponse "Course already exists"
// @Router /courses [post]
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	var req dto.CreateCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid course data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	course, err := c.catalog.AddCourse(ctx, req.Code, req.Name, req.MaxCapacity)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      courseResponse(course),
		Timestamp: time.Now(),
	})
}

// ListCourses lists active courses with the derived total enrollment
// @Summary List active courses
// @Tags courses
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.CourseListResponse}
// @Router /courses [get]
func (c *CourseController) ListCourses(ctx *gin.Context) {
	courses := c.catalog.ListCourses()

	resp := dto.CourseListResponse{
		Courses:         make([]dto.CourseResponse, 0, len(courses)),
		TotalEnrollment: c.catalog.TotalEnrollment(),
	}
	for _, course := range courses {
		resp.Courses = append(resp.Courses, courseResponse(course))
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      resp,
		Timestamp: time.Now(),
	})
}

// ListDeletedCourses lists soft-deleted courses available for restore
// @Summary List soft-deleted courses
// @Tags courses
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.CourseResponse}
// @Router /courses/deleted [get]
func (c *CourseController) ListDeletedCourses(ctx *gin.Context) {
	courses, err := c.catalog.ListDeleted(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := make([]dto.CourseResponse, 0, len(courses))
	for _, course := range courses {
		resp = append(resp, courseResponse(*course))
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      resp,
		Timestamp: time.Now(),
	})
}

// GetCourse retrieves an active course by code
// @Summary Get course details
// @Tags courses
// @Produce json
// @Param code path string true "Course code"
// @Success 200 {object} dto.APIResponse{data=dto.CourseResponse}
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{code} [get]
func (c *CourseController) GetCourse(ctx *gin.Context) {
	course, err := c.catalog.FindCourse(ctx.Param("code"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      courseResponse(course),
		Timestamp: time.Now(),
	})
}

// DeleteCourse soft-deletes a course
// @Summary Soft-delete a course
// @Tags courses
// @Produce json
// @Param code path string true "Course code"
// @Success 200 {object} dto.APIResponse
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{code} [delete]
func (c *CourseController) DeleteCourse(ctx *gin.Context) {
	if err := c.catalog.RemoveCourse(ctx, ctx.Param("code")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Timestamp: time.Now(),
	})
}

// RestoreCourse reactivates a soft-deleted course
// @Summary Restore a soft-deleted course
// @Tags courses
// @Produce json
// @Param code path string true "Course code"
// @Success 200 {object} dto.APIResponse{data=dto.CourseResponse}
// @Failure 404 {object} dto.ErrorResponse "Course not found among deleted"
// @Router /courses/{code}/restore [post]
func (c *CourseController) RestoreCourse(ctx *gin.Context) {
	course, err := c.catalog.RestoreCourse(ctx, ctx.Param("code"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      courseResponse(course),
		Timestamp: time.Now(),
	})
}

// RenameCourse updates a course name
// @Summary Rename a course
// @Tags courses
// @Accept json
// @Produce json
// @Param code path string true "Course code"
// @Param request body dto.RenameCourseRequest true "New name"
// @Success 200 {object} dto.APIResponse{data=dto.CourseResponse}
// @Router /courses/{code}/name [put]
func (c *CourseController) RenameCourse(ctx *gin.Context) {
	var req dto.RenameCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid rename data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	course, err := c.catalog.RenameCourse(ctx, ctx.Param("code"), req.Name)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      courseResponse(course),
		Timestamp: time.Now(),
	})
}

// ResizeCourse updates a course's maximum capacity
// @Summary Change a course's maximum capacity
// @Tags courses
// @Accept json
// @Produce json
// @Param code path string true "Course code"
// @Param request body dto.ResizeCourseRequest true "New capacity"
// @Success 200 {object} dto.APIResponse{data=dto.CourseResponse}
// @Failure 400 {object} dto.ErrorResponse "Capacity below current enrollment"
// @Router /courses/{code}/capacity [put]
func (c *CourseController) ResizeCourse(ctx *gin.Context) {
	var req dto.ResizeCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid capacity data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	course, err := c.catalog.ResizeCourse(ctx, ctx.Param("code"), req.MaxCapacity)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      courseResponse(course),
		Timestamp: time.Now(),
	})
}
