package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/emre/campusreg/internal/app/controllers"
)

// SetupRouter registers all API routes under /api/v1
func SetupRouter(
	router *gin.Engine,
	courseController *controllers.CourseController,
	studentController *controllers.StudentController,
	enrollmentController *controllers.EnrollmentController,
) {
	v1 := router.Group("/api/v1")

	courses := v1.Group("/courses")
	{
		courses.POST("", courseController.CreateCourse)
		courses.GET("", courseController.ListCourses)
		courses.GET("/deleted", courseController.ListDeletedCourses)
		courses.GET("/:code", courseController.GetCourse)
		courses.DELETE("/:code", courseController.DeleteCourse)
		courses.POST("/:code/restore", courseController.RestoreCourse)
		courses.PUT("/:code/name", courseController.RenameCourse)
		courses.PUT("/:code/capacity", courseController.ResizeCourse)
	}

	students := v1.Group("/students")
	{
		students.POST("", studentController.CreateStudent)
		students.GET("", studentController.ListStudents)
		students.GET("/deleted", studentController.ListDeletedStudents)
		students.GET("/:id", studentController.GetStudent)
		students.DELETE("/:id", studentController.DeleteStudent)
		students.POST("/:id/restore", studentController.RestoreStudent)
		students.PUT("/:id/name", studentController.RenameStudent)

		students.GET("/:id/enrollments", enrollmentController.ListEnrollments)
		students.PUT("/:id/enrollments/:code/grade", enrollmentController.AssignGrade)
		students.GET("/:id/grade", enrollmentController.OverallGrade)
	}

	v1.POST("/enrollments", enrollmentController.Enroll)
}
