package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emre/campusreg/internal/app/models/dto"
	"github.com/emre/campusreg/internal/pkg/apperrors"
)

// HandleAPIError maps domain errors to HTTP responses. Typed outcomes from
// the services arrive here as sentinel errors; anything unrecognized is
// treated as a storage or server failure.
func HandleAPIError(c *gin.Context, err error) {
	switch {
	case apperrors.Is(err, apperrors.ErrCourseNotFound,
		apperrors.ErrStudentNotFound,
		apperrors.ErrResourceNotFound):
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, err.Error())))

	case apperrors.Is(err, apperrors.ErrCourseAlreadyExists,
		apperrors.ErrStudentAlreadyExists,
		apperrors.ErrResourceAlreadyExists):
		c.JSON(http.StatusConflict, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, err.Error())))

	case errors.Is(err, apperrors.ErrAlreadyEnrolled):
		c.JSON(http.StatusConflict, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeAlreadyEnrolled, err.Error())))

	case errors.Is(err, apperrors.ErrCapacityExceeded):
		c.JSON(http.StatusConflict, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeCapacityExceeded, err.Error())))

	case errors.Is(err, apperrors.ErrNotEnrolled):
		c.JSON(http.StatusConflict, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeNotEnrolled, err.Error())))

	case apperrors.Is(err, apperrors.ErrValidationFailed,
		apperrors.ErrInvalidGrade,
		apperrors.ErrCapacityBelowCount,
		apperrors.ErrBadRequest):
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, err.Error())))

	case errors.Is(err, apperrors.ErrStorage):
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeDatabaseError, "Storage failure")))

	default:
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")))
	}
}
