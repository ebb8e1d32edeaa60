package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appModels "github.com/emre/campusreg/internal/app/models"
	appRepos "github.com/emre/campusreg/internal/app/repositories"
	"github.com/emre/campusreg/internal/pkg/apperrors"
)

// CreateDefaultData inserts a small demo catalog and roster if they don't
// exist yet. Intended for development setups only, gated by config.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	courseRepo := appRepos.NewCourseRepository(dbPool)
	studentRepo := appRepos.NewStudentRepository(dbPool)

	lgr.Info().Msg("Checking/Creating demo data (courses/students)...")
	var finalErr error // Collect errors without stopping the process

	demoCourses := []*appModels.Course{
		{Code: "CS101", Name: "Introduction to Programming", MaxCapacity: 30},
		{Code: "MATH201", Name: "Linear Algebra", MaxCapacity: 25},
		{Code: "PHYS150", Name: "Mechanics", MaxCapacity: 40},
	}
	for _, course := range demoCourses {
		if err := courseRepo.Create(ctx, course); err != nil {
			if errors.Is(err, apperrors.ErrCourseAlreadyExists) {
				continue
			}
			lgr.Error().Err(err).Str("code", course.Code).Msg("Error creating demo course")
			finalErr = errors.Join(finalErr, err)
		}
	}

	demoStudents := []*appModels.Student{
		{ID: "S-1001", Name: "Ada Lovelace"},
		{ID: "S-1002", Name: "Alan Turing"},
	}
	for _, student := range demoStudents {
		if err := studentRepo.Create(ctx, student); err != nil {
			if errors.Is(err, apperrors.ErrStudentAlreadyExists) {
				continue
			}
			lgr.Error().Err(err).Str("id", student.ID).Msg("Error creating demo student")
			finalErr = errors.Join(finalErr, err)
		}
	}

	if finalErr != nil {
		lgr.Warn().Err(finalErr).Msg("Demo data creation finished with errors")
	} else {
		lgr.Info().Msg("Demo data check/creation complete.")
	}
	return finalErr
}
