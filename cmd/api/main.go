package main

import (
	"os"

	"github.com/emre/campusreg/internal/pkg/logger"
	"github.com/emre/campusreg/internal/server"
)

func main() {
	// NewServer orchestrates config/logger setup, database connection,
	// dependency wiring, and router configuration.
	srv, err := server.NewServer()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	// Blocks until a shutdown signal arrives
	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
	os.Exit(0)
}
