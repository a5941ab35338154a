package main

import (
	"context"
	"os"

	"github.com/yigit/openlab/internal/bootstrap"
	"github.com/yigit/openlab/internal/pkg/logger"
	"github.com/yigit/openlab/internal/server"
)

// @title OpenLab API
// @version 1.0
// @description Lab-visit registration and session assignment
// @BasePath /api/v1
// @schemes http https

func main() {
	srv, err := server.NewServer(context.Background(), bootstrap.DefaultConfigPath)
	if err != nil {
		// Error details are logged within NewServer's setup functions
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	// Blocks until shutdown signal
	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
