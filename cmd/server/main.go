// Package main implements the entry point for the tours API server,
// which serves tour listings with a rich query pipeline and handles
// user accounts, authentication and the password lifecycle.
package main

import (
	"context"
	"fmt"
	"log"

	"github.com/wildtrails/tours-api/internal/config"
	"github.com/wildtrails/tours-api/internal/platform/logger"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}
}

// run loads configuration, wires the application and serves HTTP until
// shutdown. Split from main so errors flow out instead of exiting inline.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger := logger.Setup(cfg.Server)
	appLogger.Info("configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"database", cfg.Database.Name)

	ctx := context.Background()
	app, err := buildApplication(ctx, cfg, appLogger)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.startHTTPServer(ctx, app.setupRouter())
}
