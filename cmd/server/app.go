package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/wildtrails/tours-api/internal/api"
	"github.com/wildtrails/tours-api/internal/config"
	"github.com/wildtrails/tours-api/internal/platform/mailer"
	"github.com/wildtrails/tours-api/internal/platform/mongodb"
	"github.com/wildtrails/tours-api/internal/service/auth"
	"github.com/wildtrails/tours-api/internal/store"
)

// application holds the assembled dependencies of the running server.
type application struct {
	config *config.Config
	logger *slog.Logger

	mongoClient *mongo.Client

	userStore store.UserStore
	tourStore store.TourStore

	jwtService auth.JWTService
	hasher     *auth.BcryptHasher
	mailer     mailer.Mailer

	authHandler *api.AuthHandler
	tourHandler *api.TourHandler
	userHandler *api.UserHandler
}

// buildApplication wires stores, services and handlers from configuration.
func buildApplication(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
) (*application, error) {
	client, db, err := mongodb.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ensure indexes: %w", err)
	}

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}

	userStore := mongodb.NewUserStore(db)
	tourStore := mongodb.NewTourStore(db)
	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)
	smtpMailer := mailer.NewSMTPMailer(cfg.Mail)

	app := &application{
		config:      cfg,
		logger:      logger,
		mongoClient: client,
		userStore:   userStore,
		tourStore:   tourStore,
		jwtService:  jwtService,
		hasher:      hasher,
		mailer:      smtpMailer,
	}

	app.authHandler = api.NewAuthHandler(userStore, jwtService, hasher, hasher, smtpMailer, cfg.Auth)
	app.tourHandler = api.NewTourHandler(tourStore)
	app.userHandler = api.NewUserHandler(userStore)

	return app, nil
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.mongoClient.Disconnect(ctx); err != nil {
		app.logger.Error("failed to disconnect from mongodb", "error", err)
	}
}
