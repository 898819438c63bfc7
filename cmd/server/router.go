package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/wildtrails/tours-api/internal/api"
	apiMiddleware "github.com/wildtrails/tours-api/internal/api/middleware"
	"github.com/wildtrails/tours-api/internal/domain"
)

// setupRouter creates and configures the application router with all
// routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.Trace)

	authMW := apiMiddleware.NewAuthMiddleware(
		app.jwtService,
		app.userStore,
		app.config.Auth.CookieName,
	)
	manageTours := authMW.RequireRole(domain.RoleAdmin, domain.RoleLeadGuide)
	adminOnly := authMW.RequireRole(domain.RoleAdmin)

	r.Route("/api/v1", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/signup", app.authHandler.Signup)
		r.Post("/auth/login", app.authHandler.Login)
		r.Get("/auth/logout", app.authHandler.Logout)
		r.Post("/auth/forgot-password", app.authHandler.ForgotPassword)
		r.Patch("/auth/reset-password/{token}", app.authHandler.ResetPassword)

		r.Route("/tours", func(r chi.Router) {
			// Public reads
			r.Get("/", app.tourHandler.List)
			r.With(api.AliasTopTours).Get("/top-5-cheap", app.tourHandler.List)
			r.Get("/stats", app.tourHandler.Stats)
			r.Get("/{id}", app.tourHandler.Get)

			// Reports and writes need authentication
			r.Group(func(r chi.Router) {
				r.Use(authMW.Authenticate)

				r.With(authMW.RequireRole(
					domain.RoleAdmin, domain.RoleLeadGuide, domain.RoleGuide,
				)).Get("/monthly-plan/{year}", app.tourHandler.MonthlyPlan)

				r.Group(func(r chi.Router) {
					r.Use(manageTours)
					r.Post("/", app.tourHandler.Create)
					r.Patch("/{id}", app.tourHandler.Update)
					r.Delete("/{id}", app.tourHandler.Delete)
				})
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(authMW.Authenticate)

			// Self-service
			r.Get("/me", app.userHandler.GetMe)
			r.Patch("/update-me", app.userHandler.UpdateMe)
			r.Delete("/delete-me", app.userHandler.DeleteMe)
			r.Patch("/update-my-password", app.authHandler.UpdateMyPassword)

			// Admin user management
			r.Group(func(r chi.Router) {
				r.Use(adminOnly)
				r.Get("/", app.userHandler.List)
				r.Get("/{id}", app.userHandler.Get)
				r.Patch("/{id}", app.userHandler.Update)
				r.Delete("/{id}", app.userHandler.Delete)
			})
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
