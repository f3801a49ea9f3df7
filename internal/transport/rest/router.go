package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"

	"github.com/frahmantamala/leave-management/internal/auth"
	"github.com/frahmantamala/leave-management/internal/leave"
	"github.com/frahmantamala/leave-management/internal/stats"
	"github.com/frahmantamala/leave-management/internal/transport/middleware"
	"github.com/frahmantamala/leave-management/internal/transport/swagger"
)

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, authHandler *auth.Handler, leaveHandler *leave.Handler, statsHandler *stats.Handler, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)
	reviewer := auth.NewRoleAuthorization(logger)

	// Apply global middleware
	router.Use(middleware.CORS)
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	// Swagger UI route at root
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		// Health check routes
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// Auth routes
		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/register", authHandler.Register)
			sr.Post("/login", authHandler.Login)
		})

		// Protected routes that require a resolved session token
		r.Group(func(pr chi.Router) {
			pr.Use(authHandler.AuthMiddleware)

			pr.Get("/users/me", authHandler.CurrentUser)

			pr.Route("/leaves", func(lr chi.Router) {
				lr.Post("/apply", leaveHandler.Apply)
				lr.Get("/my", leaveHandler.MyLeaves)

				// Reviewer routes: faculty and admin only
				lr.Group(func(rr chi.Router) {
					rr.Use(reviewer.RequireReviewer())
					rr.Get("/pending", leaveHandler.Pending)
					rr.Post("/{id}/decide", leaveHandler.Decide)
				})
			})

			pr.Get("/stats/overview", statsHandler.Overview)
		})
	})
}
