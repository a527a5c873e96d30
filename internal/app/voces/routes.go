package voces

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/time/rate"

	"github.com/vocesdelaextincion/voces-de-la-extincion-api/internal/config"
	"github.com/vocesdelaextincion/voces-de-la-extincion-api/internal/http/handlers/auth/forgotpassword"
	"github.com/vocesdelaextincion/voces-de-la-extincion-api/internal/http/handlers/auth/login"
	"github.com/vocesdelaextincion/voces-de-la-extincion-api/internal/http/handlers/auth/register"
	"github.com/vocesdelaextincion/voces-de-la-extincion-api/internal/http/handlers/auth/resetpassword"
	"github.com/vocesdelaextincion/voces-de-la-extincion-api/internal/http/handlers/auth/verifyemail"
	"github.com/vocesdelaextincion/voces-de-la-extincion-api/internal/http/handlers/recording/create"
	"github.com/vocesdelaextincion/voces-de-la-extincion-api/internal/http/handlers/recording/health"
	"github.com/vocesdelaextincion/voces-de-la-extincion-api/internal/http/handlers/recording/list"
	"github.com/vocesdelaextincion/voces-de-la-extincion-api/internal/http/handlers/recording/read"
	"github.com/vocesdelaextincion/voces-de-la-extincion-api/internal/http/handlers/recording/remove"
	"github.com/vocesdelaextincion/voces-de-la-extincion-api/internal/http/handlers/recording/update"
	"github.com/vocesdelaextincion/voces-de-la-extincion-api/internal/http/middlewarectx"
	authservice "github.com/vocesdelaextincion/voces-de-la-extincion-api/internal/services/auth"
	recordingservice "github.com/vocesdelaextincion/voces-de-la-extincion-api/internal/services/recording"
	"github.com/vocesdelaextincion/voces-de-la-extincion-api/internal/storage"
)

// RegisterRoutes registers all application routes. The recordings group is
// gated in order: session token, email allow-list, verified account, rate
// limit.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config, db *storage.Storage, authService *authservice.AuthService, recordingService *recordingservice.RecordingService) {
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", register.New(logger, authService).ServeHTTP)
		r.Post("/login", login.New(logger, authService).ServeHTTP)
		r.Get("/verify-email", verifyemail.New(logger, authService).ServeHTTP)
		r.Post("/forgot-password", forgotpassword.New(logger, authService).ServeHTTP)
		r.Post("/reset-password", resetpassword.New(logger, authService).ServeHTTP)
	})

	r.Group(func(r chi.Router) {
		r.Use(middlewarectx.JWTMiddleware(authService, logger))
		r.Use(middlewarectx.AllowedEmailsMiddleware(logger, cfg.AllowedEmails))
		r.Use(middlewarectx.RequireVerificationMiddleware(logger, db))
		r.Use(middlewarectx.RateLimitMiddleware(logger, rate.Limit(10), 20))
		r.Post("/recordings", create.New(logger, recordingService).ServeHTTP)
		r.Get("/recordings", list.New(logger, recordingService).ServeHTTP)
		r.Get("/recordings/{id}", read.New(logger, recordingService).ServeHTTP)
		r.Put("/recordings/{id}", update.New(logger, recordingService).ServeHTTP)
		r.Delete("/recordings/{id}", remove.New(logger, recordingService).ServeHTTP)
	})

	r.Get("/health", health.New(logger, db).ServeHTTP)

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
