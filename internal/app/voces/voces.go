// Package voces assembles the recording API: storage, cache, object storage,
// mail transport, services and the HTTP server.
package voces

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/vocesdelaextincion/voces-de-la-extincion-api/internal/cache"
	"github.com/vocesdelaextincion/voces-de-la-extincion-api/internal/config"
	"github.com/vocesdelaextincion/voces-de-la-extincion-api/internal/lib/jwt"
	"github.com/vocesdelaextincion/voces-de-la-extincion-api/internal/lib/smtp"
	"github.com/vocesdelaextincion/voces-de-la-extincion-api/internal/mailer"
	"github.com/vocesdelaextincion/voces-de-la-extincion-api/internal/migrations"
	"github.com/vocesdelaextincion/voces-de-la-extincion-api/internal/objectstore"
	authservice "github.com/vocesdelaextincion/voces-de-la-extincion-api/internal/services/auth"
	recordingservice "github.com/vocesdelaextincion/voces-de-la-extincion-api/internal/services/recording"
	"github.com/vocesdelaextincion/voces-de-la-extincion-api/internal/storage"
)

// App holds the running server and its dependencies.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *storage.Storage
	cache  *cache.Cache
}

// New builds the application from the configuration: opens the database,
// applies migrations, connects the cache and object storage and wires the
// services into the router.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	gateway, err := objectstore.New(ctx, cfg.ObjectStorage, logger)
	if err != nil {
		return nil, err
	}

	transport := smtp.NewTransport(cfg.SMTP, logger)
	mailSender := mailer.New(transport, cfg.PublicBaseURL, logger)
	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	authService := authservice.NewAuthService(db, mailSender, jwtMaker, logger)
	recordingService := recordingservice.NewRecordingService(db, cacheRedis, gateway, cfg.UploadFailurePolicy, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg, db, authService, recordingService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		cache:  cacheRedis,
	}, nil
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		_ = a.db.DB.Close()
		return err
	}
}
