// Package main Voces de la Extinción API
//
// @title           Voces de la Extinción API
// @version         1.0
// @description     REST API for cataloguing field audio recordings of endangered species

// @contact.name   API Support
// @contact.email  soporte@vocesdelaextincion.org

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/vocesdelaextincion/voces-de-la-extincion-api/docs"
	"github.com/vocesdelaextincion/voces-de-la-extincion-api/internal/app/voces"
	"github.com/vocesdelaextincion/voces-de-la-extincion-api/internal/config"
)

func main() {
	cfg := config.MustLoad()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	logger.Info("starting voces-api", slog.String("env", cfg.Env))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := voces.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize app", slog.Any("err", err))
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("app stopped with error", slog.Any("err", err))
		os.Exit(1)
	}

	logger.Info("voces-api stopped gracefully")
}
