// Package health implements the liveness/readiness endpoint.
package health

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/vocesdelaextincion/voces-de-la-extincion-api/internal/http/response"
	"github.com/vocesdelaextincion/voces-de-la-extincion-api/internal/lib/sl"
)

// Handler answers health probes.
type Handler struct {
	log     *slog.Logger
	checker Checker
}

// Checker reports whether the database is reachable and migrated.
type Checker interface {
	CheckDatabaseReady(ctx context.Context) error
}

// New creates a new Handler instance.
func New(log *slog.Logger, checker Checker) *Handler {
	return &Handler{
		log:     log,
		checker: checker,
	}
}

// ServeHTTP godoc
// @Summary Health check
// @Description Reports service and database readiness.
// @Tags Health
// @Produce json
// @Success 200 {object} response.Response "Service healthy"
// @Failure 503 {object} response.ErrorResponse "Database not ready"
// @Router /health [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.recording.health"

	if err := h.checker.CheckDatabaseReady(r.Context()); err != nil {
		h.log.Error("database not ready", slog.String("op", op), sl.Err(err))
		render.Status(r, http.StatusServiceUnavailable)
		render.JSON(w, r, response.Error("database not ready"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"status": "ok",
	}))
}
