// Package list implements the HTTP handler returning all recordings.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/vocesdelaextincion/voces-de-la-extincion-api/internal/http/response"
	"github.com/vocesdelaextincion/voces-de-la-extincion-api/internal/lib/sl"
	"github.com/vocesdelaextincion/voces-de-la-extincion-api/internal/models"
)

// Handler handles recording list requests.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service describes the recording list business logic.
type Service interface {
	List(ctx context.Context) ([]*models.Recording, error)
}

// New creates a new Handler instance.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary List recordings
// @Description Returns all recordings, newest first.
// @Tags Recordings
// @Produce json
// @Success 200 {object} response.Response "Recordings"
// @Failure 500 {object} response.ErrorResponse "List failed"
// @Security BearerAuth
// @Router /recordings [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.recording.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	recs, err := h.service.List(r.Context())
	if err != nil {
		log.Error("failed to list recordings", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list recordings"))
		return
	}

	log.Info("recordings listed", slog.Int("count", len(recs)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"recordings": recs,
		"count":      len(recs),
	}))
}
