// Package read implements the HTTP handler returning a single recording.
package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/vocesdelaextincion/voces-de-la-extincion-api/internal/http/response"
	"github.com/vocesdelaextincion/voces-de-la-extincion-api/internal/lib/sl"
	"github.com/vocesdelaextincion/voces-de-la-extincion-api/internal/models"
	"github.com/vocesdelaextincion/voces-de-la-extincion-api/internal/storage"
)

// Handler handles single-recording read requests.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service describes the recording read business logic.
type Service interface {
	Read(ctx context.Context, id string) (*models.Recording, error)
}

// New creates a new Handler instance.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Get a recording
// @Description Returns a single recording by id with its audio URL when a file is attached.
// @Tags Recordings
// @Produce json
// @Param id path string true "Recording id"
// @Success 200 {object} response.Response "Recording"
// @Failure 404 {object} response.ErrorResponse "Unknown recording"
// @Failure 500 {object} response.ErrorResponse "Read failed"
// @Security BearerAuth
// @Router /recordings/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.recording.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")

	rec, err := h.service.Read(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrRecordingNotFound) {
			log.Error("recording not found", slog.String("id", id))
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("recording not found"))
			return
		}
		log.Error("failed to read recording", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read recording"))
		return
	}

	log.Info("recording read", slog.String("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"recording": rec,
	}))
}
