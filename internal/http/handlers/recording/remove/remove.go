// Package remove implements the HTTP handler deleting a recording from both
// stores. The remote audio object goes first; if the local record then fails
// to delete, the stores disagree and the handler reports the inconsistency
// with a distinct message so an operator can reconcile them.
package remove

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
	services "github.com/vocesdelaextincion/voces-de-la-extincion-api/internal/services/recording"
	"github.com/vocesdelaextincion/voces-de-la-extincion-api/internal/storage"
)

// Handler handles recording delete requests.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service describes the recording delete business logic.
type Service interface {
	Delete(ctx context.Context, id string) error
}

// New creates a new Handler instance.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Delete a recording
// @Description Deletes the remote audio object and then the local record. A remote failure aborts with both intact.
// @Tags Recordings
// @Produce json
// @Param id path string true "Recording id"
// @Success 200 {object} response.Response "Recording deleted"
// @Failure 404 {object} response.ErrorResponse "Unknown recording"
// @Failure 500 {object} response.ErrorResponse "Delete failed or stores inconsistent"
// @Security BearerAuth
// @Router /recordings/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.recording.remove"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, storage.ErrRecordingNotFound):
			log.Error("recording not found", slog.String("id", id))
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("recording not found"))
		case errors.Is(err, services.ErrCriticalInconsistency):
			log.Error("stores left inconsistent", slog.String("id", id), sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("critical inconsistency: remote file deleted but local record remains"))
		default:
			log.Error("failed to delete recording", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not delete recording"))
		}
		return
	}

	log.Info("recording deleted", slog.String("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"message": "recording deleted successfully",
	}))
}
