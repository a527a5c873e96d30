// Package update implements the HTTP handler for partial recording updates.
// Omitted fields keep their stored values.
package update

import (
	"context"
	"encoding/json"
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

// Handler handles recording update requests.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service describes the recording update business logic.
type Service interface {
	Update(ctx context.Context, id string, upd models.DummyRecordingUpdate) (*models.Recording, error)
}

// New creates a new Handler instance.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Update a recording
// @Description Applies a partial metadata update. Fields absent from the body are left untouched.
// @Tags Recordings
// @Accept json
// @Produce json
// @Param id path string true "Recording id"
// @Param request body models.DummyRecordingUpdate true "Fields to update"
// @Success 200 {object} response.Response "Updated recording"
// @Failure 400 {object} response.ErrorResponse "Malformed body or invalid tags"
// @Failure 404 {object} response.ErrorResponse "Unknown recording"
// @Failure 500 {object} response.ErrorResponse "Update failed"
// @Security BearerAuth
// @Router /recordings/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.recording.update"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")

	var upd models.DummyRecordingUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.String("id", id))

	rec, err := h.service.Update(r.Context(), id, upd)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidTags):
			log.Error("invalid tags", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error(err.Error()))
		case errors.Is(err, storage.ErrRecordingNotFound):
			log.Error("recording not found", slog.String("id", id))
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("recording not found"))
		default:
			log.Error("failed to update recording", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not update recording"))
		}
		return
	}

	log.Info("recording updated", slog.String("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"recording": rec,
	}))
}
