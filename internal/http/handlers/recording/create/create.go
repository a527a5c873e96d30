// Package create implements the HTTP handler for creating recordings.
//
// The handler accepts either a plain JSON body with metadata or a
// multipart/form-data request whose audioFile part carries the audio to
// upload. Tags may arrive as a JSON array or as a JSON-encoded string, both
// are passed through raw and parsed by the service.
package create

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/vocesdelaextincion/voces-de-la-extincion-api/internal/http/response"
	"github.com/vocesdelaextincion/voces-de-la-extincion-api/internal/lib/sl"
	"github.com/vocesdelaextincion/voces-de-la-extincion-api/internal/models"
	"github.com/vocesdelaextincion/voces-de-la-extincion-api/internal/storage"
)

// audioFieldName is the multipart field holding the audio file.
const audioFieldName = "audioFile"

// maxUploadSize caps multipart request memory at 32 MiB.
const maxUploadSize = 32 << 20

// Handler handles recording creation requests.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service describes the recording creation business logic.
type Service interface {
	Create(ctx context.Context, entry models.DummyRecording, file *models.UploadedFile) (*models.Recording, error)
}

// New creates a new Handler instance.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Create a recording
// @Description Stores a new recording. Accepts JSON metadata or multipart/form-data with an optional audioFile part.
// @Tags Recordings
// @Accept json
// @Accept mpfd
// @Produce json
// @Param request body models.DummyRecording true "Recording metadata"
// @Success 201 {object} response.Response "Created recording"
// @Failure 400 {object} response.ErrorResponse "Malformed body or invalid tags"
// @Failure 409 {object} response.ErrorResponse "Duplicate audio file reference"
// @Failure 422 {object} response.Response "Validation error"
// @Failure 500 {object} response.ErrorResponse "Creation failed"
// @Security BearerAuth
// @Router /recordings [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.recording.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	entry, file, err := decodeRequest(r)
	if err != nil {
		log.Error("failed to decode request", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request decoded", slog.String("name", entry.Name), slog.Bool("has_audio", file != nil))

	if err := h.validate.Struct(entry); err != nil {
		log.Error("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated")

	rec, err := h.service.Create(r.Context(), entry, file)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidTags):
			log.Error("invalid tags", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error(err.Error()))
		case errors.Is(err, storage.ErrDuplicate):
			log.Error("duplicate audio file reference", sl.Err(err))
			render.Status(r, http.StatusConflict)
			render.JSON(w, r, response.Error("recording with this audio file already exists"))
		default:
			log.Error("failed to create recording", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not create recording"))
		}
		return
	}

	log.Info("recording created", slog.String("id", rec.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"recording": rec,
	}))
}

// decodeRequest reads metadata and the optional audio file out of either a
// JSON or a multipart body.
func decodeRequest(r *http.Request) (models.DummyRecording, *models.UploadedFile, error) {
	var entry models.DummyRecording

	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "multipart/form-data" {
		if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
			return entry, nil, err
		}
		return entry, nil, nil
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		return entry, nil, err
	}

	entry.Name = r.FormValue("name")
	entry.Duration = r.FormValue("duration")
	entry.Location = r.FormValue("location")
	entry.Date = r.FormValue("date")
	entry.Time = r.FormValue("time")
	if tags := r.FormValue("tags"); tags != "" {
		entry.Tags = json.RawMessage(tags)
	}

	f, header, err := r.FormFile(audioFieldName)
	if errors.Is(err, http.ErrMissingFile) {
		return entry, nil, nil
	}
	if err != nil {
		return entry, nil, err
	}
	defer func() {
		_ = f.Close()
	}()

	data, err := io.ReadAll(f)
	if err != nil {
		return entry, nil, err
	}
	return entry, &models.UploadedFile{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
