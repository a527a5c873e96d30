// Package forgotpassword implements the HTTP handler that emails a
// password-reset link.
package forgotpassword

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/vocesdelaextincion/voces-de-la-extincion-api/internal/http/response"
	"github.com/vocesdelaextincion/voces-de-la-extincion-api/internal/lib/sl"
	"github.com/vocesdelaextincion/voces-de-la-extincion-api/internal/storage"
)

// Request holds the email to send the reset link to.
type Request struct {
	Email string `json:"email" validate:"required,email"`
}

// Handler handles forgot-password requests.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service describes the password-reset business logic.
type Service interface {
	ForgotPassword(ctx context.Context, email string) error
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
// @Summary Request a password reset
// @Description Sends a time-limited reset link to the given email.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body Request true "Account email"
// @Success 200 {object} response.Response "Reset email sent"
// @Failure 400 {object} response.ErrorResponse "Malformed JSON or unknown email"
// @Failure 422 {object} response.Response "Validation error"
// @Failure 500 {object} response.ErrorResponse "Reset email failed"
// @Router /auth/forgot-password [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.forgotpassword"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	if err := h.service.ForgotPassword(r.Context(), req.Email); err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			log.Error("user does not exist", slog.String("email", req.Email))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("user does not exist"))
			return
		}
		log.Error("failed to send reset email", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to send reset email"))
		return
	}

	log.Info("reset email sent", slog.String("email", req.Email))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"message": "password reset email sent",
	}))
}
