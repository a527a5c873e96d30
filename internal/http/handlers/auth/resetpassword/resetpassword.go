// Package resetpassword implements the HTTP handler that consumes a reset
// token and stores a new password. Session tokens are rejected here.
package resetpassword

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
	services "github.com/vocesdelaextincion/voces-de-la-extincion-api/internal/services/auth"
)

// Request holds the reset token and the new password.
type Request struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

// Handler handles reset-password requests.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service describes the password-reset business logic.
type Service interface {
	ResetPassword(ctx context.Context, token, password string) error
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
// @Summary Reset a password
// @Description Consumes a reset token from the emailed link and stores the new password.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body Request true "Reset token and new password"
// @Success 200 {object} response.Response "Password updated"
// @Failure 400 {object} response.ErrorResponse "Malformed JSON or invalid token"
// @Failure 422 {object} response.Response "Validation error"
// @Failure 500 {object} response.ErrorResponse "Reset failed"
// @Router /auth/reset-password [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.resetpassword"

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

	if err := h.service.ResetPassword(r.Context(), req.Token, req.Password); err != nil {
		if errors.Is(err, services.ErrInvalidToken) {
			log.Error("invalid or expired reset token")
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid or expired reset token"))
			return
		}
		log.Error("failed to reset password", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to reset password"))
		return
	}

	log.Info("password reset")
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"message": "password updated successfully",
	}))
}
