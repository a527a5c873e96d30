// Package verifyemail implements the HTTP handler consuming verification
// tokens from the emailed link. Tokens are single-use: a second visit with
// the same token answers 400.
package verifyemail

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/vocesdelaextincion/voces-de-la-extincion-api/internal/http/response"
	"github.com/vocesdelaextincion/voces-de-la-extincion-api/internal/lib/sl"
	services "github.com/vocesdelaextincion/voces-de-la-extincion-api/internal/services/auth"
)

// Handler handles verification link visits.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service describes the verification business logic.
type Service interface {
	VerifyEmail(ctx context.Context, token string) error
}

// New creates a new Handler instance.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Verify an email address
// @Description Consumes the single-use token from the verification email and marks the account verified.
// @Tags Auth
// @Produce json
// @Param token query string true "Verification token"
// @Success 200 {object} response.Response "Email verified"
// @Failure 400 {object} response.ErrorResponse "Missing, unknown or already used token"
// @Failure 500 {object} response.ErrorResponse "Verification failed"
// @Router /auth/verify-email [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.verifyemail"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	token := r.URL.Query().Get("token")
	if token == "" {
		log.Error("missing verification token")
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing verification token"))
		return
	}

	if err := h.service.VerifyEmail(r.Context(), token); err != nil {
		if errors.Is(err, services.ErrInvalidToken) {
			log.Error("invalid or already used verification token")
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid or expired verification token"))
			return
		}
		log.Error("verification failed", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to verify email"))
		return
	}

	log.Info("email verified")
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"message": "email verified successfully",
	}))
}
