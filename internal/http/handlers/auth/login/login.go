// Package login implements the HTTP handler for authentication requests.
//
// An unknown email answers 400, a wrong password 401 and an unverified
// account 403, before any token is minted.
package login

import (
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
	"github.com/vocesdelaextincion/voces-de-la-extincion-api/internal/storage"
)

// Request holds the login credentials.
type Request struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Handler handles login requests.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
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
// @Summary Log in
// @Description Authenticates a verified account by email and password, returning a session token.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body Request true "Login credentials"
// @Success 200 {object} response.Response "Session token"
// @Failure 400 {object} response.ErrorResponse "Malformed JSON or unknown email"
// @Failure 401 {object} response.ErrorResponse "Wrong password"
// @Failure 403 {object} response.ErrorResponse "Email not verified"
// @Failure 422 {object} response.Response "Validation error"
// @Failure 500 {object} response.ErrorResponse "Login failed"
// @Router /auth/login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"

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
	log.Info("request body decoded", slog.String("email", req.Email))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated")

	token, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrUserNotFound):
			log.Error("user does not exist", slog.String("email", req.Email))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("user does not exist"))
		case errors.Is(err, services.ErrInvalidCredentials):
			log.Error("invalid credentials", slog.String("email", req.Email))
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("invalid credentials"))
		case errors.Is(err, services.ErrNotVerified):
			log.Error("email is not verified", slog.String("email", req.Email))
			render.Status(r, http.StatusForbidden)
			render.JSON(w, r, response.Error("email is not verified"))
		default:
			log.Error("login failed", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to log in"))
		}
		return
	}

	log.Info("login success", slog.String("email", req.Email))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"token": token,
	}))
}
