// Package register implements the HTTP handler for account registration.
//
// A successful registration stores an unverified account and sends the
// verification email. If the email cannot be sent the account is not kept,
// so the whole operation either completes or leaves no trace.
package register

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
)

// Request holds the registration input.
type Request struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// Handler handles registration requests.
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
// @Summary Register a new account
// @Description Creates an unverified account and sends a verification email. The account is rolled back if the email cannot be sent.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body Request true "Registration credentials"
// @Success 201 {object} response.Response "Account created, verification email sent"
// @Failure 400 {object} response.ErrorResponse "Malformed JSON"
// @Failure 409 {object} response.ErrorResponse "Email already registered"
// @Failure 422 {object} response.Response "Validation error"
// @Failure 500 {object} response.ErrorResponse "Registration failed"
// @Router /auth/register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"

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

	if err := h.service.Register(r.Context(), req.Email, req.Password); err != nil {
		if errors.Is(err, services.ErrUserExists) {
			log.Error("email already registered", slog.String("email", req.Email))
			render.Status(r, http.StatusConflict)
			render.JSON(w, r, response.Error("user already exists"))
			return
		}
		log.Error("registration failed", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to register user"))
		return
	}

	log.Info("user registered, verification email sent", slog.String("email", req.Email))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"email":   req.Email,
		"message": "user created, verification email sent",
	}))
}
