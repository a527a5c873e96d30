package middlewarectx

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

// UserProvider loads accounts for the verification gate.
type UserProvider interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// RequireVerificationMiddleware creates middleware that rejects accounts
// whose email was never verified with 403.
func RequireVerificationMiddleware(log *slog.Logger, users UserProvider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.RequireVerificationMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			email, ok := r.Context().Value(Email).(string)
			if !ok || email == "" {
				log.Error("user identification missing")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("user identification missing"))
				return
			}

			user, err := users.GetUserByEmail(r.Context(), email)
			if err != nil {
				log.Error("failed to load user", sl.Err(err))
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error("internal service error"))
				return
			}
			if !user.Verified {
				log.Error("email not verified, access denied", slog.String("email", email))
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error("email is not verified"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
