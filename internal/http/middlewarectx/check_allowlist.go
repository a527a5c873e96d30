package middlewarectx

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/vocesdelaextincion/voces-de-la-extincion-api/internal/http/response"
)

// AllowedEmailsMiddleware creates middleware that admits only the configured
// set of emails. The check runs after token validation, so a valid session
// from an address outside the list still gets 401.
func AllowedEmailsMiddleware(log *slog.Logger, allowedEmails []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.AllowedEmailsMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			email, ok := r.Context().Value(Email).(string)
			if !ok || email == "" {
				log.Error("user identification missing")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("unauthorized. invalid email"))
				return
			}

			allowed := false
			for _, candidate := range allowedEmails {
				if strings.EqualFold(candidate, email) {
					allowed = true
					break
				}
			}
			if !allowed {
				log.Error("email is not on the allow-list", slog.String("email", email))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("unauthorized. invalid email"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
