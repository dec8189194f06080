package httpapi

import (
	"context"
	"log/slog"
	"net/http"
)

type contextKey string

const userIDKey contextKey = "userId"

// ExtractUser reads the identity a reverse proxy put in front of the
// service. devUser, when set, stands in for a missing header.
func ExtractUser(devUser string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Traefik BasicAuth sets this header
			userID := r.Header.Get("X-Auth-User")

			if userID == "" {
				userID = r.Header.Get("X-Forwarded-User")
			}
			if userID == "" {
				userID = r.Header.Get("Remote-User")
			}

			if userID == "" && devUser != "" {
				userID = devUser
				logger.Debug("no auth header, using dev user", "user_id", devUser)
			}

			if userID == "" {
				respondError(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func UserID(r *http.Request) string {
	userID, ok := r.Context().Value(userIDKey).(string)
	if !ok {
		return ""
	}
	return userID
}
