package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"slices"

	"github.com/rs/zerolog/log"

	"tolldesk/auth"
	"tolldesk/models"
	"tolldesk/session"
)

type contextKey string

const SessionContextKey contextKey = "session"

// AuthMiddleware validates access tokens and injects the caller's session into context
func AuthMiddleware(jwtManager *auth.JWTManager, sessions *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeError(w, "Authentication required", http.StatusUnauthorized)
				return
			}

			token, err := auth.ExtractToken(authHeader)
			if err != nil {
				writeError(w, "Invalid authorization header", http.StatusUnauthorized)
				return
			}

			claims, err := jwtManager.ValidateToken(token)
			if err != nil || claims.Refresh {
				writeError(w, "Invalid or expired token", http.StatusUnauthorized)
				return
			}

			s, err := sessions.Get(r.Context(), claims.SessionID())
			if err != nil {
				if !errors.Is(err, session.ErrNoSession) {
					log.Error().Err(err).Str("session", claims.SessionID()).Msg("failed to restore session")
				}
				writeError(w, "Session expired", http.StatusUnauthorized)
				return
			}

			ctx := WithSession(r.Context(), s)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSessionFromContext retrieves the session from the request context
func GetSessionFromContext(ctx context.Context) (*session.Session, bool) {
	s, ok := ctx.Value(SessionContextKey).(*session.Session)
	return s, ok
}

// WithSession returns a copy of ctx carrying s.
func WithSession(ctx context.Context, s *session.Session) context.Context {
	return context.WithValue(ctx, SessionContextKey, s)
}

// RequireRole middleware checks if the session user has one of the allowed roles
func RequireRole(allowedRoles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, ok := GetSessionFromContext(r.Context())
			if !ok {
				writeError(w, "Session not found in context", http.StatusUnauthorized)
				return
			}

			if !slices.Contains(allowedRoles, s.User.Role) {
				writeError(w, "Insufficient permissions", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	})
}
