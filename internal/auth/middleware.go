package auth

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const ClientKey contextKey = "client"

// AuthMiddleware requires a bearer token and stores its subject in the
// request context. When authentication is disabled every request runs as
// Anonymous.
func (s *Service) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.Enabled() {
			next.ServeHTTP(w, r.WithContext(WithClient(r.Context(), Anonymous)))
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing authorization header"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid authorization format"})
			return
		}

		client, err := s.ValidateToken(parts[1])
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
			return
		}

		next.ServeHTTP(w, r.WithContext(WithClient(r.Context(), client)))
	})
}

// Authenticate resolves a raw token, as passed in a websocket query string.
func (s *Service) Authenticate(token string) (string, error) {
	if !s.Enabled() {
		return Anonymous, nil
	}
	return s.ValidateToken(token)
}

func WithClient(ctx context.Context, client string) context.Context {
	return context.WithValue(ctx, ClientKey, client)
}

func ClientFromContext(ctx context.Context) string {
	client, _ := ctx.Value(ClientKey).(string)
	return client
}
