package middleware

import (
	"context"
	"net/http"

	"go.uber.org/zap"
)

type contextKey string

const (
	UserIDKey contextKey = "user_id"
)

// IdentityMiddleware attaches the calling user's ID to the request
// context. There is no real authentication yet: every request runs as a
// single configured pseudo-user. Handlers and services only ever read
// the ID from context, so a real auth layer can replace this middleware
// without touching cart or checkout logic.
func IdentityMiddleware(pseudoUserID string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), UserIDKey, pseudoUserID)

			logger.Debug("Request identity resolved",
				zap.String("user_id", pseudoUserID),
			)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserID extracts the user ID from request context
func GetUserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok
}
