package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/divvyhq/divvy/internal/auth"
	"github.com/divvyhq/divvy/internal/models"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// UserIDKey is the context key for storing the authenticated user ID.
	UserIDKey contextKey = "user_id"
	// EmailKey is the context key for storing the authenticated user's email.
	EmailKey contextKey = "email"
)

// GetUserID extracts the authenticated member id from the context.
// Returns empty string if not found.
func GetUserID(ctx context.Context) models.MemberID {
	userID, _ := ctx.Value(UserIDKey).(string)
	return models.MemberID(userID)
}

// GetEmail extracts the authenticated user's email from the context.
// Returns empty string if not found.
func GetEmail(ctx context.Context) string {
	email, _ := ctx.Value(EmailKey).(string)
	return email
}

// WithUserID returns a context carrying the given member id.
func WithUserID(ctx context.Context, id models.MemberID) context.Context {
	return context.WithValue(ctx, UserIDKey, string(id))
}

// RequireAuth wraps a handler so it only runs for requests with a valid
// Bearer token. The user id and email from the token claims are added to
// the request context.
func RequireAuth(jwtManager *auth.JWTManager, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, auth.ErrMissingToken.Error(), http.StatusUnauthorized)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			http.Error(w, auth.ErrInvalidToken.Error(), http.StatusUnauthorized)
			return
		}

		claims, err := jwtManager.Validate(parts[1])
		if err != nil {
			http.Error(w, auth.ErrInvalidToken.Error(), http.StatusUnauthorized)
			return
		}

		ctx := WithUserID(r.Context(), models.MemberID(claims.UserID))
		ctx = context.WithValue(ctx, EmailKey, claims.Email)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
