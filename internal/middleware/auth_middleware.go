package middleware

import (
	"context"
	"net/http"
	"strings"

	"image_gateway/internal/auth"
	"image_gateway/internal/utils"
)

// ContextKey is a dedicated type for request context keys
type ContextKey string

const (
	// SessionClaimsKey holds the verified session claims
	SessionClaimsKey ContextKey = "sessionClaims"
	// UserIDKey holds the authenticated user's ID
	UserIDKey ContextKey = "userID"
)

// SessionMiddleware validates the bearer session token and stores the
// authenticated user in the request context.
func SessionMiddleware(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := r.Header.Get("Authorization")
			if tokenString == "" {
				utils.RespondWithError(w, http.StatusUnauthorized, "Missing authentication token")
				return
			}
			tokenString = strings.TrimPrefix(tokenString, "Bearer ")

			claims, err := auth.ValidateSessionToken(tokenString, secret)
			if err != nil {
				utils.RespondWithError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), SessionClaimsKey, claims)
			ctx = context.WithValue(ctx, UserIDKey, claims.UserID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSessionClaims retrieves the session claims from the request context
func GetSessionClaims(ctx context.Context) (*auth.SessionClaims, bool) {
	claims, ok := ctx.Value(SessionClaimsKey).(*auth.SessionClaims)
	return claims, ok
}

// GetUserID retrieves the authenticated user ID from the request context
func GetUserID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(UserIDKey).(string)
	return id, ok
}
