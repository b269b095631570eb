package middleware

import (
	"context"
	"net/http"
	"strings"

	"workhub-project/backend/logging"
	"workhub-project/backend/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type contextKey string

const (
	userIDKey   contextKey = "currentUserID"
	usernameKey contextKey = "currentUsername"
)

// JWTAuthMiddleware validates the bearer token and injects the acting user
// into the request context. Every /api route except register/login sits
// behind it.
func JWTAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			logging.Logger.Warnf("Event ID: JWT_AUTH_MISSING_HEADER, Description: Authorization header missing for request to %s %s", r.Method, r.URL.Path)
			http.Error(w, "Authorization header missing", http.StatusUnauthorized)
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := utils.ValidateToken(tokenStr)
		if err != nil {
			logging.Logger.Warnf("Event ID: JWT_AUTH_INVALID_TOKEN, Description: Invalid token provided for request to %s %s: %v", r.Method, r.URL.Path, err)
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		userID, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			logging.Logger.Warnf("Event ID: JWT_AUTH_BAD_SUBJECT, Description: Token carries a malformed user id: %v", err)
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		ctx = context.WithValue(ctx, usernameKey, claims.Username)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CurrentUserID returns the authenticated user id placed in the context by
// JWTAuthMiddleware.
func CurrentUserID(ctx context.Context) (primitive.ObjectID, bool) {
	id, ok := ctx.Value(userIDKey).(primitive.ObjectID)
	return id, ok
}

// CurrentUsername returns the authenticated username, if present.
func CurrentUsername(ctx context.Context) string {
	name, _ := ctx.Value(usernameKey).(string)
	return name
}
