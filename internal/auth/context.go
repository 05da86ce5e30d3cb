package auth

import "context"

type contextKey string

const userIDContextKey contextKey = "userID"

// ContextWithUserID stores the authenticated user id in the request context.
// Set by the auth middleware after a successful token check.
func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDContextKey, userID)
}

// UserIDFromContext returns the authenticated user id, if any.
func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDContextKey).(string)
	return userID, ok && userID != ""
}
