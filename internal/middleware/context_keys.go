package middleware

import "context"

// contextKey is a private type for request context keys.
// Using a custom type prevents collisions.
type contextKey string

const (
	userIDKey    = contextKey("userID")
	tenantIDKey  = contextKey("tenantID")
	loggerCtxKey = contextKey("logger")
)

// GetUserIDFromCtx retrieves the authenticated user ID from the request
// context. It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromCtx(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	return userID, ok
}

// GetTenantIDFromCtx retrieves the resolved tenant ID from the request
// context. Every tenant-scoped handler requires it.
func GetTenantIDFromCtx(ctx context.Context) (string, bool) {
	tenantID, ok := ctx.Value(tenantIDKey).(string)
	return tenantID, ok
}
