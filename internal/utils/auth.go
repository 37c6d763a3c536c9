package utils

import "context"

// SetSessionContext stores the authenticated session (called by middleware).
func SetSessionContext(ctx context.Context, sessionID, role string) context.Context {
	ctx = context.WithValue(ctx, SessionIDKey, sessionID)
	ctx = context.WithValue(ctx, RoleKey, role)
	return ctx
}

// GetSessionIDFromContext retrieves the session id safely
func GetSessionIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(SessionIDKey).(string)
	return id, ok && id != ""
}

func GetRoleFromContext(ctx context.Context) string {
	role, _ := ctx.Value(RoleKey).(string)
	return role
}

func IsAdmin(ctx context.Context) bool {
	return GetRoleFromContext(ctx) == RoleAdmin
}
