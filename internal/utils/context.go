package utils

import "context"

type contextKey string

const (
	UserUIDKey   contextKey = "user_uid"
	UserEmailKey contextKey = "email"
	UserRoleKey  contextKey = "role"
)

// SetUserContext sets the verified identity into context (called by middleware).
func SetUserContext(ctx context.Context, uid, email, role string) context.Context {
	ctx = context.WithValue(ctx, UserUIDKey, uid)
	ctx = context.WithValue(ctx, UserEmailKey, email)
	ctx = context.WithValue(ctx, UserRoleKey, role)
	return ctx
}

// GetUserUIDFromContext retrieves the caller's stable id safely.
func GetUserUIDFromContext(ctx context.Context) (string, bool) {
	uid, ok := ctx.Value(UserUIDKey).(string)
	return uid, ok && uid != ""
}

func GetUserEmailFromContext(ctx context.Context) string {
	email, _ := ctx.Value(UserEmailKey).(string)
	return email
}

func GetUserRoleFromContext(ctx context.Context) string {
	role, _ := ctx.Value(UserRoleKey).(string)
	return role
}
