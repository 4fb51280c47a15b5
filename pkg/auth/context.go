package auth

import (
	"context"

	apperrors "tasklist-backend/pkg/errors"
)

// UserContext carries the authenticated caller through the request context.
type UserContext struct {
	UserID string
	Email  string
	Groups []string
}

type contextKey struct{}

var userContextKey = contextKey{}

// SetUserInContext returns a context carrying the authenticated user.
func SetUserInContext(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// GetUserFromContext retrieves the authenticated user, or an
// Unauthenticated error if the auth middleware did not run.
func GetUserFromContext(ctx context.Context) (*UserContext, error) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	if !ok || user == nil {
		return nil, apperrors.NewUnauthenticatedError("no authenticated user in context")
	}
	return user, nil
}
