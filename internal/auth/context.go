package auth

import "context"

type contextKey string

const userContextKey contextKey = "currentUser"

// CurrentUser is the authenticated caller of a request.
type CurrentUser struct {
	ID       int64
	Username string
}

func WithCurrentUser(ctx context.Context, u CurrentUser) context.Context {
	return context.WithValue(ctx, userContextKey, u)
}

// FromContext returns the caller, or nil on unauthenticated requests.
func FromContext(ctx context.Context) *CurrentUser {
	u, ok := ctx.Value(userContextKey).(CurrentUser)
	if !ok {
		return nil
	}
	return &u
}

// UserIDFromContext returns the caller's id for updated_by columns.
func UserIDFromContext(ctx context.Context) *int64 {
	if u := FromContext(ctx); u != nil && u.ID > 0 {
		id := u.ID
		return &id
	}
	return nil
}
