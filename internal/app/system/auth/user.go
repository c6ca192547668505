// internal/app/system/auth/user.go
package auth

import (
	"context"
	"net/http"
)

// SessionUser is the signed-in user as seen by handlers. It is rebuilt from
// the users collection on every request by LoadSessionUser, so role changes
// take effect immediately.
type SessionUser struct {
	ID    string
	Name  string
	Email string
	Role  string
}

// UserFetcher loads a fresh SessionUser by ID. It returns nil when the user
// no longer exists or cannot be loaded.
type UserFetcher interface {
	FetchUser(ctx context.Context, userID string) *SessionUser
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the user loaded for this request, if any.
func CurrentUser(r *http.Request) (*SessionUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*SessionUser)
	return u, ok && u != nil
}

func withUser(r *http.Request, u *SessionUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

// WithTestUser injects u into the request context, bypassing the session
// cookie. Intended for handler tests.
func WithTestUser(r *http.Request, u *SessionUser) *http.Request {
	return withUser(r, u)
}
