package auth

import (
	"context"
	"errors"
)

var ErrNotLoggedIn = errors.New("not logged in")

var _ Checker = (*LoginChecker)(nil)
var _ Checker = (*LoginTestChecker)(nil)

// Checker resolves a session token to the logged-in user id, returning
// ErrNotLoggedIn for unknown or expired tokens.
type Checker interface {
	UserIDLogged(ctx context.Context, token string) (string, error)
}
