// Package auth resolves opaque session tokens to user ids. Session rows
// are written by the identity layer, this service only validates them.
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/resumine/resumine/internal/cache"
	"github.com/resumine/resumine/internal/store"
)

// ErrNoSession is returned when no valid session matches the token.
var ErrNoSession = errors.New("invalid or expired session")

const sessionCookie = "resumine_session"

// Identity resolves a bearer token to a user id.
type Identity interface {
	Resolve(ctx context.Context, token string) (string, error)
}

var _ Identity = (*SessionIdentity)(nil)

// SessionIdentity validates tokens against the sessions table with a
// short-lived cache in front.
type SessionIdentity struct {
	store store.Store
	cache *cache.Redis
}

func NewSessionIdentity(store store.Store, cache *cache.Redis) *SessionIdentity {
	return &SessionIdentity{
		store: store,
		cache: cache,
	}
}

func (s *SessionIdentity) Resolve(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrNoSession
	}

	if s.cache != nil {
		if userID, err := s.cache.GetSessionUser(ctx, token); err == nil && userID != "" {
			return userID, nil
		}
	}

	session, err := s.store.GetSessionByToken(ctx, token)
	if err != nil {
		return "", ErrNoSession
	}

	if s.cache != nil {
		_ = s.cache.SetSessionUser(ctx, token, session.UserID)
	}

	return session.UserID, nil
}

// TokenFromRequest extracts the session token from the Authorization
// header, falling back to the session cookie.
func TokenFromRequest(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}

	if c, err := r.Cookie(sessionCookie); err == nil {
		return c.Value
	}

	return ""
}
