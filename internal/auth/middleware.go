// internal/auth/middleware.go
//
// Request authentication.
//   - Optional decorates requests with the user when a valid token is present; never 401s.
//   - Require enforces a valid token for a user that still exists.

package auth

import (
	"context"
	"net/http"
)

// Identity is placed into the request context by the middleware.
type Identity struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type ctxUserKey struct{}

// WithIdentity returns ctx carrying id.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, ctxUserKey{}, id)
}

// FromContext returns the authenticated identity, or nil for guests.
func FromContext(ctx context.Context) *Identity {
	id, _ := ctx.Value(ctxUserKey{}).(*Identity)
	return id
}

// Authenticator ties tokens, cookies, and the user table together.
type Authenticator struct {
	Users   *Users
	Tokens  *Tokens
	Cookies Cookies
}

func (a *Authenticator) identify(r *http.Request) (*Identity, bool) {
	tok := a.Cookies.BearerOrCookie(r)
	if tok == "" {
		return nil, false
	}
	claims, err := a.Tokens.Parse(tok)
	if err != nil {
		return nil, false
	}
	// token must still map to a user
	u, err := a.Users.FindByID(r.Context(), claims.ID)
	if err != nil {
		return nil, false
	}
	return &Identity{ID: u.ID, Username: u.Username}, true
}

// Optional decorates requests with the user if a valid JWT is present.
func (a *Authenticator) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, ok := a.identify(r); ok {
			r = r.WithContext(WithIdentity(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}

// Require rejects requests without a valid JWT.
func (a *Authenticator) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.Cookies.BearerOrCookie(r) == "" {
			http.Error(w, `{"error":"Unauthorized"}`, http.StatusUnauthorized)
			return
		}
		id, ok := a.identify(r)
		if !ok {
			http.Error(w, `{"error":"Invalid token"}`, http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
	})
}
