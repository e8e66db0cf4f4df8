package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	AnonCookieName = "queens_anon"
	anonCookieTTL  = 180 * 24 * time.Hour
)

// Cookies writes the auth and anonymous-player cookies.
// Secure cookies use SameSite=None so cross-site clients keep them.
type Cookies struct {
	Name   string
	Secure bool
}

func (c Cookies) sameSite() http.SameSite {
	if c.Secure {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}

// SetAuth writes the token cookie.
func (c Cookies) SetAuth(w http.ResponseWriter, token string, exp time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: c.sameSite(),
		Expires:  exp,
	})
}

// ClearAuth deletes the token cookie.
func (c Cookies) ClearAuth(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: c.sameSite(),
		MaxAge:   -1,
	})
}

// BearerOrCookie extracts a token from the Authorization header or the auth cookie.
func (c Cookies) BearerOrCookie(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if ck, err := r.Cookie(c.Name); err == nil {
		return ck.Value
	}
	return ""
}

// AnonID returns the anonymous-player cookie value, if any.
func AnonID(r *http.Request) string {
	if ck, err := r.Cookie(AnonCookieName); err == nil {
		return ck.Value
	}
	return ""
}

// EnsureAnonID returns the existing anonymous id or sets a new one.
func (c Cookies) EnsureAnonID(w http.ResponseWriter, r *http.Request) string {
	if id := AnonID(r); id != "" {
		return id
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     AnonCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: c.sameSite(),
		Expires:  time.Now().Add(anonCookieTTL),
	})
	return id
}
