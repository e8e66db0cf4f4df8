package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamomel/queens/server/internal/database"
)

func newUsers(t *testing.T) *Users {
	t.Helper()
	db, err := database.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(context.Background(), db))
	return NewUsers(db)
}

func TestValidateSignup(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		ok       bool
	}{
		{"valid", "queen_8", "password1", true},
		{"short username", "ab", "password1", false},
		{"long username", "abcdefghijklmnopqrstuvwxy", "password1", false},
		{"bad charset", "queen-8", "password1", false},
		{"short password", "queen", "short", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSignup(tt.username, tt.password)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidSignup)
			}
		})
	}
}

func TestCreateAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	users := newUsers(t)

	u, err := users.Create(ctx, "  Alice ", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, "Alice", u.Username)
	assert.NotEqual(t, "correct horse", u.PasswordHash)

	_, err = users.Create(ctx, "alice", "another password")
	assert.ErrorIs(t, err, ErrUsernameTaken)

	got, err := users.Authenticate(ctx, "ALICE", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = users.Authenticate(ctx, "alice", "wrong password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = users.Authenticate(ctx, "nobody", "correct horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	byID, err := users.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.CreatedAt, byID.CreatedAt)
}

func TestCreateConcurrentSameName(t *testing.T) {
	ctx := context.Background()
	users := newUsers(t)

	const n = 6
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = users.Create(ctx, "racer", "correct horse")
		}()
	}
	wg.Wait()

	created := 0
	for _, err := range errs {
		if err == nil {
			created++
			continue
		}
		assert.ErrorIs(t, err, ErrUsernameTaken)
	}
	assert.Equal(t, 1, created)
}

func TestTokensRoundTrip(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)
	tok, exp, err := tokens.Sign("id-1", "alice")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := tokens.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, &Claims{ID: "id-1", Username: "alice"}, claims)

	_, err = NewTokens("other", time.Hour).Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = tokens.Parse("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokensExpire(t *testing.T) {
	tokens := NewTokens("secret", time.Minute)
	tok, _, err := tokens.Sign("id-1", "alice")
	require.NoError(t, err)

	tokens.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = tokens.Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestBearerOrCookie(t *testing.T) {
	c := Cookies{Name: "queens_token"}

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer abc")
	r.AddCookie(&http.Cookie{Name: "queens_token", Value: "cookie"})
	assert.Equal(t, "abc", c.BearerOrCookie(r))

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "queens_token", Value: "cookie"})
	assert.Equal(t, "cookie", c.BearerOrCookie(r))

	assert.Empty(t, c.BearerOrCookie(httptest.NewRequest(http.MethodGet, "/", nil)))
}

func TestEnsureAnonID(t *testing.T) {
	c := Cookies{Name: "queens_token", Secure: true}

	w := httptest.NewRecorder()
	id := c.EnsureAnonID(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotEmpty(t, id)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, AnonCookieName, cookies[0].Name)
	assert.True(t, cookies[0].Secure)
	assert.Equal(t, http.SameSiteNoneMode, cookies[0].SameSite)

	w = httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: AnonCookieName, Value: "known"})
	assert.Equal(t, "known", c.EnsureAnonID(w, r))
	assert.Empty(t, w.Result().Cookies())
}

func TestMiddleware(t *testing.T) {
	ctx := context.Background()
	users := newUsers(t)
	u, err := users.Create(ctx, "alice", "correct horse")
	require.NoError(t, err)

	a := &Authenticator{Users: users, Tokens: NewTokens("secret", time.Hour), Cookies: Cookies{Name: "queens_token"}}
	tok, _, err := a.Tokens.Sign(u.ID, u.Username)
	require.NoError(t, err)
	ghost, _, err := a.Tokens.Sign("ghost", "ghost")
	require.NoError(t, err)

	var seen *Identity
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { seen = FromContext(r.Context()) })

	tests := []struct {
		name       string
		mw         func(http.Handler) http.Handler
		token      string
		wantStatus int
		wantUser   bool
	}{
		{"optional guest", a.Optional, "", http.StatusOK, false},
		{"optional user", a.Optional, tok, http.StatusOK, true},
		{"optional bad token", a.Optional, "junk", http.StatusOK, false},
		{"require missing", a.Require, "", http.StatusUnauthorized, false},
		{"require bad token", a.Require, "junk", http.StatusUnauthorized, false},
		{"require deleted user", a.Require, ghost, http.StatusUnauthorized, false},
		{"require user", a.Require, tok, http.StatusOK, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = nil
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.token != "" {
				r.Header.Set("Authorization", "Bearer "+tt.token)
			}
			w := httptest.NewRecorder()
			tt.mw(h).ServeHTTP(w, r)
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantUser {
				require.NotNil(t, seen)
				assert.Equal(t, u.ID, seen.ID)
			} else {
				assert.Nil(t, seen)
			}
		})
	}
}
