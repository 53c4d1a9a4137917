package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pypanta/blog-comments-api/internal"
	"github.com/pypanta/blog-comments-api/internal/testutil"
	"github.com/pypanta/blog-comments-api/pkg/middleware"
	"github.com/pypanta/blog-comments-api/pkg/security"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func sessionRouter(d *internal.Deps, mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(middleware.NewRequestIDMiddleware())

	handlers := append(mw, func(c *gin.Context) {
		u := middleware.CurrentUser(c)
		if u == nil {
			c.String(http.StatusOK, "anonymous")
			return
		}

		c.String(http.StatusOK, u.Email)
	})

	r.GET("/", handlers...)
	return r
}

func get(r http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: security.AccessCookie, Value: token})
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSessionMiddleware(t *testing.T) {
	d := testutil.NewTestDeps(t)
	testutil.NewTestUser(t, d, "alice", "alice@example.com", "secret123", false)
	r := sessionRouter(d, middleware.NewSessionMiddleware(d.Tokens, d.Accounts))

	valid, err := d.Tokens.Issue("alice@example.com", time.Minute)
	require.NoError(t, err)

	w := get(r, valid)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice@example.com", w.Body.String())

	ghost, err := d.Tokens.Issue("ghost@example.com", time.Minute)
	require.NoError(t, err)

	forged, err := security.NewTokenIssuer("another-secret").Issue("alice@example.com", time.Minute)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"no cookie":    "",
		"garbage":      "not.a.token",
		"unknown user": ghost,
		"wrong secret": forged,
	} {
		t.Run(name, func(t *testing.T) {
			w := get(r, token)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), "Token is not valid or expired")
		})
	}
}

func TestSessionMiddleware_Expired(t *testing.T) {
	d := testutil.NewTestDeps(t)
	testutil.NewTestUser(t, d, "alice", "alice@example.com", "secret123", false)
	r := sessionRouter(d, middleware.NewSessionMiddleware(d.Tokens, d.Accounts))

	past := security.NewTokenIssuer(testutil.Secret).WithClock(func() time.Time {
		return time.Now().Add(-time.Hour)
	})

	token, err := past.Issue("alice@example.com", time.Minute)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, get(r, token).Code)
}

func TestOptionalSessionMiddleware(t *testing.T) {
	d := testutil.NewTestDeps(t)
	testutil.NewTestUser(t, d, "alice", "alice@example.com", "secret123", false)
	r := sessionRouter(d, middleware.NewOptionalSessionMiddleware(d.Tokens, d.Accounts))

	w := get(r, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "anonymous", w.Body.String())

	w = get(r, "not.a.token")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "anonymous", w.Body.String())

	valid, err := d.Tokens.Issue("alice@example.com", time.Minute)
	require.NoError(t, err)

	w = get(r, valid)
	assert.Equal(t, "alice@example.com", w.Body.String())
}

func TestRequireAdmin(t *testing.T) {
	d := testutil.NewTestDeps(t)
	testutil.NewTestUser(t, d, "alice", "alice@example.com", "secret123", false)
	testutil.NewTestUser(t, d, "admin", "admin@example.com", "secret123", true)
	r := sessionRouter(d, middleware.NewSessionMiddleware(d.Tokens, d.Accounts), middleware.RequireAdmin())

	user, err := d.Tokens.Issue("alice@example.com", time.Minute)
	require.NoError(t, err)

	w := get(r, user)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "You are not authorized")

	admin, err := d.Tokens.Issue("admin@example.com", time.Minute)
	require.NoError(t, err)

	w = get(r, admin)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "admin@example.com", w.Body.String())
}
