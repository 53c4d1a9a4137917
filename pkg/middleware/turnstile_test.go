package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pypanta/blog-comments-api/pkg/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSiteverify accepts the token "pass" for the secret "s3cret"
func fakeSiteverify(t *testing.T) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Secret   string `json:"secret"`
			Response string `json:"response"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		ok := body.Secret == "s3cret" && body.Response == "pass"
		json.NewEncoder(w).Encode(map[string]any{"success": ok})
	}))

	t.Cleanup(srv.Close)
	return srv
}

func turnstileRouter(cfg middleware.TurnstileConfig) *gin.Engine {
	r := gin.New()
	r.Use(middleware.NewRequestIDMiddleware())
	r.POST("/", middleware.NewTurnstileMiddleware(cfg), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	return r
}

func postWithToken(r http.Handler, token string) int {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	if token != "" {
		req.Header.Set("TurnstileToken", token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestTurnstile(t *testing.T) {
	srv := fakeSiteverify(t)
	r := turnstileRouter(middleware.TurnstileConfig{
		Enabled:   true,
		Secret:    "s3cret",
		VerifyURL: srv.URL,
		Client:    srv.Client(),
	})

	assert.Equal(t, http.StatusBadRequest, postWithToken(r, ""))
	assert.Equal(t, http.StatusUnauthorized, postWithToken(r, "fail"))
	assert.Equal(t, http.StatusNoContent, postWithToken(r, "pass"))
}

func TestTurnstile_Unreachable(t *testing.T) {
	srv := fakeSiteverify(t)
	url := srv.URL
	srv.Close()

	r := turnstileRouter(middleware.TurnstileConfig{Enabled: true, Secret: "s3cret", VerifyURL: url})
	assert.Equal(t, http.StatusUnauthorized, postWithToken(r, "pass"))
}

func TestTurnstile_Disabled(t *testing.T) {
	r := turnstileRouter(middleware.TurnstileConfig{})
	assert.Equal(t, http.StatusNoContent, postWithToken(r, ""))
}
