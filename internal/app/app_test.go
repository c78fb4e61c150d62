package app

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"kindremind/internal/config"
	jwtsvc "kindremind/internal/pkg/jwt"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		AppEnv:      "test",
		HTTPAddr:    "127.0.0.1:0",
		DatabaseURL: fmt.Sprintf("file:app_%s?mode=memory&cache=shared", t.Name()),
		JWT: jwtsvc.Config{
			AccessSecret:  "access-test",
			RefreshSecret: "refresh-test",
			EmailSecret:   "email-test",
			AccessTTL:     2 * time.Minute,
			RefreshTTL:    24 * time.Hour,
			EmailTTL:      time.Hour,
		},
		CookiePath:         "/",
		CORSAllowedOrigins: []string{"http://localhost:5173"},
		FrontendURL:        "http://localhost:5173",
	}
}

func newTestApp(t *testing.T, cfg *config.Config) *App {
	t.Helper()
	gin.SetMode(gin.TestMode)

	a, err := New(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Shutdown(context.Background()) })
	return a
}

func TestApp_Health(t *testing.T) {
	a := newTestApp(t, testConfig(t))

	w := httptest.NewRecorder()
	a.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"success","message":"ok","data":{}}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestApp_RoutesWired(t *testing.T) {
	a := newTestApp(t, testConfig(t))

	body := `{"username":"bob","email":"bob@x.com","password":"p1"}`
	req := httptest.NewRequest(http.MethodPost, "/kind-remind/signup", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	a.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	a.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/kind-remind/dashboard", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Access token missing")
}

func TestApp_RejectsBadTokenConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.JWT.RefreshSecret = cfg.JWT.AccessSecret

	_, err := New(context.Background(), cfg, zap.NewNop())
	assert.Error(t, err)
}

func TestApp_RedisUnreachable(t *testing.T) {
	cfg := testConfig(t)
	cfg.RedisAddr = "127.0.0.1:1"

	_, err := New(context.Background(), cfg, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connect redis")
}
