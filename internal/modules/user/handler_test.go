package user

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"kindremind/internal/domain"
	"kindremind/internal/middleware"
	"kindremind/internal/pkg/jwt"
	"kindremind/internal/pkg/response"
	"kindremind/internal/repository"
)

type mockReader struct {
	mock.Mock
}

func (m *mockReader) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type testClock struct{ now time.Time }

func (c *testClock) Now() time.Time { return c.now }

func setup(t *testing.T, reader UserReader) (*gin.Engine, *jwt.Service, *testClock) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	clk := &testClock{now: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)}
	codec, err := jwt.New(jwt.Config{
		AccessSecret:  "access-test",
		RefreshSecret: "refresh-test",
		EmailSecret:   "email-test",
		AccessTTL:     2 * time.Minute,
		RefreshTTL:    24 * time.Hour,
		EmailTTL:      time.Hour,
	}, jwt.WithClock(clk.Now))
	require.NoError(t, err)

	r := gin.New()
	protected := r.Group("/kind-remind")
	protected.Use(middleware.RequireAuth(codec, nil, zap.NewNop()))
	NewHandler(reader).RegisterProtectedRoutes(protected)
	return r, codec, clk
}

func get(t *testing.T, r http.Handler, path, access string, refresh string) (*httptest.ResponseRecorder, response.Envelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Authorization", "Bearer "+access)
	if refresh != "" {
		req.AddCookie(&http.Cookie{Name: middleware.RefreshCookie, Value: refresh})
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w, env
}

func TestDashboard(t *testing.T) {
	r, codec, _ := setup(t, new(mockReader))
	access, err := codec.Issue(jwt.Access, 42)
	require.NoError(t, err)

	w, env := get(t, r, "/kind-remind/dashboard", access, "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Welcome to your dashboard page, 42", env.Message)
	require.NotNil(t, env.Data.Authentication)
	assert.Nil(t, env.Data.Authentication.OldAccessToken)
	assert.Equal(t, access, env.Data.Authentication.NewAccessToken)
	assert.Contains(t, w.Body.String(), `"payload":{"userId":42,"page":"dashboard"}`)
}

func TestDashboard_AfterRotation(t *testing.T) {
	r, codec, clk := setup(t, new(mockReader))
	access, err := codec.Issue(jwt.Access, 42)
	require.NoError(t, err)
	refresh, err := codec.Issue(jwt.Refresh, 42)
	require.NoError(t, err)
	clk.now = clk.now.Add(5 * time.Minute)

	w, env := get(t, r, "/kind-remind/dashboard", access, refresh)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, env.Data.Authentication.OldAccessToken)
	assert.Equal(t, access, *env.Data.Authentication.OldAccessToken)
	assert.Equal(t, "Bearer "+env.Data.Authentication.NewAccessToken, w.Header().Get("Authorization"))
}

func TestProfile(t *testing.T) {
	reader := new(mockReader)
	reader.On("GetByID", mock.Anything, int64(42)).Return(&domain.User{
		ID: 42, Username: "bob", Email: "bob@x.com", PasswordHash: "secret-hash", Verified: true,
	}, nil)
	r, codec, _ := setup(t, reader)
	access, err := codec.Issue(jwt.Access, 42)
	require.NoError(t, err)

	w, env := get(t, r, "/kind-remind/profile", access, "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Profile retrieved successfully", env.Message)
	assert.Contains(t, w.Body.String(), `"user":{"userId":42,"username":"bob","email":"bob@x.com","verified":true}`)
	assert.False(t, strings.Contains(w.Body.String(), "secret-hash"))
}

func TestProfile_Errors(t *testing.T) {
	reader := new(mockReader)
	reader.On("GetByID", mock.Anything, int64(1)).Return(nil, repository.ErrUserNotFound)
	reader.On("GetByID", mock.Anything, int64(2)).Return(nil, errors.New("db down"))
	r, codec, _ := setup(t, reader)

	gone, err := codec.Issue(jwt.Access, 1)
	require.NoError(t, err)
	w, env := get(t, r, "/kind-remind/profile", gone, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "User not found", env.Message)

	broken, err := codec.Issue(jwt.Access, 2)
	require.NoError(t, err)
	w, env = get(t, r, "/kind-remind/profile", broken, "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Server error", env.Message)
}

func TestPages_RequireAccessToken(t *testing.T) {
	r, _, _ := setup(t, new(mockReader))

	for _, path := range []string{"/kind-remind/dashboard", "/kind-remind/profile"} {
		w, env := get(t, r, path, "", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
		assert.Equal(t, "Access token missing", env.Message, path)
	}
}
