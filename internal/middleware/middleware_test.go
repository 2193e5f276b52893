package middleware_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"petstore/internal/config"
	"petstore/internal/domain/model"
	"petstore/internal/middleware"
	"petstore/internal/repository"
)

type mwErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Path    string `json:"path"`
}

type mwOKResponse struct {
	UserID       int64  `json:"userId"`
	Role         string `json:"role"`
	TokenVersion int    `json:"tokenVersion"`
}

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *MockUserRepo) FindByID(ctx context.Context, id int64) (*model.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *MockUserRepo) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepo) IncrementTokenVersion(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

var _ repository.UserRepository = (*MockUserRepo)(nil)

func mustMakeJWT(t *testing.T, secret string, sub string, role string, tv int, exp time.Time, method jwt.SigningMethod) string {
	t.Helper()

	claims := jwt.MapClaims{
		"sub":  sub,
		"role": role,
		"tv":   tv,
		"iat":  time.Now().Unix(),
		"exp":  exp.Unix(),
	}
	s, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func validJWT(t *testing.T, secret string, sub string, role string, tv int) string {
	return mustMakeJWT(t, secret, sub, role, tv, time.Now().Add(time.Hour), jwt.SigningMethodHS256)
}

func runRequest(t *testing.T, e *echo.Echo, authHeader string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeMWError(t *testing.T, rec *httptest.ResponseRecorder) mwErrorResponse {
	t.Helper()
	var r mwErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&r))
	return r
}

func okHandler(c echo.Context) error {
	userID, _ := c.Get(middleware.CtxUserIDKey).(int64)
	role, _ := c.Get(middleware.CtxUserRoleKey).(string)
	tv, _ := c.Get(middleware.CtxTokenVersionKey).(int)
	return c.JSON(http.StatusOK, mwOKResponse{UserID: userID, Role: role, TokenVersion: tv})
}

func TestAuthJWT_Unauthorized(t *testing.T) {
	cfg := config.Config{JWTSecret: "test-secret"}

	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"bad scheme", "Token abc.def.ghi"},
		{"empty token", "Bearer  "},
		{"bad signature", "Bearer " + validJWT(t, "wrong-secret", "1", "USER", 0)},
		{"wrong alg", "Bearer " + mustMakeJWT(t, cfg.JWTSecret, "1", "USER", 0, time.Now().Add(time.Hour), jwt.SigningMethodHS512)},
		{"expired", "Bearer " + mustMakeJWT(t, cfg.JWTSecret, "1", "USER", 0, time.Now().Add(-time.Minute), jwt.SigningMethodHS256)},
		{"bad sub", "Bearer " + validJWT(t, cfg.JWTSecret, "abc", "USER", 0)},
		{"empty role", "Bearer " + validJWT(t, cfg.JWTSecret, "1", "", 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			e.GET("/protected", okHandler, middleware.AuthJWT(cfg))

			rec := runRequest(t, e, tt.header)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)

			body := decodeMWError(t, rec)
			assert.Equal(t, "unauthorized", body.Message)
			assert.Equal(t, http.StatusUnauthorized, body.Status)
			assert.Equal(t, "/protected", body.Path)
		})
	}
}

// 正常：ctxに値が入る
func TestAuthJWT_Success_SetsContext(t *testing.T) {
	e := echo.New()
	cfg := config.Config{JWTSecret: "test-secret"}
	e.GET("/protected", okHandler, middleware.AuthJWT(cfg))

	rec := runRequest(t, e, "Bearer "+validJWT(t, cfg.JWTSecret, "123", "USER", 7))
	require.Equal(t, http.StatusOK, rec.Code)

	var body mwOKResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, int64(123), body.UserID)
	assert.Equal(t, "USER", body.Role)
	assert.Equal(t, 7, body.TokenVersion)
}

// AuthJWT無しでGuardだけ => 401
func TestTokenVersionGuard_MissingContext(t *testing.T) {
	e := echo.New()
	userRepo := new(MockUserRepo)
	e.GET("/protected", okHandler, middleware.TokenVersionGuard(userRepo))

	rec := runRequest(t, e, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	userRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestTokenVersionGuard(t *testing.T) {
	cfg := config.Config{JWTSecret: "test-secret"}

	tests := []struct {
		name string
		user *model.User
		want int
	}{
		{"version matches", &model.User{ID: 1, Role: model.RoleUser, TokenVersion: 5, IsActive: true}, http.StatusOK},
		{"logged out since", &model.User{ID: 1, Role: model.RoleUser, TokenVersion: 6, IsActive: true}, http.StatusUnauthorized},
		{"inactive user", &model.User{ID: 1, Role: model.RoleUser, TokenVersion: 5, IsActive: false}, http.StatusUnauthorized},
		{"user gone", nil, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			userRepo := new(MockUserRepo)
			userRepo.On("FindByID", mock.Anything, int64(1)).Return(tt.user, nil)
			e.GET("/protected", okHandler, middleware.AuthJWT(cfg), middleware.TokenVersionGuard(userRepo))

			rec := runRequest(t, e, "Bearer "+validJWT(t, cfg.JWTSecret, "1", "USER", 5))
			assert.Equal(t, tt.want, rec.Code)
			userRepo.AssertExpectations(t)
		})
	}
}

func TestAdminRoleGuard(t *testing.T) {
	cfg := config.Config{JWTSecret: "test-secret"}

	tests := []struct {
		role string
		want int
	}{
		{"ADMIN", http.StatusOK},
		{"USER", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			e := echo.New()
			e.GET("/protected", okHandler, middleware.AuthJWT(cfg), middleware.AdminRoleGuard())

			rec := runRequest(t, e, "Bearer "+validJWT(t, cfg.JWTSecret, "9", tt.role, 0))
			assert.Equal(t, tt.want, rec.Code)
		})
	}

	t.Run("no role in context", func(t *testing.T) {
		e := echo.New()
		e.GET("/protected", okHandler, middleware.AdminRoleGuard())
		assert.Equal(t, http.StatusUnauthorized, runRequest(t, e, "").Code)
	})
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	e := echo.New()
	e.Use(middleware.RequestLogger(zap.New(core)))
	e.GET("/protected", okHandler)
	e.GET("/missing", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "nope")
	})

	rec := runRequest(t, e, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(middleware.HeaderRequestID))

	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	req.Header.Set(middleware.HeaderRequestID, "req-1")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "req-1", rec.Header().Get(middleware.HeaderRequestID))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zap.InfoLevel, entries[0].Level)
	assert.Equal(t, zap.WarnLevel, entries[1].Level)
	assert.Equal(t, "req-1", entries[1].ContextMap()["request_id"])
	assert.Equal(t, int64(http.StatusNotFound), entries[1].ContextMap()["status"])
}
