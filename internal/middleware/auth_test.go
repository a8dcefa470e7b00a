package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"notes-service/internal/model"
	"notes-service/pkg/config"
	"notes-service/pkg/jwtutil"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupGate(t *testing.T) (*echo.Echo, *bool) {
	t.Helper()

	jwtutil.Initialize(&config.JWTConfig{
		SigningKey:      "test-signing-key",
		ExpirationHours: 1,
	})

	reached := false
	e := echo.New()
	e.GET("/protected", func(c echo.Context) error {
		reached = true
		claims, ok := ClaimsFromContext(c)
		if !ok {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "no claims"})
		}
		return c.JSON(http.StatusOK, claims)
	}, AuthMiddleware)

	return e, &reached
}

func request(e *echo.Echo, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	e, reached := setupGate(t)

	user := &model.User{ID: 7, Email: "admin@acme.test", Role: model.RoleAdmin, TenantID: 3}
	token, err := jwtutil.GenerateToken(user, "acme")
	require.NoError(t, err)

	rec := request(e, "Bearer "+token)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, *reached)
	assert.Contains(t, rec.Body.String(), `"tenant_slug":"acme"`)
}

func TestAuthMiddleware_RejectsBeforeHandler(t *testing.T) {
	// A negative expiration window yields an already-expired token.
	jwtutil.Initialize(&config.JWTConfig{SigningKey: "test-signing-key", ExpirationHours: -1})
	expired, err := jwtutil.GenerateToken(
		&model.User{ID: 7, Email: "admin@acme.test", Role: model.RoleAdmin, TenantID: 3}, "acme")
	require.NoError(t, err)
	jwtutil.Initialize(&config.JWTConfig{SigningKey: "test-signing-key", ExpirationHours: 1})

	otherKey := signedWithKey(t, "some-other-key")

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not a bearer token", "Basic YWRtaW46cGFzc3dvcmQ="},
		{"bearer with no token", "Bearer"},
		{"garbage token", "Bearer not.a.jwt"},
		{"expired token", "Bearer " + expired},
		{"wrong signing key", "Bearer " + otherKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, reached := setupGate(t)
			rec := request(e, tt.header)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.False(t, *reached, "handler must not run for rejected requests")
		})
	}
}

// signedWithKey issues a token under a different signing key, then
// restores the test key.
func signedWithKey(t *testing.T, key string) string {
	t.Helper()
	jwtutil.Initialize(&config.JWTConfig{SigningKey: key, ExpirationHours: 1})
	token, err := jwtutil.GenerateToken(
		&model.User{ID: 7, Email: "admin@acme.test", Role: model.RoleAdmin, TenantID: 3}, "acme")
	require.NoError(t, err)
	jwtutil.Initialize(&config.JWTConfig{SigningKey: "test-signing-key", ExpirationHours: 1})
	return token
}
