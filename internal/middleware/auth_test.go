package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaeHeong/jaehyeong-tech-sub000/pkg/config"
	"github.com/JaeHeong/jaehyeong-tech-sub000/pkg/httperr"
	"github.com/JaeHeong/jaehyeong-tech-sub000/pkg/jwtutil"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext(headers map[string]string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return e.NewContext(req, httptest.NewRecorder())
}

func okHandler(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	jwtutil.Initialize(&config.JWTConfig{SigningKey: "mw-test-key", ExpirationHours: 1})

	err := AuthMiddleware(okHandler)(newTestContext(nil))
	require.Error(t, err)
	apiErr := httperr.As(err)
	require.NotNil(t, apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}

func TestAuthMiddleware_MalformedHeader(t *testing.T) {
	jwtutil.Initialize(&config.JWTConfig{SigningKey: "mw-test-key", ExpirationHours: 1})

	err := AuthMiddleware(okHandler)(newTestContext(map[string]string{
		"Authorization": "Token abc",
	}))
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, httperr.As(err).StatusCode)
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	jwtutil.Initialize(&config.JWTConfig{SigningKey: "mw-test-key", ExpirationHours: 1})
	token, err := jwtutil.GenerateToken("carol@example.com", 9, "Carol", "admin", nil)
	require.NoError(t, err)

	c := newTestContext(map[string]string{"Authorization": "Bearer " + token})
	require.NoError(t, AuthMiddleware(okHandler)(c))

	claims := ClaimsFromContext(c)
	require.NotNil(t, claims)
	assert.Equal(t, uint(9), claims.UserID)
	assert.Equal(t, "admin", claims.Role)
}

func TestOptionalAuthMiddleware_Anonymous(t *testing.T) {
	jwtutil.Initialize(&config.JWTConfig{SigningKey: "mw-test-key", ExpirationHours: 1})

	c := newTestContext(nil)
	require.NoError(t, OptionalAuthMiddleware(okHandler)(c))
	assert.Nil(t, ClaimsFromContext(c))
}

func TestOptionalAuthMiddleware_InvalidTokenRejected(t *testing.T) {
	jwtutil.Initialize(&config.JWTConfig{SigningKey: "mw-test-key", ExpirationHours: 1})

	err := OptionalAuthMiddleware(okHandler)(newTestContext(map[string]string{
		"Authorization": "Bearer bogus",
	}))
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, httperr.As(err).StatusCode)
}

func TestAdminMiddleware_RejectsNonAdmin(t *testing.T) {
	c := newTestContext(nil)
	c.Set("user_role", "author")

	err := AdminMiddleware(okHandler)(c)
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, httperr.As(err).StatusCode)
}

func TestAdminMiddleware_AllowsAdmin(t *testing.T) {
	c := newTestContext(nil)
	c.Set("user_role", "admin")
	assert.NoError(t, AdminMiddleware(okHandler)(c))
}

func TestInternalMiddleware_RequiresHeader(t *testing.T) {
	// Without the internal header the request is refused before any tenant
	// lookup happens.
	err := InternalMiddleware(okHandler)(newTestContext(nil))
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, httperr.As(err).StatusCode)

	err = InternalMiddleware(okHandler)(newTestContext(map[string]string{
		HeaderInternalRequest: "false",
	}))
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, httperr.As(err).StatusCode)
}

func TestInternalMiddleware_RequiresTenantHeader(t *testing.T) {
	err := InternalMiddleware(okHandler)(newTestContext(map[string]string{
		HeaderInternalRequest: "true",
	}))
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, httperr.As(err).StatusCode)
}
