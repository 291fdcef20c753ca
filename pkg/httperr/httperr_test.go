package httperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestConstructors(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, Validation("bad").StatusCode)
	assert.Equal(t, http.StatusUnauthorized, Unauthorized("no").StatusCode)
	assert.Equal(t, http.StatusForbidden, Forbidden("no").StatusCode)
	assert.Equal(t, http.StatusNotFound, NotFound("post").StatusCode)
	assert.Equal(t, "post not found", NotFound("post").Message)
	assert.Equal(t, http.StatusInternalServerError, Internal(errors.New("boom")).StatusCode)
}

func TestInternal_HidesCause(t *testing.T) {
	cause := errors.New("pq: connection refused")
	err := Internal(cause)
	assert.NotContains(t, err.Message, "connection refused")
	assert.ErrorIs(t, err, cause)
}

func TestAs(t *testing.T) {
	inner := NotFound("tag")
	wrapped := fmt.Errorf("while handling: %w", inner)
	assert.Equal(t, inner, As(wrapped))
	assert.Nil(t, As(errors.New("plain")))
}

func render(t *testing.T, err error) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	EchoErrorHandler(zap.NewNop())(err, c)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestEchoErrorHandler_APIError(t *testing.T) {
	rec, body := render(t, Forbidden("admin access required"))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "admin access required", body["message"])
	assert.Equal(t, float64(http.StatusForbidden), body["statusCode"])
}

func TestEchoErrorHandler_UnknownErrorBecomes500(t *testing.T) {
	rec, body := render(t, errors.New("unexpected"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal server error", body["message"])
	assert.NotContains(t, body["message"], "unexpected")
}

func TestEchoErrorHandler_EchoHTTPError(t *testing.T) {
	rec, body := render(t, echo.NewHTTPError(http.StatusNotFound, "Not Found"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not Found", body["message"])
	assert.Equal(t, float64(http.StatusNotFound), body["statusCode"])
}
