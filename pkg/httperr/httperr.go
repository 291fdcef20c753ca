package httperr

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Error is the canonical API error. Handlers return it and the echo error
// handler renders it as {"message": ..., "statusCode": ...}.
type Error struct {
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
	Cause      error  `json:"-"` // server-side only, never sent to clients
}

func (e *Error) Error() string { return e.Message }

// Unwrap allows errors.Is / errors.As to traverse the cause chain.
func (e *Error) Unwrap() error { return e.Cause }

// Validation creates a 400 error for malformed or missing input.
func Validation(msg string) *Error {
	return &Error{Message: msg, StatusCode: http.StatusBadRequest}
}

// Unauthorized creates a 401 error for missing or mismatched credentials.
func Unauthorized(msg string) *Error {
	return &Error{Message: msg, StatusCode: http.StatusUnauthorized}
}

// Forbidden creates a 403 error for callers lacking permission.
func Forbidden(msg string) *Error {
	return &Error{Message: msg, StatusCode: http.StatusForbidden}
}

// NotFound creates a 404 error for a named resource.
func NotFound(resource string) *Error {
	return &Error{Message: resource + " not found", StatusCode: http.StatusNotFound}
}

// Internal creates a 500 error wrapping an unexpected failure. The cause is
// logged but never returned to the client.
func Internal(cause error) *Error {
	return &Error{Message: "internal server error", StatusCode: http.StatusInternalServerError, Cause: cause}
}

// As extracts the *Error from err's chain, or nil.
func As(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return nil
}

// EchoErrorHandler returns a custom echo HTTPErrorHandler that maps every
// error to the {message, statusCode} body. Unknown errors become 500s.
func EchoErrorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		apiErr := As(err)
		if apiErr == nil {
			// echo's own errors (route misses, bind failures) keep their status
			var echoErr *echo.HTTPError
			if errors.As(err, &echoErr) {
				msg, ok := echoErr.Message.(string)
				if !ok {
					msg = http.StatusText(echoErr.Code)
				}
				apiErr = &Error{Message: msg, StatusCode: echoErr.Code}
			} else {
				apiErr = Internal(err)
			}
		}

		if apiErr.StatusCode >= http.StatusInternalServerError {
			log.Error("request failed",
				zap.String("path", c.Request().URL.Path),
				zap.Int("status", apiErr.StatusCode),
				zap.Error(err))
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(apiErr.StatusCode)
			return
		}
		_ = c.JSON(apiErr.StatusCode, apiErr)
	}
}
