package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// HealthCheck returns a liveness handler for the named service. It performs
// no dependency checks.
func HealthCheck(serviceName string) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"status":  "healthy",
			"service": serviceName,
		})
	}
}
