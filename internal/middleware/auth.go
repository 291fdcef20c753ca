package middleware

import (
	"strings"

	"github.com/JaeHeong/jaehyeong-tech-sub000/internal/model"
	"github.com/JaeHeong/jaehyeong-tech-sub000/pkg/httperr"
	"github.com/JaeHeong/jaehyeong-tech-sub000/pkg/jwtutil"
	"github.com/JaeHeong/jaehyeong-tech-sub000/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// bearerToken extracts the token from the Authorization header, or "".
func bearerToken(c echo.Context) string {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}
	return parts[1]
}

// AuthMiddleware validates the JWT bearer token and stores the claims in
// context for later use.
func AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := logger.FromContext(c)

		tokenString := bearerToken(c)
		if tokenString == "" {
			log.Warn("Missing or malformed Authorization header")
			return httperr.Unauthorized("missing authorization token")
		}

		claims, err := jwtutil.ValidateToken(tokenString)
		if err != nil {
			log.Warn("Invalid JWT token", zap.Error(err))
			return httperr.Unauthorized("invalid or expired token")
		}

		c.Set("user", claims)
		c.Set("user_id", claims.UserID)
		c.Set("user_role", claims.Role)

		return next(c)
	}
}

// OptionalAuthMiddleware validates a bearer token when one is present but
// lets anonymous requests through. Used on comment creation, which accepts
// both authenticated users and guests.
func OptionalAuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		tokenString := bearerToken(c)
		if tokenString == "" {
			return next(c)
		}

		claims, err := jwtutil.ValidateToken(tokenString)
		if err != nil {
			// A presented-but-invalid token is an error, not a guest.
			return httperr.Unauthorized("invalid or expired token")
		}

		c.Set("user", claims)
		c.Set("user_id", claims.UserID)
		c.Set("user_role", claims.Role)

		return next(c)
	}
}

// AdminMiddleware requires an authenticated admin. Must run after
// AuthMiddleware.
func AdminMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		role, _ := c.Get("user_role").(string)
		if role != model.RoleAdmin {
			logger.FromContext(c).Warn("Admin access denied", zap.String("role", role))
			return httperr.Forbidden("admin access required")
		}
		return next(c)
	}
}

// ClaimsFromContext retrieves the validated JWT claims from the context.
// Returns nil for anonymous requests.
func ClaimsFromContext(c echo.Context) *jwtutil.UserClaims {
	claims, _ := c.Get("user").(*jwtutil.UserClaims)
	return claims
}
