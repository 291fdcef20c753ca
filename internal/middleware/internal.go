package middleware

import (
	"strconv"

	"github.com/JaeHeong/jaehyeong-tech-sub000/internal/model"
	"github.com/JaeHeong/jaehyeong-tech-sub000/pkg/database"
	"github.com/JaeHeong/jaehyeong-tech-sub000/pkg/httperr"
	"github.com/JaeHeong/jaehyeong-tech-sub000/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Header names for the internal backup/restore surface. These endpoints
// are reachable only from the internal network and are gated by header,
// not by user credentials.
const (
	HeaderInternalRequest = "x-internal-request"
	HeaderTenant          = "X-Tenant-ID"
)

// InternalMiddleware gates the /internal endpoints: the request must carry
// `x-internal-request: true`, and a tenant resolved from X-Tenant-ID
// (numeric id or slug) must exist. The resolved tenant is stored in
// context under "tenant".
func InternalMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := logger.FromContext(c)

		if c.Request().Header.Get(HeaderInternalRequest) != "true" {
			log.Warn("Internal endpoint hit without internal header",
				zap.String("ip", c.RealIP()))
			return httperr.Forbidden("internal requests only")
		}

		ref := c.Request().Header.Get(HeaderTenant)
		if ref == "" {
			return httperr.Validation("missing " + HeaderTenant + " header")
		}

		var tenant model.Tenant
		query := database.GetDB()
		if id, err := strconv.ParseUint(ref, 10, 64); err == nil {
			query = query.Where("id = ?", uint(id))
		} else {
			query = query.Where("slug = ?", ref)
		}
		if result := query.First(&tenant); result.Error != nil {
			log.Warn("Tenant not resolved", zap.String("tenant_ref", ref))
			return httperr.NotFound("tenant")
		}

		if !tenant.Active {
			return httperr.Forbidden("tenant is inactive")
		}

		c.Set("tenant", &tenant)
		return next(c)
	}
}

// TenantResolverMiddleware resolves the tenant for public comment routes.
// The X-Tenant-ID header wins; absent that, defaultRef (single-tenant
// deployments) is used. Unlike InternalMiddleware it does not require the
// internal header.
func TenantResolverMiddleware(defaultRef string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ref := c.Request().Header.Get(HeaderTenant)
			if ref == "" {
				ref = defaultRef
			}

			var tenant model.Tenant
			query := database.GetDB()
			if id, err := strconv.ParseUint(ref, 10, 64); err == nil {
				query = query.Where("id = ?", uint(id))
			} else {
				query = query.Where("slug = ?", ref)
			}
			if result := query.First(&tenant); result.Error != nil {
				logger.FromContext(c).Warn("Tenant not resolved", zap.String("tenant_ref", ref))
				return httperr.NotFound("tenant")
			}
			if !tenant.Active {
				return httperr.Forbidden("tenant is inactive")
			}

			c.Set("tenant", &tenant)
			return next(c)
		}
	}
}

// TenantFromContext retrieves the resolved tenant from the context.
func TenantFromContext(c echo.Context) (*model.Tenant, bool) {
	tenant, ok := c.Get("tenant").(*model.Tenant)
	return tenant, ok
}
