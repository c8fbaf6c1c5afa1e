package middleware

import (
	"github.com/ahmetcoskunkizilkaya/accounts-backend/internal/logging"
	"github.com/ahmetcoskunkizilkaya/accounts-backend/internal/tenant"
	"github.com/gofiber/fiber/v2"
)

const HeaderTenantID = "X-Tenant-ID"

// Paths that don't require tenant identification.
var tenantSkipPaths = map[string]bool{
	"/health": true,
}

// TenantMiddleware resolves the tenant from the X-Tenant-ID header, falling
// back to the tenant_id query parameter used by confirmation links.
func TenantMiddleware(registry *tenant.Registry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if tenantSkipPaths[c.Path()] {
			return c.Next()
		}

		tenantID := c.Get(HeaderTenantID)
		if tenantID == "" {
			tenantID = c.Query("tenant_id")
		}
		if tenantID == "" {
			return reject(c, fiber.StatusBadRequest, "X-Tenant-ID header is required")
		}
		if !registry.Exists(tenantID) {
			return reject(c, fiber.StatusBadRequest, "Invalid X-Tenant-ID: "+tenantID)
		}

		tenant.SetTenantID(c, tenantID)
		updateLogFields(c, func(f *logging.Fields) { f.TenantID = tenantID })
		return c.Next()
	}
}
