package middleware

import (
	"github.com/ahmetcoskunkizilkaya/accounts-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/accounts-backend/internal/security"
	"github.com/ahmetcoskunkizilkaya/accounts-backend/internal/tenant"
	"github.com/gofiber/fiber/v2"
)

const msgAdminRequired = "Admin access required"

// AdminRequired verifies the bearer token on its own, independent of
// JWTProtected, and requires the admin role. Every failure is a 403.
func AdminRequired(tokens *security.TokenService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw, err := security.BearerToken(c.Get(fiber.HeaderAuthorization))
		if err != nil {
			return reject(c, fiber.StatusForbidden, "Forbidden: missing or malformed token")
		}

		claims, err := tokens.Verify(raw)
		if err != nil || claims.Purpose != "" {
			return reject(c, fiber.StatusForbidden, "Forbidden: invalid or expired token")
		}
		if claims.TenantID != tenant.GetTenantID(c) || claims.Role != models.RoleAdmin {
			return reject(c, fiber.StatusForbidden, msgAdminRequired)
		}

		identity, err := identityFrom(claims)
		if err != nil {
			return reject(c, fiber.StatusForbidden, "Forbidden: invalid or expired token")
		}
		setIdentity(c, identity)
		return c.Next()
	}
}
