package tenant

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	tenantIDKey = "tenant_id"
	identityKey = "identity"
)

var ErrNoIdentity = errors.New("no authenticated identity in context")

// Identity is the authenticated caller, decoded from a verified bearer token.
type Identity struct {
	UserID   uuid.UUID
	Email    string
	TenantID string
	Role     string
}

// SetTenantID stores the resolved tenant on the request.
func SetTenantID(c *fiber.Ctx, tenantID string) {
	c.Locals(tenantIDKey, tenantID)
}

// GetTenantID extracts the tenant_id from Fiber context locals.
func GetTenantID(c *fiber.Ctx) string {
	if tenantID, ok := c.Locals(tenantIDKey).(string); ok {
		return tenantID
	}
	return ""
}

func SetIdentity(c *fiber.Ctx, id *Identity) {
	c.Locals(identityKey, id)
}

// GetIdentity returns the identity attached by the auth or admin guard.
func GetIdentity(c *fiber.Ctx) (*Identity, error) {
	id, ok := c.Locals(identityKey).(*Identity)
	if !ok || id == nil {
		return nil, ErrNoIdentity
	}
	return id, nil
}

// GetUserID extracts the caller's user UUID.
func GetUserID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := GetIdentity(c)
	if err != nil {
		return uuid.Nil, err
	}
	return id.UserID, nil
}
