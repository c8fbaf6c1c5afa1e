package middleware

import (
	"github.com/ahmetcoskunkizilkaya/accounts-backend/internal/logging"
	"github.com/ahmetcoskunkizilkaya/accounts-backend/internal/tenant"
	"github.com/gofiber/fiber/v2"
)

// RequestContext seeds the request's user context with logging fields. It
// must run after requestid so the id is available.
func RequestContext() fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestID, _ := c.Locals("requestid").(string)
		c.SetUserContext(logging.WithFields(c.UserContext(), logging.Fields{RequestID: requestID}))
		return c.Next()
	}
}

func updateLogFields(c *fiber.Ctx, update func(*logging.Fields)) {
	ctx := c.UserContext()
	fields, _ := logging.FieldsFrom(ctx)
	update(&fields)
	c.SetUserContext(logging.WithFields(ctx, fields))
}

func setIdentity(c *fiber.Ctx, identity *tenant.Identity) {
	tenant.SetIdentity(c, identity)
	updateLogFields(c, func(f *logging.Fields) { f.UserID = identity.UserID.String() })
}
