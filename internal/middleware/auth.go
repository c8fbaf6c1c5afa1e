package middleware

import (
	"github.com/ahmetcoskunkizilkaya/accounts-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/accounts-backend/internal/security"
	"github.com/ahmetcoskunkizilkaya/accounts-backend/internal/tenant"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const msgInvalidToken = "Unauthorized: invalid or expired token"

// JWTProtected verifies the bearer token and binds the caller's identity.
// Tokens issued for another tenant are rejected.
func JWTProtected(tokens *security.TokenService) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:     jwtware.SigningKey{JWTAlg: jwtware.HS256, Key: tokens.SigningKey()},
		Claims:         &security.Claims{},
		SuccessHandler: bindIdentity,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return reject(c, fiber.StatusUnauthorized, msgInvalidToken)
		},
	})
}

func bindIdentity(c *fiber.Ctx) error {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok || token == nil {
		return reject(c, fiber.StatusUnauthorized, msgInvalidToken)
	}
	claims, ok := token.Claims.(*security.Claims)
	if !ok || claims.ExpiresAt == nil || claims.Purpose != "" {
		return reject(c, fiber.StatusUnauthorized, msgInvalidToken)
	}

	identity, err := identityFrom(claims)
	if err != nil {
		return reject(c, fiber.StatusUnauthorized, msgInvalidToken)
	}
	if identity.TenantID != tenant.GetTenantID(c) {
		return reject(c, fiber.StatusUnauthorized, "Unauthorized: token was issued for another tenant")
	}

	setIdentity(c, identity)
	return c.Next()
}

func identityFrom(claims *security.Claims) (*tenant.Identity, error) {
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, err
	}
	return &tenant.Identity{
		UserID:   id,
		Email:    claims.Email,
		TenantID: claims.TenantID,
		Role:     claims.Role,
	}, nil
}

func reject(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(dto.ErrorResponse{
		Error:   true,
		Message: message,
	})
}
