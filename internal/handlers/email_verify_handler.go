package handlers

import (
	"github.com/ahmetcoskunkizilkaya/accounts-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/accounts-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/accounts-backend/internal/tenant"
	"github.com/gofiber/fiber/v2"
)

type EmailVerifyHandler struct {
	verifyService *services.EmailVerifyService
}

func NewEmailVerifyHandler(verifyService *services.EmailVerifyService) *EmailVerifyHandler {
	return &EmailVerifyHandler{verifyService: verifyService}
}

func (h *EmailVerifyHandler) Send(c *fiber.Ctx) error {
	var req dto.EmailVerifyRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	if err := h.verifyService.Send(c.UserContext(), tenant.GetTenantID(c), req.Email); err != nil {
		return respondError(c, err)
	}

	return c.JSON(dto.OK("verification email sent", nil))
}

func (h *EmailVerifyHandler) Confirm(c *fiber.Ctx) error {
	if err := h.verifyService.Confirm(c.UserContext(), tenant.GetTenantID(c), c.Query("token")); err != nil {
		return respondError(c, err)
	}

	return c.JSON(dto.OK("email verified successfully", nil))
}
