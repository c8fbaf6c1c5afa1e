package handlers

import (
	"github.com/ahmetcoskunkizilkaya/accounts-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/accounts-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/accounts-backend/internal/tenant"
	"github.com/gofiber/fiber/v2"
)

type AddressHandler struct {
	addressService *services.AddressService
}

func NewAddressHandler(addressService *services.AddressService) *AddressHandler {
	return &AddressHandler{addressService: addressService}
}

func (h *AddressHandler) Create(c *fiber.Ctx) error {
	userID, err := tenant.GetUserID(c)
	if err != nil {
		return respondError(c, services.NewUnauthorizedError("Unauthorized"))
	}

	var req dto.CreateAddressRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	addr, err := h.addressService.Create(c.UserContext(), tenant.GetTenantID(c), userID, &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.OK("address created successfully", addr))
}

func (h *AddressHandler) List(c *fiber.Ctx) error {
	userID, err := tenant.GetUserID(c)
	if err != nil {
		return respondError(c, services.NewUnauthorizedError("Unauthorized"))
	}

	addresses, err := h.addressService.ListForUser(c.UserContext(), tenant.GetTenantID(c), userID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(dto.OK("addresses retrieved successfully", addresses))
}
