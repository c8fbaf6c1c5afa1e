package handlers

import (
	"github.com/ahmetcoskunkizilkaya/accounts-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/accounts-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/accounts-backend/internal/tenant"
	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	if err := h.userService.Create(c.UserContext(), tenant.GetTenantID(c), &req); err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.OK("user created successfully", nil))
}

func (h *UserHandler) List(c *fiber.Ctx) error {
	opts := dto.PageOptions{
		Page:    c.QueryInt("page", 0),
		Limit:   c.QueryInt("limit", 0),
		Search:  c.Query("search"),
		Status:  c.Query("status"),
		OrderBy: c.Query("orderBy"),
		Order:   c.Query("order"),
	}

	page, err := h.userService.List(c.UserContext(), tenant.GetTenantID(c), opts)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(dto.OK("users retrieved successfully", page))
}

func (h *UserHandler) Me(c *fiber.Ctx) error {
	userID, err := tenant.GetUserID(c)
	if err != nil {
		return respondError(c, services.NewUnauthorizedError("Unauthorized"))
	}

	user, err := h.userService.FindByID(c.UserContext(), tenant.GetTenantID(c), userID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(dto.OK("user retrieved successfully", dto.NewUserResponse(user)))
}

func (h *UserHandler) FindByEmail(c *fiber.Ctx) error {
	user, err := h.userService.FindByEmail(c.UserContext(), tenant.GetTenantID(c), emailParam(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(dto.OK("user retrieved successfully", user))
}

func (h *UserHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	user, err := h.userService.Update(c.UserContext(), tenant.GetTenantID(c), emailParam(c), &req, auditMeta(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(dto.OK("user updated successfully", dto.NewUserResponse(user)))
}

func (h *UserHandler) UpdateStatus(c *fiber.Ctx) error {
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	user, err := h.userService.UpdateStatus(c.UserContext(), tenant.GetTenantID(c), emailParam(c), req.Status, auditMeta(c))
	if err != nil {
		return respondError(c, err)
	}

	message := "user deactivated successfully"
	if user.IsActive {
		message = "user activated successfully"
	}
	return c.JSON(dto.OK(message, dto.NewUserResponse(user)))
}

func (h *UserHandler) UpdateEmail(c *fiber.Ctx) error {
	var req dto.UpdateEmailRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	user, err := h.userService.UpdateEmail(c.UserContext(), tenant.GetTenantID(c), emailParam(c), req.Email, auditMeta(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(dto.OK("email updated successfully", dto.NewUserResponse(user)))
}

func (h *UserHandler) UpdatePassword(c *fiber.Ctx) error {
	var req dto.UpdatePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	if err := h.userService.UpdatePassword(c.UserContext(), tenant.GetTenantID(c), emailParam(c), req.NewPassword, auditMeta(c)); err != nil {
		return respondError(c, err)
	}

	return c.JSON(dto.OK("password updated successfully", nil))
}

func (h *UserHandler) Delete(c *fiber.Ctx) error {
	if err := h.userService.DeleteByEmail(c.UserContext(), tenant.GetTenantID(c), emailParam(c), auditMeta(c)); err != nil {
		return respondError(c, err)
	}

	return c.JSON(dto.OK("user deleted successfully", nil))
}
