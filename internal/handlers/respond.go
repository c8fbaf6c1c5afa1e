package handlers

import (
	"errors"
	"log/slog"
	"net/url"

	"github.com/ahmetcoskunkizilkaya/accounts-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/accounts-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/accounts-backend/internal/tenant"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const msgInternal = "Internal server error"

// respondError maps a flow error to its status and the error envelope.
// Internal errors never expose their cause to the client.
func respondError(c *fiber.Ctx, err error) error {
	var e *services.Error
	if !errors.As(err, &e) {
		slog.ErrorContext(c.UserContext(), "unhandled handler error", "method", c.Method(), "path", c.Path(), "error", err)
		e = services.NewInternalError(msgInternal, err)
	}

	status := statusFor(e.Kind)
	if status >= fiber.StatusInternalServerError {
		if hub := sentryfiber.GetHubFromContext(c); hub != nil {
			hub.CaptureException(err)
		}
		return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: msgInternal})
	}

	return c.Status(status).JSON(dto.ErrorResponse{
		Error:   true,
		Message: e.Message,
		Details: e.Details,
	})
}

func statusFor(kind services.Kind) int {
	switch kind {
	case services.KindValidation:
		return fiber.StatusBadRequest
	case services.KindUnauthorized:
		return fiber.StatusUnauthorized
	case services.KindForbidden:
		return fiber.StatusForbidden
	case services.KindNotFound:
		return fiber.StatusNotFound
	case services.KindConflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error: true, Message: "Invalid request body",
	})
}

// emailParam returns the :email route parameter, percent-decoded.
func emailParam(c *fiber.Ctx) string {
	raw := c.Params("email")
	if decoded, err := url.PathUnescape(raw); err == nil {
		return decoded
	}
	return raw
}

// auditMeta records the guard identity as the actor when there is one.
func auditMeta(c *fiber.Ctx) services.AuditMeta {
	meta := services.AuditMeta{
		Method: c.Method(),
		Path:   c.Path(),
	}
	if id, err := tenant.GetIdentity(c); err == nil && id.UserID != uuid.Nil {
		meta.ActorID = id.UserID
	}
	return meta
}

// ErrorHandler is the Fiber app error handler: errors returned by middleware
// or recovered panics end up here and are answered with the envelope.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
		return c.Status(fe.Code).JSON(dto.ErrorResponse{Error: true, Message: fe.Message})
	}

	slog.ErrorContext(c.UserContext(), "unhandled server error", "method", c.Method(), "path", c.Path(), "error", err)
	if hub := sentryfiber.GetHubFromContext(c); hub != nil {
		hub.CaptureException(err)
	}
	code := fiber.StatusInternalServerError
	if fe != nil {
		code = fe.Code
	}
	return c.Status(code).JSON(dto.ErrorResponse{Error: true, Message: msgInternal})
}
