package routes

import (
	"github.com/ahmetcoskunkizilkaya/accounts-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/accounts-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/accounts-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/accounts-backend/internal/security"
	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Auth        *handlers.AuthHandler
	User        *handlers.UserHandler
	Address     *handlers.AddressHandler
	EmailVerify *handlers.EmailVerifyHandler
	Health      *handlers.HealthHandler
}

func Setup(app *fiber.App, cfg *config.Config, tokens *security.TokenService, h Handlers) {
	// Health (no tenant required)
	app.Get("/health", h.Health.Check)

	protected := middleware.JWTProtected(tokens)
	admin := middleware.AdminRequired(tokens)

	// Auth: strict per-IP limit
	auth := app.Group("/auth", middleware.RateLimit(cfg.AuthRateLimitMax, cfg.AuthRateLimitWindow))
	auth.Post("/login", h.Auth.Login)

	// General API rate limiter for everything else
	api := app.Group("/", middleware.RateLimit(cfg.RateLimitMax, cfg.RateLimitWindow))

	users := api.Group("/users")
	users.Post("/", middleware.RateLimit(cfg.RegisterRateLimitMax, cfg.RegisterRateLimitWindow), h.User.Create)
	users.Get("/", protected, h.User.List)
	users.Get("/me", protected, h.User.Me)
	users.Patch("/update_status/:email", protected, admin, h.User.UpdateStatus)
	users.Patch("/update_email/:email", admin, h.User.UpdateEmail)
	users.Patch("/update_password/:email", admin, h.User.UpdatePassword)
	users.Get("/:email", protected, h.User.FindByEmail)
	users.Put("/:email", protected, admin, h.User.Update)
	// No guard on delete.
	users.Delete("/:email", h.User.Delete)

	address := api.Group("/address", protected)
	address.Post("/", h.Address.Create)
	address.Get("/", h.Address.List)

	verify := api.Group("/email_verify", middleware.RateLimit(cfg.AuthRateLimitMax, cfg.AuthRateLimitWindow))
	verify.Post("/", h.EmailVerify.Send)
	verify.Get("/confirm", h.EmailVerify.Confirm)
}
