package auth

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
)

// Handler is the handler for the auth feature.
type Handler struct {
	service *Service
}

// NewHandler creates a new handler for the auth feature.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Login redirects the browser to the Spotify consent page.
func (h *Handler) Login(c *fiber.Ctx) error {
	slog.Debug("Login handler called")
	url, err := h.service.LoginURL()
	if err != nil {
		slog.Error("Failed to build login URL", "error", err)
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to start authorization")
	}
	return c.Redirect(url, fiber.StatusTemporaryRedirect)
}

// Callback completes the authorization-code flow.
func (h *Handler) Callback(c *fiber.Ctx) error {
	slog.Debug("Callback handler called")
	if errParam := c.Query("error"); errParam != "" {
		slog.Warn("Authorization denied by user", "error", errParam)
		return c.Status(fiber.StatusBadRequest).SendString("Authorization denied: " + errParam)
	}
	if err := h.service.HandleCallback(c.Context(), c.Query("state"), c.Query("code")); err != nil {
		slog.Error("Authorization callback failed", "error", err)
		return c.Status(fiber.StatusBadRequest).SendString("Authorization failed: " + err.Error())
	}
	return c.Redirect("/", fiber.StatusTemporaryRedirect)
}

// Status reports whether the service holds a usable token.
func (h *Handler) Status(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"authenticated": h.service.Authenticated()})
}

// Logout discards the stored token.
func (h *Handler) Logout(c *fiber.Ctx) error {
	slog.Debug("Logout handler called")
	if err := h.service.Logout(); err != nil {
		slog.Error("Logout failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"authenticated": false})
}
