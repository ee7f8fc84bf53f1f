package config

import "github.com/gofiber/fiber/v2"

// RegisterRoutes registers the routes for the config feature.
func RegisterRoutes(app *fiber.App, manager *Manager) {
	handler := NewHandler(manager)
	cfg := app.Group("/config")
	cfg.Get("/", handler.GetSettings)
	cfg.Post("/matching", handler.UpdateMatchingSettings)
}
