package auth

import "github.com/gofiber/fiber/v2"

// RegisterRoutes registers the routes for the auth feature.
func RegisterRoutes(app *fiber.App, service *Service) {
	handler := NewHandler(service)
	authGroup := app.Group("/auth")
	authGroup.Get("/login", handler.Login)
	authGroup.Get("/callback", handler.Callback)
	authGroup.Get("/status", handler.Status)
	authGroup.Post("/logout", handler.Logout)
}
