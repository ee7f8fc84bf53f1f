package history

import "github.com/gofiber/fiber/v2"

// RegisterRoutes registers the routes for the history feature.
func RegisterRoutes(app *fiber.App, service *Service) {
	handler := NewHandler(service)
	historyGroup := app.Group("/history")
	historyGroup.Get("/", handler.ListMatches)
	historyGroup.Delete("/:trackId", handler.Unmatch)
}
