package matching

import (
	"github.com/gofiber/fiber/v2"

	"sortify/src/features/jobs"
	"sortify/src/music"
)

// RegisterRoutes registers the routes for the matching feature.
func RegisterRoutes(app *fiber.App, service *Service, history music.MatchHistory, jobService *jobs.Service) {
	handler := NewHandler(service, history, jobService)
	matchingGroup := app.Group("/matching")
	matchingGroup.Get("/preview", handler.Preview)
	matchingGroup.Post("/organize", handler.Organize)
	matchingGroup.Post("/organize/job", handler.OrganizeJob)
	matchingGroup.Post("/cache/clear", handler.ClearCache)
}
