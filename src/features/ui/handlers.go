package ui

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"sortify/src/features/auth"
	"sortify/src/features/config"
)

// Handler is the handler for the UI feature.
type Handler struct {
	configManager *config.Manager
	authService   *auth.Service
}

// NewHandler creates a new handler for the UI feature.
func NewHandler(configManager *config.Manager, authService *auth.Service) *Handler {
	return &Handler{
		configManager: configManager,
		authService:   authService,
	}
}

// RenderDashboard renders the main dashboard page.
func (h *Handler) RenderDashboard(c *fiber.Ctx) error {
	slog.Debug("RenderDashboard handler called")
	data := fiber.Map{
		"Title":         "Dashboard",
		"Authenticated": h.authService.Authenticated(),
	}
	if c.Get("HX-Request") != "true" {
		data["Section"] = "dashboard"
		return c.Render("main", data)
	}
	return c.Render("sections/dashboard", data)
}

// RenderMatchesSection renders the matches page.
func (h *Handler) RenderMatchesSection(c *fiber.Ctx) error {
	slog.Debug("RenderMatchesSection handler called")
	data := fiber.Map{
		"Title": "Matches",
	}
	if c.Get("HX-Request") != "true" {
		data["Section"] = "matches"
		return c.Render("main", data)
	}
	return c.Render("sections/matches", data)
}

// RenderJobsSection renders the jobs page.
func (h *Handler) RenderJobsSection(c *fiber.Ctx) error {
	slog.Debug("RenderJobsSection handler called")
	data := fiber.Map{
		"Title": "Jobs",
	}
	if c.Get("HX-Request") != "true" {
		data["Section"] = "jobs"
		return c.Render("main", data)
	}
	return c.Render("sections/jobs", data)
}

// GetSettingsSection renders the settings form with current configuration values.
func (h *Handler) GetSettingsSection(c *fiber.Ctx) error {
	slog.Debug("GetSettings handler called")
	matching := h.configManager.Get().Matching
	data := fiber.Map{
		"Title":            "Settings",
		"Threshold":        matching.Threshold,
		"LikedTracksLimit": matching.LikedTracksLimit,
		"PlaylistLimit":    matching.PlaylistLimit,
		"SampleSize":       matching.SampleSize,
		"AutoOrganize":     matching.AutoOrganize.Enabled,
	}
	if c.Get("HX-Request") != "true" {
		data["Section"] = "settings"
		return c.Render("main", data)
	}
	return c.Render("sections/settings", data)
}
