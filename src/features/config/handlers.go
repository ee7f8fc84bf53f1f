package config

import (
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// Handler is the handler for the config feature.
type Handler struct {
	configManager *Manager
}

// NewHandler creates a new handler for the config feature.
func NewHandler(configManager *Manager) *Handler {
	return &Handler{configManager: configManager}
}

// GetSettings returns the redacted configuration.
func (h *Handler) GetSettings(c *fiber.Ctx) error {
	slog.Debug("GetSettings handler called")
	c.Set("Content-Type", "application/json")
	return c.SendString(h.configManager.GetJSON())
}

// UpdateMatchingSettings updates the matching tunables from form values.
// Server and Spotify settings are deliberately not runtime-editable.
func (h *Handler) UpdateMatchingSettings(c *fiber.Ctx) error {
	slog.Info("Matching configuration update requested")

	current := h.configManager.Get()
	updated := *current

	if v := c.FormValue("threshold"); v != "" {
		threshold, err := strconv.ParseFloat(v, 64)
		if err != nil || threshold < 0 || threshold > 1 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "threshold must be a number in [0,1]"})
		}
		updated.Matching.Threshold = threshold
	}
	if v := c.FormValue("liked_tracks_limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "liked_tracks_limit must be a positive integer"})
		}
		updated.Matching.LikedTracksLimit = limit
	}
	if v := c.FormValue("playlist_limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "playlist_limit must be a positive integer"})
		}
		updated.Matching.PlaylistLimit = limit
	}
	if v := c.FormValue("sample_size"); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil || size <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "sample_size must be a positive integer"})
		}
		updated.Matching.SampleSize = size
	}
	if v := c.FormValue("auto_organize.enabled"); v != "" {
		updated.Matching.AutoOrganize.Enabled = v == "true"
	}
	if v := c.FormValue("auto_organize.dry_run"); v != "" {
		updated.Matching.AutoOrganize.DryRun = v == "true"
	}
	if v := c.FormValue("auto_organize.interval_minutes"); v != "" {
		interval, err := strconv.Atoi(v)
		if err != nil || interval <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "interval_minutes must be a positive integer"})
		}
		updated.Matching.AutoOrganize.IntervalMinutes = interval
	}

	h.configManager.Update(&updated)
	if err := h.configManager.Save(); err != nil {
		slog.Error("Failed to persist configuration", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save configuration"})
	}
	return c.JSON(fiber.Map{"status": "updated"})
}
