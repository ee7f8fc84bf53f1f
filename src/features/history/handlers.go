package history

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"sortify/src/music"
)

// Handler is the handler for the history feature.
type Handler struct {
	service *Service
}

// NewHandler creates a new handler for the history feature.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type matchView struct {
	TrackID      string   `json:"track_id"`
	TrackName    string   `json:"track_name"`
	Artists      []string `json:"artists"`
	PlaylistID   string   `json:"playlist_id"`
	PlaylistName string   `json:"playlist_name"`
	MatchedAt    string   `json:"matched_at"`
}

func toView(record *music.MatchRecord) matchView {
	return matchView{
		TrackID:      record.TrackID,
		TrackName:    record.TrackName,
		Artists:      record.Artists,
		PlaylistID:   record.PlaylistID,
		PlaylistName: record.PlaylistName,
		MatchedAt:    record.MatchedAt.Format(time.RFC3339),
	}
}

// ListMatches returns the current user's applied matches.
func (h *Handler) ListMatches(c *fiber.Ctx) error {
	slog.Debug("ListMatches handler called")
	records, err := h.service.ListMatches(c.Context())
	if err != nil {
		slog.Error("Failed to list matches", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	views := make([]matchView, 0, len(records))
	for _, record := range records {
		views = append(views, toView(record))
	}
	return c.JSON(fiber.Map{"matches": views, "total": len(views)})
}

// Unmatch reverses an applied match.
func (h *Handler) Unmatch(c *fiber.Ctx) error {
	trackID := c.Params("trackId")
	slog.Debug("Unmatch handler called", "trackID", trackID)
	if err := h.service.Unmatch(c.Context(), trackID); err != nil {
		if errors.Is(err, ErrMatchNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "match not found"})
		}
		slog.Error("Failed to unmatch track", "trackID", trackID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"removed": trackID})
}
