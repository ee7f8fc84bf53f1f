package matching

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"sortify/src/features/auth"
	"sortify/src/features/jobs"
	"sortify/src/music"
)

// Handler is the handler for the matching feature.
type Handler struct {
	service    *Service
	history    music.MatchHistory
	jobService *jobs.Service
}

// NewHandler creates a new handler for the matching feature.
func NewHandler(service *Service, history music.MatchHistory, jobService *jobs.Service) *Handler {
	return &Handler{service: service, history: history, jobService: jobService}
}

// Preview runs a match without applying anything. Query parameters override
// the configured limits and threshold for this run only.
func (h *Handler) Preview(c *fiber.Ctx) error {
	slog.Debug("Preview handler called")
	opts := h.service.OptionsFromConfig()
	if limit := c.QueryInt("limit"); limit > 0 {
		opts.LikedTracksLimit = limit
	}
	if playlists := c.QueryInt("playlists"); playlists > 0 {
		opts.PlaylistLimit = playlists
	}
	if raw := c.Query("threshold"); raw != "" {
		threshold, err := strconv.ParseFloat(raw, 64)
		if err != nil || threshold < 0 || threshold > 1 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "threshold must be a number between 0 and 1",
			})
		}
		opts.Threshold = threshold
	}

	report, err := h.service.Match(c.Context(), opts)
	if err != nil {
		return h.serviceError(c, "Match run failed", err)
	}
	return c.JSON(report)
}

// Organize groups matches by playlist and applies them unless dry_run is
// set. Tracks already in the match history are excluded, and applied matches
// are recorded.
func (h *Handler) Organize(c *fiber.Ctx) error {
	dryRun := c.QueryBool("dry_run")
	slog.Debug("Organize handler called", "dryRun", dryRun)

	userID, err := h.service.CurrentUserID(c.Context())
	if err != nil {
		return h.serviceError(c, "Failed to resolve user", err)
	}
	opts := h.service.OptionsFromConfig()
	opts.Exclude, err = h.history.MatchedTrackIDs(c.Context(), userID)
	if err != nil {
		return h.serviceError(c, "Failed to load match history", err)
	}

	organize, err := h.service.AutoOrganize(c.Context(), opts, dryRun)
	if err != nil {
		return h.serviceError(c, "Organize run failed", err)
	}

	if !dryRun {
		if err := recordAppliedMatches(c.Context(), h.history, organize); err != nil {
			slog.Error("Failed to record applied matches", "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
	}
	return c.JSON(organize)
}

// OrganizeJob starts the organize pass as a background job and returns its id.
func (h *Handler) OrganizeJob(c *fiber.Ctx) error {
	dryRun := c.QueryBool("dry_run")
	jobID, err := h.jobService.StartJob(AutoOrganizeJobType, "Auto-organize liked tracks", map[string]any{
		"dry_run": dryRun,
	})
	if err != nil {
		slog.Error("Failed to start organize job", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	slog.Info("Organize job started", "jobID", jobID, "dryRun", dryRun)
	return c.JSON(fiber.Map{"job_id": jobID})
}

// ClearCache drops all cached playlist profiles.
func (h *Handler) ClearCache(c *fiber.Ctx) error {
	h.service.Cache().Clear()
	slog.Info("Profile cache cleared")
	return c.JSON(fiber.Map{"cleared": true})
}

func (h *Handler) serviceError(c *fiber.Ctx, msg string, err error) error {
	slog.Error(msg, "error", err)
	if errors.Is(err, auth.ErrNotAuthenticated) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "not authenticated, visit /auth/login first",
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}
