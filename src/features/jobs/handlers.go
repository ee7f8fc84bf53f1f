package jobs

import (
	"log/slog"
	"sort"

	"github.com/gofiber/fiber/v2"
)

// Handler is the handler for the jobs feature.
type Handler struct {
	service *Service
}

// NewHandler creates a new handler for the jobs feature.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type jobView struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Name      string         `json:"name"`
	Status    JobStatus      `json:"status"`
	Progress  int            `json:"progress"`
	Message   string         `json:"message"`
	CreatedAt string         `json:"created_at"`
	UpdatedAt string         `json:"updated_at"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

func toView(job *Job) jobView {
	return jobView{
		ID:        job.ID,
		Type:      job.Type,
		Name:      job.Name,
		Status:    job.Status,
		Progress:  job.Progress,
		Message:   job.Message,
		CreatedAt: job.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt: job.UpdatedAt.Format("2006-01-02 15:04:05"),
		Metadata:  job.Metadata,
	}
}

// HandleJobList returns all known jobs, newest first.
func (h *Handler) HandleJobList(c *fiber.Ctx) error {
	slog.Debug("HandleJobList handler called")
	jobs := h.service.GetJobs()
	sort.Slice(jobs, func(i, j int) bool {
		return jobs[i].CreatedAt.After(jobs[j].CreatedAt)
	})
	views := make([]jobView, 0, len(jobs))
	for _, job := range jobs {
		views = append(views, toView(job))
	}
	return c.JSON(fiber.Map{"jobs": views})
}

// HandleStartJob starts a job of the given type.
func (h *Handler) HandleStartJob(c *fiber.Ctx) error {
	jobType := c.Params("type")
	slog.Debug("HandleStartJob handler called", "type", jobType)

	metadata := map[string]any{}
	if c.Query("dry_run") != "" {
		metadata["dry_run"] = c.Query("dry_run") == "true"
	}

	jobID, err := h.service.StartJob(jobType, jobType, metadata)
	if err != nil {
		slog.Error("Failed to start job", "type", jobType, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"job_id": jobID})
}

// HandleJobStatus returns a single job.
func (h *Handler) HandleJobStatus(c *fiber.Ctx) error {
	job, exists := h.service.GetJob(c.Params("id"))
	if !exists {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "job not found"})
	}
	return c.JSON(toView(job))
}

// HandleCancelJob cancels a running job.
func (h *Handler) HandleCancelJob(c *fiber.Ctx) error {
	slog.Debug("HandleCancelJob handler called", "id", c.Params("id"))
	if err := h.service.CancelJob(c.Params("id")); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"status": "cancelled"})
}
