package http

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	repo "meraki-api/internal/adapter/repository"
	"meraki-api/internal/domain"
	"meraki-api/internal/usecase"
	"meraki-api/pkg/search"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Jobs starts and reads jobs.
type Jobs interface {
	Start(ctx context.Context, req domain.Request) (uuid.UUID, error)
	Get(ctx context.Context, kind domain.Kind, id uuid.UUID) (*domain.Job, error)
}

// RoadmapExporter renders completed roadmaps.
type RoadmapExporter interface {
	RenderHTML(ctx context.Context, id uuid.UUID) (string, error)
	RenderPDF(ctx context.Context, id uuid.UUID) ([]byte, error)
}

// RunnerStats reports on the worker pool.
type RunnerStats interface {
	Stats() usecase.PoolStats
}

// Tools serves the search tools crews call back into.
type Tools interface {
	Call(ctx context.Context, name string, args json.RawMessage) (string, error)
}

type Handler struct {
	jobs       Jobs
	exporter   RoadmapExporter
	stats      RunnerStats
	tools      Tools
	toolsToken string
}

func NewHandler(jobs Jobs, exporter RoadmapExporter, stats RunnerStats, tools Tools, toolsToken string) *Handler {
	return &Handler{jobs: jobs, exporter: exporter, stats: stats, tools: tools, toolsToken: toolsToken}
}

// Register mounts every route on app.
func (h *Handler) Register(app *fiber.App) {
	app.Get("/health", h.Health)
	app.Get("/stats/runner", h.RunnerStats)

	for _, kind := range domain.Kinds {
		app.Post(kind.Path(), h.StartJob(kind))
		app.Get(kind.Path()+"/:job_id", h.GetJob(kind))
	}
	app.Get(domain.KindRoadmapGeneration.Path()+"/:job_id/pdf", h.ExportRoadmap)

	app.Post("/tools/:name", h.CallTool)
}

func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "healthy", "service": "meraki-api"})
}

func (h *Handler) RunnerStats(c *fiber.Ctx) error {
	if h.stats == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "runner not started"})
	}
	return c.JSON(h.stats.Stats())
}

// StartJob decodes the kind's request body, stores a job and queues it.
func (h *Handler) StartJob(kind domain.Kind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req, err := domain.NewRequest(kind)
		if err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		if err := c.BodyParser(req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
		}

		id, err := h.jobs.Start(c.UserContext(), req)
		switch {
		case err == nil:
			return c.JSON(fiber.Map{"job_id": id.String()})
		case errors.Is(err, domain.ErrInvalidRequest):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		case usecase.IsUnavailable(err):
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error(), "job_id": id.String()})
		}
		slog.Error("http: start job", "kind", string(kind), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create job"})
	}
}

type jobResponse struct {
	JobID     string          `json:"job_id"`
	Status    string          `json:"status"`
	Result    json.RawMessage `json:"result"`
	Error     *string         `json:"error"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// GetJob returns the job's status and, once finished, its result or error.
func (h *Handler) GetJob(kind domain.Kind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("job_id"))
		if err != nil {
			return jobNotFound(c)
		}
		job, err := h.jobs.Get(c.UserContext(), kind, id)
		if errors.Is(err, repo.ErrJobNotFound) {
			return jobNotFound(c)
		}
		if err != nil {
			slog.Error("http: get job", "job_id", id.String(), "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load job"})
		}
		return c.JSON(jobResponse{
			JobID:     job.ID.String(),
			Status:    string(job.Status),
			Result:    job.Result,
			Error:     job.Error,
			CreatedAt: job.CreatedAt,
			UpdatedAt: job.UpdatedAt,
		})
	}
}

// ExportRoadmap sends a completed roadmap as PDF, or as HTML with ?format=html.
func (h *Handler) ExportRoadmap(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("job_id"))
	if err != nil {
		return jobNotFound(c)
	}
	if h.exporter == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "export not configured"})
	}

	if c.Query("format") == "html" {
		html, err := h.exporter.RenderHTML(c.UserContext(), id)
		if err != nil {
			return exportError(c, id, err)
		}
		c.Type("html", "utf-8")
		return c.SendString(html)
	}

	pdf, err := h.exporter.RenderPDF(c.UserContext(), id)
	if err != nil {
		return exportError(c, id, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="roadmap-%s.pdf"`, id))
	return c.Send(pdf)
}

func exportError(c *fiber.Ctx, id uuid.UUID, err error) error {
	switch {
	case errors.Is(err, repo.ErrJobNotFound):
		return jobNotFound(c)
	case errors.Is(err, usecase.ErrJobNotCompleted):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "roadmap is not ready"})
	}
	slog.Error("http: export roadmap", "job_id", id.String(), "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to render roadmap"})
}

// CallTool runs a search tool for a crew. When a tools token is configured
// the caller must present it as a bearer token.
func (h *Handler) CallTool(c *fiber.Ctx) error {
	if h.toolsToken != "" {
		want := "Bearer " + h.toolsToken
		if subtle.ConstantTimeCompare([]byte(c.Get(fiber.HeaderAuthorization)), []byte(want)) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
		}
	}
	if h.tools == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "tools not configured"})
	}

	name := c.Params("name")
	out, err := h.tools.Call(c.UserContext(), name, json.RawMessage(c.Body()))
	switch {
	case errors.Is(err, search.ErrUnknownTool):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, search.ErrInvalidArgs):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case err != nil:
		slog.Error("http: tool call", "tool", name, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "tool failed"})
	}
	c.Type("json", "utf-8")
	return c.SendString(out)
}

func jobNotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "job not found"})
}
