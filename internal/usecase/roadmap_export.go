package usecase

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"time"

	repo "meraki-api/internal/adapter/repository"
	"meraki-api/internal/domain"

	"github.com/google/uuid"
)

// ErrJobNotCompleted is returned when exporting a roadmap whose job has not
// completed.
var ErrJobNotCompleted = errors.New("job not completed")

//go:embed templates/roadmap.html.tmpl
var templateFS embed.FS

var roadmapTemplate = template.Must(template.ParseFS(templateFS, "templates/roadmap.html.tmpl"))

type roadmapView struct {
	domain.RoadmapResult
	Hobby       string
	GeneratedAt string
}

// RoadmapExporter renders completed roadmap jobs as printable documents.
type RoadmapExporter struct {
	jobs     JobsRepo
	renderer Renderer
	now      func() time.Time
}

func NewRoadmapExporter(jobs JobsRepo, renderer Renderer) *RoadmapExporter {
	return &RoadmapExporter{jobs: jobs, renderer: renderer, now: time.Now}
}

// RenderHTML returns the roadmap of job id as a standalone HTML page.
func (e *RoadmapExporter) RenderHTML(ctx context.Context, id uuid.UUID) (string, error) {
	job, err := e.jobs.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if job.Kind != domain.KindRoadmapGeneration {
		return "", repo.ErrJobNotFound
	}
	if job.Status != domain.StatusCompleted {
		return "", fmt.Errorf("%w: status is %s", ErrJobNotCompleted, job.Status)
	}

	var view roadmapView
	if err := json.Unmarshal(job.Result, &view.RoadmapResult); err != nil {
		return "", fmt.Errorf("decode roadmap: %w", err)
	}
	if view.Title == "" {
		view.Title = "Your roadmap"
	}
	if h, ok := job.Input["hobby_name"].(string); ok {
		view.Hobby = h
	}
	view.GeneratedAt = e.now().UTC().Format("2 January 2006")

	var buf bytes.Buffer
	if err := roadmapTemplate.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("render roadmap: %w", err)
	}
	return buf.String(), nil
}

// RenderPDF prints the roadmap of job id to an A4 PDF.
func (e *RoadmapExporter) RenderPDF(ctx context.Context, id uuid.UUID) ([]byte, error) {
	html, err := e.RenderHTML(ctx, id)
	if err != nil {
		return nil, err
	}
	if e.renderer == nil {
		return nil, errors.New("pdf renderer not configured")
	}
	return e.renderer.RenderHTMLToPDF(ctx, html)
}
