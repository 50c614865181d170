package usecase

import (
	"context"
	"encoding/json"
	"testing"

	repo "meraki-api/internal/adapter/repository"
	"meraki-api/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRenderer struct{ html string }

func (r *fakeRenderer) RenderHTMLToPDF(_ context.Context, html string) ([]byte, error) {
	r.html = html
	return []byte("%PDF-1.4"), nil
}

func completedRoadmap(t *testing.T, jobs *repo.MemoryJobsRepo, result string) uuid.UUID {
	t.Helper()
	ctx := context.Background()
	id, err := jobs.Create(ctx, domain.KindRoadmapGeneration, map[string]any{"hobby_name": "Pottery"}, nil)
	require.NoError(t, err)
	require.NoError(t, jobs.SetRunning(ctx, id))
	require.NoError(t, jobs.SetCompleted(ctx, id, json.RawMessage(result)))
	return id
}

func TestRoadmapExporterRenderHTML(t *testing.T) {
	jobs := repo.NewMemoryJobsRepo()
	id := completedRoadmap(t, jobs, `{"title":"Clay in 8 weeks","description":"From pinch pots to the wheel",
		"phases":[{"phase_number":1,"title":"Hand building","goals":["Make a <pinch> pot"],"suggested_activities":["Coil a cup"],"time_per_week":"2 hours"}]}`)

	html, err := NewRoadmapExporter(jobs, nil).RenderHTML(context.Background(), id)
	require.NoError(t, err)
	assert.Contains(t, html, "<h1>Clay in 8 weeks</h1>")
	assert.Contains(t, html, "Phase 1: Hand building")
	assert.Contains(t, html, "2 hours per week")
	assert.Contains(t, html, "Make a &lt;pinch&gt; pot")
	assert.Contains(t, html, "Pottery")
}

func TestRoadmapExporterRenderPDF(t *testing.T) {
	jobs := repo.NewMemoryJobsRepo()
	id := completedRoadmap(t, jobs, `{"title":"Chess","phases":[]}`)
	renderer := &fakeRenderer{}

	pdf, err := NewRoadmapExporter(jobs, renderer).RenderPDF(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4"), pdf)
	assert.Contains(t, renderer.html, "Chess")
}

func TestRoadmapExporterErrors(t *testing.T) {
	ctx := context.Background()
	jobs := repo.NewMemoryJobsRepo()
	exporter := NewRoadmapExporter(jobs, &fakeRenderer{})

	_, err := exporter.RenderHTML(ctx, uuid.New())
	assert.ErrorIs(t, err, repo.ErrJobNotFound)

	pending, err := jobs.Create(ctx, domain.KindRoadmapGeneration, nil, nil)
	require.NoError(t, err)
	_, err = exporter.RenderPDF(ctx, pending)
	assert.ErrorIs(t, err, ErrJobNotCompleted)

	other, err := jobs.Create(ctx, domain.KindDiscovery, nil, nil)
	require.NoError(t, err)
	_, err = exporter.RenderHTML(ctx, other)
	assert.ErrorIs(t, err, repo.ErrJobNotFound)
}
