package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	repo "meraki-api/internal/adapter/repository"
	"meraki-api/internal/domain"
	"meraki-api/internal/usecase"
	"meraki-api/pkg/search"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPool struct {
	err   error
	stats usecase.PoolStats
}

func (p *stubPool) Submit(uuid.UUID) error     { return p.err }
func (p *stubPool) Stats() usecase.PoolStats { return p.stats }

type stubRenderer struct{}

func (stubRenderer) RenderHTMLToPDF(context.Context, string) ([]byte, error) {
	return []byte("%PDF-1.4 roadmap"), nil
}

type testServer struct {
	app  *fiber.App
	jobs *repo.MemoryJobsRepo
	pool *stubPool
}

func newTestServer(t *testing.T, toolsToken string) *testServer {
	t.Helper()
	jobs := repo.NewMemoryJobsRepo()
	pool := &stubPool{stats: usecase.PoolStats{Workers: 4, Capacity: 64}}
	tools := &search.Toolbox{
		YouTube: search.NewYouTubeSearch(context.Background(), ""),
		Places:  search.NewPlacesSearch(""),
	}

	app := fiber.New()
	NewHandler(
		usecase.NewJobService(jobs, pool),
		usecase.NewRoadmapExporter(jobs, stubRenderer{}),
		pool,
		tools,
		toolsToken,
	).Register(app)
	return &testServer{app: app, jobs: jobs, pool: pool}
}

func (s *testServer) do(t *testing.T, method, path, body string, headers ...string) (int, []byte, http.Header) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, b, resp.Header
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, "")
	code, body, _ := s.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"status":"healthy","service":"meraki-api"}`, string(body))
}

func TestStartAndGetJob(t *testing.T) {
	s := newTestServer(t, "")

	code, body, _ := s.do(t, http.MethodPost, "/sampling/local", `{"hobby_name":"Pottery","location":"Lisbon"}`)
	require.Equal(t, http.StatusOK, code, string(body))

	var started struct {
		JobID string `json:"job_id"`
	}
	require.NoError(t, json.Unmarshal(body, &started))
	id, err := uuid.Parse(started.JobID)
	require.NoError(t, err)

	code, body, _ = s.do(t, http.MethodGet, "/sampling/local/"+started.JobID, "")
	require.Equal(t, http.StatusOK, code)
	var got map[string]any
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, started.JobID, got["job_id"])
	assert.Equal(t, "pending", got["status"])
	assert.Nil(t, got["result"])
	assert.Nil(t, got["error"])
	assert.Contains(t, got, "created_at")
	assert.Contains(t, got, "updated_at")

	ctx := context.Background()
	require.NoError(t, s.jobs.SetRunning(ctx, id))
	require.NoError(t, s.jobs.SetCompleted(ctx, id, json.RawMessage(`{"local_spots":[],"general_tips":{}}`)))

	code, body, _ = s.do(t, http.MethodGet, "/sampling/local/"+started.JobID, "")
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "completed", got["status"])
	assert.Equal(t, map[string]any{"local_spots": []any{}, "general_tips": map[string]any{}}, got["result"])
}

func TestGetJobNotFound(t *testing.T) {
	s := newTestServer(t, "")

	for _, path := range []string{
		"/discovery/" + uuid.NewString(),
		"/discovery/not-a-uuid",
	} {
		code, body, _ := s.do(t, http.MethodGet, path, "")
		assert.Equal(t, http.StatusNotFound, code, path)
		assert.JSONEq(t, `{"error":"job not found"}`, string(body))
	}

	code, body, _ := s.do(t, http.MethodPost, "/sampling/preview", `{"hobby_name":"Pottery"}`)
	require.Equal(t, http.StatusOK, code)
	var started struct {
		JobID string `json:"job_id"`
	}
	require.NoError(t, json.Unmarshal(body, &started))

	code, _, _ = s.do(t, http.MethodGet, "/roadmap/generate/"+started.JobID, "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestStartJobValidation(t *testing.T) {
	s := newTestServer(t, "")

	cases := []struct {
		path, body string
	}{
		{"/discovery", `{}`},
		{"/discovery", `{"user_id":"nope"}`},
		{"/practice/feedback", `{"hobby_name":"Chess"}`},
		{"/challenges/generate", `{"user_id":"` + uuid.NewString() + `"}`},
		{"/motivation/check", `{"hobby_name":"Chess"}`},
		{"/roadmap/generate", `not json`},
	}
	for _, tc := range cases {
		code, body, _ := s.do(t, http.MethodPost, tc.path, tc.body)
		assert.Equal(t, http.StatusBadRequest, code, "%s %s", tc.path, tc.body)
		assert.Contains(t, string(body), `"error"`)
	}
}

func TestStartJobQueueFull(t *testing.T) {
	s := newTestServer(t, "")
	s.pool.err = usecase.ErrQueueFull

	code, body, _ := s.do(t, http.MethodPost, "/motivation/check", `{"user_id":"`+uuid.NewString()+`","hobby_name":"Chess"}`)
	require.Equal(t, http.StatusServiceUnavailable, code)

	var got struct {
		Error string `json:"error"`
		JobID string `json:"job_id"`
	}
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "job queue is full", got.Error)

	code, body, _ = s.do(t, http.MethodGet, "/motivation/check/"+got.JobID, "")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(body), `"status":"failed"`)
	assert.Contains(t, string(body), `"error":"job queue is full"`)
}

func TestRunnerStats(t *testing.T) {
	s := newTestServer(t, "")
	code, body, _ := s.do(t, http.MethodGet, "/stats/runner", "")
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"workers":4,"capacity":64,"queued":0,"in_flight":0,"processed":0}`, string(body))
}

func TestExportRoadmap(t *testing.T) {
	s := newTestServer(t, "")
	ctx := context.Background()

	id, err := s.jobs.Create(ctx, domain.KindRoadmapGeneration, map[string]any{"hobby_name": "Chess"}, nil)
	require.NoError(t, err)

	code, _, _ := s.do(t, http.MethodGet, "/roadmap/generate/"+id.String()+"/pdf", "")
	assert.Equal(t, http.StatusConflict, code)

	require.NoError(t, s.jobs.SetRunning(ctx, id))
	require.NoError(t, s.jobs.SetCompleted(ctx, id, json.RawMessage(`{"title":"Chess","phases":[{"phase_number":1,"title":"Openings"}]}`)))

	code, body, hdr := s.do(t, http.MethodGet, "/roadmap/generate/"+id.String()+"/pdf", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "application/pdf", hdr.Get("Content-Type"))
	assert.Contains(t, hdr.Get("Content-Disposition"), "roadmap-"+id.String()+".pdf")
	assert.Equal(t, "%PDF-1.4 roadmap", string(body))

	code, body, hdr = s.do(t, http.MethodGet, "/roadmap/generate/"+id.String()+"/pdf?format=html", "")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, hdr.Get("Content-Type"), "text/html")
	assert.Contains(t, string(body), "Phase 1: Openings")

	code, _, _ = s.do(t, http.MethodGet, "/roadmap/generate/"+uuid.NewString()+"/pdf", "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestCallTool(t *testing.T) {
	s := newTestServer(t, "secret")

	code, _, _ := s.do(t, http.MethodPost, "/tools/youtube_search", `{"query":"pottery"}`)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, body, _ := s.do(t, http.MethodPost, "/tools/youtube_search", `{"query":"pottery"}`, "Authorization", "Bearer secret")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(body), "YOUTUBE_API_KEY environment variable not set")

	code, _, _ = s.do(t, http.MethodPost, "/tools/web_search", `{}`, "Authorization", "Bearer secret")
	assert.Equal(t, http.StatusNotFound, code)

	code, _, _ = s.do(t, http.MethodPost, "/tools/google_places_search", `{"hobby":"pottery"}`, "Authorization", "Bearer secret")
	assert.Equal(t, http.StatusBadRequest, code)
}
