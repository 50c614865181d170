package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"time"

	"meraki-api/config"
	repo "meraki-api/internal/adapter/repository"
	"meraki-api/internal/domain"
	"meraki-api/internal/usecase"
	"meraki-api/pkg/ai"
	"meraki-api/pkg/infrastructure"
)

// Runs one roadmap job end to end against a fake agent service and writes
// the exported roadmap next to the working directory.

const mockRoadmap = `{
  "title": "Pottery from zero",
  "description": "Four phases from first pinch pot to a matching set.",
  "phases": [
    {"title": "Hand building", "description": "Pinch and coil.", "goals": ["make a pinch pot"], "suggested_activities": ["one evening class"], "time_per_week": "2h"},
    {"title": "The wheel", "description": "Centering and pulling walls.", "goals": ["center 1kg"], "suggested_activities": ["studio open hours"], "time_per_week": "3h"}
  ]
}`

func startMockAgent() *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/crews/", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Inputs map[string]any `json:"inputs"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Inputs) == 0 {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		crew := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/v1/crews/"), "/kickoff")
		if crew != domain.KindRoadmapGeneration.Crew() {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		// Wrap the answer in chatter so the text fallback gets exercised.
		out := domain.CrewOutput{
			Raw:   "Thought: I know the plan now.\nFinal Answer: " + mockRoadmap,
			Tasks: []domain.TaskOutput{{Name: "plan", Raw: mockRoadmap}},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(out)
	})
	return httptest.NewServer(mux)
}

func main() {
	pdf := flag.Bool("pdf", false, "also print the roadmap to PDF with headless Chrome")
	out := flag.String("out", "roadmap_test", "output file name without extension")
	flag.Parse()

	srv := startMockAgent()
	defer srv.Close()

	jobs := repo.NewMemoryJobsRepo()
	client := ai.NewClient(config.AIConfig{
		BaseURL:       srv.URL,
		Timeout:       10 * time.Second,
		MaxAttempts:   1,
		RatePerSecond: 10,
		RateBurst:     1,
	})
	runner := usecase.NewRunner(jobs, client, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	id, err := jobs.Create(ctx, domain.KindRoadmapGeneration, map[string]any{
		"user_id":    "9136d765-327d-4cf3-bf1c-98aa1449e52d",
		"hobby_name": "Pottery",
		"hobby_slug": "pottery",
	}, nil)
	if err != nil {
		log.Fatalf("create job: %v", err)
	}

	runner.Run(ctx, id)

	job, err := jobs.Get(ctx, id)
	if err != nil {
		log.Fatalf("load job: %v", err)
	}
	if job.Status != domain.StatusCompleted {
		msg := ""
		if job.Error != nil {
			msg = *job.Error
		}
		fmt.Printf("Run ended with status %s: %s\n", job.Status, msg)
		os.Exit(1)
	}
	fmt.Printf("Run completed. Result: %s\n", job.Result)

	var renderer usecase.Renderer
	if *pdf {
		renderer = infrastructure.NewChromedpRenderer(os.Getenv("CHROME_PATH"), 60*time.Second)
	}
	exporter := usecase.NewRoadmapExporter(jobs, renderer)

	html, err := exporter.RenderHTML(ctx, id)
	if err != nil {
		log.Fatalf("render html: %v", err)
	}
	if err := os.WriteFile(*out+".html", []byte(html), 0o644); err != nil {
		log.Fatalf("write html: %v", err)
	}
	fmt.Printf("Wrote %s.html\n", *out)

	if !*pdf {
		return
	}
	doc, err := exporter.RenderPDF(ctx, id)
	if err != nil {
		log.Fatalf("render pdf: %v", err)
	}
	if err := os.WriteFile(*out+".pdf", doc, 0o644); err != nil {
		log.Fatalf("write pdf: %v", err)
	}
	fmt.Printf("Wrote %s.pdf\n", *out)
}
