package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	repo "meraki-api/internal/adapter/repository"
	"meraki-api/internal/domain"
	"meraki-api/internal/usecase"
)

// Renders a roadmap JSON document through the export template so the
// layout can be checked in a browser without running a crew.
func main() {
	in := "roadmap.json"
	if len(os.Args) > 1 {
		in = os.Args[1]
	}
	b, err := os.ReadFile(in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read roadmap: %v\n", err)
		os.Exit(2)
	}
	var roadmap domain.RoadmapResult
	if err := json.Unmarshal(b, &roadmap); err != nil {
		fmt.Fprintf(os.Stderr, "unmarshal: %v\n", err)
		os.Exit(2)
	}
	result, err := json.Marshal(domain.Normalize(&roadmap))
	if err != nil {
		fmt.Fprintf(os.Stderr, "marshal: %v\n", err)
		os.Exit(2)
	}

	ctx := context.Background()
	jobs := repo.NewMemoryJobsRepo()
	id, err := jobs.Create(ctx, domain.KindRoadmapGeneration, map[string]any{"hobby_name": "Preview"}, nil)
	if err == nil {
		err = jobs.SetRunning(ctx, id)
	}
	if err == nil {
		err = jobs.SetCompleted(ctx, id, result)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "stage job: %v\n", err)
		os.Exit(2)
	}

	html, err := usecase.NewRoadmapExporter(jobs, nil).RenderHTML(ctx, id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "render: %v\n", err)
		os.Exit(2)
	}
	outFile := filepath.Join(filepath.Dir(in), "roadmap_preview.html")
	if err := os.WriteFile(outFile, []byte(html), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "write: %v\n", err)
		os.Exit(2)
	}
	fmt.Printf("wrote %s\n", outFile)
}
