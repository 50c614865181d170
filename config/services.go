package config

import (
	"strings"
	"time"
)

// AIConfig configures the client for the external agent service that runs the crews.
type AIConfig struct {
	BaseURL string `env:"AI_SERVICE_URL" envDefault:"http://ai-service:8000"`
	APIKey  string `env:"AI_SERVICE_API_KEY"`

	// Timeout bounds a single kickoff request. Crews routinely take minutes.
	Timeout time.Duration `env:"AI_TIMEOUT" envDefault:"10m"`

	// MaxAttempts is the number of tries for transport-level failures.
	MaxAttempts int `env:"AI_MAX_ATTEMPTS" envDefault:"3"`

	// RatePerSecond and RateBurst throttle kickoffs across all workers.
	RatePerSecond float64 `env:"AI_RATE_PER_SECOND" envDefault:"2"`
	RateBurst     int     `env:"AI_RATE_BURST" envDefault:"4"`
}

// Sanitize applies guardrails to agent client values.
func (a *AIConfig) Sanitize() {
	a.BaseURL = strings.TrimRight(strings.TrimSpace(a.BaseURL), "/")
	if a.BaseURL == "" {
		a.BaseURL = "http://ai-service:8000"
	}
	if a.Timeout <= 0 {
		a.Timeout = 10 * time.Minute
	}
	if a.MaxAttempts < 1 {
		a.MaxAttempts = 1
	}
	if a.MaxAttempts > 10 {
		a.MaxAttempts = 10
	}
	if a.RatePerSecond <= 0 {
		a.RatePerSecond = 2
	}
	if a.RateBurst < 1 {
		a.RateBurst = 1
	}
}

// RunnerConfig sizes the bounded worker pool that executes jobs.
type RunnerConfig struct {
	Workers   int `env:"RUNNER_WORKERS" envDefault:"4"`
	QueueSize int `env:"RUNNER_QUEUE_SIZE" envDefault:"64"`
}

const (
	maxRunnerWorkers = 64
	maxRunnerQueue   = 10000
)

// Sanitize applies guardrails to runner values.
func (r *RunnerConfig) Sanitize() {
	if r.Workers < 1 {
		r.Workers = 1
	}
	if r.Workers > maxRunnerWorkers {
		r.Workers = maxRunnerWorkers
	}
	if r.QueueSize < 1 {
		r.QueueSize = 1
	}
	if r.QueueSize > maxRunnerQueue {
		r.QueueSize = maxRunnerQueue
	}
}

// ToolsConfig holds credentials for the search tools the crews call back into.
// Every key is optional; a missing key turns the tool into a "not configured"
// response.
type ToolsConfig struct {
	YouTubeAPIKey string `env:"YOUTUBE_API_KEY"`
	PlacesAPIKey  string `env:"GOOGLE_PLACES_API_KEY"`
	MapsAPIKey    string `env:"NEXT_PUBLIC_GOOGLE_MAPS_API_KEY"`

	// Token, when set, must be presented as a bearer token on /tools calls.
	Token string `env:"TOOLS_TOKEN"`
}

// PlacesKey returns the Places key, falling back to the public Maps key the
// frontend already carries.
func (t ToolsConfig) PlacesKey() string {
	if t.PlacesAPIKey != "" {
		return t.PlacesAPIKey
	}
	return t.MapsAPIKey
}

// ExportConfig configures the headless Chrome renderer used for roadmap PDFs.
type ExportConfig struct {
	ChromePath string        `env:"CHROME_PATH"`
	Timeout    time.Duration `env:"EXPORT_TIMEOUT" envDefault:"60s"`
}

// Sanitize applies guardrails to export values.
func (e *ExportConfig) Sanitize() {
	if e.Timeout <= 0 {
		e.Timeout = 60 * time.Second
	}
}
