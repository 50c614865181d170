package config

import (
	"strings"
	"time"
)

// HTTPConfig contains HTTP server configuration.
type HTTPConfig struct {
	// Port the fiber app listens on.
	Port string `env:"PORT" envDefault:"8000"`

	// CORSOrigins is the allow-list of browser origins, comma separated.
	CORSOrigins []string `env:"CORS_ORIGINS" envDefault:"http://localhost:3000,http://127.0.0.1:3000" envSeparator:","`

	// ShutdownTimeout bounds graceful shutdown of the listener and the runner pool.
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

// Sanitize applies guardrails to HTTP configuration values.
func (h *HTTPConfig) Sanitize() {
	h.Port = strings.TrimPrefix(strings.TrimSpace(h.Port), ":")
	if h.Port == "" {
		h.Port = "8000"
	}

	origins := make([]string, 0, len(h.CORSOrigins))
	for _, o := range h.CORSOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	h.CORSOrigins = origins

	if h.ShutdownTimeout <= 0 {
		h.ShutdownTimeout = 30 * time.Second
	}
}

// Addr returns the listen address for the configured port.
func (h HTTPConfig) Addr() string { return ":" + h.Port }
