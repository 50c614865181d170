package config

import (
	"log/slog"
	"strings"
)

// AppConfig is the root configuration for the API process. Values are read
// from the environment with github.com/caarlos0/env; see the sibling files
// for the individual sections:
//   - http.go: listener and CORS
//   - database.go: Postgres and Redis
//   - services.go: agent service, runner pool, search tools and export
type AppConfig struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	HTTP     HTTPConfig
	Postgres DBConfig
	Redis    RedisConfig
	AI       AIConfig
	Runner   RunnerConfig
	Tools    ToolsConfig
	Export   ExportConfig
}

// Sanitize applies guardrails to values loaded from env. Call it once after
// parsing.
func (c *AppConfig) Sanitize() {
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.HTTP.Sanitize()
	c.Postgres.Sanitize()
	c.Redis.Sanitize()
	c.AI.Sanitize()
	c.Runner.Sanitize()
	c.Export.Sanitize()
}

// SlogLevel maps LogLevel onto slog. Unknown values fall back to info.
func (c *AppConfig) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
