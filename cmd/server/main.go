package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"meraki-api/config"
	httpadapter "meraki-api/internal/adapter/http"
	repo "meraki-api/internal/adapter/repository"
	"meraki-api/internal/infrastructure/migration"
	"meraki-api/internal/usecase"
	"meraki-api/pkg/ai"
	infra "meraki-api/pkg/infrastructure"
	"meraki-api/pkg/search"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "meraki-api",
		Short:         "Meraki backend: hobby discovery jobs backed by agent crews",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
	root.AddCommand(newServeCmd(), newMigrateCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API and the job runner",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := bootstrap()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			pool, err := infra.NewJobsPool(ctx, cfg.Postgres)
			if err != nil {
				slog.Error("database not available", "error", err)
				return err
			}
			defer pool.Close()
			return migration.RunMigrations(ctx, pool)
		},
	}
}

func bootstrap() (*config.AppConfig, error) {
	cfg, err := infra.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		return nil, err
	}
	infra.InitLogger(cfg.SlogLevel())
	return cfg, nil
}

func runServe(parent context.Context) error {
	cfg, err := bootstrap()
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	jobs, persister, closeStores := openStores(ctx, cfg)
	defer closeStores()

	runner := usecase.NewRunner(jobs, ai.NewClient(cfg.AI), persister)
	workers := usecase.NewPool(ctx, runner, cfg.Runner.Workers, cfg.Runner.QueueSize)

	tools := &search.Toolbox{
		YouTube: search.NewYouTubeSearch(ctx, cfg.Tools.YouTubeAPIKey),
		Places:  search.NewPlacesSearch(cfg.Tools.PlacesKey()),
	}
	exporter := usecase.NewRoadmapExporter(jobs, infra.NewChromedpRenderer(cfg.Export.ChromePath, cfg.Export.Timeout))

	app := fiber.New(fiber.Config{AppName: "meraki-api", DisableStartupMessage: true})
	app.Use(requestid.New())
	app.Use(recover.New())
	if len(cfg.HTTP.CORSOrigins) > 0 {
		app.Use(cors.New(cors.Config{
			AllowOrigins:     strings.Join(cfg.HTTP.CORSOrigins, ","),
			AllowCredentials: true,
		}))
	}
	httpadapter.NewHandler(usecase.NewJobService(jobs, workers), exporter, workers, tools, cfg.Tools.Token).Register(app)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server listening", "addr", cfg.HTTP.Addr())
		errCh <- app.Listen(cfg.HTTP.Addr())
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			slog.Error("http server failed", "error", err)
			return err
		}
	}

	if err := app.ShutdownWithTimeout(cfg.HTTP.ShutdownTimeout); err != nil {
		slog.Warn("http shutdown", "error", err)
	}
	drainCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := workers.Shutdown(drainCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	slog.Info("server stopped")
	return nil
}

// openStores connects Postgres and Redis. Without Postgres the server keeps
// jobs in memory and skips domain persistence.
func openStores(ctx context.Context, cfg *config.AppConfig) (usecase.JobsRepo, usecase.Persister, func()) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := infra.NewJobsPool(connectCtx, cfg.Postgres)
	if err != nil {
		slog.Warn("jobs database not available, using in-memory job store", "error", err)
		return repo.NewMemoryJobsRepo(), nil, func() {}
	}

	if cfg.Postgres.RunMigrationsOnStart {
		if err := migration.RunMigrations(ctx, pool); err != nil {
			slog.Error("migrations failed", "error", err)
		}
	}

	resolver, closeCache := hobbyResolver(connectCtx, cfg, pool)
	closeAll := func() {
		closeCache()
		pool.Close()
	}
	return repo.NewJobsRepo(pool), repo.NewDomainRepo(pool, resolver), closeAll
}

// hobbyResolver wraps the Postgres slug lookup in the Redis cache when
// REDIS_URL is set and reachable.
func hobbyResolver(ctx context.Context, cfg *config.AppConfig, pool *pgxpool.Pool) (repo.HobbyResolver, func()) {
	var resolver repo.HobbyResolver = repo.NewPGHobbyResolver(pool)

	rdb, err := infra.NewRedisClient(ctx, cfg.Redis)
	switch {
	case err != nil:
		slog.Warn("redis not available, hobby cache disabled", "error", err)
	case rdb != nil:
		slog.Info("hobby cache enabled", "ttl", cfg.Redis.HobbyTTL.String())
		return repo.NewCachedHobbyResolver(resolver, rdb, cfg.Redis.HobbyTTL), func() { _ = rdb.Close() }
	}
	return resolver, func() {}
}
