package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/IbrahimAli333/LaunchCircle-New/internal/adapters/events"
	"github.com/IbrahimAli333/LaunchCircle-New/internal/adapters/http/api"
	"github.com/IbrahimAli333/LaunchCircle-New/internal/adapters/http/swagger"
	"github.com/IbrahimAli333/LaunchCircle-New/internal/adapters/mq/worker"
	"github.com/IbrahimAli333/LaunchCircle-New/internal/adapters/repository"
	service "github.com/IbrahimAli333/LaunchCircle-New/internal/app"
	"github.com/IbrahimAli333/LaunchCircle-New/internal/config"
	"github.com/IbrahimAli333/LaunchCircle-New/internal/scheduler"
	"github.com/IbrahimAli333/LaunchCircle-New/pkg/logger"
	"github.com/IbrahimAli333/LaunchCircle-New/pkg/metrics"
	"github.com/IbrahimAli333/LaunchCircle-New/pkg/tracing"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

var configPath string

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "launchcircle",
		Short: "LaunchCircle professional directory service",
		Long: `LaunchCircle serves the founder, job seeker and job provider directory:
profile CRUD with sparse updates, job posts, applications and combined search.

Configuration is read from an optional YAML file and LAUNCHCIRCLE_* variables.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         runServe,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP API (default)",
			Args:  cobra.NoArgs,
			RunE:  runServe,
		},
		&cobra.Command{
			Use:   "seed",
			Short: "Load the sample directory into an empty store and exit",
			Args:  cobra.NoArgs,
			RunE:  runSeed,
		},
	)
	return root
}

// setup loads configuration and initializes logging and metrics.
func setup() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		logger.Get().Warn(context.Background(), "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	metrics.Init(
		metrics.WithMetricsEnabled(cfg.MetricsEnabled),
		metrics.WithNamespace(cfg.MetricsNamespace),
		metrics.WithSubsystem(cfg.MetricsSubsystem),
		metrics.WithCustomLabels(cfg.ConstLabels()),
	)
	return cfg, nil
}

// components owns what buildService opened so it can be released in order.
type components struct {
	svc   *service.Service
	redis *redis.Client
}

func (c *components) close(ctx context.Context) error {
	err := c.svc.Stop(ctx)
	if c.redis != nil {
		err = errors.Join(err, c.redis.Close())
	}
	return err
}

// buildService opens the configured store and publisher and starts the service.
func buildService(ctx context.Context, cfg *config.Config) (*components, error) {
	log := logger.Get()

	store, err := repository.Open(ctx, cfg.StoreDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.StoreDriver, err)
	}

	c := &components{}
	var publisher worker.Publisher = events.NopPublisher{}
	if cfg.RedisURL != "" {
		c.redis, err = events.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			_ = store.Close()
			return nil, err
		}
		publisher = events.NewRedisPublisher(c.redis)
		log.Info(ctx, "publishing events to redis")
	}

	c.svc = service.New(store,
		service.WithLogger(log.Named("service")),
		service.WithWorkerCount(cfg.WorkerCount),
		service.WithQueueSize(cfg.EventQueueSize),
		service.WithDedupeSize(cfg.DedupeSize),
		service.WithUpdateRetries(cfg.UpdateRetries),
		service.WithStoreTimeout(cfg.StoreTimeout()),
		service.WithPublisher(publisher),
	)
	if err := c.svc.Start(ctx); err != nil {
		_ = c.close(ctx)
		return nil, fmt.Errorf("start service: %w", err)
	}
	return c, nil
}

func runSeed(cmd *cobra.Command, _ []string) error {
	cfg, err := setup()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	c, err := buildService(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = c.close(context.WithoutCancel(ctx)) }()

	seeded, err := c.svc.Seed(ctx)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	if !seeded {
		logger.Get().Info(ctx, "store already populated; nothing seeded")
	}
	return nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	// Only our own registry is exposed on /metrics.
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	cfg, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx,
		tracing.WithEnabled(cfg.TracingEnabled),
		tracing.WithService("launchcircle", api.Version),
	)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}

	c, err := buildService(ctx, cfg)
	if err != nil {
		return err
	}

	if cfg.Seed {
		if _, err := c.svc.Seed(ctx); err != nil {
			log.Error(ctx, "seeding failed", logger.Error(err))
		}
	}

	sched := scheduler.New(cfg.StatsSchedule, c.svc, scheduler.WithLogger(log.Named("scheduler")))
	if err := sched.Start(ctx); err != nil {
		_ = c.close(ctx)
		return err
	}

	handler := api.NewServer(c.svc,
		api.WithLogger(log.Named("http")),
		api.WithAllowedOrigins(cfg.AllowedOrigins()),
		api.WithMaxBodyBytes(cfg.MaxBodyBytes),
	).Handler(ctx, swagger.Register)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server",
			logger.String("addr", cfg.Addr),
			logger.String("store", cfg.StoreDriver),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// Wait for shutdown signal or a listener failure.
	select {
	case <-ctx.Done():
	case err = <-serveErr:
		if err != nil {
			log.Error(ctx, "HTTP server failed", logger.Error(err))
		}
	}
	log.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if serr := srv.Shutdown(shutdownCtx); serr != nil {
		log.Error(shutdownCtx, "server shutdown failed", logger.Error(serr))
	}
	sched.Stop()
	if cerr := c.close(shutdownCtx); cerr != nil {
		log.Error(shutdownCtx, "service shutdown failed", logger.Error(cerr))
	}
	if terr := shutdownTracing(shutdownCtx); terr != nil {
		log.Error(shutdownCtx, "tracing shutdown failed", logger.Error(terr))
	}

	log.Info(shutdownCtx, "server stopped")
	return err
}
