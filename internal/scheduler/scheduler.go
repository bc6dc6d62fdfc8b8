// Package scheduler refreshes directory gauges and process metrics on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"runtime"

	"github.com/robfig/cron/v3"

	service "github.com/IbrahimAli333/LaunchCircle-New/internal/app"
	"github.com/IbrahimAli333/LaunchCircle-New/pkg/logger"
	"github.com/IbrahimAli333/LaunchCircle-New/pkg/metrics"
)

const nanosecondsPerMillisecond = 1e6

// StatsProvider reports directory statistics; *service.Service satisfies it.
type StatsProvider interface {
	GetStats(ctx context.Context) (service.Stats, error)
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLogger sets the scheduler logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.logger = l
		}
	}
}

// Scheduler wraps robfig/cron and runs the stats refresh.
type Scheduler struct {
	cron     *cron.Cron
	spec     string
	provider StatsProvider
	logger   logger.Logger
}

// New creates a Scheduler firing on spec, e.g. "@every 30s".
func New(spec string, provider StatsProvider, opts ...Option) *Scheduler {
	s := &Scheduler{
		spec:     spec,
		provider: provider,
		logger:   logger.Get().Named("scheduler"),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.cron = cron.New(cron.WithLogger(cronLogger{log: s.logger}))
	return s
}

// Start registers the refresh job and starts the scheduler. One refresh runs
// immediately so gauges are populated before the first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.spec, func() { s.Refresh(ctx) }); err != nil {
		return fmt.Errorf("cron.AddFunc %q: %w", s.spec, err)
	}
	s.cron.Start()
	s.logger.Info(ctx, "cron started", logger.String("spec", s.spec))

	go s.Refresh(ctx)
	return nil
}

// Stop halts the scheduler and waits for a running refresh to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info(context.Background(), "cron stopped")
}

// Refresh updates store gauges, queue depth and runtime metrics once.
func (s *Scheduler) Refresh(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	stats, err := s.provider.GetStats(ctx)
	if err != nil {
		s.logger.Warn(ctx, "stats refresh failed", logger.Error(err))
		metrics.RecordErrorByComponent("scheduler", "stats")
	} else {
		metrics.UpdateQueueSize(stats.QueueLength)
		s.logger.Debug(ctx, "stats refreshed",
			logger.Int("profiles", stats.Profiles),
			logger.Int("jobs", stats.Jobs),
			logger.Int("applications", stats.Applications),
		)
	}
	updateSystemMetrics()
}

func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
	if m.NumGC > 0 {
		metrics.RecordSystemGCPauseTime(float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond)
	}
}

// cronLogger adapts logger.Logger to cron.Logger.
type cronLogger struct {
	log logger.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.log.Debug(context.Background(), msg, pairs(keysAndValues)...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.log.Error(context.Background(), msg, append(pairs(keysAndValues), logger.Error(err))...)
}

func pairs(kv []interface{}) []logger.Field {
	fields := make([]logger.Field, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		fields = append(fields, logger.Any(fmt.Sprint(kv[i]), kv[i+1]))
	}
	return fields
}
