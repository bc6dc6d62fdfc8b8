// Package worker drains queued domain events into a publisher.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/IbrahimAli333/LaunchCircle-New/internal/domain/model"
	"github.com/IbrahimAli333/LaunchCircle-New/pkg/logger"
	"github.com/IbrahimAli333/LaunchCircle-New/pkg/metrics"
)

const defaultRateInterval = 5 * time.Second

// Source is where workers read events from. The channel is closed when no
// more events will arrive.
type Source interface {
	Events() <-chan model.Event
}

// Publisher delivers one event to subscribers.
type Publisher interface {
	Publish(ctx context.Context, e model.Event) error
}

// Pool runs a fixed number of workers over one Source.
type Pool struct {
	size      int
	source    Source
	publisher Publisher
	logger    logger.Logger

	wg      sync.WaitGroup
	stop    chan struct{}
	stopped sync.Once

	rateInterval time.Duration
	sinceTick    atomic.Int64
	published    atomic.Int64
	lastTick     time.Time
}

// NewPool creates a pool of size workers. size < 1 means runtime.NumCPU().
func NewPool(size int, source Source, publisher Publisher, opts ...Option) *Pool {
	if size < 1 {
		size = runtime.NumCPU()
	}
	p := &Pool{
		size:         size,
		source:       source,
		publisher:    publisher,
		stop:         make(chan struct{}),
		rateInterval: defaultRateInterval,
		lastTick:     time.Now(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = logger.Get().Named("worker-pool")
	}

	metrics.UpdateWorkerActiveCount(0)
	metrics.UpdateWorkerMessagesPerSecond(0)

	return p
}

// Start launches the workers. They exit when ctx is done or the source is
// closed and drained.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.size; i++ {
		p.wg.Add(1)
		go p.run(ctx, p.logger.Named("worker-"+strconv.Itoa(i)))
	}
	metrics.UpdateWorkerActiveCount(p.size)
	go p.startMetricsUpdater(ctx)
}

func (p *Pool) run(ctx context.Context, log logger.Logger) {
	defer p.wg.Done()

	events := p.source.Events()
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			metrics.RecordQueueDequeue()
			if err := p.process(ctx, e); err != nil {
				log.Error(ctx, "event publication failed",
					logger.String("event_id", e.ID),
					logger.String("type", string(e.Type)),
					logger.Error(err),
				)
			}
		}
	}
}

func (p *Pool) process(ctx context.Context, e model.Event) error { //nolint:gocritic // hugeParam: events travel by value
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Microseconds()) / 1000.0)
	}()

	if err := p.publisher.Publish(ctx, e); err != nil {
		metrics.RecordWorkerError()
		metrics.RecordEventPublishError()
		metrics.RecordErrorByComponent("worker", "publish_error")
		return fmt.Errorf("publish %s %s: %w", e.Type, e.ID, err)
	}
	metrics.RecordEventPublished(string(e.Type))
	p.sinceTick.Add(1)
	p.published.Add(1)
	return nil
}

func (p *Pool) startMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(p.rateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.stop:
			return
		case now := <-ticker.C:
			if elapsed := now.Sub(p.lastTick).Seconds(); elapsed > 0 {
				metrics.UpdateWorkerMessagesPerSecond(float64(p.sinceTick.Swap(0)) / elapsed)
			}
			p.lastTick = now
		}
	}
}

// Processed reports events published since the pool was created.
func (p *Pool) Processed() int64 {
	return p.published.Load()
}

// Shutdown closes the source when it supports Close, waits for the workers
// to drain it and stops the metrics updater.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.source.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}
	defer p.stopped.Do(func() { close(p.stop) })

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		metrics.UpdateWorkerActiveCount(0)
		return nil
	case <-ctx.Done():
		p.logger.Warn(ctx, "worker shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}
