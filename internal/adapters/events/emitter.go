package events

import (
	"context"

	"github.com/IbrahimAli333/LaunchCircle-New/internal/adapters/mq/queue"
	"github.com/IbrahimAli333/LaunchCircle-New/internal/domain/dedupe"
	"github.com/IbrahimAli333/LaunchCircle-New/internal/domain/model"
	"github.com/IbrahimAli333/LaunchCircle-New/pkg/logger"
	"github.com/IbrahimAli333/LaunchCircle-New/pkg/metrics"
)

// Emitter hands events to the queue at most once per event id. It never
// fails the caller: rejected events are logged and dropped.
type Emitter struct {
	dedupe dedupe.Deduper
	queue  queue.Queue
	log    logger.Logger
}

// NewEmitter creates an Emitter.
func NewEmitter(d dedupe.Deduper, q queue.Queue, log logger.Logger) *Emitter {
	return &Emitter{dedupe: d, queue: q, log: log}
}

// Emit queues e and reports whether it was accepted.
func (em *Emitter) Emit(ctx context.Context, e model.Event) bool { //nolint:gocritic // hugeParam: events travel by value
	if em.dedupe.SeenAndRecord(ctx, e.ID) {
		metrics.RecordEventDuplicate()
		return false
	}
	// Queueing must outlive the request that produced the event.
	if err := em.queue.Enqueue(context.WithoutCancel(ctx), e); err != nil {
		em.dedupe.Unrecord(ctx, e.ID)
		em.log.Warn(ctx, "event dropped",
			logger.String("event_id", e.ID),
			logger.String("type", string(e.Type)),
			logger.Error(err),
		)
		return false
	}
	metrics.RecordEventEmitted(string(e.Type))
	return true
}
