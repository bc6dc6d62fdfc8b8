package worker_test

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/IbrahimAli333/LaunchCircle-New/internal/adapters/mq/queue"
	"github.com/IbrahimAli333/LaunchCircle-New/internal/adapters/mq/worker"
	"github.com/IbrahimAli333/LaunchCircle-New/internal/domain/model"
	"github.com/IbrahimAli333/LaunchCircle-New/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

type recordingPublisher struct {
	mu   sync.Mutex
	seen []string
	fail map[string]bool
}

func (r *recordingPublisher) Publish(_ context.Context, e model.Event) error {
	if r.fail[e.ID] {
		return errors.New("broker unavailable")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, e.ID)
	return nil
}

func (r *recordingPublisher) ids() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.seen))
	copy(out, r.seen)
	return out
}

func TestPool(t *testing.T) {
	Convey("Given a worker pool over an in-memory queue", t, func() {
		So(logger.Init(logger.WithWriter(io.Discard)), ShouldBeNil)
		ctx := context.Background()
		q := queue.NewInMemoryQueue(queue.WithCapacity(100))
		pub := &recordingPublisher{fail: map[string]bool{"bad": true}}
		pool := worker.NewPool(3, q, pub, worker.WithLogger(logger.Get()))
		pool.Start(ctx)

		Convey("When events are queued and the pool shuts down", func() {
			for _, id := range []string{"a", "b", "bad", "c"} {
				So(q.Enqueue(ctx, model.Event{ID: id, Type: model.EventJobCreated}), ShouldBeNil)
			}
			shutdownCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
			defer cancel()
			So(pool.Shutdown(shutdownCtx), ShouldBeNil)

			Convey("Then every publishable event was delivered before exit", func() {
				So(pub.ids(), ShouldHaveLength, 3)
				So(pub.ids(), ShouldContain, "a")
				So(pub.ids(), ShouldContain, "b")
				So(pub.ids(), ShouldContain, "c")
			})

			Convey("Then the queue no longer accepts events", func() {
				So(errors.Is(q.Enqueue(ctx, model.Event{ID: "late"}), queue.ErrClosed), ShouldBeTrue)
			})
		})
	})

	Convey("Given a pool whose context is cancelled", t, func() {
		So(logger.Init(logger.WithWriter(io.Discard)), ShouldBeNil)
		ctx, cancel := context.WithCancel(context.Background())
		q := queue.NewInMemoryQueue(queue.WithCapacity(10))
		pool := worker.NewPool(0, q, &recordingPublisher{}, worker.WithLogger(logger.Get()))
		pool.Start(ctx)
		cancel()

		Convey("Then shutdown still completes", func() {
			shutdownCtx, done := context.WithTimeout(context.Background(), 2*time.Second)
			defer done()
			So(pool.Shutdown(shutdownCtx), ShouldBeNil)
		})
	})

	Convey("Given a pool whose rate gauge refreshes quickly", t, func() {
		So(logger.Init(logger.WithWriter(io.Discard)), ShouldBeNil)
		ctx := context.Background()
		q := queue.NewInMemoryQueue(queue.WithCapacity(10))
		pub := &recordingPublisher{}
		pool := worker.NewPool(1, q, pub,
			worker.WithLogger(logger.Get()),
			worker.WithRateInterval(10*time.Millisecond),
		)
		pool.Start(ctx)

		Convey("When events are published across several rate ticks", func() {
			So(q.Enqueue(ctx, model.Event{ID: "first", Type: model.EventJobCreated}), ShouldBeNil)
			So(waitFor(func() bool { return len(pub.ids()) == 1 }), ShouldBeTrue)
			time.Sleep(50 * time.Millisecond)
			So(q.Enqueue(ctx, model.Event{ID: "second", Type: model.EventJobCreated}), ShouldBeNil)
			So(waitFor(func() bool { return len(pub.ids()) == 2 }), ShouldBeTrue)
			time.Sleep(50 * time.Millisecond)

			shutdownCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
			defer cancel()
			So(pool.Shutdown(shutdownCtx), ShouldBeNil)

			Convey("Then the processed count is cumulative", func() {
				So(pool.Processed(), ShouldEqual, 2)
			})
		})
	})
}

func waitFor(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}
