package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/redis/go-redis/v9"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/IbrahimAli333/LaunchCircle-New/internal/adapters/mq/queue"
	"github.com/IbrahimAli333/LaunchCircle-New/internal/domain/dedupe"
	"github.com/IbrahimAli333/LaunchCircle-New/internal/domain/model"
	"github.com/IbrahimAli333/LaunchCircle-New/pkg/logger"
)

type fakeClient struct {
	channel string
	body    []byte
	err     error
}

func (f *fakeClient) Publish(_ context.Context, channel string, message interface{}) *redis.IntCmd {
	f.channel = channel
	f.body, _ = message.([]byte)
	return redis.NewIntResult(1, f.err)
}

func TestRedisPublisher(t *testing.T) {
	Convey("Given a Redis publisher", t, func() {
		client := &fakeClient{}
		pub := NewRedisPublisher(client)
		ev, err := model.NewEvent(model.EventProfileUpdated, "p1", map[string]string{"name": "Ava"})
		So(err, ShouldBeNil)

		Convey("When an event is published", func() {
			So(pub.Publish(context.Background(), ev), ShouldBeNil)

			Convey("Then it goes to the typed channel as JSON", func() {
				So(client.channel, ShouldEqual, "launchcircle.profile.updated")
				var decoded model.Event
				So(json.Unmarshal(client.body, &decoded), ShouldBeNil)
				So(decoded.ID, ShouldEqual, ev.ID)
				So(decoded.SubjectID, ShouldEqual, "p1")
			})
		})

		Convey("When Redis fails", func() {
			client.err = errors.New("connection refused")

			Convey("Then the error is wrapped with the channel", func() {
				err := pub.Publish(context.Background(), ev)
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "launchcircle.profile.updated")
			})
		})
	})

	Convey("Given an invalid Redis URL", t, func() {
		_, err := NewRedisClient(context.Background(), "not a url")

		Convey("Then the parse error is returned", func() {
			So(err, ShouldNotBeNil)
		})
	})

	Convey("Given the no-op publisher", t, func() {
		So(NopPublisher{}.Publish(context.Background(), model.Event{}), ShouldBeNil)
	})
}

func TestEmitter(t *testing.T) {
	Convey("Given an emitter over a small queue", t, func() {
		So(logger.Init(logger.WithWriter(io.Discard)), ShouldBeNil)
		ctx := context.Background()
		d := dedupe.NewInMemoryDeduper()
		q := queue.NewInMemoryQueue(queue.WithCapacity(1))
		em := NewEmitter(d, q, logger.Get())

		Convey("When the same event is emitted twice", func() {
			ev := model.Event{ID: "evt-1", Type: model.EventJobCreated}

			Convey("Then it is queued once", func() {
				So(em.Emit(ctx, ev), ShouldBeTrue)
				So(em.Emit(ctx, ev), ShouldBeFalse)
				So(q.Len(), ShouldEqual, 1)
			})
		})

		Convey("When the queue is full", func() {
			So(em.Emit(ctx, model.Event{ID: "evt-1"}), ShouldBeTrue)
			accepted := em.Emit(ctx, model.Event{ID: "evt-2"})

			Convey("Then the event is dropped and its id forgotten", func() {
				So(accepted, ShouldBeFalse)
				So(d.Size(), ShouldEqual, 1)
				<-q.Events()
				So(em.Emit(ctx, model.Event{ID: "evt-2"}), ShouldBeTrue)
			})
		})
	})
}
