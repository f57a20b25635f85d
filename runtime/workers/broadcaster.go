package workers

import (
	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/errors"
	"context"
	"fmt"
	"log/slog"
	"time"
)

var _ contract.Worker = (*Broadcaster)(nil)

// Broadcaster delivers the frames accepted by a topic to all of its subscribers.
//
// Frames are taken one at a time in acceptance order, so every subscriber
// sees the same relative order. Each delivery is bounded by sinkTimeout:
// a subscriber that fails or times out is unsubscribed and the delivery
// goes on with the others. Nothing is retried.
type Broadcaster struct {
	log         *slog.Logger
	topic       contract.ITopic
	sinkTimeout time.Duration
}

func NewBroadcaster(log *slog.Logger, topic contract.ITopic, sinkTimeout time.Duration) *Broadcaster {
	return &Broadcaster{log: log, topic: topic, sinkTimeout: sinkTimeout}
}

func (w *Broadcaster) Run(ctx context.Context) error {
	frames := w.topic.Frames()
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping broadcast", "topic", w.topic.Name())
			return ctx.Err()
		case frame, ok := <-frames:
			if !ok {
				w.log.Debug("Topic closed", "topic", w.topic.Name())
				return nil
			}
			w.Deliver(ctx, frame)
		}
	}
}

// Deliver sends one frame to a snapshot of the subscribers.
// Subscribers joining meanwhile get the next frame, not this one.
func (w *Broadcaster) Deliver(ctx context.Context, frame domain.Frame) {
	for subscriberID, sink := range w.topic.Subscribers() {
		if err := w.send(ctx, sink, frame); err != nil {
			w.log.Warn("Subscriber dropped",
				"topic", w.topic.Name(),
				"subscriber_id", subscriberID,
				"error", err)
			w.topic.Unsubscribe(subscriberID)
		}
	}
}

func (w *Broadcaster) send(ctx context.Context, sink contract.EventSink, frame domain.Frame) (err error) {
	sendCtx, cancel := context.WithTimeout(ctx, w.sinkTimeout)
	defer cancel()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", errors.ErrSubscriberGone, r)
		}
	}()
	return sink.Consume(sendCtx, frame)
}
