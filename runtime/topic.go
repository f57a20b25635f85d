package runtime

import (
	"chat-relay/contract"
	"chat-relay/domain"
	"context"
	"maps"
	"sync"
)

var _ contract.ITopic = (*Topic)(nil)

// Topic is a broadcast destination: a set of subscribers and a queue of accepted frames.
// The order frames enter the queue is the order every subscriber receives them.
type Topic struct {
	name        string
	mu          sync.RWMutex
	subscribers map[string]contract.EventSink
	frames      chan domain.Frame
}

func NewTopic(name string, bufferSize int) *Topic {
	return &Topic{
		name:        name,
		subscribers: make(map[string]contract.EventSink),
		frames:      make(chan domain.Frame, bufferSize),
	}
}

func (t *Topic) Name() string { return t.name }

func (t *Topic) Frames() <-chan domain.Frame { return t.frames }

func (t *Topic) Subscribe(subscriberID string, sink contract.EventSink) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.subscribers[subscriberID] = sink
}

func (t *Topic) Unsubscribe(subscriberID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.subscribers[subscriberID]; !ok {
		return false
	}
	delete(t.subscribers, subscriberID)
	return true
}

// Subscribers returns a copy, callers iterate it without holding the lock.
func (t *Topic) Subscribers() map[string]contract.EventSink {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return maps.Clone(t.subscribers)
}

func (t *Topic) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.subscribers)
}

// Pending is the number of accepted frames not yet broadcast.
func (t *Topic) Pending() int { return len(t.frames) }

// Publish accepts a payload for broadcast. It only waits when the queue is full.
func (t *Topic) Publish(ctx context.Context, payload any) error {
	select {
	case t.frames <- domain.Frame{Destination: t.name, Payload: payload}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
