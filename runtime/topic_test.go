package runtime

import (
	"chat-relay/domain"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTopic_Publish_Keeps_Order(t *testing.T) {
	req := require.New(t)
	topic := NewTopic(domain.PublicTopic, 3)
	ctx := context.Background()

	for _, content := range []string{"one", "two", "three"} {
		req.NoError(topic.Publish(ctx, domain.Event{Kind: domain.KindChat, Content: content}))
	}
	req.Equal(3, topic.Pending())

	for _, content := range []string{"one", "two", "three"} {
		frame := <-topic.Frames()
		req.Equal(domain.PublicTopic, frame.Destination)
		req.Equal(content, frame.Payload.(domain.Event).Content)
	}
}

func TestTopic_Publish_Gives_Up_When_Full(t *testing.T) {
	req := require.New(t)
	topic := NewTopic(domain.PublicTopic, 1)
	req.NoError(topic.Publish(context.Background(), "first"))

	// When the queue is full
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := topic.Publish(ctx, "second")

	// Then publish waits for ctx and fails
	req.ErrorIs(err, context.DeadlineExceeded)
	req.Equal(1, topic.Pending())
}

func TestTopic_Subscribers_Is_A_Snapshot(t *testing.T) {
	req := require.New(t)
	topic := NewTopic(domain.PublicTopic, 1)
	topic.Subscribe("a", Sink{})
	topic.Subscribe("b", Sink{})

	snapshot := topic.Subscribers()
	req.True(topic.Unsubscribe("a"))
	req.False(topic.Unsubscribe("a"))

	req.Len(snapshot, 2)
	req.Equal(1, topic.Len())
	req.Contains(topic.Subscribers(), "b")
}
