package workers

import (
	"chat-relay/domain"
	"chat-relay/mocks"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestPersistenceWorker_Saves_In_Order_And_Survives_Failures(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	history := mocks.NewMockIHistoryService(ctrl)
	events := make(chan domain.Event, 2)
	first := domain.Event{Kind: domain.KindChat, Sender: "Alice", Content: "one", Timestamp: 1}
	second := domain.Event{Kind: domain.KindFile, Sender: "Bob", FileContent: "aGk=", Timestamp: 2}

	done := make(chan struct{})
	gomock.InOrder(
		// A storage failure is only logged
		history.EXPECT().SaveIfPersistable(gomock.Any(), first).Return(errors.New("disk full")),
		history.EXPECT().SaveIfPersistable(gomock.Any(), second).
			DoAndReturn(func(context.Context, domain.Event) error {
				close(done)
				return nil
			}),
	)
	events <- first
	events <- second

	ctx, cancel := context.WithCancel(context.Background())
	result := make(chan error, 1)
	go func() { result <- NewPersistenceWorker(log, history, events).Run(ctx) }()

	select {
	case <-done:
	case <-time.After(time.Second):
		req.Fail("second event was not saved")
	}
	cancel()
	req.ErrorIs(<-result, context.Canceled)
}

func TestPersistenceWorker_Finishes_When_Channel_Closes(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	events := make(chan domain.Event)
	close(events)

	err := NewPersistenceWorker(slog.Default(), mocks.NewMockIHistoryService(ctrl), events).Run(context.Background())
	req.NoError(err)
}
