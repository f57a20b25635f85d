package services

import (
	"chat-relay/domain"
	"chat-relay/mocks"
	"chat-relay/repositories"
	"context"
	"fmt"
	"log/slog"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newMockedHistory(t *testing.T) (*HistoryService, *mocks.MockIMessageRepository) {
	ctrl := gomock.NewController(t)
	mockRepo := mocks.NewMockIMessageRepository(ctrl)
	return NewHistoryService(mockRepo, logs.GetLoggerFromLevel(slog.LevelDebug)), mockRepo
}

func TestHistoryService_SaveIfPersistable(t *testing.T) {
	t.Run("should never write JOIN, LEAVE or TYPING", func(t *testing.T) {
		req := require.New(t)
		svc, mockRepo := newMockedHistory(t)
		mockRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).Times(0)

		for _, kind := range []domain.Kind{domain.KindJoin, domain.KindLeave, domain.KindTyping} {
			// Even when the event carries content and a file
			evt := domain.Event{Kind: kind, Sender: "Alice", Content: "hello", FileContent: "aGk=", Timestamp: 1}
			req.NoError(svc.SaveIfPersistable(context.Background(), evt))
		}
	})

	t.Run("should project a CHAT event field for field", func(t *testing.T) {
		req := require.New(t)
		svc, mockRepo := newMockedHistory(t)
		evt := domain.Event{Kind: domain.KindChat, Sender: "Alice", Content: "hi &lt;b&gt;", Timestamp: 1700000000000}

		mockRepo.EXPECT().
			Insert(gomock.Any(), repositories.PersistedRecord{
				Kind:      domain.KindChat,
				Sender:    "Alice",
				Content:   "hi &lt;b&gt;",
				Timestamp: 1700000000000,
			}).
			Return(uuid.New(), nil).
			Times(1)

		req.NoError(svc.SaveIfPersistable(context.Background(), evt))
	})

	t.Run("should surface storage failures", func(t *testing.T) {
		req := require.New(t)
		svc, mockRepo := newMockedHistory(t)
		storageErr := fmt.Errorf("disk full")
		mockRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(uuid.Nil, storageErr).Times(1)

		err := svc.SaveIfPersistable(context.Background(), domain.Event{Kind: domain.KindFile, Sender: "Bob", FileContent: "aGk="})
		req.ErrorIs(err, storageErr)
	})
}

func TestHistoryService_GetRecentMessages_Limits(t *testing.T) {
	cases := []struct {
		requested int
		expected  int
	}{
		{requested: 0, expected: DefaultHistoryLimit},
		{requested: -7, expected: DefaultHistoryLimit},
		{requested: 10, expected: 10},
		{requested: 100, expected: 100},
		{requested: 500, expected: MaxHistoryLimit},
	}
	for _, c := range cases {
		t.Run(fmt.Sprintf("limit %d", c.requested), func(t *testing.T) {
			req := require.New(t)
			svc, mockRepo := newMockedHistory(t)
			mockRepo.EXPECT().
				QueryTopNByTimestampDesc(gomock.Any(), c.expected).
				Return([]repositories.PersistedRecord{}, nil).
				Times(1)

			events, err := svc.GetRecentMessages(context.Background(), c.requested)
			req.NoError(err)
			req.Empty(events)
		})
	}
}

func TestHistoryService_GetRecentMessages_Reverses_To_Oldest_First(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockIMessageRepository(ctrl)
	svc := NewHistoryService(mockRepo, slog.Default())

	// Given the repository answers newest first
	mockRepo.EXPECT().
		QueryTopNByTimestampDesc(gomock.Any(), 3).
		Return([]repositories.PersistedRecord{
			{Kind: domain.KindChat, Sender: "Clara", Timestamp: 3},
			{Kind: domain.KindChat, Sender: "Bob", Timestamp: 2},
			{Kind: domain.KindChat, Sender: "Alice", Timestamp: 1},
		}, nil)

	events, err := svc.GetRecentMessages(context.Background(), 3)
	req.NoError(err)

	// Then the caller gets them oldest first
	req.Equal([]int64{1, 2, 3}, []int64{events[0].Timestamp, events[1].Timestamp, events[2].Timestamp})
}

func newBadgerHistory(t *testing.T) *HistoryService {
	t.Helper()
	req := require.New(t)
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	req.NoError(err)
	repository, err := repositories.NewMessageRepository(db, slog.Default())
	req.NoError(err)
	t.Cleanup(func() {
		_ = repository.Close()
		_ = db.Close()
	})
	return NewHistoryService(repository, slog.Default())
}

func TestHistoryService_Stored_Events_Come_Back_Unchanged(t *testing.T) {
	req := require.New(t)
	svc := newBadgerHistory(t)
	ctx := context.Background()

	chat := domain.Event{Kind: domain.KindChat, Sender: "Alice", Content: domain.Sanitize("<b>hi</b>"), Timestamp: 10}
	file := domain.Event{Kind: domain.KindFile, Sender: "Bob", FileContent: "iVBORw0KGgo=", FileType: "image/png", Timestamp: 20}
	typing := domain.Event{Kind: domain.KindTyping, Sender: "Bob", Timestamp: 30}
	for _, evt := range []domain.Event{chat, file, typing} {
		req.NoError(svc.SaveIfPersistable(ctx, evt))
	}

	events, err := svc.GetRecentMessages(ctx, 10)
	req.NoError(err)
	req.Equal([]domain.Event{chat, file}, events)
}

func TestHistoryService_Returns_Newest_K_In_Ascending_Order(t *testing.T) {
	req := require.New(t)
	svc := newBadgerHistory(t)
	ctx := context.Background()

	// Given 120 records with strictly increasing timestamps
	for i := 1; i <= 120; i++ {
		evt := domain.Event{Kind: domain.KindChat, Sender: "Alice", Content: fmt.Sprintf("message %d", i), Timestamp: int64(i)}
		req.NoError(svc.SaveIfPersistable(ctx, evt))
	}

	// When the 5 most recent are requested
	events, err := svc.GetRecentMessages(ctx, 5)
	req.NoError(err)
	req.Len(events, 5)
	for i, evt := range events {
		req.Equal(int64(116+i), evt.Timestamp)
	}

	// And a large request is capped
	events, err = svc.GetRecentMessages(ctx, 500)
	req.NoError(err)
	req.Len(events, MaxHistoryLimit)
	req.Equal(int64(21), events[0].Timestamp)

	// And zero behaves like the default
	zero, err := svc.GetRecentMessages(ctx, 0)
	req.NoError(err)
	defaults, err := svc.GetRecentMessages(ctx, DefaultHistoryLimit)
	req.NoError(err)
	req.Equal(defaults, zero)
}
