package repositories

import (
	"chat-relay/domain"
	"context"
	"log/slog"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) (*MessageRepository, *badger.DB) {
	t.Helper()
	req := require.New(t)
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	req.NoError(err)
	repository, err := NewMessageRepository(db, slog.Default())
	req.NoError(err)
	t.Cleanup(func() {
		_ = repository.Close()
		_ = db.Close()
	})
	return repository, db
}

func Test_Insert_Assigns_Id_And_Sequence(t *testing.T) {
	req := require.New(t)
	repository, _ := newTestRepository(t)
	ctx := context.Background()

	// Given two records stored one after the other
	first, err := repository.Insert(ctx, PersistedRecord{Kind: domain.KindChat, Sender: "Alice", Content: "hi", Timestamp: 1000})
	req.NoError(err)
	second, err := repository.Insert(ctx, PersistedRecord{Kind: domain.KindChat, Sender: "Bob", Content: "yo", Timestamp: 2000})
	req.NoError(err)

	// Then both got a distinct identifier
	req.NotEqual(uuid.Nil, first)
	req.NotEqual(first, second)

	// And the sequence grows with insertion order
	records, err := repository.QueryTopNByTimestampDesc(ctx, 10)
	req.NoError(err)
	req.Len(records, 2)
	req.Equal(second, records[0].ID)
	req.Equal(first, records[1].ID)
	req.Greater(records[0].Sequence, records[1].Sequence)
}

func Test_Query_Returns_Newest_First_And_Respects_Limit(t *testing.T) {
	req := require.New(t)
	repository, _ := newTestRepository(t)
	ctx := context.Background()

	// Given records inserted out of timestamp order
	for _, ts := range []int64{3000, 1000, 5000, 2000, 4000} {
		_, err := repository.Insert(ctx, PersistedRecord{Kind: domain.KindChat, Sender: "Alice", Timestamp: ts})
		req.NoError(err)
	}

	// When the three newest are requested
	records, err := repository.QueryTopNByTimestampDesc(ctx, 3)
	req.NoError(err)

	// Then they come back newest first
	req.Len(records, 3)
	req.Equal(int64(5000), records[0].Timestamp)
	req.Equal(int64(4000), records[1].Timestamp)
	req.Equal(int64(3000), records[2].Timestamp)
}

func Test_Query_Breaks_Timestamp_Ties_By_Insertion_Order(t *testing.T) {
	req := require.New(t)
	repository, _ := newTestRepository(t)
	ctx := context.Background()

	// Given three records sharing the same millisecond
	for _, content := range []string{"first", "second", "third"} {
		_, err := repository.Insert(ctx, PersistedRecord{Kind: domain.KindChat, Sender: "Alice", Content: content, Timestamp: 42})
		req.NoError(err)
	}

	records, err := repository.QueryTopNByTimestampDesc(ctx, 10)
	req.NoError(err)

	// Then the last inserted is the newest
	req.Equal([]string{"third", "second", "first"}, []string{records[0].Content, records[1].Content, records[2].Content})
}

func Test_Query_With_Non_Positive_Limit_Returns_Empty(t *testing.T) {
	req := require.New(t)
	repository, _ := newTestRepository(t)
	ctx := context.Background()
	_, err := repository.Insert(ctx, PersistedRecord{Kind: domain.KindChat, Sender: "Alice", Timestamp: 1})
	req.NoError(err)

	records, err := repository.QueryTopNByTimestampDesc(ctx, 0)
	req.NoError(err)
	req.NotNil(records)
	req.Empty(records)
}

func Test_Query_On_Empty_Store(t *testing.T) {
	req := require.New(t)
	repository, _ := newTestRepository(t)

	records, err := repository.QueryTopNByTimestampDesc(context.Background(), 50)
	req.NoError(err)
	req.Empty(records)
}

func Test_Insert_Honors_Canceled_Context(t *testing.T) {
	req := require.New(t)
	repository, _ := newTestRepository(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repository.Insert(ctx, PersistedRecord{Kind: domain.KindChat, Sender: "Alice", Timestamp: 1})
	req.ErrorIs(err, context.Canceled)
}

func Test_File_Record_Keeps_Attachment_Fields(t *testing.T) {
	req := require.New(t)
	repository, _ := newTestRepository(t)
	ctx := context.Background()

	// Given a FILE record whose content is empty
	record := PersistedRecord{
		Kind:        domain.KindFile,
		Sender:      "Bob",
		FileContent: "iVBORw0KGgo=",
		FileType:    "image/png",
		Timestamp:   1234,
	}
	_, err := repository.Insert(ctx, record)
	req.NoError(err)

	records, err := repository.QueryTopNByTimestampDesc(ctx, 1)
	req.NoError(err)
	req.Len(records, 1)
	req.Equal(record.FileContent, records[0].FileContent)
	req.Equal(record.FileType, records[0].FileType)
	req.Empty(records[0].Content)
}

func Test_Scan_Records_Oldest_First(t *testing.T) {
	req := require.New(t)
	repository, db := newTestRepository(t)
	ctx := context.Background()
	for _, ts := range []int64{20, 10, 30} {
		_, err := repository.Insert(ctx, PersistedRecord{Kind: domain.KindChat, Sender: "Alice", Timestamp: ts})
		req.NoError(err)
	}

	var timestamps []int64
	err := ScanRecords(db, func(key string, record PersistedRecord) error {
		req.Contains(key, messagePrefix)
		timestamps = append(timestamps, record.Timestamp)
		return nil
	})
	req.NoError(err)
	req.Equal([]int64{10, 20, 30}, timestamps)
}
