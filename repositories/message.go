//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"chat-relay/domain"
	"context"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

const (
	messagePrefix     = "msg:"
	sequenceKey       = "seq:msg"
	sequenceBandwidth = 1000
)

type IMessageRepository interface {
	Insert(ctx context.Context, record PersistedRecord) (uuid.UUID, error)
	QueryTopNByTimestampDesc(ctx context.Context, n int) ([]PersistedRecord, error)
}

// PersistedRecord is the durable form of a CHAT or FILE event.
// ID and Sequence are assigned by the repository on insert.
type PersistedRecord struct {
	ID          uuid.UUID
	Sequence    uint64
	Kind        domain.Kind
	Content     string
	Sender      string
	FileContent string
	FileType    string
	Timestamp   int64
}

type MessageRepository struct {
	db       *badger.DB
	sequence *badger.Sequence
	log      *slog.Logger
}

func NewMessageRepository(db *badger.DB, log *slog.Logger) (*MessageRepository, error) {
	sequence, err := db.GetSequence([]byte(sequenceKey), sequenceBandwidth)
	if err != nil {
		return nil, fmt.Errorf("message sequence: %w", err)
	}
	return &MessageRepository{db: db, sequence: sequence, log: log}, nil
}

// Close returns the leased sequence range to badger.
func (m *MessageRepository) Close() error {
	return m.sequence.Release()
}

// Insert persists a record in BadgerDB.
// The key is formatted as "msg:{timestamp_padded}:{sequence_padded}" so that:
//  1. 19-digit zero padding keeps lexicographical order equal to chronological order.
//  2. Records sharing a millisecond are ordered by insertion through the sequence.
func (m *MessageRepository) Insert(ctx context.Context, record PersistedRecord) (uuid.UUID, error) {
	if err := ctx.Err(); err != nil {
		return uuid.Nil, err
	}
	seq, err := m.sequence.Next()
	if err != nil {
		return uuid.Nil, fmt.Errorf("next sequence: %w", err)
	}
	record.ID = uuid.New()
	record.Sequence = seq

	key := recordKey(record.Timestamp, seq)
	err = m.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, marshalRecord(record))
	})
	if err != nil {
		return uuid.Nil, err
	}
	return record.ID, nil
}

// QueryTopNByTimestampDesc walks the keys backwards from the newest one
// and stops once n records are collected.
func (m *MessageRepository) QueryTopNByTimestampDesc(ctx context.Context, n int) ([]PersistedRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	records := make([]PersistedRecord, 0, n)
	if n <= 0 {
		return records, nil
	}
	err := m.db.View(func(txn *badger.Txn) error {
		prefix := []byte(messagePrefix)
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		// 0xFF sorts after every digit, so the seek lands on the newest key
		seekKey := append([]byte(messagePrefix), 0xFF)
		for it.Seek(seekKey); it.ValidForPrefix(prefix); it.Next() {
			if len(records) == n {
				break
			}
			item := it.Item()
			err := item.Value(func(value []byte) error {
				record, err := unmarshalRecord(value)
				if err != nil {
					return fmt.Errorf("decode %s: %w", item.Key(), err)
				}
				records = append(records, record)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	m.log.Debug("History queried", "requested", n, "found", len(records))
	return records, nil
}

func recordKey(timestamp int64, sequence uint64) []byte {
	return []byte(fmt.Sprintf("%s%019d:%019d", messagePrefix, timestamp, sequence))
}

// ScanRecords visits every stored record oldest first without leasing a sequence,
// so it also works on a database opened read-only.
func ScanRecords(db *badger.DB, visit func(key string, record PersistedRecord) error) error {
	return db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(messagePrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			key := string(item.KeyCopy(nil))
			value, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			record, err := unmarshalRecord(value)
			if err != nil {
				return fmt.Errorf("decode %s: %w", key, err)
			}
			if err := visit(key, record); err != nil {
				return err
			}
		}
		return nil
	})
}
