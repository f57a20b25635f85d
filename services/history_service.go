package services

import (
	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/repositories"
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/samber/lo"
)

const (
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 100
)

var _ contract.IHistoryService = (*HistoryService)(nil)

// HistoryService decides which events are durable and serves the recent history.
type HistoryService struct {
	repository repositories.IMessageRepository
	log        *slog.Logger
}

func NewHistoryService(repository repositories.IMessageRepository, log *slog.Logger) *HistoryService {
	return &HistoryService{repository: repository, log: log}
}

// SaveIfPersistable stores CHAT and FILE events and ignores every other kind.
func (s *HistoryService) SaveIfPersistable(ctx context.Context, evt domain.Event) error {
	if !evt.Kind.IsDurable() {
		return nil
	}
	id, err := s.repository.Insert(ctx, toRecord(evt))
	if err != nil {
		return fmt.Errorf("store %s message from %s: %w", evt.Kind, evt.Sender, err)
	}
	s.log.Debug("Message stored", "id", id, "type", evt.Kind, "sender", evt.Sender)
	return nil
}

// GetRecentMessages returns up to limit durable events, oldest first.
// The limit goes through ClampLimit first.
func (s *HistoryService) GetRecentMessages(ctx context.Context, limit int) ([]domain.Event, error) {
	limit = ClampLimit(limit)
	records, err := s.repository.QueryTopNByTimestampDesc(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("recent messages: %w", err)
	}
	events := lo.Map(records, func(record repositories.PersistedRecord, _ int) domain.Event {
		return toEvent(record)
	})
	// Newest first from storage, a joining client renders oldest first
	slices.Reverse(events)
	return events, nil
}

// ClampLimit maps a non-positive limit to DefaultHistoryLimit and caps the rest at MaxHistoryLimit.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultHistoryLimit
	}
	return min(limit, MaxHistoryLimit)
}

func toRecord(evt domain.Event) repositories.PersistedRecord {
	return repositories.PersistedRecord{
		Kind:        evt.Kind,
		Content:     evt.Content,
		Sender:      evt.Sender,
		FileContent: evt.FileContent,
		FileType:    evt.FileType,
		Timestamp:   evt.Timestamp,
	}
}

func toEvent(record repositories.PersistedRecord) domain.Event {
	return domain.Event{
		Kind:        record.Kind,
		Content:     record.Content,
		Sender:      record.Sender,
		FileContent: record.FileContent,
		FileType:    record.FileType,
		Timestamp:   record.Timestamp,
	}
}
