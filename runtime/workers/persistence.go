package workers

import (
	"chat-relay/contract"
	"chat-relay/domain"
	"context"
	"log/slog"
)

var _ contract.Worker = (*PersistenceWorker)(nil)

// PersistenceWorker stores durable events after they were published.
// Failures are logged, the broadcast already happened and is never rolled back.
type PersistenceWorker struct {
	log     *slog.Logger
	history contract.IHistoryService
	events  <-chan domain.Event
}

func NewPersistenceWorker(log *slog.Logger, history contract.IHistoryService, events <-chan domain.Event) *PersistenceWorker {
	return &PersistenceWorker{log: log, history: history, events: events}
}

func (w *PersistenceWorker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping worker", "pending", len(w.events))
			return ctx.Err()
		case evt, ok := <-w.events:
			if !ok {
				w.log.Debug("Channel is closed")
				return nil
			}
			if err := w.history.SaveIfPersistable(ctx, evt); err != nil {
				w.log.Error("Persistence failed",
					"type", evt.Kind,
					"sender", evt.Sender,
					"timestamp", evt.Timestamp,
					"error", err)
			}
		}
	}
}
