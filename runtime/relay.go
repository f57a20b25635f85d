// Package runtime handles the live side of the chat: sessions, topics and event pipelines.
// Storage and transport are reached through the contract interfaces only.
package runtime

import (
	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/errors"
	"chat-relay/observability"
	"chat-relay/runtime/workers"
	"context"
	"fmt"
	"log/slog"
	"time"
)

var _ contract.IRelay = (*Relay)(nil)

type pipeline func(ctx context.Context, connectionID string, evt domain.Event) error

type Options struct {
	BufferSize  int
	SinkTimeout time.Duration
}

// Relay validates inbound events, publishes them to the public topic
// and hands the durable ones over to the persistence worker.
type Relay struct {
	log        *slog.Logger
	supervisor contract.ISupervisor
	registry   *SessionRegistry
	topic      *Topic
	history    contract.IHistoryService
	persist    chan domain.Event
	pipelines  map[domain.Destination]pipeline
	options    Options
	now        func() time.Time
}

func NewRelay(log *slog.Logger, supervisor contract.ISupervisor, registry *SessionRegistry,
	topic *Topic, history contract.IHistoryService, options Options) *Relay {
	r := &Relay{
		log:        log,
		supervisor: supervisor,
		registry:   registry,
		topic:      topic,
		history:    history,
		persist:    make(chan domain.Event, options.BufferSize),
		options:    options,
		now:        time.Now,
	}
	r.pipelines = map[domain.Destination]pipeline{
		domain.SendMessage: r.sendMessage,
		domain.AddUser:     r.addUser,
		domain.Typing:      r.typing,
		domain.SendFile:    r.sendFile,
	}
	return r
}

// Start registers the broadcast and persistence workers and blocks until ctx is done.
func (r *Relay) Start(ctx context.Context) {
	r.supervisor.Add(
		workers.NewBroadcaster(r.log, r.topic, r.options.SinkTimeout),
		workers.NewPersistenceWorker(r.log, r.history, r.persist),
	)
	r.log.Info("Starting relay", "topic", r.topic.Name())
	r.supervisor.Run(ctx)
}

func (r *Relay) Stop() {
	r.log.Info("Requesting relay shutdown")
	r.supervisor.Stop()
}

// OnConnect creates the session and subscribes the connection to the public topic.
func (r *Relay) OnConnect(connectionID string, sink contract.EventSink) {
	r.registry.Open(connectionID, sink)
	r.topic.Subscribe(connectionID, sink)
	r.log.Info("Received a new web socket connection", "connection_id", connectionID)
}

// OnMessage runs the pipeline of destination for one inbound payload.
// Any failure goes back to the originating connection only.
func (r *Relay) OnMessage(ctx context.Context, connectionID, destination string, payload []byte) {
	if err := r.handle(ctx, connectionID, destination, payload); err != nil {
		r.Reject(ctx, connectionID, err)
	}
}

// OnDisconnect is safe to call more than once, only the first call can publish a LEAVE.
func (r *Relay) OnDisconnect(ctx context.Context, connectionID string) {
	r.topic.Unsubscribe(connectionID)
	username, ok := r.registry.Unbind(connectionID)
	if !ok {
		r.log.Debug("Anonymous connection closed", "connection_id", connectionID)
		return
	}
	r.log.Info("User Disconnected", "connection_id", connectionID, "sender", username)

	leave := domain.Event{Kind: domain.KindLeave, Sender: username}
	r.stamp(&leave)
	if err := r.topic.Publish(ctx, leave); err != nil {
		r.log.Error("Leave notice lost", "sender", username, "error", err)
	}
}

func (r *Relay) Stats() observability.RelayStats {
	return observability.RelayStats{
		Topic:              r.topic.Name(),
		Subscribers:        r.topic.Len(),
		Sessions:           r.registry.Len(),
		JoinedSessions:     r.registry.Joined(),
		PendingBroadcast:   r.topic.Pending(),
		PendingPersistence: len(r.persist),
	}
}

func (r *Relay) handle(ctx context.Context, connectionID, destination string, payload []byte) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = &errors.ProcessingError{
				Step: destination,
				Err:  fmt.Errorf("%w: %v", errors.ErrHandlerPanic, rec),
			}
		}
	}()

	run, ok := r.pipelines[domain.ParseDestination(destination)]
	if !ok {
		return fmt.Errorf("%w: %q", errors.ErrUnknownDestination, destination)
	}
	evt, err := domain.ParseEvent(payload)
	if err != nil {
		return err
	}
	return run(ctx, connectionID, evt)
}

func (r *Relay) sendMessage(ctx context.Context, _ string, evt domain.Event) error {
	r.log.Debug("Received message", "sender", evt.Sender, "type", evt.Kind)
	evt.Content = domain.Sanitize(evt.Content)
	r.stamp(&evt)
	if err := r.publish(ctx, evt); err != nil {
		return err
	}
	r.requestPersistence(ctx, evt)
	return nil
}

func (r *Relay) addUser(ctx context.Context, connectionID string, evt domain.Event) error {
	if err := r.registry.Bind(connectionID, evt.Sender); err != nil {
		return &errors.ProcessingError{Step: "bind", Err: err}
	}
	r.log.Info("User joined", "connection_id", connectionID, "sender", evt.Sender)
	r.stamp(&evt)
	return r.publish(ctx, evt)
}

func (r *Relay) typing(ctx context.Context, _ string, evt domain.Event) error {
	r.stamp(&evt)
	return r.publish(ctx, evt)
}

// sendFile never sanitizes attachment fields, they are opaque.
func (r *Relay) sendFile(ctx context.Context, _ string, evt domain.Event) error {
	if evt.FileType == "" {
		evt.FileType = domain.DetectFileType(evt.FileContent)
	}
	r.log.Info("File shared", "sender", evt.Sender, "file_type", evt.FileType)
	r.stamp(&evt)
	if err := r.publish(ctx, evt); err != nil {
		return err
	}
	r.requestPersistence(ctx, evt)
	return nil
}

func (r *Relay) stamp(evt *domain.Event) {
	evt.Timestamp = r.now().UnixMilli()
}

func (r *Relay) publish(ctx context.Context, evt domain.Event) error {
	if err := r.topic.Publish(ctx, evt); err != nil {
		return &errors.ProcessingError{Step: "publish", Err: err}
	}
	return nil
}

// requestPersistence runs after publish, storage latency never delays the broadcast.
func (r *Relay) requestPersistence(ctx context.Context, evt domain.Event) {
	if !evt.Kind.IsDurable() {
		return
	}
	select {
	case r.persist <- evt:
	case <-ctx.Done():
		r.log.Warn("Persistence request dropped", "sender", evt.Sender, "error", ctx.Err())
	}
}
