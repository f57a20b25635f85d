//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"chat-relay/domain"
	"context"
	"reflect"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker doesn't protect itself
// The supervisor restarts it after a panic
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker,
// used for logging during supervision.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// EventSink receives frames for one subscriber.
// Consume must give up when ctx is done.
type EventSink interface {
	Consume(ctx context.Context, frame domain.Frame) error
}

// ITopic is the broadcast side of a room: its accepted frames and its current subscribers.
type ITopic interface {
	Name() string
	Frames() <-chan domain.Frame
	Subscribers() map[string]EventSink
	Unsubscribe(subscriberID string) bool
}

type IHistoryService interface {
	SaveIfPersistable(ctx context.Context, evt domain.Event) error
	GetRecentMessages(ctx context.Context, limit int) ([]domain.Event, error)
}

// IRelay is what the transport calls for each connection lifecycle step.
type IRelay interface {
	OnConnect(connectionID string, sink EventSink)
	OnMessage(ctx context.Context, connectionID, destination string, payload []byte)
	OnDisconnect(ctx context.Context, connectionID string)
	Reject(ctx context.Context, connectionID string, err error)
}
