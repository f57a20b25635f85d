package runtime

import (
	"chat-relay/domain"
	"context"
	"errors"
	"maps"
)

const genericErrorMessage = "An error occurred while processing your message"

// Reject tells the originating connection why its event was not relayed.
// The notification is best effort, a failed delivery is logged and dropped.
// The send gets its own SinkTimeout, it still goes out after ctx expired.
func (r *Relay) Reject(ctx context.Context, connectionID string, err error) {
	username, _ := r.registry.Username(connectionID)
	r.log.Warn("Inbound event rejected", "connection_id", connectionID, "sender", username, "error", err)

	sink, ok := r.registry.Sink(connectionID)
	if !ok {
		r.log.Debug("No session to notify", "connection_id", connectionID)
		return
	}
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.options.SinkTimeout)
	defer cancel()

	frame := domain.Frame{Destination: domain.UserErrorsQueue, Payload: ErrorPayload(err)}
	if sendErr := sink.Consume(sendCtx, frame); sendErr != nil {
		r.log.Warn("Error notification lost", "connection_id", connectionID, "error", sendErr)
	}
}

// ErrorPayload maps validation failures field by field, anything else to a generic error/message pair.
func ErrorPayload(err error) map[string]string {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		return maps.Clone(validationErr.Fields)
	}
	return map[string]string{
		"error":   genericErrorMessage,
		"message": err.Error(),
	}
}
