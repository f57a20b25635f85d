package transport

import (
	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/errors"
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

var _ contract.EventSink = (*Connection)(nil)

// inboundFrame is what a client sends: a route key and the event payload.
type inboundFrame struct {
	Destination string          `json:"destination"`
	Payload     json.RawMessage `json:"payload"`
}

// Connection is one WebSocket client.
// Reads happen on the handler goroutine, writes on writePump only,
// everything else hands frames over through the outbound queue.
type Connection struct {
	id        string
	ws        *websocket.Conn
	log       *slog.Logger
	options   Options
	outbound  chan domain.Frame
	done      chan struct{}
	closeOnce sync.Once
}

func newConnection(id string, ws *websocket.Conn, log *slog.Logger, options Options) *Connection {
	return &Connection{
		id:       id,
		ws:       ws,
		log:      log.With("connection_id", id),
		options:  options,
		outbound: make(chan domain.Frame, options.ConnectionBufferSize),
		done:     make(chan struct{}),
	}
}

func (c *Connection) ID() string { return c.id }

// Consume queues a frame for this client.
// A client too slow to take it before ctx is done gets disconnected.
func (c *Connection) Consume(ctx context.Context, frame domain.Frame) error {
	select {
	case <-c.done:
		return errors.ErrSubscriberGone
	default:
	}
	// Room in the queue wins over an expired ctx
	select {
	case c.outbound <- frame:
		return nil
	default:
	}
	select {
	case c.outbound <- frame:
		return nil
	case <-c.done:
		return errors.ErrSubscriberGone
	case <-ctx.Done():
		c.log.Warn("Slow consumer, closing connection", "destination", frame.Destination)
		c.Close()
		return ctx.Err()
	}
}

// Close is idempotent. Closing the socket unblocks the read loop,
// which then runs the disconnect path.
func (c *Connection) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.ws.Close()
	})
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(c.pingPeriod())
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case <-c.done:
			return
		case frame := <-c.outbound:
			_ = c.ws.SetWriteDeadline(time.Now().Add(c.options.WriteWait))
			if err := c.ws.WriteJSON(frame); err != nil {
				c.log.Warn("Write failed", "destination", frame.Destination, "error", err)
				return
			}
		case <-ticker.C:
			if err := c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(c.options.WriteWait)); err != nil {
				c.log.Debug("Ping failed", "error", err)
				return
			}
		}
	}
}

// readPump blocks until the client goes away or the connection is closed.
// Frames of one connection are handled in the order they were read.
func (c *Connection) readPump(ctx context.Context, relay contract.IRelay) {
	c.ws.SetReadLimit(c.options.MaxFrameBytes)
	_ = c.ws.SetReadDeadline(time.Now().Add(c.options.PongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(c.options.PongWait))
	})

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Warn("Connection lost", "error", err)
			}
			return
		}

		var frame inboundFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			relay.Reject(ctx, c.id, domain.NewValidationError("frame", "Frame is malformed"))
			continue
		}
		relay.OnMessage(ctx, c.id, frame.Destination, frame.Payload)
	}
}

// pingPeriod must stay below PongWait so the peer answers before the read deadline.
func (c *Connection) pingPeriod() time.Duration {
	return c.options.PongWait * 9 / 10
}
