package runtime

import (
	"chat-relay/contract"
	"chat-relay/errors"
	"fmt"
	"sync"
)

// Session is the ephemeral state of one live connection.
type Session struct {
	ConnectionID string
	Username     string
	Joined       bool
	sink         contract.EventSink
}

// SessionRegistry owns every session record.
// A single RWMutex guards the index, each connection only ever touches its own entry.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{sessions: make(map[string]Session)}
}

// Open creates the empty session of a freshly accepted connection.
// The sink is where errors for this connection only are sent.
func (r *SessionRegistry) Open(connectionID string, sink contract.EventSink) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[connectionID] = Session{ConnectionID: connectionID, sink: sink}
}

// Bind assigns a username to an open connection.
// Rebinding overwrites the previous name. A closed connection cannot be bound,
// so a join racing a disconnect never leaves a binding behind.
func (r *SessionRegistry) Bind(connectionID, username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[connectionID]
	if !ok {
		return fmt.Errorf("%w: %s", errors.ErrUnknownSession, connectionID)
	}
	session.Username = username
	session.Joined = true
	r.sessions[connectionID] = session
	return nil
}

// Unbind removes the session and returns its username if one was bound.
// Only the first call for a connection can return true.
func (r *SessionRegistry) Unbind(connectionID string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[connectionID]
	if !ok {
		return "", false
	}
	delete(r.sessions, connectionID)
	return session.Username, session.Joined
}

func (r *SessionRegistry) Username(connectionID string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	session, ok := r.sessions[connectionID]
	if !ok || !session.Joined {
		return "", false
	}
	return session.Username, true
}

func (r *SessionRegistry) Sink(connectionID string) (contract.EventSink, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	session, ok := r.sessions[connectionID]
	if !ok || session.sink == nil {
		return nil, false
	}
	return session.sink, true
}

// Len counts open sessions, joined or not.
func (r *SessionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Joined counts sessions that carry a username.
func (r *SessionRegistry) Joined() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	count := 0
	for _, session := range r.sessions {
		if session.Joined {
			count++
		}
	}
	return count
}
