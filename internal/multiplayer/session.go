package multiplayer

import (
	"cmp"
	"errors"
	"slices"
	"sync"
)

// ErrSessionClosed is returned when sending to a session that has ended.
var ErrSessionClosed = errors.New("multiplayer: session closed")

// SessionHandle is the transport-neutral interface for communicating with a session.
// It allows the server to send messages without depending on any wire format.
type SessionHandle interface {
	// ID returns the unique session identifier.
	ID() SessionID

	// Send delivers a message to the session asynchronously.
	// Must be non-blocking; it fails only once the session has ended.
	Send(msg ServerMsg) error

	// Done returns a channel that closes when the session ends.
	Done() <-chan struct{}
}

// ChannelSession is a SessionHandle implementation using Go channels.
type ChannelSession struct {
	id       SessionID
	messages chan ServerMsg
	done     chan struct{}
	doneOnce sync.Once
}

// NewChannelSession creates a new channel-based session handle.
// bufferSize controls how many messages can be buffered before dropping.
func NewChannelSession(id SessionID, bufferSize int) *ChannelSession {
	if bufferSize < 1 {
		bufferSize = 64
	}
	return &ChannelSession{
		id:       id,
		messages: make(chan ServerMsg, bufferSize),
		done:     make(chan struct{}),
	}
}

// ID returns the session identifier.
func (s *ChannelSession) ID() SessionID {
	return s.id
}

// Send queues a message for the session.
// If the buffer is full, the oldest message is dropped to make room.
func (s *ChannelSession) Send(msg ServerMsg) error {
	select {
	case <-s.done:
		return ErrSessionClosed
	default:
	}

	select {
	case s.messages <- msg:
		return nil
	default:
	}

	// Buffer full, drop oldest and retry once
	select {
	case <-s.messages:
	default:
	}
	select {
	case s.messages <- msg:
	default:
	}
	return nil
}

// Messages returns the channel to receive server messages from.
func (s *ChannelSession) Messages() <-chan ServerMsg {
	return s.messages
}

// Done returns the done channel.
func (s *ChannelSession) Done() <-chan struct{} {
	return s.done
}

// Close marks the session as done.
// Safe to call multiple times.
func (s *ChannelSession) Close() {
	s.doneOnce.Do(func() {
		close(s.done)
	})
}

// SessionRegistry tracks active sessions.
// Thread-safe for concurrent access.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[SessionID]SessionHandle
}

// NewSessionRegistry creates a new session registry.
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[SessionID]SessionHandle),
	}
}

// Register adds a session to the registry.
func (r *SessionRegistry) Register(session SessionHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.ID()] = session
}

// Unregister removes a session from the registry.
func (r *SessionRegistry) Unregister(id SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Get retrieves a session by ID.
func (r *SessionRegistry) Get(id SessionID) (SessionHandle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Count returns the number of registered sessions.
func (r *SessionRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// List returns every registered session ordered by ID.
func (r *SessionRegistry) List() []SessionHandle {
	r.mu.RLock()
	list := make([]SessionHandle, 0, len(r.sessions))
	for _, s := range r.sessions {
		list = append(list, s)
	}
	r.mu.RUnlock()

	slices.SortFunc(list, func(a, b SessionHandle) int {
		return cmp.Compare(a.ID(), b.ID())
	})
	return list
}
