package intent

import (
	"sync"

	"github.com/cabswale/raahi/internal/domain/llm"
)

// DefaultMaxTurns caps the history kept per session when none is configured.
const DefaultMaxTurns = 20

// SessionStore keeps conversation history per session id in process memory.
// Each id has its own lock, created on first use, so at most one
// classification mutates a session at a time while different sessions
// never wait on each other.
type SessionStore struct {
	mu       sync.Mutex
	locks    map[string]*sync.Mutex
	history  map[string][]llm.Message
	maxTurns int
}

// NewSessionStore creates an empty store. A turn is one user message and
// one model reply; older turns are dropped past maxTurns.
func NewSessionStore(maxTurns int) *SessionStore {
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}
	return &SessionStore{
		locks:    make(map[string]*sync.Mutex),
		history:  make(map[string][]llm.Message),
		maxTurns: maxTurns,
	}
}

// Lock acquires the session's lock and returns its release func.
func (s *SessionStore) Lock(id string) (unlock func()) {
	s.mu.Lock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// History returns a copy of the session's messages, oldest first.
func (s *SessionStore) History(id string) []llm.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := s.history[id]
	out := make([]llm.Message, len(h))
	copy(out, h)
	return out
}

// Append adds messages to the session and trims it to the turn cap.
func (s *SessionStore) Append(id string, msgs ...llm.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := append(s.history[id], msgs...)
	if limit := 2 * s.maxTurns; len(h) > limit {
		h = append([]llm.Message(nil), h[len(h)-limit:]...)
	}
	s.history[id] = h
}

// Clear drops the session's history. The lock is kept so an in-flight
// classification still serializes with later ones.
func (s *SessionStore) Clear(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.history, id)
}

// Len returns the number of sessions with history.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.history)
}
