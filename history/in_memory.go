package history

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/hupe1980/agentchain/core"
	"github.com/hupe1980/agentchain/internal/util"
)

// InMemoryStore is a volatile core.HistoryStore implementation storing
// sessions in a process local map. It is safe for concurrent access and best
// suited for tests or ephemeral demos. Returned slices are copies to prevent
// external mutation of internal state.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string][]core.Message
}

// NewInMemoryStore constructs an empty in-memory history store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{sessions: make(map[string][]core.Message)}
}

// SaveMessage appends a message to the session's history, assigning an id and
// timestamp when missing.
func (s *InMemoryStore) SaveMessage(_ context.Context, sessionID string, msg core.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if msg.ID == "" {
		msg.ID = util.NewID()
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}
	s.sessions[sessionID] = append(s.sessions[sessionID], msg)
	return nil
}

// Messages returns the session's history in append order. A missing session
// yields an empty slice.
func (s *InMemoryStore) Messages(_ context.Context, sessionID string) ([]core.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	msgs := s.sessions[sessionID]
	result := make([]core.Message, len(msgs))
	copy(result, msgs)
	return result, nil
}

// DeleteSession removes a session and all of its messages. Deleting an
// unknown session is a no-op.
func (s *InMemoryStore) DeleteSession(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

// ListSessions returns the ids of all known sessions in lexical order.
func (s *InMemoryStore) ListSessions(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
