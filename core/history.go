package core

import "context"

// HistoryStore persists prior conversation turns keyed by session id. It is
// the collaborator contract consumed by agents with history enabled.
//
// Stores are the only resource shared between agents; sessions are logically
// partitioned by the caller-supplied session id, so implementations need no
// cross-agent coordination beyond their own internal locking.
type HistoryStore interface {
	// SaveMessage appends a message to the session's ordered history.
	SaveMessage(ctx context.Context, sessionID string, msg Message) error

	// Messages returns the session's history in append order. A missing
	// session yields an empty slice, not an error.
	Messages(ctx context.Context, sessionID string) ([]Message, error)

	// DeleteSession removes a session and all of its messages.
	DeleteSession(ctx context.Context, sessionID string) error

	// ListSessions returns the ids of all known sessions.
	ListSessions(ctx context.Context) ([]string, error)
}

// SearchOptions scopes semantic retrieval to an owner and bounds the result
// count. A zero Limit lets the implementation pick its default.
type SearchOptions struct {
	Owner string // Persistent user/owner id the memories belong to
	Limit int    // Maximum number of messages to return
}

// SearchStore is the richer, user-keyed memory contract backed by semantic
// retrieval. It is an alternative collaborator shape to HistoryStore, not an
// extension of it; see history/chromem for an implementation.
type SearchStore interface {
	// Save stores a message under the given owner.
	Save(ctx context.Context, owner string, msg Message) error

	// Search returns the messages most relevant to the free-text query.
	Search(ctx context.Context, query string, opts SearchOptions) ([]Message, error)

	// All returns the owner's stored messages up to opts.Limit.
	All(ctx context.Context, opts SearchOptions) ([]Message, error)

	// Delete removes a single stored message by id.
	Delete(ctx context.Context, id string) error
}
