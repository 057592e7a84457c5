// Package chromem implements the user-keyed semantic memory contract
// (core.SearchStore) on top of philippgille/chromem-go, an embedded vector
// database. Messages are stored as embedded documents tagged with their
// owner; retrieval ranks by cosine similarity against a free-text query.
//
// This is the richer alternative to the session-keyed core.HistoryStore: it
// has no session ordering, but supports semantic lookup across everything an
// owner ever said.
package chromem

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/philippgille/chromem-go"

	"github.com/hupe1980/agentchain/core"
	"github.com/hupe1980/agentchain/internal/util"
)

const (
	defaultCollection  = "agentchain-memory"
	defaultSearchLimit = 10
)

// Options configure the chromem store.
type Options struct {
	// PersistPath enables gzip-free file persistence when non-empty. If
	// empty, vectors are stored in memory only.
	PersistPath string

	// Compress enables gzip compression for persistence.
	Compress bool

	// Collection names the chromem collection. Defaults to "agentchain-memory".
	Collection string

	// EmbeddingFunc computes document/query embeddings. Defaults to
	// chromem's OpenAI embedding function (requires OPENAI_API_KEY).
	EmbeddingFunc chromem.EmbeddingFunc
}

// Store implements core.SearchStore backed by chromem-go.
//
// Note: All enumerates ids tracked by this process; with a persistent
// database, messages saved by earlier processes remain searchable via Search
// but are not returned by All.
type Store struct {
	col *chromem.Collection

	mu  sync.RWMutex
	ids map[string][]string // owner -> stored document ids, insertion order
}

// New creates a new chromem-backed semantic memory store.
func New(optFns ...func(o *Options)) (*Store, error) {
	opts := Options{
		Collection:    defaultCollection,
		EmbeddingFunc: chromem.NewEmbeddingFuncDefault(),
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	var (
		db  *chromem.DB
		err error
	)
	if opts.PersistPath != "" {
		db, err = chromem.NewPersistentDB(opts.PersistPath, opts.Compress)
		if err != nil {
			return nil, fmt.Errorf("open persistent vector database: %w", err)
		}
	} else {
		db = chromem.NewDB()
	}

	col, err := db.GetOrCreateCollection(opts.Collection, nil, opts.EmbeddingFunc)
	if err != nil {
		return nil, fmt.Errorf("get/create collection %q: %w", opts.Collection, err)
	}

	return &Store{col: col, ids: make(map[string][]string)}, nil
}

// Save stores a message under the given owner.
func (s *Store) Save(ctx context.Context, owner string, msg core.Message) error {
	if msg.ID == "" {
		msg.ID = util.NewID()
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}

	doc := chromem.Document{
		ID:      msg.ID,
		Content: msg.Content,
		Metadata: map[string]string{
			"owner":     owner,
			"role":      msg.Role,
			"timestamp": msg.Timestamp.Format(time.RFC3339Nano),
		},
	}
	if err := s.col.AddDocuments(ctx, []chromem.Document{doc}, runtime.NumCPU()); err != nil {
		return fmt.Errorf("store message: %w", err)
	}

	s.mu.Lock()
	s.ids[owner] = append(s.ids[owner], msg.ID)
	s.mu.Unlock()

	return nil
}

// Search returns the messages most relevant to the free-text query, most
// similar first.
func (s *Store) Search(ctx context.Context, query string, opts core.SearchOptions) ([]core.Message, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	// chromem rejects queries asking for more results than stored documents.
	if count := s.col.Count(); limit > count {
		limit = count
	}
	if limit == 0 {
		return []core.Message{}, nil
	}

	var where map[string]string
	if opts.Owner != "" {
		where = map[string]string{"owner": opts.Owner}
	}

	results, err := s.col.Query(ctx, query, limit, where, nil)
	if err != nil {
		return nil, fmt.Errorf("semantic search: %w", err)
	}

	msgs := make([]core.Message, 0, len(results))
	for _, r := range results {
		msgs = append(msgs, messageFromDoc(r.ID, r.Content, r.Metadata))
	}
	return msgs, nil
}

// All returns the owner's stored messages in insertion order up to opts.Limit.
func (s *Store) All(ctx context.Context, opts core.SearchOptions) ([]core.Message, error) {
	s.mu.RLock()
	ids := make([]string, len(s.ids[opts.Owner]))
	copy(ids, s.ids[opts.Owner])
	s.mu.RUnlock()

	if opts.Limit > 0 && len(ids) > opts.Limit {
		ids = ids[:opts.Limit]
	}

	msgs := make([]core.Message, 0, len(ids))
	for _, id := range ids {
		doc, err := s.col.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("fetch message %s: %w", id, err)
		}
		msgs = append(msgs, messageFromDoc(doc.ID, doc.Content, doc.Metadata))
	}
	return msgs, nil
}

// Delete removes a single stored message by id.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.col.Delete(ctx, nil, nil, id); err != nil {
		return fmt.Errorf("delete message %s: %w", id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for owner, ids := range s.ids {
		for i, stored := range ids {
			if stored == id {
				s.ids[owner] = append(ids[:i], ids[i+1:]...)
				return nil
			}
		}
	}
	return nil
}

// Count returns the number of stored documents across all owners.
func (s *Store) Count() int { return s.col.Count() }

func messageFromDoc(id, content string, metadata map[string]string) core.Message {
	msg := core.Message{ID: id, Content: content, Role: metadata["role"]}
	if ts, err := time.Parse(time.RFC3339Nano, metadata["timestamp"]); err == nil {
		msg.Timestamp = ts
	}
	return msg
}
