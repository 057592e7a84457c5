package chromem

import (
	"context"
	"math"
	"strings"
	"testing"

	chromemgo "github.com/philippgille/chromem-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentchain/core"
)

// letterEmbedding maps text to a normalized letter-frequency vector so tests
// run without a remote embedding API. Texts sharing words rank closer.
func letterEmbedding(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, 27)
	for _, r := range strings.ToLower(text) {
		if r >= 'a' && r <= 'z' {
			vec[r-'a']++
		}
	}
	vec[26] = 1 // keep zero-letter texts non-zero
	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
	return vec, nil
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(func(o *Options) {
		o.EmbeddingFunc = chromemgo.EmbeddingFunc(letterEmbedding)
	})
	require.NoError(t, err)
	return store
}

func TestStore_SaveAndAll(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "user-1", core.NewUserMessage("I like coffee")))
	require.NoError(t, store.Save(ctx, "user-1", core.NewAssistantMessage("Noted, coffee it is")))
	require.NoError(t, store.Save(ctx, "user-2", core.NewUserMessage("I prefer tea")))

	msgs, err := store.All(ctx, core.SearchOptions{Owner: "user-1"})
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "I like coffee", msgs[0].Content)
	assert.Equal(t, core.RoleUser, msgs[0].Role)
	assert.Equal(t, "Noted, coffee it is", msgs[1].Content)

	assert.Equal(t, 3, store.Count())
}

func TestStore_All_Limit(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, content := range []string{"one", "two", "three"} {
		require.NoError(t, store.Save(ctx, "user-1", core.NewUserMessage(content)))
	}

	msgs, err := store.All(ctx, core.SearchOptions{Owner: "user-1", Limit: 2})
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "one", msgs[0].Content)
	assert.Equal(t, "two", msgs[1].Content)
}

func TestStore_Search_ScopedToOwner(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "user-1", core.NewUserMessage("coffee coffee coffee")))
	require.NoError(t, store.Save(ctx, "user-2", core.NewUserMessage("coffee coffee coffee")))
	require.NoError(t, store.Save(ctx, "user-1", core.NewUserMessage("zzz qqq xxx")))

	msgs, err := store.Search(ctx, "coffee", core.SearchOptions{Owner: "user-1", Limit: 1})
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "coffee coffee coffee", msgs[0].Content)
}

func TestStore_Search_EmptyStore(t *testing.T) {
	store := newTestStore(t)

	msgs, err := store.Search(context.Background(), "anything", core.SearchOptions{Owner: "user-1"})
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestStore_Delete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	msg := core.NewUserMessage("temporary note")
	msg.ID = "msg-1"
	require.NoError(t, store.Save(ctx, "user-1", msg))
	require.NoError(t, store.Delete(ctx, "msg-1"))

	msgs, err := store.All(ctx, core.SearchOptions{Owner: "user-1"})
	require.NoError(t, err)
	assert.Empty(t, msgs)
	assert.Equal(t, 0, store.Count())
}
