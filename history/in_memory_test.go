package history

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentchain/core"
)

func TestInMemoryStore_SaveAndMessages(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.SaveMessage(ctx, "sess1", core.NewUserMessage("hello")))
	require.NoError(t, store.SaveMessage(ctx, "sess1", core.NewAssistantMessage("hi there")))

	msgs, err := store.Messages(ctx, "sess1")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, core.RoleUser, msgs[0].Role)
	assert.Equal(t, "hello", msgs[0].Content)
	assert.Equal(t, core.RoleAssistant, msgs[1].Role)
	assert.NotEmpty(t, msgs[0].ID)
	assert.False(t, msgs[0].Timestamp.IsZero())
}

func TestInMemoryStore_Messages_UnknownSession(t *testing.T) {
	store := NewInMemoryStore()

	msgs, err := store.Messages(context.Background(), "missing")
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestInMemoryStore_Messages_DefensiveCopy(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.SaveMessage(ctx, "sess1", core.NewUserMessage("original")))

	msgs, err := store.Messages(ctx, "sess1")
	require.NoError(t, err)
	msgs[0].Content = "mutated"

	again, err := store.Messages(ctx, "sess1")
	require.NoError(t, err)
	assert.Equal(t, "original", again[0].Content)
}

func TestInMemoryStore_DeleteSession(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.SaveMessage(ctx, "sess1", core.NewUserMessage("hello")))
	require.NoError(t, store.DeleteSession(ctx, "sess1"))

	msgs, err := store.Messages(ctx, "sess1")
	require.NoError(t, err)
	assert.Empty(t, msgs)

	// Deleting an unknown session must not fail.
	assert.NoError(t, store.DeleteSession(ctx, "missing"))
}

func TestInMemoryStore_ListSessions(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.SaveMessage(ctx, "beta", core.NewUserMessage("b")))
	require.NoError(t, store.SaveMessage(ctx, "alpha", core.NewUserMessage("a")))

	ids, err := store.ListSessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta"}, ids)
}
