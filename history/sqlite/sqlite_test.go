package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentchain/core"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore_SaveAndMessages(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	user := core.NewUserMessage("what is the weather?")
	assistant := core.NewAssistantMessage("sunny")
	assistant.ToolCall = &core.ToolCallRecord{
		Name:      "get_weather",
		Arguments: `{"city":"Berlin"}`,
		Result:    "sunny",
	}

	require.NoError(t, store.SaveMessage(ctx, "sess1", user))
	require.NoError(t, store.SaveMessage(ctx, "sess1", assistant))

	msgs, err := store.Messages(ctx, "sess1")
	require.NoError(t, err)
	require.Len(t, msgs, 2)

	assert.Equal(t, core.RoleUser, msgs[0].Role)
	assert.Equal(t, "what is the weather?", msgs[0].Content)
	assert.NotEmpty(t, msgs[0].ID)

	assert.Equal(t, core.RoleAssistant, msgs[1].Role)
	require.NotNil(t, msgs[1].ToolCall)
	assert.Equal(t, "get_weather", msgs[1].ToolCall.Name)
	assert.Equal(t, "sunny", msgs[1].ToolCall.Result)
}

func TestStore_Messages_OrderedByTimestamp(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Now().UTC()
	for i, content := range []string{"first", "second", "third"} {
		msg := core.Message{Role: core.RoleUser, Content: content, Timestamp: base.Add(time.Duration(i) * time.Second)}
		require.NoError(t, store.SaveMessage(ctx, "sess1", msg))
	}

	msgs, err := store.Messages(ctx, "sess1")
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, "first", msgs[0].Content)
	assert.Equal(t, "second", msgs[1].Content)
	assert.Equal(t, "third", msgs[2].Content)
}

func TestStore_Messages_UnknownSession(t *testing.T) {
	store := newTestStore(t)

	msgs, err := store.Messages(context.Background(), "missing")
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestStore_DeleteSession(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveMessage(ctx, "sess1", core.NewUserMessage("hello")))
	require.NoError(t, store.SaveMessage(ctx, "sess2", core.NewUserMessage("hi")))

	require.NoError(t, store.DeleteSession(ctx, "sess1"))

	msgs, err := store.Messages(ctx, "sess1")
	require.NoError(t, err)
	assert.Empty(t, msgs)

	ids, err := store.ListSessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"sess2"}, ids)
}

func TestStore_ListSessions(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveMessage(ctx, "beta", core.NewUserMessage("b")))
	require.NoError(t, store.SaveMessage(ctx, "alpha", core.NewUserMessage("a")))
	require.NoError(t, store.SaveMessage(ctx, "alpha", core.NewUserMessage("a2")))

	ids, err := store.ListSessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta"}, ids)
}
