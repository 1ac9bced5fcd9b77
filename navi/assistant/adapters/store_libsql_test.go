package adapters

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ports "github.com/tecnofusion-it/navi/navi/assistant/ports"
	"github.com/tecnofusion-it/navi/navi/db"
)

func newTestStore(t *testing.T) *LibSQLConversationStore {
	t.Helper()
	conn, err := db.Connect(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return NewLibSQLConversationStore(conn)
}

func TestConversationStore_AppendAndLoad(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.AppendTurn(ctx, "conv-1", ports.Turn{Role: "user", Content: "Hola"}))
	require.NoError(t, store.AppendTurn(ctx, "conv-1", ports.Turn{Role: "assistant", Content: "Hola, soy Navi"}))
	require.NoError(t, store.AppendTurn(ctx, "conv-1", ports.Turn{Role: "user", Content: "Quiero una web"}))

	turns, err := store.LoadRecent(ctx, "conv-1", 0)
	require.NoError(t, err)
	require.Len(t, turns, 3)
	assert.Equal(t, "Hola", turns[0].Content)
	assert.Equal(t, "Quiero una web", turns[2].Content)
	assert.False(t, turns[0].CreatedAt.IsZero())
}

func TestConversationStore_LoadRecentWindowsChronologically(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	for _, content := range []string{"uno", "dos", "tres", "cuatro"} {
		require.NoError(t, store.AppendTurn(ctx, "conv-1", ports.Turn{Role: "user", Content: content}))
	}

	turns, err := store.LoadRecent(ctx, "conv-1", 2)
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, "tres", turns[0].Content)
	assert.Equal(t, "cuatro", turns[1].Content)
}

func TestConversationStore_ConversationsAreIsolated(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.AppendTurn(ctx, "conv-1", ports.Turn{Role: "user", Content: "para uno"}))
	require.NoError(t, store.AppendTurn(ctx, "conv-2", ports.Turn{Role: "user", Content: "para dos"}))

	turns, err := store.LoadRecent(ctx, "conv-2", 0)
	require.NoError(t, err)
	require.Len(t, turns, 1)
	assert.Equal(t, "para dos", turns[0].Content)
}

func TestConversationStore_Reset(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.AppendTurn(ctx, "conv-1", ports.Turn{Role: "user", Content: "borrar"}))
	require.NoError(t, store.AppendTurn(ctx, "conv-2", ports.Turn{Role: "user", Content: "conservar"}))

	require.NoError(t, store.Reset(ctx, "conv-1"))

	turns, err := store.LoadRecent(ctx, "conv-1", 0)
	require.NoError(t, err)
	assert.Empty(t, turns)

	turns, err = store.LoadRecent(ctx, "conv-2", 0)
	require.NoError(t, err)
	assert.Len(t, turns, 1)
}

func TestConversationStore_PreservesExplicitTimestamp(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.AppendTurn(ctx, "conv-1", ports.Turn{Role: "user", Content: "x", CreatedAt: at}))

	turns, err := store.LoadRecent(ctx, "conv-1", 0)
	require.NoError(t, err)
	require.Len(t, turns, 1)
	assert.True(t, turns[0].CreatedAt.Equal(at))
}
