package state

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gennadis/formfillui/internal/chat"
)

func TestAddMessagePreservesOrder(t *testing.T) {
	store := NewStore()
	store.SetSession("abc123")

	for i := 0; i < 10; i++ {
		role := chat.RoleUser
		if i%2 == 1 {
			role = chat.RoleAssistant
		}
		store.AddMessage(role, fmt.Sprintf("message %d", i))
		require.Len(t, store.Snapshot().Messages, i+1)
	}

	snap := store.Snapshot()
	seen := make(map[string]struct{})
	for i, msg := range snap.Messages {
		assert.Equal(t, fmt.Sprintf("message %d", i), msg.Content)
		assert.Equal(t, "abc123", msg.SessionID)
		_, dup := seen[msg.ID]
		assert.False(t, dup, "message ids must be unique")
		seen[msg.ID] = struct{}{}
	}
}

func TestSnapshotIsolation(t *testing.T) {
	store := NewStore()
	store.AddMessage(chat.RoleUser, "first")

	snap := store.Snapshot()
	store.AddMessage(chat.RoleUser, "second")

	require.Len(t, snap.Messages, 1)
	require.Len(t, store.Snapshot().Messages, 2)
}

func TestResetYieldsInitialState(t *testing.T) {
	store := NewStore()
	store.SetSession("abc123")
	store.SetUploading(true)
	store.SetConnected(true)
	store.SetComplete(true)
	store.SetError("boom")
	store.AddMessage(chat.RoleAssistant, "hello")
	store.SetFormData(chat.FormData{Name: "Jane"})

	store.Reset()

	snap := store.Snapshot()
	assert.Empty(t, snap.SessionID)
	assert.False(t, snap.IsUploading)
	assert.False(t, snap.IsConnected)
	assert.False(t, snap.IsComplete)
	assert.Empty(t, snap.Error)
	assert.Empty(t, snap.Messages)
	assert.Equal(t, chat.FormData{}, snap.FormData)
	assert.False(t, snap.HasSession())
	assert.False(t, snap.CanDownload())
}

func TestCompleteRequiresSession(t *testing.T) {
	store := NewStore()

	store.SetComplete(true)
	assert.False(t, store.Snapshot().IsComplete, "completion without a session is a no-op")

	store.SetSession("abc123")
	store.SetComplete(true)
	assert.True(t, store.Snapshot().IsComplete)
	assert.True(t, store.Snapshot().CanDownload())
}

func TestSetSessionClearsError(t *testing.T) {
	store := NewStore()
	store.SetError("previous upload failed")

	store.SetSession("abc123")

	snap := store.Snapshot()
	assert.Equal(t, "abc123", snap.SessionID)
	assert.Empty(t, snap.Error)
	assert.True(t, snap.HasSession())
}

func TestSubscribeSignalsAndCancels(t *testing.T) {
	store := NewStore()
	changes, cancel := store.Subscribe()

	store.SetError("one")
	store.SetError("two") // coalesces with the pending signal

	select {
	case <-changes:
	default:
		t.Fatal("expected a pending change signal")
	}

	cancel()
	store.SetError("three")

	select {
	case <-changes:
		t.Fatal("unexpected signal after cancel")
	default:
	}
}
