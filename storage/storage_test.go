package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gennadis/formfillui/internal/chat"
)

func newTestStorage(t *testing.T) (*Sessions, *Messages) {
	t.Helper()
	db, err := NewSqliteDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	sessions, err := NewSessions(db)
	require.NoError(t, err)
	messages, err := NewMessages(db)
	require.NoError(t, err)
	return sessions, messages
}

func TestSessionsWriteAndRead(t *testing.T) {
	sessions, _ := newTestStorage(t)

	older := chat.Session{ID: "s1", Name: "form.docx", Timestamp: time.Now().Add(-time.Hour)}
	newer := chat.Session{ID: "s2", Name: "other.docx", Timestamp: time.Now()}
	require.NoError(t, sessions.Write(older))
	require.NoError(t, sessions.Write(newer))

	got, err := sessions.Read()
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "s2", got[0].ID, "newest session first")
	assert.Equal(t, "form.docx", got[1].Name)
}

func TestMessagesRoundTrip(t *testing.T) {
	sessions, messages := newTestStorage(t)
	require.NoError(t, sessions.Write(chat.Session{ID: "s1", Name: "form.docx"}))

	base := time.Now().Add(-time.Minute)
	first := chat.Message{ID: "m1", SessionID: "s1", Role: chat.RoleUser, Content: "hi", Timestamp: base}
	second := chat.Message{ID: "m2", SessionID: "s1", Role: chat.RoleAssistant, Content: "hello", Timestamp: base.Add(time.Second)}
	require.NoError(t, messages.Write(first))
	require.NoError(t, messages.Write(second))

	got, err := messages.ReadBySessionID("s1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "m1", got[0].ID)
	assert.Equal(t, chat.RoleUser, got[0].Role)
	assert.Equal(t, "hello", got[1].Content)

	// Replaying a message id is a no-op, not an error.
	require.NoError(t, messages.Write(first))
	got, err = messages.ReadBySessionID("s1")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestMessagesScopedToSession(t *testing.T) {
	_, messages := newTestStorage(t)
	require.NoError(t, messages.Write(chat.Message{ID: "m1", SessionID: "s1", Role: chat.RoleUser, Content: "a"}))
	require.NoError(t, messages.Write(chat.Message{ID: "m2", SessionID: "s2", Role: chat.RoleUser, Content: "b"}))

	got, err := messages.ReadBySessionID("s2")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].Content)
}

func TestDeleteSessionRemovesMessages(t *testing.T) {
	sessions, messages := newTestStorage(t)
	require.NoError(t, sessions.Write(chat.Session{ID: "s1", Name: "form.docx"}))
	require.NoError(t, messages.Write(chat.Message{ID: "m1", SessionID: "s1", Role: chat.RoleUser, Content: "a"}))

	require.NoError(t, sessions.Delete("s1"))

	got, err := sessions.Read()
	require.NoError(t, err)
	assert.Empty(t, got)

	msgs, err := messages.ReadBySessionID("s1")
	require.NoError(t, err)
	assert.Empty(t, msgs)
}
