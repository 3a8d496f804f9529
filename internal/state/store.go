package state

import (
	"sync"

	"github.com/gennadis/formfillui/internal/chat"
)

// Snapshot is an immutable copy of the session state. An empty
// SessionID means no active session; an empty Error means no error is
// being shown.
type Snapshot struct {
	SessionID   string
	IsUploading bool
	IsComplete  bool
	IsConnected bool
	Error       string
	Messages    []chat.Message
	FormData    chat.FormData
}

// HasSession reports whether an upload has established a session.
func (s Snapshot) HasSession() bool {
	return s.SessionID != ""
}

// CanDownload reports whether the filled document is ready.
func (s Snapshot) CanDownload() bool {
	return s.IsComplete
}

// Store holds the single active session's state. Mutations are atomic
// and never fail; readers get value copies via Snapshot. Subscribers
// receive a coalesced change signal after every mutation.
type Store struct {
	mu   sync.Mutex
	snap Snapshot
	subs map[int]chan struct{}
	next int
}

func NewStore() *Store {
	return &Store{subs: make(map[int]chan struct{})}
}

// Snapshot returns a copy of the current state. The messages slice is
// copied so callers never observe later appends.
func (st *Store) Snapshot() Snapshot {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.copyLocked()
}

// Subscribe registers a change listener. The returned channel holds at
// most one pending signal; consecutive mutations coalesce. The cancel
// function removes the subscription.
func (st *Store) Subscribe() (<-chan struct{}, func()) {
	st.mu.Lock()
	defer st.mu.Unlock()
	id := st.next
	st.next++
	ch := make(chan struct{}, 1)
	st.subs[id] = ch
	return ch, func() {
		st.mu.Lock()
		defer st.mu.Unlock()
		delete(st.subs, id)
	}
}

// SetSession records a new backend session id and clears any error.
func (st *Store) SetSession(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.snap.SessionID = id
	st.snap.Error = ""
	st.notifyLocked()
}

func (st *Store) SetUploading(v bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.snap.IsUploading = v
	st.notifyLocked()
}

func (st *Store) SetConnected(v bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.snap.IsConnected = v
	st.notifyLocked()
}

// SetComplete marks the form as done. Completion requires an active
// session; without one the call is a no-op.
func (st *Store) SetComplete(v bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if v && st.snap.SessionID == "" {
		return
	}
	st.snap.IsComplete = v
	st.notifyLocked()
}

// SetError sets the error banner text; an empty string dismisses it.
func (st *Store) SetError(msg string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.snap.Error = msg
	st.notifyLocked()
}

// SetFormData records the latest status-endpoint view of the form.
func (st *Store) SetFormData(fd chat.FormData) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.snap.FormData = fd
	st.notifyLocked()
}

// AddMessage appends a transcript message with a fresh id and current
// timestamp, and returns it. Existing messages are never modified.
func (st *Store) AddMessage(role chat.Role, content string) chat.Message {
	st.mu.Lock()
	defer st.mu.Unlock()
	msg := chat.NewMessage(st.snap.SessionID, role, content)
	st.snap.Messages = append(st.snap.Messages, msg)
	st.notifyLocked()
	return msg
}

// Reset replaces the whole state with the initial value in one step.
func (st *Store) Reset() {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.snap = Snapshot{}
	st.notifyLocked()
}

func (st *Store) copyLocked() Snapshot {
	snap := st.snap
	snap.Messages = make([]chat.Message, len(st.snap.Messages))
	copy(snap.Messages, st.snap.Messages)
	return snap
}

func (st *Store) notifyLocked() {
	for _, ch := range st.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
