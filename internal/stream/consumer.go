// Package stream owns the chat stream lifecycle: opening the
// server-push channel for a session, dispatching its events into the
// state store, reopening after each completed agent turn, and retrying
// with a fixed delay on transport failure.
package stream

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gennadis/formfillui/internal/chat"
	"github.com/gennadis/formfillui/internal/state"
)

const reconnectDelay = time.Second * 2

// Handle is one open chat stream, as returned by the transport client.
type Handle interface {
	Next() (string, error)
	Close() error
}

// OpenFunc opens a stream handle for a session.
type OpenFunc func(ctx context.Context, sessionID string) (Handle, error)

// Consumer drives the stream state machine. At most one handle is live
// at a time: Start and Close bump a generation counter, and callbacks
// or timers carrying a stale generation are no-ops. The backend closes
// the stream after each agent turn's "done" event, so reopening after
// done is the steady-state cycle, not an error path.
type Consumer struct {
	store *state.Store
	open  OpenFunc

	mu        sync.Mutex
	gen       int
	sessionID string
	handle    Handle
	timer     *time.Timer
	delay     time.Duration
}

func NewConsumer(store *state.Store, open OpenFunc) *Consumer {
	return &Consumer{
		store: store,
		open:  open,
		delay: reconnectDelay,
	}
}

// Start begins consuming events for a session. Any stream belonging to
// a previous session is closed first.
func (c *Consumer) Start(sessionID string) {
	c.mu.Lock()
	c.closeLocked()
	c.sessionID = sessionID
	gen := c.gen
	c.mu.Unlock()

	go c.connect(gen)
}

// Close shuts the current stream and cancels any pending reconnect.
// No reconnect is scheduled; idempotent.
func (c *Consumer) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeLocked()
	c.sessionID = ""
}

// closeLocked invalidates the current generation so in-flight
// callbacks and timers become no-ops, then releases the handle.
func (c *Consumer) closeLocked() {
	c.gen++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	if c.handle != nil {
		c.handle.Close()
		c.handle = nil
	}
}

// connect opens a handle for the current session. The generation is
// rechecked at every step so a session reset between schedule and fire
// cancels the attempt.
func (c *Consumer) connect(gen int) {
	c.mu.Lock()
	if gen != c.gen || c.sessionID == "" {
		c.mu.Unlock()
		return
	}
	sessionID := c.sessionID
	c.mu.Unlock()

	handle, err := c.open(context.Background(), sessionID)

	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		if err == nil {
			handle.Close()
		}
		return
	}
	if err != nil {
		slog.Error("Failed to connect to chat stream", "error", err, "session_id", sessionID)
		c.store.SetConnected(false)
		c.scheduleReconnectLocked(gen)
		c.mu.Unlock()
		return
	}
	c.handle = handle
	c.store.SetConnected(true)
	c.mu.Unlock()

	go c.readLoop(gen, handle)
}

// readLoop pulls lines off one handle until the turn ends or the
// transport fails. A "done" event closes the handle and immediately
// opens a fresh one for the same session; a transport error schedules
// a retry after the fixed delay.
func (c *Consumer) readLoop(gen int, handle Handle) {
	for {
		line, err := handle.Next()
		if err != nil {
			c.mu.Lock()
			if gen != c.gen {
				c.mu.Unlock()
				return
			}
			c.handle = nil
			handle.Close()
			slog.Debug("Chat stream dropped", "error", err)
			c.store.SetConnected(false)
			c.scheduleReconnectLocked(gen)
			c.mu.Unlock()
			return
		}

		if turnDone := c.dispatch(gen, line); turnDone {
			c.mu.Lock()
			if gen != c.gen {
				c.mu.Unlock()
				return
			}
			c.handle = nil
			handle.Close()
			c.mu.Unlock()
			go c.connect(gen)
			return
		}
	}
}

// scheduleReconnectLocked arms the retry timer. The delay is fixed:
// no backoff growth, no attempt cap, for as long as a session is set.
func (c *Consumer) scheduleReconnectLocked(gen int) {
	c.timer = time.AfterFunc(c.delay, func() {
		c.connect(gen)
	})
}

// dispatch applies one stream line to the store. Returns true when the
// line ends the current agent turn. Lines that do not parse as tagged
// JSON events (SSE keepalive comments, heartbeats) are ignored.
func (c *Consumer) dispatch(gen int, line string) bool {
	c.mu.Lock()
	stale := gen != c.gen
	c.mu.Unlock()
	if stale {
		return false
	}

	payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
	event := chat.StreamEvent{}
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		return false
	}

	switch event.Type {
	case chat.EventTypeMessage:
		if event.Content != "" {
			c.store.AddMessage(chat.RoleAssistant, event.Content)
		}
	case chat.EventTypeDone:
		if event.IsComplete {
			c.store.SetComplete(true)
		}
		return true
	case chat.EventTypeError:
		c.store.SetError(event.Content)
	}
	return false
}
