package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/gennadis/formfillui/internal/chat"
	"github.com/gennadis/formfillui/internal/client"
	"github.com/gennadis/formfillui/internal/config"
	"github.com/gennadis/formfillui/internal/state"
	"github.com/gennadis/formfillui/internal/stream"
	"github.com/gennadis/formfillui/internal/ui"
	"github.com/gennadis/formfillui/storage"
)

func main() {
	godotenv.Load(".env")
	cfg := config.NewConfig()

	// The TUI owns the terminal, so logs go to a file.
	logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		log.Fatalf("Failed to open log file: %s", err)
	}
	defer logFile.Close()
	slog.SetDefault(slog.New(slog.NewTextHandler(logFile, nil)))

	db, err := storage.NewSqliteDB(cfg.DBFile)
	if err != nil {
		log.Fatalf("Failed to open local database: %s", err)
	}
	defer db.Close()

	sessions, err := storage.NewSessions(db)
	if err != nil {
		log.Fatalf("Failed to init sessions storage: %s", err)
	}
	messages, err := storage.NewMessages(db)
	if err != nil {
		log.Fatalf("Failed to init messages storage: %s", err)
	}

	store := state.NewStore()
	api := client.NewClient(*cfg)
	consumer := stream.NewConsumer(store, func(ctx context.Context, sessionID string) (stream.Handle, error) {
		return api.OpenEventStream(ctx, sessionID)
	})

	stopPersist := persistTranscript(store, messages)
	defer stopPersist()

	onSession := func(sessionID, filename string) {
		if err := sessions.Write(chat.Session{ID: sessionID, Name: filename}); err != nil {
			slog.Error("Failed to persist session", "error", err)
		}
	}

	model := ui.NewModel(ui.DefaultTheme, store, api, consumer, onSession)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		log.Fatalf("Failed to run UI: %s", err)
	}

	consumer.Close()
}

// persistTranscript mirrors new transcript messages into local
// storage. Best-effort: persistence failures are logged, never shown;
// the live store is the source of truth.
func persistTranscript(store *state.Store, messages *storage.Messages) func() {
	changes, unsubscribe := store.Subscribe()
	done := make(chan struct{})

	go func() {
		seen := make(map[string]struct{})
		for {
			select {
			case <-done:
				return
			case <-changes:
			}

			snap := store.Snapshot()
			for _, msg := range snap.Messages {
				if _, ok := seen[msg.ID]; ok {
					continue
				}
				seen[msg.ID] = struct{}{}
				if msg.SessionID == "" {
					continue
				}
				if err := messages.Write(msg); err != nil {
					slog.Error("Failed to persist message", "error", err)
				}
			}
		}
	}()

	return func() {
		close(done)
		unsubscribe()
	}
}
