package ui

import (
	"context"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gennadis/formfillui/internal/chat"
	"github.com/gennadis/formfillui/internal/client"
)

// storeChangedMsg signals that the session store mutated; the model
// refreshes its snapshot and re-renders.
type storeChangedMsg struct{}

// uploadResultMsg is sent when the async upload call completes.
type uploadResultMsg struct {
	filename string
	resp     *client.UploadResponse
	err      error
}

// sendResultMsg is sent when the async send-message call completes.
// The agent's reply arrives separately over the stream.
type sendResultMsg struct {
	err error
}

// statusResultMsg is sent when the async status fetch completes.
type statusResultMsg struct {
	status *chat.Status
	err    error
}

// saveResultMsg is sent when the filled document has been written to
// disk (or the download failed).
type saveResultMsg struct {
	path string
	err  error
}

// waitForChange blocks on the store's change channel and converts the
// signal into a bubbletea message. Re-issued after every delivery.
func waitForChange(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-ch
		return storeChangedMsg{}
	}
}

func (m Model) uploadCmd(path string) tea.Cmd {
	api := m.api
	return func() tea.Msg {
		filename := filepath.Base(path)
		file, err := os.Open(path)
		if err != nil {
			return uploadResultMsg{filename: filename, err: err}
		}
		defer file.Close()

		resp, err := api.UploadDocument(context.Background(), filename, file)
		return uploadResultMsg{filename: filename, resp: resp, err: err}
	}
}

func (m Model) sendCmd(sessionID, text string) tea.Cmd {
	api := m.api
	return func() tea.Msg {
		return sendResultMsg{err: api.SendMessage(context.Background(), sessionID, text)}
	}
}

func (m Model) statusCmd(sessionID string) tea.Cmd {
	api := m.api
	return func() tea.Msg {
		status, err := api.GetStatus(context.Background(), sessionID)
		return statusResultMsg{status: status, err: err}
	}
}

func (m Model) saveCmd(sessionID, path string) tea.Cmd {
	api := m.api
	return func() tea.Msg {
		return saveResultMsg{path: path, err: api.SaveDocument(context.Background(), sessionID, path)}
	}
}
