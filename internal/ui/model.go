// Package ui is the bubbletea presentation layer: an upload prompt, a
// chat transcript with composer, a form progress sidebar, and the
// shell chrome around them. It renders off state.Store snapshots and
// contains no business rules beyond input validation.
package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gennadis/formfillui/internal/chat"
	"github.com/gennadis/formfillui/internal/client"
	"github.com/gennadis/formfillui/internal/state"
	"github.com/gennadis/formfillui/internal/stream"
)

type keyMap struct {
	Quit       key.Binding
	NewSession key.Binding
	Dismiss    key.Binding
	Refresh    key.Binding
	Download   key.Binding
	ToggleForm key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:       key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		NewSession: key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "new session")),
		Dismiss:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "dismiss error")),
		Refresh:    key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "refresh status")),
		Download:   key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "download")),
		ToggleForm: key.NewBinding(key.WithKeys("ctrl+f"), key.WithHelp("ctrl+f", "form fields")),
	}
}

// SessionFunc is called once per successful upload with the backend
// session id and the uploaded filename. Used by main to persist the
// session record.
type SessionFunc func(sessionID, filename string)

// Model is the root bubbletea model. Which view renders (upload prompt
// or chat) is derived from the store snapshot, not tracked separately.
type Model struct {
	theme     Theme
	store     *state.Store
	api       *client.Client
	consumer  *stream.Consumer
	onSession SessionFunc

	changes     <-chan struct{}
	unsubscribe func()
	snap        state.Snapshot

	width  int
	height int

	pathInput  textinput.Model
	composer   textinput.Model
	transcript viewport.Model
	spin       spinner.Model

	uploadName string
	note       string
	waiting    bool
	showForm   bool
	keys       keyMap
}

func NewModel(theme Theme, store *state.Store, api *client.Client, consumer *stream.Consumer, onSession SessionFunc) Model {
	pathInput := textinput.New()
	pathInput.Placeholder = "path/to/form.docx"
	pathInput.Focus()

	composer := textinput.New()
	composer.Placeholder = "Type your answer..."

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(theme.AgentLabel)

	changes, unsubscribe := store.Subscribe()

	return Model{
		theme:       theme,
		store:       store,
		api:         api,
		consumer:    consumer,
		onSession:   onSession,
		changes:     changes,
		unsubscribe: unsubscribe,
		snap:        store.Snapshot(),
		pathInput:   pathInput,
		composer:    composer,
		transcript:  viewport.New(0, 0),
		spin:        spin,
		keys:        defaultKeyMap(),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spin.Tick, waitForChange(m.changes))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		m.refreshTranscript(true)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case storeChangedMsg:
		return m.handleStoreChange()

	case uploadResultMsg:
		return m.handleUploadResult(msg)

	case sendResultMsg:
		if msg.err != nil {
			m.waiting = false
			m.store.SetError(msg.err.Error())
		}
		return m, nil

	case statusResultMsg:
		if msg.err != nil {
			m.store.SetError(msg.err.Error())
			return m, nil
		}
		m.store.SetFormData(msg.status.FormData)
		if msg.status.IsComplete {
			m.store.SetComplete(true)
		}
		return m, nil

	case saveResultMsg:
		if msg.err != nil {
			m.store.SetError(msg.err.Error())
			return m, nil
		}
		m.note = "Saved filled document to " + msg.path
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.unsubscribe()
		m.consumer.Close()
		return m, tea.Quit

	case key.Matches(msg, m.keys.NewSession):
		m.consumer.Close()
		m.store.Reset()
		m.snap = m.store.Snapshot()
		m.uploadName = ""
		m.note = ""
		m.waiting = false
		m.showForm = false
		m.composer.Reset()
		m.pathInput.Reset()
		m.pathInput.Focus()
		m.transcript.SetContent("")
		return m, nil

	case key.Matches(msg, m.keys.Dismiss):
		if m.snap.Error != "" {
			m.store.SetError("")
			return m, nil
		}
	}

	if !m.snap.HasSession() {
		return m.handleUploadKey(msg)
	}
	return m.handleChatKey(msg)
}

func (m Model) handleUploadKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEnter {
		if m.snap.IsUploading {
			return m, nil
		}
		path := strings.TrimSpace(m.pathInput.Value())
		if path == "" {
			return m, nil
		}
		if err := checkDocxName(path); err != nil {
			m.store.SetError(err.Error())
			return m, nil
		}
		m.store.SetUploading(true)
		m.snap.IsUploading = true
		return m, m.uploadCmd(path)
	}

	var cmd tea.Cmd
	m.pathInput, cmd = m.pathInput.Update(msg)
	return m, cmd
}

func (m Model) handleChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Refresh):
		return m, m.statusCmd(m.snap.SessionID)

	case key.Matches(msg, m.keys.Download):
		if !m.snap.CanDownload() {
			m.store.SetError("Form is not complete yet")
			return m, nil
		}
		return m, m.saveCmd(m.snap.SessionID, m.downloadName())

	case key.Matches(msg, m.keys.ToggleForm):
		m.showForm = !m.showForm
		m.layout()
		m.refreshTranscript(false)
		return m, nil
	}

	if msg.Type == tea.KeyEnter {
		text := strings.TrimSpace(m.composer.Value())
		if text == "" {
			return m, nil
		}
		// Optimistic append: the message stays in the transcript
		// even if the send fails.
		m.store.AddMessage(chat.RoleUser, text)
		m.composer.Reset()
		m.waiting = true
		m.note = ""
		return m, m.sendCmd(m.snap.SessionID, text)
	}

	switch msg.Type {
	case tea.KeyPgUp, tea.KeyPgDown, tea.KeyUp, tea.KeyDown:
		var cmd tea.Cmd
		m.transcript, cmd = m.transcript.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.composer, cmd = m.composer.Update(msg)
	return m, cmd
}

func (m Model) handleStoreChange() (tea.Model, tea.Cmd) {
	prev := m.snap
	m.snap = m.store.Snapshot()

	if len(m.snap.Messages) > len(prev.Messages) {
		last := m.snap.Messages[len(m.snap.Messages)-1]
		if last.Role == chat.RoleAssistant {
			m.waiting = false
			m.note = ""
		}
		m.refreshTranscript(true)
	}
	return m, waitForChange(m.changes)
}

func (m Model) handleUploadResult(msg uploadResultMsg) (tea.Model, tea.Cmd) {
	m.store.SetUploading(false)
	if msg.err != nil {
		m.store.SetError(msg.err.Error())
		return m, nil
	}

	m.uploadName = msg.filename
	m.note = msg.resp.Message
	m.store.SetSession(msg.resp.SessionID)
	if m.onSession != nil {
		m.onSession(msg.resp.SessionID, msg.filename)
	}
	m.consumer.Start(msg.resp.SessionID)
	m.snap = m.store.Snapshot()
	m.composer.Focus()
	m.pathInput.Blur()
	return m, nil
}

// downloadName mirrors the backend's attachment naming.
func (m Model) downloadName() string {
	if m.uploadName == "" {
		return "filled_form.docx"
	}
	return "filled_" + m.uploadName
}
