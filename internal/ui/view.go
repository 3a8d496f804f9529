package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Fixed chrome rows around the body: header, banner/note line,
// composer (or prompt), help line.
const chromeRows = 4

func (m Model) View() string {
	if m.width == 0 {
		return ""
	}

	sections := []string{
		m.renderHeader(),
		m.renderBanner(),
	}

	if !m.snap.HasSession() {
		sections = append(sections, m.renderUpload())
	} else {
		sections = append(sections, m.renderChat())
	}

	sections = append(sections, m.renderHelp())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader() string {
	theme := m.theme

	dot := lipgloss.NewStyle().Foreground(theme.DisconnectedDot).Render("●")
	connLabel := "offline"
	if m.snap.IsConnected {
		dot = lipgloss.NewStyle().Foreground(theme.ConnectedDot).Render("●")
		connLabel = "connected"
	}

	left := lipgloss.NewStyle().
		Foreground(theme.HeaderForeground).
		Bold(true).
		Render(" Form Filler ")

	right := dot + " " + lipgloss.NewStyle().Foreground(theme.FaintText).Render(connLabel) + " "
	if m.snap.IsComplete {
		right = lipgloss.NewStyle().Foreground(theme.CompleteBadge).Bold(true).Render("✓ form complete ") + right
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	bar := left + lipgloss.NewStyle().Width(gap).Render("") + right
	return lipgloss.NewStyle().Background(theme.HeaderBackground).Width(m.width).Render(bar)
}

// renderBanner shows the current error (dismissible with esc), or the
// transient note line when there is no error. Last write wins; only
// one line is ever shown.
func (m Model) renderBanner() string {
	theme := m.theme
	if m.snap.Error != "" {
		return lipgloss.NewStyle().
			Foreground(theme.ErrorForeground).
			Background(theme.ErrorBackground).
			Width(m.width).
			Render(" " + m.snap.Error + " (esc to dismiss)")
	}
	if m.note != "" {
		return lipgloss.NewStyle().Foreground(theme.FaintText).Width(m.width).Render(" " + m.note)
	}
	return ""
}

func (m Model) renderHelp() string {
	help := "ctrl+n new session · ctrl+c quit"
	if m.snap.HasSession() {
		help = "enter send · ctrl+f form fields · ctrl+r refresh status · " + help
		if m.snap.CanDownload() {
			help = "ctrl+d download · " + help
		}
	} else {
		help = "enter upload · " + help
	}
	return lipgloss.NewStyle().Foreground(m.theme.HelpText).Render(" " + help)
}

// layout recomputes component sizes from the window size and the form
// panel visibility.
func (m *Model) layout() {
	bodyHeight := m.height - chromeRows
	if bodyHeight < 1 {
		bodyHeight = 1
	}

	transcriptWidth := m.width
	if m.showForm {
		transcriptWidth -= formPanelWidth
	}
	if transcriptWidth < 20 {
		transcriptWidth = 20
	}

	m.transcript.Width = transcriptWidth
	m.transcript.Height = bodyHeight - 1 // composer line
	m.composer.Width = transcriptWidth - 4
	m.pathInput.Width = m.width - 10
}
