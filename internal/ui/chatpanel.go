package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderChat draws the transcript viewport, the composer line, and
// optionally the form progress sidebar.
func (m Model) renderChat() string {
	composer := "> " + m.composer.View()
	if m.waiting {
		composer = m.spin.View() + " " + m.composer.View()
	}

	left := lipgloss.JoinVertical(lipgloss.Left, m.transcript.View(), composer)
	if !m.showForm {
		return left
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, left, m.renderFormPanel())
}

// refreshTranscript rebuilds the viewport content from the snapshot.
// Messages render in insertion order; toBottom follows the newest
// message, as after an append or a resize.
func (m *Model) refreshTranscript(toBottom bool) {
	width := m.transcript.Width - 2
	if width < 10 {
		width = 10
	}

	var b strings.Builder
	for i, msg := range m.snap.Messages {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(renderMessage(m.theme, width, msg))
		b.WriteString("\n")
	}
	m.transcript.SetContent(b.String())
	if toBottom {
		m.transcript.GotoBottom()
	}
}
