package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/gennadis/formfillui/internal/chat"
)

const timeLayout = "15:04"

// renderMessage formats one transcript message as a labeled block
// wrapped to the given width.
func renderMessage(theme Theme, width int, msg chat.Message) string {
	label := "Agent"
	labelColor := theme.AgentLabel
	if msg.Role == chat.RoleUser {
		label = "You"
		labelColor = theme.UserLabel
	}

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		lipgloss.NewStyle().Foreground(labelColor).Bold(true).Render(label),
		lipgloss.NewStyle().Foreground(theme.FaintText).Render(" "+msg.Timestamp.Local().Format(timeLayout)),
	)

	body := lipgloss.NewStyle().
		Foreground(theme.NormalText).
		Width(width).
		PaddingLeft(2).
		Render(msg.Content)

	return header + "\n" + body
}
