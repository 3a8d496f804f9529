package ui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// errNotDocx is the local validation error shown before any network
// call is made.
var errNotDocx = errors.New("Please upload a .docx file")

// checkDocxName rejects anything that is not a .docx path. The
// backend validates again on upload; this check keeps obviously wrong
// files from ever leaving the machine.
func checkDocxName(path string) error {
	if !strings.HasSuffix(strings.ToLower(path), ".docx") {
		return errNotDocx
	}
	return nil
}

// renderUpload draws the upload prompt filling the body area.
func (m Model) renderUpload() string {
	theme := m.theme

	title := lipgloss.NewStyle().Foreground(theme.NormalText).Bold(true).
		Render("Upload a form template")
	hint := lipgloss.NewStyle().Foreground(theme.FaintText).
		Render("Enter the path to a .docx file and press enter.")

	prompt := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.BorderColor).
		Padding(0, 1).
		Render(m.pathInput.View())

	status := ""
	if m.snap.IsUploading {
		status = m.spin.View() + " uploading..."
	}

	box := lipgloss.JoinVertical(lipgloss.Left, title, "", hint, "", prompt, "", status)
	return lipgloss.Place(m.width, m.height-chromeRows, lipgloss.Center, lipgloss.Center, box)
}
