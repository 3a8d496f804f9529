package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const formPanelWidth = 34

// renderFormPanel draws the collected-fields sidebar from the last
// status snapshot (ctrl+r refreshes it).
func (m Model) renderFormPanel() string {
	theme := m.theme
	fd := m.snap.FormData

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.NormalText).Bold(true).Render("Form fields"))
	b.WriteString("\n\n")

	fields := []struct {
		label string
		value string
	}{
		{"Name", fd.Name},
		{"Street", fd.Street},
		{"Postal code / city", fd.PostalCodeCity},
		{"Country", fd.Country},
	}
	for _, f := range fields {
		b.WriteString(renderField(theme, f.label, f.value))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.NormalText).Render("Movies"))
	b.WriteString("\n")
	if len(fd.Movies) == 0 {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.FieldEmpty).Render("  · none yet"))
		b.WriteString("\n")
	}
	for _, movie := range fd.Movies {
		line := fmt.Sprintf("  ✓ %s (%s)", movie.Title, movie.Language)
		b.WriteString(lipgloss.NewStyle().Foreground(theme.FieldFilled).Render(line))
		b.WriteString("\n")
	}

	return lipgloss.NewStyle().
		Width(formPanelWidth).
		Height(m.transcript.Height + 1).
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(theme.BorderColor).
		PaddingLeft(1).
		Render(b.String())
}

func renderField(theme Theme, label, value string) string {
	if value == "" {
		return lipgloss.NewStyle().Foreground(theme.FieldEmpty).Render("· " + label)
	}
	mark := lipgloss.NewStyle().Foreground(theme.FieldFilled).Render("✓ " + label + ": ")
	return mark + lipgloss.NewStyle().Foreground(theme.NormalText).Render(value)
}
