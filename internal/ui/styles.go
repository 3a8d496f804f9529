package ui

import "github.com/charmbracelet/lipgloss"

// Theme defines the color palette for the client's terminal UI. All
// colors use lipgloss ANSI 256-color codes for broad terminal
// compatibility.
type Theme struct {
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	UserLabel  lipgloss.Color
	AgentLabel lipgloss.Color

	HeaderForeground lipgloss.Color
	HeaderBackground lipgloss.Color
	BorderColor      lipgloss.Color
	HelpText         lipgloss.Color

	ErrorForeground lipgloss.Color
	ErrorBackground lipgloss.Color

	ConnectedDot    lipgloss.Color
	DisconnectedDot lipgloss.Color
	CompleteBadge   lipgloss.Color

	FieldFilled lipgloss.Color
	FieldEmpty  lipgloss.Color
}

// DefaultTheme is the built-in dark-terminal color scheme.
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),

	UserLabel:  lipgloss.Color("75"),  // blue
	AgentLabel: lipgloss.Color("141"), // light purple

	HeaderForeground: lipgloss.Color("255"),
	HeaderBackground: lipgloss.Color("237"),
	BorderColor:      lipgloss.Color("240"),
	HelpText:         lipgloss.Color("241"),

	ErrorForeground: lipgloss.Color("255"),
	ErrorBackground: lipgloss.Color("124"), // dark red

	ConnectedDot:    lipgloss.Color("114"), // green
	DisconnectedDot: lipgloss.Color("196"), // red
	CompleteBadge:   lipgloss.Color("114"),

	FieldFilled: lipgloss.Color("114"),
	FieldEmpty:  lipgloss.Color("240"),
}
