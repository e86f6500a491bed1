package ui

import "github.com/charmbracelet/lipgloss"

var (
	colorAccent = lipgloss.Color("#00CEC9")
	colorGray   = lipgloss.Color("#636E72")
	colorWhite  = lipgloss.Color("#DFE6E9")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent).
			PaddingLeft(1)

	selectedRowStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorWhite).
				Background(lipgloss.Color("#2D3436"))

	normalRowStyle = lipgloss.NewStyle().
			Foreground(colorWhite).
			PaddingLeft(2)

	hintStyle = lipgloss.NewStyle().
			Foreground(colorGray).
			PaddingLeft(1)
)
