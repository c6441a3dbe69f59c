package main

import "github.com/charmbracelet/lipgloss"

var (
	// Color palette
	primaryColor = lipgloss.Color("#7D56F4")
	successColor = lipgloss.Color("#04B575")
	errorColor   = lipgloss.Color("#FF4B4B")
	mutedColor   = lipgloss.Color("#666666")

	namespaceStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	functionStyle = lipgloss.NewStyle().
			PaddingLeft(2)

	resultStyle = lipgloss.NewStyle().
			Foreground(successColor)

	failureStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true)

	hintStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Italic(true)
)

// render applies s unless colors are disabled. Padding survives --no-color.
func render(s lipgloss.Style, text string) string {
	if noColor {
		return lipgloss.NewStyle().
			PaddingLeft(s.GetPaddingLeft()).
			Render(text)
	}
	return s.Render(text)
}
