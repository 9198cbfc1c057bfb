package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// renderHeader returns a consistently styled header with an optional muted subtitle.
func (a *App) renderHeader(title, subtitle string) string {
	title = truncateEnd(title, a.width-2)
	subtitle = truncateEnd(subtitle, a.width-2)
	rows := []string{a.styles.Header.Render(title)}
	if subtitle != "" {
		rows = append(rows, a.renderMuted(subtitle))
	}
	return lipgloss.JoinVertical(lipgloss.Top, rows...)
}

// renderInputFrame draws a rounded bordered container around a rendered input view.
func (a *App) renderInputFrame(inputView string, focused bool, contentWidth int) string {
	borderColor := a.styles.Muted
	if focused {
		borderColor = a.styles.Accent
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(0, 1).
		Width(contentWidth + 4).
		Render(inputView)
}

// renderCentered centers the provided content within the given width/height box.
func renderCentered(width, height int, content string) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

func (a *App) renderMuted(text string) string {
	return a.styles.MutedText.Render(text)
}
