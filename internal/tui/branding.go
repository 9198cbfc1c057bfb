package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

const AppName = "ghscout"

const Tagline = "GitHub User Explorer"

// LogoLines is the canonical ASCII logo.
var LogoLines = []string{
	"       __                         __ ",
	"  ___ / /  ___ _______ __ __ __  / /_",
	" / _ `/ _ \\(_-</ __/ _ \\/ // / / __/",
	" \\_, /_//_/___/\\__/\\___/\\_,_/  \\__/ ",
	"/___/                                ",
}

const CompactLogo = `ghscout ›`

// BannerColors follow the default dark palette.
var BannerColors = []lipgloss.Color{
	lipgloss.Color("#FF6B6B"),
	lipgloss.Color("#FFA86B"),
	lipgloss.Color("#95E1D3"),
	lipgloss.Color("#4ECDC4"),
	lipgloss.Color("#FF6B6B"),
}

// GetCompactBanner renders the logo above message, for the idle screen.
func GetCompactBanner(s Styles, message string) string {
	coloredLines := make([]string, 0, len(LogoLines))
	for _, line := range LogoLines {
		coloredLines = append(coloredLines, s.Logo.Render(line))
	}

	logo := lipgloss.JoinVertical(lipgloss.Center, coloredLines...)

	return lipgloss.JoinVertical(
		lipgloss.Center,
		logo,
		"",
		s.Help.Render(message),
	)
}

// BannerString renders the startup banner shown outside the alt screen.
func BannerString(version string) string {
	lines := make([]string, len(LogoLines)+1)
	copy(lines, LogoLines)

	versionTag := version
	if versionTag != "" && versionTag != "dev" {
		if versionTag[0] != 'v' && versionTag[0] != 'V' {
			versionTag = "v" + versionTag
		}
		lines = append(lines, fmt.Sprintf("    %s %s", Tagline, versionTag))
	} else {
		lines = append(lines, "    "+Tagline)
	}

	var coloredLines []string
	for i, line := range lines {
		if line == "" {
			coloredLines = append(coloredLines, line)
			continue
		}
		style := lipgloss.NewStyle().
			Foreground(BannerColors[i%len(BannerColors)]).
			Bold(i < len(LogoLines))
		coloredLines = append(coloredLines, style.Render(line))
	}

	borderChars := lipgloss.Border{
		Top:         "═",
		Bottom:      "═",
		Left:        "║",
		Right:       "║",
		TopLeft:     "╔",
		TopRight:    "╗",
		BottomLeft:  "╚",
		BottomRight: "╝",
	}

	borderStyle := lipgloss.NewStyle().
		Border(borderChars).
		BorderForeground(lipgloss.Color("#4ECDC4")).
		Padding(1, 3).
		MarginTop(1)

	banner := borderStyle.Render(lipgloss.JoinVertical(lipgloss.Center, coloredLines...))

	separator := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#95E1D3")).
		Render("◆ ◇ ◆ ◇ ◆")

	centered := lipgloss.NewStyle().Width(70).Align(lipgloss.Center)
	return lipgloss.JoinVertical(
		lipgloss.Left,
		centered.Render(banner),
		centered.MarginBottom(1).Render(separator),
	)
}

func ShowBanner(version string) {
	fmt.Println(BannerString(version))
}
