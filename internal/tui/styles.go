package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/ghscout/internal/theme"
)

// Styles is every lipgloss style the UI renders with, derived from one
// palette. Toggling the theme rebuilds it.
type Styles struct {
	Dark bool

	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Muted     lipgloss.Color

	Logo          lipgloss.Style
	Title         lipgloss.Style
	Header        lipgloss.Style
	Text          lipgloss.Style
	MutedText     lipgloss.Style
	Help          lipgloss.Style
	ErrorMessage  lipgloss.Style
	Separator     lipgloss.Style
	Card          lipgloss.Style
	SelectedCard  lipgloss.Style
	RepoName      lipgloss.Style
	ProfileName   lipgloss.Style
	Button        lipgloss.Style
	ButtonOff     lipgloss.Style
	Spinner       lipgloss.Style
	StatusInfo    lipgloss.Style
	StatusSuccess lipgloss.Style
	StatusWarn    lipgloss.Style
	StatusError   lipgloss.Style
}

func NewStyles(p theme.Palette, dark bool) Styles {
	primary := lipgloss.Color(p.Primary)
	secondary := lipgloss.Color(p.Secondary)
	accent := lipgloss.Color(p.Accent)
	muted := lipgloss.Color(p.Muted)
	text := lipgloss.Color(p.Text)
	surface := lipgloss.Color(p.Surface)
	background := lipgloss.Color(p.Background)
	errColor := lipgloss.Color(p.Error)

	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(muted).
		Padding(0, 1)

	return Styles{
		Dark:      dark,
		Primary:   primary,
		Secondary: secondary,
		Accent:    accent,
		Muted:     muted,

		Logo: lipgloss.NewStyle().
			Foreground(primary).
			Bold(true),
		Title: lipgloss.NewStyle().
			Foreground(text).
			Background(surface).
			Bold(true).
			Padding(0, 2),
		Header: lipgloss.NewStyle().
			Foreground(secondary).
			Bold(true),
		Text: lipgloss.NewStyle().
			Foreground(text),
		MutedText: lipgloss.NewStyle().
			Foreground(muted),
		Help: lipgloss.NewStyle().
			Foreground(muted).
			Italic(true),
		ErrorMessage: lipgloss.NewStyle().
			Foreground(errColor).
			Bold(true),
		Separator: lipgloss.NewStyle().
			Foreground(muted),
		Card:         card,
		SelectedCard: card.BorderForeground(accent),
		RepoName: lipgloss.NewStyle().
			Foreground(secondary).
			Bold(true),
		ProfileName: lipgloss.NewStyle().
			Foreground(primary).
			Bold(true),
		Button: lipgloss.NewStyle().
			Foreground(background).
			Background(primary).
			Bold(true).
			Padding(0, 1),
		ButtonOff: lipgloss.NewStyle().
			Foreground(muted).
			Faint(true).
			Padding(0, 1),
		Spinner: lipgloss.NewStyle().
			Foreground(accent),
		StatusInfo: lipgloss.NewStyle().
			Foreground(muted),
		StatusSuccess: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Success)),
		StatusWarn: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Warn)),
		StatusError: lipgloss.NewStyle().
			Foreground(errColor).
			Bold(true),
	}
}

// StatusStyle picks the style for a status message of kind k.
func (s Styles) StatusStyle(k StatusKind) lipgloss.Style {
	switch k {
	case StatusSuccess:
		return s.StatusSuccess
	case StatusWarn:
		return s.StatusWarn
	case StatusError:
		return s.StatusError
	default:
		return s.StatusInfo
	}
}

// GlamourStyle names the glamour standard style matching the palette.
func (s Styles) GlamourStyle() string {
	if s.Dark {
		return "dark"
	}
	return "light"
}
