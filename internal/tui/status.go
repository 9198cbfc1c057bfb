package tui

import "fmt"

// StatusKind indicates severity for status messages.
type StatusKind int

const (
	StatusInfo StatusKind = iota
	StatusSuccess
	StatusWarn
	StatusError
)

// Canonical short status messages used across the app.
const (
	MsgLoading         = "Loading…"
	MsgLoadingActivity = "Loading activity…"
	MsgNothingToOpen   = "Nothing to open"
	MsgNoProfile       = "Look up a user first"
	MsgDarkTheme       = "Dark theme"
	MsgLightTheme      = "Light theme"
)

func MsgOpened(link string) string {
	return fmt.Sprintf("Opened %s", link)
}

func MsgActivityCount(login string, n int) string {
	if n == 1 {
		return fmt.Sprintf("1 event for %s", login)
	}
	return fmt.Sprintf("%d events for %s", n, login)
}
