package activity

import (
	"fmt"
	"strings"
)

// DefaultLimit is how many events the activity pane lists.
const DefaultLimit = 15

// Markdown formats up to limit events as a markdown document for glamour.
func Markdown(login string, events []Event, limit int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Recent activity of %s\n\n", login)

	if len(events) == 0 {
		b.WriteString("_No public activity._\n")
		return b.String()
	}
	if limit <= 0 || limit > len(events) {
		limit = len(events)
	}

	for _, ev := range events[:limit] {
		title := escape(ev.Title)
		if title == "" {
			title = "(untitled)"
		}
		if ev.Link != "" {
			fmt.Fprintf(&b, "- [%s](%s)", title, ev.Link)
		} else {
			fmt.Fprintf(&b, "- %s", title)
		}
		if !ev.Published.IsZero() {
			fmt.Fprintf(&b, " · %s", ev.Published.UTC().Format("2006-01-02 15:04"))
		}
		b.WriteString("\n")
	}

	if rest := len(events) - limit; rest > 0 {
		fmt.Fprintf(&b, "\n_and %d more_\n", rest)
	}
	return b.String()
}

var mdEscaper = strings.NewReplacer(`[`, `\[`, `]`, `\]`, `*`, `\*`, `_`, `\_`)

func escape(s string) string {
	return mdEscaper.Replace(s)
}
