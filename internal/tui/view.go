package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/montanaflynn/stats"

	"github.com/pders01/ghscout/internal/explorer"
	"github.com/pders01/ghscout/internal/gateway"
)

const (
	idleMessage  = "Type a GitHub username to explore"
	noDesc       = "No description"
	maxCardWidth = 72
)

func (a *App) View() string {
	var content string
	switch a.view {
	case ViewActivity:
		content = a.activityView()
	default:
		content = a.searchView()
	}

	separator := a.styles.Separator.Render(strings.Repeat("─", max(a.width-1, 0)))
	return lipgloss.JoinVertical(lipgloss.Top, content, separator, a.statusBar())
}

func (a *App) searchView() string {
	mode := "light"
	if a.session.Dark() {
		mode = "dark"
	}
	header := a.renderHeader("› "+AppName, Tagline+" • "+mode)
	input := a.renderInputFrame(a.searchInput.View(), a.searchInput.Focused(), a.searchInput.Width)

	content := lipgloss.JoinVertical(lipgloss.Top, header, "", input, "", a.renderBody())
	return lipgloss.NewStyle().
		Width(a.width).
		Height(a.height - 2).
		MaxHeight(a.height - 2).
		Render(content)
}

// renderBody draws each section only in the state that owns it. A failed
// repository step still shows the profile of the same cycle.
func (a *App) renderBody() string {
	s := a.session
	var sections []string

	switch s.State() {
	case explorer.StateLoading:
		sections = append(sections, a.spinner.View()+" "+a.renderMuted(MsgLoading))
	case explorer.StateError:
		sections = append(sections, a.styles.ErrorMessage.Render("✗ "+s.ErrorText()))
	}

	if p := s.Profile(); p != nil {
		sections = append(sections, a.renderProfile(p))
	}

	if s.HasResults() {
		sections = append(sections,
			"",
			a.renderRepoGrid(),
			a.renderStats(),
			a.renderPagination(),
		)
	}

	if len(sections) == 0 {
		return renderCentered(a.width, max(a.height-10, 1), GetCompactBanner(a.styles, idleMessage))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (a *App) renderProfile(p *gateway.Profile) string {
	width := min(a.width-4, maxCardWidth)
	inner := max(width-4, 10)

	lines := []string{
		a.styles.ProfileName.Render(p.DisplayName()) + " " + a.renderMuted("@"+p.Login),
	}
	if p.Bio != "" {
		lines = append(lines, a.styles.Text.Render(truncateEnd(singleLine(p.Bio), inner)))
	}

	meta := []string{
		formatCount(p.Followers) + " followers",
		formatCount(p.PublicRepos) + " public repos",
	}
	if p.Location != "" {
		meta = append([]string{p.Location}, meta...)
	}
	lines = append(lines, a.renderMuted(strings.Join(meta, " • ")))
	if p.HTMLURL != "" {
		lines = append(lines, a.renderMuted(truncateMiddle(p.HTMLURL, inner)))
	}

	style := a.styles.Card
	if a.selected < 0 {
		style = a.styles.SelectedCard
	}
	return style.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// gridColumns picks how many repository cards fit side by side.
func gridColumns(width int) int {
	switch {
	case width >= 120:
		return 3
	case width >= 80:
		return 2
	default:
		return 1
	}
}

func (a *App) renderRepoGrid() string {
	repos := a.session.Repos()
	cols := gridColumns(a.width)
	cardWidth := max((a.width-2)/cols-2, 20)

	cards := make([]string, len(repos))
	for i, r := range repos {
		cards[i] = a.renderRepoCard(r, i == a.selected, cardWidth)
	}

	rows := []string{a.styles.Header.Render(fmt.Sprintf("Repositories (Page %d)", a.session.Page()))}
	for i := 0; i < len(cards); i += cols {
		end := min(i+cols, len(cards))
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards[i:end]...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (a *App) renderRepoCard(r gateway.Repository, selected bool, width int) string {
	text := a.description(r)
	desc := a.styles.Text.Render(text)
	if text == noDesc {
		desc = a.renderMuted(text)
	}

	meta := fmt.Sprintf("★ %s  ⑂ %s", formatCount(r.StargazersCount), formatCount(r.ForksCount))
	if r.Language != "" {
		meta += "  " + r.Language
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		a.styles.RepoName.Render(truncateEnd(r.Name, width-2)),
		desc,
		a.renderMuted(meta),
	)

	style := a.styles.Card
	if selected {
		style = a.styles.SelectedCard
	}
	return style.Width(width).Render(body)
}

// description is the card text for r, or the placeholder when it has none.
func (a *App) description(r gateway.Repository) string {
	desc := singleLine(r.Description)
	if desc == "" {
		return noDesc
	}
	if limit := a.config.UI.MaxDescriptionLength; limit > 0 {
		desc = truncateEnd(desc, limit)
	}
	return desc
}

// renderStats summarizes the stars on the current page.
func (a *App) renderStats() string {
	repos := a.session.Repos()
	data := make(stats.Float64Data, 0, len(repos))
	for _, r := range repos {
		data = append(data, float64(r.StargazersCount))
	}

	sum, err := data.Sum()
	if err != nil {
		return ""
	}
	median, err := data.Median()
	if err != nil {
		return ""
	}
	return a.renderMuted(fmt.Sprintf("★ %s on this page • median %s", formatCount(int(sum)), formatCount(int(median))))
}

func (a *App) pageCount() int {
	total := a.session.TotalRepos()
	return max((total+explorer.PageSize-1)/explorer.PageSize, 1)
}

func (a *App) renderPagination() string {
	prev := a.renderButton("‹ Prev", a.session.HasPrev())
	next := a.renderButton("Next ›", a.session.HasNext())
	pages := a.renderMuted(fmt.Sprintf("Page %d of %d", a.session.Page(), a.pageCount()))
	return lipgloss.JoinHorizontal(lipgloss.Center, prev, "  ", pages, "  ", next)
}

func (a *App) renderButton(label string, enabled bool) string {
	if enabled {
		return a.styles.Button.Render(label)
	}
	return a.styles.ButtonOff.Render(label)
}

func (a *App) activityView() string {
	header := a.renderHeader("› activity of "+a.activityLogin, "public events, newest first")

	var body string
	if a.loadingActivity {
		body = renderCentered(a.width, max(a.height-5, 1), a.spinner.View()+" "+a.renderMuted(MsgLoadingActivity))
	} else {
		body = a.viewport.View()
	}

	return lipgloss.NewStyle().
		Width(a.width).
		Height(a.height - 2).
		MaxHeight(a.height - 2).
		Render(lipgloss.JoinVertical(lipgloss.Top, header, body))
}

func (a *App) statusBar() string {
	bar := lipgloss.NewStyle().
		Width(a.width).
		Padding(0, 1)

	if a.status != "" {
		return bar.Render(a.styles.StatusStyle(a.statusKind).Render(a.status))
	}
	return bar.Render(a.help.View(a.keyHandler.HelpForCurrentView()))
}
