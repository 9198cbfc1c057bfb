package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/pders01/ghscout/internal/activity"
	"github.com/pders01/ghscout/internal/browser"
	"github.com/pders01/ghscout/internal/config"
	"github.com/pders01/ghscout/internal/debounce"
	"github.com/pders01/ghscout/internal/debuglog"
	"github.com/pders01/ghscout/internal/explorer"
	"github.com/pders01/ghscout/internal/gateway"
	"github.com/pders01/ghscout/internal/theme"
)

// ActivitySource loads the public activity of a user.
type ActivitySource interface {
	Fetch(ctx context.Context, login string) ([]activity.Event, error)
}

// LinkOpener hands a link to the system browser.
type LinkOpener interface {
	Open(link string) error
}

type App struct {
	config     *config.Config
	session    *explorer.Session
	fetcher    gateway.Fetcher
	activity   ActivitySource
	opener     LinkOpener
	themes     *theme.Registry
	styles     Styles
	debouncer  *debounce.Debouncer
	keyHandler *KeyHandler

	searchInput textinput.Model
	spinner     spinner.Model
	viewport    viewport.Model
	help        help.Model

	view         View
	selected     int // index into the repo page, -1 selects the profile
	searchSeq    uint64
	initialQuery string

	activityLogin    string
	activityMarkdown string
	activitySeq      uint64
	loadingActivity  bool

	status     string
	statusKind StatusKind

	width           int
	height          int
	glamourRenderer *glamour.TermRenderer
	rendererWidth   int  // width the cached renderer wraps at
	rendererDark    bool // palette the cached renderer was built for
}

func NewApp(cfg *config.Config, fetcher gateway.Fetcher) *App {
	themes, err := theme.NewRegistry()
	if err != nil {
		debuglog.Warnf("loading themes: %v", err)
		themes, _ = theme.Parse(nil)
	}

	ti := textinput.New()
	ti.Placeholder = "Search GitHub username..."
	ti.Prompt = "› "
	ti.CharLimit = 64
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	session := explorer.NewSession()
	session.SetDark(cfg.UI.DarkMode)

	app := &App{
		config:      cfg,
		session:     session,
		fetcher:     fetcher,
		activity:    activity.NewFetcher(cfg),
		opener:      browser.NewOpener(cfg),
		themes:      themes,
		debouncer:   debounce.New(cfg.Search.Debounce),
		searchInput: ti,
		spinner:     sp,
		viewport:    viewport.New(0, 0),
		help:        help.New(),
		view:        ViewSearch,
		selected:    -1,
		width:       80,
		height:      24,
	}

	app.applyTheme()
	app.keyHandler = NewKeyHandler(app, cfg)

	return app
}

// SetInitialQuery pre-fills the search box. The lookup starts on Init
// without waiting for the debounce interval.
func (a *App) SetInitialQuery(q string) {
	a.initialQuery = q
	a.searchInput.SetValue(q)
	a.searchInput.CursorEnd()
}

// Session exposes the lookup state, mostly for tests and the CLI.
func (a *App) Session() *explorer.Session {
	return a.session
}

func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, tea.EnterAltScreen}
	if q := sanitizeQuery(a.initialQuery); q != "" {
		a.session.SetQuery(q)
		if req, ok := a.session.Settle(q); ok {
			cmds = append(cmds, a.startFetch(req))
		}
	}
	return tea.Batch(cmds...)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.viewport.Width = msg.Width
		a.viewport.Height = max(msg.Height-5, 3)
		a.help.Width = msg.Width

		inputWidth := msg.Width - 8
		if inputWidth < 10 {
			inputWidth = max(msg.Width-4, 1)
		}
		a.searchInput.Width = inputWidth
		return a, nil

	case tea.KeyMsg:
		return a.keyHandler.HandleKey(msg)

	case debounceFireMsg:
		return a, a.settle(msg.seq)

	case profileLoadedMsg:
		if msg.err != nil && a.session.Current(msg.id) {
			debuglog.WithFields(debuglog.Fields{"id": msg.id}).Warnf("profile step failed: %v", msg.err)
		}
		next, ok := a.session.ProfileLoaded(msg.id, msg.profile, msg.err)
		if ok {
			return a, a.fetchRepos(next)
		}
		return a, nil

	case reposLoadedMsg:
		if msg.err != nil && a.session.Current(msg.id) {
			debuglog.WithFields(debuglog.Fields{"id": msg.id}).Warnf("repository step failed: %v", msg.err)
		}
		if a.session.ReposLoaded(msg.id, msg.repos, msg.err) {
			debuglog.WithFields(debuglog.Fields{"id": msg.id}).Debugf("cycle finished: %s", a.session.State())
		}
		return a, nil

	case activityLoadedMsg:
		if msg.seq != a.activitySeq {
			return a, nil
		}
		a.loadingActivity = false
		if msg.err != nil {
			a.view = ViewSearch
			a.setStatus(msg.err.Error(), StatusError)
			return a, nil
		}
		a.activityMarkdown = msg.markdown
		a.viewport.SetContent(a.renderMarkdown(msg.markdown))
		a.viewport.GotoTop()
		a.setStatus(MsgActivityCount(msg.login, msg.count), StatusSuccess)
		return a, nil

	case linkOpenedMsg:
		a.setStatus(MsgOpened(msg.link), StatusSuccess)
		return a, nil

	case errorMsg:
		a.setStatus(msg.err.Error(), StatusError)
		return a, nil

	case spinner.TickMsg:
		if !a.session.InFlight() && !a.loadingActivity {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	var cmd tea.Cmd
	switch a.view {
	case ViewActivity:
		if _, ok := msg.(tea.MouseMsg); ok {
			a.viewport, cmd = a.viewport.Update(msg)
		}
	case ViewSearch:
		a.searchInput, cmd = a.searchInput.Update(msg)
	}
	return a, cmd
}

// queryChanged records a new search box value and restarts the debounce
// interval. Changing the query moves back to page 1, which may itself
// start a cycle for the settled query. The value is trimmed only once it
// settles, so whitespace edits count as changes.
func (a *App) queryChanged(q string) tea.Cmd {
	if q == a.session.Query() {
		return nil
	}

	var cmds []tea.Cmd
	if req, ok := a.session.SetQuery(q); ok {
		cmds = append(cmds, a.startFetch(req))
	}

	ticket := a.debouncer.Schedule(q)
	a.searchSeq = ticket.Seq
	wait := a.debouncer.Interval()
	cmds = append(cmds, tea.Tick(wait, func(time.Time) tea.Msg { return debounceFireMsg{seq: ticket.Seq} }))
	return tea.Batch(cmds...)
}

// settle promotes the pending query once its ticket fires.
func (a *App) settle(seq uint64) tea.Cmd {
	value, ok := a.debouncer.Fire(seq)
	if !ok {
		return nil
	}
	req, ok := a.session.Settle(sanitizeQuery(value))
	if !ok {
		if value == "" {
			a.selected = -1
		}
		return nil
	}
	return a.startFetch(req)
}

func (a *App) startFetch(req explorer.Request) tea.Cmd {
	a.selected = -1
	debuglog.WithFields(debuglog.Fields{"id": req.ID, "login": req.Login, "page": req.Page}).Infof("lookup started")
	return tea.Batch(a.spinner.Tick, a.fetchProfile(req))
}

// clearSearch empties the search box and drops the results at once,
// without waiting for the debounce interval.
func (a *App) clearSearch() {
	a.debouncer.Cancel()
	a.searchInput.Reset()
	a.session.Settle("")
	a.session.SetQuery("")
	a.selected = -1
}

// pagingEnabled reports whether the Prev/Next controls are on screen.
// Paging keys do nothing while they are hidden.
func (a *App) pagingEnabled() bool {
	return a.session.HasResults()
}

func (a *App) changePage(req explorer.Request, ok bool) tea.Cmd {
	if !ok {
		return nil
	}
	return a.startFetch(req)
}

// moveSelection walks the selection through profile and repo cards.
func (a *App) moveSelection(delta int) {
	n := len(a.session.Repos())
	a.selected = min(max(a.selected+delta, -1), n-1)
}

func (a *App) selectedLink() string {
	repos := a.session.Repos()
	if a.selected >= 0 && a.selected < len(repos) {
		return repos[a.selected].HTMLURL
	}
	if p := a.session.Profile(); p != nil {
		return p.HTMLURL
	}
	return ""
}

func (a *App) openSelected() tea.Cmd {
	link := a.selectedLink()
	if link == "" {
		a.setStatus(MsgNothingToOpen, StatusWarn)
		return nil
	}
	return a.openLink(link)
}

func (a *App) showActivity() tea.Cmd {
	p := a.session.Profile()
	if p == nil {
		a.setStatus(MsgNoProfile, StatusWarn)
		return nil
	}
	a.setStatus(MsgLoadingActivity, StatusInfo)
	return tea.Batch(a.spinner.Tick, a.loadActivity(p.Login))
}

func (a *App) closeActivity() {
	a.view = ViewSearch
	a.loadingActivity = false
	a.activitySeq++
	a.searchInput.Focus()
}

func (a *App) toggleTheme() {
	dark := a.session.ToggleTheme()
	a.applyTheme()
	if a.view == ViewActivity && a.activityMarkdown != "" && !a.loadingActivity {
		a.viewport.SetContent(a.renderMarkdown(a.activityMarkdown))
	}
	if dark {
		a.setStatus(MsgDarkTheme, StatusInfo)
	} else {
		a.setStatus(MsgLightTheme, StatusInfo)
	}
}

// applyTheme rebuilds every style from the palette the session selects.
func (a *App) applyTheme() {
	dark := a.session.Dark()
	a.styles = NewStyles(a.themes.Palette(a.config.UI.Theme, dark), dark)
	a.spinner.Style = a.styles.Spinner
	a.help.Styles.ShortKey = a.styles.Header
	a.help.Styles.ShortDesc = a.styles.MutedText
	a.help.Styles.ShortSeparator = a.styles.Separator
	a.searchInput.PromptStyle = a.styles.Header
}

func (a *App) setStatus(text string, kind StatusKind) {
	a.status = text
	a.statusKind = kind
}

func (a *App) clearStatus() {
	a.status = ""
	a.statusKind = StatusInfo
}

func (a *App) getRenderer() (*glamour.TermRenderer, error) {
	wordWrapWidth := (a.width * 9) / 10
	if wordWrapWidth > 120 {
		wordWrapWidth = 120
	}
	if wordWrapWidth < 40 {
		wordWrapWidth = 40
	}
	if a.width < 50 {
		wordWrapWidth = max(a.width-4, 20)
	}

	dark := a.styles.Dark
	if a.glamourRenderer == nil || abs(a.rendererWidth-wordWrapWidth) > 10 || a.rendererDark != dark {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(a.styles.GlamourStyle()),
			glamour.WithWordWrap(wordWrapWidth),
		)
		if err != nil {
			return nil, err
		}
		a.glamourRenderer = r
		a.rendererWidth = wordWrapWidth
		a.rendererDark = dark
	}

	return a.glamourRenderer, nil
}

// renderMarkdown falls back to the raw markdown when glamour fails.
func (a *App) renderMarkdown(md string) string {
	r, err := a.getRenderer()
	if err != nil {
		debuglog.Warnf("markdown renderer: %v", err)
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		debuglog.Warnf("rendering markdown: %v", err)
		return md
	}
	return out
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// sanitizeQuery trims a settled query. Inner characters are left for the
// login validator to judge.
func sanitizeQuery(input string) string {
	return strings.TrimSpace(input)
}

type debounceFireMsg struct {
	seq uint64
}

type profileLoadedMsg struct {
	id      uint64
	profile *gateway.Profile
	err     error
}

type reposLoadedMsg struct {
	id    uint64
	repos []gateway.Repository
	err   error
}

type activityLoadedMsg struct {
	seq      uint64
	login    string
	markdown string
	count    int
	err      error
}

type linkOpenedMsg struct {
	link string
}
