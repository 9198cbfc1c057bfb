package tui

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/ghscout/internal/activity"
	"github.com/pders01/ghscout/internal/config"
	"github.com/pders01/ghscout/internal/explorer"
	"github.com/pders01/ghscout/internal/gateway"
	"github.com/pders01/ghscout/internal/theme"
)

type stubFetcher struct {
	profiles map[string]*gateway.Profile
	repos    map[string][]gateway.Repository
	reposErr error
}

func (f *stubFetcher) FetchProfile(_ context.Context, login string) (*gateway.Profile, error) {
	p, ok := f.profiles[login]
	if !ok {
		return nil, errors.New("404 Not Found")
	}
	cp := *p
	return &cp, nil
}

func (f *stubFetcher) FetchRepoPage(_ context.Context, login string, page, perPage int) ([]gateway.Repository, error) {
	if f.reposErr != nil {
		return nil, f.reposErr
	}
	all := f.repos[login]
	start := (page - 1) * perPage
	if start >= len(all) {
		return nil, nil
	}
	return all[start:min(start+perPage, len(all))], nil
}

type stubOpener struct {
	links []string
	err   error
}

func (o *stubOpener) Open(link string) error {
	o.links = append(o.links, link)
	return o.err
}

type stubActivity struct {
	events []activity.Event
	err    error
}

func (s *stubActivity) Fetch(_ context.Context, _ string) ([]activity.Event, error) {
	return s.events, s.err
}

func testStyles(dark bool) Styles {
	reg, err := theme.NewRegistry()
	if err != nil {
		panic(err)
	}
	return NewStyles(reg.Palette(theme.DefaultName, dark), dark)
}

func octocatStub() *stubFetcher {
	repos := make([]gateway.Repository, 8)
	for i := range repos {
		repos[i] = gateway.Repository{
			ID:              int64(i + 1),
			Name:            fmt.Sprintf("repo-%d", i+1),
			HTMLURL:         fmt.Sprintf("https://github.com/octocat/repo-%d", i+1),
			Description:     fmt.Sprintf("desc %d", i+1),
			StargazersCount: 100 - i,
		}
	}
	repos[1].Description = ""
	return &stubFetcher{
		profiles: map[string]*gateway.Profile{
			"octocat": {
				Login:       "octocat",
				Name:        "The Octocat",
				HTMLURL:     "https://github.com/octocat",
				Location:    "San Francisco",
				Followers:   1200,
				PublicRepos: 8,
			},
		},
		repos: map[string][]gateway.Repository{"octocat": repos},
	}
}

type testApp struct {
	*App
	fetcher  *stubFetcher
	opener   *stubOpener
	activity *stubActivity
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	cfg := config.TestConfig()
	f := octocatStub()
	app := NewApp(cfg, f)

	op := &stubOpener{}
	act := &stubActivity{}
	app.opener = op
	app.activity = act
	app.Update(tea.WindowSizeMsg{Width: 100, Height: 60})

	return &testApp{App: app, fetcher: f, opener: op, activity: act}
}

func (ta *testApp) typeText(s string) {
	for _, r := range s {
		ta.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func (ta *testApp) fireDebounce() {
	ta.Update(debounceFireMsg{seq: ta.searchSeq})
}

// runCycle performs the request the session is waiting on, then its
// follow-up, feeding both results back through Update.
func (ta *testApp) runCycle() {
	s := ta.session
	req := explorer.Request{ID: s.RequestID(), Step: explorer.StepProfile, Login: s.StableQuery(), Page: s.Page()}
	_, cmd := ta.Update(ta.fetchProfile(req)())
	if cmd != nil {
		ta.Update(cmd())
	}
}

func (ta *testApp) lookup(login string) {
	ta.typeText(login)
	ta.fireDebounce()
	ta.runCycle()
}

func (ta *testApp) press(k tea.KeyType) tea.Cmd {
	_, cmd := ta.Update(tea.KeyMsg{Type: k})
	return cmd
}

// collect runs cmd and any batched children and returns their messages.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func TestNewApp(t *testing.T) {
	ta := newTestApp(t)

	assert.Equal(t, ViewSearch, ta.view)
	assert.Equal(t, -1, ta.selected)
	assert.True(t, ta.searchInput.Focused())
	assert.Equal(t, explorer.StateIdle, ta.Session().State())
	assert.False(t, ta.styles.Dark)
	assert.Contains(t, ta.View(), idleMessage)
}

func TestNewApp_DarkModeFromConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg := config.TestConfig()
	cfg.UI.DarkMode = true
	app := NewApp(cfg, octocatStub())

	assert.True(t, app.Session().Dark())
	assert.True(t, app.styles.Dark)
}

func TestTyping_OnlyLatestTicketSettles(t *testing.T) {
	ta := newTestApp(t)
	ta.typeText("oct")

	assert.Equal(t, "oct", ta.session.Query())
	assert.Equal(t, "", ta.session.StableQuery())
	assert.Equal(t, uint64(3), ta.searchSeq)

	ta.Update(debounceFireMsg{seq: 1})
	ta.Update(debounceFireMsg{seq: 2})
	assert.Equal(t, "", ta.session.StableQuery(), "superseded tickets must not settle")
	assert.Equal(t, explorer.StateIdle, ta.session.State())

	ta.fireDebounce()
	assert.Equal(t, "oct", ta.session.StableQuery())
	assert.Equal(t, explorer.StateLoading, ta.session.State())

	ta.fireDebounce()
	assert.Equal(t, uint64(1), ta.session.RequestID(), "a ticket fires once")
}

func TestTyping_ReturnsDebounceCommand(t *testing.T) {
	ta := newTestApp(t)
	cmd := ta.queryChanged("octocat")
	require.NotNil(t, cmd)
	assert.Nil(t, ta.queryChanged("octocat"), "unchanged value")
}

func TestTyping_WhitespaceIsAChange(t *testing.T) {
	ta := newTestApp(t)
	ta.lookup("octocat")
	ta.press(tea.KeyCtrlN)
	ta.runCycle()
	require.Equal(t, 2, ta.session.Page())
	seq := ta.searchSeq

	ta.typeText(" ")
	assert.Equal(t, "octocat ", ta.session.Query())
	assert.Equal(t, 1, ta.session.Page(), "any query edit resets the page")
	assert.Greater(t, ta.searchSeq, seq, "debounce restarted")
	ta.runCycle()

	id := ta.session.RequestID()
	ta.fireDebounce()
	assert.Equal(t, "octocat", ta.session.StableQuery(), "settled value is trimmed")
	assert.Equal(t, id, ta.session.RequestID(), "trimmed value matches the settled query")
}

func TestLookup_FirstPage(t *testing.T) {
	ta := newTestApp(t)
	ta.lookup("octocat")

	s := ta.session
	require.Equal(t, explorer.StateSuccess, s.State())
	assert.Len(t, s.Repos(), explorer.PageSize)
	assert.False(t, s.HasPrev())
	assert.True(t, s.HasNext())

	view := ta.View()
	assert.Contains(t, view, "The Octocat")
	assert.Contains(t, view, "@octocat")
	assert.Contains(t, view, "1.2k followers")
	assert.Contains(t, view, "Repositories (Page 1)")
	assert.Contains(t, view, "repo-1")
	assert.Contains(t, view, "repo-5")
	assert.NotContains(t, view, "repo-6")
	assert.Contains(t, view, noDesc)
	assert.Contains(t, view, "Page 1 of 2")
	assert.Contains(t, view, "Next ›")
	assert.NotContains(t, view, MsgLoading)
	assert.NotContains(t, view, explorer.ErrorMessage)
}

func TestLookup_Paging(t *testing.T) {
	ta := newTestApp(t)
	ta.lookup("octocat")

	cmd := ta.press(tea.KeyCtrlN)
	require.NotNil(t, cmd)
	assert.Equal(t, 2, ta.session.Page())
	assert.Equal(t, explorer.StateLoading, ta.session.State())
	assert.Contains(t, ta.View(), MsgLoading)

	ta.runCycle()
	assert.Len(t, ta.session.Repos(), 3)
	assert.True(t, ta.session.HasPrev())
	assert.False(t, ta.session.HasNext())

	view := ta.View()
	assert.Contains(t, view, "Repositories (Page 2)")
	assert.Contains(t, view, "repo-6")
	assert.Contains(t, view, "Page 2 of 2")

	assert.Nil(t, ta.press(tea.KeyCtrlN), "no page past the last one")
	assert.Equal(t, 2, ta.session.Page())

	require.NotNil(t, ta.press(tea.KeyCtrlP))
	assert.Equal(t, 1, ta.session.Page())
	ta.runCycle()
	assert.Nil(t, ta.press(tea.KeyCtrlP))
}

func TestLookup_UnknownUser(t *testing.T) {
	ta := newTestApp(t)
	ta.lookup("ghost")

	assert.Equal(t, explorer.StateError, ta.session.State())
	view := ta.View()
	assert.Contains(t, view, explorer.ErrorMessage)
	assert.NotContains(t, view, "Repositories (Page")
	assert.NotContains(t, view, "Next ›")
}

func TestLookup_RepoFailureKeepsProfile(t *testing.T) {
	ta := newTestApp(t)
	ta.fetcher.reposErr = errors.New("boom")
	ta.lookup("octocat")

	view := ta.View()
	assert.Contains(t, view, explorer.ErrorMessage)
	assert.Contains(t, view, "The Octocat")
	assert.NotContains(t, view, "Repositories (Page")
}

func TestEscClearsQuery(t *testing.T) {
	ta := newTestApp(t)
	ta.lookup("octocat")

	assert.Nil(t, ta.press(tea.KeyEsc))
	assert.Equal(t, "", ta.searchInput.Value())
	assert.Equal(t, "", ta.session.Query())
	assert.Equal(t, "", ta.session.StableQuery())
	assert.Equal(t, explorer.StateIdle, ta.session.State())
	assert.Nil(t, ta.session.Profile())
	assert.Contains(t, ta.View(), idleMessage)
}

func TestEscCancelsPendingQuery(t *testing.T) {
	ta := newTestApp(t)
	ta.typeText("octocat")
	ta.press(tea.KeyEsc)

	ta.fireDebounce()
	assert.Equal(t, "", ta.session.StableQuery(), "cancelled ticket must not settle")
	assert.Equal(t, explorer.StateIdle, ta.session.State())
	assert.Equal(t, uint64(0), ta.session.RequestID(), "no cycle started")
}

func TestPagingKeysNeedVisibleControls(t *testing.T) {
	ta := newTestApp(t)
	ta.lookup("octocat")

	ta.typeText("zz")
	ta.fireDebounce()
	ta.runCycle()
	require.Equal(t, explorer.StateError, ta.session.State())
	require.True(t, ta.session.HasNext(), "total of the previous user is kept")
	require.NotContains(t, ta.View(), "Next ›")

	assert.Nil(t, ta.press(tea.KeyCtrlN))
	assert.Nil(t, ta.press(tea.KeyPgDown))
	assert.Equal(t, 1, ta.session.Page())
	assert.Equal(t, explorer.StateError, ta.session.State())
}

func TestPagingKeysIgnoredWhileLoading(t *testing.T) {
	ta := newTestApp(t)
	ta.lookup("octocat")
	ta.typeText("x")
	ta.fireDebounce()
	require.Equal(t, explorer.StateLoading, ta.session.State())
	id := ta.session.RequestID()

	assert.Nil(t, ta.press(tea.KeyCtrlN))
	assert.Equal(t, 1, ta.session.Page())
	assert.Equal(t, id, ta.session.RequestID())
}

func TestQueryChangeOnLaterPageRefetchesPageOne(t *testing.T) {
	ta := newTestApp(t)
	ta.lookup("octocat")
	ta.press(tea.KeyCtrlN)
	ta.runCycle()
	require.Equal(t, 2, ta.session.Page())

	ta.typeText("x")
	assert.Equal(t, 1, ta.session.Page())
	assert.Equal(t, explorer.StateLoading, ta.session.State(), "page moved while a settled query exists")
	ta.runCycle()
	assert.Equal(t, "repo-1", ta.session.Repos()[0].Name)
}

func TestStaleProfileIsIgnored(t *testing.T) {
	ta := newTestApp(t)
	ta.typeText("octo")
	ta.fireDebounce()
	oldID := ta.session.RequestID()

	ta.typeText("cat")
	ta.fireDebounce()
	require.Greater(t, ta.session.RequestID(), oldID)

	_, cmd := ta.Update(profileLoadedMsg{id: oldID, profile: &gateway.Profile{Login: "octo", PublicRepos: 3}})
	assert.Nil(t, cmd)
	assert.Nil(t, ta.session.Profile())
	assert.Equal(t, explorer.StateLoading, ta.session.State())

	ta.runCycle()
	assert.Equal(t, "octocat", ta.session.Profile().Login)
}

func TestToggleTheme(t *testing.T) {
	ta := newTestApp(t)
	ta.lookup("octocat")
	page, state, id := ta.session.Page(), ta.session.State(), ta.session.RequestID()

	assert.Nil(t, ta.press(tea.KeyCtrlT))
	assert.True(t, ta.session.Dark())
	assert.True(t, ta.styles.Dark)
	assert.Equal(t, MsgDarkTheme, ta.status)
	assert.Contains(t, ta.View(), "• dark")

	ta.press(tea.KeyCtrlT)
	assert.False(t, ta.styles.Dark)
	assert.Equal(t, MsgLightTheme, ta.status)

	assert.Equal(t, page, ta.session.Page())
	assert.Equal(t, state, ta.session.State())
	assert.Equal(t, id, ta.session.RequestID())
}

func TestSelectionAndOpen(t *testing.T) {
	ta := newTestApp(t)
	ta.lookup("octocat")

	ta.press(tea.KeyDown)
	ta.press(tea.KeyDown)
	assert.Equal(t, 1, ta.selected)

	for _, msg := range collect(ta.press(tea.KeyCtrlO)) {
		ta.Update(msg)
	}
	require.Len(t, ta.opener.links, 1)
	assert.Equal(t, "https://github.com/octocat/repo-2", ta.opener.links[0])
	assert.Equal(t, MsgOpened("https://github.com/octocat/repo-2"), ta.status)

	for i := 0; i < 5; i++ {
		ta.press(tea.KeyUp)
	}
	assert.Equal(t, -1, ta.selected)
	for _, msg := range collect(ta.press(tea.KeyCtrlO)) {
		ta.Update(msg)
	}
	assert.Equal(t, "https://github.com/octocat", ta.opener.links[1])

	for i := 0; i < 10; i++ {
		ta.press(tea.KeyDown)
	}
	assert.Equal(t, explorer.PageSize-1, ta.selected)
}

func TestOpen_Failures(t *testing.T) {
	ta := newTestApp(t)
	assert.Nil(t, ta.press(tea.KeyCtrlO))
	assert.Equal(t, MsgNothingToOpen, ta.status)

	ta.lookup("octocat")
	ta.opener.err = errors.New("no browser")
	for _, msg := range collect(ta.press(tea.KeyCtrlO)) {
		ta.Update(msg)
	}
	assert.Equal(t, StatusError, ta.statusKind)
	assert.Contains(t, ta.status, "no browser")
	assert.Equal(t, explorer.StateSuccess, ta.session.State(), "browser errors never touch the lookup")
}

func TestActivity(t *testing.T) {
	ta := newTestApp(t)

	assert.Nil(t, ta.press(tea.KeyCtrlA))
	assert.Equal(t, MsgNoProfile, ta.status)
	assert.Equal(t, ViewSearch, ta.view)

	ta.lookup("octocat")
	ta.activity.events = []activity.Event{{Title: "octocat starred a/b", Link: "https://github.com/a/b"}}

	cmd := ta.press(tea.KeyCtrlA)
	require.NotNil(t, cmd)
	assert.Equal(t, ViewActivity, ta.view)
	assert.True(t, ta.loadingActivity)
	assert.Contains(t, ta.View(), MsgLoadingActivity)

	var loaded bool
	for _, msg := range collect(cmd) {
		if m, ok := msg.(activityLoadedMsg); ok {
			loaded = true
			assert.Equal(t, 1, m.count)
			assert.Contains(t, m.markdown, "octocat starred a/b")
		}
		ta.Update(msg)
	}
	require.True(t, loaded)
	assert.False(t, ta.loadingActivity)
	assert.Equal(t, MsgActivityCount("octocat", 1), ta.status)
	assert.Contains(t, ta.View(), "activity of octocat")

	ta.press(tea.KeyCtrlT)
	assert.Equal(t, ViewActivity, ta.view)

	ta.press(tea.KeyEsc)
	assert.Equal(t, ViewSearch, ta.view)
	assert.True(t, ta.searchInput.Focused())
	assert.Equal(t, "octocat", ta.searchInput.Value(), "esc in the activity pane keeps the query")
}

func TestActivity_Error(t *testing.T) {
	ta := newTestApp(t)
	ta.lookup("octocat")
	ta.activity.err = errors.New("HTTP error: 404")

	for _, msg := range collect(ta.press(tea.KeyCtrlA)) {
		ta.Update(msg)
	}
	assert.Equal(t, ViewSearch, ta.view)
	assert.Equal(t, StatusError, ta.statusKind)
	assert.Contains(t, ta.status, "loading activity")
	assert.Equal(t, explorer.StateSuccess, ta.session.State())
}

func TestActivity_StaleResultIgnored(t *testing.T) {
	ta := newTestApp(t)
	ta.lookup("octocat")

	cmd := ta.press(tea.KeyCtrlA)
	ta.press(tea.KeyEsc)
	for _, msg := range collect(cmd) {
		ta.Update(msg)
	}
	assert.Equal(t, ViewSearch, ta.view)
	assert.Empty(t, ta.activityMarkdown)
}

func TestInitWithInitialQuery(t *testing.T) {
	ta := newTestApp(t)
	ta.SetInitialQuery(" octocat ")
	require.NotNil(t, ta.Init())

	assert.Equal(t, "octocat", ta.session.StableQuery())
	assert.Equal(t, explorer.StateLoading, ta.session.State())
	ta.runCycle()
	assert.Equal(t, explorer.StateSuccess, ta.session.State())
}

func TestSpinnerStopsWhenIdle(t *testing.T) {
	ta := newTestApp(t)
	_, cmd := ta.Update(spinner.TickMsg{})
	assert.Nil(t, cmd)
}

func TestRenderStats(t *testing.T) {
	ta := newTestApp(t)
	ta.lookup("octocat")
	assert.Contains(t, ta.renderStats(), "★ 490 on this page • median 98")
}

func TestDescription(t *testing.T) {
	ta := newTestApp(t)
	ta.config.UI.MaxDescriptionLength = 10

	assert.Equal(t, noDesc, ta.description(gateway.Repository{}))
	assert.Equal(t, noDesc, ta.description(gateway.Repository{Description: "  \n "}))
	assert.Equal(t, "short", ta.description(gateway.Repository{Description: "short"}))
	assert.Equal(t, "a long de…", ta.description(gateway.Repository{Description: "a long description"}))
}

func TestGridColumns(t *testing.T) {
	assert.Equal(t, 1, gridColumns(40))
	assert.Equal(t, 2, gridColumns(80))
	assert.Equal(t, 3, gridColumns(160))
}

func TestViewNames(t *testing.T) {
	assert.Equal(t, "search", ViewSearch.String())
	assert.Equal(t, "activity", ViewActivity.String())
}
