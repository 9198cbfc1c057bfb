package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/ghscout/internal/activity"
	"github.com/pders01/ghscout/internal/explorer"
)

const fallbackTimeout = 30 * time.Second

func (a *App) requestTimeout() time.Duration {
	if a.config.API.HTTPTimeout > 0 {
		return a.config.API.HTTPTimeout
	}
	return fallbackTimeout
}

func (a *App) fetchProfile(req explorer.Request) tea.Cmd {
	fetcher := a.fetcher
	timeout := a.requestTimeout()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		profile, err := fetcher.FetchProfile(ctx, req.Login)
		return profileLoadedMsg{id: req.ID, profile: profile, err: err}
	}
}

func (a *App) fetchRepos(req explorer.Request) tea.Cmd {
	fetcher := a.fetcher
	timeout := a.requestTimeout()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		repos, err := fetcher.FetchRepoPage(ctx, req.Login, req.Page, explorer.PageSize)
		return reposLoadedMsg{id: req.ID, repos: repos, err: err}
	}
}

// loadActivity switches to the activity view and fetches the feed. A
// newer request or leaving the view makes the result stale.
func (a *App) loadActivity(login string) tea.Cmd {
	a.activitySeq++
	seq := a.activitySeq
	a.activityLogin = login
	a.activityMarkdown = ""
	a.loadingActivity = true
	a.view = ViewActivity
	a.searchInput.Blur()

	source := a.activity
	timeout := a.requestTimeout()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		events, err := source.Fetch(ctx, login)
		if err != nil {
			return activityLoadedMsg{seq: seq, login: login, err: wrapErr("loading activity", err)}
		}
		return activityLoadedMsg{
			seq:      seq,
			login:    login,
			markdown: activity.Markdown(login, events, activity.DefaultLimit),
			count:    len(events),
		}
	}
}

func (a *App) openLink(link string) tea.Cmd {
	opener := a.opener
	return func() tea.Msg {
		if err := opener.Open(link); err != nil {
			return errorMsg{err: wrapErr("open", err)}
		}
		return linkOpenedMsg{link: link}
	}
}
