package activity

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pders01/ghscout/internal/config"
	"github.com/pders01/ghscout/internal/debuglog"
	"github.com/pders01/ghscout/internal/validation"
)

// maxFeedBytes caps how much of a feed body is read.
const maxFeedBytes = 2 << 20

// Fetcher downloads public activity feeds from the GitHub web host.
type Fetcher struct {
	client    *http.Client
	webURL    string
	userAgent string
	parser    *Parser
}

func NewFetcher(cfg *config.Config) *Fetcher {
	webURL := cfg.API.WebURL
	if !strings.HasSuffix(webURL, "/") {
		webURL += "/"
	}
	return &Fetcher{
		client: &http.Client{
			Timeout: cfg.API.HTTPTimeout,
		},
		webURL:    webURL,
		userAgent: cfg.API.UserAgent,
		parser:    NewParser(),
	}
}

// FeedURL is where the public activity of login is published.
func (f *Fetcher) FeedURL(login string) string {
	return f.webURL + login + ".atom"
}

// Fetch downloads and parses the activity feed of login.
func (f *Fetcher) Fetch(ctx context.Context, login string) ([]Event, error) {
	login, err := validation.ValidateLogin(login)
	if err != nil {
		return nil, fmt.Errorf("fetching activity: %w", err)
	}

	feedURL := f.FeedURL(login)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/atom+xml, application/xml, text/xml")

	debuglog.WithFields(debuglog.Fields{"login": login}).Debugf("GET %s", feedURL)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching activity: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("HTTP error: %d", resp.StatusCode)
	}

	events, err := f.parser.Parse(io.LimitReader(resp.Body, maxFeedBytes))
	if err != nil {
		return nil, err
	}
	debuglog.Infof("activity feed for %s: %d events", login, len(events))
	return events, nil
}
