// Package gateway talks to the GitHub REST API and maps its responses onto
// the small profile and repository types the rest of the app uses.
package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"

	"github.com/pders01/ghscout/internal/config"
	"github.com/pders01/ghscout/internal/debuglog"
	"github.com/pders01/ghscout/internal/validation"
)

// RepoSort is the sort key sent with every repository page request.
const RepoSort = "stars"

// Fetcher defines the two lookups a fetch cycle performs.
type Fetcher interface {
	FetchProfile(ctx context.Context, login string) (*Profile, error)
	FetchRepoPage(ctx context.Context, login string, page, perPage int) ([]Repository, error)
}

// GitHubGateway is the go-github backed Fetcher.
type GitHubGateway struct {
	restClient *github.Client
}

// NewGitHubGateway builds a gateway from the api section of cfg. When a
// token is configured requests are authenticated through oauth2.
func NewGitHubGateway(cfg *config.Config) (*GitHubGateway, error) {
	httpClient := &http.Client{Timeout: cfg.API.HTTPTimeout}
	if cfg.API.Token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.API.Token})
		httpClient.Transport = &oauth2.Transport{
			Base:   http.DefaultTransport,
			Source: ts,
		}
	}

	restClient := github.NewClient(httpClient)
	if cfg.API.UserAgent != "" {
		restClient.UserAgent = cfg.API.UserAgent
	}

	if cfg.API.BaseURL != "" {
		baseURL, err := url.Parse(cfg.API.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("parsing api base url: %w", err)
		}
		if !strings.HasSuffix(baseURL.Path, "/") {
			baseURL.Path += "/"
		}
		restClient.BaseURL = baseURL
	}

	return &GitHubGateway{restClient: restClient}, nil
}

// FetchProfile requests GET /users/{login}.
func (g *GitHubGateway) FetchProfile(ctx context.Context, login string) (*Profile, error) {
	login, err := validation.ValidateLogin(login)
	if err != nil {
		return nil, fmt.Errorf("fetching profile: %w", err)
	}

	log := debuglog.WithFields(debuglog.Fields{"login": login})
	log.Debugf("GET users/%s", login)

	user, resp, err := g.restClient.Users.Get(ctx, login)
	if err != nil {
		log.Warnf("profile lookup failed: %v", err)
		return nil, fmt.Errorf("fetching profile %s: %w", login, err)
	}
	log.Debugf("profile lookup status %d", statusOf(resp))

	return &Profile{
		Login:       user.GetLogin(),
		Name:        user.GetName(),
		AvatarURL:   user.GetAvatarURL(),
		HTMLURL:     user.GetHTMLURL(),
		Bio:         user.GetBio(),
		Location:    user.GetLocation(),
		Followers:   user.GetFollowers(),
		PublicRepos: user.GetPublicRepos(),
	}, nil
}

// FetchRepoPage requests GET /users/{login}/repos?sort=stars&per_page=n&page=p.
// Order is whatever the API returns.
func (g *GitHubGateway) FetchRepoPage(ctx context.Context, login string, page, perPage int) ([]Repository, error) {
	login, err := validation.ValidateLogin(login)
	if err != nil {
		return nil, fmt.Errorf("fetching repositories: %w", err)
	}

	log := debuglog.WithFields(debuglog.Fields{"login": login, "page": page, "per_page": perPage})
	log.Debugf("GET users/%s/repos", login)

	opts := &github.RepositoryListByUserOptions{
		Sort:        RepoSort,
		ListOptions: github.ListOptions{Page: page, PerPage: perPage},
	}
	repos, resp, err := g.restClient.Repositories.ListByUser(ctx, login, opts)
	if err != nil {
		log.Warnf("repository page failed: %v", err)
		return nil, fmt.Errorf("fetching repositories of %s page %d: %w", login, page, err)
	}
	log.Debugf("repository page status %d, %d items", statusOf(resp), len(repos))

	out := make([]Repository, 0, len(repos))
	for _, r := range repos {
		out = append(out, Repository{
			ID:              r.GetID(),
			Name:            r.GetName(),
			HTMLURL:         r.GetHTMLURL(),
			Description:     r.GetDescription(),
			Language:        r.GetLanguage(),
			StargazersCount: r.GetStargazersCount(),
			ForksCount:      r.GetForksCount(),
		})
	}
	return out, nil
}

func statusOf(resp *github.Response) int {
	if resp == nil || resp.Response == nil {
		return 0
	}
	return resp.StatusCode
}
