package explorer

import (
	"context"

	"github.com/pders01/ghscout/internal/gateway"
)

// Perform executes a single request against f and applies the outcome to s.
// It returns the follow-up request, if the cycle needs one.
func Perform(ctx context.Context, f gateway.Fetcher, s *Session, req Request) (Request, bool) {
	switch req.Step {
	case StepProfile:
		profile, err := f.FetchProfile(ctx, req.Login)
		return s.ProfileLoaded(req.ID, profile, err)
	case StepRepos:
		repos, err := f.FetchRepoPage(ctx, req.Login, req.Page, PageSize)
		s.ReposLoaded(req.ID, repos, err)
	}
	return Request{}, false
}

// RunCycle drives req and its follow-ups to completion, one after the
// other. Any failure comes back as ErrLookupFailed.
func RunCycle(ctx context.Context, f gateway.Fetcher, s *Session, req Request) error {
	for {
		next, ok := Perform(ctx, f, s, req)
		if !ok {
			break
		}
		req = next
	}
	if s.State() == StateError {
		return ErrLookupFailed
	}
	return nil
}

// Lookup runs one complete cycle for login at page on a fresh session.
// An empty login starts nothing and returns an idle session.
func Lookup(ctx context.Context, f gateway.Fetcher, login string, page int) (*Session, error) {
	s := NewSession()
	s.SetQuery(login)
	s.SetPage(page)
	req, ok := s.Settle(login)
	if !ok {
		return s, nil
	}
	return s, RunCycle(ctx, f, s, req)
}
