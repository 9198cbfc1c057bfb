// Package explorer holds the lookup session: the query being typed, the
// settled query, the current page, and the result of the latest fetch
// cycle. All state changes go through Session methods so the transitions
// Idle -> FetchingProfile -> FetchingRepos -> Done/Failed can be tested
// without a terminal or a network.
package explorer

import (
	"errors"

	"github.com/pders01/ghscout/internal/gateway"
)

// PageSize is the number of repositories requested per page.
const PageSize = 5

// ErrorMessage is the only error text a user ever sees for a lookup.
const ErrorMessage = "User not found or API error"

// ErrLookupFailed is returned by RunCycle for every failure cause.
var ErrLookupFailed = errors.New(ErrorMessage)

// Phase is a step of the fetch cycle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseFetchingProfile
	PhaseFetchingRepos
	PhaseDone
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseFetchingProfile:
		return "fetching-profile"
	case PhaseFetchingRepos:
		return "fetching-repos"
	case PhaseDone:
		return "done"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// FetchState is what the renderer keys off.
type FetchState int

const (
	StateIdle FetchState = iota
	StateLoading
	StateSuccess
	StateError
)

func (s FetchState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateSuccess:
		return "success"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Step names the request a cycle needs next.
type Step int

const (
	StepProfile Step = iota
	StepRepos
)

// Request is one network call the caller must perform and report back
// with ProfileLoaded or ReposLoaded.
type Request struct {
	ID    uint64
	Step  Step
	Login string
	Page  int
}

// Session is the single state container for a lookup session.
type Session struct {
	query       string
	stableQuery string
	page        int

	phase     Phase
	requestID uint64

	profile    *gateway.Profile
	repos      []gateway.Repository
	totalRepos int
	errMsg     string

	dark bool
}

// NewSession returns an idle session on page 1.
func NewSession() *Session {
	return &Session{page: 1}
}

func (s *Session) Query() string { return s.query }
func (s *Session) StableQuery() string { return s.stableQuery }
func (s *Session) Page() int { return s.page }
func (s *Session) Phase() Phase { return s.phase }
func (s *Session) RequestID() uint64 { return s.requestID }
func (s *Session) Profile() *gateway.Profile { return s.profile }
func (s *Session) Repos() []gateway.Repository { return s.repos }
func (s *Session) TotalRepos() int { return s.totalRepos }
func (s *Session) ErrorText() string { return s.errMsg }
func (s *Session) Dark() bool { return s.dark }
func (s *Session) InFlight() bool { return s.State() == StateLoading }
func (s *Session) HasPrev() bool { return s.page > 1 }
func (s *Session) HasNext() bool { return s.page*PageSize < s.totalRepos }
func (s *Session) HasResults() bool { return len(s.repos) > 0 }

// State maps the cycle phase onto the four render states.
func (s *Session) State() FetchState {
	switch s.phase {
	case PhaseFetchingProfile, PhaseFetchingRepos:
		return StateLoading
	case PhaseDone:
		return StateSuccess
	case PhaseFailed:
		return StateError
	default:
		return StateIdle
	}
}

// SetQuery records a keystroke. Every query change resets the page to 1;
// if that moved the page while a settled query exists, a new cycle starts
// for the settled query.
func (s *Session) SetQuery(q string) (Request, bool) {
	if q == s.query {
		return Request{}, false
	}
	s.query = q
	return s.setPage(1)
}

// Settle records the debounced query. An empty value clears every result
// and starts nothing; an unchanged value is ignored.
func (s *Session) Settle(stable string) (Request, bool) {
	if stable == s.stableQuery {
		return Request{}, false
	}
	s.stableQuery = stable
	if stable == "" {
		s.clear()
		return Request{}, false
	}
	return s.begin(), true
}

// NextPage advances one page when HasNext allows it.
func (s *Session) NextPage() (Request, bool) {
	if !s.HasNext() {
		return Request{}, false
	}
	return s.setPage(s.page + 1)
}

// PrevPage goes back one page when HasPrev allows it.
func (s *Session) PrevPage() (Request, bool) {
	if !s.HasPrev() {
		return Request{}, false
	}
	return s.setPage(s.page - 1)
}

// SetPage jumps to n, clamped to at least 1.
func (s *Session) SetPage(n int) (Request, bool) {
	if n < 1 {
		n = 1
	}
	return s.setPage(n)
}

func (s *Session) setPage(n int) (Request, bool) {
	if n == s.page {
		return Request{}, false
	}
	s.page = n
	if s.stableQuery == "" {
		return Request{}, false
	}
	return s.begin(), true
}

// begin opens a new cycle. Responses tagged with older ids are dropped.
func (s *Session) begin() Request {
	s.requestID++
	s.phase = PhaseFetchingProfile
	s.profile = nil
	s.repos = nil
	s.errMsg = ""
	return Request{ID: s.requestID, Step: StepProfile, Login: s.stableQuery, Page: s.page}
}

func (s *Session) clear() {
	s.requestID++
	s.phase = PhaseIdle
	s.profile = nil
	s.repos = nil
	s.totalRepos = 0
	s.errMsg = ""
}

// Current reports whether id belongs to the cycle in progress.
func (s *Session) Current(id uint64) bool {
	return id == s.requestID
}

// ProfileLoaded applies the outcome of the profile step. On success it
// returns the repository request that completes the cycle.
func (s *Session) ProfileLoaded(id uint64, profile *gateway.Profile, err error) (Request, bool) {
	if !s.Current(id) || s.phase != PhaseFetchingProfile {
		return Request{}, false
	}
	if err != nil || profile == nil {
		s.fail()
		return Request{}, false
	}
	s.profile = profile
	s.totalRepos = profile.PublicRepos
	s.phase = PhaseFetchingRepos
	return Request{ID: id, Step: StepRepos, Login: s.stableQuery, Page: s.page}, true
}

// ReposLoaded applies the outcome of the repository step. A failure keeps
// the profile that was already loaded in this cycle.
func (s *Session) ReposLoaded(id uint64, repos []gateway.Repository, err error) bool {
	if !s.Current(id) || s.phase != PhaseFetchingRepos {
		return false
	}
	if err != nil {
		s.fail()
		return true
	}
	s.repos = repos
	s.phase = PhaseDone
	return true
}

func (s *Session) fail() {
	s.phase = PhaseFailed
	s.repos = nil
	s.errMsg = ErrorMessage
}

// ToggleTheme flips dark mode. Nothing else changes.
func (s *Session) ToggleTheme() bool {
	s.dark = !s.dark
	return s.dark
}

// SetDark sets the starting theme.
func (s *Session) SetDark(dark bool) {
	s.dark = dark
}
