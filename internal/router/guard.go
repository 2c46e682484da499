package router

import "github.com/medportal/portal/internal/session"

// LoginPath is where the guard sends anonymous visitors.
const LoginPath = "/login"

type Outcome int

const (
	// OutcomeLoading means the session is still being restored; show a
	// neutral placeholder and nothing else.
	OutcomeLoading Outcome = iota
	OutcomeRedirect
	OutcomeRender
)

func (o Outcome) String() string {
	switch o {
	case OutcomeLoading:
		return "loading"
	case OutcomeRedirect:
		return "redirect"
	case OutcomeRender:
		return "render"
	}
	return "unknown"
}

// Decision is what a protected screen does for the current session.
type Decision struct {
	Outcome  Outcome
	Redirect string
}

// Guard decides whether a protected screen renders. It checks authentication
// only; roles are not consulted.
func Guard(snap session.Snapshot) Decision {
	switch {
	case snap.Loading():
		return Decision{Outcome: OutcomeLoading}
	case !snap.IsAuthenticated():
		return Decision{Outcome: OutcomeRedirect, Redirect: LoginPath}
	default:
		return Decision{Outcome: OutcomeRender}
	}
}
