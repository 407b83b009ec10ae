package session

import "github.com/dmitrijs2005/leadsession/internal/client/models"

// State is the position of the session in its lifecycle.
type State int

const (
	StateUninitialized State = iota
	StateChecking
	StateAuthenticated
	StateUnauthenticated
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateChecking:
		return "checking"
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// Reason says why the session was cleared.
type Reason string

const (
	ReasonNoRefreshToken Reason = "no_refresh_token"
	ReasonRefreshFailed  Reason = "refresh_failed"
	ReasonLoggedOut      Reason = "logged_out"
)

// Snapshot is a copy of the session as seen by readers. The access token is
// deliberately absent.
type Snapshot struct {
	State   State
	User    *models.User
	Loading bool
}
