package nav

import (
	"github.com/investbank/pipeline-client/internal/core/ports"
)

// Decision is the outcome of a guard check. When Allowed is false, Redirect
// names where the navigation is sent instead.
type Decision struct {
	Allowed  bool
	Redirect Destination
}

// Guard gates navigation attempts. Two independent gates run in sequence
// for protected destinations:
//
//  1. access: an unauthenticated session cancels the navigation and
//     redirects to the login entry point.
//  2. role: a destination that declares a required role additionally needs
//     the identity to carry it; an under-privileged (but authenticated)
//     user is redirected to the default landing page, not to login.
//
// Both gates read only the cached session; a check resolves immediately.
type Guard struct {
	sessions ports.SessionReader
}

func NewGuard(sessions ports.SessionReader) *Guard {
	return &Guard{sessions: sessions}
}

// Check evaluates both gates for dest against the session state at call time.
func (g *Guard) Check(dest Destination) Decision {
	if !dest.Protected {
		return Decision{Allowed: true}
	}

	if !g.sessions.IsAuthenticated() {
		return Decision{Redirect: LoginDest}
	}

	if dest.RequiredRole != "" && !g.sessions.HasRole(dest.RequiredRole) {
		return Decision{Redirect: DealListDest}
	}

	return Decision{Allowed: true}
}
