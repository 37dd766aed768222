package ports

import (
	"context"

	"github.com/investbank/pipeline-client/internal/core/domain"
)

// SessionStore owns the client's session state. It is the single writer of
// the token/identity pair; every other component reads through it.
type SessionStore interface {
	// Login authenticates against the backend and, on success, persists the
	// session and publishes it to subscribers. On failure the store is left
	// untouched.
	Login(ctx context.Context, username, password string) (domain.Session, error)
	// Logout clears the persisted session and publishes an absent session.
	// Idempotent.
	Logout(ctx context.Context) error
	// CurrentSession returns the cached session without any I/O.
	CurrentSession() domain.Session
	IsAuthenticated() bool
	HasRole(role domain.Role) bool
	IsAdmin() bool
	// UpdateIdentity replaces the identity while preserving the token. Used
	// after the startup profile re-validation succeeds.
	UpdateIdentity(ctx context.Context, identity domain.Identity) error
	// Subscribe registers fn to receive every session change, synchronously
	// and in order. The returned function removes the subscription.
	Subscribe(fn func(domain.Session)) func()
}

// SessionReader is the read-only view of the session store used by guards
// and the outbound authenticator.
type SessionReader interface {
	CurrentSession() domain.Session
	IsAuthenticated() bool
	HasRole(role domain.Role) bool
	IsAdmin() bool
}

// SessionInvalidator is the destruction hook handed to the transport's fault
// handler: a remote 401 on a non-auth endpoint forces the session to be
// cleared before the error reaches the caller.
type SessionInvalidator interface {
	Logout(ctx context.Context) error
}
