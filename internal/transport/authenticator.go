package transport

import (
	"net/http"

	"github.com/investbank/pipeline-client/internal/core/ports"
)

// Authenticator is the outbound interceptor: an http.RoundTripper that
// attaches the stored bearer token to every outgoing request. The token is
// read from the session store at send time, never cached, so a logout
// between two calls is always observed.
//
// The incoming request is cloned before the header is added; the caller's
// request object is never mutated and stays safe to reuse.
type Authenticator struct {
	sessions ports.SessionReader
	next     http.RoundTripper
}

// NewAuthenticator wraps next with bearer-token attachment. A nil next
// defaults to http.DefaultTransport.
func NewAuthenticator(sessions ports.SessionReader, next http.RoundTripper) *Authenticator {
	if next == nil {
		next = http.DefaultTransport
	}
	return &Authenticator{sessions: sessions, next: next}
}

// setSessions installs the session reader after construction. The session
// store is itself built on top of the transport, so the reader cannot be
// passed to NewClient; the composition root wires it immediately after.
func (a *Authenticator) setSessions(sessions ports.SessionReader) {
	a.sessions = sessions
}

// RoundTrip implements http.RoundTripper. When no token is present the
// request passes through unmodified. There are no skip conditions: every
// request receives the header when a token exists.
func (a *Authenticator) RoundTrip(req *http.Request) (*http.Response, error) {
	var token string
	if a.sessions != nil {
		token = a.sessions.CurrentSession().Token
	}
	if token == "" {
		return a.next.RoundTrip(req)
	}

	clone := req.Clone(req.Context())
	clone.Header.Set("Authorization", "Bearer "+token)
	return a.next.RoundTrip(clone)
}
