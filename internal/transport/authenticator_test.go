package transport

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/investbank/pipeline-client/internal/core/domain"
	"github.com/investbank/pipeline-client/internal/core/ports"
)

type fixedSessions struct {
	session domain.Session
}

func (s *fixedSessions) CurrentSession() domain.Session { return s.session }
func (s *fixedSessions) IsAuthenticated() bool          { return s.session.IsAuthenticated() }
func (s *fixedSessions) HasRole(r domain.Role) bool     { return s.session.HasRole(r) }
func (s *fixedSessions) IsAdmin() bool                  { return s.session.IsAdmin() }

// captureTripper records the request it receives and returns a fixed 200.
type captureTripper struct {
	seen *http.Request
}

func (c *captureTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	c.seen = req
	rec := httptest.NewRecorder()
	rec.WriteHeader(http.StatusOK)
	return rec.Result(), nil
}

func TestAuthenticator_AttachesBearerToken(t *testing.T) {
	inner := &captureTripper{}
	auth := NewAuthenticator(&fixedSessions{session: domain.Session{Token: "tok1"}}, inner)

	original := httptest.NewRequest(http.MethodGet, "http://backend/api/deals", nil)
	resp, err := auth.RoundTrip(original)
	if err != nil {
		t.Fatalf("RoundTrip failed: %v", err)
	}
	resp.Body.Close()

	if got := inner.seen.Header.Get("Authorization"); got != "Bearer tok1" {
		t.Fatalf("expected Authorization 'Bearer tok1', got %q", got)
	}
	// The caller's request must not be mutated: the header lands on a clone.
	if got := original.Header.Get("Authorization"); got != "" {
		t.Fatalf("original request was mutated, Authorization=%q", got)
	}
	if inner.seen == original {
		t.Fatalf("expected a cloned request, got the original")
	}
}

func TestAuthenticator_NoToken_PassThrough(t *testing.T) {
	inner := &captureTripper{}
	auth := NewAuthenticator(&fixedSessions{}, inner)

	original := httptest.NewRequest(http.MethodGet, "http://backend/api/deals", nil)
	resp, err := auth.RoundTrip(original)
	if err != nil {
		t.Fatalf("RoundTrip failed: %v", err)
	}
	resp.Body.Close()

	if inner.seen != original {
		t.Fatalf("request without a token must pass through unmodified")
	}
	if got := inner.seen.Header.Get("Authorization"); got != "" {
		t.Fatalf("no header may be attached without a token, got %q", got)
	}
}

func TestAuthenticator_ReadsTokenAtSendTime(t *testing.T) {
	sessions := &fixedSessions{session: domain.Session{Token: "tok1"}}
	inner := &captureTripper{}
	auth := NewAuthenticator(sessions, inner)

	// A logout between two calls must be observed by the second call.
	sessions.session = domain.Session{}
	req := httptest.NewRequest(http.MethodGet, "http://backend/api/deals", nil)
	resp, err := auth.RoundTrip(req)
	if err != nil {
		t.Fatalf("RoundTrip failed: %v", err)
	}
	resp.Body.Close()

	if got := inner.seen.Header.Get("Authorization"); got != "" {
		t.Fatalf("stale token attached after logout: %q", got)
	}
}

var _ ports.SessionReader = (*fixedSessions)(nil)
