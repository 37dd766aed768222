package ports

import "context"

// Doer issues one JSON round-trip against the backend. Implementations run
// the outbound authenticator before the request leaves and the response
// fault handler before the caller observes the outcome; that ordering is
// fixed by composition, not by convention.
//
// body is marshalled as the JSON request body when non-nil; out, when
// non-nil, receives the decoded JSON response body.
type Doer interface {
	Do(ctx context.Context, method, path string, body, out any) error
}
