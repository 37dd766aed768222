package domain

import "fmt"

// ValidationError reports a local field-constraint violation. It is raised
// before any network I/O; a request that fails validation never reaches the
// transport.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return "validation: " + e.Message
}

// AuthorizationError reports a local role-precondition failure (for example a
// non-admin attempting a value update). Raised before any network I/O.
type AuthorizationError struct {
	Message string
}

func (e *AuthorizationError) Error() string {
	return "authorization: " + e.Message
}

// AuthenticationError reports a remote 401. Outside of the auth endpoints it
// carries the side effect of a forced logout, applied by the transport's
// fault handler before the error reaches the caller.
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string {
	if e.Message == "" {
		return "authentication required"
	}
	return "authentication: " + e.Message
}

// ForbiddenError reports a remote 403: the session is valid but lacks the
// role for one specific operation. The session is preserved.
type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string {
	if e.Message == "" {
		return "access forbidden"
	}
	return "forbidden: " + e.Message
}

// RemoteError is any other remote failure, surfaced with the backend-provided
// message when one is available.
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("remote error (status %d)", e.Status)
	}
	return fmt.Sprintf("remote error (status %d): %s", e.Status, e.Message)
}
