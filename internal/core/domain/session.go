package domain

import "time"

// Role is the authorization role carried by an authenticated identity.
// ADMIN is a strict superset of USER capability.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Identity is the authenticated principal associated with the current session.
type Identity struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
}

// Session is the tuple of bearer token and authenticated identity held by the
// client. The token is opaque: the client stores and forwards it but never
// inspects or validates it. Identity is present only while the token is.
type Session struct {
	Token    string
	Identity *Identity
}

// IsAuthenticated reports whether a token is present.
func (s Session) IsAuthenticated() bool {
	return s.Token != ""
}

// HasRole reports whether the session's identity carries the given role.
// Returns false when no identity is present.
func (s Session) HasRole(role Role) bool {
	return s.Identity != nil && s.Identity.Role == role
}

// IsAdmin reports whether the session's identity carries the ADMIN role.
func (s Session) IsAdmin() bool {
	return s.HasRole(RoleAdmin)
}

// User models a managed user account as returned by the admin endpoints.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
}
