package nav

import (
	"testing"

	"github.com/investbank/pipeline-client/internal/core/domain"
)

type fixedSessions struct {
	session domain.Session
}

func (s *fixedSessions) CurrentSession() domain.Session { return s.session }
func (s *fixedSessions) IsAuthenticated() bool          { return s.session.IsAuthenticated() }
func (s *fixedSessions) HasRole(r domain.Role) bool     { return s.session.HasRole(r) }
func (s *fixedSessions) IsAdmin() bool                  { return s.session.IsAdmin() }

func anonymous() *fixedSessions {
	return &fixedSessions{}
}

func authenticated(role domain.Role) *fixedSessions {
	return &fixedSessions{session: domain.Session{
		Token:    "tok1",
		Identity: &domain.Identity{Username: "someone", Role: role},
	}}
}

func TestGuard_UnprotectedDestination_AlwaysAllowed(t *testing.T) {
	guard := NewGuard(anonymous())

	decision := guard.Check(LoginDest)
	if !decision.Allowed {
		t.Fatalf("login destination must be open to everyone")
	}
}

func TestGuard_Protected_Unauthenticated_RedirectsToLogin(t *testing.T) {
	guard := NewGuard(anonymous())

	for _, dest := range []Destination{DealListDest, DealNewDest, DealDetailDest, DealEditDest, AdminUsersDest} {
		decision := guard.Check(dest)
		if decision.Allowed {
			t.Fatalf("%s: unauthenticated navigation must be cancelled", dest.Name)
		}
		if decision.Redirect != LoginDest {
			t.Fatalf("%s: expected redirect to login, got %s", dest.Name, decision.Redirect.Name)
		}
	}
}

func TestGuard_Protected_Authenticated_Allowed(t *testing.T) {
	guard := NewGuard(authenticated(domain.RoleUser))

	for _, dest := range []Destination{DealListDest, DealNewDest, DealDetailDest, DealEditDest} {
		if decision := guard.Check(dest); !decision.Allowed {
			t.Fatalf("%s: authenticated navigation must be allowed", dest.Name)
		}
	}
}

func TestGuard_RoleScoped_UnderPrivileged_RedirectsToLanding(t *testing.T) {
	guard := NewGuard(authenticated(domain.RoleUser))

	decision := guard.Check(AdminUsersDest)
	if decision.Allowed {
		t.Fatalf("USER must not enter the admin destination")
	}
	// Authenticated but under-privileged: land on the deal list, not login.
	if decision.Redirect != DealListDest {
		t.Fatalf("expected redirect to deal list, got %s", decision.Redirect.Name)
	}
}

func TestGuard_RoleScoped_Admin_Allowed(t *testing.T) {
	guard := NewGuard(authenticated(domain.RoleAdmin))

	if decision := guard.Check(AdminUsersDest); !decision.Allowed {
		t.Fatalf("ADMIN must enter the admin destination")
	}
}

func TestGuard_DecisionTracksSessionState(t *testing.T) {
	sessions := anonymous()
	guard := NewGuard(sessions)

	if guard.Check(DealListDest).Allowed {
		t.Fatalf("expected denial before login")
	}

	sessions.session = domain.Session{Token: "tok1", Identity: &domain.Identity{Role: domain.RoleUser}}
	if !guard.Check(DealListDest).Allowed {
		t.Fatalf("expected allowance after login")
	}

	sessions.session = domain.Session{}
	if guard.Check(DealListDest).Allowed {
		t.Fatalf("expected denial after logout")
	}
}
