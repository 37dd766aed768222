package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/investbank/pipeline-client/internal/core/domain"
	"github.com/investbank/pipeline-client/internal/core/ports"
)

// Conformance: the concrete services satisfy their ports.
var (
	_ ports.SessionStore = (*SessionService)(nil)
	_ ports.DealService  = (*DealService)(nil)
	_ ports.UserService  = (*UserService)(nil)
)

func TestUserService_CreateUser_Validation(t *testing.T) {
	doer := newStubDoer()
	svc := NewUserService(doer, zerolog.Nop())
	ctx := context.Background()

	cases := []struct {
		name  string
		input ports.CreateUserInput
	}{
		{"bad email", ports.CreateUserInput{Username: "trader", Email: "not-an-email", Password: "secret1", Role: domain.RoleUser}},
		{"short password", ports.CreateUserInput{Username: "trader", Email: "t@investbank.com", Password: "abc", Role: domain.RoleUser}},
		{"bad role", ports.CreateUserInput{Username: "trader", Email: "t@investbank.com", Password: "secret1", Role: "SUPERUSER"}},
	}
	for _, tc := range cases {
		_, err := svc.CreateUser(ctx, tc.input)
		var valErr *domain.ValidationError
		if !errors.As(err, &valErr) {
			t.Fatalf("%s: expected ValidationError, got %v", tc.name, err)
		}
	}
	if len(doer.calls) != 0 {
		t.Fatalf("no network call may be issued, observed %v", doer.calls)
	}
}

func TestUserService_SetUserActive_Path(t *testing.T) {
	doer := newStubDoer()
	doer.responses["PUT /admin/users/u1/status?active=false"] = domain.User{ID: "u1", Username: "trader", Active: false}
	svc := NewUserService(doer, zerolog.Nop())

	user, err := svc.SetUserActive(context.Background(), "u1", false)
	if err != nil {
		t.Fatalf("SetUserActive failed: %v", err)
	}
	if user.Active {
		t.Fatalf("expected inactive user")
	}
	if len(doer.calls) != 1 || doer.calls[0] != "PUT /admin/users/u1/status?active=false" {
		t.Fatalf("unexpected calls: %v", doer.calls)
	}
}

func TestUserService_CurrentProfile(t *testing.T) {
	doer := newStubDoer()
	doer.responses["GET /users/me"] = domain.User{Username: "admin", Role: domain.RoleAdmin, Active: true}
	svc := NewUserService(doer, zerolog.Nop())

	profile, err := svc.CurrentProfile(context.Background())
	if err != nil {
		t.Fatalf("CurrentProfile failed: %v", err)
	}
	if profile.Username != "admin" || profile.Role != domain.RoleAdmin {
		t.Fatalf("unexpected profile: %+v", profile)
	}
}
