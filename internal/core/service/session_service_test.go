package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/investbank/pipeline-client/internal/core/domain"
)

// stubDoer replays canned responses per method+path and records every call.
type stubDoer struct {
	responses map[string]any
	errs      map[string]error
	calls     []string
}

func newStubDoer() *stubDoer {
	return &stubDoer{responses: make(map[string]any), errs: make(map[string]error)}
}

func (d *stubDoer) Do(_ context.Context, method, path string, _, out any) error {
	key := method + " " + path
	d.calls = append(d.calls, key)
	if err, ok := d.errs[key]; ok {
		return err
	}
	resp, ok := d.responses[key]
	if !ok || out == nil {
		return nil
	}
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

// stubSlotStorage is an in-memory ports.SlotStorage with injectable failures.
type stubSlotStorage struct {
	token    string
	identity *domain.Identity
	saveErr  error
}

func (s *stubSlotStorage) Save(_ context.Context, token string, identity *domain.Identity) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.token = token
	s.identity = identity
	return nil
}

func (s *stubSlotStorage) Load(_ context.Context) (string, *domain.Identity, error) {
	return s.token, s.identity, nil
}

func (s *stubSlotStorage) Clear(_ context.Context) error {
	s.token = ""
	s.identity = nil
	return nil
}

func adminLoginResponse() loginResponse {
	return loginResponse{Token: "tok1", Username: "admin", Email: "admin@investbank.com", Role: domain.RoleAdmin}
}

func TestSessionService_Login_Success(t *testing.T) {
	doer := newStubDoer()
	doer.responses["POST /auth/login"] = adminLoginResponse()
	store := &stubSlotStorage{}
	svc := NewSessionService(doer, store, zerolog.Nop())

	session, err := svc.Login(context.Background(), "admin", "admin123")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if session.Token != "tok1" {
		t.Fatalf("expected token tok1, got %q", session.Token)
	}
	if session.Identity == nil || session.Identity.Role != domain.RoleAdmin {
		t.Fatalf("unexpected identity: %+v", session.Identity)
	}
	if !svc.IsAdmin() {
		t.Fatalf("expected IsAdmin true after admin login")
	}
	if store.token != "tok1" {
		t.Fatalf("token not persisted, got %q", store.token)
	}
	if store.identity == nil || store.identity.Username != "admin" {
		t.Fatalf("identity not persisted: %+v", store.identity)
	}
}

func TestSessionService_Login_Rejected(t *testing.T) {
	doer := newStubDoer()
	doer.errs["POST /auth/login"] = &domain.AuthenticationError{Message: "invalid credentials"}
	store := &stubSlotStorage{}
	svc := NewSessionService(doer, store, zerolog.Nop())

	_, err := svc.Login(context.Background(), "admin", "wrong")
	var authErr *domain.AuthenticationError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected AuthenticationError, got %v", err)
	}
	if svc.IsAuthenticated() {
		t.Fatalf("session must stay absent after rejected login")
	}
	if store.token != "" {
		t.Fatalf("nothing may be persisted on rejected login")
	}
}

func TestSessionService_Login_StorageFailure(t *testing.T) {
	doer := newStubDoer()
	doer.responses["POST /auth/login"] = adminLoginResponse()
	store := &stubSlotStorage{saveErr: errors.New("disk full")}
	svc := NewSessionService(doer, store, zerolog.Nop())

	if _, err := svc.Login(context.Background(), "admin", "admin123"); err == nil {
		t.Fatalf("expected error when persistence fails")
	}
	if svc.IsAuthenticated() {
		t.Fatalf("store must be untouched when persistence fails")
	}
}

func TestSessionService_Logout_Idempotent(t *testing.T) {
	doer := newStubDoer()
	doer.responses["POST /auth/login"] = adminLoginResponse()
	svc := NewSessionService(doer, &stubSlotStorage{}, zerolog.Nop())

	if _, err := svc.Login(context.Background(), "admin", "admin123"); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := svc.Logout(context.Background()); err != nil {
			t.Fatalf("logout %d failed: %v", i, err)
		}
		session := svc.CurrentSession()
		if session.IsAuthenticated() || session.Identity != nil {
			t.Fatalf("expected absent session after logout, got %+v", session)
		}
	}
}

func TestSessionService_RestoresPersistedSession(t *testing.T) {
	store := &stubSlotStorage{
		token:    "tok-restored",
		identity: &domain.Identity{Username: "analyst", Email: "analyst@investbank.com", Role: domain.RoleUser},
	}
	svc := NewSessionService(newStubDoer(), store, zerolog.Nop())

	if !svc.IsAuthenticated() {
		t.Fatalf("expected restored session to be authenticated")
	}
	if !svc.HasRole(domain.RoleUser) || svc.IsAdmin() {
		t.Fatalf("unexpected role state after restore")
	}
}

func TestSessionService_RoleChecks_NoIdentity(t *testing.T) {
	svc := NewSessionService(newStubDoer(), &stubSlotStorage{}, zerolog.Nop())

	if svc.IsAuthenticated() {
		t.Fatalf("empty store must not be authenticated")
	}
	if svc.HasRole(domain.RoleUser) || svc.HasRole(domain.RoleAdmin) || svc.IsAdmin() {
		t.Fatalf("role checks must be false without an identity")
	}
}

func TestSessionService_UpdateIdentity(t *testing.T) {
	doer := newStubDoer()
	doer.responses["POST /auth/login"] = adminLoginResponse()
	store := &stubSlotStorage{}
	svc := NewSessionService(doer, store, zerolog.Nop())

	if _, err := svc.Login(context.Background(), "admin", "admin123"); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	patch := domain.Identity{Username: "admin", Email: "root@investbank.com", Role: domain.RoleAdmin}
	if err := svc.UpdateIdentity(context.Background(), patch); err != nil {
		t.Fatalf("UpdateIdentity failed: %v", err)
	}

	session := svc.CurrentSession()
	if session.Token != "tok1" {
		t.Fatalf("token must be preserved, got %q", session.Token)
	}
	if session.Identity.Email != "root@investbank.com" {
		t.Fatalf("identity not replaced: %+v", session.Identity)
	}
	if store.identity.Email != "root@investbank.com" {
		t.Fatalf("patched identity not persisted")
	}
}

func TestSessionService_UpdateIdentity_NoSession(t *testing.T) {
	svc := NewSessionService(newStubDoer(), &stubSlotStorage{}, zerolog.Nop())

	err := svc.UpdateIdentity(context.Background(), domain.Identity{Username: "ghost"})
	if !errors.Is(err, ErrNoActiveSession) {
		t.Fatalf("expected ErrNoActiveSession, got %v", err)
	}
}

func TestSessionService_Subscribe_OrderAndUnsubscribe(t *testing.T) {
	doer := newStubDoer()
	doer.responses["POST /auth/login"] = adminLoginResponse()
	svc := NewSessionService(doer, &stubSlotStorage{}, zerolog.Nop())

	// A single event log shared by both subscribers makes delivery order
	// observable: for every change, "first" must land before "second".
	var events []string
	unsubFirst := svc.Subscribe(func(s domain.Session) {
		events = append(events, "first:"+s.Token)
	})
	svc.Subscribe(func(s domain.Session) {
		events = append(events, "second:"+s.Token)
	})

	ctx := context.Background()
	if _, err := svc.Login(ctx, "admin", "admin123"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if err := svc.UpdateIdentity(ctx, domain.Identity{Username: "admin", Role: domain.RoleAdmin}); err != nil {
		t.Fatalf("UpdateIdentity failed: %v", err)
	}
	if err := svc.Logout(ctx); err != nil {
		t.Fatalf("logout failed: %v", err)
	}

	want := []string{
		"first:tok1", "second:tok1", // login
		"first:tok1", "second:tok1", // identity patch
		"first:", "second:", // logout
	}
	if len(events) != len(want) {
		t.Fatalf("expected %d events, got %d: %v", len(want), len(events), events)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Fatalf("event %d: expected %q, got %q", i, want[i], events[i])
		}
	}

	unsubFirst()
	events = nil
	if _, err := svc.Login(ctx, "admin", "admin123"); err != nil {
		t.Fatalf("relogin failed: %v", err)
	}
	if len(events) != 1 || events[0] != "second:tok1" {
		t.Fatalf("only the remaining subscriber may receive events, got %v", events)
	}
}
