package service

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/investbank/pipeline-client/internal/core/domain"
	"github.com/investbank/pipeline-client/internal/core/ports"
)

// ErrNoActiveSession is returned by UpdateIdentity when no token is held.
var ErrNoActiveSession = errors.New("no active session")

// SessionService is the single owner of the client's session state. It
// persists the token/identity pair in durable slot storage and publishes
// every change to subscribers, synchronously and in registration order.
type SessionService struct {
	transport ports.Doer
	storage   ports.SlotStorage
	log       zerolog.Logger

	mu      sync.Mutex
	current domain.Session
	subs    []subscriber
	nextID  int
}

type subscriber struct {
	id int
	fn func(domain.Session)
}

// NewSessionService builds the store and restores any previously persisted
// session from storage. A corrupt or unreadable store is logged and treated
// as an absent session rather than failing construction.
func NewSessionService(transport ports.Doer, storage ports.SlotStorage, log zerolog.Logger) *SessionService {
	s := &SessionService{transport: transport, storage: storage, log: log}

	token, identity, err := storage.Load(context.Background())
	if err != nil {
		log.Warn().Err(err).Msg("could not restore persisted session")
		return s
	}
	if token != "" {
		s.current = domain.Session{Token: token, Identity: identity}
		log.Debug().Msg("restored persisted session")
	}
	return s
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token    string      `json:"token"`
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Role     domain.Role `json:"role"`
}

// Login authenticates against POST /auth/login. On success the new session
// is persisted and published; on any failure the store is left untouched.
func (s *SessionService) Login(ctx context.Context, username, password string) (domain.Session, error) {
	var resp loginResponse
	err := s.transport.Do(ctx, "POST", "/auth/login", loginRequest{Username: username, Password: password}, &resp)
	if err != nil {
		return domain.Session{}, err
	}

	identity := &domain.Identity{
		Username: resp.Username,
		Email:    resp.Email,
		Role:     resp.Role,
	}
	if err := s.storage.Save(ctx, resp.Token, identity); err != nil {
		return domain.Session{}, err
	}

	session := domain.Session{Token: resp.Token, Identity: identity}
	s.publish(session)

	s.log.Info().Str("username", resp.Username).Str("role", string(resp.Role)).Msg("logged in")
	return session, nil
}

// Logout clears both persisted slots and publishes an absent session.
// Idempotent: calling it while logged out publishes the absent session
// again and succeeds. The navigation layer subscribes to session changes
// and returns to the login entry point when it sees an absent session.
func (s *SessionService) Logout(ctx context.Context) error {
	if err := s.storage.Clear(ctx); err != nil {
		return err
	}
	s.publish(domain.Session{})
	s.log.Info().Msg("logged out")
	return nil
}

// CurrentSession returns the cached session. No I/O.
func (s *SessionService) CurrentSession() domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *SessionService) IsAuthenticated() bool {
	return s.CurrentSession().IsAuthenticated()
}

func (s *SessionService) HasRole(role domain.Role) bool {
	return s.CurrentSession().HasRole(role)
}

func (s *SessionService) IsAdmin() bool {
	return s.CurrentSession().IsAdmin()
}

// UpdateIdentity replaces the identity in place while preserving the
// existing token. Used when the startup profile re-validation succeeds; if
// that re-validation fails with an authentication error the caller must
// invoke Logout instead.
func (s *SessionService) UpdateIdentity(ctx context.Context, identity domain.Identity) error {
	s.mu.Lock()
	token := s.current.Token
	s.mu.Unlock()
	if token == "" {
		return ErrNoActiveSession
	}

	if err := s.storage.Save(ctx, token, &identity); err != nil {
		return err
	}
	s.publish(domain.Session{Token: token, Identity: &identity})
	return nil
}

// Subscribe registers fn for every session change. Delivery is synchronous
// with respect to the mutating call and in registration order. The returned
// function removes the subscription.
func (s *SessionService) Subscribe(fn func(domain.Session)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.subs = append(s.subs, subscriber{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// publish installs the new session and delivers it to subscribers. The lock
// is released before delivery so a subscriber may read the store.
func (s *SessionService) publish(session domain.Session) {
	s.mu.Lock()
	s.current = session
	subs := make([]subscriber, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.fn(session)
	}
}
