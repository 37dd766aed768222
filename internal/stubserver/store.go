package stubserver

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/investbank/pipeline-client/internal/core/domain"
)

// account is a stored user with its password hash.
type account struct {
	domain.User
	passwordHash string
}

// store is the stub backend's in-memory state. It mirrors the shape of the
// production service's collections closely enough for the client to be
// exercised end to end.
type store struct {
	mu    sync.Mutex
	users map[string]*account // keyed by username
	deals map[string]*domain.Deal
}

func newStore() *store {
	return &store{
		users: make(map[string]*account),
		deals: make(map[string]*domain.Deal),
	}
}

func (s *store) addUser(username, email string, role domain.Role, passwordHash string) *account {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc := &account{
		User: domain.User{
			ID:        uuid.NewString(),
			Username:  username,
			Email:     email,
			Role:      role,
			Active:    true,
			CreatedAt: time.Now().UTC(),
		},
		passwordHash: passwordHash,
	}
	s.users[username] = acc
	return acc
}

func (s *store) findUser(username string) (*account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.users[username]
	return acc, ok
}

func (s *store) findUserByID(id string) (*account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, acc := range s.users {
		if acc.ID == id {
			return acc, true
		}
	}
	return nil, false
}

func (s *store) listUsers() []domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	users := make([]domain.User, 0, len(s.users))
	for _, acc := range s.users {
		users = append(users, acc.User)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users
}

func (s *store) putDeal(deal *domain.Deal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deals[deal.ID] = deal
}

func (s *store) getDeal(id string) (*domain.Deal, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deal, ok := s.deals[id]
	if !ok {
		return nil, false
	}
	clone := *deal
	clone.Notes = append([]domain.Note(nil), deal.Notes...)
	return &clone, true
}

func (s *store) listDeals() []domain.Deal {
	s.mu.Lock()
	defer s.mu.Unlock()
	deals := make([]domain.Deal, 0, len(s.deals))
	for _, d := range s.deals {
		clone := *d
		clone.Notes = append([]domain.Note(nil), d.Notes...)
		deals = append(deals, clone)
	}
	sort.Slice(deals, func(i, j int) bool { return deals[i].CreatedAt.Before(deals[j].CreatedAt) })
	return deals
}

func (s *store) deleteDeal(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.deals[id]; !ok {
		return false
	}
	delete(s.deals, id)
	return true
}

// mutateDeal applies fn to the stored deal under the lock and returns a copy
// of the result.
func (s *store) mutateDeal(id string, fn func(*domain.Deal)) (*domain.Deal, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deal, ok := s.deals[id]
	if !ok {
		return nil, false
	}
	fn(deal)
	deal.UpdatedAt = time.Now().UTC()
	clone := *deal
	clone.Notes = append([]domain.Note(nil), deal.Notes...)
	return &clone, true
}
