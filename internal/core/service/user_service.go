package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/investbank/pipeline-client/internal/core/domain"
	"github.com/investbank/pipeline-client/internal/core/ports"
)

// UserService is the client for the profile endpoint and the delegated
// admin user-management endpoints.
type UserService struct {
	transport ports.Doer
	validate  *validator.Validate
	log       zerolog.Logger
}

func NewUserService(transport ports.Doer, log zerolog.Logger) *UserService {
	return &UserService{transport: transport, validate: validator.New(), log: log}
}

type createUserRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role"     validate:"required,oneof=USER ADMIN"`
}

// CurrentProfile fetches the authenticated user's profile. Run on startup
// to re-validate a restored session; the caller patches the session store's
// identity on success and logs out on an authentication failure.
func (s *UserService) CurrentProfile(ctx context.Context) (*domain.User, error) {
	var user domain.User
	if err := s.transport.Do(ctx, "GET", "/users/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ListUsers fetches all managed accounts. Admin-only server-side.
func (s *UserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := s.transport.Do(ctx, "GET", "/admin/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// CreateUser registers a new managed account. Admin-only server-side.
func (s *UserService) CreateUser(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
	req := createUserRequest{
		Username: strings.TrimSpace(input.Username),
		Email:    strings.TrimSpace(input.Email),
		Password: input.Password,
		Role:     string(input.Role),
	}
	if err := checkStruct(s.validate, req); err != nil {
		return nil, err
	}

	var user domain.User
	if err := s.transport.Do(ctx, "POST", "/admin/users", req, &user); err != nil {
		return nil, err
	}
	s.log.Info().Str("username", user.Username).Str("role", string(user.Role)).Msg("user created")
	return &user, nil
}

// SetUserActive toggles an account's active flag. Admin-only server-side.
func (s *UserService) SetUserActive(ctx context.Context, id string, active bool) (*domain.User, error) {
	path := fmt.Sprintf("/admin/users/%s/status?active=%t", id, active)

	var user domain.User
	if err := s.transport.Do(ctx, "PUT", path, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
