package ports

import (
	"context"

	"github.com/investbank/pipeline-client/internal/core/domain"
)

// CreateUserInput carries the fields for creating a managed user account.
type CreateUserInput struct {
	Username string
	Email    string
	Password string
	Role     domain.Role
}

// UserService exposes the profile endpoint and the admin user-management
// endpoints. The admin operations are server-enforced; the client does not
// re-check the role here.
type UserService interface {
	// CurrentProfile fetches GET /users/me; used to re-validate the stored
	// session on startup. Callers must log out when it fails with an
	// authentication error.
	CurrentProfile(ctx context.Context) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	CreateUser(ctx context.Context, input CreateUserInput) (*domain.User, error)
	SetUserActive(ctx context.Context, id string, active bool) (*domain.User, error)
}
