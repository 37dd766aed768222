package ports

import (
	"context"

	"github.com/investbank/pipeline-client/internal/core/domain"
)

// SlotStorage is durable client storage for the two session slots: the bearer
// token and the serialized identity. The slots are written and cleared
// together so that identity can never outlive the token.
type SlotStorage interface {
	// Save persists both slots. Either both are written or neither is.
	Save(ctx context.Context, token string, identity *domain.Identity) error
	// Load reads both slots. An empty token with a nil identity means no
	// session is stored; this is not an error.
	Load(ctx context.Context) (token string, identity *domain.Identity, err error)
	// Clear removes both slots. Idempotent.
	Clear(ctx context.Context) error
}
