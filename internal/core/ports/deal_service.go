package ports

import (
	"context"

	"github.com/investbank/pipeline-client/internal/core/domain"
)

// CreateDealInput carries all data needed to create a new deal.
type CreateDealInput struct {
	ClientName   string
	DealType     domain.DealType
	Sector       string
	DealValue    int64
	CurrentStage domain.DealStage
	Summary      string
	AssignedTo   string
}

// UpdateBasicFieldsInput carries the non-privileged mutable fields of a deal.
// All fields except AssignedTo are required.
type UpdateBasicFieldsInput struct {
	ClientName string
	DealType   domain.DealType
	Sector     string
	Summary    string
	AssignedTo string
}

// StageUpdateResult is returned by UpdateStage. NoOp is true when the
// requested stage equalled the current one and no network call was made.
type StageUpdateResult struct {
	Deal *domain.Deal
	NoOp bool
}

// DealService defines the deal lifecycle operations. Every mutation returns
// the full updated deal so the caller replaces its cached copy wholesale;
// there is no field-level merge.
type DealService interface {
	Create(ctx context.Context, input CreateDealInput) (*domain.Deal, error)
	Get(ctx context.Context, id string) (*domain.Deal, error)
	List(ctx context.Context) ([]domain.Deal, error)
	UpdateBasicFields(ctx context.Context, id string, input UpdateBasicFieldsInput) (*domain.Deal, error)
	// UpdateStage sets the deal's pipeline stage. Any enumerated stage may
	// replace any other; the backend owns transition legality.
	UpdateStage(ctx context.Context, deal *domain.Deal, next domain.DealStage) (*StageUpdateResult, error)
	// UpdateValue is permitted only for admin identities; the check runs
	// locally before any network call.
	UpdateValue(ctx context.Context, id string, value int64) (*domain.Deal, error)
	// AddNote appends a note server-side and returns the deal with the full
	// note sequence; the server assigns userId and timestamp.
	AddNote(ctx context.Context, id, text string) (*domain.Deal, error)
	Delete(ctx context.Context, id string) error
}
