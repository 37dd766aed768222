package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/investbank/pipeline-client/internal/core/domain"
	"github.com/investbank/pipeline-client/internal/core/ports"
)

// DealService is the deal lifecycle manager. Each operation is one
// independent round-trip: field constraints and role preconditions are
// checked locally first, and every successful mutation returns the full
// updated deal so the caller replaces its cached copy wholesale.
type DealService struct {
	transport ports.Doer
	sessions  ports.SessionReader
	validate  *validator.Validate
	log       zerolog.Logger
}

func NewDealService(transport ports.Doer, sessions ports.SessionReader, log zerolog.Logger) *DealService {
	return &DealService{
		transport: transport,
		sessions:  sessions,
		validate:  validator.New(),
		log:       log,
	}
}

const stageValues = "Prospect UnderEvaluation TermSheetSubmitted Closed Lost"

type createDealRequest struct {
	ClientName   string `json:"clientName"   validate:"required,min=2"`
	DealType     string `json:"dealType"     validate:"required,oneof=MA IPO Debt Equity Advisory"`
	Sector       string `json:"sector"       validate:"required"`
	DealValue    int64  `json:"dealValue"    validate:"required,gt=0"`
	CurrentStage string `json:"currentStage" validate:"required,oneof=Prospect UnderEvaluation TermSheetSubmitted Closed Lost"`
	Summary      string `json:"summary"      validate:"required,min=10"`
	AssignedTo   string `json:"assignedTo,omitempty"`
}

type updateDealRequest struct {
	ClientName string `json:"clientName" validate:"required,min=2"`
	DealType   string `json:"dealType"   validate:"required,oneof=MA IPO Debt Equity Advisory"`
	Sector     string `json:"sector"     validate:"required"`
	Summary    string `json:"summary"    validate:"required,min=10"`
	AssignedTo string `json:"assignedTo,omitempty"`
}

type updateStageRequest struct {
	Stage string `json:"stage"`
}

type updateValueRequest struct {
	DealValue int64 `json:"dealValue"`
}

type addNoteRequest struct {
	Note string `json:"note" validate:"required,min=5,max=500"`
}

// Create registers a new deal. Creation is open to every authenticated
// role; only value edits and user administration are admin-gated.
func (s *DealService) Create(ctx context.Context, input ports.CreateDealInput) (*domain.Deal, error) {
	req := createDealRequest{
		ClientName:   strings.TrimSpace(input.ClientName),
		DealType:     string(input.DealType),
		Sector:       strings.TrimSpace(input.Sector),
		DealValue:    input.DealValue,
		CurrentStage: string(input.CurrentStage),
		Summary:      strings.TrimSpace(input.Summary),
		AssignedTo:   strings.TrimSpace(input.AssignedTo),
	}
	if err := checkStruct(s.validate, req); err != nil {
		return nil, err
	}

	var deal domain.Deal
	if err := s.transport.Do(ctx, "POST", "/deals", req, &deal); err != nil {
		return nil, err
	}
	s.log.Info().Str("deal_id", deal.ID).Str("client", deal.ClientName).Msg("deal created")
	return &deal, nil
}

// Get fetches a single deal by id.
func (s *DealService) Get(ctx context.Context, id string) (*domain.Deal, error) {
	var deal domain.Deal
	if err := s.transport.Do(ctx, "GET", "/deals/"+id, nil, &deal); err != nil {
		return nil, err
	}
	return &deal, nil
}

// List fetches every deal visible to the current identity.
func (s *DealService) List(ctx context.Context) ([]domain.Deal, error) {
	var deals []domain.Deal
	if err := s.transport.Do(ctx, "GET", "/deals", nil, &deals); err != nil {
		return nil, err
	}
	return deals, nil
}

// UpdateBasicFields replaces the non-privileged mutable fields. All fields
// except AssignedTo must be non-empty after trimming; clientName needs at
// least 2 characters and summary at least 10.
func (s *DealService) UpdateBasicFields(ctx context.Context, id string, input ports.UpdateBasicFieldsInput) (*domain.Deal, error) {
	req := updateDealRequest{
		ClientName: strings.TrimSpace(input.ClientName),
		DealType:   string(input.DealType),
		Sector:     strings.TrimSpace(input.Sector),
		Summary:    strings.TrimSpace(input.Summary),
		AssignedTo: strings.TrimSpace(input.AssignedTo),
	}
	if err := checkStruct(s.validate, req); err != nil {
		return nil, err
	}

	var deal domain.Deal
	if err := s.transport.Do(ctx, "PUT", "/deals/"+id, req, &deal); err != nil {
		return nil, err
	}
	return &deal, nil
}

// UpdateStage moves the deal to next. The client deliberately imposes no
// ordering constraint between stages (any value may replace any other; the
// backend owns transition legality). Setting the stage the deal already has
// short-circuits locally as a benign no-op without a network call.
func (s *DealService) UpdateStage(ctx context.Context, deal *domain.Deal, next domain.DealStage) (*ports.StageUpdateResult, error) {
	if !next.Valid() {
		return nil, &domain.ValidationError{Message: "stage must be one of: " + stageValues}
	}
	if deal.CurrentStage == next {
		s.log.Debug().Str("deal_id", deal.ID).Str("stage", string(next)).Msg("stage unchanged, skipping update")
		return &ports.StageUpdateResult{Deal: deal, NoOp: true}, nil
	}

	var updated domain.Deal
	if err := s.transport.Do(ctx, "PATCH", "/deals/"+deal.ID+"/stage", updateStageRequest{Stage: string(next)}, &updated); err != nil {
		return nil, err
	}
	s.log.Info().Str("deal_id", deal.ID).Str("from", string(deal.CurrentStage)).Str("to", string(next)).Msg("deal stage updated")
	return &ports.StageUpdateResult{Deal: &updated}, nil
}

// UpdateValue sets the deal's monetary value. Only an admin identity may
// call it; the precondition is enforced here, once, so presentation layers
// merely hide the control and never duplicate the rule.
func (s *DealService) UpdateValue(ctx context.Context, id string, value int64) (*domain.Deal, error) {
	if !s.sessions.IsAdmin() {
		return nil, &domain.AuthorizationError{Message: "only admins may edit the deal value"}
	}
	if value <= 0 {
		return nil, &domain.ValidationError{Message: "dealvalue must be greater than 0"}
	}

	var deal domain.Deal
	if err := s.transport.Do(ctx, "PATCH", "/deals/"+id+"/value", updateValueRequest{DealValue: value}, &deal); err != nil {
		return nil, err
	}
	return &deal, nil
}

// AddNote appends a note to the deal's log. The returned deal carries the
// full note sequence with the server-assigned userId and timestamp; callers
// adopt it in place rather than appending locally.
func (s *DealService) AddNote(ctx context.Context, id, text string) (*domain.Deal, error) {
	req := addNoteRequest{Note: strings.TrimSpace(text)}
	if err := checkStruct(s.validate, req); err != nil {
		return nil, err
	}

	var deal domain.Deal
	if err := s.transport.Do(ctx, "POST", "/deals/"+id+"/notes", req, &deal); err != nil {
		return nil, err
	}
	return &deal, nil
}

// Delete removes a deal. No local role check: the calling surface hides the
// action for non-admins and the server is the final authority.
func (s *DealService) Delete(ctx context.Context, id string) error {
	if err := s.transport.Do(ctx, "DELETE", "/deals/"+id, nil, nil); err != nil {
		return err
	}
	s.log.Info().Str("deal_id", id).Msg("deal deleted")
	return nil
}
