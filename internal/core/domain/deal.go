package domain

import "time"

// DealType classifies the kind of mandate a deal represents.
type DealType string

const (
	DealTypeMA       DealType = "MA"
	DealTypeIPO      DealType = "IPO"
	DealTypeDebt     DealType = "Debt"
	DealTypeEquity   DealType = "Equity"
	DealTypeAdvisory DealType = "Advisory"
)

// DealStage represents the pipeline stage of a deal.
type DealStage string

const (
	StageProspect           DealStage = "Prospect"
	StageUnderEvaluation    DealStage = "UnderEvaluation"
	StageTermSheetSubmitted DealStage = "TermSheetSubmitted"
	StageClosed             DealStage = "Closed"
	StageLost               DealStage = "Lost"
)

// DealStages lists every valid pipeline stage in pipeline order.
var DealStages = []DealStage{
	StageProspect,
	StageUnderEvaluation,
	StageTermSheetSubmitted,
	StageClosed,
	StageLost,
}

// Valid reports whether s is one of the enumerated pipeline stages.
// Transition ordering is not checked here: the backend owns transition
// legality, and the client accepts any stage-to-stage move.
func (s DealStage) Valid() bool {
	for _, stage := range DealStages {
		if s == stage {
			return true
		}
	}
	return false
}

// Valid reports whether t is an enumerated deal type.
func (t DealType) Valid() bool {
	switch t {
	case DealTypeMA, DealTypeIPO, DealTypeDebt, DealTypeEquity, DealTypeAdvisory:
		return true
	}
	return false
}

// Note is a single append-only log entry on a deal. The backend assigns
// UserID and Timestamp when the note is accepted; clients never set them.
type Note struct {
	UserID    string    `json:"userId"`
	Note      string    `json:"note"`
	Timestamp time.Time `json:"timestamp"`
}

// Deal is the core pipeline entity tracked from prospecting to close or loss.
// Notes only ever grow and keep insertion order; DealValue is mutable only
// through the dedicated value-update operation.
type Deal struct {
	ID           string    `json:"id"`
	ClientName   string    `json:"clientName"`
	DealType     DealType  `json:"dealType"`
	Sector       string    `json:"sector"`
	DealValue    *int64    `json:"dealValue,omitempty"`
	CurrentStage DealStage `json:"currentStage"`
	Summary      string    `json:"summary"`
	Notes        []Note    `json:"notes"`
	CreatedBy    string    `json:"createdBy"`
	AssignedTo   string    `json:"assignedTo,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
