package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/perchfin/lending-engine/internal/domain"
)

// Storage is the persistence port the ledger threads through its mutating
// operations. All writes are explicit appends; records are never mutated or
// deleted here. The store enforces uniqueness of movement references.
type Storage interface {
	AppendMovement(ctx context.Context, movement *domain.CashMovement) error
	AppendLoan(ctx context.Context, loan *domain.Loan) error
	AppendDecision(ctx context.Context, decision *domain.Decision) error
}

// Disbursement is a confirmed outbound transfer as reported by the rail.
type Disbursement struct {
	Amount    decimal.Decimal
	Timestamp time.Time
	Reference string
}

// PaymentRail is the external transfer port. Disburse is the only slow or
// failing call inside a funding request; when it fails the whole operation
// aborts with no partial state.
type PaymentRail interface {
	Disburse(ctx context.Context, amount decimal.Decimal, accountTo string) (Disbursement, error)
}

// DecisionTerms are the credit terms an approval carries.
type DecisionTerms struct {
	Amount    decimal.Decimal
	DailyRate float64
	FeeRate   float64
	FeeAmount decimal.Decimal
}

// Evaluation is the outcome of the external risk evaluation. Terms is nil
// unless Approved.
type Evaluation struct {
	Approved bool
	Terms    *DecisionTerms
}

// Evaluator is the decision-evaluation port. It may fail with arbitrary
// errors; the ledger downgrades every failure to a declined decision.
type Evaluator interface {
	Evaluate(ctx context.Context, applicant *domain.ApplicantData) (Evaluation, error)
}

// Limits are the product parameters governing funding validation and the
// terms of newly created loans.
type Limits struct {
	MinLoanAmount        decimal.Decimal
	MaxLoanAmount        decimal.Decimal
	DecisionValidity     time.Duration
	DefaultDurationDays  int
	DefaultFrequencyDays int
}
