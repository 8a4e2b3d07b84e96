package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/perchfin/lending-engine/internal/domain"
	customError "github.com/perchfin/lending-engine/pkg/errors"
	"github.com/perchfin/lending-engine/pkg/utils"
)

// AccountLedger aggregates one customer's loans, cash movements and credit
// decisions. The three collections are kept sorted at all times; insertion
// re-establishes order instead of assuming monotonic arrival. Mutating
// operations append to the in-memory collections and delegate persistence to
// the Storage port. Callers serialize mutations per account (single-writer
// discipline) and supply every timestamp explicitly.
type AccountLedger struct {
	account   domain.Account
	loans     []domain.Loan
	movements []domain.CashMovement
	decisions []domain.Decision
	limits    Limits
	logger    *logrus.Logger
}

// NewAccountLedger builds the aggregate from collections loaded in unknown
// order.
func NewAccountLedger(account domain.Account, loans []domain.Loan, movements []domain.CashMovement, decisions []domain.Decision, limits Limits, logger *logrus.Logger) *AccountLedger {
	domain.SortLoans(loans)
	domain.SortMovements(movements)
	domain.SortDecisions(decisions)
	return &AccountLedger{
		account:   account,
		loans:     loans,
		movements: movements,
		decisions: decisions,
		limits:    limits,
		logger:    logger,
	}
}

// Account returns the owning account record.
func (a *AccountLedger) Account() domain.Account {
	return a.account
}

// Loans returns the start-sorted loans.
func (a *AccountLedger) Loans() []domain.Loan {
	return a.loans
}

// Movements returns the timestamp-sorted cash movements.
func (a *AccountLedger) Movements() []domain.CashMovement {
	return a.movements
}

// Rates derives the daily rate schedule from the account's loan
// originations.
func (a *AccountLedger) Rates() []Rate {
	return RatesFromLoans(a.loans)
}

// Balance projects the outstanding balance to asOf.
func (a *AccountLedger) Balance(asOf time.Time) float64 {
	return BalanceAsOf(a.movements, a.Rates(), asOf)
}

// ActiveDecision returns the latest decision whose validity window covers at:
// issuedAt must fall in (at - validity, at], scanned most-recent-first. Nil
// when no decision qualifies.
func (a *AccountLedger) ActiveDecision(at time.Time) *domain.Decision {
	for i := len(a.decisions) - 1; i >= 0; i-- {
		d := a.decisions[i]
		if d.IssuedAt.After(at.Add(-a.limits.DecisionValidity)) && !d.IssuedAt.After(at) {
			return &a.decisions[i]
		}
	}
	return nil
}

// RequestFunding validates a funding request against the active decision and
// the current balance, disburses through the payment rail, records the
// resulting movements and creates the loan.
//
// All validation, including the installment solve, happens before the rail
// call, and the rail call happens before any write: a rejected request or a
// failed disbursement leaves no loan, fee or movement behind. The fee
// movement, when the decision carries a fee, is internal and gets a generated
// reference. The new loan's opening balance is current balance + disbursed
// amount + fee, and its level repayment comes from the installment solver.
func (a *AccountLedger) RequestFunding(ctx context.Context, store Storage, rail PaymentRail, approvalRef uuid.UUID, amount decimal.Decimal, at time.Time) (*domain.Loan, error) {
	decision := a.ActiveDecision(at)
	switch {
	case decision == nil:
		return nil, customError.WrapInvalidDecision("no active decision")
	case decision.ID != approvalRef:
		return nil, customError.WrapInvalidDecision("approval reference is not the active decision")
	case !decision.Approved():
		return nil, customError.WrapInvalidDecision("active decision is declined")
	}

	currentBalance := decimal.NewFromFloat(a.Balance(at))
	projected := currentBalance.Add(amount)
	if projected.LessThan(a.limits.MinLoanAmount) || projected.GreaterThan(decision.Amount.Decimal) {
		return nil, customError.WrapInvalidAmount(amount.String())
	}

	fee := decimal.NewFromFloat(decision.FeeRate.Float64).Mul(amount).Add(decision.FeeAmount.Decimal)
	opening := currentBalance.Add(amount).Add(fee)
	durationDays := int(decision.DurationDays.Int64)
	frequencyDays := int(decision.RepaymentFrequencyDays.Int64)

	solved := LevelPayment(opening.InexactFloat64(), durationDays, frequencyDays, decision.DailyRate.Float64)
	if !solved.Converged {
		return nil, customError.WrapSolverDiverged(solved.Residual)
	}

	disbursement, err := rail.Disburse(ctx, amount, a.account.BankAccount)
	if err != nil {
		return nil, customError.WrapTransactionFailure(err)
	}

	funding := domain.CashMovement{
		ID:        uuid.New(),
		AccountID: a.account.ID,
		Timestamp: disbursement.Timestamp,
		Amount:    disbursement.Amount.Neg(),
		Kind:      domain.MovementFunding,
		Reference: disbursement.Reference,
	}
	if err := store.AppendMovement(ctx, &funding); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	a.movements = domain.InsertMovement(a.movements, funding)

	if !fee.IsZero() {
		feeMovement := domain.CashMovement{
			ID:        uuid.New(),
			AccountID: a.account.ID,
			Timestamp: at,
			Amount:    fee.Neg(),
			Kind:      domain.MovementFee,
			Reference: "internal-" + uuid.NewString(),
		}
		if err := store.AppendMovement(ctx, &feeMovement); err != nil {
			return nil, customError.WrapDatabaseError(err)
		}
		a.movements = domain.InsertMovement(a.movements, feeMovement)
	}

	loan := domain.Loan{
		ID:                     uuid.New(),
		AccountID:              a.account.ID,
		Start:                  at,
		OpeningBalance:         opening,
		DurationDays:           durationDays,
		DailyRate:              decision.DailyRate.Float64,
		RepaymentFrequencyDays: frequencyDays,
		LevelRepayment:         RoundRepayment(solved.Payment),
		CreatedAt:              at,
	}
	if err := store.AppendLoan(ctx, &loan); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	a.loans = domain.InsertLoan(a.loans, loan)

	a.logger.WithFields(logrus.Fields{
		"account":         a.account.ID,
		"loan":            loan.ID,
		"opening_balance": opening,
	}).Info("funding disbursed")
	return &loan, nil
}

// DecisionOutcome is the result of EvaluateAndDecide. EvaluationFailed marks
// declines caused by an evaluation error rather than by the evaluation
// itself; the persisted decision does not carry the distinction.
type DecisionOutcome struct {
	Decision         *domain.Decision
	EvaluationFailed bool
}

// EvaluateAndDecide runs the decision-evaluation port over the applicant data
// and records the outcome. Approval stores the returned terms together with
// the product's default duration and repayment frequency. Evaluation errors
// are logged and downgraded to a declined decision rather than propagated.
func (a *AccountLedger) EvaluateAndDecide(ctx context.Context, store Storage, evaluator Evaluator, applicant *domain.ApplicantData, at time.Time) (DecisionOutcome, error) {
	evaluation, err := evaluator.Evaluate(ctx, applicant)

	var decision domain.Decision
	failed := false
	switch {
	case err != nil:
		a.logger.WithError(err).WithField("account", a.account.ID).Error("decision evaluation failed, declining")
		decision = domain.NewDeclinedDecision(a.account.ID, at)
		failed = true
	case evaluation.Approved:
		terms := evaluation.Terms
		decision = domain.NewApprovedDecision(
			a.account.ID, at,
			terms.Amount, terms.DailyRate,
			a.limits.DefaultDurationDays, a.limits.DefaultFrequencyDays,
			terms.FeeRate, terms.FeeAmount,
		)
	default:
		decision = domain.NewDeclinedDecision(a.account.ID, at)
	}

	if err := store.AppendDecision(ctx, &decision); err != nil {
		return DecisionOutcome{}, customError.WrapDatabaseError(err)
	}
	a.decisions = domain.InsertDecision(a.decisions, decision)

	return DecisionOutcome{Decision: &decision, EvaluationFailed: failed}, nil
}

// ScheduleForLoan produces the full forward schedule of a single loan as of
// its start, from a synthetic opening movement and the loan's own rate.
func (a *AccountLedger) ScheduleForLoan(loan domain.Loan) (map[time.Time]float64, error) {
	opening := domain.CashMovement{
		Timestamp: loan.Start,
		Amount:    loan.OpeningBalance.Neg(),
		Kind:      domain.MovementFunding,
	}
	rates := []Rate{{Date: utils.DateOf(loan.Start), Daily: loan.DailyRate}}
	return ForwardSchedule(loan, []domain.CashMovement{opening}, rates, utils.DateOf(loan.Start))
}

// ScheduleForDate produces the forward schedule as of an arbitrary date,
// using the recorded movements and the latest loan started by then. Without
// such a loan the schedule is empty.
func (a *AccountLedger) ScheduleForDate(asOf time.Time) (map[time.Time]float64, error) {
	asOf = utils.DateOf(asOf)

	var movements []domain.CashMovement
	for _, m := range a.movements {
		if !utils.DateOf(m.Timestamp).After(asOf) {
			movements = append(movements, m)
		}
	}
	var loans []domain.Loan
	for _, l := range a.loans {
		if !utils.DateOf(l.Start).After(asOf) {
			loans = append(loans, l)
		}
	}
	if len(loans) == 0 {
		return map[time.Time]float64{}, nil
	}

	return ForwardSchedule(loans[len(loans)-1], movements, RatesFromLoans(loans), asOf)
}

// PaymentDueOn returns the amount due on asOf under the latest loan's minimum
// installment, ignoring the outstanding balance. Zero without a loan.
func (a *AccountLedger) PaymentDueOn(asOf time.Time) (float64, error) {
	if len(a.loans) == 0 {
		return 0, nil
	}
	return PaymentDue(a.loans[len(a.loans)-1], a.movements, asOf)
}
