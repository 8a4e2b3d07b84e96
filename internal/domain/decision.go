package domain

import (
	"database/sql"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Decision statuses
const (
	DecisionApproved = "Approved"
	DecisionDeclined = "Declined"
)

// Decision is one credit decision. Term fields are null for declined
// decisions. A decision is active at time t when t falls strictly after
// IssuedAt minus the validity window and on-or-before IssuedAt.
type Decision struct {
	ID                     uuid.UUID           `json:"id" db:"id"`
	AccountID              uuid.UUID           `json:"account_id" db:"account_id"`
	Status                 string              `json:"status" db:"status"`
	IssuedAt               time.Time           `json:"issued_at" db:"issued_at"`
	Amount                 decimal.NullDecimal `json:"amount" db:"amount"`
	DailyRate              sql.NullFloat64     `json:"daily_rate" db:"daily_rate"`
	DurationDays           sql.NullInt64       `json:"duration_days" db:"duration_days"`
	RepaymentFrequencyDays sql.NullInt64       `json:"repayment_frequency_days" db:"repayment_frequency_days"`
	FeeRate                sql.NullFloat64     `json:"fee_rate" db:"fee_rate"`
	FeeAmount              decimal.NullDecimal `json:"fee_amount" db:"fee_amount"`
}

// NewApprovedDecision builds an approved decision with the given terms.
func NewApprovedDecision(accountID uuid.UUID, at time.Time, amount decimal.Decimal, dailyRate float64, durationDays, frequencyDays int, feeRate float64, feeAmount decimal.Decimal) Decision {
	return Decision{
		ID:                     uuid.New(),
		AccountID:              accountID,
		Status:                 DecisionApproved,
		IssuedAt:               at,
		Amount:                 decimal.NewNullDecimal(amount),
		DailyRate:              sql.NullFloat64{Float64: dailyRate, Valid: true},
		DurationDays:           sql.NullInt64{Int64: int64(durationDays), Valid: true},
		RepaymentFrequencyDays: sql.NullInt64{Int64: int64(frequencyDays), Valid: true},
		FeeRate:                sql.NullFloat64{Float64: feeRate, Valid: true},
		FeeAmount:              decimal.NewNullDecimal(feeAmount),
	}
}

// NewDeclinedDecision builds a declined decision. All term fields stay null.
func NewDeclinedDecision(accountID uuid.UUID, at time.Time) Decision {
	return Decision{
		ID:        uuid.New(),
		AccountID: accountID,
		Status:    DecisionDeclined,
		IssuedAt:  at,
	}
}

// Approved reports whether the decision grants credit.
func (d *Decision) Approved() bool {
	return d.Status == DecisionApproved
}

// InsertDecision inserts d into an issued-at-sorted slice, keeping it sorted.
func InsertDecision(sorted []Decision, d Decision) []Decision {
	i := sort.Search(len(sorted), func(i int) bool {
		return sorted[i].IssuedAt.After(d.IssuedAt)
	})
	sorted = append(sorted, Decision{})
	copy(sorted[i+1:], sorted[i:])
	sorted[i] = d
	return sorted
}

// SortDecisions re-establishes issued-at ordering on a slice loaded in
// unknown order.
func SortDecisions(decisions []Decision) {
	sort.SliceStable(decisions, func(i, j int) bool {
		return decisions[i].IssuedAt.Before(decisions[j].IssuedAt)
	})
}
