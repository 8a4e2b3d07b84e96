package domain

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Loan is one disbursement event. Immutable after creation. OpeningBalance
// includes any balance carried over from earlier loans plus the assessed fee.
type Loan struct {
	ID                     uuid.UUID       `json:"id" db:"id"`
	AccountID              uuid.UUID       `json:"account_id" db:"account_id"`
	Start                  time.Time       `json:"start" db:"start_at"`
	OpeningBalance         decimal.Decimal `json:"opening_balance" db:"opening_balance"`
	DurationDays           int             `json:"duration_days" db:"duration_days"`
	DailyRate              float64         `json:"daily_rate" db:"daily_rate"`
	RepaymentFrequencyDays int             `json:"repayment_frequency_days" db:"repayment_frequency_days"`
	LevelRepayment         decimal.Decimal `json:"level_repayment" db:"level_repayment"`
	CreatedAt              time.Time       `json:"created_at" db:"created_at"`
}

// InsertLoan inserts l into a start-sorted slice, keeping it sorted.
func InsertLoan(sorted []Loan, l Loan) []Loan {
	i := sort.Search(len(sorted), func(i int) bool {
		return sorted[i].Start.After(l.Start)
	})
	sorted = append(sorted, Loan{})
	copy(sorted[i+1:], sorted[i:])
	sorted[i] = l
	return sorted
}

// SortLoans re-establishes start ordering on a slice loaded in unknown order.
func SortLoans(loans []Loan) {
	sort.SliceStable(loans, func(i, j int) bool {
		return loans[i].Start.Before(loans[j].Start)
	})
}
