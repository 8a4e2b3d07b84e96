package domain

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Movement kinds
const (
	MovementFunding   = "funding"
	MovementRepayment = "repayment"
	MovementFee       = "fee"
)

// CashMovement is a single signed cash event against an account. Positive
// amounts reduce the outstanding balance (inbound repayments and fee
// credits); negative amounts increase it (disbursements, assessed fees).
// Reference is globally unique and used to de-duplicate against the bank
// statement feed.
type CashMovement struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	AccountID uuid.UUID       `json:"account_id" db:"account_id"`
	Timestamp time.Time       `json:"timestamp" db:"occurred_at"`
	Amount    decimal.Decimal `json:"amount" db:"amount"`
	Kind      string          `json:"kind" db:"kind"`
	Reference string          `json:"reference" db:"reference"`
}

// InsertMovement inserts m into a timestamp-sorted slice, keeping it sorted.
// Equal timestamps keep insertion order, which is the tiebreak contract for
// movement ordering.
func InsertMovement(sorted []CashMovement, m CashMovement) []CashMovement {
	i := sort.Search(len(sorted), func(i int) bool {
		return sorted[i].Timestamp.After(m.Timestamp)
	})
	sorted = append(sorted, CashMovement{})
	copy(sorted[i+1:], sorted[i:])
	sorted[i] = m
	return sorted
}

// SortMovements re-establishes the (timestamp, insertion order) ordering on a
// slice loaded in unknown order.
func SortMovements(movements []CashMovement) {
	sort.SliceStable(movements, func(i, j int) bool {
		return movements[i].Timestamp.Before(movements[j].Timestamp)
	})
}
