package ledger

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/perchfin/lending-engine/internal/domain"
)

func signedMovement(dayOffset int, amount float64) domain.CashMovement {
	return domain.CashMovement{
		Timestamp: day(dayOffset),
		Amount:    decimal.NewFromFloat(amount),
	}
}

func TestBalanceAsOf(t *testing.T) {
	movements := []domain.CashMovement{
		signedMovement(0, -1000), // funding
		signedMovement(20, 200),  // repayment
		signedMovement(30, 300),
		signedMovement(30, 250),
		signedMovement(40, -100), // further funding
		signedMovement(40, 50),
	}
	rates := []Rate{
		{Date: day(-5), Daily: 0.005},
		{Date: day(0), Daily: 0.004},
		{Date: day(50), Daily: 0},
		{Date: day(100), Daily: 0.001},
	}

	balance20 := 1000*math.Pow(1.004, 20) - 200
	balance30 := balance20*math.Pow(1.004, 10) - 550
	balance40 := balance30*math.Pow(1.004, 10) + 100 - 50
	balance60 := balance40 * math.Pow(1.004, 10)

	tests := []struct {
		name     string
		asOfDay  int
		expected float64
	}{
		{"funding day", 0, 1000},
		{"mid first regime", 10, 1000 * math.Pow(1.004, 10)},
		{"first repayment day", 20, balance20},
		{"two repayments same day", 30, balance30},
		{"mixed movements same day", 40, balance40},
		{"zero-rate regime", 60, balance60},
		{"rate resumes", 110, balance60 * math.Pow(1.001, 10)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BalanceAsOf(movements, rates, day(tt.asOfDay))
			assert.InDelta(t, tt.expected, got, 1e-9)
		})
	}
}

func TestBalanceAsOfNoMovements(t *testing.T) {
	rates := []Rate{{Date: day(0), Daily: 0.004}}

	assert.Zero(t, BalanceAsOf(nil, rates, day(10)))
}

func TestBalanceAsOfBeforeFirstMovement(t *testing.T) {
	movements := []domain.CashMovement{signedMovement(0, -1000)}
	rates := []Rate{{Date: day(0), Daily: 0.004}}

	assert.Zero(t, BalanceAsOf(movements, rates, day(-1)))
}

func TestBalanceAsOfExcludesFutureMovements(t *testing.T) {
	movements := []domain.CashMovement{
		signedMovement(0, -1000),
		signedMovement(30, 500),
	}
	rates := []Rate{{Date: day(0), Daily: 0.004}}

	got := BalanceAsOf(movements, rates, day(10))
	assert.InDelta(t, 1000*math.Pow(1.004, 10), got, 1e-9)
}
