package ledger

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/perchfin/lending-engine/internal/domain"
	customError "github.com/perchfin/lending-engine/pkg/errors"
	"github.com/perchfin/lending-engine/pkg/utils"
)

func standardLoan(start time.Time) domain.Loan {
	return domain.Loan{
		ID:                     uuid.New(),
		Start:                  start,
		OpeningBalance:         decimal.NewFromInt(7500),
		DurationDays:           360,
		DailyRate:              0.0005,
		RepaymentFrequencyDays: 30,
		LevelRepayment:         decimal.NewFromInt(690),
	}
}

func TestForwardScheduleFullTerm(t *testing.T) {
	start := time.Date(2018, 5, 1, 15, 23, 0, 0, time.UTC)
	loan := standardLoan(start)

	opening := domain.CashMovement{
		Timestamp: start,
		Amount:    decimal.NewFromInt(-7500),
	}
	rates := []Rate{{Date: utils.DateOf(start), Daily: 0.0005}}

	schedule, err := ForwardSchedule(loan, []domain.CashMovement{opening}, rates, utils.DateOf(start))
	require.NoError(t, err)
	require.Len(t, schedule, 12)

	startDate := utils.DateOf(start)
	for period := 1; period <= 11; period++ {
		due := utils.AddDays(startDate, 30*period)
		assert.InDelta(t, 690.0, schedule[due], 1e-9, "period %d", period)
	}
	// The closing installment is clipped to the remaining balance.
	assert.InDelta(t, 664.79, schedule[utils.AddDays(startDate, 360)], 1e-9)
}

func TestForwardScheduleMidTerm(t *testing.T) {
	start := time.Date(2018, 5, 1, 15, 23, 0, 0, time.UTC)
	loan := standardLoan(start)
	startDate := utils.DateOf(start)

	movements := []domain.CashMovement{
		{Timestamp: start, Amount: decimal.NewFromInt(-7500)},
		{Timestamp: utils.AddDays(startDate, 30), Amount: decimal.NewFromInt(690)},
		{Timestamp: utils.AddDays(startDate, 60), Amount: decimal.NewFromInt(690)},
	}
	rates := []Rate{{Date: startDate, Daily: 0.0005}}

	schedule, err := ForwardSchedule(loan, movements, rates, utils.AddDays(startDate, 61))
	require.NoError(t, err)

	// Recorded repayments cover the first two periods; only the remaining
	// ten installments are projected forward.
	require.Len(t, schedule, 10)
	assert.NotContains(t, schedule, utils.AddDays(startDate, 30))
	assert.NotContains(t, schedule, utils.AddDays(startDate, 60))
	for period := 3; period <= 11; period++ {
		due := utils.AddDays(startDate, 30*period)
		assert.InDelta(t, 690.0, schedule[due], 1e-9, "period %d", period)
	}
	assert.InDelta(t, 664.79, schedule[utils.AddDays(startDate, 360)], 1e-9)
}

func TestForwardSchedulePartialPaymentTopsUp(t *testing.T) {
	start := time.Date(2018, 5, 1, 0, 0, 0, 0, time.UTC)
	loan := standardLoan(start)
	startDate := utils.DateOf(start)

	// A 200 repayment lands mid-period: the period-end installment drops to
	// the 490 shortfall.
	movements := []domain.CashMovement{
		{Timestamp: start, Amount: decimal.NewFromInt(-7500)},
		{Timestamp: utils.AddDays(startDate, 10), Amount: decimal.NewFromInt(200)},
	}
	rates := []Rate{{Date: startDate, Daily: 0.0005}}

	schedule, err := ForwardSchedule(loan, movements, rates, utils.AddDays(startDate, 11))
	require.NoError(t, err)

	assert.InDelta(t, 490.0, schedule[utils.AddDays(startDate, 30)], 1e-9)
}

func TestForwardScheduleOverpaymentDoesNotGoNegative(t *testing.T) {
	start := time.Date(2018, 5, 1, 0, 0, 0, 0, time.UTC)
	loan := standardLoan(start)
	startDate := utils.DateOf(start)

	movements := []domain.CashMovement{
		{Timestamp: start, Amount: decimal.NewFromInt(-7500)},
		{Timestamp: utils.AddDays(startDate, 10), Amount: decimal.NewFromInt(900)},
	}
	rates := []Rate{{Date: startDate, Daily: 0.0005}}

	schedule, err := ForwardSchedule(loan, movements, rates, utils.AddDays(startDate, 11))
	require.NoError(t, err)

	// Nothing extra falls due at the first boundary.
	assert.NotContains(t, schedule, utils.AddDays(startDate, 30))
}

func TestForwardScheduleOverflow(t *testing.T) {
	start := time.Date(2018, 5, 1, 0, 0, 0, 0, time.UTC)
	loan := standardLoan(start)
	// An installment that never beats the accrual would walk forever.
	loan.LevelRepayment = decimal.Zero

	opening := domain.CashMovement{
		Timestamp: start,
		Amount:    decimal.NewFromInt(-7500),
	}
	rates := []Rate{{Date: utils.DateOf(start), Daily: 0.0005}}

	_, err := ForwardSchedule(loan, []domain.CashMovement{opening}, rates, utils.DateOf(start))
	assert.ErrorIs(t, err, customError.ErrScheduleOverflow)
}

func TestPaymentDue(t *testing.T) {
	start := time.Date(2018, 5, 1, 0, 0, 0, 0, time.UTC)
	loan := standardLoan(start)
	startDate := utils.DateOf(start)

	movements := []domain.CashMovement{
		{Timestamp: start, Amount: decimal.NewFromInt(-7500)},
		{Timestamp: utils.AddDays(startDate, 30), Amount: decimal.NewFromInt(690)},
		{Timestamp: utils.AddDays(startDate, 55), Amount: decimal.NewFromInt(200)},
	}

	tests := []struct {
		name     string
		asOfDay  int
		expected float64
	}{
		{"before first boundary", 15, 0},
		{"on boundary installment falls due", 30, 690},
		{"paid period leaves nothing", 35, 0},
		{"shortfall accumulates", 65, 490},
		{"shortfall plus boundary installment", 90, 490 + 690},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			due, err := PaymentDue(loan, movements, utils.AddDays(startDate, tt.asOfDay))
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, due, 1e-9)
		})
	}
}

func TestPaymentDueOverpaymentDoesNotCarryCredit(t *testing.T) {
	start := time.Date(2018, 5, 1, 0, 0, 0, 0, time.UTC)
	loan := standardLoan(start)
	startDate := utils.DateOf(start)

	movements := []domain.CashMovement{
		{Timestamp: start, Amount: decimal.NewFromInt(-7500)},
		{Timestamp: utils.AddDays(startDate, 20), Amount: decimal.NewFromInt(2000)},
	}

	due, err := PaymentDue(loan, movements, utils.AddDays(startDate, 60))
	require.NoError(t, err)

	// The overpayment clears its own period but does not prepay the next.
	assert.InDelta(t, 690, due, 1e-9)
}
