package ledger

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/perchfin/lending-engine/internal/domain"
	customError "github.com/perchfin/lending-engine/pkg/errors"
	"github.com/perchfin/lending-engine/pkg/utils"
)

const (
	// balanceTolerance is the residual below which a loan counts as repaid.
	balanceTolerance = 0.01

	// maxSchedulePeriods caps schedule generation. A rate/repayment
	// combination where the installment never beats the accrual would
	// otherwise loop forever.
	maxSchedulePeriods = 10000
)

type scheduleEntry struct {
	date   time.Time
	amount float64
}

// ForwardSchedule produces the forward repayment schedule for a loan: a map
// from due date to the total amount falling due that date, restricted to
// dates on or after asOf. Amounts land on period-end boundaries walked
// forward from the loan start in repayment-frequency steps.
//
// Each period the generator treats the running balance as a synthetic
// movement at the period start, compounds it through the period together
// with the real movements inside the period, and schedules
// min(max(level - paidThisPeriod, 0), projectedBalance) at the period end:
// never more than is owed, never less than the installment net of what was
// already paid.
func ForwardSchedule(loan domain.Loan, movements []domain.CashMovement, rates []Rate, asOf time.Time) (map[time.Time]float64, error) {
	asOf = utils.DateOf(asOf)
	frequency := loan.RepaymentFrequencyDays
	minRepayment := loan.LevelRepayment.InexactFloat64()

	prevDate := utils.DateOf(loan.Start)
	curDate := utils.AddDays(prevDate, frequency)
	for curDate.Before(asOf) {
		prevDate = curDate
		curDate = utils.AddDays(curDate, frequency)
	}
	balance := BalanceAsOf(movements, rates, prevDate)

	var entries []scheduleEntry
	for periods := 0; balance > balanceTolerance; periods++ {
		if periods >= maxSchedulePeriods {
			return nil, customError.WrapScheduleOverflow(maxSchedulePeriods)
		}

		_, present, future, err := SplitByPeriod(prevDate, curDate, movements)
		if err != nil {
			return nil, err
		}

		paidThisPeriod := 0.0
		for _, m := range present {
			paidThisPeriod += m.Amount.InexactFloat64()
		}

		opening := domain.CashMovement{
			Timestamp: prevDate,
			Amount:    decimal.NewFromFloat(-balance),
		}
		window := append([]domain.CashMovement{opening}, present...)
		balance = BalanceAsOf(window, rates, curDate)

		repayment := utils.Round2(math.Min(math.Max(minRepayment-paidThisPeriod, 0), balance))
		balance -= repayment

		for _, m := range present {
			entries = append(entries, scheduleEntry{utils.DateOf(m.Timestamp), m.Amount.InexactFloat64()})
		}
		if repayment > 0 {
			entries = append(entries, scheduleEntry{curDate, repayment})
		}

		movements = future
		prevDate = curDate
		curDate = utils.AddDays(curDate, frequency)
	}

	schedule := make(map[time.Time]float64)
	for _, e := range entries {
		if !e.date.Before(asOf) {
			schedule[e.date] += e.amount
		}
	}
	return schedule, nil
}

// PaymentDue returns the amount due on asOf under the loan's minimum
// installment, given the repayments recorded so far. Shortfalls accumulate
// period by period but never go negative; when asOf lands exactly on a
// period boundary the current installment falls due as well. The result is
// not clipped by the outstanding balance.
func PaymentDue(loan domain.Loan, movements []domain.CashMovement, asOf time.Time) (float64, error) {
	asOf = utils.DateOf(asOf)
	minRepayment := loan.LevelRepayment.InexactFloat64()

	unpaid := 0.0
	prevDate := utils.DateOf(loan.Start)
	curDate := utils.AddDays(prevDate, loan.RepaymentFrequencyDays)

	for curDate.Before(asOf) {
		_, present, future, err := SplitByPeriod(prevDate, curDate, movements)
		if err != nil {
			return 0, err
		}
		paidThisPeriod := 0.0
		for _, m := range present {
			paidThisPeriod += m.Amount.InexactFloat64()
		}

		unpaid = math.Max(0, unpaid+minRepayment-paidThisPeriod)

		movements = future
		prevDate = curDate
		curDate = utils.AddDays(curDate, loan.RepaymentFrequencyDays)
	}

	if curDate.Equal(asOf) {
		return unpaid + minRepayment, nil
	}
	return unpaid, nil
}
