package ledger

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/perchfin/lending-engine/internal/domain"
	"github.com/perchfin/lending-engine/pkg/utils"
)

var rateBase = time.Date(2020, 1, 10, 0, 0, 0, 0, time.UTC)

func day(n int) time.Time {
	return rateBase.AddDate(0, 0, n)
}

func loanStarting(dayOffset, hour int, dailyRate float64) domain.Loan {
	return domain.Loan{
		Start:     day(dayOffset).Add(time.Duration(hour) * time.Hour),
		DailyRate: dailyRate,
	}
}

func TestRatesFromLoans(t *testing.T) {
	loans := []domain.Loan{
		loanStarting(0, 0, 0.001),
		loanStarting(5, 1, 0.002),
		loanStarting(5, 2, 0.004),
		loanStarting(10, 0, 0.003),
	}

	rates := RatesFromLoans(loans)

	assert.Len(t, rates, 3)
	assert.Equal(t, Rate{Date: day(0), Daily: 0.001}, rates[0])
	// Two originations on the same date: the later one wins.
	assert.Equal(t, Rate{Date: day(5), Daily: 0.004}, rates[1])
	assert.Equal(t, Rate{Date: day(10), Daily: 0.003}, rates[2])
}

func TestRatesFromLoansEmpty(t *testing.T) {
	assert.Empty(t, RatesFromLoans(nil))
}

func TestInterpolateSingleRate(t *testing.T) {
	rates := []Rate{{Date: day(0), Daily: 0.003}}

	got := Interpolate(100, day(0), day(60), rates)
	assert.InDelta(t, 100*math.Pow(1.003, 60), got, 1e-9)
}

func TestInterpolateNoRates(t *testing.T) {
	assert.InDelta(t, 100, Interpolate(100, day(0), day(60), nil), 1e-9)
}

func TestInterpolateRateStartsInFuture(t *testing.T) {
	rates := []Rate{{Date: day(60), Daily: 0.003}}
	assert.InDelta(t, 100, Interpolate(100, day(0), day(60), rates), 1e-9)
}

func TestInterpolateRateStartsMidWindow(t *testing.T) {
	rates := []Rate{{Date: day(50), Daily: 0.003}}

	got := Interpolate(100, day(0), day(60), rates)
	assert.InDelta(t, 100*math.Pow(1.003, 10), got, 1e-9)
}

func TestInterpolateSingleDay(t *testing.T) {
	rates := []Rate{{Date: day(0), Daily: 0.003}}

	got := Interpolate(100, day(59), day(60), rates)
	assert.InDelta(t, 100*1.003, got, 1e-9)
}

func TestInterpolateSameDay(t *testing.T) {
	rates := []Rate{{Date: day(0), Daily: 0.003}}

	assert.InDelta(t, 100, Interpolate(100, day(0), day(0), rates), 1e-9)
	assert.InDelta(t, 100, Interpolate(100, day(5), day(5), rates), 1e-9)
}

func TestInterpolateAcrossRegimes(t *testing.T) {
	rates := []Rate{
		{Date: day(0), Daily: 0.003},
		{Date: day(10), Daily: 0.004},
		{Date: day(15), Daily: 0.007},
		{Date: day(20), Daily: 0.001},
	}

	got := Interpolate(200, day(4), day(24), rates)
	want := 200 *
		math.Pow(1.003, 6) *
		math.Pow(1.004, 5) *
		math.Pow(1.007, 5) *
		math.Pow(1.001, 4)
	assert.InDelta(t, want, got, 1e-9)
}

func TestInterpolateTruncatesTimestamps(t *testing.T) {
	rates := []Rate{{Date: day(0), Daily: 0.003}}

	from := day(0).Add(15*time.Hour + 23*time.Minute)
	to := day(10).Add(3 * time.Hour)
	got := Interpolate(100, from, to, rates)
	assert.InDelta(t, 100*math.Pow(1.003, 10), got, 1e-9)

	assert.Equal(t, utils.DateOf(from), day(0))
}
