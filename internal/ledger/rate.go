package ledger

import (
	"math"
	"sort"
	"time"

	"github.com/perchfin/lending-engine/internal/domain"
	"github.com/perchfin/lending-engine/pkg/utils"
)

// Rate is one entry of the daily interest schedule: the per-day compounding
// rate in force from Date until the next entry.
type Rate struct {
	Date  time.Time
	Daily float64
}

// RatesFromLoans derives the rate schedule from loan originations. Each
// loan's start date maps to its daily rate; when two loans originate on the
// same date the later-observed rate wins. Last-write-wins is the contract
// here, not averaging. Entries come back sorted ascending by date.
func RatesFromLoans(loans []domain.Loan) []Rate {
	byDate := make(map[time.Time]float64, len(loans))
	for _, loan := range loans {
		byDate[utils.DateOf(loan.Start)] = loan.DailyRate
	}

	rates := make([]Rate, 0, len(byDate))
	for date, daily := range byDate {
		rates = append(rates, Rate{Date: date, Daily: daily})
	}
	sort.Slice(rates, func(i, j int) bool {
		return rates[i].Date.Before(rates[j].Date)
	})
	return rates
}

// Interpolate compounds balance from one date to another through every rate
// regime in between. A synthetic zero-rate entry at the target date closes
// the final interval; entries at or after the target date contribute nothing,
// as do entries whose interval ends before the starting date. Same-day
// windows contribute zero compounding.
//
// This is daily-compounding, piecewise-constant-rate accrual rather than a
// closed-form blended rate, because the regime can change mid-interval.
func Interpolate(balance float64, from, to time.Time, rates []Rate) float64 {
	from, to = utils.DateOf(from), utils.DateOf(to)

	kept := make([]Rate, 0, len(rates)+1)
	for _, r := range rates {
		if r.Date.Before(to) {
			kept = append(kept, r)
		}
	}
	kept = append(kept, Rate{Date: to})

	for i := 0; i+1 < len(kept); i++ {
		lower := kept[i].Date
		if from.After(lower) {
			lower = from
		}
		if dur := utils.DaysBetween(lower, kept[i+1].Date); dur > 0 {
			balance *= math.Pow(1+kept[i].Daily, float64(dur))
		}
	}
	return balance
}
