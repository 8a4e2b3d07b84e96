package ledger

import (
	"time"

	"github.com/perchfin/lending-engine/internal/domain"
	"github.com/perchfin/lending-engine/pkg/utils"
)

// BalanceAsOf projects the outstanding balance to asOf. Movements dated after
// asOf are excluded; with no movements left the balance is zero. Otherwise
// the engine alternates between applying all movements sharing the current
// date (subtracting each signed amount) and compounding forward to the next
// movement date, or to asOf once movements run out.
//
// Movements must be sorted by (timestamp, insertion order). Synthetic
// movements are fair game: both schedule projection and balance-as-of reduce
// to compounding an opening movement plus real movements through the rate
// schedule.
func BalanceAsOf(movements []domain.CashMovement, rates []Rate, asOf time.Time) float64 {
	asOf = utils.DateOf(asOf)

	kept := make([]domain.CashMovement, 0, len(movements))
	for _, m := range movements {
		if !utils.DateOf(m.Timestamp).After(asOf) {
			kept = append(kept, m)
		}
	}
	if len(kept) == 0 {
		return 0
	}

	date := utils.DateOf(kept[0].Timestamp)
	balance := 0.0

	for i := 0; i < len(kept); {
		for i < len(kept) && utils.DateOf(kept[i].Timestamp).Equal(date) {
			balance -= kept[i].Amount.InexactFloat64()
			i++
		}
		next := asOf
		if i < len(kept) {
			next = utils.DateOf(kept[i].Timestamp)
		}
		balance = Interpolate(balance, date, next, rates)
		date = next
	}
	return balance
}
