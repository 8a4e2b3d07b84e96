package ledger

import (
	"sort"
	"time"

	"github.com/perchfin/lending-engine/internal/domain"
	customError "github.com/perchfin/lending-engine/pkg/errors"
	"github.com/perchfin/lending-engine/pkg/utils"
)

// SplitByPeriod splits a date-sorted movement slice into three: strictly
// before the period, inside it, and strictly after. A movement is inside the
// period when its date lies in (periodStart, periodEnd]: start exclusive,
// end inclusive. The concatenation of the three slices is the input.
//
// Boundaries are located by binary search since movements are pre-sorted.
func SplitByPeriod(periodStart, periodEnd time.Time, movements []domain.CashMovement) (before, during, after []domain.CashMovement, err error) {
	start, end := utils.DateOf(periodStart), utils.DateOf(periodEnd)
	if !end.After(start) {
		return nil, nil, nil, customError.ErrInvalidPeriod
	}

	s := sort.Search(len(movements), func(i int) bool {
		return utils.DateOf(movements[i].Timestamp).After(start)
	})
	e := sort.Search(len(movements), func(i int) bool {
		return utils.DateOf(movements[i].Timestamp).After(end)
	})

	return movements[:s], movements[s:e], movements[e:], nil
}
