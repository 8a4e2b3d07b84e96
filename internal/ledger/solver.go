package ledger

import (
	"math"

	"github.com/shopspring/decimal"
)

const (
	solverIterations = 50
	solverEpsilon    = 1e-5
	solverTolerance  = 0.01
)

// SolverResult carries the level installment found by the solver along with
// the residual balance its simulation leaves at the end of the loan term.
// Converged is false when that residual still exceeds the tolerance; callers
// must not use the payment in that case.
type SolverResult struct {
	Payment   float64
	Residual  float64
	Converged bool
}

// LevelPayment finds the installment x that amortizes principal over
// durationDays of daily compounding at dailyRate, with x falling due every
// frequencyDays-th day. The residual function simulates the full term day by
// day; the root is approached with a secant-style update (central difference,
// fixed step) run for a fixed iteration budget with no early exit, so equal
// inputs always produce bit-equal outputs.
//
// Convergence is not guaranteed for pathological inputs (non-monotonic
// residual); the Converged flag signals the outcome instead of silently
// returning a bad root.
func LevelPayment(principal float64, durationDays, frequencyDays int, dailyRate float64) SolverResult {
	residual := func(x float64) float64 {
		balance := principal
		for day := 1; day <= durationDays; day++ {
			balance *= 1 + dailyRate
			if day%frequencyDays == 0 {
				balance -= x
			}
		}
		return balance
	}

	x := principal / float64(durationDays) * float64(frequencyDays)
	res := residual(x)
	dx := residual(x+solverEpsilon) - residual(x-solverEpsilon)

	for i := 0; i < solverIterations; i++ {
		x -= solverEpsilon * res / dx
		res = residual(x)
		dx = residual(x+solverEpsilon) - residual(x-solverEpsilon)
	}

	return SolverResult{
		Payment:   x,
		Residual:  res,
		Converged: math.Abs(res) <= solverTolerance,
	}
}

// RoundRepayment rounds a solved installment for use as the contractual
// level repayment: up by half a cent, to 2 decimals. The bias toward
// overpaying amortizes fully rather than stranding a tiny residual balance.
func RoundRepayment(payment float64) decimal.Decimal {
	return decimal.NewFromFloat(payment + 0.005).Round(2)
}
