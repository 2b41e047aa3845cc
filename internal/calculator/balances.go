// Package calculator derives net balances and settlement plans from a
// recorded expense sequence. Both computations are pure: they read their
// inputs, keep no state, and return the same output for the same ledger.
package calculator

import (
	"math"

	"github.com/splitbook/splitbook/internal/models"
)

// zeroClamp snaps balances within this distance of zero to exactly 0,
// suppressing accumulated floating-point noise.
const zeroClamp = 1e-9

// NetBalances folds the expense sequence into a signed net balance per
// member. Positive means the member is owed money, negative means the
// member owes. Every registered member appears in the result, members
// with no expenses at 0. The fold is commutative, so expense order does
// not affect the outcome.
func NetBalances(members []string, expenses []models.Expense) map[string]float64 {
	net := make(map[string]float64, len(members))
	for _, m := range members {
		net[m] = 0
	}

	for _, e := range expenses {
		// The payer fronted the whole amount.
		net[e.Payer] += e.Amount
		// Each participant owes their share.
		for name, share := range e.Shares {
			net[name] -= share
		}
	}

	for name, amt := range net {
		if math.Abs(amt) < zeroClamp {
			net[name] = 0
		}
	}
	return net
}
