package calculator

import (
	"container/heap"
	"math"

	"github.com/splitbook/splitbook/internal/models"
)

// Epsilon is the tolerance below which a balance or payment is treated
// as already settled.
const Epsilon = 1e-6

type party struct {
	name   string
	amount float64
}

// creditorHeap pops the largest outstanding credit first.
type creditorHeap []party

func (h creditorHeap) Len() int { return len(h) }
func (h creditorHeap) Less(i, j int) bool { return h[i].amount > h[j].amount }
func (h creditorHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *creditorHeap) Push(x any) { *h = append(*h, x.(party)) }
func (h *creditorHeap) Pop() any {
	old := *h
	n := len(old)
	p := old[n-1]
	*h = old[:n-1]
	return p
}

// debtorHeap pops the most negative balance (largest debt) first.
type debtorHeap []party

func (h debtorHeap) Len() int { return len(h) }
func (h debtorHeap) Less(i, j int) bool { return h[i].amount < h[j].amount }
func (h debtorHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *debtorHeap) Push(x any) { *h = append(*h, x.(party)) }
func (h *debtorHeap) Pop() any {
	old := *h
	n := len(old)
	p := old[n-1]
	*h = old[:n-1]
	return p
}

// Settle turns a net-balance mapping into an ordered list of payment
// instructions using greedy largest-creditor/largest-debtor matching.
// Members within Epsilon of zero are excluded up front. Each step pairs
// the largest remaining credit with the largest remaining debt, pays the
// smaller of the two, and reinserts whichever side still has a residual
// above Epsilon. Tie-breaking between equal balances is arbitrary.
//
// The result has at most creditors+debtors-1 transactions, and applying
// it back to the input balances drives every member to within Epsilon of
// zero. Greedy matching is a heuristic, not a provably minimal plan.
func Settle(net map[string]float64) []models.Transaction {
	var creditors creditorHeap
	var debtors debtorHeap
	for name, amt := range net {
		switch {
		case amt > Epsilon:
			creditors = append(creditors, party{name: name, amount: amt})
		case amt < -Epsilon:
			debtors = append(debtors, party{name: name, amount: amt})
		}
	}
	heap.Init(&creditors)
	heap.Init(&debtors)

	var txns []models.Transaction
	for creditors.Len() > 0 && debtors.Len() > 0 {
		c := heap.Pop(&creditors).(party)
		d := heap.Pop(&debtors).(party)

		pay := math.Min(c.amount, -d.amount)
		if pay > Epsilon {
			txns = append(txns, models.Transaction{From: d.name, To: c.name, Amount: pay})
		}
		c.amount -= pay
		d.amount += pay

		if c.amount > Epsilon {
			heap.Push(&creditors, c)
		}
		if d.amount < -Epsilon {
			heap.Push(&debtors, d)
		}
	}
	return txns
}
