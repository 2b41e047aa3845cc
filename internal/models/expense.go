package models

// Expense records a payment made by one member on behalf of a group.
// The payer fronted Amount; Shares says how much of it each participant
// owes. The invariant sum(Shares) == Amount holds within 0.01 currency
// units for exact splits and up to floating-point division error for
// equal splits.
type Expense struct {
	// Payer is the member who paid the full amount upfront.
	Payer string

	// Amount is the total paid, in currency units.
	Amount float64

	// Shares maps participant name to the portion that participant owes.
	// A participant named twice at construction time accumulates both
	// shares here.
	Shares map[string]float64
}

// Transaction is a single settlement payment instruction: From pays To
// the given amount to move both balances toward zero.
type Transaction struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Amount float64 `json:"amount"`
}
