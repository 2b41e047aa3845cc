// Package ledger holds the in-memory shared-expense book: the set of
// known members and the ordered sequence of recorded expenses.
package ledger

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/splitbook/splitbook/internal/models"
)

// Validation failures returned by the expense builders. Callers match
// with errors.Is; the wrapped message names the offending input.
var (
	ErrUnknownMember  = errors.New("unknown member")
	ErrNoParticipants = errors.New("no participants")
	ErrNoShares       = errors.New("no shares provided")
	ErrBadShareToken  = errors.New("bad share token")
	ErrShareMismatch  = errors.New("share sum does not match amount")
)

// ShareTolerance is the maximum absolute difference allowed between an
// exact-split amount and the sum of its shares.
const ShareTolerance = 0.01

// Book is the ledger aggregate: the member set plus the insertion-ordered
// expense sequence. A Book is owned by a single caller and is not safe
// for concurrent use.
type Book struct {
	members  map[string]struct{}
	expenses []models.Expense
}

// NewBook returns an empty Book.
func NewBook() *Book {
	return &Book{members: make(map[string]struct{})}
}

// AddMember registers a member name. Adding an existing name is a no-op.
func (b *Book) AddMember(name string) {
	b.members[name] = struct{}{}
}

// HasMember reports whether name is a registered member.
func (b *Book) HasMember(name string) bool {
	_, ok := b.members[name]
	return ok
}

// Members returns the registered member names in sorted order.
func (b *Book) Members() []string {
	names := make([]string, 0, len(b.members))
	for name := range b.members {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Expenses returns the recorded expenses in insertion order. The returned
// slice must not be modified.
func (b *Book) Expenses() []models.Expense {
	return b.expenses
}

// Append adds an already-validated expense to the sequence. The builders
// are responsible for validation; Append performs none.
func (b *Book) Append(e models.Expense) {
	b.expenses = append(b.expenses, e)
}

// Reset clears all members and expenses. Used by the loader before
// parsing a persisted book.
func (b *Book) Reset() {
	b.members = make(map[string]struct{})
	b.expenses = nil
}

// BuildEqual constructs an equal-split expense without appending it.
// The amount is divided evenly across participants; a participant named
// more than once accumulates one share per occurrence. Fails fast on the
// first violated precondition.
func (b *Book) BuildEqual(payer string, amount float64, participants []string) (models.Expense, error) {
	if !b.HasMember(payer) {
		return models.Expense{}, fmt.Errorf("%w: payer %q", ErrUnknownMember, payer)
	}
	if len(participants) == 0 {
		return models.Expense{}, ErrNoParticipants
	}
	for _, p := range participants {
		if !b.HasMember(p) {
			return models.Expense{}, fmt.Errorf("%w: participant %q", ErrUnknownMember, p)
		}
	}

	share := amount / float64(len(participants))
	shares := make(map[string]float64, len(participants))
	for _, p := range participants {
		shares[p] += share
	}
	return models.Expense{Payer: payer, Amount: amount, Shares: shares}, nil
}

// BuildExact constructs an exact-split expense from "name:amount" tokens
// without appending it. Shares for repeated names accumulate. The share
// sum must match the amount within ShareTolerance.
func (b *Book) BuildExact(payer string, amount float64, tokens []string) (models.Expense, error) {
	if !b.HasMember(payer) {
		return models.Expense{}, fmt.Errorf("%w: payer %q", ErrUnknownMember, payer)
	}
	if len(tokens) == 0 {
		return models.Expense{}, ErrNoShares
	}

	shares := make(map[string]float64, len(tokens))
	var sum float64
	for _, t := range tokens {
		name, rest, ok := strings.Cut(t, ":")
		if !ok || name == "" {
			return models.Expense{}, fmt.Errorf("%w: %q, expected name:amount", ErrBadShareToken, t)
		}
		s, err := strconv.ParseFloat(rest, 64)
		if err != nil {
			return models.Expense{}, fmt.Errorf("%w: %q, expected name:amount", ErrBadShareToken, t)
		}
		if !b.HasMember(name) {
			return models.Expense{}, fmt.Errorf("%w: participant %q", ErrUnknownMember, name)
		}
		shares[name] += s
		sum += s
	}
	if diff := sum - amount; diff > ShareTolerance || diff < -ShareTolerance {
		return models.Expense{}, fmt.Errorf("%w: shares sum to %.2f, amount is %.2f", ErrShareMismatch, sum, amount)
	}
	return models.Expense{Payer: payer, Amount: amount, Shares: shares}, nil
}

// RecordEqual builds an equal-split expense and appends it. On error the
// book is unchanged.
func (b *Book) RecordEqual(payer string, amount float64, participants []string) (models.Expense, error) {
	e, err := b.BuildEqual(payer, amount, participants)
	if err != nil {
		return models.Expense{}, err
	}
	b.Append(e)
	return e, nil
}

// RecordExact builds an exact-split expense and appends it. On error the
// book is unchanged.
func (b *Book) RecordExact(payer string, amount float64, tokens []string) (models.Expense, error) {
	e, err := b.BuildExact(payer, amount, tokens)
	if err != nil {
		return models.Expense{}, err
	}
	b.Append(e)
	return e, nil
}
