// Package models defines the core domain models for splitbook.
//
// Ledger members are opaque name strings: a member has no attributes
// beyond its name and is never removed once registered. Accounts are a
// separate concept — they identify API callers, own ledgers, and carry
// credentials; account holders and ledger members are deliberately not
// linked, so a ledger can track people who never log in.
//
// Expenses are immutable once constructed and live in an insertion-ordered
// sequence. Balances and settlement transactions are derived values and
// are never stored.
package models
