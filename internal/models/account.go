package models

import (
	"time"

	"github.com/google/uuid"
)

// Account is a registered API account. Accounts authenticate against the
// HTTP service and own ledgers; they are distinct from ledger members,
// which are plain name strings.
type Account struct {
	// ID is the unique identifier for the account (UUID format).
	ID string

	// Email is the account's email address (unique, used for login).
	Email string

	// DisplayName is the human-readable name shown in responses.
	DisplayName string

	// PasswordHash is the bcrypt hash of the account password.
	PasswordHash string

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last account update.
	UpdatedAt int64
}

// NewAccount creates an Account with a fresh ID and timestamps.
func NewAccount(email, displayName, passwordHash string) *Account {
	now := time.Now().Unix()
	return &Account{
		ID:           uuid.New().String(),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Ledger is the stored metadata for one shared-expense book.
type Ledger struct {
	// ID is the unique identifier for the ledger (UUID format).
	ID string

	// OwnerID is the account that created the ledger.
	OwnerID string

	// Name is the display name (e.g. "Roommates", "Ski Trip").
	Name string

	// CreatedAt is the Unix timestamp when the ledger was created.
	CreatedAt int64
}
