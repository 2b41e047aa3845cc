// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/splitbook/splitbook/internal/ledger"
	"github.com/splitbook/splitbook/internal/models"
)

// ErrNotFound reports that a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Store defines the persistence operations the services need. The
// abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	// CreateAccount persists a new account. Fails if the email is taken.
	CreateAccount(ctx context.Context, account *models.Account) error

	// GetAccountByEmail retrieves an account by email address.
	// Returns (nil, nil) if no such account exists.
	GetAccountByEmail(ctx context.Context, email string) (*models.Account, error)

	// GetAccountByID retrieves an account by ID.
	// Returns (nil, nil) if no such account exists.
	GetAccountByID(ctx context.Context, id string) (*models.Account, error)

	// CreateLedger persists a new ledger. The ID and CreatedAt fields
	// are populated by the store.
	CreateLedger(ctx context.Context, l *models.Ledger) error

	// GetLedger retrieves ledger metadata by ID.
	// Returns ErrNotFound if the ledger does not exist.
	GetLedger(ctx context.Context, ledgerID string) (*models.Ledger, error)

	// ListLedgers returns all ledgers owned by the given account,
	// newest first.
	ListLedgers(ctx context.Context, ownerID string) ([]*models.Ledger, error)

	// AddMember registers a member name on a ledger. Adding an existing
	// name is a no-op.
	AddMember(ctx context.Context, ledgerID, name string) error

	// AppendExpense persists an expense and its shares atomically,
	// preserving insertion order.
	AppendExpense(ctx context.Context, ledgerID string, e models.Expense) error

	// LoadBook materializes the full ledger book (members plus expenses
	// in insertion order). Returns ErrNotFound if the ledger does not
	// exist.
	LoadBook(ctx context.Context, ledgerID string) (*ledger.Book, error)

	// Close releases any resources held by the store.
	Close() error
}
