// Package service implements the application services behind the HTTP
// API: account auth and store-backed ledger operations. Balances and
// settlements are recomputed from the stored expense sequence on every
// request; no derived state is persisted.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/splitbook/splitbook/internal/calculator"
	"github.com/splitbook/splitbook/internal/ledger"
	"github.com/splitbook/splitbook/internal/models"
	"github.com/splitbook/splitbook/internal/storage"
)

// ErrEmptyName rejects blank ledger and member names.
var ErrEmptyName = errors.New("name must not be empty")

// LedgerService provides store-backed ledger operations.
type LedgerService struct {
	store storage.Store
}

// NewLedgerService creates a LedgerService with the given storage backend.
func NewLedgerService(store storage.Store) *LedgerService {
	return &LedgerService{store: store}
}

// CreateLedger creates a new ledger owned by the given account.
func (s *LedgerService) CreateLedger(ctx context.Context, ownerID, name string) (*models.Ledger, error) {
	if name == "" {
		return nil, fmt.Errorf("ledger: %w", ErrEmptyName)
	}
	l := &models.Ledger{OwnerID: ownerID, Name: name}
	if err := s.store.CreateLedger(ctx, l); err != nil {
		return nil, err
	}
	slog.Info("Ledger created", "ledger_id", l.ID, "owner_id", ownerID)
	return l, nil
}

// ListLedgers returns the ledgers owned by the given account.
func (s *LedgerService) ListLedgers(ctx context.Context, ownerID string) ([]*models.Ledger, error) {
	return s.store.ListLedgers(ctx, ownerID)
}

// AddMember registers a member name on a ledger the caller owns.
// Re-adding an existing member is a no-op.
func (s *LedgerService) AddMember(ctx context.Context, callerID, ledgerID, name string) error {
	if _, err := s.ownedLedger(ctx, callerID, ledgerID); err != nil {
		return err
	}
	if name == "" {
		return fmt.Errorf("member: %w", ErrEmptyName)
	}
	return s.store.AddMember(ctx, ledgerID, name)
}

// RecordEqual validates and persists an equal-split expense. The ledger
// is left untouched if any precondition fails.
func (s *LedgerService) RecordEqual(ctx context.Context, callerID, ledgerID, payer string, amount float64, participants []string) (models.Expense, error) {
	book, err := s.ownedBook(ctx, callerID, ledgerID)
	if err != nil {
		return models.Expense{}, err
	}
	e, err := book.BuildEqual(payer, amount, participants)
	if err != nil {
		return models.Expense{}, err
	}
	if err := s.store.AppendExpense(ctx, ledgerID, e); err != nil {
		return models.Expense{}, err
	}
	return e, nil
}

// RecordExact validates and persists an exact-split expense built from
// "name:amount" tokens.
func (s *LedgerService) RecordExact(ctx context.Context, callerID, ledgerID, payer string, amount float64, tokens []string) (models.Expense, error) {
	book, err := s.ownedBook(ctx, callerID, ledgerID)
	if err != nil {
		return models.Expense{}, err
	}
	e, err := book.BuildExact(payer, amount, tokens)
	if err != nil {
		return models.Expense{}, err
	}
	if err := s.store.AppendExpense(ctx, ledgerID, e); err != nil {
		return models.Expense{}, err
	}
	return e, nil
}

// Balances recomputes the net balance of every member of the ledger.
func (s *LedgerService) Balances(ctx context.Context, callerID, ledgerID string) (map[string]float64, error) {
	book, err := s.ownedBook(ctx, callerID, ledgerID)
	if err != nil {
		return nil, err
	}
	return calculator.NetBalances(book.Members(), book.Expenses()), nil
}

// Settlement recomputes the settlement plan for the ledger.
func (s *LedgerService) Settlement(ctx context.Context, callerID, ledgerID string) ([]models.Transaction, error) {
	net, err := s.Balances(ctx, callerID, ledgerID)
	if err != nil {
		return nil, err
	}
	return calculator.Settle(net), nil
}

// ownedLedger fetches ledger metadata and checks ownership. A ledger
// owned by someone else reads as not found so existence does not leak.
func (s *LedgerService) ownedLedger(ctx context.Context, callerID, ledgerID string) (*models.Ledger, error) {
	l, err := s.store.GetLedger(ctx, ledgerID)
	if err != nil {
		return nil, err
	}
	if l.OwnerID != callerID {
		return nil, fmt.Errorf("ledger %s: %w", ledgerID, storage.ErrNotFound)
	}
	return l, nil
}

func (s *LedgerService) ownedBook(ctx context.Context, callerID, ledgerID string) (*ledger.Book, error) {
	if _, err := s.ownedLedger(ctx, callerID, ledgerID); err != nil {
		return nil, err
	}
	return s.store.LoadBook(ctx, ledgerID)
}
