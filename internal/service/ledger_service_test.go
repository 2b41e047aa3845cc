package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/splitbook/splitbook/internal/ledger"
	"github.com/splitbook/splitbook/internal/models"
	"github.com/splitbook/splitbook/internal/storage"
	"github.com/splitbook/splitbook/internal/storage/sqlite"
)

func setupLedgerService(t *testing.T) (*LedgerService, *models.Account) {
	t.Helper()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	account := models.NewAccount("owner@example.com", "Owner", "hash")
	require.NoError(t, store.CreateAccount(context.Background(), account))

	return NewLedgerService(store), account
}

func TestLedgerLifecycle(t *testing.T) {
	svc, owner := setupLedgerService(t)
	ctx := context.Background()

	l, err := svc.CreateLedger(ctx, owner.ID, "Ski Trip")
	require.NoError(t, err)
	require.NotEmpty(t, l.ID)

	for _, name := range []string{"alice", "bob", "carol"} {
		require.NoError(t, svc.AddMember(ctx, owner.ID, l.ID, name))
	}

	_, err = svc.RecordEqual(ctx, owner.ID, l.ID, "alice", 90, []string{"alice", "bob", "carol"})
	require.NoError(t, err)

	net, err := svc.Balances(ctx, owner.ID, l.ID)
	require.NoError(t, err)
	assert.InDelta(t, 60, net["alice"], 1e-9)
	assert.InDelta(t, -30, net["bob"], 1e-9)
	assert.InDelta(t, -30, net["carol"], 1e-9)

	txns, err := svc.Settlement(ctx, owner.ID, l.ID)
	require.NoError(t, err)
	require.Len(t, txns, 2)
	for _, txn := range txns {
		assert.Equal(t, "alice", txn.To)
		assert.InDelta(t, 30, txn.Amount, 1e-6)
	}

	ledgers, err := svc.ListLedgers(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, ledgers, 1)
	assert.Equal(t, "Ski Trip", ledgers[0].Name)
}

func TestRecordExpense_ValidationLeavesLedgerUntouched(t *testing.T) {
	svc, owner := setupLedgerService(t)
	ctx := context.Background()

	l, err := svc.CreateLedger(ctx, owner.ID, "Dinner")
	require.NoError(t, err)
	require.NoError(t, svc.AddMember(ctx, owner.ID, l.ID, "alice"))

	_, err = svc.RecordEqual(ctx, owner.ID, l.ID, "mallory", 10, []string{"alice"})
	require.ErrorIs(t, err, ledger.ErrUnknownMember)

	_, err = svc.RecordExact(ctx, owner.ID, l.ID, "alice", 10, []string{"alice:5"})
	require.ErrorIs(t, err, ledger.ErrShareMismatch)

	net, err := svc.Balances(ctx, owner.ID, l.ID)
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"alice": 0}, net)
}

func TestOwnership(t *testing.T) {
	svc, owner := setupLedgerService(t)
	ctx := context.Background()

	l, err := svc.CreateLedger(ctx, owner.ID, "Private")
	require.NoError(t, err)

	// A different caller sees the ledger as missing.
	_, err = svc.Balances(ctx, "someone-else", l.ID)
	require.ErrorIs(t, err, storage.ErrNotFound)

	err = svc.AddMember(ctx, "someone-else", l.ID, "alice")
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestCreateLedger_EmptyName(t *testing.T) {
	svc, owner := setupLedgerService(t)

	_, err := svc.CreateLedger(context.Background(), owner.ID, "")
	require.ErrorIs(t, err, ErrEmptyName)
}

func TestBalances_Idempotent(t *testing.T) {
	svc, owner := setupLedgerService(t)
	ctx := context.Background()

	l, err := svc.CreateLedger(ctx, owner.ID, "Trip")
	require.NoError(t, err)
	for _, name := range []string{"alice", "bob"} {
		require.NoError(t, svc.AddMember(ctx, owner.ID, l.ID, name))
	}
	_, err = svc.RecordExact(ctx, owner.ID, l.ID, "alice", 50, []string{"bob:50"})
	require.NoError(t, err)

	first, err := svc.Balances(ctx, owner.ID, l.ID)
	require.NoError(t, err)
	second, err := svc.Balances(ctx, owner.ID, l.ID)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	txns1, err := svc.Settlement(ctx, owner.ID, l.ID)
	require.NoError(t, err)
	txns2, err := svc.Settlement(ctx, owner.ID, l.ID)
	require.NoError(t, err)
	assert.Equal(t, txns1, txns2)
}
