package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/splitbook/splitbook/internal/ledger"
	"github.com/splitbook/splitbook/internal/models"
	"github.com/splitbook/splitbook/internal/storage"
)

// CreateLedger persists a new ledger, generating its ID and timestamp.
func (s *SQLiteStore) CreateLedger(ctx context.Context, l *models.Ledger) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	if l.CreatedAt == 0 {
		l.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO ledgers (id, owner_id, name, created_at) VALUES (?, ?, ?, ?)",
		l.ID, l.OwnerID, l.Name, l.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert ledger: %w", err)
	}
	return nil
}

// GetLedger retrieves ledger metadata by ID.
func (s *SQLiteStore) GetLedger(ctx context.Context, ledgerID string) (*models.Ledger, error) {
	l := &models.Ledger{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, owner_id, name, created_at FROM ledgers WHERE id = ?",
		ledgerID,
	).Scan(&l.ID, &l.OwnerID, &l.Name, &l.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("ledger %s: %w", ledgerID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger: %w", err)
	}
	return l, nil
}

// ListLedgers returns all ledgers owned by the given account, newest first.
func (s *SQLiteStore) ListLedgers(ctx context.Context, ownerID string) ([]*models.Ledger, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, owner_id, name, created_at FROM ledgers WHERE owner_id = ? ORDER BY created_at DESC",
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledgers: %w", err)
	}
	defer rows.Close()

	var ledgers []*models.Ledger
	for rows.Next() {
		l := &models.Ledger{}
		if err := rows.Scan(&l.ID, &l.OwnerID, &l.Name, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan ledger: %w", err)
		}
		ledgers = append(ledgers, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ledgers: %w", err)
	}
	return ledgers, nil
}

// AddMember registers a member name on a ledger. Re-adding is a no-op.
func (s *SQLiteStore) AddMember(ctx context.Context, ledgerID, name string) error {
	if _, err := s.GetLedger(ctx, ledgerID); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO members (ledger_id, name) VALUES (?, ?)",
		ledgerID, name,
	)
	if err != nil {
		return fmt.Errorf("failed to insert member: %w", err)
	}
	return nil
}

// AppendExpense persists an expense and its shares in one transaction.
// The seq column preserves insertion order across loads.
func (s *SQLiteStore) AppendExpense(ctx context.Context, ledgerID string, e models.Expense) error {
	if _, err := s.GetLedger(ctx, ledgerID); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var seq int64
	err = tx.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(seq)+1, 0) FROM expenses WHERE ledger_id = ?",
		ledgerID,
	).Scan(&seq)
	if err != nil {
		return fmt.Errorf("failed to compute expense seq: %w", err)
	}

	expenseID := uuid.New().String()
	_, err = tx.ExecContext(ctx,
		"INSERT INTO expenses (id, ledger_id, seq, payer, amount) VALUES (?, ?, ?, ?, ?)",
		expenseID, ledgerID, seq, e.Payer, e.Amount,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	for member, amount := range e.Shares {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO expense_shares (expense_id, member, amount) VALUES (?, ?, ?)",
			expenseID, member, amount,
		)
		if err != nil {
			return fmt.Errorf("failed to insert expense share: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// LoadBook materializes the full ledger book: members plus expenses in
// insertion order.
func (s *SQLiteStore) LoadBook(ctx context.Context, ledgerID string) (*ledger.Book, error) {
	if _, err := s.GetLedger(ctx, ledgerID); err != nil {
		return nil, err
	}

	book := ledger.NewBook()

	rows, err := s.db.QueryContext(ctx,
		"SELECT name FROM members WHERE ledger_id = ? ORDER BY name",
		ledgerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get members: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		book.AddMember(name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}

	expRows, err := s.db.QueryContext(ctx,
		"SELECT id, payer, amount FROM expenses WHERE ledger_id = ? ORDER BY seq",
		ledgerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get expenses: %w", err)
	}
	defer expRows.Close()

	type expRow struct {
		id      string
		expense models.Expense
	}
	var loaded []expRow
	for expRows.Next() {
		var row expRow
		if err := expRows.Scan(&row.id, &row.expense.Payer, &row.expense.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		row.expense.Shares = make(map[string]float64)
		loaded = append(loaded, row)
	}
	if err := expRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	for i := range loaded {
		shareRows, err := s.db.QueryContext(ctx,
			"SELECT member, amount FROM expense_shares WHERE expense_id = ?",
			loaded[i].id,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to get expense shares: %w", err)
		}
		for shareRows.Next() {
			var member string
			var amount float64
			if err := shareRows.Scan(&member, &amount); err != nil {
				shareRows.Close()
				return nil, fmt.Errorf("failed to scan expense share: %w", err)
			}
			loaded[i].expense.Shares[member] = amount
		}
		shareRows.Close()
		if err := shareRows.Err(); err != nil {
			return nil, fmt.Errorf("failed to iterate expense shares: %w", err)
		}
		book.Append(loaded[i].expense)
	}

	return book, nil
}
