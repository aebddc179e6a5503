package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/plutoken/plubot_backend/internal/apperrors"
	"github.com/plutoken/plubot_backend/internal/core/domain"
	portsrepo "github.com/plutoken/plubot_backend/internal/core/ports/repositories"
	"github.com/plutoken/plubot_backend/internal/models"
	"github.com/shopspring/decimal"
)

type PgxLedgerRepository struct {
	BaseRepository
}

// newPgxLedgerRepository creates the single balance-mutation surface.
func newPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepository {
	return &PgxLedgerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxLedgerRepository implements portsrepo.LedgerRepository
var _ portsrepo.LedgerRepository = (*PgxLedgerRepository)(nil)

const ledgerColumns = `entry_id, account_id, delta, balance_after, reason, created_at`

func toDomainLedgerEntry(m models.LedgerEntry) domain.LedgerEntry {
	return domain.LedgerEntry{
		EntryID:      m.EntryID,
		AccountID:    m.AccountID,
		Delta:        m.Delta,
		BalanceAfter: m.BalanceAfter,
		Reason:       m.Reason,
		CreatedAt:    m.CreatedAt,
	}
}

// lockBalanceTx takes the account's row lock and returns its current balance.
// Every balance read-modify-write in this package goes through this lock.
func lockBalanceTx(ctx context.Context, tx pgx.Tx, accountID string) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := tx.QueryRow(ctx, `SELECT balance FROM accounts WHERE account_id = $1 FOR UPDATE;`, accountID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, fmt.Errorf("%w: account with ID %s", apperrors.ErrNotRegistered, accountID)
		}
		return decimal.Zero, fmt.Errorf("failed to lock account %s: %w", accountID, err)
	}
	return balance, nil
}

// applyDeltaTx mutates one locked account balance and records the ledger
// entry, inside the caller's transaction. It is the single enforcement point
// for the non-negative balance invariant; the purchase confirmation flow
// credits through it too.
func applyDeltaTx(ctx context.Context, tx pgx.Tx, accountID string, delta decimal.Decimal, reason string, now time.Time) (decimal.Decimal, error) {
	balance, err := lockBalanceTx(ctx, tx, accountID)
	if err != nil {
		return decimal.Zero, err
	}

	acc := domain.Account{AccountID: accountID, Balance: balance}
	if err := acc.ApplyDelta(delta); err != nil {
		return decimal.Zero, err
	}

	_, err = tx.Exec(ctx, `UPDATE accounts SET balance = $2, last_updated_at = $3 WHERE account_id = $1;`,
		accountID, acc.Balance, now)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to update balance for account %s: %w", accountID, err)
	}

	entryQuery := `
		INSERT INTO ledger_entries (` + ledgerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	_, err = tx.Exec(ctx, entryQuery, uuid.NewString(), accountID, delta, acc.Balance, reason, now)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to insert ledger entry for account %s: %w", accountID, err)
	}

	return acc.Balance, nil
}

// ApplyDelta commits balance += delta as one atomic read-modify-write under
// the account's row lock and records a ledger entry.
func (r *PgxLedgerRepository) ApplyDelta(ctx context.Context, accountID string, delta decimal.Decimal, reason string) (decimal.Decimal, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	defer r.Rollback(ctx, tx)

	newBalance, err := applyDeltaTx(ctx, tx, accountID, delta, reason, time.Now().UTC())
	if err != nil {
		return decimal.Zero, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return decimal.Zero, err
	}
	return newBalance, nil
}

// TransferPair debits from and credits to in a single transaction. Both rows
// are locked in ascending account_id order so opposing transfers cannot
// deadlock; a failed funds check rolls back the whole transaction.
func (r *PgxLedgerRepository) TransferPair(ctx context.Context, fromID, toID string, amount decimal.Decimal, reason string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	now := time.Now().UTC()
	first, second := domain.LockOrder(fromID, toID)

	deltas := map[string]decimal.Decimal{
		fromID: amount.Neg(),
		toID:   amount,
	}
	for _, accountID := range []string{first, second} {
		if _, err := applyDeltaTx(ctx, tx, accountID, deltas[accountID], reason, now); err != nil {
			return err
		}
	}

	return r.Commit(ctx, tx)
}

// ListEntries retrieves an account's mutation history, newest first.
func (r *PgxLedgerRepository) ListEntries(ctx context.Context, accountID string, limit int, offset int) ([]domain.LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + ` FROM ledger_entries WHERE account_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3;`

	rows, err := r.Pool.Query(ctx, query, accountID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger entries for account %s: %w", accountID, err)
	}
	defer rows.Close()

	entries := make([]domain.LedgerEntry, 0)
	for rows.Next() {
		var m models.LedgerEntry
		if err := rows.Scan(&m.EntryID, &m.AccountID, &m.Delta, &m.BalanceAfter, &m.Reason, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry row: %w", err)
		}
		entries = append(entries, toDomainLedgerEntry(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ledger entry rows: %w", err)
	}
	return entries, nil
}
