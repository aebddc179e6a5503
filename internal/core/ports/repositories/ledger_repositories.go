package repositories

import (
	"context"

	"github.com/plutoken/plubot_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerRepository is the only surface allowed to mutate account balances.
type LedgerRepository interface {
	// ApplyDelta commits balance += delta as one atomic read-modify-write under
	// the account's row lock and records a ledger entry. Returns the new
	// balance, apperrors.ErrInsufficientFunds when a debit would go negative,
	// or apperrors.ErrNotRegistered when the account does not exist.
	ApplyDelta(ctx context.Context, accountID string, delta decimal.Decimal, reason string) (decimal.Decimal, error)

	// TransferPair debits from and credits to in a single transaction, locking
	// both rows in ascending account_id order. Either both balances change by
	// exactly amount or neither does.
	TransferPair(ctx context.Context, fromID, toID string, amount decimal.Decimal, reason string) error

	// ListEntries retrieves an account's mutation history, newest first.
	ListEntries(ctx context.Context, accountID string, limit int, offset int) ([]domain.LedgerEntry, error)
}
