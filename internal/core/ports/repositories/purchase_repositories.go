package repositories

import (
	"context"

	"github.com/plutoken/plubot_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PurchaseRepository owns pending_purchases rows. Balance credit on
// confirmation is delegated to the ledger tables inside the same transaction;
// no caller writes balances directly.
type PurchaseRepository interface {
	// SavePurchase persists a new Pending intent. A partial unique index on
	// (account_id, channel) WHERE status = PENDING rejects duplicate open
	// intents with apperrors.ErrDuplicate.
	SavePurchase(ctx context.Context, purchase domain.PendingPurchase) error

	// FindPendingByChannel retrieves the single Pending intent for the pair,
	// apperrors.ErrAlreadyConfirmed when only a Confirmed one exists, or
	// apperrors.ErrNoPendingIntent when there is none at all.
	FindPendingByChannel(ctx context.Context, accountID, channel string) (*domain.PendingPurchase, error)

	// ConfirmAndCredit marks the pair's Pending intent Confirmed and credits
	// its amount to the account balance, both in one transaction under row
	// locks. Re-invocation after success returns apperrors.ErrAlreadyConfirmed
	// without a second credit. Returns the confirmed intent and new balance.
	ConfirmAndCredit(ctx context.Context, accountID, channel string, reason string) (*domain.PendingPurchase, decimal.Decimal, error)

	// ListPurchases retrieves an account's intents, newest first.
	ListPurchases(ctx context.Context, accountID string, limit int, offset int) ([]domain.PendingPurchase, error)
}
