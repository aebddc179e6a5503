package repositories

import (
	"context"

	"github.com/plutoken/plubot_backend/internal/core/domain"
)

// KycRepository owns kyc_records rows. All read-modify-write access goes
// through MutateKyc so status/attempts/edited updates serialize per account.
type KycRepository interface {
	// FindKycByAccountID retrieves the record, or apperrors.ErrNotFound when
	// the account has never submitted.
	FindKycByAccountID(ctx context.Context, accountID string) (*domain.KycRecord, error)

	// MutateKyc runs apply against the account's record inside a transaction
	// holding the record's row lock. When no record exists yet, apply receives
	// a zero record in status KycNone and the result is inserted. Returns
	// apperrors.ErrNotRegistered when the account itself does not exist. An
	// error from apply aborts the transaction with no state change.
	MutateKyc(ctx context.Context, accountID string, apply func(*domain.KycRecord) error) (*domain.KycRecord, error)

	// DeleteKyc removes the record entirely, returning the state to KycNone.
	DeleteKyc(ctx context.Context, accountID string) error

	// ListKycRecords retrieves a paginated list of all records for moderators.
	ListKycRecords(ctx context.Context, limit int, offset int) ([]domain.KycRecord, error)
}
