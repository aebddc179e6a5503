package repositories

import (
	"context"

	"github.com/plutoken/plubot_backend/internal/core/domain"
)

// AccountReader defines read operations for account data.
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// ListAccounts retrieves a paginated list of accounts.
	ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error)
}

// AccountWriter defines write operations for account data.
type AccountWriter interface {
	// SaveAccount persists a new account. Returns apperrors.ErrDuplicate if the
	// account ID is already registered; never overwrites.
	SaveAccount(ctx context.Context, account domain.Account) error

	// DeleteAccountCascade removes the account and its KYC record as one
	// transaction, so a successful account delete can never leave an orphaned
	// KYC row.
	DeleteAccountCascade(ctx context.Context, accountID string) error
}

// AccountRepositoryFacade combines all account-related repository interfaces.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
