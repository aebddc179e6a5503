package domain

import (
	"fmt"

	"github.com/plutoken/plubot_backend/internal/apperrors"
	"github.com/shopspring/decimal"
)

// Account is a registered user's custodial identity and token balance record.
// Credential holds a bcrypt hash, never the plaintext. KeyReference is an
// opaque handle into the custodial key store; neither field may appear in logs.
type Account struct {
	AccountID     string
	Contact       string
	Credential    string
	PayoutAddress string
	KeyReference  string
	Balance       decimal.Decimal
	RecoveryCode  string
	Locale        string
	AuditFields
}

// DefaultLocale is assigned at registration until the user picks another.
const DefaultLocale = "en"

// ApplyDelta mutates the balance by a signed delta, enforcing balance >= 0.
// Callers must hold the account's row lock (or equivalent) so the
// read-modify-write is serialized per account.
func (a *Account) ApplyDelta(delta decimal.Decimal) error {
	newBalance := a.Balance.Add(delta)
	if delta.IsNegative() && newBalance.IsNegative() {
		return fmt.Errorf("%w: balance %s, requested delta %s",
			apperrors.ErrInsufficientFunds, a.Balance.String(), delta.String())
	}
	a.Balance = newBalance
	return nil
}
