package models

import (
	"github.com/shopspring/decimal"
)

// Account represents a custodial account row.
// Credential holds a bcrypt hash; KeyReference is an opaque key-store handle.
// Neither column is ever serialized into API responses.
type Account struct {
	AccountID     string          `db:"account_id"`
	Contact       string          `db:"contact"`
	Credential    string          `db:"credential"`
	PayoutAddress string          `db:"payout_address"`
	KeyReference  string          `db:"key_reference"`
	Balance       decimal.Decimal `db:"balance"`
	RecoveryCode  string          `db:"recovery_code"`
	Locale        string          `db:"locale"`
	AuditFields
}
