package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry represents an immutable balance mutation row.
type LedgerEntry struct {
	EntryID      string          `db:"entry_id"`
	AccountID    string          `db:"account_id"`
	Delta        decimal.Decimal `db:"delta"`
	BalanceAfter decimal.Decimal `db:"balance_after"`
	Reason       string          `db:"reason"`
	CreatedAt    time.Time       `db:"created_at"`
}
