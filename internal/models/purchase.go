package models

import (
	"github.com/shopspring/decimal"
)

// PurchaseStatus mirrors domain.PurchaseStatus for persistence.
type PurchaseStatus string

// PendingPurchase represents a purchase intent row. At most one PENDING row
// may exist per (account_id, channel); a partial unique index enforces this.
type PendingPurchase struct {
	PurchaseID       string          `db:"purchase_id"`
	AccountID        string          `db:"account_id"`
	Amount           decimal.Decimal `db:"amount"`
	Asset            string          `db:"asset"`
	QuotedTotal      decimal.Decimal `db:"quoted_total"`
	Channel          string          `db:"channel"`
	PaymentReference string          `db:"payment_reference"`
	Status           PurchaseStatus  `db:"status"`
	AuditFields
}
