package domain

import (
	"github.com/plutoken/plubot_backend/internal/apperrors"
	"github.com/shopspring/decimal"
)

// PurchaseStatus is the lifecycle state of a payment intent.
type PurchaseStatus string

const (
	PurchasePending   PurchaseStatus = "PENDING"
	PurchaseConfirmed PurchaseStatus = "CONFIRMED"
)

// PendingPurchase is a quoted, unconfirmed payment intent awaiting external
// verification. QuotedTotal is a snapshot taken at creation and is never
// recomputed, even if the price moves before confirmation.
type PendingPurchase struct {
	PurchaseID       string
	AccountID        string
	Amount           decimal.Decimal
	Asset            string
	QuotedTotal      decimal.Decimal
	Channel          string
	PaymentReference string
	Status           PurchaseStatus
	AuditFields
}

// Confirm transitions the intent to Confirmed, once.
func (p *PendingPurchase) Confirm() error {
	if p.Status == PurchaseConfirmed {
		return apperrors.ErrAlreadyConfirmed
	}
	p.Status = PurchaseConfirmed
	return nil
}
