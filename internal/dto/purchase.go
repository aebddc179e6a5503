package dto

import (
	"time"

	"github.com/plutoken/plubot_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreatePurchaseRequest quotes a buy/deposit; one intent is created per
// offered payment channel.
type CreatePurchaseRequest struct {
	AccountID string          `json:"accountID" binding:"required"`
	Amount    decimal.Decimal `json:"amount" binding:"required,dgt0"`
	Asset     string          `json:"asset" binding:"required"`
	// Channels restricts the offered channels; empty means all configured ones.
	Channels []string `json:"channels"`
}

// PurchaseIntentResponse is one offered payment channel with its link.
type PurchaseIntentResponse struct {
	PurchaseID       string                `json:"purchaseID"`
	AccountID        string                `json:"accountID"`
	Amount           decimal.Decimal       `json:"amount"`
	Asset            string                `json:"asset"`
	QuotedTotal      decimal.Decimal       `json:"quotedTotal"`
	Channel          string                `json:"channel"`
	PaymentReference string                `json:"paymentReference"`
	Status           domain.PurchaseStatus `json:"status"`
	CreatedAt        time.Time             `json:"createdAt"`
}

// ToPurchaseIntentResponse converts a domain.PendingPurchase.
func ToPurchaseIntentResponse(p *domain.PendingPurchase) PurchaseIntentResponse {
	return PurchaseIntentResponse{
		PurchaseID:       p.PurchaseID,
		AccountID:        p.AccountID,
		Amount:           p.Amount,
		Asset:            p.Asset,
		QuotedTotal:      p.QuotedTotal,
		Channel:          p.Channel,
		PaymentReference: p.PaymentReference,
		Status:           p.Status,
		CreatedAt:        p.CreatedAt,
	}
}

// CreatePurchaseResponse wraps the fanned-out intents of one quote.
type CreatePurchaseResponse struct {
	Intents []PurchaseIntentResponse `json:"intents"`
}

// ConfirmPurchaseRequest asks to verify and settle a pending intent.
type ConfirmPurchaseRequest struct {
	AccountID string `json:"accountID" binding:"required"`
	Channel   string `json:"channel" binding:"required"`
}

// ConfirmPurchaseResponse reports the settled intent and resulting balance.
type ConfirmPurchaseResponse struct {
	PurchaseIntentResponse
	NewBalance decimal.Decimal `json:"newBalance"`
	MessageKey string          `json:"messageKey"`
}
