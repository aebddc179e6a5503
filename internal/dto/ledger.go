package dto

import (
	"time"

	"github.com/plutoken/plubot_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TransferRequest moves tokens between two custodial accounts.
type TransferRequest struct {
	FromAccountID string          `json:"fromAccountID" binding:"required"`
	ToAccountID   string          `json:"toAccountID" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required,dgt0"`
}

// WithdrawRequest cashes out part of the balance; Currency picks the payout
// rail ("usd" or "rub" in the current deployment).
type WithdrawRequest struct {
	AccountID string          `json:"accountID" binding:"required"`
	Amount    decimal.Decimal `json:"amount" binding:"required,dgt0"`
	Currency  string          `json:"currency" binding:"required,oneof=usd rub"`
}

// WithdrawResponse reports the fee arithmetic: fee is deducted from the
// requested amount, the user receives the net.
type WithdrawResponse struct {
	AccountID  string          `json:"accountID"`
	Amount     decimal.Decimal `json:"amount"`
	Fee        decimal.Decimal `json:"fee"`
	NetAmount  decimal.Decimal `json:"netAmount"`
	NewBalance decimal.Decimal `json:"newBalance"`
	MessageKey string          `json:"messageKey"`
}

// PurchaseQuote is a price/fee snapshot taken at quote time.
type PurchaseQuote struct {
	Asset     string          `json:"asset"`
	Amount    decimal.Decimal `json:"amount"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Fee       decimal.Decimal `json:"fee"`
	Total     decimal.Decimal `json:"total"`
}

// LedgerEntryResponse is one recorded balance mutation.
type LedgerEntryResponse struct {
	EntryID      string          `json:"entryID"`
	AccountID    string          `json:"accountID"`
	Delta        decimal.Decimal `json:"delta"`
	BalanceAfter decimal.Decimal `json:"balanceAfter"`
	Reason       string          `json:"reason"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// ToLedgerEntryResponse converts a domain.LedgerEntry.
func ToLedgerEntryResponse(e domain.LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		EntryID:      e.EntryID,
		AccountID:    e.AccountID,
		Delta:        e.Delta,
		BalanceAfter: e.BalanceAfter,
		Reason:       e.Reason,
		CreatedAt:    e.CreatedAt,
	}
}

// ListLedgerEntriesResponse wraps an account's mutation history.
type ListLedgerEntriesResponse struct {
	Entries []LedgerEntryResponse `json:"entries"`
}
