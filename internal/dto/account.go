package dto

import (
	"time"

	"github.com/plutoken/plubot_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RegisterAccountRequest defines the data needed to register a new account.
// Credential arrives in plaintext over the authenticated channel and is
// bcrypt-hashed before persistence.
type RegisterAccountRequest struct {
	AccountID  string `json:"accountID" binding:"required"`
	Contact    string `json:"contact" binding:"required,email"`
	Credential string `json:"credential" binding:"required,min=8"`
	Locale     string `json:"locale"`
}

// AccountResponse defines the data returned for an account. The credential
// hash and key reference are deliberately not part of the response.
type AccountResponse struct {
	AccountID     string          `json:"accountID"`
	Contact       string          `json:"contact"`
	PayoutAddress string          `json:"payoutAddress"`
	Balance       decimal.Decimal `json:"balance"`
	Locale        string          `json:"locale"`
	CreatedAt     time.Time       `json:"createdAt"`
	LastUpdatedAt time.Time       `json:"lastUpdatedAt"`
}

// RegisterAccountResponse additionally carries the one-time recovery code,
// shown to the user exactly once at registration.
type RegisterAccountResponse struct {
	AccountResponse
	RecoveryCode string `json:"recoveryCode"`
}

// ToAccountResponse converts a domain.Account to AccountResponse.
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:     acc.AccountID,
		Contact:       acc.Contact,
		PayoutAddress: acc.PayoutAddress,
		Balance:       acc.Balance,
		Locale:        acc.Locale,
		CreatedAt:     acc.CreatedAt,
		LastUpdatedAt: acc.LastUpdatedAt,
	}
}

// BalanceResponse defines the data returned for a balance query.
type BalanceResponse struct {
	AccountID string          `json:"accountID"`
	Balance   decimal.Decimal `json:"balance"`
}

// ListParams defines common pagination query parameters.
type ListParams struct {
	Limit  int `form:"limit,default=20"`
	Offset int `form:"offset,default=0"`
}

// ListAccountsResponse wraps the list of accounts.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}
