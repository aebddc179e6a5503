package services

import (
	"context"

	"github.com/plutoken/plubot_backend/internal/core/domain"
	"github.com/plutoken/plubot_backend/internal/dto"
	"github.com/shopspring/decimal"
)

// AccountSvcFacade is the account registry surface.
type AccountSvcFacade interface {
	RegisterAccount(ctx context.Context, req dto.RegisterAccountRequest) (*domain.Account, error)
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)
	DeleteAccount(ctx context.Context, accountID string) error
	ListAccounts(ctx context.Context, limit, offset int) ([]domain.Account, error)
}

// KycSvcFacade is the KYC workflow surface.
type KycSvcFacade interface {
	SubmitKyc(ctx context.Context, accountID string, req dto.SubmitKycRequest) (domain.SubmitOutcome, *domain.KycRecord, error)
	DecideKyc(ctx context.Context, accountID string, approve bool) (*domain.KycRecord, int, error)
	ForceKycStatus(ctx context.Context, accountID string, status domain.KycStatus) (*domain.KycRecord, error)
	ResetKyc(ctx context.Context, accountID string) error
	GetKycByAccountID(ctx context.Context, accountID string) (*domain.KycRecord, error)
	ListKycRecords(ctx context.Context, limit, offset int) ([]domain.KycRecord, error)
	MaxAttempts() int
}

// LedgerSvcFacade is the single surface through which balances change.
type LedgerSvcFacade interface {
	ApplyDelta(ctx context.Context, accountID string, delta decimal.Decimal, reason string) (decimal.Decimal, error)
	GetBalance(ctx context.Context, accountID string) (decimal.Decimal, error)
	QuoteFee(amount decimal.Decimal, native bool, side domain.FeeSide) decimal.Decimal
	QuotePurchase(ctx context.Context, amount decimal.Decimal, asset string) (dto.PurchaseQuote, error)
	TransferPair(ctx context.Context, fromID, toID string, amount decimal.Decimal) error
	Withdraw(ctx context.Context, req dto.WithdrawRequest) (*dto.WithdrawResponse, error)
	ListEntries(ctx context.Context, accountID string, limit, offset int) ([]domain.LedgerEntry, error)
}

// PurchaseSvcFacade tracks payment intents from quote to settlement.
type PurchaseSvcFacade interface {
	CreateIntents(ctx context.Context, req dto.CreatePurchaseRequest) ([]domain.PendingPurchase, error)
	ConfirmPurchase(ctx context.Context, accountID, channel string) (*domain.PendingPurchase, decimal.Decimal, error)
	ListPurchases(ctx context.Context, accountID string, limit, offset int) ([]domain.PendingPurchase, error)
}
