package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/plutoken/plubot_backend/internal/apperrors"
	"github.com/plutoken/plubot_backend/internal/core/domain"
	portsrepo "github.com/plutoken/plubot_backend/internal/core/ports/repositories"
	portssvc "github.com/plutoken/plubot_backend/internal/core/ports/services"
	"github.com/plutoken/plubot_backend/internal/dto"
	"github.com/plutoken/plubot_backend/internal/middleware"
	"github.com/shopspring/decimal"
)

// payout rails currently wired to the cash-out flow.
var withdrawCurrencies = map[string]bool{
	"usd": true,
	"rub": true,
}

type ledgerService struct {
	ledgerRepo  portsrepo.LedgerRepository
	accountRepo portsrepo.AccountReader
	priceSource portssvc.PriceSource
	fees        domain.FeeSchedule
	nativeAsset string
}

// NewLedgerService creates the single service through which balances change.
func NewLedgerService(
	ledgerRepo portsrepo.LedgerRepository,
	accountRepo portsrepo.AccountReader,
	priceSource portssvc.PriceSource,
	fees domain.FeeSchedule,
	nativeAsset string,
) portssvc.LedgerSvcFacade {
	return &ledgerService{
		ledgerRepo:  ledgerRepo,
		accountRepo: accountRepo,
		priceSource: priceSource,
		fees:        fees,
		nativeAsset: strings.ToLower(nativeAsset),
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// ApplyDelta applies a signed balance mutation with an audit reason.
func (s *ledgerService) ApplyDelta(ctx context.Context, accountID string, delta decimal.Decimal, reason string) (decimal.Decimal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if delta.IsZero() {
		return decimal.Zero, fmt.Errorf("%w: delta must be non-zero", apperrors.ErrValidation)
	}
	if reason == "" {
		return decimal.Zero, fmt.Errorf("%w: reason is required", apperrors.ErrValidation)
	}

	newBalance, err := s.ledgerRepo.ApplyDelta(ctx, accountID, delta, reason)
	if err != nil {
		return decimal.Zero, err
	}

	logger.Info("Balance mutated",
		"account_id", accountID,
		"delta", delta.String(),
		"reason", reason,
	)
	return newBalance, nil
}

// GetBalance reads the current balance without mutating anything.
func (s *ledgerService) GetBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	acc, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	return acc.Balance, nil
}

// QuoteFee computes the fee for a trade of the given amount.
func (s *ledgerService) QuoteFee(amount decimal.Decimal, native bool, side domain.FeeSide) decimal.Decimal {
	return s.fees.Fee(amount, native, side)
}

// QuotePurchase prices a buy of amount tokens at the current feed price. The
// taker fee is added in token-quantity terms; the quote is a snapshot and is
// never recomputed for an existing intent.
func (s *ledgerService) QuotePurchase(ctx context.Context, amount decimal.Decimal, asset string) (dto.PurchaseQuote, error) {
	if !amount.IsPositive() {
		return dto.PurchaseQuote{}, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}

	unitPrice, err := s.priceSource.UnitPrice(ctx, asset)
	if err != nil {
		return dto.PurchaseQuote{}, err
	}

	native := strings.ToLower(asset) == s.nativeAsset
	fee := s.fees.Fee(amount, native, domain.Taker)

	return dto.PurchaseQuote{
		Asset:     asset,
		Amount:    amount,
		UnitPrice: unitPrice,
		Fee:       fee,
		Total:     domain.QuoteTotal(amount, unitPrice, fee),
	}, nil
}

// TransferPair moves amount from one account to another atomically.
func (s *ledgerService) TransferPair(ctx context.Context, fromID, toID string, amount decimal.Decimal) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !amount.IsPositive() {
		return fmt.Errorf("%w: transfer amount must be positive", apperrors.ErrValidation)
	}
	if fromID == toID {
		return fmt.Errorf("%w: cannot transfer to the same account", apperrors.ErrValidation)
	}

	reason := fmt.Sprintf("transfer:%s->%s", fromID, toID)
	if err := s.ledgerRepo.TransferPair(ctx, fromID, toID, amount, reason); err != nil {
		return err
	}

	logger.Info("Transfer completed",
		"from_account_id", fromID,
		"to_account_id", toID,
		"amount", amount.String(),
	)
	return nil
}

// Withdraw cashes out part of the balance on a fiat rail. The full requested
// amount is debited; the taker fee is deducted from it and the user receives
// the net. This is the opposite fee model from purchase quoting, where the
// fee is added on top.
func (s *ledgerService) Withdraw(ctx context.Context, req dto.WithdrawRequest) (*dto.WithdrawResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	currency := strings.ToLower(req.Currency)
	if !withdrawCurrencies[currency] {
		return nil, fmt.Errorf("%w: unsupported withdraw currency %q", apperrors.ErrValidation, req.Currency)
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: withdraw amount must be positive", apperrors.ErrValidation)
	}

	fee := s.fees.Fee(req.Amount, false, domain.Taker)
	net := req.Amount.Sub(fee)

	newBalance, err := s.ledgerRepo.ApplyDelta(ctx, req.AccountID, req.Amount.Neg(), "withdraw:"+currency)
	if err != nil {
		return nil, err
	}

	logger.Info("Withdrawal completed",
		"account_id", req.AccountID,
		"amount", req.Amount.String(),
		"currency", currency,
	)
	return &dto.WithdrawResponse{
		AccountID:  req.AccountID,
		Amount:     req.Amount,
		Fee:        fee,
		NetAmount:  net,
		NewBalance: newBalance,
		MessageKey: "withdraw_successful_" + currency,
	}, nil
}

// ListEntries retrieves an account's mutation history, newest first.
func (s *ledgerService) ListEntries(ctx context.Context, accountID string, limit, offset int) ([]domain.LedgerEntry, error) {
	return s.ledgerRepo.ListEntries(ctx, accountID, normalizeLimit(limit), normalizeOffset(offset))
}
