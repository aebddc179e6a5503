package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/plutoken/plubot_backend/internal/apperrors"
	"github.com/plutoken/plubot_backend/internal/core/domain"
	portsrepo "github.com/plutoken/plubot_backend/internal/core/ports/repositories"
	portssvc "github.com/plutoken/plubot_backend/internal/core/ports/services"
	"github.com/plutoken/plubot_backend/internal/dto"
	"github.com/plutoken/plubot_backend/internal/middleware"
	"github.com/shopspring/decimal"
)

type purchaseService struct {
	purchaseRepo   portsrepo.PurchaseRepository
	accountRepo    portsrepo.AccountReader
	ledgerSvc      portssvc.LedgerSvcFacade
	linker         portssvc.PaymentLinker
	verifier       portssvc.PaymentVerifier
	confirmTimeout time.Duration
}

// NewPurchaseService creates the payment intent tracker.
func NewPurchaseService(
	purchaseRepo portsrepo.PurchaseRepository,
	accountRepo portsrepo.AccountReader,
	ledgerSvc portssvc.LedgerSvcFacade,
	linker portssvc.PaymentLinker,
	verifier portssvc.PaymentVerifier,
	confirmTimeout time.Duration,
) portssvc.PurchaseSvcFacade {
	return &purchaseService{
		purchaseRepo:   purchaseRepo,
		accountRepo:    accountRepo,
		ledgerSvc:      ledgerSvc,
		linker:         linker,
		verifier:       verifier,
		confirmTimeout: confirmTimeout,
	}
}

var _ portssvc.PurchaseSvcFacade = (*purchaseService)(nil)

// CreateIntents quotes the buy once and fans the snapshot out into one
// Pending intent per payment channel. The quoted total is frozen at this
// point; later price moves do not affect existing intents.
func (s *purchaseService) CreateIntents(ctx context.Context, req dto.CreatePurchaseRequest) ([]domain.PendingPurchase, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.accountRepo.FindAccountByID(ctx, req.AccountID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: account with ID %s", apperrors.ErrNotRegistered, req.AccountID)
		}
		return nil, err
	}

	channels := req.Channels
	if len(channels) == 0 {
		channels = s.linker.Channels()
	}

	quote, err := s.ledgerSvc.QuotePurchase(ctx, req.Amount, req.Asset)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	intents := make([]domain.PendingPurchase, 0, len(channels))
	for _, channel := range channels {
		link, err := s.linker.PaymentLink(channel, quote.Total)
		if err != nil {
			return nil, err
		}

		intent := domain.PendingPurchase{
			PurchaseID:       uuid.NewString(),
			AccountID:        req.AccountID,
			Amount:           req.Amount,
			Asset:            req.Asset,
			QuotedTotal:      quote.Total,
			Channel:          channel,
			PaymentReference: link,
			Status:           domain.PurchasePending,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				LastUpdatedAt: now,
			},
		}
		if err := s.purchaseRepo.SavePurchase(ctx, intent); err != nil {
			return nil, err
		}
		intents = append(intents, intent)
	}

	logger.Info("Purchase intents created",
		"account_id", req.AccountID,
		"asset", req.Asset,
		"amount", req.Amount.String(),
		"channels", len(intents),
	)
	return intents, nil
}

// ConfirmPurchase verifies the payment with the external provider under a
// bounded timeout, then settles the intent and credits the balance in one
// transaction. A verification failure or timeout leaves the intent Pending,
// so the command can simply be retried.
func (s *purchaseService) ConfirmPurchase(ctx context.Context, accountID, channel string) (*domain.PendingPurchase, decimal.Decimal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	intent, err := s.purchaseRepo.FindPendingByChannel(ctx, accountID, channel)
	if err != nil {
		return nil, decimal.Zero, err
	}

	// No DB locks are held during the external call.
	verifyCtx, cancel := context.WithTimeout(ctx, s.confirmTimeout)
	defer cancel()
	if err := s.verifier.VerifyPayment(verifyCtx, channel, intent.PaymentReference); err != nil {
		logger.Warn("Payment verification failed",
			"account_id", accountID,
			"channel", channel,
			"error", err,
		)
		return nil, decimal.Zero, err
	}

	reason := fmt.Sprintf("purchase:%s:%s", intent.Asset, channel)
	confirmed, newBalance, err := s.purchaseRepo.ConfirmAndCredit(ctx, accountID, channel, reason)
	if err != nil {
		return nil, decimal.Zero, err
	}

	logger.Info("Purchase confirmed",
		"account_id", accountID,
		"channel", channel,
		"purchase_id", confirmed.PurchaseID,
		"amount", confirmed.Amount.String(),
	)
	return confirmed, newBalance, nil
}

// ListPurchases retrieves an account's intents, newest first.
func (s *purchaseService) ListPurchases(ctx context.Context, accountID string, limit, offset int) ([]domain.PendingPurchase, error) {
	return s.purchaseRepo.ListPurchases(ctx, accountID, normalizeLimit(limit), normalizeOffset(offset))
}
