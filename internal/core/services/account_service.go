package services

import (
	"context"
	"fmt"
	"time"

	"github.com/plutoken/plubot_backend/internal/core/domain"
	portsrepo "github.com/plutoken/plubot_backend/internal/core/ports/repositories"
	portssvc "github.com/plutoken/plubot_backend/internal/core/ports/services"
	"github.com/plutoken/plubot_backend/internal/dto"
	"github.com/plutoken/plubot_backend/internal/middleware"
	"github.com/plutoken/plubot_backend/internal/utils"
	"github.com/shopspring/decimal"
)

const recoveryCodeBytes = 16

type accountService struct {
	accountRepo portsrepo.AccountRepositoryFacade
	keyGen      portssvc.KeyGenerator
}

// NewAccountService creates the account registry service.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade, keyGen portssvc.KeyGenerator) portssvc.AccountSvcFacade {
	return &accountService{
		accountRepo: accountRepo,
		keyGen:      keyGen,
	}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// RegisterAccount provisions a key pair, hashes the credential and persists
// the new account with a zero balance. The plaintext credential is never
// stored or logged; the recovery code on the returned account is shown to the
// caller once and only its hash-equivalent role matters afterwards.
func (s *accountService) RegisterAccount(ctx context.Context, req dto.RegisterAccountRequest) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	keys, err := s.keyGen.GenerateKeyPair(ctx)
	if err != nil {
		logger.Error("Failed to provision key pair", "error", err)
		return nil, fmt.Errorf("failed to provision key pair: %w", err)
	}

	credentialHash, err := utils.HashCredential(req.Credential)
	if err != nil {
		logger.Error("Failed to hash credential", "error", err)
		return nil, fmt.Errorf("failed to hash credential: %w", err)
	}

	recoveryCode, err := utils.GenerateSecureRandomString(recoveryCodeBytes)
	if err != nil {
		logger.Error("Failed to generate recovery code", "error", err)
		return nil, fmt.Errorf("failed to generate recovery code: %w", err)
	}

	locale := req.Locale
	if locale == "" {
		locale = domain.DefaultLocale
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:     req.AccountID,
		Contact:       req.Contact,
		Credential:    credentialHash,
		PayoutAddress: keys.PayoutAddress,
		KeyReference:  keys.KeyReference,
		Balance:       decimal.Zero,
		RecoveryCode:  recoveryCode,
		Locale:        locale,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		// Registration is first-write-wins; ErrDuplicate passes through.
		return nil, err
	}

	logger.Info("Account registered", "account_id", account.AccountID)
	return &account, nil
}

// GetAccountByID retrieves a specific account.
func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	return s.accountRepo.FindAccountByID(ctx, accountID)
}

// DeleteAccount removes the account and its verification record together.
func (s *accountService) DeleteAccount(ctx context.Context, accountID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.accountRepo.DeleteAccountCascade(ctx, accountID); err != nil {
		return err
	}

	logger.Info("Account deleted", "account_id", accountID)
	return nil
}

// ListAccounts retrieves a paginated account listing for moderators.
func (s *accountService) ListAccounts(ctx context.Context, limit, offset int) ([]domain.Account, error) {
	return s.accountRepo.ListAccounts(ctx, normalizeLimit(limit), normalizeOffset(offset))
}
