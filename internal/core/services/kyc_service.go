package services

import (
	"context"
	"fmt"

	"github.com/plutoken/plubot_backend/internal/apperrors"
	"github.com/plutoken/plubot_backend/internal/core/domain"
	portsrepo "github.com/plutoken/plubot_backend/internal/core/ports/repositories"
	portssvc "github.com/plutoken/plubot_backend/internal/core/ports/services"
	"github.com/plutoken/plubot_backend/internal/dto"
	"github.com/plutoken/plubot_backend/internal/middleware"
)

type kycService struct {
	kycRepo     portsrepo.KycRepository
	maxAttempts int
	maxEdits    int
}

// NewKycService creates the verification workflow service. maxAttempts bounds
// total submissions, maxEdits the post-approval corrections.
func NewKycService(kycRepo portsrepo.KycRepository, maxAttempts, maxEdits int) portssvc.KycSvcFacade {
	return &kycService{
		kycRepo:     kycRepo,
		maxAttempts: maxAttempts,
		maxEdits:    maxEdits,
	}
}

var _ portssvc.KycSvcFacade = (*kycService)(nil)

// SubmitKyc runs one submission through the state machine under the record's
// row lock. Registration and attempt checks happen inside the same
// transaction, so concurrent submissions from one account serialize and the
// attempt counter cannot exceed its cap.
func (s *kycService) SubmitKyc(ctx context.Context, accountID string, req dto.SubmitKycRequest) (domain.SubmitOutcome, *domain.KycRecord, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	sub := domain.KycSubmission{
		FullName:    req.FullName,
		DateOfBirth: req.DateOfBirth,
		IDNumber:    req.IDNumber,
		EvidenceRef: req.EvidenceRef,
	}

	var outcome domain.SubmitOutcome
	rec, err := s.kycRepo.MutateKyc(ctx, accountID, func(r *domain.KycRecord) error {
		o, err := r.ApplySubmission(sub, s.maxAttempts, s.maxEdits)
		if err != nil {
			return err
		}
		outcome = o
		return nil
	})
	if err != nil {
		return "", nil, err
	}

	logger.Info("KYC submission accepted",
		"account_id", accountID,
		"outcome", string(outcome),
		"attempts", rec.Attempts,
	)
	return outcome, rec, nil
}

// DecideKyc approves or rejects a Pending record. The remaining attempt count
// is returned so a rejection message can tell the user how many tries are left.
func (s *kycService) DecideKyc(ctx context.Context, accountID string, approve bool) (*domain.KycRecord, int, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	rec, err := s.kycRepo.MutateKyc(ctx, accountID, func(r *domain.KycRecord) error {
		if r.Status == domain.KycNone {
			return fmt.Errorf("%w: kyc record for account %s", apperrors.ErrNotFound, accountID)
		}
		return r.ApplyDecision(approve)
	})
	if err != nil {
		return nil, 0, err
	}

	logger.Info("KYC decision recorded",
		"account_id", accountID,
		"status", string(rec.Status),
	)
	return rec, rec.RemainingAttempts(s.maxAttempts), nil
}

// ForceKycStatus is the moderator override: it sets the status directly,
// bypassing transition rules, for manual corrections.
func (s *kycService) ForceKycStatus(ctx context.Context, accountID string, status domain.KycStatus) (*domain.KycRecord, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !domain.ValidKycStatus(status) {
		return nil, fmt.Errorf("%w: invalid kyc status %q", apperrors.ErrValidation, status)
	}

	rec, err := s.kycRepo.MutateKyc(ctx, accountID, func(r *domain.KycRecord) error {
		r.Status = status
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("KYC status forced",
		"account_id", accountID,
		"status", string(status),
	)
	return rec, nil
}

// ResetKyc deletes the record, returning the account to an unverified state
// with a fresh attempt budget.
func (s *kycService) ResetKyc(ctx context.Context, accountID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.kycRepo.DeleteKyc(ctx, accountID); err != nil {
		return err
	}

	logger.Info("KYC record reset", "account_id", accountID)
	return nil
}

// GetKycByAccountID retrieves the verification record.
func (s *kycService) GetKycByAccountID(ctx context.Context, accountID string) (*domain.KycRecord, error) {
	return s.kycRepo.FindKycByAccountID(ctx, accountID)
}

// ListKycRecords retrieves a paginated listing for the moderator dashboard.
func (s *kycService) ListKycRecords(ctx context.Context, limit, offset int) ([]domain.KycRecord, error) {
	return s.kycRepo.ListKycRecords(ctx, normalizeLimit(limit), normalizeOffset(offset))
}

// MaxAttempts exposes the configured submission cap for response shaping.
func (s *kycService) MaxAttempts() int {
	return s.maxAttempts
}
