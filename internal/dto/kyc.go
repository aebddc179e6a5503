package dto

import (
	"github.com/plutoken/plubot_backend/internal/core/domain"
)

// SubmitKycRequest defines a KYC submission. EvidenceRef is the opaque
// reference to the already-validated evidence file (image allowlisting is a
// front-end concern).
type SubmitKycRequest struct {
	FullName    string `json:"fullName" binding:"required"`
	DateOfBirth string `json:"dateOfBirth" binding:"required"`
	IDNumber    string `json:"idNumber" binding:"required"`
	EvidenceRef string `json:"evidenceRef" binding:"required"`
}

// SubmitKycResponse reports the submission outcome.
type SubmitKycResponse struct {
	Outcome    domain.SubmitOutcome `json:"outcome"`
	Status     domain.KycStatus     `json:"status"`
	Attempts   int                  `json:"attempts"`
	MessageKey string               `json:"messageKey"`
}

// KycDecisionRequest is a moderator's approve/reject call on a Pending record.
type KycDecisionRequest struct {
	Approve bool `json:"approve"`
}

// KycDecisionResponse reports the new status; RemainingAttempts is only
// meaningful on rejection and drives the caller's "N attempts left" message.
type KycDecisionResponse struct {
	Status            domain.KycStatus `json:"status"`
	RemainingAttempts int              `json:"remainingAttempts"`
	MessageKey        string           `json:"messageKey"`
}

// ForceKycStatusRequest is a moderator override of the record's status.
type ForceKycStatusRequest struct {
	Status domain.KycStatus `json:"status" binding:"required,oneof=PENDING APPROVED REJECTED"`
}

// KycResponse defines the data returned for a KYC record.
type KycResponse struct {
	AccountID    string           `json:"accountID"`
	FullName     string           `json:"fullName"`
	DateOfBirth  string           `json:"dateOfBirth"`
	IDNumber     string           `json:"idNumber"`
	EvidenceRef  string           `json:"evidenceRef"`
	Status       domain.KycStatus `json:"status"`
	Attempts     int              `json:"attempts"`
	AttemptsLeft int              `json:"attemptsLeft"`
	Edited       int              `json:"edited"`
}

// ToKycResponse converts a domain.KycRecord to KycResponse.
func ToKycResponse(rec *domain.KycRecord, maxAttempts int) KycResponse {
	return KycResponse{
		AccountID:    rec.AccountID,
		FullName:     rec.FullName,
		DateOfBirth:  rec.DateOfBirth,
		IDNumber:     rec.IDNumber,
		EvidenceRef:  rec.EvidenceRef,
		Status:       rec.Status,
		Attempts:     rec.Attempts,
		AttemptsLeft: rec.RemainingAttempts(maxAttempts),
		Edited:       rec.Edited,
	}
}

// ListKycResponse wraps the moderator dashboard listing.
type ListKycResponse struct {
	Records []KycResponse `json:"records"`
}
