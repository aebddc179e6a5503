package domain

import (
	"fmt"
	"regexp"
	"time"

	"github.com/plutoken/plubot_backend/internal/apperrors"
)

// KycStatus is the verification state of an account's KYC record.
type KycStatus string

const (
	KycNone     KycStatus = "NONE"
	KycPending  KycStatus = "PENDING"
	KycApproved KycStatus = "APPROVED"
	KycRejected KycStatus = "REJECTED"
)

// SubmitOutcome distinguishes a fresh submission from the one-time post-approval edit.
type SubmitOutcome string

const (
	OutcomeSubmitted SubmitOutcome = "SUBMITTED"
	OutcomeEdited    SubmitOutcome = "EDITED"
)

// DOBLayout is the required date-of-birth format (MM/DD/YYYY).
const DOBLayout = "01/02/2006"

var fullNamePattern = regexp.MustCompile(`^[A-Za-z ]+$`)

// KycRecord tracks one account's verification lifecycle.
// Invariants: Attempts <= max attempts, Edited <= max edits, and Edited only
// increments on the Approved -> Pending edit transition.
type KycRecord struct {
	AccountID   string
	FullName    string
	DateOfBirth string
	IDNumber    string
	EvidenceRef string
	Status      KycStatus
	Attempts    int
	Edited      int
	AuditFields
}

// KycSubmission carries the already-validated scalar inputs of a !kyc command.
type KycSubmission struct {
	FullName    string
	DateOfBirth string
	IDNumber    string
	EvidenceRef string
}

// Validate checks the submission's name and date formats.
func (s KycSubmission) Validate() error {
	if !fullNamePattern.MatchString(s.FullName) {
		return fmt.Errorf("%w: name must contain only letters and spaces", apperrors.ErrValidation)
	}
	if _, err := time.Parse(DOBLayout, s.DateOfBirth); err != nil {
		return fmt.Errorf("%w: date of birth must be in MM/DD/YYYY format", apperrors.ErrValidation)
	}
	return nil
}

// ApplySubmission runs the submit transition of the state machine on the
// record. A zero-value record (Status KycNone) represents "no record yet".
// The record is only mutated when the transition is legal.
func (r *KycRecord) ApplySubmission(sub KycSubmission, maxAttempts, maxEdits int) (SubmitOutcome, error) {
	if err := sub.Validate(); err != nil {
		return "", err
	}

	outcome := OutcomeSubmitted
	switch {
	case r.Status == KycApproved && r.Edited >= maxEdits:
		return "", apperrors.ErrEditLimitExceeded
	case r.Status == KycApproved:
		r.Edited++
		outcome = OutcomeEdited
	case r.Attempts >= maxAttempts:
		return "", apperrors.ErrAttemptsExceeded
	}

	r.FullName = sub.FullName
	r.DateOfBirth = sub.DateOfBirth
	r.IDNumber = sub.IDNumber
	r.EvidenceRef = sub.EvidenceRef
	r.Status = KycPending
	r.Attempts++
	return outcome, nil
}

// ApplyDecision moves a Pending record to Approved or Rejected.
func (r *KycRecord) ApplyDecision(approve bool) error {
	if r.Status != KycPending {
		return fmt.Errorf("%w: cannot decide on record in status %s", apperrors.ErrValidation, r.Status)
	}
	if approve {
		r.Status = KycApproved
	} else {
		r.Status = KycRejected
	}
	return nil
}

// RemainingAttempts reports how many submissions are left before lockout.
func (r *KycRecord) RemainingAttempts(maxAttempts int) int {
	remaining := maxAttempts - r.Attempts
	if remaining < 0 {
		return 0
	}
	return remaining
}

// ValidKycStatus reports whether s is one of the three moderator-settable states.
func ValidKycStatus(s KycStatus) bool {
	switch s {
	case KycPending, KycApproved, KycRejected:
		return true
	}
	return false
}
