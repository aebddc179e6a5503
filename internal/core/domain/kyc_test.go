package domain_test

import (
	"testing"

	"github.com/plutoken/plubot_backend/internal/apperrors"
	"github.com/plutoken/plubot_backend/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	maxAttempts = 3
	maxEdits    = 1
)

func validSubmission() domain.KycSubmission {
	return domain.KycSubmission{
		FullName:    "John Smith",
		DateOfBirth: "01/31/1990",
		IDNumber:    "AB123456",
		EvidenceRef: "evidence/ab123456.jpg",
	}
}

func TestKycSubmissionValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, validSubmission().Validate())
	})

	t.Run("name with digits rejected", func(t *testing.T) {
		sub := validSubmission()
		sub.FullName = "John Smith 3rd"
		assert.ErrorIs(t, sub.Validate(), apperrors.ErrValidation)
	})

	t.Run("name with punctuation rejected", func(t *testing.T) {
		sub := validSubmission()
		sub.FullName = "O'Brien"
		assert.ErrorIs(t, sub.Validate(), apperrors.ErrValidation)
	})

	t.Run("wrong date format rejected", func(t *testing.T) {
		sub := validSubmission()
		sub.DateOfBirth = "1990-01-31"
		assert.ErrorIs(t, sub.Validate(), apperrors.ErrValidation)
	})

	t.Run("impossible date rejected", func(t *testing.T) {
		sub := validSubmission()
		sub.DateOfBirth = "02/30/1990"
		assert.ErrorIs(t, sub.Validate(), apperrors.ErrValidation)
	})
}

func TestApplySubmission_FirstSubmission(t *testing.T) {
	rec := domain.KycRecord{AccountID: "acc-1", Status: domain.KycNone}

	outcome, err := rec.ApplySubmission(validSubmission(), maxAttempts, maxEdits)

	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeSubmitted, outcome)
	assert.Equal(t, domain.KycPending, rec.Status)
	assert.Equal(t, 1, rec.Attempts)
	assert.Equal(t, 0, rec.Edited)
	assert.Equal(t, "John Smith", rec.FullName)
}

func TestApplySubmission_ResubmitAfterRejection(t *testing.T) {
	rec := domain.KycRecord{AccountID: "acc-1", Status: domain.KycRejected, Attempts: 1}

	outcome, err := rec.ApplySubmission(validSubmission(), maxAttempts, maxEdits)

	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeSubmitted, outcome)
	assert.Equal(t, domain.KycPending, rec.Status)
	assert.Equal(t, 2, rec.Attempts)
}

func TestApplySubmission_AttemptsExhausted(t *testing.T) {
	rec := domain.KycRecord{AccountID: "acc-1", Status: domain.KycNone}

	// Submit and reject until the cap is reached.
	for i := 0; i < maxAttempts; i++ {
		_, err := rec.ApplySubmission(validSubmission(), maxAttempts, maxEdits)
		require.NoError(t, err)
		require.NoError(t, rec.ApplyDecision(false))
	}
	assert.Equal(t, maxAttempts, rec.Attempts)
	assert.Equal(t, 0, rec.RemainingAttempts(maxAttempts))

	before := rec
	_, err := rec.ApplySubmission(validSubmission(), maxAttempts, maxEdits)

	assert.ErrorIs(t, err, apperrors.ErrAttemptsExceeded)
	assert.Equal(t, before, rec, "a blocked submission must not change the record")
}

func TestApplySubmission_EditAfterApproval(t *testing.T) {
	rec := domain.KycRecord{AccountID: "acc-1", Status: domain.KycNone}

	_, err := rec.ApplySubmission(validSubmission(), maxAttempts, maxEdits)
	require.NoError(t, err)
	require.NoError(t, rec.ApplyDecision(true))
	require.Equal(t, domain.KycApproved, rec.Status)

	edit := validSubmission()
	edit.FullName = "Jonathan Smith"
	outcome, err := rec.ApplySubmission(edit, maxAttempts, maxEdits)

	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeEdited, outcome)
	assert.Equal(t, domain.KycPending, rec.Status)
	assert.Equal(t, 1, rec.Edited)
	assert.Equal(t, "Jonathan Smith", rec.FullName)

	// Approve the edit, then the edit budget is spent.
	require.NoError(t, rec.ApplyDecision(true))
	before := rec
	_, err = rec.ApplySubmission(validSubmission(), maxAttempts, maxEdits)

	assert.ErrorIs(t, err, apperrors.ErrEditLimitExceeded)
	assert.Equal(t, before, rec)
}

func TestApplySubmission_EditedOnlyIncrementsOnApprovedTransition(t *testing.T) {
	rec := domain.KycRecord{AccountID: "acc-1", Status: domain.KycNone}

	_, err := rec.ApplySubmission(validSubmission(), maxAttempts, maxEdits)
	require.NoError(t, err)
	require.NoError(t, rec.ApplyDecision(false))

	_, err = rec.ApplySubmission(validSubmission(), maxAttempts, maxEdits)
	require.NoError(t, err)

	assert.Equal(t, 0, rec.Edited, "rejected resubmissions are not edits")
}

func TestApplyDecision(t *testing.T) {
	t.Run("approve pending", func(t *testing.T) {
		rec := domain.KycRecord{Status: domain.KycPending}
		require.NoError(t, rec.ApplyDecision(true))
		assert.Equal(t, domain.KycApproved, rec.Status)
	})

	t.Run("reject pending", func(t *testing.T) {
		rec := domain.KycRecord{Status: domain.KycPending}
		require.NoError(t, rec.ApplyDecision(false))
		assert.Equal(t, domain.KycRejected, rec.Status)
	})

	t.Run("decision on non-pending rejected", func(t *testing.T) {
		for _, status := range []domain.KycStatus{domain.KycNone, domain.KycApproved, domain.KycRejected} {
			rec := domain.KycRecord{Status: status}
			assert.ErrorIs(t, rec.ApplyDecision(true), apperrors.ErrValidation)
			assert.Equal(t, status, rec.Status)
		}
	})
}

func TestRemainingAttempts(t *testing.T) {
	rec := domain.KycRecord{Attempts: 2}
	assert.Equal(t, 1, rec.RemainingAttempts(maxAttempts))

	rec.Attempts = 5
	assert.Equal(t, 0, rec.RemainingAttempts(maxAttempts), "never negative")
}

func TestValidKycStatus(t *testing.T) {
	assert.True(t, domain.ValidKycStatus(domain.KycPending))
	assert.True(t, domain.ValidKycStatus(domain.KycApproved))
	assert.True(t, domain.ValidKycStatus(domain.KycRejected))
	assert.False(t, domain.ValidKycStatus(domain.KycNone))
	assert.False(t, domain.ValidKycStatus(domain.KycStatus("BOGUS")))
}
