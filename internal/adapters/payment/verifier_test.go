package payment_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/plutoken/plubot_backend/internal/adapters/payment"
	"github.com/plutoken/plubot_backend/internal/apperrors"
	"github.com/stretchr/testify/assert"
)

func TestVerifyPayment_Completed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/payments/status", r.URL.Path)
		assert.Equal(t, "cashapp", r.URL.Query().Get("channel"))
		_, _ = w.Write([]byte(`{"status": "completed"}`))
	}))
	defer srv.Close()

	verifier := payment.NewWebhookVerifier(srv.URL, time.Second)

	assert.NoError(t, verifier.VerifyPayment(context.Background(), "cashapp", "ref-1"))
}

func TestVerifyPayment_NotCompleted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": "pending"}`))
	}))
	defer srv.Close()

	verifier := payment.NewWebhookVerifier(srv.URL, time.Second)

	err := verifier.VerifyPayment(context.Background(), "cashapp", "ref-1")

	assert.ErrorIs(t, err, apperrors.ErrPaymentNotVerified)
}

func TestVerifyPayment_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`{"status": "completed"}`))
	}))
	defer srv.Close()

	verifier := payment.NewWebhookVerifier(srv.URL, 10*time.Millisecond)

	err := verifier.VerifyPayment(context.Background(), "cashapp", "ref-1")

	assert.ErrorIs(t, err, apperrors.ErrExternalTimeout)
}

func TestVerifyPayment_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	verifier := payment.NewWebhookVerifier(srv.URL, time.Second)

	err := verifier.VerifyPayment(context.Background(), "cashapp", "ref-1")

	assert.ErrorIs(t, err, apperrors.ErrPaymentNotVerified)
}
