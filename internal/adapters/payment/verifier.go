package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/plutoken/plubot_backend/internal/apperrors"
	portssvc "github.com/plutoken/plubot_backend/internal/core/ports/services"
)

// WebhookVerifier asks the operator's payment-webhook collector whether the
// payment behind a reference has completed:
// GET {base}/payments/status?channel=<c>&reference=<ref> -> {"status": "completed"}
type WebhookVerifier struct {
	baseURL    string
	httpClient *http.Client
}

var _ portssvc.PaymentVerifier = (*WebhookVerifier)(nil)

// NewWebhookVerifier creates a verifier with a bounded per-call timeout.
func NewWebhookVerifier(baseURL string, timeout time.Duration) *WebhookVerifier {
	return &WebhookVerifier{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type statusResponse struct {
	Status string `json:"status"`
}

// VerifyPayment returns nil once the provider reports the payment completed.
func (v *WebhookVerifier) VerifyPayment(ctx context.Context, channel, paymentReference string) error {
	if v.baseURL == "" {
		return fmt.Errorf("%w: payment verify base url is empty", apperrors.ErrPaymentNotVerified)
	}

	q := url.Values{}
	q.Set("channel", channel)
	q.Set("reference", paymentReference)
	reqURL := fmt.Sprintf("%s/payments/status?%s", v.baseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrPaymentNotVerified, err)
	}

	resp, err := v.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: payment verification on %s", apperrors.ErrExternalTimeout, channel)
		}
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return fmt.Errorf("%w: payment verification on %s", apperrors.ErrExternalTimeout, channel)
		}
		return fmt.Errorf("%w: %v", apperrors.ErrPaymentNotVerified, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: verification endpoint returned status %d", apperrors.ErrPaymentNotVerified, resp.StatusCode)
	}

	var payload statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return fmt.Errorf("%w: failed to decode verification response: %v", apperrors.ErrPaymentNotVerified, err)
	}
	if payload.Status != "completed" {
		return fmt.Errorf("%w: provider reports status %q", apperrors.ErrPaymentNotVerified, payload.Status)
	}
	return nil
}
