package pricefeed

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
	"github.com/shopspring/decimal"
)

// Client fetches spot prices from a CryptoCompare-style price API:
// GET {base}/data/price?fsym=<ASSET>&tsyms=USD -> {"USD": 2.0}
type Client struct {
	baseURL    string
	httpClient *http.Client
}

var _ portssvc.PriceSource = (*Client)(nil)

// NewClient creates a price feed client with a bounded per-call timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// UnitPrice returns the current USD unit price for the asset. Failures are
// wrapped into the typed taxonomy so callers never retry here.
func (c *Client) UnitPrice(ctx context.Context, asset string) (decimal.Decimal, error) {
	if c.baseURL == "" {
		return decimal.Zero, fmt.Errorf("%w: price feed base url is empty", apperrors.ErrPriceUnavailable)
	}

	q := url.Values{}
	q.Set("fsym", strings.ToUpper(asset))
	q.Set("tsyms", "USD")
	reqURL := fmt.Sprintf("%s/data/price?%s", c.baseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", apperrors.ErrPriceUnavailable, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return decimal.Zero, fmt.Errorf("%w: price feed call for %s", apperrors.ErrExternalTimeout, asset)
		}
		return decimal.Zero, fmt.Errorf("%w: %v", apperrors.ErrPriceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("%w: price feed returned status %d for %s", apperrors.ErrPriceUnavailable, resp.StatusCode, asset)
	}

	var payload map[string]decimal.Decimal
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return decimal.Zero, fmt.Errorf("%w: failed to decode price response: %v", apperrors.ErrPriceUnavailable, err)
	}

	price, ok := payload["USD"]
	if !ok || price.IsZero() || price.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: no usable USD price for %s", apperrors.ErrPriceUnavailable, asset)
	}
	return price, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
