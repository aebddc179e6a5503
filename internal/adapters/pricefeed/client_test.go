package pricefeed_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/plutoken/plubot_backend/internal/adapters/pricefeed"
	"github.com/plutoken/plubot_backend/internal/apperrors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitPrice_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/data/price", r.URL.Path)
		assert.Equal(t, "XPLT", r.URL.Query().Get("fsym"))
		assert.Equal(t, "USD", r.URL.Query().Get("tsyms"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"USD": 2.5}`))
	}))
	defer srv.Close()

	client := pricefeed.NewClient(srv.URL, time.Second)

	price, err := client.UnitPrice(context.Background(), "xplt")

	require.NoError(t, err)
	assert.True(t, price.Equal(decimal.RequireFromString("2.5")))
}

func TestUnitPrice_MissingQuoteCurrency(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"EUR": 2.5}`))
	}))
	defer srv.Close()

	client := pricefeed.NewClient(srv.URL, time.Second)

	_, err := client.UnitPrice(context.Background(), "xplt")

	assert.ErrorIs(t, err, apperrors.ErrPriceUnavailable)
}

func TestUnitPrice_ZeroPrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"USD": 0}`))
	}))
	defer srv.Close()

	client := pricefeed.NewClient(srv.URL, time.Second)

	_, err := client.UnitPrice(context.Background(), "xplt")

	assert.ErrorIs(t, err, apperrors.ErrPriceUnavailable)
}

func TestUnitPrice_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := pricefeed.NewClient(srv.URL, time.Second)

	_, err := client.UnitPrice(context.Background(), "xplt")

	assert.ErrorIs(t, err, apperrors.ErrPriceUnavailable)
}

func TestUnitPrice_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`{"USD": 2.5}`))
	}))
	defer srv.Close()

	client := pricefeed.NewClient(srv.URL, 10*time.Millisecond)

	_, err := client.UnitPrice(context.Background(), "xplt")

	assert.ErrorIs(t, err, apperrors.ErrExternalTimeout)
}

func TestUnitPrice_EmptyBaseURL(t *testing.T) {
	client := pricefeed.NewClient("", time.Second)

	_, err := client.UnitPrice(context.Background(), "xplt")

	assert.ErrorIs(t, err, apperrors.ErrPriceUnavailable)
}
