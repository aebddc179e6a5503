package payment_test

import (
	"testing"

	"github.com/plutoken/plubot_backend/internal/adapters/payment"
	"github.com/plutoken/plubot_backend/internal/apperrors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentLink(t *testing.T) {
	linker := payment.NewLinker("plutoken", "plutoken-pp")
	total := decimal.RequireFromString("5.07")

	link, err := linker.PaymentLink(payment.ChannelCashApp, total)
	require.NoError(t, err)
	assert.Equal(t, "https://cash.app/plutoken/pay/5.07", link)

	link, err = linker.PaymentLink(payment.ChannelStripe, total)
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.stripe.com/pay/5.07", link)

	link, err = linker.PaymentLink(payment.ChannelPayPal, total)
	require.NoError(t, err)
	assert.Equal(t, "https://paypal.me/plutoken-pp/5.07", link)
}

func TestPaymentLink_UnknownChannel(t *testing.T) {
	linker := payment.NewLinker("plutoken", "plutoken-pp")

	_, err := linker.PaymentLink("venmo", decimal.NewFromInt(1))

	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestChannels(t *testing.T) {
	linker := payment.NewLinker("plutoken", "plutoken-pp")

	assert.Equal(t, []string{payment.ChannelCashApp, payment.ChannelStripe, payment.ChannelPayPal}, linker.Channels())
}
