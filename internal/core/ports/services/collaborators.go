package services

import (
	"context"

	"github.com/shopspring/decimal"
)

// KeyMaterial is what the custodial key service hands back at provisioning:
// a public payout address and an opaque reference into the key store. Private
// key material never crosses this boundary.
type KeyMaterial struct {
	PayoutAddress string
	KeyReference  string
}

// KeyGenerator provisions a fresh custodial key pair for a new account.
type KeyGenerator interface {
	GenerateKeyPair(ctx context.Context) (KeyMaterial, error)
}

// PriceSource supplies the current unit price of an asset in the quote
// currency. Implementations must honor the context deadline and surface
// failures as apperrors.ErrPriceUnavailable or apperrors.ErrExternalTimeout.
type PriceSource interface {
	UnitPrice(ctx context.Context, asset string) (decimal.Decimal, error)
}

// PaymentLinker builds the provider-specific payment reference (link or
// identifier) for a quoted total on a given channel.
type PaymentLinker interface {
	PaymentLink(channel string, total decimal.Decimal) (string, error)

	// Channels lists the payment channels the linker can serve.
	Channels() []string
}

// PaymentVerifier checks with the external provider whether the payment
// behind a reference has completed. Calls are made with a bounded timeout;
// a timeout surfaces as apperrors.ErrExternalTimeout, a negative answer as
// apperrors.ErrPaymentNotVerified.
type PaymentVerifier interface {
	VerifyPayment(ctx context.Context, channel, paymentReference string) error
}
