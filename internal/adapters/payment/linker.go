package payment

import (
	"fmt"

	"github.com/plutoken/plubot_backend/internal/apperrors"
	portssvc "github.com/plutoken/plubot_backend/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// Supported payment channels.
const (
	ChannelCashApp = "cashapp"
	ChannelStripe  = "stripe"
	ChannelPayPal  = "paypal"
)

// Linker builds provider payment links for quoted totals.
type Linker struct {
	cashAppID string
	payPalID  string
}

var _ portssvc.PaymentLinker = (*Linker)(nil)

// NewLinker creates a Linker from the operator's provider identifiers.
func NewLinker(cashAppID, payPalID string) *Linker {
	return &Linker{cashAppID: cashAppID, payPalID: payPalID}
}

// Channels lists the channels offered on a buy quote.
func (l *Linker) Channels() []string {
	return []string{ChannelCashApp, ChannelStripe, ChannelPayPal}
}

// PaymentLink formats the provider-specific checkout link for a total.
func (l *Linker) PaymentLink(channel string, total decimal.Decimal) (string, error) {
	switch channel {
	case ChannelCashApp:
		return fmt.Sprintf("https://cash.app/%s/pay/%s", l.cashAppID, total.String()), nil
	case ChannelStripe:
		return fmt.Sprintf("https://checkout.stripe.com/pay/%s", total.String()), nil
	case ChannelPayPal:
		return fmt.Sprintf("https://paypal.me/%s/%s", l.payPalID, total.String()), nil
	default:
		return "", fmt.Errorf("%w: payment method %q not supported", apperrors.ErrValidation, channel)
	}
}
