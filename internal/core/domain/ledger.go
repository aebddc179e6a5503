package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry records the outcome of a single balance mutation.
type LedgerEntry struct {
	EntryID      string
	AccountID    string
	Delta        decimal.Decimal
	BalanceAfter decimal.Decimal
	Reason       string
	CreatedAt    time.Time
}

// FeeSide is the trade execution role the fee rate depends on.
type FeeSide string

const (
	Maker FeeSide = "MAKER"
	Taker FeeSide = "TAKER"
)

// FeeSchedule holds the four fee rates: native-token trades get the lower
// schedule, everything else the higher one.
type FeeSchedule struct {
	NativeMaker decimal.Decimal
	NativeTaker decimal.Decimal
	OtherMaker  decimal.Decimal
	OtherTaker  decimal.Decimal
}

// Rate picks the applicable fee rate.
func (f FeeSchedule) Rate(native bool, side FeeSide) decimal.Decimal {
	if native {
		if side == Maker {
			return f.NativeMaker
		}
		return f.NativeTaker
	}
	if side == Maker {
		return f.OtherMaker
	}
	return f.OtherTaker
}

// Fee computes the fee for a trade of the given amount.
func (f FeeSchedule) Fee(amount decimal.Decimal, native bool, side FeeSide) decimal.Decimal {
	return amount.Mul(f.Rate(native, side))
}

// QuoteTotal converts amount at unitPrice and adds the fee in token-quantity
// terms, so the quoted total is fee-inclusive for upfront payment. The fee is
// deliberately not deducted from amount; sell/withdraw use the opposite model.
func QuoteTotal(amount, unitPrice, fee decimal.Decimal) decimal.Decimal {
	return amount.Div(unitPrice).Add(fee)
}

// LockOrder returns the two account IDs in ascending order. Transfers lock
// rows in this fixed global order so opposing transfers cannot deadlock.
func LockOrder(a, b string) (first, second string) {
	if a <= b {
		return a, b
	}
	return b, a
}
