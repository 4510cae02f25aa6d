package market

import (
	"math"

	"github.com/shopspring/decimal"
)

// ValueScale defines the precision multiplier for converting between human
// units and stored int64 micro-units. Six decimals keep the curve strictly
// increasing even for the cheapest early sequence numbers.
const ValueScale = 1_000_000

// Amount is a value quantity in micro-units. Prices, balances and fees all
// use it so arithmetic stays integer and deterministic.
type Amount int64

// FloatToAmount scales human floats by ValueScale and rounds to int64 so storage stays precise.
// Example payload: FloatToAmount(1.234)
func FloatToAmount(v float64) Amount {
	return Amount(math.Round(v * ValueScale))
}

// AmountToFloat converts back to float64 for reporting or events.
// Example payload: AmountToFloat(FloatToAmount(2.5))
func AmountToFloat(v Amount) float64 {
	return float64(v) / ValueScale
}

// ParseAmount reads a human decimal string ("1.000000") into micro-units.
// More than six decimal places is rejected rather than silently truncated.
func ParseAmount(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, validationErr("bad_amount", "invalid amount %q", s)
	}
	scaled := d.Mul(decimal.New(ValueScale, 0))
	if !scaled.IsInteger() {
		return 0, validationErr("bad_amount", "amount %q has more than 6 decimals", s)
	}
	if !scaled.BigInt().IsInt64() {
		return 0, validationErr("bad_amount", "amount %q out of range", s)
	}
	return Amount(scaled.IntPart()), nil
}

// FormatAmount renders micro-units back as a decimal string for the API and events.
// Example payload: FormatAmount(FloatToAmount(0.5))
func FormatAmount(a Amount) string {
	return decimal.New(int64(a), -6).String()
}

// FloorNone is the floor-price sentinel while no listing is active. Listing
// prices are strictly positive, so zero is unambiguous.
const FloorNone Amount = 0

// Listing is a single sale offer for one asset. An asset has at most one
// active listing at any time, and listings are only ever replaced whole.
//
//tinyjson:json
type Listing struct {
	Price  Amount  `json:"price"`
	Seller Address `json:"seller"`
	Active bool    `json:"active"`
}

// ListingSnapshot pairs a listing with its asset id for read-only views.
// Snapshot order is insertion/swap order, not price order.
//
//tinyjson:json
type ListingSnapshot struct {
	ID     uint64  `json:"id"`
	Price  Amount  `json:"price"`
	Seller Address `json:"seller"`
}

// CallCtx carries the identity invoking an entrypoint plus any value sent
// along with the call. The hosting layer (API server, relay, tests) fills it.
type CallCtx struct {
	Sender  Address
	Payment Amount
}

// Receipt reports what a successful purchase actually moved, so callers and
// tests can audit the split without re-deriving it.
//
//tinyjson:json
type Receipt struct {
	ID             uint64  `json:"id"`
	Price          Amount  `json:"price"`
	Fee            Amount  `json:"fee"`
	SellerProceeds Amount  `json:"seller_proceeds"`
	Refund         Amount  `json:"refund"`
	Seller         Address `json:"seller"`
	Buyer          Address `json:"buyer"`
}
