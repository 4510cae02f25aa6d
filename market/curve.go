package market

import "math/bits"

// Curve parameter defaults. The multiplier is expressed in nano-units per
// squared sequence number, calibrated so sequence 72 prices at one whole unit:
// 192901 * 72² / 1000 = 999998 micro-units.
const (
	DefaultMultiplierNano uint64 = 192901
	DefaultMinPrice       Amount = 100 // 0.000100 units, the price of sequence 0

	// curveDivisor converts nano-unit products down to micro-unit prices.
	curveDivisor uint64 = 1000

	// minMultiplierNano is the smallest multiplier for which consecutive
	// prices still differ by at least one micro-unit at sequence 1
	// (m*(2s+1) >= 1000 for all s >= 1).
	minMultiplierNano uint64 = 334
)

// Curve is the bonding-curve pricer: a pure quadratic function from issuance
// sequence number to price. It is a value type on purpose so an admin
// changing the multiplier only affects future evaluations.
type Curve struct {
	MultiplierNano uint64
	MinPrice       Amount
}

// DefaultCurve returns the calibrated default pricer.
// Example payload: DefaultCurve().Price(72)
func DefaultCurve() Curve {
	return Curve{MultiplierNano: DefaultMultiplierNano, MinPrice: DefaultMinPrice}
}

// Price maps an issuance sequence number to its price in micro-units.
// Sequence 0 always costs the configured minimum. The intermediate product is
// tracked in 128 bits so a huge multiplier or sequence fails loudly instead
// of wrapping.
func (c Curve) Price(seq uint64) (Amount, error) {
	if seq == 0 {
		return c.MinPrice, nil
	}
	hi, sq := bits.Mul64(seq, seq)
	if hi != 0 {
		return 0, ErrPriceOverflow
	}
	hi, prod := bits.Mul64(c.MultiplierNano, sq)
	if hi != 0 {
		return 0, ErrPriceOverflow
	}
	p := prod / curveDivisor
	if p > uint64(maxAmount) {
		return 0, ErrPriceOverflow
	}
	if Amount(p) < c.MinPrice {
		return c.MinPrice, nil
	}
	return Amount(p), nil
}

// Validate rejects degenerate parameters: a multiplier too small to keep the
// curve strictly increasing, or a minimum price the curve never clears at
// sequence 1.
func (c Curve) Validate() error {
	if c.MultiplierNano < minMultiplierNano {
		return validationErr("bad_multiplier", "multiplier %d below minimum %d", c.MultiplierNano, minMultiplierNano)
	}
	if c.MinPrice <= 0 {
		return validationErr("bad_min_price", "minimum price must be positive")
	}
	if Amount(c.MultiplierNano/curveDivisor) <= c.MinPrice {
		return validationErr("bad_multiplier", "multiplier %d does not clear the minimum price at sequence 1", c.MultiplierNano)
	}
	return nil
}

const maxAmount = Amount(1<<63 - 1)
