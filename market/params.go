package market

// Params are the administrator-adjustable knobs plus the fixed supply cap.
// They live in one record so a reload sees a consistent set.
//
//tinyjson:json
type Params struct {
	Admin          Address `json:"admin"`
	Treasury       Address `json:"treasury"`
	FeeBps         uint64  `json:"fee_bps"`
	MultiplierNano uint64  `json:"multiplier_nano"`
	MinPrice       Amount  `json:"min_price"`
	MaxSupply      uint64  `json:"max_supply"`
	BaseMetadata   string  `json:"base_metadata"`
}

// Fallback values used when a config leaves a knob unset.
const (
	FallbackFeeBps    uint64 = 500
	FallbackMaxSupply uint64 = 5000
	// feeBpsDenominator: fees are expressed in basis points, 1/10000.
	feeBpsDenominator = 10000
)

// curve assembles the pricer from the current parameters.
func (p Params) curve() Curve {
	return Curve{MultiplierNano: p.MultiplierNano, MinPrice: p.MinPrice}
}

// Validate rejects degenerate parameter sets before they reach storage.
func (p Params) Validate() error {
	if !p.Admin.IsValid() {
		return validationErr("bad_address", "invalid admin address %q", p.Admin)
	}
	if !p.Treasury.IsValid() {
		return validationErr("bad_address", "invalid treasury address %q", p.Treasury)
	}
	if p.FeeBps >= feeBpsDenominator {
		return validationErr("bad_fee", "fee %d bps must stay below %d", p.FeeBps, feeBpsDenominator)
	}
	if p.MaxSupply == 0 {
		return validationErr("bad_supply", "max supply must be positive")
	}
	return p.curve().Validate()
}
