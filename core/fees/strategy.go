package fees

import (
	"strings"

	"ticket-settlement/internal/errors"
)

// Strategy decides who carries the processor's fee
type Strategy string

const (
	// BuyerPays grosses the charge up so the organiser nets the full subtotal
	BuyerPays Strategy = "buyer_pays"

	// SplitFee charges the buyer half of the fee estimated on the subtotal
	SplitFee Strategy = "split_fee"

	// OrganiserPays charges the subtotal and leaves the fee with the organiser
	OrganiserPays Strategy = "organiser_pays"
)

// DefaultStrategy is used when a checkout does not name a strategy.
const DefaultStrategy = BuyerPays

// Strategies lists the recognised strategies
func Strategies() []Strategy {
	return []Strategy{BuyerPays, SplitFee, OrganiserPays}
}

// ParseStrategy maps a wire value to a Strategy. The empty string selects
// DefaultStrategy; anything else unrecognised is rejected.
func ParseStrategy(s string) (Strategy, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if key == "" {
		return DefaultStrategy, nil
	}
	for _, st := range Strategies() {
		if string(st) == key {
			return st, nil
		}
	}
	return "", errors.InvalidInput("unknown processing fee strategy %q", s)
}

// effective returns the strategy Breakdown applies. Values that never went
// through ParseStrategy fall back to OrganiserPays.
func (s Strategy) effective() Strategy {
	switch s {
	case BuyerPays, SplitFee:
		return s
	default:
		return OrganiserPays
	}
}

// String returns the wire value
func (s Strategy) String() string {
	return string(s)
}
