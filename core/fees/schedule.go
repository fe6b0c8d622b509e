// Package fees - Processor fee schedule, gross-up and settlement breakdowns
// The schedule reproduces the payment processor's own deduction so that the
// amount the platform charges reconciles with what the processor settles.
package fees

import (
	"github.com/shopspring/decimal"

	"ticket-settlement/core/money"
	"ticket-settlement/internal/errors"
)

var (
	hundred = decimal.NewFromInt(100)
	two     = decimal.NewFromInt(2)
)

// Schedule is the processor's fee formula:
// ceil(amount * RatePercent/100 + FlatFee if amount >= FlatFeeThreshold), capped at Cap.
type Schedule struct {
	// RatePercent is the percentage part of the fee (1.5 means 1.5%)
	RatePercent decimal.Decimal `json:"rate_percent"`

	// FlatFee is added once the amount reaches FlatFeeThreshold
	FlatFee money.Money `json:"flat_fee"`

	// FlatFeeThreshold is the smallest amount that attracts the flat fee
	FlatFeeThreshold money.Money `json:"flat_fee_threshold"`

	// Cap is the largest fee the processor ever deducts
	Cap money.Money `json:"cap"`
}

// DefaultSchedule returns the processor's published local card schedule
func DefaultSchedule() Schedule {
	return Schedule{
		RatePercent:      decimal.RequireFromString("1.5"),
		FlatFee:          100,
		FlatFeeThreshold: 2500,
		Cap:              2000,
	}
}

// Validate checks the schedule can be inverted by GrossAmount.
func (s Schedule) Validate() error {
	if s.RatePercent.IsNegative() || s.RatePercent.GreaterThanOrEqual(hundred) {
		return errors.Newf(errors.TypeConfig, "fee rate must be in [0, 100), got %s", s.RatePercent)
	}
	if s.FlatFee < 0 {
		return errors.Newf(errors.TypeConfig, "flat fee must not be negative, got %d", s.FlatFee)
	}
	if s.FlatFeeThreshold < 0 {
		return errors.Newf(errors.TypeConfig, "flat fee threshold must not be negative, got %d", s.FlatFeeThreshold)
	}
	if s.Cap <= 0 {
		return errors.Newf(errors.TypeConfig, "fee cap must be positive, got %d", s.Cap)
	}
	return nil
}
