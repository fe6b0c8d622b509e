package fees

import (
	"github.com/shopspring/decimal"

	"ticket-settlement/core/money"
)

// Calculator prices payments against one immutable Schedule.
// It holds no mutable state and is safe for concurrent use.
type Calculator struct {
	schedule Schedule

	// rate is RatePercent as a fraction
	rate decimal.Decimal

	// retained is the share of a charge left after the percentage fee (1 - rate)
	retained decimal.Decimal
}

// NewCalculator validates the schedule and returns a calculator for it
func NewCalculator(schedule Schedule) (*Calculator, error) {
	if err := schedule.Validate(); err != nil {
		return nil, err
	}
	rate := schedule.RatePercent.Div(hundred)
	return &Calculator{
		schedule: schedule,
		rate:     rate,
		retained: decimal.NewFromInt(1).Sub(rate),
	}, nil
}

// Schedule returns the schedule the calculator was built with
func (c *Calculator) Schedule() Schedule {
	return c.schedule
}

// ProcessorFee returns what the processor deducts from a charge of amount.
func (c *Calculator) ProcessorFee(amount money.Money) money.Money {
	if amount <= 0 {
		return 0
	}

	fee := amount.Decimal().Mul(c.rate)
	if amount >= c.schedule.FlatFeeThreshold {
		fee = fee.Add(c.schedule.FlatFee.Decimal())
	}

	return money.Min(money.Ceil(fee), c.schedule.Cap)
}

// GrossAmount returns the charge that leaves exactly targetNet after the
// processor's fee. The flat fee threshold and the cap make the fee formula
// non-invertible in closed form, so both are handled as separate steps.
func (c *Calculator) GrossAmount(targetNet money.Money) money.Money {
	if targetNet <= 0 {
		return 0
	}

	net := targetNet.Decimal()
	total := money.Ceil(net.Div(c.retained))

	// The flat fee is decided by the final charge, not by the net amount.
	if total >= c.schedule.FlatFeeThreshold {
		total = money.Ceil(net.Add(c.schedule.FlatFee.Decimal()).Div(c.retained))
	}

	if total-targetNet > c.schedule.Cap {
		total = targetNet + c.schedule.Cap
	}

	return total
}

// Commission returns the platform's cut of subtotal at ratePercent, rounded down.
func Commission(subtotal money.Money, ratePercent decimal.Decimal) money.Money {
	if subtotal <= 0 || !ratePercent.IsPositive() {
		return 0
	}
	return money.Floor(subtotal.Decimal().Mul(ratePercent).Div(hundred))
}
