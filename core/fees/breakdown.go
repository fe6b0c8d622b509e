package fees

import (
	"github.com/shopspring/decimal"

	"ticket-settlement/core/money"
	"ticket-settlement/internal/errors"
)

// MaxSubtotal bounds the subtotal so that gross-up never overflows int64
const MaxSubtotal money.Money = 1_000_000_000_000_000

// PaymentInput describes one checkout attempt
type PaymentInput struct {
	// UnitPrice is the ticket price in minor units
	UnitPrice money.Money `json:"unit_price"`

	// Quantity is the number of tickets, at least 1
	Quantity int64 `json:"quantity"`

	// CommissionRatePercent is the platform's cut of the subtotal, in [0, 100]
	CommissionRatePercent decimal.Decimal `json:"commission_rate_percent"`

	// Strategy decides who carries the processor fee
	Strategy Strategy `json:"processing_fee_strategy"`
}

// Validate rejects inputs that would hide a caller bug
func (in PaymentInput) Validate() error {
	if in.Quantity <= 0 {
		return errors.InvalidInput("quantity must be positive, got %d", in.Quantity).
			WithContext("quantity", in.Quantity)
	}
	if in.UnitPrice < 0 {
		return errors.InvalidInput("unit price must not be negative, got %d", in.UnitPrice).
			WithContext("unit_price", int64(in.UnitPrice))
	}
	if in.CommissionRatePercent.IsNegative() || in.CommissionRatePercent.GreaterThan(hundred) {
		return errors.InvalidInput("commission rate must be in [0, 100], got %s", in.CommissionRatePercent).
			WithContext("commission_rate_percent", in.CommissionRatePercent.String())
	}
	return nil
}

// PaymentBreakdown is the settlement of one checkout, in minor units
type PaymentBreakdown struct {
	Subtotal                    money.Money `json:"subtotal"`
	ProcessorFee                money.Money `json:"processor_fee"`
	ProcessingFeeChargedToBuyer money.Money `json:"processing_fee_charged_to_buyer"`
	CommissionCharge            money.Money `json:"commission_charge"`
	TotalAmount                 money.Money `json:"total_amount"`
}

// OrganiserPayout is what reaches the organiser once the processor and the
// platform have taken their shares.
func (b PaymentBreakdown) OrganiserPayout() money.Money {
	return b.TotalAmount - b.ProcessorFee - b.CommissionCharge
}

// Verify checks the invariants every breakdown must satisfy.
func (b PaymentBreakdown) Verify() error {
	fields := []struct {
		name  string
		value money.Money
	}{
		{"subtotal", b.Subtotal},
		{"processor_fee", b.ProcessorFee},
		{"processing_fee_charged_to_buyer", b.ProcessingFeeChargedToBuyer},
		{"commission_charge", b.CommissionCharge},
		{"total_amount", b.TotalAmount},
	}
	for _, f := range fields {
		if f.value.IsNegative() {
			return errors.ArithmeticInvariant("%s is negative: %d", f.name, f.value).
				WithContext("breakdown", b)
		}
	}
	if b.TotalAmount != b.Subtotal+b.ProcessingFeeChargedToBuyer {
		return errors.ArithmeticInvariant("total %d does not equal subtotal %d plus buyer fee %d",
			b.TotalAmount, b.Subtotal, b.ProcessingFeeChargedToBuyer).WithContext("breakdown", b)
	}
	return nil
}

// Breakdown settles a checkout under its fee strategy.
func (c *Calculator) Breakdown(in PaymentInput) (PaymentBreakdown, error) {
	if err := in.Validate(); err != nil {
		return PaymentBreakdown{}, err
	}

	subtotal, ok := money.MulInt(in.UnitPrice, in.Quantity)
	if !ok || subtotal > MaxSubtotal {
		return PaymentBreakdown{}, errors.InvalidInput("subtotal of %d x %d exceeds %d",
			in.UnitPrice, in.Quantity, MaxSubtotal)
	}

	var chargedToBuyer, total money.Money
	switch in.Strategy.effective() {
	case BuyerPays:
		total = c.GrossAmount(subtotal)
		chargedToBuyer = total - subtotal
	case SplitFee:
		// Estimated on the subtotal, not the final charge; reconcile settles the difference.
		estimate := c.ProcessorFee(subtotal)
		chargedToBuyer = money.Ceil(estimate.Decimal().Div(two))
		total = subtotal + chargedToBuyer
	default:
		total = subtotal
	}

	b := reconcile(PaymentBreakdown{
		Subtotal:                    subtotal,
		ProcessorFee:                c.ProcessorFee(total),
		ProcessingFeeChargedToBuyer: chargedToBuyer,
		CommissionCharge:            Commission(subtotal, in.CommissionRatePercent),
		TotalAmount:                 total,
	})

	if err := b.Verify(); err != nil {
		return PaymentBreakdown{}, err
	}
	return b, nil
}

// reconcile moves any buyer fee collected above the real processor fee into
// the commission so that no collected money goes unaccounted.
func reconcile(b PaymentBreakdown) PaymentBreakdown {
	if surplus := b.ProcessingFeeChargedToBuyer - b.ProcessorFee; surplus > 0 {
		b.CommissionCharge += surplus
	}
	return b
}
