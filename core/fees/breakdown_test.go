package fees

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticket-settlement/core/money"
	"ticket-settlement/internal/errors"
)

func input(unitPrice money.Money, quantity int64, rate string, strategy Strategy) PaymentInput {
	return PaymentInput{
		UnitPrice:             unitPrice,
		Quantity:              quantity,
		CommissionRatePercent: decimal.RequireFromString(rate),
		Strategy:              strategy,
	}
}

func TestBreakdownBuyerPaysEndToEnd(t *testing.T) {
	c := newDefaultCalculator(t)

	b, err := c.Breakdown(input(5000, 2, "10", BuyerPays))
	require.NoError(t, err)

	assert.Equal(t, PaymentBreakdown{
		Subtotal:                    10000,
		ProcessorFee:                254,
		ProcessingFeeChargedToBuyer: 254,
		CommissionCharge:            1000,
		TotalAmount:                 10254,
	}, b)
	assert.Equal(t, money.Money(9000), b.OrganiserPayout())
}

func TestBreakdownStrategies(t *testing.T) {
	c := newDefaultCalculator(t)

	tests := []struct {
		name string
		in   PaymentInput
		want PaymentBreakdown
	}{
		{
			name: "split fee charges half the subtotal estimate",
			in:   input(5000, 2, "10", SplitFee),
			want: PaymentBreakdown{
				Subtotal:                    10000,
				ProcessorFee:                252,
				ProcessingFeeChargedToBuyer: 125,
				CommissionCharge:            1000,
				TotalAmount:                 10125,
			},
		},
		{
			name: "split fee rounds the buyer half up",
			in:   input(1000, 1, "0", SplitFee),
			want: PaymentBreakdown{
				Subtotal:                    1000,
				ProcessorFee:                16,
				ProcessingFeeChargedToBuyer: 8,
				CommissionCharge:            0,
				TotalAmount:                 1008,
			},
		},
		{
			name: "split fee charge pushes total past the flat fee threshold",
			in:   input(2499, 1, "0", SplitFee),
			want: PaymentBreakdown{
				Subtotal:                    2499,
				ProcessorFee:                138,
				ProcessingFeeChargedToBuyer: 19,
				CommissionCharge:            0,
				TotalAmount:                 2518,
			},
		},
		{
			name: "organiser pays",
			in:   input(5000, 2, "10", OrganiserPays),
			want: PaymentBreakdown{
				Subtotal:                    10000,
				ProcessorFee:                250,
				ProcessingFeeChargedToBuyer: 0,
				CommissionCharge:            1000,
				TotalAmount:                 10000,
			},
		},
		{
			name: "unrecognised strategy falls back to organiser pays",
			in:   input(5000, 2, "10", Strategy("card_holder_pays")),
			want: PaymentBreakdown{
				Subtotal:                    10000,
				ProcessorFee:                250,
				ProcessingFeeChargedToBuyer: 0,
				CommissionCharge:            1000,
				TotalAmount:                 10000,
			},
		},
		{
			name: "buyer pays above the cap",
			in:   input(100000, 2, "5", BuyerPays),
			want: PaymentBreakdown{
				Subtotal:                    200000,
				ProcessorFee:                2000,
				ProcessingFeeChargedToBuyer: 2000,
				CommissionCharge:            10000,
				TotalAmount:                 202000,
			},
		},
		{
			name: "free tickets",
			in:   input(0, 3, "10", BuyerPays),
			want: PaymentBreakdown{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Breakdown(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBreakdownOrganiserPaysIgnoresCommissionRate(t *testing.T) {
	c := newDefaultCalculator(t)

	for _, rate := range []string{"0", "2.5", "10", "50", "100"} {
		b, err := c.Breakdown(input(3333, 7, rate, OrganiserPays))
		require.NoError(t, err)
		assert.Equal(t, b.Subtotal, b.TotalAmount, "rate=%s", rate)
		assert.Zero(t, b.ProcessingFeeChargedToBuyer, "rate=%s", rate)
	}
}

func TestBreakdownCommissionBounds(t *testing.T) {
	c := newDefaultCalculator(t)

	for _, strategy := range Strategies() {
		for _, price := range []money.Money{1, 99, 2499, 2500, 17_050, 250_000} {
			for _, rate := range []string{"0", "3.75", "10", "100"} {
				in := input(price, 3, rate, strategy)
				b, err := c.Breakdown(in)
				require.NoError(t, err)

				base := Commission(b.Subtotal, in.CommissionRatePercent)
				surplus := money.Max(b.ProcessingFeeChargedToBuyer-b.ProcessorFee, 0)
				assert.GreaterOrEqual(t, b.CommissionCharge, money.Money(0))
				assert.LessOrEqual(t, b.CommissionCharge, base+surplus)
				assert.NoError(t, b.Verify())
			}
		}
	}
}

func TestBreakdownRejectsInvalidInput(t *testing.T) {
	c := newDefaultCalculator(t)

	tests := []struct {
		name string
		in   PaymentInput
	}{
		{"zero quantity", input(5000, 0, "10", BuyerPays)},
		{"negative quantity", input(5000, -2, "10", BuyerPays)},
		{"negative price", input(-1, 1, "10", BuyerPays)},
		{"negative commission", input(5000, 1, "-0.5", BuyerPays)},
		{"commission above 100", input(5000, 1, "100.01", BuyerPays)},
		{"subtotal overflow", input(MaxSubtotal, 2, "10", BuyerPays)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := c.Breakdown(tt.in)
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.TypeInvalidInput), "got %v", err)
			assert.Equal(t, PaymentBreakdown{}, b)
		})
	}
}

func TestBreakdownIsRepeatable(t *testing.T) {
	c := newDefaultCalculator(t)
	in := input(4750, 4, "7.5", SplitFee)

	first, err := c.Breakdown(in)
	require.NoError(t, err)
	second, err := c.Breakdown(in)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestReconcileMovesSurplusIntoCommission(t *testing.T) {
	b := reconcile(PaymentBreakdown{
		Subtotal:                    1000,
		ProcessorFee:                20,
		ProcessingFeeChargedToBuyer: 30,
		CommissionCharge:            100,
		TotalAmount:                 1030,
	})
	assert.Equal(t, money.Money(110), b.CommissionCharge)
	assert.Equal(t, b.Subtotal+b.ProcessingFeeChargedToBuyer, b.TotalAmount)

	// A buyer fee below the real fee is not a surplus.
	under := reconcile(PaymentBreakdown{ProcessorFee: 30, ProcessingFeeChargedToBuyer: 20, CommissionCharge: 100})
	assert.Equal(t, money.Money(100), under.CommissionCharge)

	// Zero commission rate still receives the surplus.
	zero := reconcile(PaymentBreakdown{ProcessorFee: 5, ProcessingFeeChargedToBuyer: 6})
	assert.Equal(t, money.Money(1), zero.CommissionCharge)
}

func TestVerifyFlagsBrokenBreakdowns(t *testing.T) {
	negative := PaymentBreakdown{Subtotal: 100, CommissionCharge: -1, TotalAmount: 100}
	err := negative.Verify()
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeArithmeticInvariant))

	unbalanced := PaymentBreakdown{Subtotal: 100, ProcessingFeeChargedToBuyer: 5, TotalAmount: 104}
	err = unbalanced.Verify()
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeArithmeticInvariant))
}

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		in      string
		want    Strategy
		wantErr bool
	}{
		{"", BuyerPays, false},
		{"buyer_pays", BuyerPays, false},
		{" Split_Fee ", SplitFee, false},
		{"organiser_pays", OrganiserPays, false},
		{"organizer_pays", "", true},
	}

	for _, tt := range tests {
		got, err := ParseStrategy(tt.in)
		if tt.wantErr {
			require.Error(t, err, "input %q", tt.in)
			assert.True(t, errors.IsType(err, errors.TypeInvalidInput))
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got)
	}
}
