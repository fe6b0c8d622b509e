package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ticket-settlement/core/catalog"
	"ticket-settlement/core/engine"
	"ticket-settlement/core/entitlements"
	"ticket-settlement/core/fees"
)

func newQuote(t *testing.T) *engine.Quote {
	t.Helper()
	e, err := engine.New(nil,
		engine.WithLogger(zap.NewNop()),
		engine.WithIDGenerator(func() uuid.UUID { return uuid.Nil }),
	)
	require.NoError(t, err)

	q, err := e.Quote(fees.PaymentInput{
		UnitPrice:             5000,
		Quantity:              2,
		CommissionRatePercent: decimal.NewFromInt(10),
		Strategy:              fees.BuyerPays,
	})
	require.NoError(t, err)
	return q
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatCLI, f)

	f, err = ParseFormat("JSON")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = ParseFormat("html")
	assert.Error(t, err)
}

func TestJSONQuote(t *testing.T) {
	f, err := New(FormatJSON, true)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.Quote(&buf, newQuote(t)))

	var decoded struct {
		Breakdown fees.PaymentBreakdown `json:"breakdown"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.EqualValues(t, 10254, decoded.Breakdown.TotalAmount)
	assert.EqualValues(t, 254, decoded.Breakdown.ProcessingFeeChargedToBuyer)
}

func TestCLIQuote(t *testing.T) {
	f, err := New(FormatCLI, true)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.Quote(&buf, newQuote(t)))

	out := buf.String()
	assert.Contains(t, out, "Checkout Breakdown")
	assert.Contains(t, out, "10,254")
	assert.Contains(t, out, "102.54")
	assert.Contains(t, out, "buyer_pays")
	assert.NotContains(t, out, "\033[")
}

func TestCLIResolutionPaywallCard(t *testing.T) {
	f, err := New(FormatCLI, true)
	require.NoError(t, err)

	r, err := entitlements.NewResolver(entitlements.DefaultTable())
	require.NoError(t, err)
	res := r.Resolve(entitlements.TierBasic, entitlements.FeatureCollaborators,
		entitlements.Usage{entitlements.FeatureCollaborators: 1})

	var buf bytes.Buffer
	require.NoError(t, f.Resolution(&buf, res))
	out := buf.String()
	assert.Contains(t, out, "Upgrade to Standard")
	assert.Contains(t, out, "25000.00 / month")

	buf.Reset()
	require.NoError(t, f.Resolution(&buf, r.Resolve(entitlements.TierPremium, entitlements.FeatureCollaborators, nil)))
	assert.Contains(t, buf.String(), "available on Premium (limit unlimited)")
}

func TestCatalogRenderings(t *testing.T) {
	cat := catalog.Default()

	cli, err := New(FormatCLI, true)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, cli.Catalog(&buf, cat))
	assert.Contains(t, buf.String(), "event_program")
	assert.Contains(t, buf.String(), "unlimited")

	js, err := New(FormatJSON, true)
	require.NoError(t, err)
	buf.Reset()
	require.NoError(t, js.Catalog(&buf, cat))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, []any{"Basic", "Standard", "Premium"}, decoded["tier_order"])
	premium := decoded["tiers"].(map[string]any)["Premium"].(map[string]any)
	assert.Equal(t, "unlimited", premium["collaborators"])
}

func TestFormatInt(t *testing.T) {
	assert.Equal(t, "0", formatInt(0))
	assert.Equal(t, "999", formatInt(999))
	assert.Equal(t, "1,000", formatInt(1000))
	assert.Equal(t, "10,254", formatInt(10254))
	assert.Equal(t, "-1,234,567", formatInt(-1234567))
}
