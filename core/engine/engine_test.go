package engine

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"ticket-settlement/core/catalog"
	"ticket-settlement/core/entitlements"
	"ticket-settlement/core/fees"
	"ticket-settlement/core/money"
	"ticket-settlement/internal/errors"
)

var fixedID = uuid.MustParse("7f1c2a9e-4b1d-4c55-9a0e-1f2d3c4b5a69")

func newObservedEngine(t *testing.T, cat *catalog.Catalog) (*Engine, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	e, err := New(cat,
		WithLogger(zap.New(core)),
		WithIDGenerator(func() uuid.UUID { return fixedID }),
	)
	require.NoError(t, err)
	return e, logs
}

func TestQuoteLogsBreakdownForAudit(t *testing.T) {
	e, logs := newObservedEngine(t, nil)

	q, err := e.Quote(fees.PaymentInput{
		UnitPrice:             5000,
		Quantity:              2,
		CommissionRatePercent: decimal.NewFromInt(10),
		Strategy:              fees.BuyerPays,
	})
	require.NoError(t, err)

	assert.Equal(t, fixedID, q.ID)
	assert.Equal(t, money.Money(10254), q.Breakdown.TotalAmount)
	assert.Equal(t, money.Money(1000), q.Breakdown.CommissionCharge)
	assert.Equal(t, money.Money(9000), q.OrganiserPayout)

	entries := logs.FilterMessage("quote priced").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, fixedID.String(), fields["quote_id"])
	assert.Equal(t, int64(10254), fields["total_amount"])
	assert.Equal(t, catalog.SourceBuiltin, fields["catalog"])
}

func TestQuoteReturnsInvalidInput(t *testing.T) {
	e, logs := newObservedEngine(t, nil)

	q, err := e.Quote(fees.PaymentInput{UnitPrice: 5000, Quantity: 0, Strategy: fees.BuyerPays})
	require.Error(t, err)
	assert.Nil(t, q)
	assert.True(t, errors.IsType(err, errors.TypeInvalidInput))
	assert.Equal(t, 1, logs.FilterMessage("quote rejected").Len())
}

func TestQuoteSerialisesWithWireNames(t *testing.T) {
	e, _ := newObservedEngine(t, nil)

	q, err := e.Quote(fees.PaymentInput{
		UnitPrice:             2500,
		Quantity:              1,
		CommissionRatePercent: decimal.Zero,
		Strategy:              fees.OrganiserPays,
	})
	require.NoError(t, err)

	data, err := json.Marshal(q)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	b := decoded["breakdown"].(map[string]any)
	assert.Equal(t, float64(2500), b["subtotal"])
	assert.Equal(t, float64(138), b["processor_fee"])
	assert.Equal(t, float64(0), b["processing_fee_charged_to_buyer"])
	assert.Equal(t, float64(2500), b["total_amount"])
	assert.Equal(t, "organiser_pays", decoded["input"].(map[string]any)["processing_fee_strategy"])
}

func TestUpgradeFailsOpenAndLogs(t *testing.T) {
	e, logs := newObservedEngine(t, nil)

	res := e.Upgrade("Gold", "collaborators", entitlements.Usage{entitlements.FeatureCollaborators: 99})
	assert.Equal(t, entitlements.StatusUnrestricted, res.Status)
	assert.Equal(t, 1, logs.FilterMessage("entitlement not configured, failing open").Len())

	res = e.Upgrade("Basic", "event_program", nil)
	next, ok := res.Upgrade()
	require.True(t, ok)
	assert.Equal(t, entitlements.TierStandard, next)

	resolved := logs.FilterMessage("entitlement resolved").All()
	require.Len(t, resolved, 1)
	assert.Equal(t, "Standard", resolved[0].ContextMap()["suggested_tier"])
}

func TestEngineUsesSuppliedCatalog(t *testing.T) {
	table, err := entitlements.NewTable(
		[]entitlements.Tier{"Solo", "Crew"},
		map[entitlements.Tier]entitlements.TierLimits{
			"Solo": {Collaborators: 0},
			"Crew": {Price: 900, Collaborators: 3},
		},
	)
	require.NoError(t, err)

	cat := &catalog.Catalog{
		Fees: fees.Schedule{
			RatePercent:      decimal.NewFromInt(2),
			FlatFee:          0,
			FlatFeeThreshold: 0,
			Cap:              10_000,
		},
		Tiers:  table,
		Source: "inline",
	}
	e, _ := newObservedEngine(t, cat)

	q, err := e.Quote(fees.PaymentInput{UnitPrice: 1000, Quantity: 1, Strategy: fees.OrganiserPays})
	require.NoError(t, err)
	assert.Equal(t, money.Money(20), q.Breakdown.ProcessorFee)

	res := e.Upgrade("Solo", "collaborators", nil)
	assert.Equal(t, entitlements.StatusUpgradeAvailable, res.Status)
	assert.Equal(t, entitlements.Tier("Crew"), res.SuggestedTier)
	assert.Equal(t, money.Money(900), res.Price)
}

func TestNewRejectsInvalidCatalog(t *testing.T) {
	_, err := New(&catalog.Catalog{Fees: fees.Schedule{}, Tiers: entitlements.DefaultTable()})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeConfig))

	_, err = New(&catalog.Catalog{Fees: fees.DefaultSchedule()})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeConfig))
}
