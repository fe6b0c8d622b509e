// Package output provides output formatting.
// This package produces human and machine-readable outputs.
package output

import (
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"ticket-settlement/core/catalog"
	"ticket-settlement/core/engine"
	"ticket-settlement/core/entitlements"
	"ticket-settlement/core/fees"
	"ticket-settlement/core/money"
	"ticket-settlement/core/ui"
	"ticket-settlement/internal/errors"
)

// Format represents output format type
type Format string

const (
	// FormatCLI is a human-readable terminal rendering
	FormatCLI Format = "cli"

	// FormatJSON is machine-readable JSON
	FormatJSON Format = "json"
)

// ParseFormat maps a flag value to a Format
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatCLI:
		return FormatCLI, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", errors.InvalidInput("unknown output format %q (use cli or json)", s)
	}
}

// Formatter produces output in a specific format
type Formatter interface {
	// Format returns the format type
	Format() Format

	// Quote renders a priced checkout
	Quote(w io.Writer, q *engine.Quote) error

	// Resolution renders an entitlement decision
	Resolution(w io.Writer, res entitlements.Resolution) error

	// Catalog renders the tier and fee configuration
	Catalog(w io.Writer, c *catalog.Catalog) error
}

// New returns the formatter for format
func New(format Format, noColor bool) (Formatter, error) {
	switch format {
	case FormatCLI:
		return &cliFormatter{noColor: noColor}, nil
	case FormatJSON:
		return jsonFormatter{}, nil
	default:
		return nil, errors.InvalidInput("unknown output format %q", format)
	}
}

type jsonFormatter struct{}

func (jsonFormatter) Format() Format { return FormatJSON }

func (jsonFormatter) Quote(w io.Writer, q *engine.Quote) error {
	return writeJSON(w, q)
}

func (jsonFormatter) Resolution(w io.Writer, res entitlements.Resolution) error {
	return writeJSON(w, res)
}

// catalogJSON is the JSON shape of a catalog
type catalogJSON struct {
	Source    string                                        `json:"source"`
	Fees      fees.Schedule                                 `json:"fees"`
	TierOrder []entitlements.Tier                           `json:"tier_order"`
	Tiers     map[entitlements.Tier]entitlements.TierLimits `json:"tiers"`
}

func (jsonFormatter) Catalog(w io.Writer, c *catalog.Catalog) error {
	out := catalogJSON{
		Source:    c.Source,
		Fees:      c.Fees,
		TierOrder: c.Tiers.Order(),
		Tiers:     make(map[entitlements.Tier]entitlements.TierLimits),
	}
	for _, t := range out.TierOrder {
		out.Tiers[t], _ = c.Tiers.Limits(t)
	}
	return writeJSON(w, out)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

type cliFormatter struct {
	noColor bool
}

func (f *cliFormatter) Format() Format { return FormatCLI }

func (f *cliFormatter) Quote(w io.Writer, q *engine.Quote) error {
	uw := ui.NewWriter(w, f.noColor)
	b := q.Breakdown

	uw.Header("Checkout Breakdown")
	table := uw.NewTable("Line", "Minor units", "Amount")
	row := func(label string, m money.Money) {
		table.AddRow(label, formatInt(int64(m)), m.String())
	}
	row("Subtotal", b.Subtotal)
	row("Processing fee (buyer)", b.ProcessingFeeChargedToBuyer)
	row("Total charged", b.TotalAmount)
	row("Processor fee", b.ProcessorFee)
	row("Platform commission", b.CommissionCharge)
	row("Organiser payout", q.OrganiserPayout)
	table.Render()

	uw.Println("")
	uw.Info("strategy %s, commission %s%%", q.Input.Strategy, q.Input.CommissionRatePercent.String())
	uw.Println("  quote %s", q.ID)
	return nil
}

func (f *cliFormatter) Resolution(w io.Writer, res entitlements.Resolution) error {
	uw := ui.NewWriter(w, f.noColor)

	switch res.Status {
	case entitlements.StatusUnrestricted:
		uw.Info("%s is not gated for tier %s", res.Feature, res.CurrentTier)
	case entitlements.StatusUnlocked:
		uw.Success("%s is available on %s (limit %s)", res.Feature, res.CurrentTier, res.CurrentLimit)
	case entitlements.StatusNoUpgradeAvailable:
		uw.Warning("%s is locked on %s (limit %s) and no higher tier raises it", res.Feature, res.CurrentTier, res.CurrentLimit)
	case entitlements.StatusUpgradeAvailable:
		card := uw.NewCard("Upgrade to "+string(res.SuggestedTier), ui.Yellow)
		card.Line("%s is locked on %s (limit %s, using %d)", res.Feature, res.CurrentTier, res.CurrentLimit, res.Usage)
		card.Line("%s allows %s", res.SuggestedTier, res.SuggestedLimit)
		card.Line("Price: %s / month", res.Price)
		card.Render()
	}
	return nil
}

func (f *cliFormatter) Catalog(w io.Writer, c *catalog.Catalog) error {
	uw := ui.NewWriter(w, f.noColor)

	uw.Header("Processor Fees")
	uw.Println("  %s%% + %s at or above %s, capped at %s",
		c.Fees.RatePercent.String(), c.Fees.FlatFee, c.Fees.FlatFeeThreshold, c.Fees.Cap)

	uw.Header("Tiers")
	headers := []string{"Feature"}
	order := c.Tiers.Order()
	for _, t := range order {
		headers = append(headers, string(t))
	}
	table := uw.NewTable(headers...)

	priceRow := []string{"price"}
	for _, t := range order {
		p, _ := c.Tiers.Price(t)
		priceRow = append(priceRow, p.String())
	}
	table.AddRow(priceRow...)

	for _, feature := range entitlements.Features() {
		cells := []string{string(feature)}
		for _, t := range order {
			l, _ := c.Tiers.Limits(t)
			limit, _ := l.Limit(feature)
			cells = append(cells, limit.String())
		}
		table.AddRow(cells...)
	}
	table.Render()
	uw.Println("")
	uw.Println("  source: %s", c.Source)
	return nil
}

// formatInt groups digits in thousands: 1000000 -> 1,000,000
func formatInt(n int64) string {
	neg := n < 0
	if neg {
		n = -n
	}
	digits := []byte(strconv.FormatInt(n, 10))
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteByte(d)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
