// Package catalog loads the settlement configuration: the processor fee
// schedule, the tier order and each tier's limits.
//
// Catalogs are written in HCL:
//
//	tier_order = ["Basic", "Standard", "Premium"]
//
//	fees {
//	  rate_percent       = "1.5"
//	  flat_fee           = 100
//	  flat_fee_threshold = 2500
//	  cap                = 2000
//	}
//
//	tier "Premium" {
//	  price           = 7500000
//	  collaborators   = "unlimited"
//	  ticket_types    = "unlimited"
//	  active_events   = "unlimited"
//	  event_program   = true
//	  custom_branding = true
//	}
//
// A loaded Catalog is immutable and is meant to be built once at startup.
package catalog

import (
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/shopspring/decimal"
	"github.com/zclconf/go-cty/cty"

	"ticket-settlement/core/entitlements"
	"ticket-settlement/core/fees"
	"ticket-settlement/core/money"
	"ticket-settlement/internal/errors"
)

// SourceBuiltin marks the compiled-in catalog
const SourceBuiltin = "builtin"

// Catalog is the full settlement configuration
type Catalog struct {
	// Fees is the processor fee schedule
	Fees fees.Schedule

	// Tiers is the ordered tier limit table
	Tiers *entitlements.Table

	// Source is the file the catalog came from, or SourceBuiltin
	Source string
}

// Default returns the built-in catalog
func Default() *Catalog {
	return &Catalog{
		Fees:   fees.DefaultSchedule(),
		Tiers:  entitlements.DefaultTable(),
		Source: SourceBuiltin,
	}
}

// file mirrors the HCL layout
type file struct {
	TierOrder []string    `hcl:"tier_order"`
	Fees      feesBlock   `hcl:"fees,block"`
	Tiers     []tierBlock `hcl:"tier,block"`
}

type feesBlock struct {
	RatePercent      string `hcl:"rate_percent"`
	FlatFee          int64  `hcl:"flat_fee"`
	FlatFeeThreshold int64  `hcl:"flat_fee_threshold"`
	Cap              int64  `hcl:"cap"`
}

type tierBlock struct {
	Name           string    `hcl:"name,label"`
	Price          int64     `hcl:"price,optional"`
	Collaborators  cty.Value `hcl:"collaborators"`
	TicketTypes    cty.Value `hcl:"ticket_types"`
	ActiveEvents   cty.Value `hcl:"active_events"`
	EventProgram   bool      `hcl:"event_program"`
	CustomBranding bool      `hcl:"custom_branding"`
}

// Load reads and validates a catalog file. An empty path yields Default.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.TypeConfig, "reading catalog", err).WithContext("path", path)
	}
	return Parse(src, path)
}

// Parse decodes and validates catalog source. filename is used in diagnostics.
func Parse(src []byte, filename string) (*Catalog, error) {
	parsed, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, errors.Parsing("parsing catalog", diags).WithContext("file", filename)
	}

	var raw file
	if diags := gohcl.DecodeBody(parsed.Body, nil, &raw); diags.HasErrors() {
		return nil, errors.Parsing("decoding catalog", diags).WithContext("file", filename)
	}

	rate, err := decimal.NewFromString(strings.TrimSpace(raw.Fees.RatePercent))
	if err != nil {
		return nil, errors.Parsing("fees.rate_percent is not a decimal", err).WithContext("file", filename)
	}
	schedule := fees.Schedule{
		RatePercent:      rate,
		FlatFee:          money.Money(raw.Fees.FlatFee),
		FlatFeeThreshold: money.Money(raw.Fees.FlatFeeThreshold),
		Cap:              money.Money(raw.Fees.Cap),
	}
	if err := schedule.Validate(); err != nil {
		return nil, err
	}

	order := make([]entitlements.Tier, len(raw.TierOrder))
	for i, name := range raw.TierOrder {
		order[i] = entitlements.Tier(name)
	}

	limits := make(map[entitlements.Tier]entitlements.TierLimits, len(raw.Tiers))
	for _, tb := range raw.Tiers {
		tier := entitlements.Tier(tb.Name)
		if _, dup := limits[tier]; dup {
			return nil, errors.Newf(errors.TypeConfig, "tier %q is declared twice", tb.Name).WithContext("file", filename)
		}
		l, err := tb.limits()
		if err != nil {
			return nil, err.WithContext("file", filename)
		}
		limits[tier] = l
	}

	table, err := entitlements.NewTable(order, limits)
	if err != nil {
		return nil, err
	}

	return &Catalog{Fees: schedule, Tiers: table, Source: filename}, nil
}

func (tb tierBlock) limits() (entitlements.TierLimits, *errors.Error) {
	l := entitlements.TierLimits{
		Price:          money.Money(tb.Price),
		EventProgram:   tb.EventProgram,
		CustomBranding: tb.CustomBranding,
	}

	quotas := []struct {
		name string
		val  cty.Value
		dst  *entitlements.Quota
	}{
		{"collaborators", tb.Collaborators, &l.Collaborators},
		{"ticket_types", tb.TicketTypes, &l.TicketTypes},
		{"active_events", tb.ActiveEvents, &l.ActiveEvents},
	}
	for _, q := range quotas {
		v, err := quotaFromValue(q.val)
		if err != nil {
			return entitlements.TierLimits{}, errors.Wrapf(errors.TypeConfig, err, "tier %q: %s", tb.Name, q.name)
		}
		*q.dst = v
	}
	return l, nil
}

// quotaFromValue accepts a non-negative whole number or "unlimited"
func quotaFromValue(v cty.Value) (entitlements.Quota, error) {
	if v.IsNull() || !v.IsWhollyKnown() {
		return 0, fmt.Errorf("quota is not set")
	}

	switch {
	case v.Type().Equals(cty.String):
		if strings.EqualFold(strings.TrimSpace(v.AsString()), "unlimited") {
			return entitlements.Unlimited, nil
		}
		return 0, fmt.Errorf("quota %q must be a number or \"unlimited\"", v.AsString())
	case v.Type().Equals(cty.Number):
		bf := v.AsBigFloat()
		n, acc := bf.Int64()
		if !bf.IsInt() || acc != big.Exact || n < 0 {
			return 0, fmt.Errorf("quota %s must be a non-negative whole number", bf.Text('f', -1))
		}
		return entitlements.Quota(n), nil
	default:
		return 0, fmt.Errorf("quota must be a number or \"unlimited\", got %s", v.Type().FriendlyName())
	}
}

func quotaValue(q entitlements.Quota) cty.Value {
	if q.IsUnlimited() {
		return cty.StringVal("unlimited")
	}
	return cty.NumberIntVal(int64(q))
}

// HCL renders the catalog in the format Parse reads
func (c *Catalog) HCL() []byte {
	f := hclwrite.NewEmptyFile()
	body := f.Body()

	order := c.Tiers.Order()
	names := make([]cty.Value, len(order))
	for i, t := range order {
		names[i] = cty.StringVal(string(t))
	}
	body.SetAttributeValue("tier_order", cty.ListVal(names))
	body.AppendNewline()

	fb := body.AppendNewBlock("fees", nil).Body()
	fb.SetAttributeValue("rate_percent", cty.StringVal(c.Fees.RatePercent.String()))
	fb.SetAttributeValue("flat_fee", cty.NumberIntVal(int64(c.Fees.FlatFee)))
	fb.SetAttributeValue("flat_fee_threshold", cty.NumberIntVal(int64(c.Fees.FlatFeeThreshold)))
	fb.SetAttributeValue("cap", cty.NumberIntVal(int64(c.Fees.Cap)))

	for _, t := range order {
		l, _ := c.Tiers.Limits(t)
		body.AppendNewline()
		tb := body.AppendNewBlock("tier", []string{string(t)}).Body()
		tb.SetAttributeValue("price", cty.NumberIntVal(int64(l.Price)))
		tb.SetAttributeValue("collaborators", quotaValue(l.Collaborators))
		tb.SetAttributeValue("ticket_types", quotaValue(l.TicketTypes))
		tb.SetAttributeValue("active_events", quotaValue(l.ActiveEvents))
		tb.SetAttributeValue("event_program", cty.BoolVal(l.EventProgram))
		tb.SetAttributeValue("custom_branding", cty.BoolVal(l.CustomBranding))
	}

	return f.Bytes()
}
