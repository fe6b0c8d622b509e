package entitlements

import (
	"ticket-settlement/core/money"
	"ticket-settlement/internal/errors"
)

// Table holds the tier order and each tier's limits.
// It copies what it is given and never changes afterwards, so one Table can
// be shared by every resolver in the process.
type Table struct {
	order  []Tier
	rank   map[Tier]int
	limits map[Tier]TierLimits
}

// NewTable validates that order names exactly the tiers in limits, each once.
func NewTable(order []Tier, limits map[Tier]TierLimits) (*Table, error) {
	if len(order) == 0 {
		return nil, errors.Config("tier order is empty")
	}

	t := &Table{
		order:  make([]Tier, len(order)),
		rank:   make(map[Tier]int, len(order)),
		limits: make(map[Tier]TierLimits, len(limits)),
	}
	copy(t.order, order)

	for i, tier := range order {
		if tier == "" {
			return nil, errors.Newf(errors.TypeConfig, "tier order position %d is empty", i)
		}
		if _, dup := t.rank[tier]; dup {
			return nil, errors.Newf(errors.TypeConfig, "tier %q appears twice in tier order", tier)
		}
		l, ok := limits[tier]
		if !ok {
			return nil, errors.Newf(errors.TypeConfig, "tier %q has no limits", tier)
		}
		if err := validateLimits(tier, l); err != nil {
			return nil, err
		}
		t.rank[tier] = i
		t.limits[tier] = l
	}

	for tier := range limits {
		if _, ok := t.rank[tier]; !ok {
			return nil, errors.Newf(errors.TypeConfig, "tier %q is missing from tier order", tier)
		}
	}

	return t, nil
}

func validateLimits(tier Tier, l TierLimits) error {
	if l.Price < 0 {
		return errors.Newf(errors.TypeConfig, "tier %q has a negative price", tier)
	}
	for _, f := range Features() {
		limit, _ := l.Limit(f)
		if q, ok := limit.Quota(); ok && q < Unlimited {
			return errors.Newf(errors.TypeConfig, "tier %q has invalid %s quota %d", tier, f, q)
		}
	}
	return nil
}

// DefaultTable is the platform's published plan matrix
func DefaultTable() *Table {
	t, err := NewTable(
		[]Tier{TierBasic, TierStandard, TierPremium},
		map[Tier]TierLimits{
			TierBasic: {
				Price:          0,
				Collaborators:  1,
				TicketTypes:    3,
				ActiveEvents:   2,
				EventProgram:   false,
				CustomBranding: false,
			},
			TierStandard: {
				Price:          2_500_000,
				Collaborators:  5,
				TicketTypes:    10,
				ActiveEvents:   10,
				EventProgram:   true,
				CustomBranding: false,
			},
			TierPremium: {
				Price:          7_500_000,
				Collaborators:  Unlimited,
				TicketTypes:    Unlimited,
				ActiveEvents:   Unlimited,
				EventProgram:   true,
				CustomBranding: true,
			},
		},
	)
	if err != nil {
		panic("entitlements: default table is invalid: " + err.Error())
	}
	return t
}

// Order returns the tiers from lowest to highest
func (t *Table) Order() []Tier {
	out := make([]Tier, len(t.order))
	copy(out, t.order)
	return out
}

// Limits returns a tier's limits
func (t *Table) Limits(tier Tier) (TierLimits, bool) {
	l, ok := t.limits[tier]
	return l, ok
}

// Price returns a tier's subscription price
func (t *Table) Price(tier Tier) (money.Money, bool) {
	l, ok := t.limits[tier]
	return l.Price, ok
}

// Rank returns the tier's position in the order, 0 being the lowest
func (t *Table) Rank(tier Tier) (int, bool) {
	r, ok := t.rank[tier]
	return r, ok
}

// above returns the tiers strictly higher than rank, lowest first
func (t *Table) above(rank int) []Tier {
	return t.order[rank+1:]
}
