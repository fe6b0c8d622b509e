package entitlements

import (
	"ticket-settlement/core/money"
	"ticket-settlement/internal/errors"
)

// Status is the outcome of a resolution
type Status string

const (
	// StatusUnrestricted means the tier or feature is unknown; callers treat
	// the feature as open and leave enforcement to the server.
	StatusUnrestricted Status = "unrestricted"

	// StatusUnlocked means the current tier already allows the feature
	StatusUnlocked Status = "unlocked"

	// StatusUpgradeAvailable means the feature is locked and a higher tier unlocks it
	StatusUpgradeAvailable Status = "upgrade_available"

	// StatusNoUpgradeAvailable means the feature is locked and no higher tier improves it
	StatusNoUpgradeAvailable Status = "no_upgrade_available"
)

// Resolution explains whether a feature is locked and how to unlock it
type Resolution struct {
	Status       Status  `json:"status"`
	CurrentTier  Tier    `json:"current_tier"`
	Feature      Feature `json:"feature"`
	Usage        int64   `json:"usage"`
	CurrentLimit string  `json:"current_limit,omitempty"`

	// Set only for StatusUpgradeAvailable
	SuggestedTier  Tier        `json:"suggested_tier,omitempty"`
	SuggestedLimit string      `json:"suggested_limit,omitempty"`
	Price          money.Money `json:"price,omitempty"`
}

// Locked reports whether the current tier blocks the feature
func (r Resolution) Locked() bool {
	return r.Status == StatusUpgradeAvailable || r.Status == StatusNoUpgradeAvailable
}

// Upgrade returns the tier to suggest, if any
func (r Resolution) Upgrade() (Tier, bool) {
	if r.Status != StatusUpgradeAvailable {
		return "", false
	}
	return r.SuggestedTier, true
}

// Resolver answers entitlement questions against one Table
type Resolver struct {
	table *Table
}

// NewResolver creates a resolver over table
func NewResolver(table *Table) (*Resolver, error) {
	if table == nil {
		return nil, errors.Config("entitlement table is nil")
	}
	return &Resolver{table: table}, nil
}

// Table returns the table the resolver reads
func (r *Resolver) Table() *Table {
	return r.table
}

// Resolve decides whether feature is locked for current at the caller's
// usage and, if it is, finds the nearest higher tier that unlocks it.
// Unknown tiers and features resolve to StatusUnrestricted.
func (r *Resolver) Resolve(current Tier, feature Feature, usage UsageAccessor) Resolution {
	res := Resolution{
		Status:      StatusUnrestricted,
		CurrentTier: current,
		Feature:     feature,
	}

	rank, ok := r.table.Rank(current)
	if !ok {
		return res
	}
	limits, _ := r.table.Limits(current)
	limit, ok := limits.Limit(feature)
	if !ok {
		return res
	}

	res.CurrentLimit = limit.String()
	if limit.Kind() == KindQuota {
		res.Usage = usageOf(usage, feature)
	}

	if !limit.Locks(res.Usage) {
		res.Status = StatusUnlocked
		return res
	}

	res.Status = StatusNoUpgradeAvailable
	for _, candidate := range r.table.above(rank) {
		cl, _ := r.table.Limits(candidate)
		next, _ := cl.Limit(feature)
		if !next.Improves(limit) {
			continue
		}
		res.Status = StatusUpgradeAvailable
		res.SuggestedTier = candidate
		res.SuggestedLimit = next.String()
		res.Price = cl.Price
		break
	}

	return res
}

// ResolveKey is Resolve for callers holding plain strings.
func (r *Resolver) ResolveKey(current, featureKey string, usage UsageAccessor) Resolution {
	feature, ok := ParseFeature(featureKey)
	if !ok {
		return Resolution{
			Status:      StatusUnrestricted,
			CurrentTier: Tier(current),
			Feature:     Feature(featureKey),
		}
	}
	return r.Resolve(Tier(current), feature, usage)
}
