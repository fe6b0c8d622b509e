package entitlements

import "strings"

// Tier names a subscription level
type Tier string

const (
	TierBasic    Tier = "Basic"
	TierStandard Tier = "Standard"
	TierPremium  Tier = "Premium"
)

// Feature is a gated capability. The set is closed; see Features.
type Feature string

const (
	FeatureCollaborators  Feature = "collaborators"
	FeatureTicketTypes    Feature = "ticket_types"
	FeatureActiveEvents   Feature = "active_events"
	FeatureEventProgram   Feature = "event_program"
	FeatureCustomBranding Feature = "custom_branding"
)

// Features lists every gated feature
func Features() []Feature {
	return []Feature{
		FeatureCollaborators,
		FeatureTicketTypes,
		FeatureActiveEvents,
		FeatureEventProgram,
		FeatureCustomBranding,
	}
}

// ParseFeature maps a feature key to a Feature
func ParseFeature(key string) (Feature, bool) {
	k := strings.ToLower(strings.TrimSpace(key))
	for _, f := range Features() {
		if string(f) == k {
			return f, true
		}
	}
	return "", false
}

// UsageAccessor reports the caller's current consumption of a feature.
// The second result is false when the caller has no figure for it.
type UsageAccessor interface {
	Usage(f Feature) (int64, bool)
}

// Usage is a fixed set of usage figures
type Usage map[Feature]int64

// Usage implements UsageAccessor
func (u Usage) Usage(f Feature) (int64, bool) {
	n, ok := u[f]
	return n, ok
}

// UsageFunc adapts a function to UsageAccessor
type UsageFunc func(f Feature) (int64, bool)

// Usage implements UsageAccessor
func (fn UsageFunc) Usage(f Feature) (int64, bool) {
	return fn(f)
}

// usageOf reads usage, treating a missing accessor or figure as zero
func usageOf(accessor UsageAccessor, f Feature) int64 {
	if accessor == nil {
		return 0
	}
	n, ok := accessor.Usage(f)
	if !ok {
		return 0
	}
	return n
}
