// Package entitlements - Subscription tier limits and upgrade resolution
// A tier grants each feature either a numeric quota or a boolean permission.
// The resolver decides whether a feature is locked for a tier and which
// higher tier is the nearest one that would unlock it.
package entitlements

import (
	"encoding/json"
	"strconv"
	"strings"

	"ticket-settlement/core/money"
	"ticket-settlement/internal/errors"
)

// Quota is a numeric allowance; Unlimited never runs out
type Quota int64

// Unlimited is the quota that no usage can exhaust
const Unlimited Quota = -1

// IsUnlimited reports whether q has no ceiling
func (q Quota) IsUnlimited() bool {
	return q < 0
}

// Exceeds reports whether q allows strictly more than other
func (q Quota) Exceeds(other Quota) bool {
	switch {
	case other.IsUnlimited():
		return false
	case q.IsUnlimited():
		return true
	default:
		return q > other
	}
}

// String renders the quota, "unlimited" for Unlimited
func (q Quota) String() string {
	if q.IsUnlimited() {
		return "unlimited"
	}
	return strconv.FormatInt(int64(q), 10)
}

// MarshalJSON encodes Unlimited as the string "unlimited"
func (q Quota) MarshalJSON() ([]byte, error) {
	if q.IsUnlimited() {
		return []byte(`"unlimited"`), nil
	}
	return []byte(strconv.FormatInt(int64(q), 10)), nil
}

// UnmarshalJSON accepts a non-negative integer or "unlimited"
func (q *Quota) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if strings.EqualFold(s, "unlimited") {
			*q = Unlimited
			return nil
		}
		return errors.Newf(errors.TypeParsing, "invalid quota %q", s)
	}
	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		return errors.Parsing("invalid quota", err)
	}
	if n < 0 {
		return errors.Newf(errors.TypeParsing, "quota must not be negative, got %d", n)
	}
	*q = Quota(n)
	return nil
}

// LimitKind tells quota limits from permission limits
type LimitKind int

const (
	KindQuota LimitKind = iota + 1
	KindPermission
)

// Limit is one feature's allowance in one tier: a Quota or a permission flag.
type Limit struct {
	kind    LimitKind
	quota   Quota
	allowed bool
}

// QuotaLimit wraps a numeric allowance
func QuotaLimit(q Quota) Limit {
	return Limit{kind: KindQuota, quota: q}
}

// PermissionLimit wraps a boolean allowance
func PermissionLimit(allowed bool) Limit {
	return Limit{kind: KindPermission, allowed: allowed}
}

// Kind returns the variant
func (l Limit) Kind() LimitKind {
	return l.kind
}

// Quota returns the numeric allowance, false for permission limits
func (l Limit) Quota() (Quota, bool) {
	return l.quota, l.kind == KindQuota
}

// Allowed returns the permission, false in the second value for quota limits
func (l Limit) Allowed() (bool, bool) {
	return l.allowed, l.kind == KindPermission
}

// Locks reports whether the limit blocks a caller at the given usage.
// Usage is ignored for permissions.
func (l Limit) Locks(usage int64) bool {
	switch l.kind {
	case KindQuota:
		return !l.quota.IsUnlimited() && usage >= int64(l.quota)
	case KindPermission:
		return !l.allowed
	default:
		return false
	}
}

// Improves reports whether l grants strictly more than other.
// Limits of different kinds never improve on each other.
func (l Limit) Improves(other Limit) bool {
	if l.kind != other.kind {
		return false
	}
	switch l.kind {
	case KindQuota:
		return l.quota.Exceeds(other.quota)
	case KindPermission:
		return l.allowed && !other.allowed
	default:
		return false
	}
}

// String renders the allowance
func (l Limit) String() string {
	switch l.kind {
	case KindQuota:
		return l.quota.String()
	case KindPermission:
		return strconv.FormatBool(l.allowed)
	default:
		return "-"
	}
}

// TierLimits is everything one tier grants.
type TierLimits struct {
	// Price is the monthly subscription price in minor units
	Price money.Money `json:"price"`

	Collaborators  Quota `json:"collaborators"`
	TicketTypes    Quota `json:"ticket_types"`
	ActiveEvents   Quota `json:"active_events"`
	EventProgram   bool  `json:"event_program"`
	CustomBranding bool  `json:"custom_branding"`
}

// Limit returns the tier's allowance for f, false for a feature it does not know.
func (t TierLimits) Limit(f Feature) (Limit, bool) {
	switch f {
	case FeatureCollaborators:
		return QuotaLimit(t.Collaborators), true
	case FeatureTicketTypes:
		return QuotaLimit(t.TicketTypes), true
	case FeatureActiveEvents:
		return QuotaLimit(t.ActiveEvents), true
	case FeatureEventProgram:
		return PermissionLimit(t.EventProgram), true
	case FeatureCustomBranding:
		return PermissionLimit(t.CustomBranding), true
	default:
		return Limit{}, false
	}
}
