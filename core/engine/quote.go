package engine

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"ticket-settlement/core/entitlements"
	"ticket-settlement/core/fees"
	"ticket-settlement/core/money"
)

// Quote is one priced checkout, identified for audit
type Quote struct {
	ID        uuid.UUID             `json:"id"`
	Input     fees.PaymentInput     `json:"input"`
	Breakdown fees.PaymentBreakdown `json:"breakdown"`

	// OrganiserPayout is what the organiser's sub-account receives
	OrganiserPayout money.Money `json:"organiser_payout"`
}

// Quote prices a checkout. Invalid input is returned to the caller unchanged
// so the checkout can abort with its message.
func (e *Engine) Quote(in fees.PaymentInput) (*Quote, error) {
	b, err := e.fees.Breakdown(in)
	if err != nil {
		e.logger.Warn("quote rejected",
			zap.Int64("unit_price", int64(in.UnitPrice)),
			zap.Int64("quantity", in.Quantity),
			zap.String("strategy", in.Strategy.String()),
			zap.Error(err),
		)
		return nil, err
	}

	q := &Quote{
		ID:              e.newID(),
		Input:           in,
		Breakdown:       b,
		OrganiserPayout: b.OrganiserPayout(),
	}

	e.logger.Info("quote priced",
		zap.String("quote_id", q.ID.String()),
		zap.String("strategy", in.Strategy.String()),
		zap.Int64("subtotal", int64(b.Subtotal)),
		zap.Int64("processor_fee", int64(b.ProcessorFee)),
		zap.Int64("processing_fee_charged_to_buyer", int64(b.ProcessingFeeChargedToBuyer)),
		zap.Int64("commission_charge", int64(b.CommissionCharge)),
		zap.Int64("total_amount", int64(b.TotalAmount)),
	)
	return q, nil
}

// Upgrade resolves an upgrade prompt for string-keyed callers.
// It never fails; unknown tiers and features come back unrestricted.
func (e *Engine) Upgrade(tier, featureKey string, usage entitlements.UsageAccessor) entitlements.Resolution {
	res := e.resolver.ResolveKey(tier, featureKey, usage)

	fields := []zap.Field{
		zap.String("tier", tier),
		zap.String("feature", featureKey),
		zap.String("status", string(res.Status)),
	}
	if res.Status == entitlements.StatusUnrestricted {
		e.logger.Debug("entitlement not configured, failing open", fields...)
		return res
	}
	if next, ok := res.Upgrade(); ok {
		fields = append(fields, zap.String("suggested_tier", string(next)))
	}
	e.logger.Debug("entitlement resolved", fields...)
	return res
}
