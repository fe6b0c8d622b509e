// Package engine provides the settlement engine.
// CLI and checkout integrations are thin wrappers around this engine.
package engine

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"ticket-settlement/core/catalog"
	"ticket-settlement/core/entitlements"
	"ticket-settlement/core/fees"
	"ticket-settlement/internal/errors"
	"ticket-settlement/internal/logging"
)

// Engine binds the fee calculator and the entitlement resolver to one catalog.
// Its state is fixed at construction, so it is safe for concurrent use.
type Engine struct {
	catalog  *catalog.Catalog
	fees     *fees.Calculator
	resolver *entitlements.Resolver
	logger   *zap.Logger

	// newID is replaced in tests for stable quote IDs
	newID func() uuid.UUID
}

// Option customises an Engine
type Option func(*Engine)

// WithLogger sets the logger; the global logger is used otherwise
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithIDGenerator overrides how quote IDs are minted
func WithIDGenerator(fn func() uuid.UUID) Option {
	return func(e *Engine) {
		if fn != nil {
			e.newID = fn
		}
	}
}

// New builds an engine over cat. A nil catalog selects catalog.Default.
func New(cat *catalog.Catalog, opts ...Option) (*Engine, error) {
	if cat == nil {
		cat = catalog.Default()
	}

	calc, err := fees.NewCalculator(cat.Fees)
	if err != nil {
		return nil, errors.Wrap(errors.TypeConfig, "building fee calculator", err)
	}
	resolver, err := entitlements.NewResolver(cat.Tiers)
	if err != nil {
		return nil, errors.Wrap(errors.TypeConfig, "building entitlement resolver", err)
	}

	e := &Engine{
		catalog:  cat,
		fees:     calc,
		resolver: resolver,
		logger:   logging.Logger,
		newID:    uuid.New,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With(zap.String("catalog", cat.Source))

	return e, nil
}

// Catalog returns the catalog the engine was built from
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

// Fees returns the underlying fee calculator
func (e *Engine) Fees() *fees.Calculator {
	return e.fees
}

// Resolver returns the underlying entitlement resolver
func (e *Engine) Resolver() *entitlements.Resolver {
	return e.resolver
}
