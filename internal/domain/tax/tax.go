// Package tax defines how bills obtain the externally managed tax settings.
package tax

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/salon-receipt/internal/domain/bill"
)

// ErrFetchFailed is wrapped by providers when the configuration could not be
// obtained or understood.
var ErrFetchFailed = errors.New("tax config fetch failed")

// Provider returns the tax configuration to apply to the next bill. The
// result is a snapshot and must not be cached across bills by callers.
type Provider interface {
	Fetch(ctx context.Context) (bill.TaxConfig, error)
}

// Static always returns the same configuration.
type Static bill.TaxConfig

// Fetch implements Provider.
func (s Static) Fetch(context.Context) (bill.TaxConfig, error) {
	return bill.TaxConfig(s), nil
}

// Fallback wraps a Provider so that failures never block checkout: any
// error is logged and replaced by bill.NoTax.
type Fallback struct {
	Provider Provider
}

// Config returns the wrapped provider's configuration, or bill.NoTax when it
// fails or reports a negative or out-of-range rate.
func (f Fallback) Config(ctx context.Context) bill.TaxConfig {
	if f.Provider == nil {
		return bill.NoTax
	}
	cfg, err := f.Provider.Fetch(ctx)
	if err != nil {
		zctx.From(ctx).Warn("Tax config unavailable, billing without tax", zap.Error(err))
		return bill.NoTax
	}
	if cfg.RatePercent.IsNegative() || !bill.InRange(cfg.RatePercent) {
		zctx.From(ctx).Warn("Tax config has invalid rate, billing without tax",
			zap.String("rate", cfg.RatePercent.String()),
		)
		return bill.NoTax
	}
	return cfg
}

// Fetch implements Provider. The error is always nil.
func (f Fallback) Fetch(ctx context.Context) (bill.TaxConfig, error) {
	return f.Config(ctx), nil
}

// FetchError describes a failed fetch. It matches ErrFetchFailed.
type FetchError struct {
	Op  string
	Err error
}

func (e *FetchError) Error() string {
	return "tax config " + e.Op + ": " + e.Err.Error()
}

func (e *FetchError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrFetchFailed) hold.
func (e *FetchError) Is(target error) bool { return target == ErrFetchFailed }
