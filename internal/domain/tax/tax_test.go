package tax

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/salon-receipt/internal/domain/bill"
)

type providerFunc func(ctx context.Context) (bill.TaxConfig, error)

func (f providerFunc) Fetch(ctx context.Context) (bill.TaxConfig, error) { return f(ctx) }

func TestFallback(t *testing.T) {
	ten := bill.TaxConfig{Enabled: true, RatePercent: decimal.NewFromInt(10)}

	tests := []struct {
		name     string
		provider Provider
		want     bill.TaxConfig
	}{
		{
			name:     "passes through",
			provider: Static(ten),
			want:     ten,
		},
		{
			name: "error becomes no tax",
			provider: providerFunc(func(context.Context) (bill.TaxConfig, error) {
				return ten, errors.Wrap(ErrFetchFailed, "connection refused")
			}),
			want: bill.NoTax,
		},
		{
			name:     "negative rate becomes no tax",
			provider: Static(bill.TaxConfig{Enabled: true, RatePercent: decimal.NewFromInt(-5)}),
			want:     bill.NoTax,
		},
		{
			name:     "huge rate becomes no tax",
			provider: Static(bill.TaxConfig{Enabled: true, RatePercent: decimal.New(1, 500000)}),
			want:     bill.NoTax,
		},
		{
			name:     "nil provider",
			provider: nil,
			want:     bill.NoTax,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Fallback{Provider: tt.provider}

			got := f.Config(context.Background())
			assert.Equal(t, tt.want.Enabled, got.Enabled)
			assert.True(t, tt.want.RatePercent.Equal(got.RatePercent))

			fetched, err := f.Fetch(context.Background())
			require.NoError(t, err)
			assert.Equal(t, got, fetched)
		})
	}
}
