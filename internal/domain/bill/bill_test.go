package bill

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

var testNow = time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

func tax(rate string) TaxConfig {
	return TaxConfig{Enabled: true, RatePercent: d(rate)}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want decimal.Decimal
	}{
		{in: "200", want: d("200")},
		{in: " 12.50 ", want: d("12.5")},
		{in: "", want: decimal.Zero},
		{in: "abc", want: decimal.Zero},
		{in: "-5", want: decimal.Zero},
		{in: "1e2", want: d("100")},
		{in: "999999999999999.99", want: d("999999999999999.99")},
		{in: "1000000000000000", want: decimal.Zero},
		{in: "1e15", want: decimal.Zero},
		{in: "1e500000", want: decimal.Zero},
		{in: "1e-500000", want: decimal.Zero},
		{in: "0.000000000001", want: d("0.000000000001")},
		{in: "0.0000000000001", want: decimal.Zero},
		{in: "1" + strings.Repeat("0", 100), want: decimal.Zero},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ParseAmount(tt.in)
			assert.True(t, tt.want.Equal(got), "expected %s, got %s", tt.want, got)
		})
	}
}

func TestInRange(t *testing.T) {
	assert.True(t, InRange(decimal.Zero))
	assert.True(t, InRange(d("123456789012345")))
	assert.True(t, InRange(decimal.New(5, -12)))
	assert.False(t, InRange(decimal.New(1, 15)))
	assert.False(t, InRange(decimal.New(1, 500000)))
	assert.False(t, InRange(decimal.New(1, -500000)))
}

func TestBuild_RejectsHugePrices(t *testing.T) {
	b := Build([]RawItem{
		{Name: "Haircut", Price: "1000"},
		{Name: "Typo", Price: "1e500000"},
	}, ClientMeta{}, "1e500000", NoTax, testNow)
	totals := ComputeTotals(b)

	assert.True(t, b.Items[1].UnitPrice.IsZero())
	assert.True(t, b.Discount.IsZero())
	assert.Equal(t, "1000.00", FormatMoney(totals.GrandTotal))
}

func TestBuild_Normalizes(t *testing.T) {
	items := []RawItem{
		{ID: "a", Name: "Haircut", Price: "1000", Quantity: 1, Kind: "service"},
		{Name: "Mystery", Price: "not-a-price", Quantity: 0, Kind: "voucher"},
	}
	b := Build(items, ClientMeta{ClientName: "Ayesha"}, "abc", TaxConfig{Enabled: true, RatePercent: d("-3")}, testNow)

	require.Len(t, b.Items, 2)
	assert.Equal(t, "a", b.Items[0].ID)
	assert.Equal(t, KindService, b.Items[0].Kind)
	assert.NotEmpty(t, b.Items[1].ID)
	assert.True(t, b.Items[1].UnitPrice.IsZero())
	assert.Equal(t, 1, b.Items[1].Quantity)
	assert.Equal(t, KindCustom, b.Items[1].Kind)
	assert.True(t, b.Discount.IsZero())
	assert.True(t, b.Tax.RatePercent.IsZero())
	assert.Equal(t, "Ayesha", b.ClientName)
	assert.Equal(t, testNow, b.CreatedAt)
}

func TestBuild_DoesNotAliasInput(t *testing.T) {
	items := []RawItem{{ID: "a", Name: "Haircut", Price: "1000", Quantity: 1}}
	b := Build(items, ClientMeta{}, "0", NoTax, testNow)

	items[0].Price = "1"
	items[0].Name = "Changed"

	assert.Equal(t, "Haircut", b.Items[0].Name)
	assert.True(t, d("1000").Equal(b.Items[0].UnitPrice))
}

func TestComputeTotals(t *testing.T) {
	tests := []struct {
		name         string
		items        []RawItem
		discount     string
		tax          TaxConfig
		wantSubtotal decimal.Decimal
		wantTax      decimal.Decimal
		wantTotal    decimal.Decimal
	}{
		{
			name:         "single item without tax",
			items:        []RawItem{{Name: "Haircut", Price: "1000"}},
			discount:     "0",
			tax:          NoTax,
			wantSubtotal: d("1000"),
			wantTax:      decimal.Zero,
			wantTotal:    d("1000"),
		},
		{
			name: "discount and 10% tax",
			items: []RawItem{
				{Name: "Haircut", Price: "1000"},
				{Name: "Color", Price: "500"},
			},
			discount:     "200",
			tax:          tax("10"),
			wantSubtotal: d("1500"),
			wantTax:      d("150"),
			wantTotal:    d("1450"),
		},
		{
			name:         "quantities multiply",
			items:        []RawItem{{Name: "Shampoo", Price: "9.99", Quantity: 3}},
			discount:     "",
			tax:          NoTax,
			wantSubtotal: d("29.97"),
			wantTax:      decimal.Zero,
			wantTotal:    d("29.97"),
		},
		{
			name:         "disabled tax ignores rate",
			items:        []RawItem{{Name: "Facial", Price: "100"}},
			tax:          TaxConfig{Enabled: false, RatePercent: d("16")},
			wantSubtotal: d("100"),
			wantTax:      decimal.Zero,
			wantTotal:    d("100"),
		},
		{
			name:         "tax keeps full precision",
			items:        []RawItem{{Name: "Manicure", Price: "10.01"}},
			tax:          tax("33.33"),
			wantSubtotal: d("10.01"),
			wantTax:      d("3.336333"),
			wantTotal:    d("13.346333"),
		},
		{
			name:         "discount beyond total clamps to zero",
			items:        []RawItem{{Name: "Threading", Price: "100"}},
			discount:     "500",
			tax:          tax("5"),
			wantSubtotal: d("100"),
			wantTax:      d("5"),
			wantTotal:    decimal.Zero,
		},
		{
			name:         "empty bill",
			tax:          tax("10"),
			wantSubtotal: decimal.Zero,
			wantTax:      decimal.Zero,
			wantTotal:    decimal.Zero,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Build(tt.items, ClientMeta{}, tt.discount, tt.tax, testNow)
			got := ComputeTotals(b)

			assert.True(t, tt.wantSubtotal.Equal(got.Subtotal), "subtotal: expected %s, got %s", tt.wantSubtotal, got.Subtotal)
			assert.True(t, tt.wantTax.Equal(got.TaxAmount), "tax: expected %s, got %s", tt.wantTax, got.TaxAmount)
			assert.True(t, tt.wantTotal.Equal(got.GrandTotal), "total: expected %s, got %s", tt.wantTotal, got.GrandTotal)
			assert.True(t, b.Discount.Equal(got.Discount))

			if !got.Clamped() {
				identity := got.Subtotal.Sub(got.Discount).Add(got.TaxAmount)
				assert.True(t, identity.Equal(got.GrandTotal), "grand total identity broken")
			}
		})
	}
}

func TestComputeTotals_SubtotalIsOrderIndependent(t *testing.T) {
	items := []RawItem{
		{Name: "Haircut", Price: "1000", Quantity: 1},
		{Name: "Color", Price: "499.99", Quantity: 2},
		{Name: "Wax", Price: "0.01", Quantity: 7},
		{Name: "Deal", Price: "1234.5", Quantity: 3},
	}
	reversed := []RawItem{items[3], items[2], items[1], items[0]}
	rotated := []RawItem{items[2], items[0], items[3], items[1]}

	want := ComputeTotals(Build(items, ClientMeta{}, "", NoTax, testNow)).Subtotal
	for _, perm := range [][]RawItem{reversed, rotated} {
		got := ComputeTotals(Build(perm, ClientMeta{}, "", NoTax, testNow)).Subtotal
		assert.True(t, want.Equal(got), "expected %s, got %s", want, got)
	}
	assert.True(t, d("5703.55").Equal(want))
}

func TestSummarize(t *testing.T) {
	items := []RawItem{{Name: "Haircut", Price: "1000"}, {Name: "Color", Price: "500"}}

	t.Run("tax enabled", func(t *testing.T) {
		b := Build(items, ClientMeta{}, "200", tax("10"), testNow)
		lines := Summarize(b, ComputeTotals(b))

		require.Len(t, lines, 4)
		assert.Equal(t, LineSubtotal, lines[0].Kind)
		assert.Equal(t, "GST (10%)", lines[1].Label)
		assert.Equal(t, "150.00", lines[1].Value())
		assert.Equal(t, "200.00", lines[2].Value())
		assert.Equal(t, "TOTAL", lines[3].Label)
		assert.Equal(t, "1450.00", lines[3].Value())
		assert.True(t, lines[3].Emphasis)
	})

	t.Run("tax disabled", func(t *testing.T) {
		b := Build(items, ClientMeta{}, "0", NoTax, testNow)
		lines := Summarize(b, ComputeTotals(b))

		require.Len(t, lines, 3)
		for _, l := range lines {
			assert.NotEqual(t, LineTax, l.Kind)
		}
	})

	t.Run("zero rate has no tax line", func(t *testing.T) {
		b := Build(items, ClientMeta{}, "0", tax("0"), testNow)
		assert.False(t, HasTaxLine(b, ComputeTotals(b)))
	})
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "1000.00", FormatMoney(d("1000")))
	assert.Equal(t, "3.34", FormatMoney(d("3.336333")))
	assert.Equal(t, "0.00", FormatMoney(decimal.Zero))
}
