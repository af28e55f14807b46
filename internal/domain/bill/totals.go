package bill

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// ComputeTotals derives the monetary summary of b. Values are kept at full
// precision; rounding happens only when they are formatted for display.
func ComputeTotals(b Bill) Totals {
	subtotal := calcSubtotal(b.Items)

	taxAmount := decimal.Zero
	if b.Tax.Enabled {
		taxAmount = subtotal.Mul(b.Tax.RatePercent).Div(hundred)
	}

	return Totals{
		Subtotal:   subtotal,
		TaxAmount:  taxAmount,
		Discount:   b.Discount,
		GrandTotal: floorAtZero(subtotal.Sub(b.Discount).Add(taxAmount)),
	}
}

// calcSubtotal returns the sum of price * quantity across all items.
func calcSubtotal(items []LineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.Amount())
	}
	return sum
}

// floorAtZero clamps negative values to zero.
func floorAtZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
