package bill

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RawItem is a line item as it arrives from a form or API request, before
// any normalization.
type RawItem struct {
	ID       string
	Name     string
	Price    string
	Quantity int
	Kind     string
}

// Amount limits. Input outside them is treated as malformed.
const (
	MaxIntegerDigits  = 15
	MaxFractionDigits = 12

	maxAmountLen = 64
)

// ParseAmount parses a non-negative monetary amount. Empty, malformed,
// negative and out-of-range input all yield zero so that a bill can always
// be rendered.
func ParseAmount(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > maxAmountLen {
		return decimal.Zero
	}
	v, err := decimal.NewFromString(s)
	if err != nil || v.IsNegative() || !InRange(v) {
		return decimal.Zero
	}
	return v
}

// InRange reports whether v has at most MaxIntegerDigits digits before the
// point and MaxFractionDigits after it. The check looks at the exponent only,
// so an exponent like 1e500000 is rejected without being expanded.
func InRange(v decimal.Decimal) bool {
	if v.IsZero() {
		return true
	}
	if v.Exponent() < -MaxFractionDigits {
		return false
	}
	return v.NumDigits()+int(v.Exponent()) <= MaxIntegerDigits
}

// Build assembles a Bill snapshot from raw cart contents. It never fails:
// invalid prices and discounts are coerced to zero, quantities below one
// become one and unknown kinds become custom. The input slice is not retained.
func Build(items []RawItem, meta ClientMeta, discountInput string, tax TaxConfig, now time.Time) Bill {
	lines := make([]LineItem, 0, len(items))
	for _, raw := range items {
		lines = append(lines, normalizeItem(raw))
	}

	return Bill{
		ClientMeta: meta,
		Items:      lines,
		Discount:   ParseAmount(discountInput),
		Tax:        normalizeTax(tax),
		CreatedAt:  now,
	}
}

func normalizeItem(raw RawItem) LineItem {
	id := strings.TrimSpace(raw.ID)
	if id == "" {
		id = uuid.New().String()
	}
	qty := raw.Quantity
	if qty < 1 {
		qty = 1
	}
	return LineItem{
		ID:        id,
		Name:      raw.Name,
		UnitPrice: ParseAmount(raw.Price),
		Quantity:  qty,
		Kind:      ParseKind(raw.Kind),
	}
}

func normalizeTax(tax TaxConfig) TaxConfig {
	if tax.RatePercent.IsNegative() {
		tax.RatePercent = decimal.Zero
	}
	return tax
}
