package bill

import (
	"time"

	"github.com/shopspring/decimal"
)

// SourceKind tells where a line item came from in the catalog.
type SourceKind string

const (
	KindService SourceKind = "service"
	KindDeal    SourceKind = "deal"
	KindProduct SourceKind = "product"
	KindCustom  SourceKind = "custom"
)

// ParseKind maps free-form input to a SourceKind. Anything unknown is custom.
func ParseKind(s string) SourceKind {
	switch k := SourceKind(s); k {
	case KindService, KindDeal, KindProduct:
		return k
	default:
		return KindCustom
	}
}

// LineItem is a single priced entry on a bill.
type LineItem struct {
	ID        string
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
	Kind      SourceKind
}

// Amount returns UnitPrice * Quantity without rounding.
func (li LineItem) Amount() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// TaxConfig is a snapshot of the externally managed tax settings.
type TaxConfig struct {
	Enabled     bool
	RatePercent decimal.Decimal
}

// NoTax is the configuration used whenever the real one is unavailable.
var NoTax = TaxConfig{Enabled: false, RatePercent: decimal.Zero}

// ClientMeta holds the free-text details printed above the items.
type ClientMeta struct {
	ClientName  string
	PhoneNumber string
	Notes       string
	Beautician  string
}

// Bill is an immutable snapshot of a checkout. A changed cart means a new Bill.
type Bill struct {
	ClientMeta

	Items     []LineItem
	Discount  decimal.Decimal
	Tax       TaxConfig
	CreatedAt time.Time
}

// Totals is the monetary summary derived from a Bill.
type Totals struct {
	Subtotal   decimal.Decimal
	TaxAmount  decimal.Decimal
	Discount   decimal.Decimal
	GrandTotal decimal.Decimal
}

// Clamped reports whether GrandTotal was floored at zero because the discount
// exceeded subtotal plus tax.
func (t Totals) Clamped() bool {
	return t.Subtotal.Sub(t.Discount).Add(t.TaxAmount).IsNegative()
}
