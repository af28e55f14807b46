package bill

import (
	"github.com/shopspring/decimal"
)

// LineKind identifies a row of the summary block.
type LineKind int

const (
	LineSubtotal LineKind = iota
	LineTax
	LineDiscount
	LineGrandTotal
)

// SummaryLine is one labelled amount in the summary block of a receipt.
type SummaryLine struct {
	Kind     LineKind
	Label    string
	Amount   decimal.Decimal
	Emphasis bool
}

// Value returns the amount formatted for display.
func (l SummaryLine) Value() string {
	return FormatMoney(l.Amount)
}

// Summarize returns the summary rows every renderer prints, in order. The tax
// row is present only when tax is enabled and produced a positive amount.
func Summarize(b Bill, t Totals) []SummaryLine {
	lines := make([]SummaryLine, 0, 4)
	lines = append(lines, SummaryLine{Kind: LineSubtotal, Label: "Sub Total", Amount: t.Subtotal})
	if HasTaxLine(b, t) {
		lines = append(lines, SummaryLine{
			Kind:   LineTax,
			Label:  "GST (" + b.Tax.RatePercent.String() + "%)",
			Amount: t.TaxAmount,
		})
	}
	lines = append(lines,
		SummaryLine{Kind: LineDiscount, Label: "Discount", Amount: t.Discount},
		SummaryLine{Kind: LineGrandTotal, Label: "TOTAL", Amount: t.GrandTotal, Emphasis: true},
	)
	return lines
}

// HasTaxLine reports whether a receipt for b shows a tax row.
func HasTaxLine(b Bill, t Totals) bool {
	return b.Tax.Enabled && t.TaxAmount.IsPositive()
}

// FormatMoney rounds to two decimal places for presentation.
func FormatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}
