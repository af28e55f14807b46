// Package thermal lays out a bill as fixed-width text for a receipt roll.
package thermal

import (
	"strconv"
	"strings"

	"github.com/xenking/salon-receipt/internal/domain/bill"
	"github.com/xenking/salon-receipt/internal/printer"
)

// DefaultWidth fits 58 mm paper in the printer's default font.
const DefaultWidth = 32

const dateLayout = "2006-01-02 15:04"

// Layout renders receipts at a fixed character width.
type Layout struct {
	Width        int
	BusinessName string
	Footer       string
	Sanitizer    printer.Sanitizer
}

// Render returns the receipt text for b. Every free-text field is passed
// through the printer sanitizer before layout, and the summary block comes
// from bill.Summarize so it matches the full-page document.
func (l Layout) Render(b bill.Bill, t bill.Totals) string {
	w := &writer{width: l.width()}

	if name := strings.TrimSpace(l.BusinessName); name != "" {
		w.center(l.clean(name))
	}
	w.center(b.CreatedAt.Format(dateLayout))
	w.rule()

	w.field("Client", l.clean(b.ClientName))
	l.optional(w, "Phone", b.PhoneNumber)
	l.optional(w, "Beautician", b.Beautician)
	l.optional(w, "Notes", b.Notes)
	w.rule()

	if len(b.Items) == 0 {
		w.center("No items")
	}
	for _, item := range b.Items {
		w.item(l.clean(item.Name), bill.FormatMoney(item.Amount()))
		if item.Quantity > 1 {
			w.wrapped("  " + strconv.Itoa(item.Quantity) + " x " + bill.FormatMoney(item.UnitPrice))
		}
	}
	w.rule()

	for _, s := range bill.Summarize(b, t) {
		w.row(s.Label+":", s.Value())
	}
	w.rule()

	if footer := strings.TrimSpace(l.Footer); footer != "" {
		w.center(l.clean(footer))
	}
	return w.String()
}

func (l Layout) width() int {
	if l.Width <= 0 {
		return DefaultWidth
	}
	return l.Width
}

func (l Layout) clean(s string) string {
	return l.Sanitizer.Sanitize(s)
}

// optional writes a field only when the raw value has content.
func (l Layout) optional(w *writer, label, raw string) {
	if strings.TrimSpace(raw) == "" {
		return
	}
	w.field(label, l.clean(raw))
}
