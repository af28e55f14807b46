// Package document renders a bill as a full-page HTML receipt suitable for
// printing to PDF or sharing as a file.
package document

import (
	"bytes"
	"html/template"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/xenking/salon-receipt/internal/domain/bill"
)

// ContentType of rendered documents.
const ContentType = "text/html; charset=utf-8"

// Document is a rendered receipt ready for export.
type Document struct {
	Filename    string
	ContentType string
	Body        []byte
}

// Renderer produces receipt documents. The zero value is not usable; call
// NewRenderer.
type Renderer struct {
	businessName string
	lg           *zap.Logger
	page         *template.Template
	fallback     *template.Template
}

// NewRenderer creates a Renderer that brands documents with businessName.
// A nil logger disables logging.
func NewRenderer(businessName string, lg *zap.Logger) *Renderer {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &Renderer{
		businessName: businessName,
		lg:           lg,
		page:         pageTemplate,
		fallback:     fallbackTemplate,
	}
}

// Render builds the document for b and t. It does not fail: if the page
// cannot be produced the result is a minimal document with no items and the
// same summary values.
func (r *Renderer) Render(b bill.Bill, t bill.Totals) Document {
	doc := Document{
		Filename:    Filename(b.ClientName, b.CreatedAt),
		ContentType: ContentType,
	}

	v := r.view(b, t)
	var buf bytes.Buffer
	if err := r.page.Execute(&buf, v); err != nil {
		r.lg.Error("Receipt document render failed, using fallback",
			zap.String("filename", doc.Filename),
			zap.Error(err),
		)
		doc.Body = r.renderFallback(v)
		return doc
	}

	doc.Body = buf.Bytes()
	return doc
}

func (r *Renderer) renderFallback(v view) []byte {
	v.Items = nil
	var buf bytes.Buffer
	if err := r.fallback.Execute(&buf, v); err != nil {
		r.lg.Error("Receipt fallback render failed", zap.Error(err))
		return []byte(minimalPage)
	}
	return buf.Bytes()
}

type view struct {
	Business    string
	GeneratedAt string
	Details     []detail
	Items       []itemRow
	Summary     []summaryRow
}

type detail struct {
	Label string
	Value string
}

type itemRow struct {
	Name      string
	Quantity  int
	UnitPrice string
	Amount    string
}

type summaryRow struct {
	Label string
	Value string
	Grand bool
}

func (r *Renderer) view(b bill.Bill, t bill.Totals) view {
	v := view{
		Business:    r.businessName,
		GeneratedAt: b.CreatedAt.Format("02 Jan 2006, 15:04"),
	}

	client := strings.TrimSpace(b.ClientName)
	if client == "" {
		client = "Walk-in"
	}
	v.Details = append(v.Details, detail{Label: "Client", Value: client})
	for _, d := range []detail{
		{Label: "Phone", Value: b.PhoneNumber},
		{Label: "Beautician", Value: b.Beautician},
		{Label: "Notes", Value: b.Notes},
	} {
		if d.Value = strings.TrimSpace(d.Value); d.Value != "" {
			v.Details = append(v.Details, d)
		}
	}

	for _, item := range b.Items {
		v.Items = append(v.Items, itemRow{
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: bill.FormatMoney(item.UnitPrice),
			Amount:    bill.FormatMoney(item.Amount()),
		})
	}

	for _, s := range bill.Summarize(b, t) {
		v.Summary = append(v.Summary, summaryRow{
			Label: s.Label,
			Value: s.Value(),
			Grand: s.Emphasis,
		})
	}
	return v
}

// Filename derives a collision-resistant file name from the client name and
// timestamp, e.g. receipt-ayesha-khan-20260314-150926-1f2e3d4c.html.
func Filename(clientName string, at time.Time) string {
	return "receipt-" + slug(clientName) + "-" + at.Format("20060102-150405") + "-" + shortID() + ".html"
}

const maxSlugLen = 32

func slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			dash = false
			b.WriteRune(r)
		default:
			dash = true
		}
		if b.Len() >= maxSlugLen {
			break
		}
	}
	out := strings.TrimRight(b.String(), "-")
	if out == "" {
		return "walk-in"
	}
	return out
}
