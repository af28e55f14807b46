package handler

import (
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/xenking/salon-receipt/internal/domain/bill"
	"github.com/xenking/salon-receipt/internal/domain/checkout"
	"github.com/xenking/salon-receipt/internal/printer"
)

// decodeBillRequest parses a checkout body. Unknown fields are ignored and
// malformed amounts are passed through as text for bill.Build to coerce.
func decodeBillRequest(data []byte) (checkout.Request, error) {
	var req checkout.Request
	err := jx.DecodeBytes(data).Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "clientName":
			req.Client.ClientName, err = decodeText(d)
		case "phoneNumber":
			req.Client.PhoneNumber, err = decodeText(d)
		case "notes":
			req.Client.Notes, err = decodeText(d)
		case "beautician":
			req.Client.Beautician, err = decodeText(d)
		case "discount":
			req.Discount, err = decodeText(d)
		case "items":
			err = d.Arr(func(d *jx.Decoder) error {
				item, err := decodeItem(d)
				if err != nil {
					return err
				}
				req.Items = append(req.Items, item)
				return nil
			})
		default:
			err = d.Skip()
		}
		if err != nil {
			return errors.Wrapf(err, "decode %q", key)
		}
		return nil
	})
	if err != nil {
		return checkout.Request{}, err
	}
	return req, nil
}

func decodeItem(d *jx.Decoder) (bill.RawItem, error) {
	var item bill.RawItem
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "id":
			item.ID, err = decodeText(d)
		case "name":
			item.Name, err = decodeText(d)
		case "price":
			item.Price, err = decodeText(d)
		case "kind":
			item.Kind, err = decodeText(d)
		case "quantity":
			var s string
			s, err = decodeText(d)
			// Non-integers fall to zero and are normalized to one.
			item.Quantity, _ = strconv.Atoi(s)
		default:
			err = d.Skip()
		}
		return err
	})
	return item, err
}

// decodeText reads a string, a number (as its literal text), or null (as "").
// Other JSON types are skipped and read as "".
func decodeText(d *jx.Decoder) (string, error) {
	switch d.Next() {
	case jx.String:
		return d.Str()
	case jx.Number:
		n, err := d.Num()
		if err != nil {
			return "", err
		}
		return n.String(), nil
	case jx.Null:
		return "", d.Null()
	default:
		return "", d.Skip()
	}
}

// decodeAddress parses {"address": "..."}.
func decodeAddress(data []byte) (string, error) {
	var address string
	err := jx.DecodeBytes(data).Obj(func(d *jx.Decoder, key string) error {
		if key != "address" {
			return d.Skip()
		}
		var err error
		address, err = decodeText(d)
		return err
	})
	return address, err
}

func lineKind(k bill.LineKind) string {
	switch k {
	case bill.LineSubtotal:
		return "subtotal"
	case bill.LineTax:
		return "tax"
	case bill.LineDiscount:
		return "discount"
	case bill.LineGrandTotal:
		return "grandTotal"
	default:
		return "unknown"
	}
}

func encodeTotals(e *jx.Encoder, t bill.Totals) {
	e.Field("subtotal", func(e *jx.Encoder) { e.Str(bill.FormatMoney(t.Subtotal)) })
	e.Field("taxAmount", func(e *jx.Encoder) { e.Str(bill.FormatMoney(t.TaxAmount)) })
	e.Field("discount", func(e *jx.Encoder) { e.Str(bill.FormatMoney(t.Discount)) })
	e.Field("grandTotal", func(e *jx.Encoder) { e.Str(bill.FormatMoney(t.GrandTotal)) })
}

func encodeItems(e *jx.Encoder, items []bill.LineItem) {
	e.Field("items", func(e *jx.Encoder) {
		e.Arr(func(e *jx.Encoder) {
			for _, item := range items {
				e.Obj(func(e *jx.Encoder) {
					e.Field("id", func(e *jx.Encoder) { e.Str(item.ID) })
					e.Field("name", func(e *jx.Encoder) { e.Str(item.Name) })
					e.Field("price", func(e *jx.Encoder) { e.Str(bill.FormatMoney(item.UnitPrice)) })
					e.Field("quantity", func(e *jx.Encoder) { e.Int(item.Quantity) })
					e.Field("kind", func(e *jx.Encoder) { e.Str(string(item.Kind)) })
					e.Field("amount", func(e *jx.Encoder) { e.Str(bill.FormatMoney(item.Amount())) })
				})
			}
		})
	})
}

// encodePreview writes the totals and the summary rows a receipt would show.
func encodePreview(e *jx.Encoder, c checkout.Checkout) {
	e.Obj(func(e *jx.Encoder) {
		encodeTotals(e, c.Totals)
		e.Field("clamped", func(e *jx.Encoder) { e.Bool(c.Totals.Clamped()) })
		e.Field("lines", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, l := range bill.Summarize(c.Bill, c.Totals) {
					e.Obj(func(e *jx.Encoder) {
						e.Field("kind", func(e *jx.Encoder) { e.Str(lineKind(l.Kind)) })
						e.Field("label", func(e *jx.Encoder) { e.Str(l.Label) })
						e.Field("amount", func(e *jx.Encoder) { e.Str(l.Value()) })
					})
				}
			})
		})
		encodeItems(e, c.Bill.Items)
	})
}

func encodeReceipt(e *jx.Encoder, r *checkout.Receipt) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Str(r.ID) })
		e.Field("filename", func(e *jx.Encoder) { e.Str(r.Filename) })
		e.Field("location", func(e *jx.Encoder) { e.Str(r.Location) })
		e.Field("createdAt", func(e *jx.Encoder) { e.Str(r.CreatedAt.UTC().Format(time.RFC3339)) })
		e.Field("clientName", func(e *jx.Encoder) { e.Str(r.Bill.ClientName) })
		e.Field("phoneNumber", func(e *jx.Encoder) { e.Str(r.Bill.PhoneNumber) })
		e.Field("notes", func(e *jx.Encoder) { e.Str(r.Bill.Notes) })
		e.Field("beautician", func(e *jx.Encoder) { e.Str(r.Bill.Beautician) })
		e.Field("tax", func(e *jx.Encoder) {
			e.Obj(func(e *jx.Encoder) {
				e.Field("enabled", func(e *jx.Encoder) { e.Bool(r.Bill.Tax.Enabled) })
				e.Field("ratePercent", func(e *jx.Encoder) { e.Str(r.Bill.Tax.RatePercent.String()) })
			})
		})
		encodeTotals(e, r.Totals)
		encodeItems(e, r.Bill.Items)
	})
}

func encodeStatus(e *jx.Encoder, s printer.Status) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("address", func(e *jx.Encoder) { e.Str(s.Address) })
		e.Field("state", func(e *jx.Encoder) { e.Str(string(s.State)) })
		e.Field("paired", func(e *jx.Encoder) { e.Bool(s.Paired) })
		e.Field("busy", func(e *jx.Encoder) { e.Bool(s.Busy) })
		if s.LastError != "" {
			e.Field("lastError", func(e *jx.Encoder) { e.Str(s.LastError) })
		}
		if !s.LastPrinted.IsZero() {
			e.Field("lastPrinted", func(e *jx.Encoder) { e.Str(s.LastPrinted.UTC().Format(time.RFC3339)) })
		}
	})
}

// contentDisposition builds an attachment header for a generated file name.
func contentDisposition(filename string) string {
	return `attachment; filename="` + strings.ReplaceAll(filename, `"`, "") + `"`
}
