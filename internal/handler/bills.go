package handler

import (
	"io"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/xenking/salon-receipt/internal/domain/checkout"
)

// Header names set on document responses.
const (
	HeaderReceiptLocation = "X-Receipt-Location"
	HeaderReceiptID       = "X-Receipt-ID"
)

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, errors.Wrapf(errBadRequest, "read body: %v", err)
	}
	return data, nil
}

func (h *Handler) billRequest(w http.ResponseWriter, r *http.Request) (checkout.Request, bool) {
	data, err := readBody(w, r)
	if err != nil {
		writeError(w, r, err)
		return checkout.Request{}, false
	}
	req, err := decodeBillRequest(data)
	if err != nil {
		writeError(w, r, errors.Wrapf(errBadRequest, "%v", err))
		return checkout.Request{}, false
	}
	return req, true
}

// Preview returns the computed totals without producing a document.
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	req, ok := h.billRequest(w, r)
	if !ok {
		return
	}
	c := h.checkout.Preview(r.Context(), req)

	var e jx.Encoder
	encodePreview(&e, c)
	writeJSON(w, http.StatusOK, &e)
}

// Document issues the full-page receipt and returns it as a download.
func (h *Handler) Document(w http.ResponseWriter, r *http.Request) {
	req, ok := h.billRequest(w, r)
	if !ok {
		return
	}
	res, err := h.checkout.Document(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	hdr := w.Header()
	hdr.Set("Content-Type", res.Document.ContentType)
	hdr.Set("Content-Disposition", contentDisposition(res.Document.Filename))
	if res.Location != "" {
		hdr.Set(HeaderReceiptLocation, res.Location)
	}
	if res.ReceiptID != "" {
		hdr.Set(HeaderReceiptID, res.ReceiptID)
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Document.Body)
}

// Thermal returns the thermal layout as plain text.
func (h *Handler) Thermal(w http.ResponseWriter, r *http.Request) {
	req, ok := h.billRequest(w, r)
	if !ok {
		return
	}
	_, text := h.checkout.Thermal(r.Context(), req)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, text)
}

// Print sends the thermal receipt to the paired printer.
func (h *Handler) Print(w http.ResponseWriter, r *http.Request) {
	req, ok := h.billRequest(w, r)
	if !ok {
		return
	}
	c, err := h.checkout.Print(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("status", func(e *jx.Encoder) { e.Str("printed") })
		encodeTotals(e, c.Totals)
	})
	writeJSON(w, http.StatusOK, &e)
}

// GetReceipt returns an archived receipt.
func (h *Handler) GetReceipt(w http.ResponseWriter, r *http.Request) {
	rc, err := h.checkout.Receipt(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	var e jx.Encoder
	encodeReceipt(&e, rc)
	writeJSON(w, http.StatusOK, &e)
}
