// Package handler exposes checkout and printer operations over HTTP.
package handler

import (
	"context"
	"net/http"

	"github.com/xenking/salon-receipt/internal/domain/checkout"
	"github.com/xenking/salon-receipt/internal/printer"
)

// maxBodyBytes bounds request bodies; a salon cart is a few kilobytes.
const maxBodyBytes = 1 << 20

// Checkout is the subset of checkout.Service used by the handlers.
type Checkout interface {
	Preview(ctx context.Context, req checkout.Request) checkout.Checkout
	Thermal(ctx context.Context, req checkout.Request) (checkout.Checkout, string)
	Document(ctx context.Context, req checkout.Request) (*checkout.DocumentResult, error)
	Print(ctx context.Context, req checkout.Request) (checkout.Checkout, error)
	Receipt(ctx context.Context, id string) (*checkout.Receipt, error)
}

// Pairing manages the paired printer.
type Pairing interface {
	Pair(address string) error
	Status() printer.Status
}

var (
	_ Checkout = (*checkout.Service)(nil)
	_ Pairing  = (*printer.Session)(nil)
)

// Handler serves the receipt API.
type Handler struct {
	checkout Checkout
	pairing  Pairing
}

// NewHandler constructs a Handler.
func NewHandler(svc Checkout, pairing Pairing) *Handler {
	return &Handler{checkout: svc, pairing: pairing}
}

// Register adds the API routes to mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/bills/preview", h.Preview)
	mux.HandleFunc("POST /api/bills/document", h.Document)
	mux.HandleFunc("POST /api/bills/thermal", h.Thermal)
	mux.HandleFunc("POST /api/bills/print", h.Print)
	mux.HandleFunc("GET /api/printer", h.PrinterStatus)
	mux.HandleFunc("PUT /api/printer", h.PairPrinter)
	mux.HandleFunc("GET /api/receipts/{id}", h.GetReceipt)
}
