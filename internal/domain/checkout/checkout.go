package checkout

import (
	"context"
	"time"

	"github.com/go-faster/errors"

	"github.com/xenking/salon-receipt/internal/domain/bill"
)

// ErrReceiptNotFound is returned when an archived receipt does not exist.
var ErrReceiptNotFound = errors.New("receipt not found")

// Request is the raw checkout input collected by the UI.
type Request struct {
	Items    []bill.RawItem
	Client   bill.ClientMeta
	Discount string
}

// Checkout is the canonical bill and totals pair every output is rendered
// from.
type Checkout struct {
	Bill   bill.Bill
	Totals bill.Totals
}

// Receipt is an issued document kept for reprints and reporting.
type Receipt struct {
	ID        string
	Bill      bill.Bill
	Totals    bill.Totals
	Filename  string
	Location  string
	CreatedAt time.Time
}

// Repository persists issued receipts.
type Repository interface {
	Create(ctx context.Context, r *Receipt) error
	GetByID(ctx context.Context, id string) (*Receipt, error)
}

// Printer sends thermal text to a receipt printer.
type Printer interface {
	Print(ctx context.Context, text string) error
}
