// Package checkout turns a cart into a bill and delivers it through the
// document and thermal channels.
package checkout

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"github.com/xenking/salon-receipt/internal/domain/bill"
	"github.com/xenking/salon-receipt/internal/domain/tax"
	"github.com/xenking/salon-receipt/internal/export"
	"github.com/xenking/salon-receipt/internal/printer"
	"github.com/xenking/salon-receipt/internal/render/document"
	"github.com/xenking/salon-receipt/internal/render/thermal"
)

const instrumentationName = "github.com/xenking/salon-receipt/internal/domain/checkout"

// DocumentResult is the outcome of issuing a full-page document.
type DocumentResult struct {
	Checkout
	Document document.Document
	// Location is where the exporter stored the document; empty when no
	// exporter is configured.
	Location string
	// ReceiptID is the archive ID; empty when archiving is disabled or failed.
	ReceiptID string
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithMeterProvider enables metrics.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(s *Service) { s.meterProvider = mp }
}

// WithTracerProvider enables tracing.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *Service) { s.tracer = tp.Tracer(instrumentationName) }
}

// WithExporter sets where documents are stored.
func WithExporter(e export.Exporter) Option {
	return func(s *Service) { s.exporter = e }
}

// WithRepository enables the receipt archive.
func WithRepository(r Repository) Option {
	return func(s *Service) { s.receipts = r }
}

// Service encapsulates checkout business logic.
type Service struct {
	taxes    tax.Fallback
	docs     *document.Renderer
	layout   thermal.Layout
	printer  Printer
	exporter export.Exporter
	receipts Repository
	now      func() time.Time

	meterProvider metric.MeterProvider
	tracer        trace.Tracer
	printJobs     metric.Int64Counter
	documents     metric.Int64Counter
}

// NewService creates a checkout Service. Tax fetch failures are always
// recovered: the provider is wrapped in tax.Fallback.
func NewService(
	taxes tax.Provider,
	docs *document.Renderer,
	layout thermal.Layout,
	p Printer,
	opts ...Option,
) (*Service, error) {
	s := &Service{
		taxes:         tax.Fallback{Provider: taxes},
		docs:          docs,
		layout:        layout,
		printer:       p,
		now:           time.Now,
		meterProvider: noop.NewMeterProvider(),
		tracer:        tracenoop.NewTracerProvider().Tracer(instrumentationName),
	}
	for _, o := range opts {
		o(s)
	}

	meter := s.meterProvider.Meter(instrumentationName)
	var err error
	if s.printJobs, err = meter.Int64Counter("receipt.print.jobs",
		metric.WithDescription("Thermal print attempts by outcome"),
	); err != nil {
		return nil, errors.Wrap(err, "create print counter")
	}
	if s.documents, err = meter.Int64Counter("receipt.documents",
		metric.WithDescription("Full-page receipt documents issued"),
	); err != nil {
		return nil, errors.Wrap(err, "create document counter")
	}
	return s, nil
}

// Preview computes the bill and totals for req without producing output.
func (s *Service) Preview(ctx context.Context, req Request) Checkout {
	ctx, span := s.tracer.Start(ctx, "checkout.Preview")
	defer span.End()

	return s.checkout(ctx, req)
}

// checkout fetches a fresh tax snapshot and builds the canonical pair.
func (s *Service) checkout(ctx context.Context, req Request) Checkout {
	b := bill.Build(req.Items, req.Client, req.Discount, s.taxes.Config(ctx), s.now())
	return Checkout{Bill: b, Totals: bill.ComputeTotals(b)}
}

// Thermal returns the receipt text for req.
func (s *Service) Thermal(ctx context.Context, req Request) (Checkout, string) {
	ctx, span := s.tracer.Start(ctx, "checkout.Thermal")
	defer span.End()

	c := s.checkout(ctx, req)
	return c, s.layout.Render(c.Bill, c.Totals)
}

// Document renders the full-page receipt, exports it and archives it.
// Only an export failure is returned; archiving is best effort.
func (s *Service) Document(ctx context.Context, req Request) (*DocumentResult, error) {
	ctx, span := s.tracer.Start(ctx, "checkout.Document")
	defer span.End()

	c := s.checkout(ctx, req)
	res := &DocumentResult{
		Checkout: c,
		Document: s.docs.Render(c.Bill, c.Totals),
	}
	lg := zctx.From(ctx).With(zap.String("filename", res.Document.Filename))

	if s.exporter != nil {
		loc, err := s.exporter.Export(ctx, res.Document.Filename, res.Document.Body)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "export failed")
			return nil, errors.Wrap(err, "export document")
		}
		res.Location = loc
	}

	if s.receipts != nil {
		r := &Receipt{
			ID:        uuid.New().String(),
			Bill:      c.Bill,
			Totals:    c.Totals,
			Filename:  res.Document.Filename,
			Location:  res.Location,
			CreatedAt: c.Bill.CreatedAt,
		}
		if err := s.receipts.Create(ctx, r); err != nil {
			span.RecordError(err)
			lg.Error("Archive receipt failed", zap.Error(err))
		} else {
			res.ReceiptID = r.ID
		}
	}

	s.documents.Add(ctx, 1)
	lg.Info("Receipt document issued",
		zap.String("location", res.Location),
		zap.String("grand_total", bill.FormatMoney(c.Totals.GrandTotal)),
	)
	return res, nil
}

// Print renders the thermal receipt for req and sends it to the printer.
// Printer errors are returned unchanged so callers can match them with
// errors.Is against the printer package sentinels.
func (s *Service) Print(ctx context.Context, req Request) (Checkout, error) {
	ctx, span := s.tracer.Start(ctx, "checkout.Print")
	defer span.End()

	c := s.checkout(ctx, req)
	text := s.layout.Render(c.Bill, c.Totals)

	err := s.printer.Print(ctx, text)
	outcome := printOutcome(err)
	s.printJobs.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	span.SetAttributes(attribute.String("receipt.print.outcome", outcome))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
		return c, err
	}

	zctx.From(ctx).Info("Receipt printed",
		zap.Int("items", len(c.Bill.Items)),
		zap.String("grand_total", bill.FormatMoney(c.Totals.GrandTotal)),
	)
	return c, nil
}

// Receipt returns an archived receipt.
func (s *Service) Receipt(ctx context.Context, id string) (*Receipt, error) {
	if s.receipts == nil {
		return nil, ErrReceiptNotFound
	}
	r, err := s.receipts.GetByID(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "get receipt")
	}
	return r, nil
}

func printOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, printer.ErrNoPrinterPaired):
		return "no_printer"
	case errors.Is(err, printer.ErrPrinterBusy):
		return "busy"
	case errors.Is(err, printer.ErrConnectFailed):
		return "connect_failed"
	case errors.Is(err, printer.ErrTransmitFailed):
		return "transmit_failed"
	default:
		return "error"
	}
}
