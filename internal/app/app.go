package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/salon-receipt/internal/domain/bill"
	"github.com/xenking/salon-receipt/internal/domain/checkout"
	"github.com/xenking/salon-receipt/internal/domain/tax"
	"github.com/xenking/salon-receipt/internal/export"
	"github.com/xenking/salon-receipt/internal/handler"
	"github.com/xenking/salon-receipt/internal/printer"
	"github.com/xenking/salon-receipt/internal/render/document"
	"github.com/xenking/salon-receipt/internal/render/thermal"
	"github.com/xenking/salon-receipt/internal/storage/postgres"
	"github.com/xenking/salon-receipt/internal/taxclient"
	"github.com/xenking/salon-receipt/pkg/health"
	"github.com/xenking/salon-receipt/pkg/httpmiddleware"
)

// Run creates all dependencies, starts the HTTP server, and handles graceful
// shutdown. It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing", zap.String("addr", cfg.Addr))

	healthSvc := health.New()
	healthSvc.Register(health.Liveness, health.Check{
		Name: "goroutines",
		Func: health.GoroutineCountCheck(10000),
	})

	var opts []checkout.Option
	opts = append(opts,
		checkout.WithTracerProvider(m.TracerProvider()),
		checkout.WithMeterProvider(m.MeterProvider()),
	)

	// Optional receipt archive.
	if cfg.DatabaseURL != "" {
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return errors.Wrap(err, "create db pool")
		}
		defer pool.Close()

		if err := postgres.RunMigrations(ctx, pool); err != nil {
			return errors.Wrap(err, "run migrations")
		}
		healthSvc.Register(health.Readiness, health.Check{
			Name:    "postgres",
			Timeout: 5 * time.Second,
			Func:    health.PingCheck(pool),
		})
		opts = append(opts, checkout.WithRepository(postgres.NewReceiptRepository(pool)))
	} else {
		lg.Warn("DATABASE_URL not set, receipt archive disabled")
	}

	if cfg.Export.Dir != "" {
		healthSvc.Register(health.Readiness, health.Check{
			Name: "exports",
			Func: health.WritableDirCheck(cfg.Export.Dir),
		})
		opts = append(opts, checkout.WithExporter(export.DirExporter{
			Dir:  cfg.Export.Dir,
			Gzip: cfg.Export.Gzip,
		}))
	}

	taxes, err := newTaxProvider(cfg.Tax, m)
	if err != nil {
		return errors.Wrap(err, "create tax provider")
	}

	sanitizer := printer.Sanitizer{MaxLen: cfg.Printer.MaxLen, Fallback: cfg.Printer.Fallback}
	session := printer.NewSession(
		printer.SchemeTransport{
			TCP: printer.TCPTransport{
				DialTimeout:  cfg.Printer.DialTimeout,
				WriteTimeout: cfg.Printer.WriteTimeout,
			},
			Device: printer.DeviceTransport{},
		},
		printer.WithSanitizer(sanitizer),
	)
	if cfg.Printer.Address != "" {
		if err := session.Pair(cfg.Printer.Address); err != nil {
			return errors.Wrap(err, "pair printer")
		}
		lg.Info("Printer paired", zap.String("address", cfg.Printer.Address))
	}

	svc, err := checkout.NewService(
		taxes,
		document.NewRenderer(cfg.BusinessName, lg.Named("document")),
		thermal.Layout{
			Width:        cfg.Printer.Width,
			BusinessName: cfg.BusinessName,
			Footer:       cfg.Footer,
			Sanitizer:    sanitizer,
		},
		session,
		opts...,
	)
	if err != nil {
		return errors.Wrap(err, "create checkout service")
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /livez", healthSvc.LiveEndpoint)
	mux.HandleFunc("GET /readyz", healthSvc.ReadyEndpoint)
	handler.NewHandler(svc, session).Register(mux)

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		// Printing waits on the device; leave room for dial and write timeouts.
		WriteTimeout:   cfg.Printer.DialTimeout + cfg.Printer.WriteTimeout + 10*time.Second,
		IdleTimeout:    120 * time.Second,
		MaxHeaderBytes: 1 << 20,
		Addr:           cfg.Addr,
		Handler: httpmiddleware.Wrap(mux,
			httpmiddleware.RequestID(),
			httpmiddleware.InjectLogger(zctx.From(ctx)),
			httpmiddleware.Recovery(),
			httpmiddleware.Instrument("receipt-api", m),
			httpmiddleware.LogRequests(),
		),
	}

	healthSvc.Start(ctx, 10*time.Second)
	healthSvc.SetReady(true)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		lg.Info("Server listening", zap.String("addr", cfg.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "server")
		}
		return nil
	})
	g.Go(func() error {
		// Graceful shutdown: drop readiness, drain, then stop.
		<-gctx.Done()
		healthSvc.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		defer healthSvc.Stop()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return errors.Wrap(err, "shutdown")
		}
		return nil
	})
	return g.Wait()
}

// newTaxProvider returns the remote client when a URL is configured and the
// static configured rate otherwise.
func newTaxProvider(cfg TaxConfig, m *app.Telemetry) (tax.Provider, error) {
	if cfg.URL != "" {
		return taxclient.New(taxclient.Config{
			URL:            cfg.URL,
			Token:          cfg.Token,
			Timeout:        cfg.Timeout,
			TracerProvider: m.TracerProvider(),
			MeterProvider:  m.MeterProvider(),
		}), nil
	}
	rate, err := cfg.Rate()
	if err != nil {
		return nil, err
	}
	return tax.Static(bill.TaxConfig{Enabled: cfg.Enabled, RatePercent: rate}), nil
}
