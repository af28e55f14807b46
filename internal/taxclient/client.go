// Package taxclient fetches the salon's tax settings from the management
// backend over HTTP.
package taxclient

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/xenking/salon-receipt/internal/domain/bill"
	"github.com/xenking/salon-receipt/internal/domain/tax"
)

var _ tax.Provider = (*Client)(nil)

// maxBody caps the configuration response size.
const maxBody = 64 << 10

// Config configures a Client.
type Config struct {
	URL     string
	Token   string
	Timeout time.Duration

	TracerProvider trace.TracerProvider
	MeterProvider  metric.MeterProvider
}

// Client implements tax.Provider with a GET request returning
// {"enabled": bool, "ratePercent": number}.
type Client struct {
	url   string
	token string
	http  *http.Client
}

// New creates a Client. Telemetry providers are optional.
func New(cfg Config) *Client {
	var opts []otelhttp.Option
	if cfg.TracerProvider != nil {
		opts = append(opts, otelhttp.WithTracerProvider(cfg.TracerProvider))
	}
	if cfg.MeterProvider != nil {
		opts = append(opts, otelhttp.WithMeterProvider(cfg.MeterProvider))
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		url:   cfg.URL,
		token: cfg.Token,
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport, opts...),
		},
	}
}

// Fetch implements tax.Provider. Every failure is a *tax.FetchError.
func (c *Client) Fetch(ctx context.Context) (bill.TaxConfig, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, http.NoBody)
	if err != nil {
		return bill.TaxConfig{}, &tax.FetchError{Op: "build request", Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return bill.TaxConfig{}, &tax.FetchError{Op: "request", Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return bill.TaxConfig{}, &tax.FetchError{Op: "request", Err: errors.Errorf("unexpected status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return bill.TaxConfig{}, &tax.FetchError{Op: "read", Err: err}
	}

	cfg, err := Decode(body)
	if err != nil {
		return bill.TaxConfig{}, &tax.FetchError{Op: "decode", Err: err}
	}
	return cfg, nil
}

// Decode parses a tax configuration document. ratePercent may be a JSON
// number or a numeric string; unknown fields are ignored. A missing rate is
// zero and a missing enabled flag is false.
func Decode(data []byte) (bill.TaxConfig, error) {
	cfg := bill.TaxConfig{RatePercent: decimal.Zero}
	d := jx.DecodeBytes(data)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "enabled":
			v, err := d.Bool()
			if err != nil {
				return errors.Wrap(err, "enabled")
			}
			cfg.Enabled = v
		case "ratePercent":
			v, err := decodeDecimal(d)
			if err != nil {
				return errors.Wrap(err, "ratePercent")
			}
			cfg.RatePercent = v
		default:
			return d.Skip()
		}
		return nil
	})
	if err != nil {
		return bill.TaxConfig{}, err
	}
	return cfg, nil
}

func decodeDecimal(d *jx.Decoder) (decimal.Decimal, error) {
	switch d.Next() {
	case jx.Null:
		return decimal.Zero, d.Null()
	case jx.String:
		s, err := d.Str()
		if err != nil {
			return decimal.Zero, err
		}
		return decimal.NewFromString(s)
	default:
		n, err := d.Num()
		if err != nil {
			return decimal.Zero, err
		}
		return decimal.NewFromString(n.String())
	}
}
