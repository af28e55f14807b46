package app

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Config holds the complete application configuration, loadable from
// environment variables (RECEIPT_ prefix), flags, or YAML config files.
type Config struct {
	Addr         string `default:"0.0.0.0:8080" usage:"API server listen address"`
	DatabaseURL  string `usage:"PostgreSQL URL for the receipt archive; empty disables archiving" flag:"database-url"`
	BusinessName string `default:"Salon" usage:"Business name printed on receipts" flag:"business-name"`
	Footer       string `default:"Thank you for visiting" usage:"Thermal receipt footer"`
	Tax          TaxConfig
	Printer      PrinterConfig
	Export       ExportConfig
	Graceful     GracefulConfig
}

// TaxConfig selects the tax source. When URL is set the remote config wins
// and Enabled/RatePercent are ignored.
type TaxConfig struct {
	URL         string        `usage:"Remote tax config endpoint" flag:"tax-url"`
	Token       string        `usage:"Bearer token for the tax endpoint" flag:"tax-token"`
	Timeout     time.Duration `default:"5s" usage:"Tax fetch timeout" flag:"tax-timeout"`
	Enabled     bool          `default:"false" usage:"Apply tax when no URL is set" flag:"tax-enabled"`
	RatePercent string        `default:"0" usage:"Tax rate in percent when no URL is set" flag:"tax-rate"`
}

// PrinterConfig controls the thermal printer session and layout.
type PrinterConfig struct {
	Address      string        `usage:"Printer to pair at startup: host:port, tcp://host:port or a device path" flag:"printer-address"`
	DialTimeout  time.Duration `default:"5s" usage:"Printer connect timeout" flag:"printer-dial-timeout"`
	WriteTimeout time.Duration `default:"10s" usage:"Printer write timeout" flag:"printer-write-timeout"`
	Width        int           `default:"32" usage:"Thermal line width in characters" flag:"printer-width"`
	MaxLen       int           `default:"80" usage:"Maximum length of a sanitized text field" flag:"printer-max-len"`
	Fallback     string        `default:"-" usage:"Placeholder for fields that sanitize to nothing" flag:"printer-fallback"`
}

// ExportConfig controls where issued documents are stored.
type ExportConfig struct {
	Dir  string `default:"receipts" usage:"Directory for exported documents; empty disables export" flag:"export-dir"`
	Gzip bool   `default:"false" usage:"Gzip exported documents" flag:"export-gzip"`
}

// GracefulConfig controls graceful shutdown timing.
type GracefulConfig struct {
	ReadinessDelay  time.Duration `default:"3s"  usage:"Delay after readiness=false before shutdown" flag:"readiness-delay"`
	ShutdownTimeout time.Duration `default:"15s" usage:"Maximum shutdown duration" flag:"shutdown-timeout"`
}

// LoadConfig loads configuration from environment variables, YAML config files,
// and applies platform-specific defaults.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "RECEIPT",
		Files:     []string{"config.yaml", "/etc/salon-receipt/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings that would otherwise fail at first use.
func (c *Config) Validate() error {
	rate, err := c.Tax.Rate()
	if err != nil {
		return err
	}
	if rate.IsNegative() {
		return errors.Errorf("tax rate %s must not be negative", rate)
	}
	if c.Printer.Width < 16 {
		return errors.Errorf("printer width %d is below 16 characters", c.Printer.Width)
	}
	return nil
}

// Rate parses RatePercent.
func (t TaxConfig) Rate() (decimal.Decimal, error) {
	if t.RatePercent == "" {
		return decimal.Zero, nil
	}
	rate, err := decimal.NewFromString(t.RatePercent)
	if err != nil {
		return decimal.Zero, errors.Wrapf(err, "parse tax rate %q", t.RatePercent)
	}
	return rate, nil
}

// applyPlatformDefaults maps platform-provided environment variables (Railway,
// Render, etc.) that use standard names like DATABASE_URL and PORT to the
// application's RECEIPT_-prefixed configuration.
func (c *Config) applyPlatformDefaults() {
	if c.DatabaseURL == "" {
		if v := os.Getenv("DATABASE_URL"); v != "" {
			c.DatabaseURL = v
		}
	}
	if port := os.Getenv("PORT"); port != "" && c.Addr == "0.0.0.0:8080" {
		c.Addr = "0.0.0.0:" + port
	}
}
