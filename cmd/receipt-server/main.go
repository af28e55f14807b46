package main

import (
	"context"

	"github.com/go-faster/sdk/app"
	"go.uber.org/zap"

	appkg "github.com/xenking/salon-receipt/internal/app"
)

func main() {
	app.Run(func(ctx context.Context, lg *zap.Logger, m *app.Telemetry) error {
		cfg, err := appkg.LoadConfig()
		if err != nil {
			return err
		}
		lg.Info("Configuration loaded",
			zap.Bool("archive", cfg.DatabaseURL != ""),
			zap.Bool("remote_tax", cfg.Tax.URL != ""),
			zap.String("export_dir", cfg.Export.Dir),
		)
		return appkg.Run(ctx, lg, m, cfg)
	})
}
