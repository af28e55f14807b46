package health

import (
	"context"
	"os"
	"runtime"

	"github.com/go-faster/errors"
)

// GoroutineCountCheck fails when the goroutine count exceeds threshold.
func GoroutineCountCheck(threshold int) CheckFunc {
	return func(_ context.Context) error {
		if n := runtime.NumGoroutine(); n > threshold {
			return errors.Errorf("goroutine count %d exceeds threshold %d", n, threshold)
		}
		return nil
	}
}

// Pinger is implemented by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingCheck fails when p cannot be reached.
func PingCheck(p Pinger) CheckFunc {
	return func(ctx context.Context) error {
		if err := p.Ping(ctx); err != nil {
			return errors.Wrap(err, "ping")
		}
		return nil
	}
}

// WritableDirCheck fails when a file cannot be created in dir.
func WritableDirCheck(dir string) CheckFunc {
	return func(_ context.Context) error {
		f, err := os.CreateTemp(dir, ".health-*")
		if err != nil {
			return errors.Wrap(err, "create probe file")
		}
		name := f.Name()
		_ = f.Close()
		if err := os.Remove(name); err != nil {
			return errors.Wrap(err, "remove probe file")
		}
		return nil
	}
}
