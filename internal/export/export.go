// Package export hands rendered receipt documents to a destination where
// they can be shared or reprinted.
package export

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-faster/errors"
	pgzip "github.com/klauspost/pgzip"
)

// Exporter stores a document and returns where it can be found.
type Exporter interface {
	Export(ctx context.Context, name string, body []byte) (location string, err error)
}

// DirExporter writes documents into a directory. Files appear atomically: a
// partially written document is never visible under its final name.
type DirExporter struct {
	Dir string
	// Gzip compresses documents and appends ".gz" to the name.
	Gzip bool
}

// Export implements Exporter. The returned location is the file path.
func (e DirExporter) Export(ctx context.Context, name string, body []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	name = filepath.Base(name)
	if name == "." || name == string(filepath.Separator) || strings.HasPrefix(name, ".") {
		return "", errors.Errorf("invalid document name %q", name)
	}
	if e.Gzip {
		name += ".gz"
	}

	if err := os.MkdirAll(e.Dir, 0o755); err != nil {
		return "", errors.Wrap(err, "create export dir")
	}

	tmp, err := os.CreateTemp(e.Dir, ".tmp-"+name+"-*")
	if err != nil {
		return "", errors.Wrap(err, "create temp file")
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := e.write(tmp, body); err != nil {
		_ = tmp.Close()
		return "", errors.Wrapf(err, "write %s", name)
	}
	if err := tmp.Close(); err != nil {
		return "", errors.Wrap(err, "close temp file")
	}

	final := filepath.Join(e.Dir, name)
	if err := os.Rename(tmp.Name(), final); err != nil {
		return "", errors.Wrap(err, "publish document")
	}
	return final, nil
}

func (e DirExporter) write(w io.Writer, body []byte) error {
	if !e.Gzip {
		_, err := w.Write(body)
		return err
	}
	gz := pgzip.NewWriter(w)
	if _, err := gz.Write(body); err != nil {
		_ = gz.Close()
		return errors.Wrap(err, "compress")
	}
	return gz.Close()
}
