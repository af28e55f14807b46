package printer

import (
	"context"
	"io"
	"net"
	"os"
	"strings"
	"time"

	"github.com/go-faster/errors"
)

// Conn is an open link to a printer.
type Conn io.WriteCloser

// Transport opens connections to a printer address. Implementations own any
// timeout policy; Session does not impose one.
type Transport interface {
	Dial(ctx context.Context, address string) (Conn, error)
}

// TransportFunc adapts a function to Transport.
type TransportFunc func(ctx context.Context, address string) (Conn, error)

// Dial calls f.
func (f TransportFunc) Dial(ctx context.Context, address string) (Conn, error) {
	return f(ctx, address)
}

// TCPTransport talks to network printers on a raw port (usually 9100).
type TCPTransport struct {
	DialTimeout  time.Duration
	WriteTimeout time.Duration
}

// Dial connects to host:port.
func (t TCPTransport) Dial(ctx context.Context, address string) (Conn, error) {
	d := net.Dialer{Timeout: t.DialTimeout}
	c, err := d.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, err
	}
	if t.WriteTimeout > 0 {
		if err := c.SetWriteDeadline(time.Now().Add(t.WriteTimeout)); err != nil {
			_ = c.Close()
			return nil, errors.Wrap(err, "set write deadline")
		}
	}
	return c, nil
}

// DeviceTransport writes to a character device, e.g. a Bluetooth RFCOMM port
// bound with rfcomm(1) at /dev/rfcomm0 or a USB printer at /dev/usb/lp0.
type DeviceTransport struct{}

// Dial opens the device for writing.
func (DeviceTransport) Dial(ctx context.Context, path string) (Conn, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Address scheme prefixes understood by SchemeTransport.
const (
	SchemeTCP    = "tcp://"
	SchemeDevice = "dev://"
)

// SchemeTransport routes an address to a transport by its prefix. Bare
// absolute paths go to Device, everything else to TCP.
type SchemeTransport struct {
	TCP    Transport
	Device Transport
}

// Dial strips the scheme and delegates.
func (s SchemeTransport) Dial(ctx context.Context, address string) (Conn, error) {
	switch {
	case strings.HasPrefix(address, SchemeDevice):
		return dialWith(ctx, s.Device, strings.TrimPrefix(address, SchemeDevice))
	case strings.HasPrefix(address, SchemeTCP):
		return dialWith(ctx, s.TCP, strings.TrimPrefix(address, SchemeTCP))
	case strings.HasPrefix(address, "/"):
		return dialWith(ctx, s.Device, address)
	default:
		return dialWith(ctx, s.TCP, address)
	}
}

func dialWith(ctx context.Context, t Transport, address string) (Conn, error) {
	if t == nil {
		return nil, errors.Errorf("no transport for %q", address)
	}
	return t.Dial(ctx, address)
}
