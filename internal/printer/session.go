// Package printer manages the connection to a single paired receipt printer.
//
// A Session caches the paired address for the life of the process and opens
// a fresh connection for every print job. At most one job runs at a time;
// a second caller is rejected with ErrPrinterBusy instead of being queued.
package printer

import (
	"context"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
)

// State is the position of a Session in its connection lifecycle.
type State string

const (
	StateUnpaired   State = "unpaired"
	StatePaired     State = "paired"
	StateConnecting State = "connecting"
	StateConnected  State = "connected"
	StatePrinting   State = "printing"
	StateError      State = "error"
)

// Status is a point-in-time view of a Session.
type Status struct {
	Address     string
	State       State
	Paired      bool
	Busy        bool
	LastError   string
	LastPrinted time.Time
}

// Option configures a Session.
type Option func(*Session)

// WithSanitizer sets the rule used to clean outgoing text.
func WithSanitizer(s Sanitizer) Option {
	return func(sess *Session) { sess.sanitizer = s }
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(sess *Session) { sess.now = now }
}

// Session owns one logical printer slot.
type Session struct {
	transport Transport
	sanitizer Sanitizer
	now       func() time.Time

	// mu guards everything below. It is never held across I/O.
	mu          sync.Mutex
	address     string
	busy        bool
	state       State
	lastErr     error
	lastPrinted time.Time
}

// NewSession creates an unpaired Session that dials through transport.
func NewSession(transport Transport, opts ...Option) *Session {
	s := &Session{
		transport: transport,
		sanitizer: DefaultSanitizer,
		now:       time.Now,
		state:     StateUnpaired,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Pair caches address as the print target. It does not connect. Pairing
// while a job is running only affects later jobs.
func (s *Session) Pair(address string) error {
	address = strings.TrimSpace(address)
	if address == "" {
		return ErrInvalidAddress
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.address = address
	if !s.busy {
		s.state = StatePaired
	}
	return nil
}

// Status returns the current session state.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Status{
		Address:     s.address,
		State:       s.state,
		Paired:      s.address != "",
		Busy:        s.busy,
		LastPrinted: s.lastPrinted,
	}
	if s.lastErr != nil {
		st.LastError = s.lastErr.Error()
	}
	return st
}

// Print sends text to the paired printer. It fails fast with
// ErrNoPrinterPaired or ErrPrinterBusy; otherwise it connects, transmits the
// sanitized text and disconnects. Connection and transmission failures are
// returned as *ConnectError and *TransmitError. Nothing is retried.
func (s *Session) Print(ctx context.Context, text string) (err error) {
	address, err := s.acquire()
	if err != nil {
		return err
	}
	defer func() { s.release(err) }()

	lg := zctx.From(ctx).With(zap.String("printer", address))

	s.setState(StateConnecting)
	conn, err := s.transport.Dial(ctx, address)
	if err != nil {
		lg.Warn("Printer connect failed", zap.Error(err))
		s.setState(StateError)
		return &ConnectError{Address: address, Err: err}
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			lg.Warn("Printer disconnect failed", zap.Error(cerr))
		}
	}()
	s.setState(StateConnected)

	payload := encode(text, s.sanitizer.maxLen())

	s.setState(StatePrinting)
	n, err := conn.Write(payload)
	if err == nil && n < len(payload) {
		err = io.ErrShortWrite
	}
	if err != nil {
		lg.Warn("Printer transmit failed", zap.Int("written", n), zap.Error(err))
		s.setState(StateError)
		return &TransmitError{Address: address, Written: n, Err: err}
	}

	lg.Debug("Receipt sent", zap.Int("bytes", n))
	return nil
}

// acquire takes the print slot atomically.
func (s *Session) acquire() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.address == "" {
		return "", ErrNoPrinterPaired
	}
	if s.busy {
		return "", ErrPrinterBusy
	}
	s.busy = true
	return s.address, nil
}

// release frees the print slot and returns the session to Paired. It runs
// deferred, so it also runs when the transport panics.
func (s *Session) release(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.busy = false
	s.lastErr = err
	if err == nil {
		s.lastPrinted = s.now()
	}
	s.state = StatePaired
}

func (s *Session) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}
