// Package health serves liveness and readiness probes.
//
// Every registered probe runs in its own goroutine. A probe flips to
// unhealthy after FailureThreshold consecutive failures and back to healthy
// after SuccessThreshold consecutive successes, so one slow tick does not
// take the service out of rotation.
package health

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-faster/jx"
)

// CheckFunc returns nil when the checked component is healthy.
type CheckFunc func(ctx context.Context) error

// Kind selects the endpoint a probe reports to.
type Kind int

const (
	Liveness Kind = iota
	Readiness
)

const (
	defaultTimeout          = time.Second
	defaultFailureThreshold = 3
	defaultSuccessThreshold = 1
)

// Check describes a probe. Zero thresholds and timeout take defaults.
type Check struct {
	Name             string
	Timeout          time.Duration
	FailureThreshold int
	SuccessThreshold int
	Func             CheckFunc
}

// probe is the runtime state of a Check. The counters are owned by the
// probe's goroutine; healthy and lastErr are read by HTTP handlers.
type probe struct {
	Check

	healthy atomic.Bool
	lastErr atomic.Pointer[error]

	fails int
	oks   int
}

func newProbe(c Check) *probe {
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.FailureThreshold <= 0 {
		c.FailureThreshold = defaultFailureThreshold
	}
	if c.SuccessThreshold <= 0 {
		c.SuccessThreshold = defaultSuccessThreshold
	}
	p := &probe{Check: c}
	p.healthy.Store(true)
	return p
}

// run executes the check once. Must be called from a single goroutine.
func (p *probe) run(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	err := p.Func(ctx)
	p.lastErr.Store(&err)

	if err != nil {
		p.oks = 0
		p.fails++
		if p.fails >= p.FailureThreshold {
			p.healthy.Store(false)
		}
		return
	}
	p.fails = 0
	p.oks++
	if p.oks >= p.SuccessThreshold {
		p.healthy.Store(true)
	}
}

// failure returns the message to report, or "" when healthy.
func (p *probe) failure() string {
	if p.healthy.Load() {
		return ""
	}
	if e := p.lastErr.Load(); e != nil && *e != nil {
		return (*e).Error()
	}
	return "check is unhealthy"
}

func (p *probe) loop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	p.run(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.run(ctx)
		}
	}
}

// Health tracks probes and the manual ready flag.
type Health struct {
	ready atomic.Bool

	mu     sync.RWMutex
	probes [2][]*probe
	cancel context.CancelFunc
}

// New creates a Health that is not ready until SetReady(true).
func New() *Health {
	return &Health{}
}

// Register adds a probe. Probes start healthy.
func (h *Health) Register(kind Kind, c Check) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.probes[kind] = append(h.probes[kind], newProbe(c))
}

// Start runs every registered probe at interval until ctx is done or Stop is
// called.
func (h *Health) Start(ctx context.Context, interval time.Duration) {
	ctx, cancel := context.WithCancel(ctx)

	h.mu.Lock()
	h.cancel = cancel
	var all []*probe
	for _, ps := range h.probes {
		all = append(all, ps...)
	}
	h.mu.Unlock()

	for _, p := range all {
		go p.loop(ctx, interval)
	}
}

// Stop cancels the probe goroutines. Safe to call more than once.
func (h *Health) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cancel != nil {
		h.cancel()
		h.cancel = nil
	}
}

// SetReady sets the manual readiness flag; false drains traffic during
// shutdown.
func (h *Health) SetReady(ready bool) {
	h.ready.Store(ready)
}

// Report is the outcome of a probe endpoint.
type Report struct {
	Status   string
	Failures map[string]string
}

// Healthy reports whether there are no failures.
func (r Report) Healthy() bool { return len(r.Failures) == 0 }

// Report collects the current failures for kind. For Readiness an unset
// ready flag is reported as the "_readiness" failure.
func (h *Health) Report(kind Kind) Report {
	h.mu.RLock()
	probes := append([]*probe(nil), h.probes[kind]...)
	h.mu.RUnlock()

	failures := make(map[string]string)
	for _, p := range probes {
		if msg := p.failure(); msg != "" {
			failures[p.Name] = msg
		}
	}
	if kind == Readiness && !h.ready.Load() {
		failures["_readiness"] = "service is not ready"
	}

	r := Report{Status: "ok", Failures: failures}
	if !r.Healthy() {
		r.Status = "unhealthy"
	}
	return r
}

// LiveEndpoint serves /livez.
func (h *Health) LiveEndpoint(w http.ResponseWriter, _ *http.Request) {
	writeReport(w, h.Report(Liveness))
}

// ReadyEndpoint serves /readyz.
func (h *Health) ReadyEndpoint(w http.ResponseWriter, _ *http.Request) {
	writeReport(w, h.Report(Readiness))
}

// Encode writes r as {"status":...,"checks":{...}}; checks are omitted when
// healthy and sorted by name otherwise.
func (r Report) Encode(e *jx.Encoder) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("status", func(e *jx.Encoder) { e.Str(r.Status) })
		if r.Healthy() {
			return
		}
		names := make([]string, 0, len(r.Failures))
		for name := range r.Failures {
			names = append(names, name)
		}
		sort.Strings(names)
		e.Field("checks", func(e *jx.Encoder) {
			e.Obj(func(e *jx.Encoder) {
				for _, name := range names {
					e.Field(name, func(e *jx.Encoder) { e.Str(r.Failures[name]) })
				}
			})
		})
	})
}

func writeReport(w http.ResponseWriter, r Report) {
	status := http.StatusOK
	if !r.Healthy() {
		status = http.StatusServiceUnavailable
	}

	var e jx.Encoder
	r.Encode(&e)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// The status is already written; a failed write means the client is gone.
	_, _ = w.Write(e.Bytes())
}
