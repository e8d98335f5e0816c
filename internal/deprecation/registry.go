package deprecation

import (
	"runtime"
	"runtime/debug"
	"strings"
	"sync"

	"github.com/banshee-data/cameravision/internal/config"
	"github.com/banshee-data/cameravision/internal/monitoring"
	"github.com/banshee-data/cameravision/internal/timeutil"
)

// maxDepth bounds the frames inspected when attributing a notice.
const maxDepth = 32

// Sink receives every emitted record.
type Sink func(Record)

// LogSink writes records through monitoring.Warnf.
func LogSink(rec Record) {
	monitoring.Warnf("%s", rec)
}

// Registry emits notices and remembers what it emitted. It is safe for
// concurrent use.
type Registry struct {
	mu      sync.Mutex
	policy  Policy
	sink    Sink
	clock   timeutil.Clock
	seen    map[string]struct{}
	records []Record
}

// Option configures a Registry.
type Option func(*Registry)

// WithPolicy sets the de-duplication policy.
func WithPolicy(p Policy) Option {
	return func(r *Registry) { r.policy = p }
}

// WithSink sets the sink. A nil sink only records.
func WithSink(s Sink) Option {
	return func(r *Registry) { r.sink = s }
}

// WithClock sets the clock used to timestamp records.
func WithClock(c timeutil.Clock) Option {
	return func(r *Registry) { r.clock = c }
}

// NewRegistry returns a registry using PolicyOnce and LogSink unless
// overridden.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		policy: PolicyOnce,
		sink:   LogSink,
		clock:  timeutil.RealClock{},
		seen:   make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Warn emits n, attributed to the frame selected by n.StackLevel counting
// from the caller of Warn. It reports whether the notice was emitted or
// suppressed by the policy.
func (r *Registry) Warn(n Notice) (Record, bool) {
	return r.warn(n, 1)
}

// SetPolicy replaces the policy. Already seen keys stay seen.
func (r *Registry) SetPolicy(p Policy) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.policy = p
}

// Policy returns the current policy.
func (r *Registry) Policy() Policy {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.policy
}

// SetSink replaces the sink. A nil sink only records.
func (r *Registry) SetSink(s Sink) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sink = s
}

// Records returns a copy of the emitted records in emission order.
func (r *Registry) Records() []Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Record, len(r.records))
	copy(out, r.records)
	return out
}

// Reset forgets emitted records and de-duplication state.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = nil
	r.seen = make(map[string]struct{})
}

// warn does the work for Warn. depth counts the exported frames between the
// caller and warn.
func (r *Registry) warn(n Notice, depth int) (Record, bool) {
	level := n.StackLevel
	if level < 1 {
		level = 1
	}
	if n.Category == "" {
		n.Category = CategoryDeprecation
	}
	loc := locate(1 + depth + level)

	r.mu.Lock()
	if r.policy == PolicyIgnore {
		r.mu.Unlock()
		return Record{}, false
	}
	key := dedupKey(r.policy, n, loc)
	if r.policy != PolicyAlways {
		if _, ok := r.seen[key]; ok {
			r.mu.Unlock()
			return Record{}, false
		}
		r.seen[key] = struct{}{}
	}
	rec := Record{Notice: n, Location: loc, Key: key, Time: r.clock.Now()}
	r.records = append(r.records, rec)
	sink := r.sink
	r.mu.Unlock()

	deliver(sink, rec)
	return rec, true
}

// deliver calls sink outside the registry lock. A panicking sink is logged
// and swallowed.
func deliver(sink Sink, rec Record) {
	if sink == nil {
		return
	}
	defer func() {
		if p := recover(); p != nil {
			monitoring.Logf("deprecation sink panicked: %v", p)
		}
	}()
	sink(rec)
}

func dedupKey(p Policy, n Notice, loc Location) string {
	key := string(n.Category) + "\x00" + n.Message
	if p == PolicyPerLocation {
		key += "\x00" + loc.String()
	}
	return key
}

// locate returns the frame target positions above locate itself. Frames in
// the runtime mean the notice was raised while initialising packages, so the
// main package is reported as the importer.
func locate(target int) Location {
	pcs := make([]uintptr, maxDepth)
	n := runtime.Callers(1, pcs)
	frames := runtime.CallersFrames(pcs[:n])

	idx := 0
	for {
		frame, more := frames.Next()
		if idx == target {
			if strings.HasPrefix(frame.Function, "runtime.") {
				return Location{Function: frame.Function, Importer: mainPackage()}
			}
			return Location{File: frame.File, Line: frame.Line, Function: frame.Function}
		}
		idx++
		if !more {
			break
		}
	}
	return Location{Importer: mainPackage()}
}

func mainPackage() string {
	info, ok := debug.ReadBuildInfo()
	if !ok || info == nil {
		return ""
	}
	if info.Path != "" {
		return info.Path
	}
	return info.Main.Path
}

var defaultRegistry = sync.OnceValue(func() *Registry {
	cfg, err := config.LoadWarningsConfig()
	if err != nil {
		monitoring.Logf("deprecation: %v, using defaults", err)
	}
	policy, err := ParsePolicy(cfg.Policy)
	if err != nil {
		monitoring.Logf("deprecation: %v, using %s", err, policy)
	}
	opts := []Option{WithPolicy(policy)}
	if cfg.Quiet {
		opts = append(opts, WithSink(nil))
	}
	return NewRegistry(opts...)
})

// Default returns the process-wide registry, configured from the
// environment on first use.
func Default() *Registry {
	return defaultRegistry()
}

// Warn emits n through the default registry. StackLevel counts from the
// caller of Warn.
func Warn(n Notice) (Record, bool) {
	return Default().warn(n, 1)
}
