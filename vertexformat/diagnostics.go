// diagnostics.go defines the diagnostic side channel of the derivation engine.
// The deriver never aborts because of a diagnostic; it only writes to an injected
// DiagnosticSink and folds error-severity reports into the aggregate success flag
// returned by each Derive call. Collector is the default slice-backed sink, and
// ZapSink adapts a zap.Logger for callers that want structured log output instead.
package vertexformat

import (
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Severity classifies a diagnostic emitted during derivation.
type Severity int

const (
	// SeverityWarning marks a recoverable problem. The affected field is still
	// derived normally and the call's success flag is unaffected.
	SeverityWarning Severity = iota

	// SeverityError marks a problem that poisons the affected field (or, for
	// non-record input, the whole call) and sets the call's success flag to false.
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// Location identifies the record, field, and (when known) source line a
// diagnostic originated from. Line is 1-based and zero when the input did not
// come from parsed source, e.g. the reflection entry points.
type Location struct {
	Record string
	Field  string
	Line   int
}

func (l Location) String() string {
	var sb strings.Builder
	sb.WriteString(l.Record)
	if l.Field != "" {
		sb.WriteByte('.')
		sb.WriteString(l.Field)
	}
	if l.Line > 0 {
		fmt.Fprintf(&sb, ":%d", l.Line)
	}
	return sb.String()
}

// DiagnosticSink receives diagnostics emitted while deriving a vertex format.
// The sink is caller-owned and write-only from the derivation's perspective:
// the deriver never reads from or blocks on it. Implementations must be safe
// for concurrent use if the same sink is shared across concurrent derivations
// (the FormatRegistry's bulk derive does exactly that).
type DiagnosticSink interface {
	// Report records one diagnostic.
	//
	// Parameters:
	//   - sev: the diagnostic severity (warning or error)
	//   - loc: the originating record/field location
	//   - msg: the human-readable message
	Report(sev Severity, loc Location, msg string)
}

// Diagnostic is one recorded diagnostic as captured by a Collector.
type Diagnostic struct {
	Severity Severity
	Location Location
	Message  string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s", d.Location, d.Severity, d.Message)
}

// Collector is a slice-backed DiagnosticSink that records every report in
// order. It is safe for concurrent use.
type Collector struct {
	mu    sync.Mutex
	diags []Diagnostic
}

// Report implements DiagnosticSink.
func (c *Collector) Report(sev Severity, loc Location, msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.diags = append(c.diags, Diagnostic{Severity: sev, Location: loc, Message: msg})
}

// Diagnostics returns a copy of every diagnostic recorded so far.
//
// Returns:
//   - []Diagnostic: the recorded diagnostics in report order
func (c *Collector) Diagnostics() []Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Diagnostic, len(c.diags))
	copy(out, c.diags)
	return out
}

// Errors returns the number of error-severity diagnostics recorded so far.
func (c *Collector) Errors() int {
	return c.count(SeverityError)
}

// Warnings returns the number of warning-severity diagnostics recorded so far.
func (c *Collector) Warnings() int {
	return c.count(SeverityWarning)
}

func (c *Collector) count(sev Severity) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, d := range c.diags {
		if d.Severity == sev {
			n++
		}
	}
	return n
}

// Reset discards all recorded diagnostics.
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.diags = c.diags[:0]
}

// discardSink is the default sink when none is configured. It drops every report.
type discardSink struct{}

func (discardSink) Report(Severity, Location, string) {}

// ZapSink adapts a zap.Logger as a DiagnosticSink. Warnings log at Warn level
// and errors at Error level, with the location broken out into structured fields.
type ZapSink struct {
	logger *zap.Logger
}

// NewZapSink creates a ZapSink wrapping the given logger. A nil logger falls
// back to a no-op logger.
//
// Parameters:
//   - logger: the zap logger to write diagnostics to (may be nil)
//
// Returns:
//   - *ZapSink: the adapter sink
func NewZapSink(logger *zap.Logger) *ZapSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapSink{logger: logger}
}

// Report implements DiagnosticSink.
func (z *ZapSink) Report(sev Severity, loc Location, msg string) {
	fields := []zap.Field{
		zap.String("record", loc.Record),
		zap.String("field", loc.Field),
	}
	if loc.Line > 0 {
		fields = append(fields, zap.Int("line", loc.Line))
	}
	switch sev {
	case SeverityError:
		z.logger.Error(msg, fields...)
	default:
		z.logger.Warn(msg, fields...)
	}
}

// derivation tracks the per-call state of one Derive invocation: the injected
// sink plus whether any error-severity diagnostic has been emitted. A fresh
// derivation is created per call so concurrent derivations share nothing but
// the sink itself.
type derivation struct {
	sink   DiagnosticSink
	failed bool
}

func (dv *derivation) report(sev Severity, loc Location, msg string) {
	if sev == SeverityError {
		dv.failed = true
	}
	dv.sink.Report(sev, loc, msg)
}
