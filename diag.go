package windowing

import (
	"context"
	"log/slog"
	"sync"
)

// Conditions reported through Diagnostics. Each is logged at most once per
// session.
const (
	CondZeroMeasurement    = "zero_measurement"
	CondInvalidMeasurement = "invalid_measurement"
	CondStaleMeasurement   = "stale_measurement"
	CondScrollClamped      = "scroll_clamped"
	CondNoScroller         = "no_scroller"
	CondHiddenContainer    = "hidden_container"
	CondOversizedItem      = "oversized_item"
	CondObserverMissing    = "observer_missing"
	CondMeasureNotDynamic  = "measure_not_dynamic"
	CondRebuildFailed      = "rebuild_failed"
)

// Diagnostics is an optional log sink for conditions that are worth knowing
// about but are not errors. A nil *Diagnostics, or one without a logger,
// drops everything.
type Diagnostics struct {
	log *slog.Logger

	mu   sync.Mutex
	seen map[string]struct{}
}

// NewDiagnostics wraps l. l may be nil.
func NewDiagnostics(l *slog.Logger) *Diagnostics {
	return &Diagnostics{log: l, seen: make(map[string]struct{})}
}

// Once logs msg at warn level the first time condition is seen.
func (d *Diagnostics) Once(condition, msg string, args ...any) {
	if d == nil || d.log == nil {
		return
	}
	d.mu.Lock()
	_, dup := d.seen[condition]
	if !dup {
		d.seen[condition] = struct{}{}
	}
	d.mu.Unlock()
	if dup {
		return
	}
	d.log.Warn(msg, append([]any{slog.String("condition", condition)}, args...)...)
}

// Seen reports whether condition has been logged.
func (d *Diagnostics) Seen(condition string) bool {
	if d == nil {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.seen[condition]
	return ok
}

// Debug logs every call at debug level.
func (d *Diagnostics) Debug(msg string, args ...any) {
	if d == nil || d.log == nil || !d.log.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	d.log.Debug(msg, args...)
}
