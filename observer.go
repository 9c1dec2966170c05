package windowing

import "sync"

// Measurement is one size report for a rendered item.
type Measurement struct {
	Index int
	Size  float64
}

// SizeObserver watches rendered items and reports their sizes. Observe and
// Unobserve must be idempotent. Implementations must not report from inside
// Observe or Unobserve.
type SizeObserver interface {
	Observe(index int)
	Unobserve(index int)
	Disconnect()
}

// ObserverFactory builds a SizeObserver that delivers each burst of
// near-simultaneous size changes as one call to report.
type ObserverFactory func(report func([]Measurement)) SizeObserver

// ManualObserver is a SizeObserver driven by the host: whoever measures the
// rendered items calls Report. Reports for indices that are not observed
// are dropped.
type ManualObserver struct {
	mu       sync.Mutex
	observed map[int]struct{}
	report   func([]Measurement)
	closed   bool
}

// NewManualObserver returns an observer delivering to report.
func NewManualObserver(report func([]Measurement)) *ManualObserver {
	return &ManualObserver{observed: make(map[int]struct{}), report: report}
}

// ManualObservers returns a factory that hands every observer it builds to
// created, so the host can keep a handle for reporting.
func ManualObservers(created func(*ManualObserver)) ObserverFactory {
	return func(report func([]Measurement)) SizeObserver {
		o := NewManualObserver(report)
		if created != nil {
			created(o)
		}
		return o
	}
}

func (o *ManualObserver) Observe(index int) {
	o.mu.Lock()
	if !o.closed {
		o.observed[index] = struct{}{}
	}
	o.mu.Unlock()
}

func (o *ManualObserver) Unobserve(index int) {
	o.mu.Lock()
	delete(o.observed, index)
	o.mu.Unlock()
}

// Disconnect stops all reporting. Later Observe calls are ignored.
func (o *ManualObserver) Disconnect() {
	o.mu.Lock()
	o.closed = true
	clear(o.observed)
	o.mu.Unlock()
}

// Observing reports whether index is observed.
func (o *ManualObserver) Observing(index int) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	_, ok := o.observed[index]
	return ok
}

// Report delivers one burst of measurements.
func (o *ManualObserver) Report(batch ...Measurement) {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	out := make([]Measurement, 0, len(batch))
	for _, m := range batch {
		if _, ok := o.observed[m.Index]; ok {
			out = append(out, m)
		}
	}
	o.mu.Unlock()
	if len(out) > 0 && o.report != nil {
		o.report(out)
	}
}

// Size is a container's extent on both axes.
type Size struct {
	Width  float64
	Height float64
}

// Along returns the extent on axis.
func (s Size) Along(axis Axis) float64 {
	if axis == Horizontal {
		return s.Width
	}
	return s.Height
}

// Axis is the primary scroll direction of a session.
type Axis uint8

const (
	Vertical Axis = iota
	Horizontal
)

func (a Axis) String() string {
	if a == Horizontal {
		return "horizontal"
	}
	return "vertical"
}

// ContainerObserver reports the size of the scrollable viewport.
type ContainerObserver interface {
	ContainerSize() Size
	// Subscribe registers fn for size changes and returns a function that
	// removes it. Calling the returned function more than once is safe.
	Subscribe(fn func(Size)) (unsubscribe func())
}

// StaticContainer is a ContainerObserver with a fixed size, for hosts that
// have no live observer such as offline rendering.
type StaticContainer Size

func (s StaticContainer) ContainerSize() Size { return Size(s) }

func (StaticContainer) Subscribe(func(Size)) func() { return func() {} }
