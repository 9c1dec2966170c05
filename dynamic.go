package windowing

import "math"

// State is the measurement state of one index in a DynamicCache.
type State uint8

const (
	// StateUnmeasured indices have never been read or measured.
	StateUnmeasured State = iota
	// StateEstimated indices were read before being measured and hold the
	// default size.
	StateEstimated
	// StateMeasured indices hold a size reported by an observer or SetSize.
	StateMeasured
)

func (s State) String() string {
	switch s {
	case StateEstimated:
		return "estimated"
	case StateMeasured:
		return "measured"
	default:
		return "unmeasured"
	}
}

// SizeChange describes one index whose size changed.
type SizeChange struct {
	Index int
	Old   float64
	New   float64
}

// Delta returns New - Old.
func (c SizeChange) Delta() float64 { return c.New - c.Old }

// DynamicOptions configures a DynamicCache.
type DynamicOptions struct {
	// Key identifies the dataset. Changing it with SetKey drops every
	// measurement.
	Key string
	// Observer builds the element size observer. Without one, sizes only
	// arrive through SetSize and ApplyMeasurements.
	Observer    ObserverFactory
	Diagnostics *Diagnostics
}

type dynamicStore struct {
	sizes  *BoundsCache
	states []State
}

// DynamicCache learns item sizes from rendered content.
//
// Reading an index that has not been measured seeds it with the default
// size, so its contribution to the average is fixed from the first read
// until a real measurement replaces it. Without that, content changing
// elsewhere could shift the estimate of items already laid out.
//
// A DynamicCache is owned by a single session and is not safe for
// concurrent use; observer reports must be delivered on the same goroutine
// as the other calls, or routed through a Controller which serializes them.
type DynamicCache struct {
	defaultSize float64
	key         string
	count       int
	store       dynamicStore

	newObserver ObserverFactory
	observer    SizeObserver
	observed    map[int]struct{}
	route       func([]Measurement)

	listeners map[int]func([]SizeChange)
	nextID    int
	diag      *Diagnostics
}

// NewDynamicCache returns an empty cache for itemCount items.
func NewDynamicCache(itemCount int, defaultSize float64, opts DynamicOptions) (*DynamicCache, error) {
	if defaultSize <= 0 {
		return nil, configError("default size %v must be positive", defaultSize)
	}
	d := &DynamicCache{
		defaultSize: defaultSize,
		key:         opts.Key,
		count:       max(itemCount, 0),
		newObserver: opts.Observer,
		observed:    make(map[int]struct{}),
		listeners:   make(map[int]func([]SizeChange)),
		diag:        opts.Diagnostics,
	}
	d.store = d.freshStore()
	return d, nil
}

func (d *DynamicCache) freshStore() dynamicStore {
	return dynamicStore{sizes: NewSparseBoundsCache(d.count, d.defaultSize)}
}

// Key returns the dataset key.
func (d *DynamicCache) Key() string { return d.key }

// DefaultSize returns the size used for unmeasured items.
func (d *DynamicCache) DefaultSize() float64 { return d.defaultSize }

// ItemCount returns the number of items covered.
func (d *DynamicCache) ItemCount() int { return d.count }

// SetItemCount changes the item count. Measurements past the new end are
// dropped; the rest are kept because the dataset key did not change.
func (d *DynamicCache) SetItemCount(n int) {
	d.count = max(n, 0)
	d.store.sizes.SetItemCount(d.count)
	if len(d.store.states) > d.count {
		d.store.states = d.store.states[:d.count]
	}
}

// SetKey switches datasets. A different key replaces the whole store in one
// step and stops observing every index; it reports whether anything changed.
func (d *DynamicCache) SetKey(key string) bool {
	if key == d.key {
		return false
	}
	d.key = key
	d.store = d.freshStore()
	d.unobserveAll()
	return true
}

// AverageSize returns the mean of every known size, estimates included, or
// the default size when nothing is known.
func (d *DynamicCache) AverageSize() float64 {
	if avg, ok := d.store.sizes.EstimatedSize(); ok {
		return avg
	}
	return d.defaultSize
}

// Size returns the size of index. An unmeasured index moves to StateEstimated
// and is seeded with the default size.
func (d *DynamicCache) Size(index int) float64 {
	if index < 0 || index >= d.count {
		return d.defaultSize
	}
	switch d.state(index) {
	case StateUnmeasured:
		d.setState(index, StateEstimated)
		_ = d.store.sizes.SetItemSize(index, d.defaultSize)
		return d.defaultSize
	default:
		return d.store.sizes.entries[index].size
	}
}

// Peek returns the size and state of index without seeding it.
func (d *DynamicCache) Peek(index int) (float64, State) {
	st := d.state(index)
	if st == StateUnmeasured {
		return d.AverageSize(), st
	}
	return d.store.sizes.entries[index].size, st
}

func (d *DynamicCache) state(index int) State {
	if index < 0 || index >= len(d.store.states) {
		return StateUnmeasured
	}
	return d.store.states[index]
}

func (d *DynamicCache) setState(index int, s State) {
	if index >= len(d.store.states) {
		d.store.states = append(d.store.states, make([]State, index+1-len(d.store.states))...)
	}
	d.store.states[index] = s
}

// SetSize records a measured size and reports whether the stored size
// changed. An unchanged value is a no-op for layout, so callers can skip
// recomputation.
func (d *DynamicCache) SetSize(index int, size float64) bool {
	_, changed := d.set(index, size)
	return changed
}

func (d *DynamicCache) set(index int, size float64) (old float64, changed bool) {
	if index < 0 || index >= d.count || !finite(size) || size < 0 {
		return 0, false
	}
	st := d.state(index)
	old = d.defaultSize
	if st != StateUnmeasured {
		old = d.store.sizes.entries[index].size
	}
	d.setState(index, StateMeasured)
	if st != StateUnmeasured && old == size {
		return old, false
	}
	_ = d.store.sizes.SetItemSize(index, size)
	return old, st == StateUnmeasured || old != size
}

// ApplyMeasurements records one burst of observer reports and returns the
// indices whose size changed. Zero sizes come from hidden or unloaded
// content and are ignored, as are non-finite sizes and indices past the
// item count.
func (d *DynamicCache) ApplyMeasurements(batch []Measurement) []SizeChange {
	var changes []SizeChange
	for _, m := range batch {
		if !finite(m.Size) {
			d.diag.Once(CondInvalidMeasurement, "ignoring non-finite measurement",
				"index", m.Index, "size", m.Size)
			continue
		}
		if m.Size <= 0 {
			d.diag.Once(CondZeroMeasurement, "ignoring zero size measurement", "index", m.Index)
			continue
		}
		if m.Index < 0 || m.Index >= d.count {
			d.diag.Once(CondStaleMeasurement, "ignoring measurement past item count",
				"index", m.Index, "count", d.count)
			continue
		}
		if old, changed := d.set(m.Index, m.Size); changed {
			changes = append(changes, SizeChange{Index: m.Index, Old: old, New: m.Size})
		}
	}
	return changes
}

// OnChange registers fn for every burst that changed at least one size
// when reports are not routed through a Controller.
func (d *DynamicCache) OnChange(fn func([]SizeChange)) (cancel func()) {
	id := d.nextID
	d.nextID++
	d.listeners[id] = fn
	return func() { delete(d.listeners, id) }
}

func (d *DynamicCache) report(batch []Measurement) {
	if d.route != nil {
		d.route(batch)
		return
	}
	changes := d.ApplyMeasurements(batch)
	if len(changes) == 0 {
		return
	}
	for _, fn := range d.listeners {
		fn(changes)
	}
}

// Observe starts observing indices. Observing an index twice is a no-op.
func (d *DynamicCache) Observe(indices ...int) {
	if d.newObserver == nil {
		if len(indices) > 0 {
			d.diag.Once(CondObserverMissing, "observe called without an element size observer")
		}
		return
	}
	if d.observer == nil {
		d.observer = d.newObserver(d.report)
	}
	for _, i := range indices {
		if _, ok := d.observed[i]; ok {
			continue
		}
		d.observed[i] = struct{}{}
		d.observer.Observe(i)
	}
}

// Unobserve stops observing indices. Unobserving an index that is not
// observed is a no-op.
func (d *DynamicCache) Unobserve(indices ...int) {
	for _, i := range indices {
		if _, ok := d.observed[i]; !ok {
			continue
		}
		delete(d.observed, i)
		if d.observer != nil {
			d.observer.Unobserve(i)
		}
	}
}

// Observing reports whether index is observed.
func (d *DynamicCache) Observing(index int) bool {
	_, ok := d.observed[index]
	return ok
}

func (d *DynamicCache) unobserveAll() {
	for i := range d.observed {
		if d.observer != nil {
			d.observer.Unobserve(i)
		}
	}
	clear(d.observed)
}

// ItemBounds returns the bounds of a known index, walking back over its
// predecessors with the average standing in for unknown ones. ok is false
// for an unmeasured index.
func (d *DynamicCache) ItemBounds(index int) (Bounds, bool, error) {
	return d.store.sizes.ItemBounds(index)
}

// TotalSize returns the known sizes plus the average for the rest.
func (d *DynamicCache) TotalSize() float64 {
	if d.count == 0 {
		return 0
	}
	s := d.store.sizes
	return s.total + float64(d.count-s.filled)*d.AverageSize()
}

// Close disconnects the observer. The cache must not be used afterwards.
func (d *DynamicCache) Close() {
	if d.observer != nil {
		d.observer.Disconnect()
		d.observer = nil
	}
	clear(d.observed)
	clear(d.listeners)
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
