package windowing

import (
	"log/slog"
	"sync"
	"time"
)

// Behavior is how a requested scroll should be animated by the host.
type Behavior uint8

const (
	BehaviorAuto Behavior = iota
	BehaviorInstant
	BehaviorSmooth
)

func (b Behavior) String() string {
	switch b {
	case BehaviorInstant:
		return "instant"
	case BehaviorSmooth:
		return "smooth"
	default:
		return "auto"
	}
}

// Scroller moves the host's scroll position.
type Scroller interface {
	ScrollTo(offset float64, behavior Behavior)
}

// ScrollerFunc adapts a function to Scroller.
type ScrollerFunc func(offset float64, behavior Behavior)

func (f ScrollerFunc) ScrollTo(offset float64, behavior Behavior) { f(offset, behavior) }

// DefaultEstimatedSize is the item size assumed by measured sessions that
// are not given one.
const DefaultEstimatedSize = 25

// Config configures a Controller. The zero value of every optional field is
// usable.
type Config struct {
	ItemCount int
	// Size is how item sizes are known. The zero value is Fixed(0), so
	// callers almost always set it.
	Size     SizeSpec
	Overscan int
	Axis     Axis

	// Container reports the viewport size. When nil, DefaultContainer is
	// used until SetContainerSize is called.
	Container        ContainerObserver
	DefaultContainer Size

	// Key identifies the dataset of a measured session.
	Key string
	// Observer builds the element size observer of a measured session.
	Observer ObserverFactory
	Scroller Scroller
	Strategy Strategy

	IdleDelay         time.Duration
	PlacementCapacity int
	Logger            *slog.Logger

	// OnIdle runs after scrolling has paused for IdleDelay.
	OnIdle func()
	// OnLayout runs after an asynchronous event (an observer report or a
	// container resize) changed the layout. It runs without the
	// controller's lock held.
	OnLayout func(Update)
}

// Update describes the effect of a burst of measurements or of a resize.
type Update struct {
	Changes []SizeChange
	// ScrollAdjust is how far the scroll offset moved to keep the visible
	// items in place.
	ScrollAdjust float64
	ScrollOffset float64
	Range        Range
	Rerender     bool
}

// Snapshot is a consistent copy of a session's state.
type Snapshot struct {
	ItemCount     int
	ContainerSize float64
	ScrollOffset  float64
	Overscan      int
	TotalSize     float64
	Range         Range
	Scrolling     bool
}

// Controller is one virtualization session along one axis. It owns its
// caches; a Controller and its caches are never shared between sessions.
// Methods are safe to call from multiple goroutines, which matters because
// observer reports and the idle timer arrive on their own goroutines.
type Controller struct {
	mu sync.Mutex

	cfg       Config
	count     int
	spec      SizeSpec
	overscan  int
	container float64
	scroll    float64

	bounds     *BoundsCache
	dyn        *DynamicCache
	rng        Range
	stab       stabilizer
	placements *placementCache
	idle       *debouncer
	scrolling  bool

	unsubscribe func()
	diag        *Diagnostics
	closed      bool
}

// NewController validates cfg and starts a session. Configuration errors,
// including a percentage size without a known container, are returned here
// before any range is computed.
func NewController(cfg Config) (*Controller, error) {
	if cfg.ItemCount < 0 {
		return nil, configError("item count %d is negative", cfg.ItemCount)
	}
	if cfg.Overscan < 0 {
		return nil, configError("overscan %d is negative", cfg.Overscan)
	}
	if err := cfg.Size.Validate(); err != nil {
		return nil, err
	}
	placements, err := newPlacementCache(cfg.PlacementCapacity)
	if err != nil {
		return nil, configError("placement cache: %v", err)
	}

	c := &Controller{
		cfg:        cfg,
		count:      cfg.ItemCount,
		spec:       cfg.Size,
		overscan:   cfg.Overscan,
		placements: placements,
		idle:       newDebouncer(cfg.IdleDelay),
		diag:       NewDiagnostics(cfg.Logger),
	}
	size := cfg.DefaultContainer
	if cfg.Container != nil {
		size = cfg.Container.ContainerSize()
	}
	c.container = max(size.Along(cfg.Axis), 0)

	if err := c.rebuild(); err != nil {
		return nil, err
	}
	c.resolve()

	if cfg.Container != nil {
		c.unsubscribe = cfg.Container.Subscribe(c.containerResized)
	}
	return c, nil
}

// rebuild starts a fresh layout from the current inputs. It either
// succeeds or leaves the session as it was.
func (c *Controller) rebuild() error {
	dyn := c.dyn
	var fn SizeFunc
	if c.spec.IsMeasured() {
		if dyn == nil || dyn.DefaultSize() != c.spec.DefaultSize() {
			d, err := NewDynamicCache(c.count, c.spec.DefaultSize(), DynamicOptions{
				Key:         c.cfg.Key,
				Observer:    c.cfg.Observer,
				Diagnostics: c.diag,
			})
			if err != nil {
				return err
			}
			d.route = c.report
			dyn = d
		}
		dyn.SetItemCount(c.count)
		fn = dyn.Size
	} else {
		var err error
		if fn, err = c.spec.Resolve(c.container); err != nil {
			return err
		}
		dyn = nil
	}

	if c.dyn != nil && c.dyn != dyn {
		c.dyn.Close()
	}
	c.dyn = dyn
	c.idle.Cancel()
	c.scrolling = false
	c.placements.purge()
	c.bounds = NewBoundsCache(c.count, fn)
	return nil
}

// mustRebuild rebuilds after a change that cannot invalidate the spec and
// reports the failure if it does anyway.
func (c *Controller) mustRebuild(reason string) {
	if err := c.rebuild(); err != nil {
		c.diag.Once(CondRebuildFailed, "layout rebuild failed; keeping the previous layout",
			"reason", reason, "error", err)
	}
}

// resolve clamps the scroll offset and recomputes the range.
func (c *Controller) resolve() {
	c.scroll = ClampScroll(c.bounds, c.scroll, c.container)
	c.rng = c.cfg.Strategy.Resolve(c.bounds, c.scroll, c.container, c.overscan)
}

// Range returns the indices to render. The first call with a non-empty
// container marks the session as rendered, which enables scroll
// stabilization.
func (c *Controller) Range() Range {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.container > 0 {
		c.stab.mounted = true
	}
	return c.rng
}

// TotalSize returns the estimated extent of all items, for sizing a scroll
// track.
func (c *Controller) TotalSize() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bounds.TotalSize()
}

// ScrollOffset returns the current scroll offset.
func (c *Controller) ScrollOffset() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scroll
}

// ContainerSize returns the viewport extent along the session's axis.
func (c *Controller) ContainerSize() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.container
}

// ItemCount returns the number of items.
func (c *Controller) ItemCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

// IsScrolling reports whether a scroll happened within the idle delay.
func (c *Controller) IsScrolling() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scrolling
}

// Snapshot returns the session state in one consistent read.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		ItemCount:     c.count,
		ContainerSize: c.container,
		ScrollOffset:  c.scroll,
		Overscan:      c.overscan,
		TotalSize:     c.bounds.TotalSize(),
		Range:         c.rng,
		Scrolling:     c.scrolling,
	}
}

// Dynamic returns the measurement cache of a measured session, or nil.
func (c *Controller) Dynamic() *DynamicCache {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dyn
}

// ItemPlacement returns where to draw index. Placements are memoized while
// scrolling and dropped once scrolling goes idle.
func (c *Controller) ItemPlacement(index int) (Placement, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := checkIndex(index, c.count); err != nil {
		return Placement{}, err
	}
	if p, ok := c.placements.lookup(index); ok {
		return p, nil
	}
	b := c.bounds.Bounds(index)
	if b.Size > c.container && c.container > 0 {
		c.diag.Once(CondOversizedItem, "item is larger than the viewport",
			"index", index, "size", b.Size, "container", c.container)
	}
	p := Placement{Index: index, Offset: b.Offset, Size: b.Size}
	c.placements.add(p)
	return p, nil
}

// SetScrollOffset records a scroll event from the host and returns the new
// range. The offset is clamped to the scrollable extent.
func (c *Controller) SetScrollOffset(offset float64) Range {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scrollToLocked(offset)
	return c.rng
}

// ScrollBy moves the scroll offset by delta.
func (c *Controller) ScrollBy(delta float64) Range {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scrollToLocked(c.scroll + delta)
	return c.rng
}

func (c *Controller) scrollToLocked(offset float64) {
	clamped := ClampScroll(c.bounds, offset, c.container)
	if clamped != offset {
		c.diag.Once(CondScrollClamped, "scroll offset clamped to the scrollable extent",
			"requested", offset, "clamped", clamped)
	}
	c.scroll = clamped
	c.rng = c.cfg.Strategy.Resolve(c.bounds, c.scroll, c.container, c.overscan)
	c.scrolling = true
	c.idle.Trigger(c.idleFired)
}

func (c *Controller) idleFired(gen uint64) {
	c.mu.Lock()
	if c.closed || !c.idle.current(gen) {
		c.mu.Unlock()
		return
	}
	c.scrolling = false
	c.placements.purge()
	c.idle.done(gen)
	onIdle := c.cfg.OnIdle
	c.mu.Unlock()
	if onIdle != nil {
		onIdle()
	}
}

// ScrollToIndex scrolls so index is placed according to align and returns
// the new offset. An index outside the collection is an *IndexError naming
// the valid range; it is never clamped.
func (c *Controller) ScrollToIndex(index int, align Align, behavior Behavior) (float64, error) {
	return c.scrollToIndex(index, align, behavior, 0)
}

func (c *Controller) scrollToIndex(index int, align Align, behavior Behavior, scrollbar float64) (float64, error) {
	c.mu.Lock()
	target, err := ResolveOffset(c.bounds, OffsetRequest{
		Index:         index,
		Align:         align,
		ScrollOffset:  c.scroll,
		ContainerSize: c.container,
		ScrollbarSize: scrollbar,
	})
	if err != nil {
		c.mu.Unlock()
		return 0, err
	}
	c.scrollToLocked(target)
	target = c.scroll
	scroller := c.cfg.Scroller
	c.mu.Unlock()

	if scroller != nil {
		scroller.ScrollTo(target, behavior)
	} else if behavior == BehaviorSmooth {
		c.diag.Once(CondNoScroller, "smooth scroll requested without a scroller; jumping instead")
	}
	return target, nil
}

// OffsetForIndex computes the offset ScrollToIndex would use without
// scrolling.
func (c *Controller) OffsetForIndex(index int, align Align) (float64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ResolveOffset(c.bounds, OffsetRequest{
		Index:         index,
		Align:         align,
		ScrollOffset:  c.scroll,
		ContainerSize: c.container,
	})
}

// SetItemCount changes the number of items. Pending idle work derived from
// the old layout is cancelled. Measurements of a measured session survive
// unless the key also changes.
func (c *Controller) SetItemCount(n int) error {
	if n < 0 {
		return configError("item count %d is negative", n)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if n == c.count {
		return nil
	}
	prev := c.count
	c.count = n
	if err := c.rebuild(); err != nil {
		c.count = prev
		return err
	}
	c.resolve()
	return nil
}

// SetSize replaces the size specification.
func (c *Controller) SetSize(spec SizeSpec) error {
	if err := spec.Validate(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	prev := c.spec
	c.spec = spec
	if err := c.rebuild(); err != nil {
		c.spec = prev
		return err
	}
	c.resolve()
	return nil
}

// SetOverscan changes the overscan count.
func (c *Controller) SetOverscan(n int) error {
	if n < 0 {
		return configError("overscan %d is negative", n)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.overscan = n
	c.resolve()
	return nil
}

// SetKey switches the dataset identity. A measured session discards every
// measurement and starts again from estimates.
func (c *Controller) SetKey(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if key == c.cfg.Key {
		return
	}
	c.cfg.Key = key
	if c.dyn != nil {
		c.dyn.SetKey(key)
	}
	c.stab.reset()
	c.mustRebuild("key")
	c.scroll = 0
	c.resolve()
}

// SetContainerSize records a new viewport size.
func (c *Controller) SetContainerSize(size Size) Range {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setContainerLocked(size)
	return c.rng
}

func (c *Controller) setContainerLocked(size Size) {
	extent := max(size.Along(c.cfg.Axis), 0)
	if extent == c.container {
		return
	}
	prev := c.container
	c.container = extent
	if c.spec.DependsOnContainer() {
		if extent <= 0 {
			c.diag.Once(CondHiddenContainer, "container has no size; keeping percentage sizes",
				"spec", c.spec.String())
			c.container = prev
			return
		}
		c.mustRebuild("container")
	}
	c.resolve()
}

func (c *Controller) containerResized(size Size) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.setContainerLocked(size)
	u := Update{ScrollOffset: c.scroll, Range: c.rng, Rerender: true}
	onLayout := c.cfg.OnLayout
	c.mu.Unlock()
	if onLayout != nil {
		onLayout(u)
	}
}

// Observe registers rendered indices with the element size observer.
func (c *Controller) Observe(indices ...int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.dyn != nil {
		c.dyn.Observe(indices...)
	}
}

// Unobserve releases indices that are no longer rendered.
func (c *Controller) Unobserve(indices ...int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.dyn != nil {
		c.dyn.Unobserve(indices...)
	}
}

// ApplyMeasurements records one burst of measured sizes. When items before
// the visible window changed, the scroll offset moves by their net delta in
// the same step, so visible content does not jump. A burst whose changes
// cancel out still asks for a re-render but does not scroll.
func (c *Controller) ApplyMeasurements(batch ...Measurement) Update {
	c.mu.Lock()
	u, scroller := c.applyLocked(batch)
	c.mu.Unlock()
	if scroller != nil && u.ScrollAdjust != 0 {
		scroller.ScrollTo(u.ScrollOffset, BehaviorInstant)
	}
	return u
}

// report receives observer bursts.
func (c *Controller) report(batch []Measurement) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	u, scroller := c.applyLocked(batch)
	onLayout := c.cfg.OnLayout
	c.mu.Unlock()
	if scroller != nil && u.ScrollAdjust != 0 {
		scroller.ScrollTo(u.ScrollOffset, BehaviorInstant)
	}
	if onLayout != nil && u.Rerender {
		onLayout(u)
	}
}

func (c *Controller) applyLocked(batch []Measurement) (Update, Scroller) {
	if c.dyn == nil {
		if len(batch) > 0 {
			c.diag.Once(CondMeasureNotDynamic, "measurements ignored: sizes are not measured",
				"spec", c.spec.String())
		}
		return Update{ScrollOffset: c.scroll, Range: c.rng}, nil
	}
	changes := c.dyn.ApplyMeasurements(batch)
	if len(changes) == 0 {
		return Update{ScrollOffset: c.scroll, Range: c.rng}, nil
	}

	first := changes[0].Index
	for _, ch := range changes {
		first = min(first, ch.Index)
		c.stab.record(ch, c.rng.StartVisible)
	}
	c.bounds.ResetAfterIndex(first)
	c.placements.purge()

	before := c.scroll
	if delta := c.stab.settle(); delta != 0 {
		c.scroll += delta
	}
	c.resolve()
	c.diag.Debug("measurements applied", "changes", len(changes), "first", first,
		"adjust", c.scroll-before, "range", c.rng.String())

	u := Update{
		Changes:      changes,
		ScrollAdjust: c.scroll - before,
		ScrollOffset: c.scroll,
		Range:        c.rng,
		Rerender:     true,
	}
	return u, c.cfg.Scroller
}

// Close ends the session: pending idle work is cancelled, the container
// subscription and element observer are released and the caches dropped.
// Close is idempotent.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.idle.Cancel()
	if c.dyn != nil {
		c.dyn.Close()
		c.dyn = nil
	}
	c.placements.purge()
	unsubscribe := c.unsubscribe
	c.unsubscribe = nil
	c.mu.Unlock()
	if unsubscribe != nil {
		unsubscribe()
	}
}
