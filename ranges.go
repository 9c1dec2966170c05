package windowing

import (
	"fmt"
	"math"
)

// Measurer is the view of item geometry the resolvers work from.
// BoundsCache implements it.
type Measurer interface {
	ItemCount() int
	// ItemSize returns the measured or estimated size of a valid index.
	ItemSize(index int) float64
	// Bounds returns the measured or estimated bounds of a valid index.
	Bounds(index int) Bounds
	TotalSize() float64
}

// Range is the window of indices to render. Stop indices are inclusive;
// an empty collection yields {0, -1, 0, -1}.
type Range struct {
	StartVisible  int
	StopVisible   int
	StartOverscan int
	StopOverscan  int
}

var emptyRange = Range{StartVisible: 0, StopVisible: -1, StartOverscan: 0, StopOverscan: -1}

// Empty reports whether the range holds no items.
func (r Range) Empty() bool { return r.StopOverscan < r.StartOverscan }

// Len returns the number of items to render, overscan included.
func (r Range) Len() int { return max(0, r.StopOverscan-r.StartOverscan+1) }

// Visible reports whether index lies in the visible part of the range.
func (r Range) Visible(index int) bool {
	return index >= r.StartVisible && index <= r.StopVisible
}

func (r Range) String() string {
	return fmt.Sprintf("visible [%d,%d] overscan [%d,%d]",
		r.StartVisible, r.StopVisible, r.StartOverscan, r.StopOverscan)
}

// Strategy selects how the range resolver locates indices.
type Strategy uint8

const (
	// Logarithmic uses exponential then binary search over offsets.
	Logarithmic Strategy = iota
	// Linear scans forward from index 0.
	Linear
)

func (s Strategy) String() string {
	if s == Linear {
		return "linear"
	}
	return "logarithmic"
}

// ParseStrategy maps "logarithmic" or "linear" to its Strategy. The empty
// string selects the default.
func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case "", "logarithmic":
		return Logarithmic, nil
	case "linear":
		return Linear, nil
	}
	return Logarithmic, configError("unknown strategy %q", s)
}

// ClampScroll bounds a scroll offset to [0, total-container]. The total is
// only consulted when no item reaches past the end of the viewport, and by
// then a lazily filled cache has been filled through its last item, so the
// limit is the exact extent rather than an estimate.
func ClampScroll(m Measurer, scrollOffset, containerSize float64) float64 {
	scroll := max(scrollOffset, 0)
	n := m.ItemCount()
	if n == 0 || math.IsNaN(scroll) {
		return 0
	}
	reaches := func(b Bounds) bool { return b.End() >= scroll+containerSize }
	i := searchEnd(m, 0, reaches)
	if b := m.Bounds(i); reaches(b) {
		return scroll
	}
	return min(scroll, max(0, m.Bounds(n-1).End()-containerSize))
}

// startsAt reports whether an item is the first one at or past scroll: its
// trailing edge is past scroll, or it begins there. The second clause keeps
// zero-size items at the top edge in the range.
func startsAt(scroll float64) func(Bounds) bool {
	return func(b Bounds) bool { return b.End() > scroll || b.Offset >= scroll }
}

// Resolve dispatches to the resolver for s.
func (s Strategy) Resolve(m Measurer, scrollOffset, containerSize float64, overscan int) Range {
	if s == Linear {
		return ResolveRangeLinear(m, scrollOffset, containerSize, overscan)
	}
	return ResolveRange(m, scrollOffset, containerSize, overscan)
}

// ResolveRangeLinear accumulates sizes forward from index 0 until it reaches
// the scroll offset (start) and then the end of the viewport (stop).
func ResolveRangeLinear(m Measurer, scrollOffset, containerSize float64, overscan int) Range {
	n := m.ItemCount()
	if n == 0 {
		return emptyRange
	}
	scroll := ClampScroll(m, scrollOffset, containerSize)
	last := n - 1
	starts := startsAt(scroll)

	i, off := 0, 0.0
	size := m.ItemSize(0)
	for i < last && !starts(Bounds{Offset: off, Size: size}) {
		off += size
		i++
		size = m.ItemSize(i)
	}
	start := i
	for i < last && off+size < scroll+containerSize {
		off += size
		i++
		size = m.ItemSize(i)
	}
	return expandRange(start, i, overscan, n)
}

// ResolveRange finds the same indices as ResolveRangeLinear in O(log n)
// lookups: an exponential search from the measured frontier brackets the
// crossing point and a binary search pins it down.
func ResolveRange(m Measurer, scrollOffset, containerSize float64, overscan int) Range {
	n := m.ItemCount()
	if n == 0 {
		return emptyRange
	}
	scroll := ClampScroll(m, scrollOffset, containerSize)
	start := searchEnd(m, 0, startsAt(scroll))
	stop := searchEnd(m, start, func(b Bounds) bool { return b.End() >= scroll+containerSize })
	return expandRange(start, stop, overscan, n)
}

func expandRange(start, stop, overscan, n int) Range {
	overscan = max(overscan, 0)
	return Range{
		StartVisible:  start,
		StopVisible:   min(stop, n-1),
		StartOverscan: max(0, start-overscan),
		StopOverscan:  min(n-1, stop+overscan),
	}
}

// searchEnd returns the smallest index in [from, n-1] whose bounds satisfy
// pred, or n-1 when none does. pred must be monotonic in the index.
func searchEnd(m Measurer, from int, pred func(Bounds) bool) int {
	last := m.ItemCount() - 1
	if from >= last {
		return last
	}
	lo := from
	if f, ok := m.(interface{ frontier() int }); ok {
		if k := min(f.frontier(), last); k > from {
			if pred(m.Bounds(k)) {
				return lowerBound(m, from, k, pred)
			}
			if k == last {
				return last
			}
			lo = k + 1
		}
	}
	hi, step := lo, 1
	for hi < last && !pred(m.Bounds(hi)) {
		lo = hi + 1
		hi = min(last, hi+step)
		step *= 2
	}
	return lowerBound(m, lo, hi, pred)
}

func lowerBound(m Measurer, lo, hi int, pred func(Bounds) bool) int {
	for lo < hi {
		mid := lo + (hi-lo)/2
		if pred(m.Bounds(mid)) {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return lo
}
