package windowing

// Bounds is an item's leading edge and extent along the primary axis.
type Bounds struct {
	Offset float64
	Size   float64
}

// End returns the trailing edge.
func (b Bounds) End() float64 { return b.Offset + b.Size }

type boundsEntry struct {
	offset float64 // exact in deterministic mode only
	size   float64
	set    bool
}

// BoundsCache stores per-index bounds along one axis.
//
// With a size function the cache fills lazily and in order, only as far as
// the highest index ever requested, so offsets are exact and measurement
// cost follows rendered indices rather than the item count. Without one it
// is sparse: sizes arrive through SetItemSize in any order and offsets are
// derived by walking back over the entries, substituting the running
// average for gaps.
type BoundsCache struct {
	count    int
	sizeFn   SizeFunc
	fallback float64

	entries    []boundsEntry // indexed by item index
	filled     int
	total      float64
	contiguous int
}

// NewBoundsCache returns a deterministic cache filled from fn.
func NewBoundsCache(itemCount int, fn SizeFunc) *BoundsCache {
	return &BoundsCache{count: max(itemCount, 0), sizeFn: fn, contiguous: -1}
}

// NewSparseBoundsCache returns a cache fed by measurements. fallback is the
// estimate used while nothing has been measured.
func NewSparseBoundsCache(itemCount int, fallback float64) *BoundsCache {
	return &BoundsCache{count: max(itemCount, 0), fallback: fallback, contiguous: -1}
}

// ItemCount returns the number of items the cache covers.
func (c *BoundsCache) ItemCount() int { return c.count }

// SetItemCount changes the item count, dropping entries past the new end.
func (c *BoundsCache) SetItemCount(n int) {
	c.count = max(n, 0)
	c.truncate(c.count)
}

// Len returns the number of populated entries, which is not the item count.
func (c *BoundsCache) Len() int { return c.filled }

// Deterministic reports whether the cache has a size function.
func (c *BoundsCache) Deterministic() bool { return c.sizeFn != nil }

// LastContiguousIndex returns the highest k such that 0..k are all
// populated, or -1.
func (c *BoundsCache) LastContiguousIndex() int { return c.contiguous }

// ItemBounds returns the bounds of index. ok is false when a sparse cache
// has no entry for index yet; callers should use an estimate and not render
// the item until it has been measured.
func (c *BoundsCache) ItemBounds(index int) (b Bounds, ok bool, err error) {
	if err := checkIndex(index, c.count); err != nil {
		return Bounds{}, false, err
	}
	if c.sizeFn != nil {
		c.fill(index)
		e := c.entries[index]
		return Bounds{Offset: e.offset, Size: e.size}, true, nil
	}
	if index >= len(c.entries) || !c.entries[index].set {
		return Bounds{}, false, nil
	}
	return Bounds{Offset: c.walkOffset(index), Size: c.entries[index].size}, true, nil
}

// fill computes entries in increasing order until index is populated.
func (c *BoundsCache) fill(index int) {
	for len(c.entries) <= index {
		i := len(c.entries)
		size := sanitizeSize(c.sizeFn(i))
		offset := 0.0
		if i > 0 {
			prev := c.entries[i-1]
			offset = prev.offset + prev.size
		}
		c.entries = append(c.entries, boundsEntry{offset: offset, size: size, set: true})
		c.filled++
		c.total += size
		c.contiguous = i
	}
}

// walkOffset sums the sizes before index, using the average for gaps.
func (c *BoundsCache) walkOffset(index int) float64 {
	avg, ok := c.EstimatedSize()
	if !ok {
		avg = c.fallback
	}
	var offset float64
	for i := index - 1; i >= 0; i-- {
		if i < len(c.entries) && c.entries[i].set {
			offset += c.entries[i].size
		} else {
			offset += avg
		}
	}
	return offset
}

// SetItemSize records the size of index. Setting the same size twice is a
// no-op. In deterministic mode the entries after index are dropped and
// refilled from the size function on demand.
func (c *BoundsCache) SetItemSize(index int, size float64) error {
	if err := checkIndex(index, c.count); err != nil {
		return err
	}
	size = sanitizeSize(size)
	if c.sizeFn != nil {
		if index > 0 {
			c.fill(index - 1)
		}
		if index < len(c.entries) {
			if c.entries[index].size == size {
				return nil
			}
			c.truncate(index + 1)
			c.total += size - c.entries[index].size
			c.entries[index].size = size
			return nil
		}
		offset := 0.0
		if index > 0 {
			offset = c.entries[index-1].offset + c.entries[index-1].size
		}
		c.entries = append(c.entries, boundsEntry{offset: offset, size: size, set: true})
		c.filled++
		c.total += size
		c.contiguous = index
		return nil
	}

	if index >= len(c.entries) {
		c.entries = append(c.entries, make([]boundsEntry, index+1-len(c.entries))...)
	}
	e := &c.entries[index]
	if e.set {
		c.total += size - e.size
		e.size = size
		return nil
	}
	e.set, e.size = true, size
	c.filled++
	c.total += size
	if index == c.contiguous+1 {
		c.contiguous++
		for c.contiguous+1 < len(c.entries) && c.entries[c.contiguous+1].set {
			c.contiguous++
		}
	}
	return nil
}

// ResetAfterIndex drops every entry from index on. A deterministic cache
// recomputes them from its size function on the next request.
func (c *BoundsCache) ResetAfterIndex(index int) {
	c.truncate(max(index, 0))
}

func (c *BoundsCache) truncate(n int) {
	if n >= len(c.entries) {
		return
	}
	for _, e := range c.entries[n:] {
		if e.set {
			c.filled--
			c.total -= e.size
		}
	}
	clear(c.entries[n:])
	c.entries = c.entries[:n]
	if c.contiguous >= n {
		c.contiguous = n - 1
	}
}

// EstimatedSize returns the mean of the cached sizes. ok is false when
// nothing is cached.
func (c *BoundsCache) EstimatedSize() (float64, bool) {
	if c.filled == 0 {
		return 0, false
	}
	return c.total / float64(c.filled), true
}

func (c *BoundsCache) estimate() float64 {
	if avg, ok := c.EstimatedSize(); ok {
		return avg
	}
	if c.sizeFn != nil && c.count > 0 {
		c.fill(0)
		return c.entries[0].size
	}
	return c.fallback
}

// Bounds returns the bounds of index, measured where possible and
// estimated otherwise. index must be valid.
func (c *BoundsCache) Bounds(index int) Bounds {
	if c.sizeFn != nil {
		c.fill(index)
		e := c.entries[index]
		return Bounds{Offset: e.offset, Size: e.size}
	}
	size := c.estimate()
	if index < len(c.entries) && c.entries[index].set {
		size = c.entries[index].size
	}
	return Bounds{Offset: c.walkOffset(index), Size: size}
}

// ItemSize returns the measured size of index, or the estimate. index must
// be valid.
func (c *BoundsCache) ItemSize(index int) float64 {
	if c.sizeFn != nil {
		c.fill(index)
		return c.entries[index].size
	}
	if index < len(c.entries) && c.entries[index].set {
		return c.entries[index].size
	}
	return c.estimate()
}

// TotalSize returns the estimated extent of all items: the measured sizes
// plus the average for everything not yet measured.
func (c *BoundsCache) TotalSize() float64 {
	if c.count == 0 {
		return 0
	}
	est := c.estimate()
	return c.total + float64(c.count-c.filled)*est
}

// frontier is the highest index whose offset is exact.
func (c *BoundsCache) frontier() int { return c.contiguous }

// sanitizeSize maps negative and non-finite sizes to zero.
func sanitizeSize(v float64) float64 {
	if !finite(v) || v < 0 {
		return 0
	}
	return v
}
