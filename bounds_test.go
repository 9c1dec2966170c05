package windowing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSparseCacheFillsGapsWithAverage(t *testing.T) {
	c := NewSparseBoundsCache(5, 50)
	require.NoError(t, c.SetItemSize(0, 10))
	require.NoError(t, c.SetItemSize(2, 20))
	require.NoError(t, c.SetItemSize(4, 30))

	est, ok := c.EstimatedSize()
	require.True(t, ok)
	assert.Equal(t, 20.0, est)

	b, ok, err := c.ItemBounds(2)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, Bounds{Offset: 30, Size: 20}, b)

	_, ok, err = c.ItemBounds(1)
	require.NoError(t, err)
	assert.False(t, ok, "unmeasured index has no bounds")

	assert.Equal(t, 0, c.LastContiguousIndex())
	assert.Equal(t, 3, c.Len())
	assert.Equal(t, 100.0, c.TotalSize(), "10+20+30 plus two gaps at 20")
}

func TestSparseCacheEstimateUnavailable(t *testing.T) {
	c := NewSparseBoundsCache(3, 40)
	_, ok := c.EstimatedSize()
	assert.False(t, ok)
	assert.Equal(t, Bounds{Offset: 80, Size: 40}, c.Bounds(2), "fallback stands in for everything")
}

func TestSparseCacheContiguousPrefix(t *testing.T) {
	c := NewSparseBoundsCache(6, 1)
	require.NoError(t, c.SetItemSize(1, 5))
	require.NoError(t, c.SetItemSize(2, 5))
	assert.Equal(t, -1, c.LastContiguousIndex())

	require.NoError(t, c.SetItemSize(0, 5))
	assert.Equal(t, 2, c.LastContiguousIndex(), "setting 0 absorbs the run after it")

	c.ResetAfterIndex(1)
	assert.Equal(t, 0, c.LastContiguousIndex())
	assert.Equal(t, 1, c.Len())
}

func TestSetItemSizeIdempotent(t *testing.T) {
	for _, c := range []*BoundsCache{
		NewSparseBoundsCache(4, 10),
		NewBoundsCache(4, func(int) float64 { return 10 }),
	} {
		require.NoError(t, c.SetItemSize(1, 7))
		once := c.TotalSize()
		require.NoError(t, c.SetItemSize(1, 7))
		assert.Equal(t, once, c.TotalSize())
		assert.Equal(t, 7.0, c.ItemSize(1))
	}
}

func TestSetItemSizeOutOfRange(t *testing.T) {
	c := NewSparseBoundsCache(3, 10)
	err := c.SetItemSize(3, 1)
	require.ErrorIs(t, err, ErrIndexOutOfRange)

	var ie *IndexError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, 3, ie.Index)
	assert.Equal(t, 3, ie.Count)
}

func TestDeterministicCacheIsLazy(t *testing.T) {
	calls := 0
	c := NewBoundsCache(1_000_000, func(i int) float64 {
		calls++
		return float64(i%3 + 1)
	})
	b, ok, err := c.ItemBounds(5)
	require.NoError(t, err)
	require.True(t, ok)
	// sizes 1,2,3,1,2 before index 5
	assert.Equal(t, Bounds{Offset: 9, Size: 3}, b)
	assert.Equal(t, 6, calls, "only indices up to the request are computed")
	assert.Equal(t, 5, c.LastContiguousIndex())

	c.ItemBounds(3)
	assert.Equal(t, 6, calls, "earlier indices are cached")
}

func TestDeterministicCacheOffsetsAreMonotonic(t *testing.T) {
	c := NewBoundsCache(200, func(i int) float64 { return float64(i % 7) })
	prev := c.Bounds(0)
	for i := 1; i < 200; i++ {
		b := c.Bounds(i)
		assert.Equal(t, prev.End(), b.Offset, "index %d", i)
		prev = b
	}
	assert.Equal(t, prev.End(), c.TotalSize())
}

func TestDeterministicSetItemSizeRecomputesTail(t *testing.T) {
	c := NewBoundsCache(10, func(int) float64 { return 10 })
	c.Bounds(9)
	require.NoError(t, c.SetItemSize(2, 30))

	assert.Equal(t, 2, c.LastContiguousIndex(), "entries after the change are dropped")
	assert.Equal(t, Bounds{Offset: 50, Size: 10}, c.Bounds(3))
	assert.Equal(t, 10.0, c.ItemSize(9))
}

func TestBoundsCacheSetItemCount(t *testing.T) {
	c := NewSparseBoundsCache(10, 10)
	for i := range 10 {
		require.NoError(t, c.SetItemSize(i, float64(i+1)))
	}
	c.SetItemCount(4)
	assert.Equal(t, 4, c.ItemCount())
	assert.Equal(t, 4, c.Len())
	assert.Equal(t, 10.0, c.TotalSize())

	_, _, err := c.ItemBounds(4)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}
