package windowing

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveOffsetAlignments(t *testing.T) {
	// 10 items of 25 in a 100 viewport: total 250, last offset 150
	tests := []struct {
		name    string
		index   int
		align   Align
		current float64
		want    float64
	}{
		{"start", 5, AlignStart, 0, 125},
		{"start clamped at the end", 9, AlignStart, 0, 150},
		{"end", 5, AlignEnd, 0, 50},
		{"end clamped at zero", 0, AlignEnd, 100, 0},
		{"center", 5, AlignCenter, 0, 87.5},
		{"auto scrolls down to the end edge", 5, AlignAuto, 0, 50},
		{"auto keeps a visible item", 5, AlignAuto, 100, 100},
		{"auto scrolls up to the start edge", 5, AlignAuto, 140, 125},
		{"smart near behaves like auto", 5, AlignSmart, 0, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveOffset(fixedCache(10, 25), OffsetRequest{
				Index:         tt.index,
				Align:         tt.align,
				ScrollOffset:  tt.current,
				ContainerSize: 100,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveOffsetSmart(t *testing.T) {
	c := fixedCache(100, 25)
	req := func(align Align, current float64) float64 {
		t.Helper()
		v, err := ResolveOffset(c, OffsetRequest{Index: 50, Align: align, ScrollOffset: current, ContainerSize: 100})
		require.NoError(t, err)
		return v
	}

	// within one viewport of the item: no recentering
	assert.Equal(t, req(AlignAuto, 1100), req(AlignSmart, 1100))
	assert.Equal(t, req(AlignAuto, 1300), req(AlignSmart, 1300))

	// far away: centered
	assert.Equal(t, req(AlignCenter, 0), req(AlignSmart, 0))
	assert.Equal(t, 1212.5, req(AlignSmart, 0))
	assert.Equal(t, req(AlignCenter, 2400), req(AlignSmart, 2400))
}

func TestResolveOffsetScrollbar(t *testing.T) {
	got, err := ResolveOffset(fixedCache(10, 25), OffsetRequest{
		Index:         5,
		Align:         AlignEnd,
		ContainerSize: 100,
		ScrollbarSize: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, 60.0, got)
}

func TestResolveOffsetNeverNegative(t *testing.T) {
	c := NewBoundsCache(3, func(i int) float64 { return float64(10 * (i + 1)) })
	for _, a := range []Align{AlignAuto, AlignSmart, AlignStart, AlignEnd, AlignCenter} {
		for i := range 3 {
			got, err := ResolveOffset(c, OffsetRequest{Index: i, Align: a, ContainerSize: 500})
			require.NoError(t, err)
			assert.Zero(t, got, "%s index %d: content fits the viewport", a, i)
		}
	}
}

func TestResolveOffsetStartRoundTrip(t *testing.T) {
	for _, i := range []int{0, 1, 99, 100, 101, 500, 900, 990} {
		want := float64(i)
		if i > 100 {
			want = 100 + float64(i-100)*10
		}
		c := NewBoundsCache(1000, stepSizes)
		off, err := ResolveOffset(c, OffsetRequest{Index: i, Align: AlignStart, ContainerSize: 20})
		require.NoError(t, err)
		assert.Equal(t, want, off, "index %d", i)

		for _, s := range []Strategy{Logarithmic, Linear} {
			r := s.Resolve(NewBoundsCache(1000, stepSizes), off, 20, 0)
			assert.Equal(t, i, r.StartVisible, "index %d %s", i, s)
		}
	}
}

func TestResolveOffsetPastTheEstimate(t *testing.T) {
	for _, a := range []Align{AlignStart, AlignEnd, AlignCenter, AlignAuto, AlignSmart} {
		c := NewBoundsCache(1000, stepSizes)
		off, err := ResolveOffset(c, OffsetRequest{Index: 900, Align: a, ContainerSize: 50})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, off, 8060.0, a.String())
		assert.LessOrEqual(t, off, 8100.0, a.String())
	}
}

func TestResolveOffsetIndexErrors(t *testing.T) {
	c := fixedCache(10, 25)
	for _, i := range []int{-1, 10, 99} {
		_, err := ResolveOffset(c, OffsetRequest{Index: i, ContainerSize: 100})
		require.ErrorIs(t, err, ErrIndexOutOfRange)

		var ie *IndexError
		require.True(t, errors.As(err, &ie))
		assert.Equal(t, i, ie.Index)
		assert.Contains(t, err.Error(), "0 - 9")
	}

	_, err := ResolveOffset(fixedCache(0, 25), OffsetRequest{Index: 0, ContainerSize: 100})
	require.ErrorIs(t, err, ErrIndexOutOfRange)
	assert.Contains(t, err.Error(), "empty")
}

func TestParseAlign(t *testing.T) {
	for _, a := range []Align{AlignAuto, AlignSmart, AlignStart, AlignEnd, AlignCenter} {
		got, err := ParseAlign(a.String())
		require.NoError(t, err)
		assert.Equal(t, a, got)
	}
	_, err := ParseAlign("middle")
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}
