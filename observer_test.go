package windowing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManualObserver(t *testing.T) {
	var bursts [][]Measurement
	o := NewManualObserver(func(b []Measurement) { bursts = append(bursts, b) })

	o.Observe(1)
	o.Observe(1)
	o.Observe(2)
	assert.True(t, o.Observing(1))

	o.Report(Measurement{Index: 1, Size: 5}, Measurement{Index: 3, Size: 5})
	require.Len(t, bursts, 1)
	assert.Equal(t, []Measurement{{Index: 1, Size: 5}}, bursts[0])

	o.Report(Measurement{Index: 3, Size: 5})
	assert.Len(t, bursts, 1, "bursts with nothing observed are dropped")

	o.Unobserve(1)
	o.Unobserve(1)
	assert.False(t, o.Observing(1))

	o.Disconnect()
	o.Observe(2)
	o.Report(Measurement{Index: 2, Size: 5})
	assert.Len(t, bursts, 1)
	assert.False(t, o.Observing(2))
}

func TestManualObserversFactory(t *testing.T) {
	var made []*ManualObserver
	factory := ManualObservers(func(o *ManualObserver) { made = append(made, o) })
	so := factory(func([]Measurement) {})
	require.Len(t, made, 1)
	assert.Same(t, made[0], so)
}

func TestSizeAlong(t *testing.T) {
	s := Size{Width: 3, Height: 7}
	assert.Equal(t, 7.0, s.Along(Vertical))
	assert.Equal(t, 3.0, s.Along(Horizontal))
	assert.Equal(t, "horizontal", Horizontal.String())
}
