package windowing

import (
	"fmt"
	"testing"
)

// Benchmark continuous scrolling over collections of growing size
func BenchmarkControllerScroll(b *testing.B) {
	for _, n := range []int{1000, 100_000, 1_000_000} {
		b.Run(fmt.Sprintf("Items_%d", n), func(b *testing.B) {
			c, err := NewController(Config{
				ItemCount:        n,
				Size:             PerIndex(func(i int) float64 { return float64(1 + i%3) }),
				Overscan:         3,
				DefaultContainer: Size{Height: 50},
			})
			if err != nil {
				b.Fatal(err)
			}
			defer c.Close()

			b.ResetTimer()
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				c.SetScrollOffset(float64((i * 7) % n))
			}
		})
	}
}

func BenchmarkResolveRangeStrategies(b *testing.B) {
	const n = 100_000
	size := func(i int) float64 { return float64(1 + i%5) }
	for _, s := range []Strategy{Logarithmic, Linear} {
		b.Run(s.String(), func(b *testing.B) {
			c := NewBoundsCache(n, size)
			c.Bounds(n - 1)
			total := c.TotalSize()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				s.Resolve(c, float64(i%int(total)), 50, 2)
			}
		})
	}
}

func BenchmarkMeasuredBursts(b *testing.B) {
	c, err := NewController(Config{
		ItemCount:        100_000,
		Size:             Measured(2),
		DefaultContainer: Size{Height: 50},
	})
	if err != nil {
		b.Fatal(err)
	}
	defer c.Close()
	c.Range()
	batch := make([]Measurement, 30)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		start := (i * 13) % 99_000
		c.SetScrollOffset(float64(start * 2))
		for j := range batch {
			batch[j] = Measurement{Index: start + j, Size: float64(1 + (i+j)%4)}
		}
		c.ApplyMeasurements(batch...)
	}
}
