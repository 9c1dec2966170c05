package list

import (
	"fmt"
	"strings"
	"testing"
)

// Benchmark continuous scrolling through variable-height rows
func BenchmarkListScroll(b *testing.B) {
	render := func(item, _, _ int) string {
		if item%5 == 0 {
			return fmt.Sprintf("Item %d with details\n  status: pending\n  owner: ops", item)
		}
		return fmt.Sprintf("Item %d with some longer text", item)
	}

	for _, size := range []int{1000, 10000, 100000} {
		b.Run(fmt.Sprintf("Items_%d", size), func(b *testing.B) {
			l, err := New(numbered(size), render, WithOverscan(3))
			if err != nil {
				b.Fatal(err)
			}
			defer l.Close()
			l.SetConstraints(120, 50)

			b.ResetTimer()
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				l.ScrollBy(1)
				if l.AtBottom() {
					l.ScrollBy(-size * 3)
				}
				_ = l.View()
			}
		})
	}
}

func BenchmarkListView(b *testing.B) {
	l, err := New(numbered(10000), func(item, _, _ int) string {
		return strings.Repeat("x", item%200)
	})
	if err != nil {
		b.Fatal(err)
	}
	defer l.Close()
	l.SetConstraints(80, 40)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = l.View()
	}
}
