package windowing

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// TextWidth returns the display width of s in terminal cells, counting wide
// runes as two. Multi-line strings report their widest line.
func TextWidth(s string) int {
	w := 0
	for line := range strings.SplitSeq(s, "\n") {
		w = max(w, runewidth.StringWidth(line))
	}
	return w
}

// WrappedRows returns how many rows s fills when hard-wrapped at width
// cells. Every line takes at least one row.
func WrappedRows(s string, width int) int {
	if width <= 0 {
		return strings.Count(s, "\n") + 1
	}
	rows := 0
	for line := range strings.SplitSeq(s, "\n") {
		w := runewidth.StringWidth(line)
		rows += max(1, (w+width-1)/width)
	}
	return rows
}

// TextRows sizes item i as the rows its text fills at width cells.
func TextRows(text func(index int) string, width int) SizeFunc {
	return func(index int) float64 {
		return float64(WrappedRows(text(index), width))
	}
}

// TextColumns sizes item i as the width of its text plus gap cells, for
// horizontal sessions such as table columns.
func TextColumns(text func(index int) string, gap int) SizeFunc {
	return func(index int) float64 {
		return float64(TextWidth(text(index)) + gap)
	}
}
