package windowing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTextWidth(t *testing.T) {
	assert.Equal(t, 5, TextWidth("hello"))
	assert.Equal(t, 4, TextWidth("日本"), "wide runes take two cells")
	assert.Equal(t, 6, TextWidth("ab\nabcdef\n"))
	assert.Zero(t, TextWidth(""))
}

func TestWrappedRows(t *testing.T) {
	tests := []struct {
		text  string
		width int
		want  int
	}{
		{"", 10, 1},
		{"short", 10, 1},
		{"exactly10!", 10, 1},
		{"eleven char", 10, 2},
		{"a\nb\nc", 10, 3},
		{"日本語日本語", 5, 3},
		{"a\n\nb", 0, 3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, WrappedRows(tt.text, tt.width), "%q at %d", tt.text, tt.width)
	}
}

func TestTextSizeFuncs(t *testing.T) {
	lines := []string{"one", "two lines\nhere", "a much longer line that wraps"}
	text := func(i int) string { return lines[i] }

	rows := TextRows(text, 10)
	assert.Equal(t, 1.0, rows(0))
	assert.Equal(t, 2.0, rows(1))
	assert.Equal(t, 3.0, rows(2))

	cols := TextColumns(text, 2)
	assert.Equal(t, 5.0, cols(0))
	assert.Equal(t, 11.0, cols(1))
}

func TestTextRowsDrivesController(t *testing.T) {
	lines := []string{"a", "b\nb", "c\nc\nc", "d"}
	c := newTestController(t, Config{
		ItemCount:        len(lines),
		Size:             PerIndex(TextRows(func(i int) string { return lines[i] }, 80)),
		DefaultContainer: Size{Height: 3},
	})
	p, err := c.ItemPlacement(3)
	assert.NoError(t, err)
	assert.Equal(t, 6.0, p.Offset)
	assert.Equal(t, 7.0, c.TotalSize(), "exact once every item is laid out")
}
