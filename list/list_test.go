package list

import (
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kungfusheep/windowing"
)

func numbered(n int) []int {
	items := make([]int, n)
	for i := range items {
		items[i] = i
	}
	return items
}

func oneLine(item, _, _ int) string { return fmt.Sprintf("item %d", item) }

func twoLines(item, _, _ int) string { return fmt.Sprintf("a%d\nb%d", item, item) }

func newList(t *testing.T, n int, render RenderFunc[int], opts ...Option) *Model[int] {
	t.Helper()
	l, err := New(numbered(n), render, opts...)
	require.NoError(t, err)
	t.Cleanup(l.Close)
	return l
}

func viewLines(l *Model[int]) []string {
	return strings.Split(l.View(), "\n")
}

func TestListRendersViewport(t *testing.T) {
	l := newList(t, 1000, oneLine)
	assert.Empty(t, l.View(), "no size yet")

	l.SetConstraints(20, 5)
	lines := viewLines(l)
	require.Len(t, lines, 5)
	assert.True(t, strings.HasPrefix(lines[0], "item 0"))
	assert.True(t, strings.HasPrefix(lines[4], "item 4"))
	assert.True(t, strings.HasSuffix(lines[0], "█"), "scrollbar thumb at the top")
	assert.True(t, strings.HasSuffix(lines[4], "│"))

	start, end := l.VisibleRange()
	assert.Equal(t, 0, start)
	assert.Equal(t, 4, end)
}

func TestListMeasuresMultilineItems(t *testing.T) {
	l := newList(t, 100, twoLines, WithScrollbar(false))
	l.SetConstraints(10, 6)

	lines := viewLines(l)
	require.Len(t, lines, 6)
	for i, want := range []string{"a0", "b0", "a1", "b1", "a2", "b2"} {
		assert.Equal(t, want, strings.TrimRight(lines[i], " "), "line %d", i)
	}
	start, end := l.VisibleRange()
	assert.Equal(t, 0, start)
	assert.Equal(t, 2, end)
}

func TestListScrollToPlacesItemAtTop(t *testing.T) {
	l := newList(t, 100, twoLines, WithScrollbar(false))
	l.SetConstraints(10, 6)

	require.NoError(t, l.ScrollTo(40, windowing.AlignStart))
	lines := viewLines(l)
	assert.Equal(t, "a40", strings.TrimRight(lines[0], " "))
	assert.Equal(t, "b42", strings.TrimRight(lines[5], " "))
}

func TestListScrollToOutOfRange(t *testing.T) {
	l := newList(t, 10, oneLine)
	l.SetConstraints(20, 5)

	err := l.ScrollTo(10, windowing.AlignAuto)
	require.ErrorIs(t, err, windowing.ErrIndexOutOfRange)
	assert.Contains(t, err.Error(), "0 - 9")
}

func TestListKeysAndWheel(t *testing.T) {
	l := newList(t, 1000, oneLine)
	l.SetConstraints(20, 5)

	l.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, l.ScrollOffset())

	l.Update(tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown})
	assert.Equal(t, 4, l.ScrollOffset())

	l.Update(tea.KeyMsg{Type: tea.KeyPgDown})
	assert.Equal(t, 8, l.ScrollOffset())

	l.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("g")})
	assert.Equal(t, 0, l.ScrollOffset())

	l.Update(tea.KeyMsg{Type: tea.KeyEnd})
	assert.True(t, l.AtBottom())
	assert.True(t, strings.HasPrefix(viewLines(l)[4], "item 999"))
}

func TestListWindowSizeMsg(t *testing.T) {
	l := newList(t, 50, oneLine)
	l.Update(tea.WindowSizeMsg{Width: 30, Height: 8})
	assert.Len(t, viewLines(l), 8)
	w, h := l.Size()
	assert.Equal(t, 30, w)
	assert.Equal(t, 8, h)
}

func TestListNewDatasetResetsScroll(t *testing.T) {
	l := newList(t, 1000, oneLine, WithKey("all"))
	l.SetConstraints(20, 5)
	require.NoError(t, l.ScrollTo(500, windowing.AlignStart))
	require.Equal(t, 500, l.ScrollOffset())

	l.SetItems([]int{7, 8, 9}, "filtered")
	assert.Equal(t, 0, l.ScrollOffset())
	assert.Equal(t, 3, l.Len())
	lines := viewLines(l)
	assert.True(t, strings.HasPrefix(lines[0], "item 7"))
	assert.Equal(t, "", strings.TrimSpace(lines[3]))
}

func TestListBorderAndPadding(t *testing.T) {
	l := newList(t, 100, oneLine)
	l.Border(lipgloss.RoundedBorder(), nil).Padding(1).SetConstraints(20, 10)

	lines := viewLines(l)
	require.Len(t, lines, 10)
	assert.True(t, strings.HasPrefix(lines[0], "╭"))
	assert.Contains(t, lines[2], "item 0")

	start, end := l.VisibleRange()
	assert.Equal(t, 0, start)
	assert.Equal(t, 5, end, "six rows inside border and padding")
}

func TestListLongLinesAreTruncated(t *testing.T) {
	long := func(item, _, _ int) string { return strings.Repeat("x", 100) }
	l := newList(t, 10, long, WithScrollbar(false))
	l.SetConstraints(12, 3)
	for _, line := range viewLines(l) {
		assert.Equal(t, 12, lipgloss.Width(line))
	}
}

func TestListOverscanRendersExtraItems(t *testing.T) {
	rendered := map[int]int{}
	counting := func(item, index, width int) string {
		rendered[index]++
		return oneLine(item, index, width)
	}
	l := newList(t, 100, counting, WithOverscan(2))
	l.SetConstraints(20, 5)

	assert.Contains(t, rendered, 6)
	assert.NotContains(t, rendered, 7)
	for i, n := range rendered {
		assert.Equal(t, 1, n, "item %d rendered once per layout", i)
	}
}
