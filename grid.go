package windowing

import "errors"

// Grid composes two independent sessions: rows along the vertical axis and
// columns along the horizontal one. A cell (r, c) is visible when row r and
// column c both are.
type Grid struct {
	Rows    *Controller
	Columns *Controller
	// ScrollbarSize is the thickness of a scrollbar. When one axis overflows
	// its scrollbar covers the end of the other axis.
	ScrollbarSize float64
}

// NewGrid starts both sessions. The axis of each config is overridden.
func NewGrid(rows, columns Config, scrollbarSize float64) (*Grid, error) {
	rows.Axis, columns.Axis = Vertical, Horizontal
	r, err := NewController(rows)
	if err != nil {
		return nil, err
	}
	c, err := NewController(columns)
	if err != nil {
		r.Close()
		return nil, err
	}
	return &Grid{Rows: r, Columns: c, ScrollbarSize: max(scrollbarSize, 0)}, nil
}

// Ranges returns the row and column ranges to render.
func (g *Grid) Ranges() (rows, columns Range) {
	return g.Rows.Range(), g.Columns.Range()
}

// SetContainerSize forwards a viewport resize to both sessions.
func (g *Grid) SetContainerSize(size Size) {
	g.Rows.SetContainerSize(size)
	g.Columns.SetContainerSize(size)
}

// ScrollToCell scrolls both axes so the cell is placed by the given
// alignments. Both indices are checked before either axis scrolls.
func (g *Grid) ScrollToCell(row, column int, rowAlign, columnAlign Align, behavior Behavior) (rowOffset, columnOffset float64, err error) {
	if err := checkIndex(row, g.Rows.ItemCount()); err != nil {
		return 0, 0, err
	}
	if err := checkIndex(column, g.Columns.ItemCount()); err != nil {
		return 0, 0, err
	}
	rs, cs := g.Rows.Snapshot(), g.Columns.Snapshot()

	var horizontalBar, verticalBar float64
	if cs.TotalSize > cs.ContainerSize {
		horizontalBar = g.ScrollbarSize
	}
	if rs.TotalSize > rs.ContainerSize {
		verticalBar = g.ScrollbarSize
	}
	rowOffset, rerr := g.Rows.scrollToIndex(row, rowAlign, behavior, horizontalBar)
	columnOffset, cerr := g.Columns.scrollToIndex(column, columnAlign, behavior, verticalBar)
	return rowOffset, columnOffset, errors.Join(rerr, cerr)
}

// Close ends both sessions.
func (g *Grid) Close() {
	g.Rows.Close()
	g.Columns.Close()
}
