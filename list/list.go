// Package list is a Bubble Tea component that renders a large collection of
// variable-height items through a windowing controller. Only the items in
// the controller's overscan range are rendered; each rendered item is
// measured and reported back so the layout converges on real heights.
package list

import (
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/kungfusheep/windowing"
)

// RenderFunc renders one item at the given content width. The result may
// span several lines.
type RenderFunc[T any] func(item T, index, width int) string

// KeyMap holds the list's key bindings.
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Top      key.Binding
	Bottom   key.Binding
}

// DefaultKeyMap returns vim-ish bindings alongside the arrow keys.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		PageUp:   key.NewBinding(key.WithKeys("pgup", "ctrl+b"), key.WithHelp("pgup", "page up")),
		PageDown: key.NewBinding(key.WithKeys("pgdown", "ctrl+f", " "), key.WithHelp("pgdn", "page down")),
		Top:      key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "top")),
		Bottom:   key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "bottom")),
	}
}

type options struct {
	estimate  float64
	overscan  int
	wheel     int
	key       string
	strategy  windowing.Strategy
	keys      KeyMap
	scrollbar bool
	logger    *slog.Logger
}

// Option configures a Model at construction.
type Option func(*options)

// WithEstimate sets the row count assumed for items not yet rendered.
func WithEstimate(rows int) Option { return func(o *options) { o.estimate = float64(rows) } }

// WithOverscan sets how many items beyond the viewport are rendered.
func WithOverscan(n int) Option { return func(o *options) { o.overscan = n } }

// WithWheelStep sets how many rows one mouse wheel notch scrolls.
func WithWheelStep(rows int) Option { return func(o *options) { o.wheel = rows } }

// WithKey sets the dataset key of the initial items.
func WithKey(k string) Option { return func(o *options) { o.key = k } }

// WithStrategy selects the range search strategy.
func WithStrategy(s windowing.Strategy) Option { return func(o *options) { o.strategy = s } }

// WithKeyMap replaces the key bindings.
func WithKeyMap(km KeyMap) Option { return func(o *options) { o.keys = km } }

// WithScrollbar toggles the scrollbar column.
func WithScrollbar(on bool) Option { return func(o *options) { o.scrollbar = on } }

// WithLogger enables engine diagnostics.
func WithLogger(l *slog.Logger) Option { return func(o *options) { o.logger = l } }

// Model is a virtualized list. It is used by pointer; the fluent setters
// return the receiver for chaining.
type Model[T any] struct {
	items  []T
	render RenderFunc[T]
	opts   options

	ctrl     *windowing.Controller
	observer *windowing.ManualObserver

	width, height int

	// rendered item text for the current content width, keyed by index.
	rendered map[int]string
	observed map[int]struct{}
	lines    []string
	pending  []windowing.Update

	border      *lipgloss.Border
	borderColor lipgloss.TerminalColor
	background  lipgloss.TerminalColor
	padding     int

	err error
}

// New builds a list over items. The list renders nothing until it is given
// a size through SetSize or a tea.WindowSizeMsg.
func New[T any](items []T, render RenderFunc[T], opts ...Option) (*Model[T], error) {
	o := options{
		estimate:  1,
		wheel:     3,
		keys:      DefaultKeyMap(),
		scrollbar: true,
	}
	for _, opt := range opts {
		opt(&o)
	}
	m := &Model[T]{
		items:    items,
		render:   render,
		opts:     o,
		rendered: make(map[int]string),
		observed: make(map[int]struct{}),
	}
	ctrl, err := windowing.NewController(windowing.Config{
		ItemCount: len(items),
		Size:      windowing.Measured(o.estimate),
		Overscan:  o.overscan,
		Key:       o.key,
		Strategy:  o.strategy,
		Logger:    o.logger,
		Observer: windowing.ManualObservers(func(obs *windowing.ManualObserver) {
			m.observer = obs
		}),
		OnLayout: func(u windowing.Update) {
			m.pending = append(m.pending, u)
		},
	})
	if err != nil {
		return nil, err
	}
	m.ctrl = ctrl
	return m, nil
}

// Controller exposes the underlying session.
func (m *Model[T]) Controller() *windowing.Controller { return m.ctrl }

// Items returns the current items.
func (m *Model[T]) Items() []T { return m.items }

// Len returns the item count.
func (m *Model[T]) Len() int { return len(m.items) }

// Err returns the last error raised while laying out.
func (m *Model[T]) Err() error { return m.err }

// SetItems replaces the items. A different key marks a different dataset:
// measurements are discarded and the list scrolls back to the top. The
// same key keeps the measurements of surviving indices.
func (m *Model[T]) SetItems(items []T, key string) *Model[T] {
	m.items = items
	if dyn := m.ctrl.Dynamic(); dyn != nil && dyn.Key() != key {
		// the new dataset starts unobserved
		clear(m.observed)
	}
	m.ctrl.SetKey(key)
	if err := m.ctrl.SetItemCount(len(items)); err != nil {
		m.err = err
	}
	clear(m.rendered)
	m.layout()
	return m
}

// SetConstraints sets the outer size of the list, decoration included.
func (m *Model[T]) SetConstraints(width, height int) *Model[T] {
	if m.width != width {
		clear(m.rendered)
	}
	m.width, m.height = width, height
	m.layout()
	return m
}

func (m *Model[T]) relayout() *Model[T] {
	clear(m.rendered)
	m.layout()
	return m
}

// Size returns the outer size last given to SetConstraints.
func (m *Model[T]) Size() (width, height int) { return m.width, m.height }

// ScrollTo scrolls so the item at index is placed according to align.
func (m *Model[T]) ScrollTo(index int, align windowing.Align) error {
	if _, err := m.ctrl.ScrollToIndex(index, align, windowing.BehaviorInstant); err != nil {
		return err
	}
	m.layout()
	return nil
}

// ScrollBy scrolls by delta rows.
func (m *Model[T]) ScrollBy(delta int) *Model[T] {
	m.ctrl.ScrollBy(float64(delta))
	m.layout()
	return m
}

// ScrollOffset returns the first visible row.
func (m *Model[T]) ScrollOffset() int { return int(m.ctrl.ScrollOffset()) }

// VisibleRange returns the indices currently drawn in the viewport.
func (m *Model[T]) VisibleRange() (start, end int) {
	r := m.ctrl.Range()
	return r.StartVisible, r.StopVisible
}

// AtBottom reports whether the viewport shows the last row.
func (m *Model[T]) AtBottom() bool {
	s := m.ctrl.Snapshot()
	return s.ScrollOffset+s.ContainerSize >= s.TotalSize
}

// Close releases the controller.
func (m *Model[T]) Close() { m.ctrl.Close() }

func (m *Model[T]) Init() tea.Cmd { return nil }

func (m *Model[T]) Update(msg tea.Msg) (*Model[T], tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetConstraints(msg.Width, msg.Height)
	case tea.KeyMsg:
		page := max(m.innerHeight()-1, 1)
		switch {
		case key.Matches(msg, m.opts.keys.Up):
			m.ScrollBy(-1)
		case key.Matches(msg, m.opts.keys.Down):
			m.ScrollBy(1)
		case key.Matches(msg, m.opts.keys.PageUp):
			m.ScrollBy(-page)
		case key.Matches(msg, m.opts.keys.PageDown):
			m.ScrollBy(page)
		case key.Matches(msg, m.opts.keys.Top):
			m.ctrl.SetScrollOffset(0)
			m.layout()
		case key.Matches(msg, m.opts.keys.Bottom):
			if n := len(m.items); n > 0 {
				m.err = m.ScrollTo(n-1, windowing.AlignEnd)
			}
		}
	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress {
			break
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.ScrollBy(-m.opts.wheel)
		case tea.MouseButtonWheelDown:
			m.ScrollBy(m.opts.wheel)
		}
	}
	return m, nil
}

func (m *Model[T]) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	st := lipgloss.NewStyle().Padding(m.padding)
	if m.border != nil {
		st = st.Border(*m.border)
		if m.borderColor != nil {
			st = st.BorderForeground(m.borderColor)
		}
	}
	if m.background != nil {
		st = st.Background(m.background)
	}
	return st.Render(strings.Join(m.lines, "\n"))
}

func (m *Model[T]) frame() int {
	f := 2 * m.padding
	if m.border != nil {
		f += 2
	}
	return f
}

func (m *Model[T]) innerHeight() int { return max(m.height-m.frame(), 0) }

func (m *Model[T]) contentWidth() int {
	w := m.width - m.frame()
	if m.opts.scrollbar {
		w--
	}
	return max(w, 0)
}

// maxLayoutPasses bounds the measure loop. Each pass can only shrink the
// set of unmeasured items in range, so real content converges in two.
const maxLayoutPasses = 4

// layout renders the overscan range, reports the rendered heights and
// repeats until the range stops moving, then composes the visible lines.
func (m *Model[T]) layout() {
	m.ctrl.SetContainerSize(windowing.Size{
		Width:  float64(m.contentWidth()),
		Height: float64(m.innerHeight()),
	})
	width := m.contentWidth()

	var r windowing.Range
	for range maxLayoutPasses {
		r = m.ctrl.Range()
		m.track(r)
		if r.Empty() || m.observer == nil {
			break
		}
		batch := make([]windowing.Measurement, 0, r.Len())
		for i := r.StartOverscan; i <= r.StopOverscan; i++ {
			batch = append(batch, windowing.Measurement{
				Index: i,
				Size:  float64(lipgloss.Height(m.item(i, width))),
			})
		}
		m.pending = m.pending[:0]
		m.observer.Report(batch...)
		if len(m.pending) == 0 || m.ctrl.Range() == r {
			break
		}
	}
	m.pending = m.pending[:0]
	m.compose(m.ctrl.Range(), width)
}

// track observes the indices in r and releases the ones that left it,
// dropping their rendered text.
func (m *Model[T]) track(r windowing.Range) {
	var gone []int
	for i := range m.observed {
		if i < r.StartOverscan || i > r.StopOverscan {
			gone = append(gone, i)
		}
	}
	for _, i := range gone {
		delete(m.observed, i)
		delete(m.rendered, i)
	}
	m.ctrl.Unobserve(gone...)
	if r.Empty() {
		return
	}
	fresh := make([]int, 0, r.Len())
	for i := r.StartOverscan; i <= r.StopOverscan; i++ {
		if _, ok := m.observed[i]; !ok {
			m.observed[i] = struct{}{}
			fresh = append(fresh, i)
		}
	}
	m.ctrl.Observe(fresh...)
}

func (m *Model[T]) item(i, width int) string {
	if s, ok := m.rendered[i]; ok {
		return s
	}
	s := m.render(m.items[i], i, width)
	m.rendered[i] = s
	return s
}

// compose builds the viewport lines from the placements of the visible
// items, clipping the items that straddle an edge.
func (m *Model[T]) compose(r windowing.Range, width int) {
	height := m.innerHeight()
	m.lines = m.lines[:0]
	if height == 0 {
		return
	}
	scroll := int(m.ctrl.ScrollOffset())
	rows := make([]string, height)
	if !r.Empty() {
		for i := r.StartVisible; i <= r.StopVisible; i++ {
			p, err := m.ctrl.ItemPlacement(i)
			if err != nil {
				m.err = err
				break
			}
			row := int(p.Offset) - scroll
			for j, line := range strings.Split(m.item(i, width), "\n") {
				if y := row + j; y >= 0 && y < height {
					rows[y] = line
				}
			}
		}
	}

	bar := m.scrollbar(height)
	for y, line := range rows {
		line = ansi.Truncate(line, width, "")
		if pad := width - ansi.StringWidth(line); pad > 0 {
			line += strings.Repeat(" ", pad)
		}
		if bar != nil {
			line += bar[y]
		}
		m.lines = append(m.lines, line)
	}
}

// scrollbar returns one cell per viewport row, or nil when the content fits
// or the scrollbar is off.
func (m *Model[T]) scrollbar(height int) []string {
	if !m.opts.scrollbar {
		return nil
	}
	s := m.ctrl.Snapshot()
	if s.TotalSize <= s.ContainerSize || height == 0 {
		return nil
	}
	thumb := max(1, int(float64(height)*s.ContainerSize/s.TotalSize))
	track := s.TotalSize - s.ContainerSize
	top := int(float64(height-thumb) * s.ScrollOffset / track)
	bar := make([]string, height)
	for y := range bar {
		if y >= top && y < top+thumb {
			bar[y] = "█"
		} else {
			bar[y] = "│"
		}
	}
	return bar
}

// --- Fluent API ---

// Border draws a border around the list.
func (m *Model[T]) Border(b lipgloss.Border, color lipgloss.TerminalColor) *Model[T] {
	m.border = &b
	m.borderColor = color
	return m.relayout()
}

// Padding sets the inner padding on all sides.
func (m *Model[T]) Padding(n int) *Model[T] {
	m.padding = max(n, 0)
	return m.relayout()
}

// Background sets the background colour.
func (m *Model[T]) Background(c lipgloss.TerminalColor) *Model[T] {
	m.background = c
	return m
}

// Overscan changes how many items beyond the viewport are rendered.
func (m *Model[T]) Overscan(n int) *Model[T] {
	if err := m.ctrl.SetOverscan(n); err != nil {
		m.err = err
		return m
	}
	m.opts.overscan = n
	m.layout()
	return m
}

// Scrollbar toggles the scrollbar column.
func (m *Model[T]) Scrollbar(on bool) *Model[T] {
	m.opts.scrollbar = on
	return m.relayout()
}
