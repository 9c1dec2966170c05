package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kungfusheep/windowing"
	"github.com/kungfusheep/windowing/list"
)

var (
	levelStyles = [...]lipgloss.Style{
		levelDebug: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		levelInfo:  lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		levelWarn:  lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		levelError: lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
	}
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle = lipgloss.NewStyle().Reverse(true)
)

// renderEntry draws an entry as a header row plus one row per stack frame.
func renderEntry(e entry, _ int, _ int) string {
	var b strings.Builder
	b.WriteString(dimStyle.Render(e.At.Format("15:04:05.000")))
	b.WriteByte(' ')
	b.WriteString(levelStyles[e.Level].Render(e.Level.String()))
	fmt.Fprintf(&b, " %-9s %s", e.Service, e.Message)
	for _, f := range e.Stack {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("    at " + f))
	}
	return b.String()
}

type keyMap struct {
	Filter    key.Binding
	Apply     key.Binding
	Clear     key.Binding
	NextError key.Binding
	PrevError key.Binding
	Quit      key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Filter:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		Apply:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "apply")),
		Clear:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear")),
		NextError: key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next error")),
		PrevError: key.NewBinding(key.WithKeys("N"), key.WithHelp("N", "prev error")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

type model struct {
	all       []entry
	shown     []entry
	list      *list.Model[entry]
	input     textinput.Model
	filtering bool
	query     string
	align     windowing.Align
	keys      keyMap
	status    string
}

func newModel(entries []entry, cfg config, logger *slog.Logger) (*model, error) {
	strategy, err := cfg.strategy()
	if err != nil {
		return nil, err
	}
	align, err := cfg.align()
	if err != nil {
		return nil, err
	}
	l, err := list.New(entries, renderEntry,
		list.WithEstimate(cfg.Estimate),
		list.WithOverscan(cfg.Overscan),
		list.WithStrategy(strategy),
		list.WithWheelStep(cfg.Wheel),
		list.WithKey(datasetKey("")),
		list.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}
	if cfg.Border {
		l.Border(lipgloss.RoundedBorder(), lipgloss.Color("8"))
	}

	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "fuzzy filter"

	return &model{
		all:   entries,
		shown: entries,
		list:  l,
		input: ti,
		align: align,
		keys:  defaultKeys(),
	}, nil
}

func (m *model) Init() tea.Cmd { return nil }

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.input.Width = max(msg.Width-2, 1)
		m.list.SetConstraints(msg.Width, max(msg.Height-1, 0))
		return m, nil

	case tea.KeyMsg:
		if m.filtering {
			return m.updateFilter(msg)
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Filter):
			m.filtering = true
			m.input.SetValue(m.query)
			return m, m.input.Focus()
		case key.Matches(msg, m.keys.Clear):
			m.applyQuery("")
			return m, nil
		case key.Matches(msg, m.keys.NextError):
			m.jumpError(1)
			return m, nil
		case key.Matches(msg, m.keys.PrevError):
			m.jumpError(-1)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Apply):
		m.filtering = false
		m.input.Blur()
		return m, nil
	case key.Matches(msg, m.keys.Clear):
		m.filtering = false
		m.input.Blur()
		m.applyQuery("")
		return m, nil
	}
	prev := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if v := m.input.Value(); v != prev {
		m.applyQuery(v)
	}
	return m, cmd
}

// applyQuery filters the log. Every query is its own dataset, so the list
// drops the heights it measured for the previous one.
func (m *model) applyQuery(q string) {
	if q == m.query {
		return
	}
	m.query = q
	m.shown = filterEntries(m.all, q)
	m.list.SetItems(m.shown, datasetKey(q))
	m.status = ""
}

// jumpError scrolls to the next error entry after (dir 1) or before
// (dir -1) the first visible one.
func (m *model) jumpError(dir int) {
	start, _ := m.list.VisibleRange()
	for i := start + dir; i >= 0 && i < len(m.shown); i += dir {
		if m.shown[i].Level == levelError {
			if err := m.list.ScrollTo(i, m.align); err != nil {
				m.status = err.Error()
			}
			return
		}
	}
	m.status = "no more errors"
}

func (m *model) statusLine() string {
	start, end := m.list.VisibleRange()
	s := fmt.Sprintf(" %d/%d entries  rows %d-%d  offset %d",
		len(m.shown), len(m.all), start, end, m.list.ScrollOffset())
	if m.query != "" {
		s += fmt.Sprintf("  query %q", m.query)
	}
	if m.status != "" {
		s += "  " + m.status
	}
	width, _ := m.list.Size()
	return statusStyle.Width(width).Render(s)
}

func (m *model) View() string {
	footer := m.statusLine()
	if m.filtering {
		footer = m.input.View()
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.list.View(), footer)
}
