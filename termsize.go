package windowing

import (
	"os"
	"sync"

	"golang.org/x/term"
)

// TerminalObserver is a ContainerObserver for a terminal: the container is
// the whole window, measured in cells, and it follows resizes.
type TerminalObserver struct {
	fd       int
	fallback Size

	mu      sync.Mutex
	size    Size
	subs    map[int]func(Size)
	nextID  int
	sigChan chan os.Signal
}

// NewTerminalObserver watches the terminal behind f. fallback is reported
// when f is not a terminal, e.g. when output is redirected.
func NewTerminalObserver(f *os.File, fallback Size) *TerminalObserver {
	t := &TerminalObserver{
		fd:       int(f.Fd()),
		fallback: fallback,
		subs:     make(map[int]func(Size)),
	}
	t.size = t.query()
	return t
}

// IsTerminal reports whether the observed file is a terminal.
func (t *TerminalObserver) IsTerminal() bool { return term.IsTerminal(t.fd) }

// query asks the kernel first and falls back to x/term, then to the
// configured fallback.
func (t *TerminalObserver) query() Size {
	if w, h, err := getTerminalSize(t.fd); err == nil && w > 0 && h > 0 {
		return Size{Width: float64(w), Height: float64(h)}
	}
	if w, h, err := term.GetSize(t.fd); err == nil && w > 0 && h > 0 {
		return Size{Width: float64(w), Height: float64(h)}
	}
	return t.fallback
}

// ContainerSize returns the last known terminal size.
func (t *TerminalObserver) ContainerSize() Size {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.size
}

// Subscribe registers fn for resizes. The first subscriber starts watching
// for resize signals and the last one to leave stops it.
func (t *TerminalObserver) Subscribe(fn func(Size)) func() {
	t.mu.Lock()
	id := t.nextID
	t.nextID++
	t.subs[id] = fn
	if t.sigChan == nil {
		t.sigChan = make(chan os.Signal, 1)
		notifyResize(t.sigChan)
		go t.handleSignals(t.sigChan)
	}
	t.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			t.mu.Lock()
			delete(t.subs, id)
			var ch chan os.Signal
			if len(t.subs) == 0 && t.sigChan != nil {
				ch = t.sigChan
				t.sigChan = nil
			}
			t.mu.Unlock()
			if ch != nil {
				stopResize(ch)
				close(ch)
			}
		})
	}
}

// Refresh re-reads the terminal size and notifies subscribers if it
// changed. Signal handling calls it; hosts without signals can poll it.
func (t *TerminalObserver) Refresh() Size {
	size := t.query()
	t.mu.Lock()
	if size == t.size {
		t.mu.Unlock()
		return size
	}
	t.size = size
	subs := make([]func(Size), 0, len(t.subs))
	for _, fn := range t.subs {
		subs = append(subs, fn)
	}
	t.mu.Unlock()
	for _, fn := range subs {
		fn(size)
	}
	return size
}

func (t *TerminalObserver) handleSignals(ch chan os.Signal) {
	for range ch {
		t.Refresh()
	}
}
