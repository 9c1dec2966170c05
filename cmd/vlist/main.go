// Command vlist scrolls a large generated log with variable-height entries
// through the windowing engine. With -dump it prints one screen and exits.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/kungfusheep/windowing"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to a vlist.toml file")
		dump       = flag.Bool("dump", false, "print one screen to stdout and exit")
		jump       = flag.Int("jump", -1, "with -dump, scroll to this entry first")
		query      = flag.String("query", "", "initial fuzzy filter")
		verbose    = flag.Bool("v", false, "log engine diagnostics to stderr")
	)
	flag.Parse()

	if err := run(*configPath, *dump, *jump, *query, *verbose, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "vlist:", err)
		os.Exit(1)
	}
}

func run(configPath string, dump bool, jump int, query string, verbose bool, out io.Writer) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	var logger *slog.Logger
	if verbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	m, err := newModel(generateLog(cfg.Items, cfg.Seed), cfg, logger)
	if err != nil {
		return err
	}
	defer m.list.Close()
	if query != "" {
		m.applyQuery(query)
	}

	if dump {
		return dumpScreen(m, jump, out)
	}
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("stdout is not a terminal; use -dump")
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}

// dumpScreen renders one frame at the terminal's size, or 80x24 when
// stdout is not a terminal.
func dumpScreen(m *model, jump int, out io.Writer) error {
	obs := windowing.NewTerminalObserver(os.Stdout, windowing.Size{Width: 80, Height: 24})
	size := obs.ContainerSize()
	m.Update(tea.WindowSizeMsg{Width: int(size.Width), Height: int(size.Height)})
	if jump >= 0 {
		if err := m.list.ScrollTo(jump, m.align); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(out, m.View())
	return err
}
