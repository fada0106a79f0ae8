package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"

	"github.com/mesh-intelligence/usertable/pkg/viewmodel"
)

// Prompt is the readline prompt.
const Prompt = "usertable> "

// Config controls the readline loop. Zero values use the process's
// terminal.
type Config struct {
	HistoryFile string
	Stdin       io.ReadCloser
	Stdout      io.Writer
	Stderr      io.Writer

	// Interactive reports whether input comes from a terminal. Nil lets
	// readline decide.
	Interactive func() bool
}

// Run reads commands until quit, end of input or ctx is done. Command
// errors are printed and the session continues.
func Run(ctx context.Context, s *Session, cfg Config) error {
	rlCfg := &readline.Config{
		Prompt:          Prompt,
		HistoryFile:     cfg.HistoryFile,
		AutoComplete:    newCompleter(s.vm.Columns()),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		Stdin:           cfg.Stdin,
		Stdout:          cfg.Stdout,
		Stderr:          cfg.Stderr,
		FuncIsTerminal:  cfg.Interactive,
	}
	if cfg.Interactive != nil && !cfg.Interactive() {
		rlCfg.FuncMakeRaw = func() error { return nil }
		rlCfg.FuncExitRaw = func() error { return nil }
	}
	rl, err := readline.NewEx(rlCfg)
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	errOut := cfg.Stderr
	if errOut == nil {
		errOut = rl.Stderr()
	}

	_, _ = fmt.Fprintln(s.out, "usertable REPL. Type help for commands, quit to exit.")
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		quit, err := s.Handle(ctx, strings.TrimSpace(line))
		if err != nil {
			_, _ = fmt.Fprintf(errOut, "Error: %v\n", err)
		}
		if quit {
			return nil
		}
	}
}

// newCompleter completes command names, and column ids after sort and
// filter.
func newCompleter(columns []viewmodel.Column) *readline.PrefixCompleter {
	var sortable, filterable []readline.PrefixCompleterInterface
	for _, col := range columns {
		if col.Sortable {
			sortable = append(sortable, readline.PcItem(col.ID))
		}
		if col.Filterable {
			filterable = append(filterable, readline.PcItem(col.ID))
		}
	}

	items := make([]readline.PrefixCompleterInterface, 0, len(commands))
	for _, c := range commands {
		switch c.name {
		case "sort":
			items = append(items, readline.PcItem(c.name, sortable...))
		case "filter":
			items = append(items, readline.PcItem(c.name, filterable...))
		default:
			items = append(items, readline.PcItem(c.name))
		}
	}
	return readline.NewPrefixCompleter(items...)
}
