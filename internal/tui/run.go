package tui

import (
	"context"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mesh-intelligence/usertable/internal/source"
	"github.com/mesh-intelligence/usertable/pkg/viewmodel"
)

// Run starts the browser and blocks until the user quits or ctx is done.
// opts are appended after the defaults, so callers can redirect input and
// output.
func Run(ctx context.Context, q *source.Query, vm *viewmodel.ViewModel, logger *slog.Logger, opts ...tea.ProgramOption) error {
	base := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}
	p := tea.NewProgram(New(ctx, q, vm, logger), append(base, opts...)...)
	_, err := p.Run()
	return err
}
