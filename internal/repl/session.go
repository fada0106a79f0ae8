// Package repl implements the line-oriented usertable session: each command
// drives the view-model and prints the resulting page.
package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"unicode"

	"github.com/mesh-intelligence/usertable/internal/render"
	"github.com/mesh-intelligence/usertable/internal/source"
	"github.com/mesh-intelligence/usertable/pkg/types"
	"github.com/mesh-intelligence/usertable/pkg/viewmodel"
)

// Session errors.
var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrUsage          = errors.New("usage")
)

// Session holds the query and view-model a REPL operates on. The
// view-model is fed from the query's subscription: the records on success,
// an empty array while pending or failed.
type Session struct {
	query  *source.Query
	vm     *viewmodel.ViewModel
	out    io.Writer
	format string
	logger *slog.Logger
	cancel func()

	// rest is the raw text after the command name of the line being
	// handled.
	rest string
}

// Option configures a Session.
type Option func(*Session)

// WithFormat sets the table output format; see render.Formats.
func WithFormat(format string) Option {
	return func(s *Session) { s.format = format }
}

// WithLogger sets the session logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewSession creates a session writing to out.
func NewSession(q *source.Query, vm *viewmodel.ViewModel, out io.Writer, opts ...Option) *Session {
	s := &Session{
		query:  q,
		vm:     vm,
		out:    out,
		format: render.FormatTable,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.cancel = q.Subscribe(s.apply)
	if snap := q.Snapshot(); snap.Status != types.StatusPending {
		s.apply(snap)
	}
	return s
}

// Close stops following the query.
func (s *Session) Close() {
	s.cancel()
}

func (s *Session) apply(snap source.Snapshot) {
	s.vm.SetRecords(snap.Rows())
	s.logger.Debug("repl records updated",
		slog.String("status", snap.Status.String()),
		slog.Uint64("generation", snap.Generation),
	)
}

type command struct {
	name  string
	args  string
	help  string
	run   func(s *Session, ctx context.Context, args []string) error
	quits bool
}

var commands []command

func init() {
	commands = []command{
		{name: "help", help: "Show this help message", run: (*Session).help},
		{name: "show", help: "Print the current page", run: (*Session).show},
		{name: "next", help: "Go to the next page", run: paging((*viewmodel.ViewModel).NextPage)},
		{name: "prev", help: "Go to the previous page", run: paging((*viewmodel.ViewModel).PreviousPage)},
		{name: "page", args: "N", help: "Go to page N (1-based)", run: (*Session).page},
		{name: "sort", args: "COLUMN", help: "Sort by COLUMN; repeat to flip the direction", run: (*Session).sort},
		{name: "unsort", help: "Return rows to fetch order", run: paging((*viewmodel.ViewModel).ClearSort)},
		{name: "filter", args: "COLUMN [VALUE]", help: "Filter COLUMN by VALUE; no value clears it", run: (*Session).filter},
		{name: "search", args: "[VALUE]", help: "Filter across all columns; no value clears it", run: (*Session).search},
		{name: "reset", help: "Clear sort, filters and page", run: paging((*viewmodel.ViewModel).Reset)},
		{name: "detail", args: "ID", help: "Show the details of user ID", run: (*Session).detail},
		{name: "columns", help: "List columns and what they support", run: (*Session).columns},
		{name: "refresh", help: "Fetch the users again", run: (*Session).refresh},
		{name: "quit", help: "Exit the session", quits: true},
		{name: "exit", help: "Exit the session", quits: true},
	}
}

func lookup(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

// Handle runs one input line. quit reports whether the session should end.
// Blank lines do nothing.
func (s *Session) Handle(ctx context.Context, line string) (quit bool, err error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	name := strings.ToLower(fields[0])
	c, ok := lookup(name)
	if !ok {
		return false, fmt.Errorf("%w: %s (type help for commands)", ErrUnknownCommand, fields[0])
	}
	if c.quits {
		return true, nil
	}
	s.logger.Debug("repl command", slog.String("command", name), slog.Int("args", len(fields)-1))
	_, s.rest = cutField(line)
	return false, c.run(s, ctx, fields[1:])
}

// cutField splits off the first whitespace-separated field of line. rest
// keeps its inner whitespace; only the surrounding whitespace is removed.
func cutField(line string) (field, rest string) {
	line = strings.TrimLeftFunc(line, unicode.IsSpace)
	i := strings.IndexFunc(line, unicode.IsSpace)
	if i < 0 {
		return line, ""
	}
	return line[:i], strings.TrimSpace(line[i:])
}

// filterValue reads a filter value typed on the command line. A value in
// double quotes is unquoted, which keeps leading and trailing spaces.
func filterValue(raw string) string {
	if len(raw) >= 2 && raw[0] == '"' && raw[len(raw)-1] == '"' {
		if v, err := strconv.Unquote(raw); err == nil {
			return v
		}
	}
	return raw
}

// load fetches the users if nothing has been fetched yet. The view-model
// is updated through the query subscription.
func (s *Session) load(ctx context.Context) error {
	if snap := s.query.Fetch(ctx); snap.Status == types.StatusError {
		return snap.Err
	}
	return nil
}

func (s *Session) print() error {
	return render.Table(s.out, s.vm.Page(), s.vm.Columns(), s.format)
}

func (s *Session) help(context.Context, []string) error {
	_, _ = fmt.Fprintln(s.out, "Commands:")
	for _, c := range commands {
		usage := strings.TrimSpace(c.name + " " + c.args)
		_, _ = fmt.Fprintf(s.out, "  %-22s %s\n", usage, c.help)
	}
	return nil
}

func (s *Session) show(ctx context.Context, _ []string) error {
	if err := s.load(ctx); err != nil {
		return render.ErrorPanel(s.out, err)
	}
	return s.print()
}

// paging adapts a view-model mutation without arguments into a command
// that prints the page afterwards.
func paging(op func(*viewmodel.ViewModel)) func(*Session, context.Context, []string) error {
	return func(s *Session, ctx context.Context, _ []string) error {
		if err := s.load(ctx); err != nil {
			return err
		}
		op(s.vm)
		return s.print()
	}
}

func (s *Session) page(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: page N", ErrUsage)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		return fmt.Errorf("%w: page N, where N is a page number from 1", ErrUsage)
	}
	if err := s.load(ctx); err != nil {
		return err
	}
	s.vm.GoToPage(n - 1)
	return s.print()
}

func (s *Session) sort(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: sort COLUMN", ErrUsage)
	}
	if err := s.vm.CheckSortable(args[0]); err != nil {
		return err
	}
	if err := s.load(ctx); err != nil {
		return err
	}
	s.vm.SetSort(args[0])
	return s.print()
}

func (s *Session) filter(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: filter COLUMN [VALUE]", ErrUsage)
	}
	if err := s.vm.CheckFilterable(args[0]); err != nil {
		return err
	}
	if err := s.load(ctx); err != nil {
		return err
	}
	_, value := cutField(s.rest)
	s.vm.SetColumnFilter(args[0], filterValue(value))
	return s.print()
}

func (s *Session) search(ctx context.Context, args []string) error {
	if err := s.load(ctx); err != nil {
		return err
	}
	s.vm.SetGlobalFilter(filterValue(s.rest))
	return s.print()
}

func (s *Session) detail(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: detail ID", ErrUsage)
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("%w: %q", types.ErrInvalidID, args[0])
	}
	if err := s.load(ctx); err != nil {
		return err
	}
	u, err := s.vm.FindRecord(id)
	if err != nil {
		return err
	}
	return render.Detail(s.out, &u)
}

func (s *Session) columns(context.Context, []string) error {
	render.Columns(s.out, s.vm.Columns())
	return nil
}

func (s *Session) refresh(ctx context.Context, _ []string) error {
	if snap := s.query.Refetch(ctx); snap.Status == types.StatusError {
		return render.ErrorPanel(s.out, snap.Err)
	}
	return s.print()
}
