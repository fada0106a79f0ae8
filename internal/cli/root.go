// Package cli implements the usertable command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/usertable/internal/logging"
	"github.com/mesh-intelligence/usertable/internal/paths"
	"github.com/mesh-intelligence/usertable/internal/render"
	"github.com/mesh-intelligence/usertable/internal/source"
	"github.com/mesh-intelligence/usertable/pkg/types"
	"github.com/mesh-intelligence/usertable/pkg/viewmodel"
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	source    string
	url       string
	file      string
	pageSize  int
	logLevel  string
	logFormat string
	format    string
}

// app is the state shared by one invocation of the command tree.
type app struct {
	flags     rootFlags
	configDir string
	cfg       types.Config
	format    string
}

// NewRootCmd creates the top-level "usertable" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "usertable",
		Short: "Browse a list of users as a sortable, filterable table",
		Long: `usertable fetches a list of users once, keeps it in memory, and shows it as
a table you can sort, filter and page through. Print a page with list, look
at one user with show, or explore interactively with browse or repl.`,
		Version:           Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: $(CWD)/.usertable if present, else the platform config dir)")
	pf.StringVar(&a.flags.source, "source", "", "data source: http, file or sqlite")
	pf.StringVar(&a.flags.url, "url", "", "users endpoint for the http source")
	pf.StringVar(&a.flags.file, "file", "", "users file or database for the file and sqlite sources")
	pf.IntVar(&a.flags.pageSize, "page-size", 0, "rows per page")
	pf.StringVar(&a.flags.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVar(&a.flags.logFormat, "log-format", "", "log format: text or json")
	pf.StringVar(&a.flags.format, "format", render.FormatTable, "output format: table, json, csv, markdown")

	root.AddCommand(
		newVersionCmd(),
		newInitCmd(a),
		newListCmd(a),
		newShowCmd(a),
		newBrowseCmd(a),
		newREPLCmd(a),
		newSeedCmd(a),
	)
	return root
}

// setup resolves the config directory, loads the configuration and puts the
// logger in the command context.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if cmd.Name() == "version" {
		return nil
	}

	dir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return sysError(fmt.Errorf("resolve config dir: %w", err))
	}
	a.configDir = dir

	cfg, err := loadConfig(dir, cmd.Flags())
	if err != nil {
		return err
	}
	a.cfg = cfg

	format, err := render.ParseFormat(a.flags.format)
	if err != nil {
		return err
	}
	a.format = format

	logger, err := logging.New(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	logger = logger.With(slog.String("command", cmd.Name()))
	cmd.SetContext(logging.WithLogger(cmd.Context(), logger))

	logger.Debug("config loaded",
		slog.String("config_dir", dir),
		slog.String("source", cfg.Source.Kind),
		slog.Int("page_size", cfg.PageSize),
	)
	return nil
}

// newQuery creates the cached query over the configured source, logging
// through the logger in ctx.
func (a *app) newQuery(ctx context.Context) (*source.Query, error) {
	logger := logging.FromContext(ctx)
	src, err := source.New(a.cfg.Source, logger)
	if err != nil {
		return nil, err
	}
	return source.NewQuery(src, logger), nil
}

// lineColumns is the column set of the line-oriented commands: the default
// table led by the numeric id that show and detail take.
func lineColumns() []viewmodel.Column {
	return append([]viewmodel.Column{viewmodel.IDColumn()}, viewmodel.DefaultColumns()...)
}

// newViewModel creates the view-model of list, show and repl.
func (a *app) newViewModel() *viewmodel.ViewModel {
	return viewmodel.New(lineColumns(), viewmodel.WithPageSize(a.cfg.PageSize))
}

// Run executes the command tree with args and returns the process exit
// code. Errors are printed to stderr.
func Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return exitCode(err)
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	os.Exit(Run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
