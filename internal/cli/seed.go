package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/usertable/internal/logging"
	"github.com/mesh-intelligence/usertable/internal/paths"
	"github.com/mesh-intelligence/usertable/internal/source"
	"github.com/mesh-intelligence/usertable/pkg/types"
)

func newSeedCmd(a *app) *cobra.Command {
	var input, db string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load users into a SQLite database for the sqlite source",
		Long: `Seed reads users from --input (a JSON array or JSONL file), or from the
configured source when --input is not given, and writes them into the users
table of a SQLite database. Rows with an existing id are replaced.

Example:
  usertable seed --input users.json --db users.db
  usertable list --source sqlite --file users.db`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.FromContext(cmd.Context())

			var src types.DataSource
			if input != "" {
				src = source.NewFileSource(input, logger)
			} else {
				var err error
				if src, err = source.New(a.cfg.Source, logger); err != nil {
					return err
				}
			}

			configured := ""
			if a.cfg.Source.Kind == types.SourceSQLite {
				configured = a.cfg.Source.Path
			}
			path, err := paths.ResolveDatabasePath(db, configured, a.configDir)
			if err != nil {
				return sysError(err)
			}

			users, err := src.FetchRecords(cmd.Context())
			if err != nil {
				return err
			}

			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return sysError(fmt.Errorf("create database directory: %w", err))
			}
			if err := source.Seed(cmd.Context(), path, users); err != nil {
				return sysError(err)
			}

			logger.Info("seeded users", slog.Int("count", len(users)), slog.String("db", path))
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d users into %s\n", len(users), path)
			return nil
		},
	}
	cmd.Flags().StringVar(&input, "input", "", "users file to load (default: the configured source)")
	cmd.Flags().StringVar(&db, "db", "", "database to write (default: users.db in the config directory)")
	return cmd
}
