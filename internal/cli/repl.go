package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/usertable/internal/logging"
	"github.com/mesh-intelligence/usertable/internal/paths"
	"github.com/mesh-intelligence/usertable/internal/repl"
)

func newREPLCmd(a *app) *cobra.Command {
	var noHistory bool

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Drive the users table with line commands",
		Long:  "Repl starts a line-oriented session. Type help for the command list.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := a.newQuery(cmd.Context())
			if err != nil {
				return err
			}
			session := repl.NewSession(q, a.newViewModel(), cmd.OutOrStdout(),
				repl.WithFormat(a.format),
				repl.WithLogger(logging.FromContext(cmd.Context())),
			)
			defer session.Close()

			cfg := repl.Config{
				Stdout: cmd.OutOrStdout(),
				Stderr: cmd.ErrOrStderr(),
			}
			if in := cmd.InOrStdin(); in != os.Stdin {
				cfg.Stdin = io.NopCloser(in)
				cfg.Interactive = func() bool { return false }
			}
			if !noHistory {
				if info, err := os.Stat(a.configDir); err == nil && info.IsDir() {
					cfg.HistoryFile = paths.HistoryFile(a.configDir)
				}
			}
			return sysError(repl.Run(cmd.Context(), session, cfg))
		},
	}
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "do not read or write the history file")
	return cmd
}
