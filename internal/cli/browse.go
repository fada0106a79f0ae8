package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/usertable/internal/logging"
	"github.com/mesh-intelligence/usertable/internal/tui"
	"github.com/mesh-intelligence/usertable/pkg/viewmodel"
)

func newBrowseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Explore the users table interactively",
		Long: `Browse opens a full-screen table. Keys:
  n/→ p/←   next and previous page
  / e g     filter names, filter emails, search all columns
  s m       sort by name, sort by email (again to flip)
  enter     show details of the selected user
  r         fetch again
  esc       close details or stop editing a filter
  q         quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := a.newQuery(cmd.Context())
			if err != nil {
				return err
			}
			vm := viewmodel.New(nil, viewmodel.WithPageSize(a.cfg.PageSize))
			err = tui.Run(cmd.Context(), q, vm, logging.FromContext(cmd.Context()),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
			)
			return sysError(err)
		},
	}
}
