package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/usertable/internal/render"
	"github.com/mesh-intelligence/usertable/pkg/types"
)

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show the details of one user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("%w: %q", types.ErrInvalidID, args[0])
			}

			q, err := a.newQuery(cmd.Context())
			if err != nil {
				return err
			}
			snap := q.Fetch(cmd.Context())
			if snap.Status == types.StatusError {
				return snap.Err
			}

			vm := a.newViewModel()
			vm.SetRecords(snap.Rows())
			u, err := vm.FindRecord(id)
			if err != nil {
				return err
			}

			if a.format == render.FormatJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(u)
			}
			return render.Detail(cmd.OutOrStdout(), &u)
		},
	}
}
