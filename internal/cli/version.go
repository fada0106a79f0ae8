package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the usertable release.
const Version = "0.1.0"

const modulePath = "github.com/mesh-intelligence/usertable"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the usertable version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "usertable v%s\nmodule: %s\n", Version, modulePath)
			return nil
		},
	}
}
