package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/usertable/internal/paths"
	"github.com/mesh-intelligence/usertable/pkg/types"
)

const configHeader = `# usertable configuration
# Environment variables USERTABLE_<KEY> (e.g. USERTABLE_SOURCE_URL) and
# command-line flags override these values.

`

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a default config.yaml",
		Long:  "Create the configuration directory and write config.yaml with the default settings. An existing config.yaml is left untouched.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := os.MkdirAll(a.configDir, 0o755); err != nil {
				return sysError(fmt.Errorf("create config directory: %w", err))
			}

			path := paths.ConfigFile(a.configDir)
			written, err := writeConfigIfMissing(path, types.DefaultConfig())
			if err != nil {
				return sysError(fmt.Errorf("write config: %w", err))
			}

			if written {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			} else {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s already exists\n", path)
			}
			return nil
		},
	}
}

// writeConfigIfMissing creates config.yaml holding cfg if the file does not
// exist. written is false when the file was already there.
func writeConfigIfMissing(path string, cfg types.Config) (written bool, err error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("stat config file: %w", err)
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, append([]byte(configHeader), data...), 0o644); err != nil {
		return false, err
	}
	return true, nil
}
