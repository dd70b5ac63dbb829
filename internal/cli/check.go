// internal/cli/check.go
package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tamzrod/plcbridge/internal/controller"
)

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the config and print it with defaults applied",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(rootOpts)
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}

			if cfg.Bridge.Broker.Password != "" {
				cfg.Bridge.Broker.Password = "********"
			}

			if ro := controller.ReadOnlyAreas(cfg.Bridge.Controller); len(ro) > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(),
					"warning: areas %s map to read-only Modbus tables; inbound values for them are rejected each scan\n",
					strings.Join(ro, ", "))
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(cfg); err != nil {
				return err
			}
			return enc.Close()
		},
	}
}
