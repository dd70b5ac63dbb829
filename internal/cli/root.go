// internal/cli/root.go
package cli

import (
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	LogLevel   string // overrides bridge.log.level when set
}

// NewRootCommand creates the plcbridge command tree.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "plcbridge",
		Short: "Bridge a PLC runtime to an MQTT broker",
		Long: `plcbridge connects a PLC runtime to an MQTT broker through two state slots.

Run one process per role: "inbound" writes bus messages into the inbound
slot, "scan" drives the controller between the slots, and "outbound"
publishes the outbound slot whenever it changes.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "config file (.yaml or .toml); built-in defaults when empty")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "log level (debug|info|warn|error)")

	cmd.AddCommand(NewScanCommand(opts))
	cmd.AddCommand(NewInboundCommand(opts))
	cmd.AddCommand(NewOutboundCommand(opts))
	cmd.AddCommand(NewCheckCommand(opts))

	return cmd
}
