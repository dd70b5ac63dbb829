// internal/cli/inbound.go
package cli

import (
	"github.com/spf13/cobra"

	"github.com/tamzrod/plcbridge/internal/bus"
	"github.com/tamzrod/plcbridge/internal/inbound"
	"github.com/tamzrod/plcbridge/internal/store"
)

// NewInboundCommand creates the inbound command.
func NewInboundCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "inbound",
		Short: "Write messages from the inbound topic into the inbound slot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInbound(cmd, rootOpts)
		},
	}
}

func runInbound(cmd *cobra.Command, opts *RootOptions) error {
	e, err := setup(cmd.Context(), opts, cmd.ErrOrStderr(), "inbound")
	if err != nil {
		return err
	}
	defer e.cancel()
	b := e.cfg.Bridge

	st, closeStore, err := store.Build(b.Store)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			e.log.Warn("store close failed", "error", err)
		}
	}()

	client := bus.NewMQTT(bus.FromConfig(b.Broker), "inbound", e.log)

	a, err := inbound.New(inbound.Config{Topic: b.Topics.Inbound}, client, st, e.log, e.metrics)
	if err != nil {
		client.Close()
		return err
	}

	e.log.Info("connecting", "broker", bus.FromConfig(b.Broker).BrokerURL())
	if err := client.Connect(e.ctx); err != nil {
		client.Close()
		if e.ctx.Err() != nil {
			return nil
		}
		return err
	}
	return a.Run(e.ctx)
}
