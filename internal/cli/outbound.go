// internal/cli/outbound.go
package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/tamzrod/plcbridge/internal/bus"
	"github.com/tamzrod/plcbridge/internal/outbound"
	"github.com/tamzrod/plcbridge/internal/store"
)

// NewOutboundCommand creates the outbound command.
func NewOutboundCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "outbound",
		Short: "Publish the outbound slot to the outbound topic when it changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOutbound(cmd, rootOpts)
		},
	}
}

func runOutbound(cmd *cobra.Command, opts *RootOptions) error {
	e, err := setup(cmd.Context(), opts, cmd.ErrOrStderr(), "outbound")
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

	ocfg := outbound.Config{
		Topic:             b.Topics.Outbound,
		PollInterval:      time.Duration(b.Publish.PollIntervalMs) * time.Millisecond,
		WatchMaxPerSecond: b.Publish.WatchMaxPerSecond,
	}
	if b.Publish.Watch {
		// Only the file backend has something to watch.
		if fs, ok := st.(*store.FileStore); ok {
			ocfg.WatchPath, _ = fs.Path(store.SlotOutbound)
		} else {
			e.log.Warn("watch mode needs the file store, polling only", "backend", b.Store.Backend)
		}
	}

	client := bus.NewMQTT(bus.FromConfig(b.Broker), "outbound", e.log)

	a, err := outbound.New(ocfg, client, st, e.log, e.metrics)
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
