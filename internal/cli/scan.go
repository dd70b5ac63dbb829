// internal/cli/scan.go
package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/tamzrod/plcbridge/internal/controller"
	"github.com/tamzrod/plcbridge/internal/scan"
	"github.com/tamzrod/plcbridge/internal/store"
)

// NewScanCommand creates the scan command.
func NewScanCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "Drive the controller between the inbound and outbound slots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, rootOpts)
		},
	}
}

func runScan(cmd *cobra.Command, opts *RootOptions) error {
	e, err := setup(cmd.Context(), opts, cmd.ErrOrStderr(), "scan")
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

	if ro := controller.ReadOnlyAreas(b.Controller); len(ro) > 0 {
		e.log.Warn("inbound values for these areas will be rejected: their Modbus tables are read-only",
			"areas", ro,
		)
	}

	rt, err := controller.Build(b.Controller)
	if err != nil {
		return err
	}

	d, err := scan.New(scan.Config{
		Period:  time.Duration(b.Scan.PeriodMs) * time.Millisecond,
		Outputs: b.Scan.Outputs,
	}, rt, st, e.log, e.metrics)
	if err != nil {
		return err
	}

	e.log.Info("starting",
		"controller", b.Controller.Kind,
		"store", b.Store.Backend,
	)
	return d.Run(e.ctx)
}
