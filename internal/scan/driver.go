// internal/scan/driver.go
package scan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/tamzrod/plcbridge/internal/controller"
	"github.com/tamzrod/plcbridge/internal/metrics"
	"github.com/tamzrod/plcbridge/internal/snapshot"
	"github.com/tamzrod/plcbridge/internal/status"
	"github.com/tamzrod/plcbridge/internal/store"
)

// Config is the minimal runtime config the driver needs.
type Config struct {
	Period time.Duration

	// Outputs are sentinel-free variable names, exported in this order.
	Outputs []string
}

// Driver runs the controller scan loop against the state store.
//
// Each period it applies the inbound slot to the controller and then
// writes the configured outputs to the outbound slot.
// Failures are logged and recorded; they never end the loop.
type Driver struct {
	cfg     Config
	rt      controller.Runtime
	store   store.Store
	log     *slog.Logger
	metrics *metrics.Metrics

	mu     sync.Mutex
	status status.Snapshot
}

func New(cfg Config, rt controller.Runtime, st store.Store, log *slog.Logger, m *metrics.Metrics) (*Driver, error) {
	if cfg.Period <= 0 {
		return nil, errors.New("scan: period must be > 0")
	}
	if rt == nil || st == nil {
		return nil, errors.New("scan: runtime and store required")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Driver{cfg: cfg, rt: rt, store: st, log: log, metrics: m}, nil
}

// Status returns a copy of the current lifecycle and health.
func (d *Driver) Status() status.Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.status
}

func (d *Driver) setState(s status.State) {
	d.mu.Lock()
	d.status.State = s
	d.mu.Unlock()

	d.metrics.SetScanState(uint16(s))
	d.log.Info("scan state", "state", s.String())
}

// Init starts the runtime and publishes an empty outbound snapshot, so
// subscribers never see the previous run's outputs.
// Neither failure is fatal.
func (d *Driver) Init(ctx context.Context) error {
	var errs []string

	if err := d.rt.Start(ctx); err != nil {
		errs = append(errs, fmt.Sprintf("runtime start: %v", err))
	}

	if err := d.store.Write(ctx, store.SlotOutbound, snapshot.Snapshot{}); err != nil {
		d.metrics.StoreError(string(store.SlotOutbound), "write")
		errs = append(errs, fmt.Sprintf("empty outbound: %v", err))
	}

	if len(errs) > 0 {
		return errors.New("scan: init: " + strings.Join(errs, " | "))
	}
	return nil
}

// ApplyInputs forwards every addressable inbound entry to the runtime.
// Entries go out in canonical key order; keys without the sentinel are
// skipped. One failing entry does not stop the others.
func (d *Driver) ApplyInputs(ctx context.Context) (int, error) {
	in, ok, err := d.store.Read(ctx, store.SlotInbound)
	if err != nil {
		d.metrics.StoreError(string(store.SlotInbound), "read")
		return 0, fmt.Errorf("scan: apply: %w", err)
	}
	if !ok {
		return 0, nil
	}

	var (
		applied int
		errs    []string
	)
	for _, key := range in.Keys() {
		name, ok := snapshot.Strip(key)
		if !ok {
			continue
		}
		if err := d.rt.SetVar(name, in[key]); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", name, err))
			continue
		}
		applied++
		d.metrics.VariableSet()
	}

	if len(errs) > 0 {
		return applied, errors.New("scan: apply: " + strings.Join(errs, " | "))
	}
	return applied, nil
}

// CollectOutputs reads the output set and replaces the outbound slot.
// Any read failure skips the write for this period.
func (d *Driver) CollectOutputs(ctx context.Context) (snapshot.Snapshot, error) {
	out := make(snapshot.Snapshot, len(d.cfg.Outputs))
	var errs []string

	for _, name := range d.cfg.Outputs {
		v, err := d.rt.GetVar(name)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", name, err))
			continue
		}
		out[snapshot.Attach(name)] = v
	}

	if len(errs) > 0 {
		return nil, errors.New("scan: collect: " + strings.Join(errs, " | "))
	}

	if err := d.store.Write(ctx, store.SlotOutbound, out); err != nil {
		d.metrics.StoreError(string(store.SlotOutbound), "write")
		return nil, fmt.Errorf("scan: collect: %w", err)
	}
	return out, nil
}

// Cycle performs exactly one scan period: apply, then collect.
// Collect runs even when apply failed.
func (d *Driver) Cycle(ctx context.Context) error {
	d.metrics.ScanCycle()

	var errs []string

	if _, err := d.ApplyInputs(ctx); err != nil {
		d.metrics.ScanError("apply")
		errs = append(errs, err.Error())
	}
	if _, err := d.CollectOutputs(ctx); err != nil {
		d.metrics.ScanError("collect")
		errs = append(errs, err.Error())
	}

	var err error
	if len(errs) > 0 {
		err = errors.New(strings.Join(errs, " | "))
	}

	d.mu.Lock()
	changed := d.status.Record(err)
	streak := d.status.ErrorStreak
	d.mu.Unlock()

	// Log transitions only; a stuck error would otherwise log every period.
	if changed {
		if err != nil {
			d.log.Error("scan cycle failed", "error", err, "streak", streak)
		} else {
			d.log.Info("scan cycle healthy")
		}
	}
	return err
}

// Run drives Init, the periodic loop and shutdown.
// It returns once the runtime asks to stop or ctx is done.
func (d *Driver) Run(ctx context.Context) error {
	d.setState(status.StateInit)
	if err := d.Init(ctx); err != nil {
		d.log.Warn("scan init incomplete", "error", err)
	}

	d.setState(status.StateRunning)
	d.log.Info("scan loop running", "period", d.cfg.Period, "outputs", len(d.cfg.Outputs))

	ticker := time.NewTicker(d.cfg.Period)
	defer ticker.Stop()

	for !d.rt.ShouldStop() && ctx.Err() == nil {
		_ = d.Cycle(ctx)

		select {
		case <-ctx.Done():
		case <-ticker.C:
		}
	}

	err := d.rt.Stop()
	d.setState(status.StateStopped)
	if err != nil {
		return fmt.Errorf("scan: runtime stop: %w", err)
	}
	return nil
}
