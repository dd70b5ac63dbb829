// internal/inbound/adapter.go
package inbound

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tamzrod/plcbridge/internal/bus"
	"github.com/tamzrod/plcbridge/internal/metrics"
	"github.com/tamzrod/plcbridge/internal/snapshot"
	"github.com/tamzrod/plcbridge/internal/store"
)

// Result labels for the inbound message counter.
const (
	ResultWritten    = "written"
	ResultRejected   = "rejected"
	ResultWriteError = "write_error"
)

// Config is the minimal runtime config the adapter needs.
type Config struct {
	Topic string
}

// Adapter writes every accepted bus payload into the inbound slot.
// It is lenient: keys without the sentinel are reported, not removed.
// Filtering happens in the scan driver.
type Adapter struct {
	cfg     Config
	sub     bus.Subscriber
	store   store.Store
	log     *slog.Logger
	metrics *metrics.Metrics
}

func New(cfg Config, sub bus.Subscriber, st store.Store, log *slog.Logger, m *metrics.Metrics) (*Adapter, error) {
	if cfg.Topic == "" {
		return nil, fmt.Errorf("inbound: topic required")
	}
	if sub == nil || st == nil {
		return nil, fmt.Errorf("inbound: subscriber and store required")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Adapter{cfg: cfg, sub: sub, store: st, log: log, metrics: m}, nil
}

// HandlePayload processes one message.
// Rejected payloads leave the slot untouched. The returned error is for
// callers and tests; the subscription path only logs it.
func (a *Adapter) HandlePayload(ctx context.Context, payload []byte) error {
	snap, err := snapshot.Decode(payload)
	if err != nil {
		attrs := []any{"topic", a.cfg.Topic, "error", err}
		if rej, ok := snapshot.AsRejection(err); ok {
			attrs = append(attrs, "reason", rej.Reason)
		}
		a.log.Warn("inbound payload rejected", attrs...)
		a.metrics.Inbound(ResultRejected)
		return err
	}

	if bad := snapshot.MalformedKeys(snap); len(bad) > 0 {
		a.log.Warn("inbound keys missing sentinel",
			"sentinel", snapshot.Sentinel,
			"keys", bad,
		)
		a.metrics.Malformed(len(bad))
	}

	if err := a.store.Write(ctx, store.SlotInbound, snap); err != nil {
		a.log.Error("inbound slot write failed", "error", err)
		a.metrics.Inbound(ResultWriteError)
		a.metrics.StoreError(string(store.SlotInbound), "write")
		return fmt.Errorf("inbound: %w", err)
	}

	a.metrics.Inbound(ResultWritten)
	a.log.Debug("inbound slot written", "keys", len(snap))
	return nil
}

// Run subscribes and blocks until ctx is done, then closes the transport.
func (a *Adapter) Run(ctx context.Context) error {
	defer a.sub.Close()

	if err := a.sub.Subscribe(ctx, a.cfg.Topic, func(ctx context.Context, payload []byte) {
		_ = a.HandlePayload(ctx, payload)
	}); err != nil {
		return fmt.Errorf("inbound: %w", err)
	}
	a.log.Info("inbound adapter running", "topic", a.cfg.Topic)

	<-ctx.Done()
	a.log.Info("inbound adapter stopping")
	return nil
}
