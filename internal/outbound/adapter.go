// internal/outbound/adapter.go
package outbound

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tamzrod/plcbridge/internal/bus"
	"github.com/tamzrod/plcbridge/internal/metrics"
	"github.com/tamzrod/plcbridge/internal/snapshot"
	"github.com/tamzrod/plcbridge/internal/store"
)

// Config is the minimal runtime config the adapter needs.
type Config struct {
	Topic        string
	PollInterval time.Duration

	// WatchPath enables change-triggered polls on that file.
	// Empty disables watch mode.
	WatchPath         string
	WatchMaxPerSecond float64
}

// Adapter publishes the outbound slot whenever its canonical form changes.
//
// The fingerprint lives in memory only. A fresh adapter starts with none
// and publishes the current slot once.
type Adapter struct {
	cfg     Config
	pub     bus.Publisher
	store   store.Store
	log     *slog.Logger
	metrics *metrics.Metrics

	last []byte
}

func New(cfg Config, pub bus.Publisher, st store.Store, log *slog.Logger, m *metrics.Metrics) (*Adapter, error) {
	if cfg.Topic == "" {
		return nil, errors.New("outbound: topic required")
	}
	if cfg.PollInterval <= 0 {
		return nil, errors.New("outbound: poll interval must be > 0")
	}
	if pub == nil || st == nil {
		return nil, errors.New("outbound: publisher and store required")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Adapter{cfg: cfg, pub: pub, store: st, log: log, metrics: m}, nil
}

// Tick performs exactly one read-compare-publish step.
// It reports whether a publication happened.
func (a *Adapter) Tick(ctx context.Context) (bool, error) {
	snap, ok, err := a.store.Read(ctx, store.SlotOutbound)
	if err != nil {
		a.metrics.StoreError(string(store.SlotOutbound), "read")
		return false, fmt.Errorf("outbound: %w", err)
	}
	if !ok {
		return false, nil
	}

	data, err := snapshot.Canonical(snap)
	if err != nil {
		return false, fmt.Errorf("outbound: encode: %w", err)
	}

	if a.last != nil && bytes.Equal(a.last, data) {
		a.metrics.Suppress()
		return false, nil
	}

	if err := a.pub.Publish(ctx, a.cfg.Topic, data); err != nil {
		a.metrics.PublishFailed()
		return false, fmt.Errorf("outbound: %w", err)
	}

	// Commit only after the broker accepted it.
	a.last = data
	a.metrics.Published()
	return true, nil
}

// Run polls at the configured interval until ctx is done, then closes the
// publisher. Errors are logged and never end the loop.
func (a *Adapter) Run(ctx context.Context) error {
	defer a.pub.Close()

	var trigger <-chan struct{}
	if a.cfg.WatchPath != "" {
		w, err := newWatcher(a.cfg.WatchPath, a.cfg.WatchMaxPerSecond, a.log)
		if err != nil {
			a.log.Warn("watch mode unavailable, polling only", "path", a.cfg.WatchPath, "error", err)
		} else {
			defer w.Close()
			go w.run(ctx)
			trigger = w.C
		}
	}

	ticker := time.NewTicker(a.cfg.PollInterval)
	defer ticker.Stop()

	a.log.Info("outbound adapter running",
		"topic", a.cfg.Topic,
		"interval", a.cfg.PollInterval,
		"watch", trigger != nil,
	)

	a.step(ctx)
	for {
		select {
		case <-ctx.Done():
			a.log.Info("outbound adapter stopping")
			return nil
		case <-ticker.C:
			a.step(ctx)
		case <-trigger:
			a.step(ctx)
		}
	}
}

func (a *Adapter) step(ctx context.Context) {
	published, err := a.Tick(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		a.log.Error("outbound poll failed", "error", err)
		return
	}
	if published {
		a.log.Debug("outbound published", "topic", a.cfg.Topic)
	}
}
