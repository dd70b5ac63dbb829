// internal/cli/bootstrap.go
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/tamzrod/plcbridge/internal/config"
	"github.com/tamzrod/plcbridge/internal/logging"
	"github.com/tamzrod/plcbridge/internal/metrics"
)

// loadConfig runs the full Load, Validate, Normalize sequence.
func loadConfig(opts *RootOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if opts.LogLevel != "" {
		cfg.Bridge.Log.Level = opts.LogLevel
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	config.Normalize(cfg)
	return cfg, nil
}

func newLogger(w io.Writer, cfg *config.Config, component string) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.Bridge.Log.Level)
	if err != nil {
		return nil, err
	}
	return logging.New(w, level, component), nil
}

// startMetrics registers collectors and serves them when a listen address
// is configured. The returned Metrics is never nil.
func startMetrics(ctx context.Context, cfg *config.Config, log *slog.Logger) *metrics.Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	if addr := cfg.Bridge.Metrics.Listen; addr != "" {
		go func() {
			if err := metrics.Serve(ctx, addr, reg, log); err != nil {
				log.Error("metrics server failed", "addr", addr, "error", err)
			}
		}()
	}
	return m
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// env is what every long-running command starts from.
type env struct {
	ctx     context.Context
	cancel  context.CancelFunc
	cfg     *config.Config
	log     *slog.Logger
	metrics *metrics.Metrics
}

// setup is the shared preamble of every long-running command.
func setup(parent context.Context, opts *RootOptions, errOut io.Writer, component string) (*env, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	log, err := newLogger(errOut, cfg, component)
	if err != nil {
		return nil, err
	}

	ctx, cancel := signalContext(parent)
	return &env{
		ctx:     ctx,
		cancel:  cancel,
		cfg:     cfg,
		log:     log,
		metrics: startMetrics(ctx, cfg, log),
	}, nil
}
