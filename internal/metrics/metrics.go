// internal/metrics/metrics.go
package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the bridge collectors. A nil *Metrics is valid and
// records nothing, so components never need to check.
type Metrics struct {
	ScanCycles     prometheus.Counter
	ScanErrors     *prometheus.CounterVec // phase=apply|collect
	ScanState      prometheus.Gauge
	VariablesSet   prometheus.Counter
	InboundResults *prometheus.CounterVec // result=written|rejected|write_error
	MalformedKeys  prometheus.Counter
	Publications   prometheus.Counter
	Suppressed     prometheus.Counter
	PublishErrors  prometheus.Counter
	StoreErrors    *prometheus.CounterVec // slot, op=read|write
}

// New registers the bridge collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ScanCycles: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "plcbridge", Subsystem: "scan", Name: "cycles_total",
			Help: "Scan periods executed.",
		}),
		ScanErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "plcbridge", Subsystem: "scan", Name: "errors_total",
			Help: "Scan periods that logged an error, by phase.",
		}, []string{"phase"}),
		ScanState: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "plcbridge", Subsystem: "scan", Name: "state",
			Help: "Scan driver lifecycle state (0=INIT 1=RUNNING 2=STOPPED).",
		}),
		VariablesSet: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "plcbridge", Subsystem: "scan", Name: "variables_set_total",
			Help: "Controller variables written from the inbound slot.",
		}),
		InboundResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "plcbridge", Subsystem: "inbound", Name: "messages_total",
			Help: "Inbound bus messages, by outcome.",
		}, []string{"result"}),
		MalformedKeys: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "plcbridge", Subsystem: "inbound", Name: "malformed_keys_total",
			Help: "Keys without the sentinel prefix seen in inbound payloads.",
		}),
		Publications: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "plcbridge", Subsystem: "outbound", Name: "publications_total",
			Help: "Outbound snapshots published.",
		}),
		Suppressed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "plcbridge", Subsystem: "outbound", Name: "suppressed_total",
			Help: "Polls skipped because the snapshot was unchanged.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "plcbridge", Subsystem: "outbound", Name: "publish_errors_total",
			Help: "Failed publish attempts.",
		}),
		StoreErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "plcbridge", Subsystem: "store", Name: "errors_total",
			Help: "State store failures, by slot and operation.",
		}, []string{"slot", "op"}),
	}

	reg.MustRegister(
		m.ScanCycles, m.ScanErrors, m.ScanState, m.VariablesSet,
		m.InboundResults, m.MalformedKeys,
		m.Publications, m.Suppressed, m.PublishErrors,
		m.StoreErrors,
	)
	return m
}

func (m *Metrics) ScanCycle() {
	if m != nil {
		m.ScanCycles.Inc()
	}
}

func (m *Metrics) ScanError(phase string) {
	if m != nil {
		m.ScanErrors.WithLabelValues(phase).Inc()
	}
}

func (m *Metrics) SetScanState(v uint16) {
	if m != nil {
		m.ScanState.Set(float64(v))
	}
}

func (m *Metrics) VariableSet() {
	if m != nil {
		m.VariablesSet.Inc()
	}
}

func (m *Metrics) Inbound(result string) {
	if m != nil {
		m.InboundResults.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) Malformed(n int) {
	if m != nil {
		m.MalformedKeys.Add(float64(n))
	}
}

func (m *Metrics) Published() {
	if m != nil {
		m.Publications.Inc()
	}
}

func (m *Metrics) Suppress() {
	if m != nil {
		m.Suppressed.Inc()
	}
}

func (m *Metrics) PublishFailed() {
	if m != nil {
		m.PublishErrors.Inc()
	}
}

func (m *Metrics) StoreError(slot, op string) {
	if m != nil {
		m.StoreErrors.WithLabelValues(slot, op).Inc()
	}
}

// Serve exposes /metrics on addr until ctx is done.
func Serve(ctx context.Context, addr string, g prometheus.Gatherer, log *slog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info("metrics listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
