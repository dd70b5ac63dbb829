// internal/config/validate.go
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/tamzrod/plcbridge/internal/iec"
	"github.com/tamzrod/plcbridge/internal/snapshot"
)

// Known option values.
var (
	StoreBackends   = []string{"file", "sqlite"}
	ControllerKinds = []string{"modbus", "memory"}
	ModbusTables    = []string{"coil", "discrete_input", "holding_register", "input_register"}
	LogLevels       = []string{"debug", "info", "warn", "error"}
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
// Zero values are accepted; Normalize replaces them with defaults.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config: nil config")
	}
	b := cfg.Bridge

	// ------------------------------------------------------------
	// BUS
	// ------------------------------------------------------------

	if b.Broker.Port < 0 || b.Broker.Port > 65535 {
		return fmt.Errorf("broker.port %d out of range", b.Broker.Port)
	}
	if b.Broker.KeepAliveS < 0 {
		return fmt.Errorf("broker.keepalive_s must be >= 0")
	}
	if b.Broker.ConnectTimeoutMs < 0 {
		return fmt.Errorf("broker.connect_timeout_ms must be >= 0")
	}
	if b.Topics.Inbound != "" && b.Topics.Inbound == b.Topics.Outbound {
		return fmt.Errorf("topics.inbound and topics.outbound must differ (both %q)", b.Topics.Inbound)
	}
	for _, topic := range []string{b.Topics.Inbound, b.Topics.Outbound} {
		if strings.ContainsAny(topic, "+#") {
			return fmt.Errorf("topic %q must not contain wildcards", topic)
		}
	}

	// ------------------------------------------------------------
	// STATE STORE
	// ------------------------------------------------------------

	if b.Store.Backend != "" && !oneOf(b.Store.Backend, StoreBackends) {
		return fmt.Errorf("store.backend %q: must be one of %v", b.Store.Backend, StoreBackends)
	}
	if b.Store.InboundPath != "" && b.Store.OutboundPath != "" &&
		filepath.Clean(b.Store.InboundPath) == filepath.Clean(b.Store.OutboundPath) {
		return fmt.Errorf("store: inbound_path and outbound_path must differ (both %q)", b.Store.InboundPath)
	}

	// ------------------------------------------------------------
	// TIMING
	// ------------------------------------------------------------

	if b.Scan.PeriodMs < 0 {
		return fmt.Errorf("scan.period_ms must be >= 0")
	}
	if b.Publish.PollIntervalMs < 0 {
		return fmt.Errorf("publish.poll_interval_ms must be >= 0")
	}
	if b.Publish.WatchMaxPerSecond < 0 {
		return fmt.Errorf("publish.watch_max_per_second must be >= 0")
	}

	// ------------------------------------------------------------
	// CONTROLLER
	// ------------------------------------------------------------

	if b.Controller.Kind != "" && !oneOf(b.Controller.Kind, ControllerKinds) {
		return fmt.Errorf("controller.kind %q: must be one of %v", b.Controller.Kind, ControllerKinds)
	}
	if b.Controller.Modbus.TimeoutMs < 0 {
		return fmt.Errorf("controller.modbus.timeout_ms must be >= 0")
	}
	for code, area := range b.Controller.Modbus.Areas {
		if !oneOf(code, []string{"IX", "QX", "MX", "IW", "QW", "MW"}) {
			return fmt.Errorf("controller.modbus.areas: unknown area %q", code)
		}
		if !oneOf(area.Table, ModbusTables) {
			return fmt.Errorf("controller.modbus.areas[%s]: table %q must be one of %v", code, area.Table, ModbusTables)
		}
		bitArea := strings.HasSuffix(code, "X")
		bitTable := area.Table == "coil" || area.Table == "discrete_input"
		if bitArea != bitTable {
			return fmt.Errorf("controller.modbus.areas[%s]: table %q has the wrong width", code, area.Table)
		}
	}

	// ------------------------------------------------------------
	// OUTPUT VARIABLE SET
	// ------------------------------------------------------------

	// Addresses are only checked when the controller speaks IEC addresses.
	strict := b.Controller.Kind == "" || b.Controller.Kind == "modbus"

	seen := make(map[string]int)
	for i, raw := range b.Scan.Outputs {
		name := strings.TrimPrefix(raw, snapshot.Sentinel)
		if name == "" {
			return fmt.Errorf("scan.outputs[%d]: empty variable name", i)
		}
		if prev, dup := seen[name]; dup {
			return fmt.Errorf("scan.outputs[%d]: %q duplicates scan.outputs[%d]", i, raw, prev)
		}
		seen[name] = i

		if strict {
			if _, err := iec.Parse(name); err != nil {
				return fmt.Errorf("scan.outputs[%d]: %w", i, err)
			}
		}
	}

	if b.Log.Level != "" && !oneOf(strings.ToLower(b.Log.Level), LogLevels) {
		return fmt.Errorf("log.level %q: must be one of %v", b.Log.Level, LogLevels)
	}

	return nil
}

func oneOf(v string, set []string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
