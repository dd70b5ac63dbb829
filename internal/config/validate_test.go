// internal/config/validate_test.go
package config

import (
	"strings"
	"testing"
)

// helper to build a config quickly
func bridge(outputs ...string) *Config {
	return &Config{
		Bridge: BridgeConfig{
			Scan: ScanConfig{Outputs: outputs},
		},
	}
}

// ---- tests ----

func TestValidate_EmptyConfigIsValid(t *testing.T) {
	if err := Validate(&Config{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_OutputsWithAndWithoutSentinel(t *testing.T) {
	cfg := bridge("QX0.0", "%QX0.1", "QW2")

	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_DuplicateOutputDetected(t *testing.T) {
	cfg := bridge("QX0.0", "%QX0.0") // same variable once stripped

	err := Validate(cfg)
	if err == nil {
		t.Fatalf("expected duplicate error, got nil")
	}
	if !strings.Contains(err.Error(), "duplicates") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_MalformedOutputAddress(t *testing.T) {
	cfg := bridge("QX0.9")

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected address error, got nil")
	}
}

func TestValidate_MemoryControllerAcceptsAnyName(t *testing.T) {
	cfg := bridge("pump_speed")
	cfg.Bridge.Controller.Kind = "memory"

	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_SameSlotPathRejected(t *testing.T) {
	cfg := bridge()
	cfg.Bridge.Store.InboundPath = "/tmp/state.json"
	cfg.Bridge.Store.OutboundPath = "/tmp/../tmp/state.json"

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected slot path error, got nil")
	}
}

func TestValidate_SameTopicRejected(t *testing.T) {
	cfg := bridge()
	cfg.Bridge.Topics.Inbound = "plc/io"
	cfg.Bridge.Topics.Outbound = "plc/io"

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected topic error, got nil")
	}
}

func TestValidate_WildcardTopicRejected(t *testing.T) {
	cfg := bridge()
	cfg.Bridge.Topics.Inbound = "plc/+"

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected wildcard error, got nil")
	}
}

func TestValidate_UnknownBackendAndKind(t *testing.T) {
	cfg := bridge()
	cfg.Bridge.Store.Backend = "redis"
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected backend error, got nil")
	}

	cfg = bridge()
	cfg.Bridge.Controller.Kind = "opcua"
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected controller kind error, got nil")
	}
}

func TestValidate_NegativeTiming(t *testing.T) {
	cfg := bridge()
	cfg.Bridge.Scan.PeriodMs = -1
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected scan period error, got nil")
	}

	cfg = bridge()
	cfg.Bridge.Publish.PollIntervalMs = -5
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected poll interval error, got nil")
	}
}

func TestValidate_AreaTableWidth(t *testing.T) {
	cfg := bridge()
	cfg.Bridge.Controller.Modbus.Areas = map[string]AreaConfig{
		"IX": {Table: "coil", Offset: 100},
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg.Bridge.Controller.Modbus.Areas = map[string]AreaConfig{
		"IX": {Table: "holding_register"},
	}
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected width error, got nil")
	}

	cfg.Bridge.Controller.Modbus.Areas = map[string]AreaConfig{
		"ZW": {Table: "holding_register"},
	}
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected unknown area error, got nil")
	}
}

func TestValidate_DoesNotMutate(t *testing.T) {
	cfg := bridge("%QX0.0")

	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Bridge.Scan.Outputs[0] != "%QX0.0" {
		t.Fatalf("Validate mutated outputs: %v", cfg.Bridge.Scan.Outputs)
	}
	if cfg.Bridge.Scan.PeriodMs != 0 {
		t.Fatalf("Validate applied defaults")
	}
}
