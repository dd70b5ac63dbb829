// internal/config/normalize.go
package config

import (
	"strings"

	"github.com/tamzrod/plcbridge/internal/snapshot"
)

// Defaults used when an option is left at its zero value.
const (
	DefaultBrokerHost        = "localhost"
	DefaultBrokerPort        = 1883
	DefaultKeepAliveS        = 60
	DefaultConnectTimeoutMs  = 5000
	DefaultInboundTopic      = "plc/input"
	DefaultOutboundTopic     = "plc/output"
	DefaultStoreBackend      = "file"
	DefaultInboundPath       = "/tmp/input.json"
	DefaultOutboundPath      = "/tmp/output.json"
	DefaultSQLitePath        = "/tmp/plcbridge.db"
	DefaultScanPeriodMs      = 100
	DefaultPollIntervalMs    = 500
	DefaultWatchMaxPerSecond = 10
	DefaultControllerKind    = "modbus"
	DefaultModbusEndpoint    = "127.0.0.1:502"
	DefaultModbusTimeoutMs   = 1000
	DefaultLogLevel          = "info"
)

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}
	b := &cfg.Bridge

	// ---- bus ----
	setDefault(&b.Broker.Host, DefaultBrokerHost)
	setDefaultInt(&b.Broker.Port, DefaultBrokerPort)
	setDefaultInt(&b.Broker.KeepAliveS, DefaultKeepAliveS)
	setDefaultInt(&b.Broker.ConnectTimeoutMs, DefaultConnectTimeoutMs)
	setDefault(&b.Topics.Inbound, DefaultInboundTopic)
	setDefault(&b.Topics.Outbound, DefaultOutboundTopic)

	// ---- store ----
	setDefault(&b.Store.Backend, DefaultStoreBackend)
	setDefault(&b.Store.InboundPath, DefaultInboundPath)
	setDefault(&b.Store.OutboundPath, DefaultOutboundPath)
	setDefault(&b.Store.SQLitePath, DefaultSQLitePath)

	// ---- timing ----
	setDefaultInt(&b.Scan.PeriodMs, DefaultScanPeriodMs)
	setDefaultInt(&b.Publish.PollIntervalMs, DefaultPollIntervalMs)
	if b.Publish.WatchMaxPerSecond == 0 {
		b.Publish.WatchMaxPerSecond = DefaultWatchMaxPerSecond
	}

	// ---- controller ----
	setDefault(&b.Controller.Kind, DefaultControllerKind)
	setDefault(&b.Controller.Modbus.Endpoint, DefaultModbusEndpoint)
	setDefaultInt(&b.Controller.Modbus.TimeoutMs, DefaultModbusTimeoutMs)

	// Output names are stored sentinel-free, as the controller wants them.
	for i, name := range b.Scan.Outputs {
		b.Scan.Outputs[i] = strings.TrimPrefix(name, snapshot.Sentinel)
	}

	b.Log.Level = strings.ToLower(b.Log.Level)
	setDefault(&b.Log.Level, DefaultLogLevel)
}

func setDefault(v *string, def string) {
	if *v == "" {
		*v = def
	}
}

func setDefaultInt(v *int, def int) {
	if *v == 0 {
		*v = def
	}
}
