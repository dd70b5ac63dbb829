// internal/config/config.go
package config

type Config struct {
	Bridge BridgeConfig `yaml:"bridge" toml:"bridge"`
}

type BridgeConfig struct {
	Broker     BrokerConfig     `yaml:"broker" toml:"broker"`
	Topics     TopicsConfig     `yaml:"topics" toml:"topics"`
	Store      StoreConfig      `yaml:"store" toml:"store"`
	Scan       ScanConfig       `yaml:"scan" toml:"scan"`
	Publish    PublishConfig    `yaml:"publish" toml:"publish"`
	Controller ControllerConfig `yaml:"controller" toml:"controller"`
	Metrics    MetricsConfig    `yaml:"metrics" toml:"metrics"`
	Log        LogConfig        `yaml:"log" toml:"log"`
}

// ---- BUS ----

type BrokerConfig struct {
	Host             string `yaml:"host" toml:"host"`
	Port             int    `yaml:"port" toml:"port"`
	ClientID         string `yaml:"client_id" toml:"client_id"` // empty => plcbridge-<role>-<uuid>
	KeepAliveS       int    `yaml:"keepalive_s" toml:"keepalive_s"`
	ConnectTimeoutMs int    `yaml:"connect_timeout_ms" toml:"connect_timeout_ms"`
	Username         string `yaml:"username" toml:"username"`
	Password         string `yaml:"password" toml:"password"`
}

type TopicsConfig struct {
	Inbound  string `yaml:"inbound" toml:"inbound"`
	Outbound string `yaml:"outbound" toml:"outbound"`
}

// ---- STATE STORE ----

type StoreConfig struct {
	Backend      string `yaml:"backend" toml:"backend"` // file | sqlite
	InboundPath  string `yaml:"inbound_path" toml:"inbound_path"`
	OutboundPath string `yaml:"outbound_path" toml:"outbound_path"`
	SQLitePath   string `yaml:"sqlite_path" toml:"sqlite_path"`
}

// ---- SCAN DRIVER ----

type ScanConfig struct {
	PeriodMs int `yaml:"period_ms" toml:"period_ms"`

	// Output variable set, exported every scan in this order.
	// Names may be written with or without the sentinel.
	Outputs []string `yaml:"outputs" toml:"outputs"`
}

// ---- OUTBOUND ADAPTER ----

type PublishConfig struct {
	PollIntervalMs int `yaml:"poll_interval_ms" toml:"poll_interval_ms"`

	// Watch adds file-change triggered polls on top of the interval.
	// Lowers latency; extra polls are capped at WatchMaxPerSecond.
	Watch             bool    `yaml:"watch" toml:"watch"`
	WatchMaxPerSecond float64 `yaml:"watch_max_per_second" toml:"watch_max_per_second"`
}

// ---- CONTROLLER ----

type ControllerConfig struct {
	Kind   string       `yaml:"kind" toml:"kind"` // modbus | memory
	Modbus ModbusConfig `yaml:"modbus" toml:"modbus"`
}

type ModbusConfig struct {
	Endpoint  string `yaml:"endpoint" toml:"endpoint"`
	UnitID    uint8  `yaml:"unit_id" toml:"unit_id"`
	TimeoutMs int    `yaml:"timeout_ms" toml:"timeout_ms"`

	// Per-area overrides keyed by area code (IX, QX, IW, QW, MW).
	// Missing areas keep the built-in map, where IX is a discrete input and
	// IW an input register. Both are read-only, so inbound IX/IW values are
	// rejected unless remapped to coil / holding_register here.
	Areas map[string]AreaConfig `yaml:"areas" toml:"areas"`
}

type AreaConfig struct {
	Table  string `yaml:"table" toml:"table"` // coil | discrete_input | holding_register | input_register
	Offset uint16 `yaml:"offset" toml:"offset"`
}

// ---- AMBIENT ----

type MetricsConfig struct {
	Listen string `yaml:"listen" toml:"listen"` // empty => disabled
}

type LogConfig struct {
	Level string `yaml:"level" toml:"level"`
}
