// internal/controller/builder.go
package controller

import (
	"fmt"
	"sort"
	"time"

	cfg "github.com/tamzrod/plcbridge/internal/config"
)

// Build constructs the configured runtime.
// Assumes config has already passed Validate and Normalize.
func Build(c cfg.ControllerConfig) (Runtime, error) {
	switch c.Kind {
	case "memory":
		return NewMemory(), nil

	case "", "modbus":
		return NewModbus(ModbusConfig{
			Endpoint: c.Modbus.Endpoint,
			UnitID:   c.Modbus.UnitID,
			Timeout:  time.Duration(c.Modbus.TimeoutMs) * time.Millisecond,
			Areas:    areaOverrides(c.Modbus.Areas),
		})

	default:
		return nil, fmt.Errorf("controller: unknown kind %q", c.Kind)
	}
}

// ReadOnlyAreas lists, sorted, the area codes whose Modbus table cannot be
// written. Inbound values for those areas fail with ErrReadOnly every scan.
// Other controller kinds have no read-only areas.
func ReadOnlyAreas(c cfg.ControllerConfig) []string {
	if c.Kind != "" && c.Kind != "modbus" {
		return nil
	}

	areas := DefaultAreas()
	for code, mp := range areaOverrides(c.Modbus.Areas) {
		areas[code] = mp
	}

	var out []string
	for code, mp := range areas {
		if !mp.Table.writable() {
			out = append(out, code)
		}
	}
	sort.Strings(out)
	return out
}

func areaOverrides(in map[string]cfg.AreaConfig) map[string]Mapping {
	out := make(map[string]Mapping, len(in))
	for code, a := range in {
		out[code] = Mapping{Table: Table(a.Table), Offset: a.Offset}
	}
	return out
}
