// internal/controller/modbus.go
package controller

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goburrow/modbus"

	"github.com/tamzrod/plcbridge/internal/iec"
	"github.com/tamzrod/plcbridge/internal/snapshot"
)

// Table is one of the four Modbus data tables.
type Table string

const (
	TableCoil            Table = "coil"
	TableDiscreteInput   Table = "discrete_input"
	TableHoldingRegister Table = "holding_register"
	TableInputRegister   Table = "input_register"
)

func (t Table) bits() bool     { return t == TableCoil || t == TableDiscreteInput }
func (t Table) writable() bool { return t == TableCoil || t == TableHoldingRegister }

// Mapping places one IEC area inside a Modbus table.
type Mapping struct {
	Table  Table
	Offset uint16
}

// DefaultAreas mirrors the OpenPLC slave device map.
func DefaultAreas() map[string]Mapping {
	return map[string]Mapping{
		"QX": {Table: TableCoil, Offset: 0},
		"IX": {Table: TableDiscreteInput, Offset: 0},
		"IW": {Table: TableInputRegister, Offset: 0},
		"QW": {Table: TableHoldingRegister, Offset: 0},
		"MW": {Table: TableHoldingRegister, Offset: 1024},
	}
}

// modbusClient is the subset of goburrow's modbus.Client the runtime uses.
type modbusClient interface {
	ReadCoils(address, quantity uint16) ([]byte, error)
	ReadDiscreteInputs(address, quantity uint16) ([]byte, error)
	ReadHoldingRegisters(address, quantity uint16) ([]byte, error)
	ReadInputRegisters(address, quantity uint16) ([]byte, error)
	WriteSingleCoil(address, value uint16) ([]byte, error)
	WriteSingleRegister(address, value uint16) ([]byte, error)
}

// ModbusConfig is minimal transport config.
type ModbusConfig struct {
	Endpoint string
	UnitID   uint8
	Timeout  time.Duration
	Areas    map[string]Mapping // overrides merged over DefaultAreas
}

// Modbus drives a PLC through its Modbus TCP server.
// It serializes requests on one connection.
type Modbus struct {
	mu      sync.Mutex
	handler *modbus.TCPClientHandler // nil in tests
	client  modbusClient
	areas   map[string]Mapping

	ctx     context.Context
	stopped bool
}

func NewModbus(cfg ModbusConfig) (*Modbus, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("controller modbus: endpoint required")
	}

	h := modbus.NewTCPClientHandler(cfg.Endpoint)
	h.Timeout = cfg.Timeout
	h.SlaveId = cfg.UnitID

	m := newModbus(modbus.NewClient(h), cfg.Areas)
	m.handler = h
	return m, nil
}

func newModbus(client modbusClient, overrides map[string]Mapping) *Modbus {
	areas := DefaultAreas()
	for code, mp := range overrides {
		areas[code] = mp
	}
	return &Modbus{
		client: client,
		areas:  areas,
		ctx:    context.Background(),
	}
}

// Start connects. A failed connect is reported but the runtime stays
// usable: goburrow dials again on the next request.
func (m *Modbus) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ctx = ctx
	m.stopped = false

	if m.handler == nil {
		return nil
	}
	if err := m.handler.Connect(); err != nil {
		return fmt.Errorf("controller modbus: connect: %w", err)
	}
	return nil
}

func (m *Modbus) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stopped = true
	if m.handler == nil {
		return nil
	}
	return m.handler.Close()
}

func (m *Modbus) ShouldStop() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopped || m.ctx.Err() != nil
}

func (m *Modbus) SetVar(name string, v snapshot.Value) error {
	mp, addr, err := m.resolve(name)
	if err != nil {
		return err
	}
	if !mp.Table.writable() {
		return fmt.Errorf("%w: %s maps to %s", ErrReadOnly, name, mp.Table)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if mp.Table.bits() {
		on, err := toBit(v)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		var coil uint16
		if on {
			coil = 0xFF00
		}
		_, err = m.client.WriteSingleCoil(addr, coil)
		return m.transportErr(name, err)
	}

	word, err := toWord(v)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	_, err = m.client.WriteSingleRegister(addr, word)
	return m.transportErr(name, err)
}

func (m *Modbus) GetVar(name string) (snapshot.Value, error) {
	mp, addr, err := m.resolve(name)
	if err != nil {
		return snapshot.Value{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var raw []byte
	switch mp.Table {
	case TableCoil:
		raw, err = m.client.ReadCoils(addr, 1)
	case TableDiscreteInput:
		raw, err = m.client.ReadDiscreteInputs(addr, 1)
	case TableHoldingRegister:
		raw, err = m.client.ReadHoldingRegisters(addr, 1)
	case TableInputRegister:
		raw, err = m.client.ReadInputRegisters(addr, 1)
	default:
		return snapshot.Value{}, fmt.Errorf("controller modbus: unsupported table %q", mp.Table)
	}
	if err != nil {
		return snapshot.Value{}, m.transportErr(name, err)
	}

	if mp.Table.bits() {
		if len(raw) < 1 {
			return snapshot.Value{}, errors.New("controller modbus: short read-bits payload")
		}
		return snapshot.Bool(raw[0]&0x01 != 0), nil
	}

	if len(raw) < 2 {
		return snapshot.Value{}, errors.New("controller modbus: short read-registers payload")
	}
	return snapshot.Int(int64(uint16(raw[0])<<8 | uint16(raw[1]))), nil
}

// ---- helpers ----

// resolve maps a located-variable name to its table and register address.
func (m *Modbus) resolve(name string) (Mapping, uint16, error) {
	a, err := iec.Parse(name)
	if err != nil {
		return Mapping{}, 0, fmt.Errorf("%w: %v", ErrUnknownVariable, err)
	}

	mp, ok := m.areas[a.Code()]
	if !ok {
		return Mapping{}, 0, fmt.Errorf("%w: %s: area %s is not mapped", ErrUnknownVariable, name, a.Code())
	}

	addr := int(mp.Offset) + a.Linear()
	if addr > 0xFFFF {
		return Mapping{}, 0, fmt.Errorf("%w: %s: address %d beyond table", ErrUnknownVariable, name, addr)
	}
	return mp, uint16(addr), nil
}

// transportErr drops the connection after a failure so the next request
// redials instead of reusing a dead socket.
func (m *Modbus) transportErr(name string, err error) error {
	if err == nil {
		return nil
	}
	var mbErr *modbus.ModbusError
	if !errors.As(err, &mbErr) && m.handler != nil {
		_ = m.handler.Close()
	}
	return fmt.Errorf("controller modbus: %s: %w", name, err)
}

func toBit(v snapshot.Value) (bool, error) {
	if b, ok := v.AsBool(); ok {
		return b, nil
	}
	if v.Kind() == snapshot.KindNumber {
		n, err := v.AsInt()
		if err == nil && (n == 0 || n == 1) {
			return n == 1, nil
		}
	}
	return false, fmt.Errorf("%w: bit needs bool or 0/1, got %s", ErrType, v)
}

func toWord(v snapshot.Value) (uint16, error) {
	n, err := v.AsInt()
	if err != nil {
		return 0, fmt.Errorf("%w: word needs an integer, got %s", ErrType, v)
	}
	if n < -32768 || n > 65535 {
		return 0, fmt.Errorf("%w: %d does not fit a 16-bit register", ErrType, n)
	}
	return uint16(n), nil
}
