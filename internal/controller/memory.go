// internal/controller/memory.go
package controller

import (
	"context"
	"fmt"
	"sync"

	"github.com/tamzrod/plcbridge/internal/iec"
	"github.com/tamzrod/plcbridge/internal/snapshot"
)

// Memory is an in-process variable space.
// Located variables that were never set read as false / 0.
type Memory struct {
	mu      sync.Mutex
	vars    map[string]snapshot.Value
	ctx     context.Context
	started bool
	stop    bool
	sets    int
}

func NewMemory() *Memory {
	return &Memory{
		vars: make(map[string]snapshot.Value),
		ctx:  context.Background(),
	}
}

func (m *Memory) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ctx = ctx
	m.started = true
	m.stop = false
	return nil
}

func (m *Memory) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.started = false
	m.stop = true
	return nil
}

// RequestStop raises the should-stop flag without stopping the runtime.
func (m *Memory) RequestStop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stop = true
}

func (m *Memory) ShouldStop() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stop || m.ctx.Err() != nil
}

func (m *Memory) Started() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.started
}

func (m *Memory) SetVar(name string, v snapshot.Value) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrUnknownVariable)
	}
	if !v.IsValid() {
		return fmt.Errorf("%w: %s", ErrType, name)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.vars[name] = v
	m.sets++
	return nil
}

func (m *Memory) GetVar(name string) (snapshot.Value, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if v, ok := m.vars[name]; ok {
		return v, nil
	}

	addr, err := iec.Parse(name)
	if err != nil {
		return snapshot.Value{}, fmt.Errorf("%w: %s", ErrUnknownVariable, name)
	}
	if addr.Size == iec.SizeBit {
		return snapshot.Bool(false), nil
	}
	return snapshot.Int(0), nil
}

// Vars returns a copy of every variable that was set.
func (m *Memory) Vars() map[string]snapshot.Value {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string]snapshot.Value, len(m.vars))
	for k, v := range m.vars {
		out[k] = v
	}
	return out
}

// SetCount reports how many SetVar calls succeeded.
func (m *Memory) SetCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sets
}
