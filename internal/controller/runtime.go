// internal/controller/runtime.go
package controller

import (
	"context"
	"errors"

	"github.com/tamzrod/plcbridge/internal/snapshot"
)

var (
	ErrUnknownVariable = errors.New("controller: unknown variable")
	ErrReadOnly        = errors.New("controller: variable is read-only")
	ErrType            = errors.New("controller: value has the wrong type")
)

// Runtime is everything the scan driver needs from a controller.
// Names are sentinel-free (IX0.0, not %IX0.0).
// Whether a name exists is for the runtime to decide.
type Runtime interface {
	Start(ctx context.Context) error
	Stop() error
	ShouldStop() bool

	SetVar(name string, v snapshot.Value) error
	GetVar(name string) (snapshot.Value, error)
}
