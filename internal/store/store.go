// internal/store/store.go
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/tamzrod/plcbridge/internal/snapshot"
)

// Slot names one atomically replaceable unit of shared state.
type Slot string

const (
	SlotInbound  Slot = "inbound-state"
	SlotOutbound Slot = "outbound-state"
)

var (
	// ErrMalformed wraps content that exists but does not decode.
	ErrMalformed = errors.New("store: malformed slot content")

	// ErrUnknownSlot is returned for slots the backend was not configured with.
	ErrUnknownSlot = errors.New("store: unknown slot")
)

// Store is the rendezvous point between the bridge processes.
//
// Write replaces the whole slot; no reader ever sees a partial write.
// Read reports ok=false when the slot is absent or empty. Malformed
// content is also absent, with a non-nil error the caller should log.
type Store interface {
	Write(ctx context.Context, slot Slot, s snapshot.Snapshot) error
	Read(ctx context.Context, slot Slot) (snapshot.Snapshot, bool, error)
}

// decodeSlot turns stored bytes into a snapshot following the Read contract.
func decodeSlot(slot Slot, raw []byte) (snapshot.Snapshot, bool, error) {
	if len(raw) == 0 {
		return nil, false, nil
	}
	s, err := snapshot.Decode(raw)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %s: %v", ErrMalformed, slot, err)
	}
	return s, true, nil
}
