// internal/store/builder.go
package store

import (
	"fmt"

	cfg "github.com/tamzrod/plcbridge/internal/config"
)

// Build constructs the configured backend.
// The returned closer releases backend resources; it is never nil.
func Build(c cfg.StoreConfig) (Store, func() error, error) {
	switch c.Backend {
	case "", "file":
		fs, err := NewFileStore(map[Slot]string{
			SlotInbound:  c.InboundPath,
			SlotOutbound: c.OutboundPath,
		})
		if err != nil {
			return nil, nil, err
		}
		return fs, func() error { return nil }, nil

	case "sqlite":
		s, err := OpenSQLite(c.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil

	default:
		return nil, nil, fmt.Errorf("store: unknown backend %q", c.Backend)
	}
}
