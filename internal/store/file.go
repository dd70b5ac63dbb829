// internal/store/file.go
package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/tamzrod/plcbridge/internal/snapshot"
)

const defaultFileMode fs.FileMode = 0o644

// FileStore keeps each slot in its own file and replaces it by rename.
type FileStore struct {
	paths map[Slot]string
	mode  fs.FileMode
}

// NewFileStore maps slots to file paths. Parent directories are created.
func NewFileStore(paths map[Slot]string) (*FileStore, error) {
	if len(paths) == 0 {
		return nil, errors.New("store: at least one slot path required")
	}

	cp := make(map[Slot]string, len(paths))
	for slot, p := range paths {
		if p == "" {
			return nil, fmt.Errorf("store: empty path for slot %s", slot)
		}
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			return nil, fmt.Errorf("store: slot %s: %w", slot, err)
		}
		cp[slot] = p
	}

	return &FileStore{paths: cp, mode: defaultFileMode}, nil
}

// Path returns the file backing slot.
func (f *FileStore) Path(slot Slot) (string, error) {
	p, ok := f.paths[slot]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownSlot, slot)
	}
	return p, nil
}

func (f *FileStore) Write(ctx context.Context, slot Slot, s snapshot.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := f.Path(slot)
	if err != nil {
		return err
	}

	data, err := snapshot.Canonical(s)
	if err != nil {
		return fmt.Errorf("store: encode %s: %w", slot, err)
	}

	if err := writeAtomic(path, data, f.mode); err != nil {
		return fmt.Errorf("store: write %s: %w", slot, err)
	}
	return nil
}

func (f *FileStore) Read(ctx context.Context, slot Slot) (snapshot.Snapshot, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	path, err := f.Path(slot)
	if err != nil {
		return nil, false, err
	}

	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("store: read %s: %w", slot, err)
	}

	return decodeSlot(slot, raw)
}

// writeAtomic writes data next to path, flushes it to disk and renames it
// over path. A crash before the rename leaves path untouched and orphans
// the temp file.
func writeAtomic(path string, data []byte, mode fs.FileMode) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}
	committed = true

	// Persist the rename itself. Not every platform supports this.
	if d, err := os.Open(dir); err == nil {
		_ = d.Sync()
		_ = d.Close()
	}

	return nil
}
