// internal/outbound/watch_test.go
package outbound

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamzrod/plcbridge/internal/logging"
)

func TestWatcher_SignalsOnTargetOnly(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "output.json")

	w, err := newWatcher(target, 100, logging.Discard())
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.run(ctx)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.json"), []byte(`{}`), 0o644))
	select {
	case <-w.C:
		t.Fatal("unrelated file triggered a poll")
	case <-time.After(100 * time.Millisecond):
	}

	require.NoError(t, os.WriteFile(target, []byte(`{}`), 0o644))
	select {
	case <-w.C:
	case <-time.After(2 * time.Second):
		t.Fatal("no trigger for target file")
	}
}

func TestWatcher_RateBound(t *testing.T) {
	dir := t.TempDir()

	w, err := newWatcher(filepath.Join(dir, "output.json"), 0.001, logging.Discard())
	require.NoError(t, err)
	defer w.Close()

	assert.True(t, w.offer())
	<-w.C
	assert.False(t, w.offer())
}

func TestWatcher_MissingDir(t *testing.T) {
	_, err := newWatcher(filepath.Join(t.TempDir(), "nope", "output.json"), 10, logging.Discard())
	assert.Error(t, err)
}
