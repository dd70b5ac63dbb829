// internal/logging/logger_test.go
package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"":        slog.LevelInfo,
		"info":    slog.LevelInfo,
		"DEBUG":   slog.LevelDebug,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestNew_TextOutput(t *testing.T) {
	t.Setenv("INVOCATION_ID", "")
	if isSystemdService() {
		t.Skip("running under a systemd service")
	}

	var buf bytes.Buffer
	log := New(&buf, slog.LevelWarn, "scan")

	log.Info("hidden")
	log.Warn("shown", "slot", "inbound-state")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "msg=shown")
	assert.Contains(t, out, "component=scan")
	assert.Contains(t, out, "slot=inbound-state")
}

func TestBuild_FansOutToEverySink(t *testing.T) {
	var term, journal bytes.Buffer
	log := build("outbound",
		slog.NewTextHandler(&term, nil),
		slog.NewTextHandler(&journal, nil),
	)

	log.Info("published", "topic", "plc/output")

	for _, out := range []string{term.String(), journal.String()} {
		assert.Contains(t, out, "msg=published")
		assert.Contains(t, out, "component=outbound")
		assert.Contains(t, out, "topic=plc/output")
	}
}

func TestSinks(t *testing.T) {
	var journalBuf bytes.Buffer
	reachable := func() (slog.Handler, error) {
		return slog.NewTextHandler(&journalBuf, &slog.HandlerOptions{Level: slog.LevelDebug}), nil
	}
	unreachable := func() (slog.Handler, error) {
		return nil, errors.New("no journal socket")
	}

	t.Run("terminal with journal", func(t *testing.T) {
		journalBuf.Reset()
		var term bytes.Buffer
		hs := sinks(&term, slog.LevelInfo, false, reachable)
		require.Len(t, hs, 2)

		log := build("scan", hs...)
		log.Debug("dropped")
		log.Info("both")

		assert.Contains(t, term.String(), "msg=both")
		assert.Contains(t, journalBuf.String(), "msg=both")
		assert.NotContains(t, journalBuf.String(), "dropped")
	})

	t.Run("terminal without journal", func(t *testing.T) {
		var term bytes.Buffer
		hs := sinks(&term, slog.LevelInfo, false, unreachable)
		require.Len(t, hs, 1)
		assert.Empty(t, term.String())
	})

	t.Run("systemd with journal", func(t *testing.T) {
		var term bytes.Buffer
		hs := sinks(&term, slog.LevelInfo, true, reachable)
		require.Len(t, hs, 1)
		build("", hs...).Info("journal only")
		assert.Empty(t, term.String())
	})

	t.Run("systemd falls back to text", func(t *testing.T) {
		var term bytes.Buffer
		hs := sinks(&term, slog.LevelInfo, true, unreachable)
		require.Len(t, hs, 1)
		assert.Contains(t, term.String(), "new systemd journal handler")
	})
}

func TestLevelHandler(t *testing.T) {
	var buf bytes.Buffer
	inner := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	h := levelHandler{Handler: inner, level: slog.LevelError}

	assert.False(t, h.Enabled(context.Background(), slog.LevelWarn))
	assert.True(t, h.Enabled(context.Background(), slog.LevelError))

	wrapped := h.WithAttrs([]slog.Attr{slog.String("k", "v")}).WithGroup("g")
	assert.False(t, wrapped.Enabled(context.Background(), slog.LevelInfo))
}

func TestToJournalKey(t *testing.T) {
	assert.Equal(t, "SLOT_NAME", toJournalKey("slot.name"))
	assert.Equal(t, "ERROR", toJournalKey("error"))
}
