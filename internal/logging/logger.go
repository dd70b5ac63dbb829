// internal/logging/logger.go
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"strings"
	"time"

	slogmulti "github.com/samber/slog-multi"
	slogjournal "github.com/systemd/slog-journal"
)

// ParseLevel maps debug|info|warn|error to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("logging: unknown level %q", s)
	}
}

// New builds the process logger.
// Outside systemd it writes text to w and, when a journal is reachable, to
// the journal as well. Under a systemd service stderr already lands in the
// journal, so only the journal handler is used, with w as the fallback.
func New(w io.Writer, level slog.Leveler, component string) *slog.Logger {
	return build(component, sinks(w, level, isSystemdService(), newJournalHandler)...)
}

// sinks picks the handlers to fan out to.
func sinks(w io.Writer, level slog.Leveler, underSystemd bool, journal func() (slog.Handler, error)) []slog.Handler {
	var handlers []slog.Handler

	textHandler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	if !underSystemd {
		handlers = append(handlers, textHandler)
	}

	journalHandler, err := journal()
	if err != nil {
		if underSystemd {
			record := slog.NewRecord(time.Now(), slog.LevelWarn, "new systemd journal handler", 0)
			record.Add("error", err)
			_ = textHandler.Handle(context.Background(), record)
			handlers = append(handlers, textHandler)
		}
		return handlers
	}

	return append(handlers, levelHandler{Handler: journalHandler, level: level})
}

func build(component string, handlers ...slog.Handler) *slog.Logger {
	logger := slog.New(slogmulti.Fanout(handlers...))
	if component != "" {
		logger = logger.With("component", component)
	}
	return logger
}

func newJournalHandler() (slog.Handler, error) {
	return slogjournal.NewHandler(&slogjournal.Options{
		ReplaceGroup: func(key string) string {
			return toJournalKey(key)
		},
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			a.Key = toJournalKey(a.Key)
			return a
		},
	})
}

// Discard returns a logger that drops everything. Used by tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// levelHandler drops records below level before they reach the inner handler.
type levelHandler struct {
	slog.Handler
	level slog.Leveler
}

func (h levelHandler) Enabled(ctx context.Context, l slog.Level) bool {
	return l >= h.level.Level() && h.Handler.Enabled(ctx, l)
}

func (h levelHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return levelHandler{Handler: h.Handler.WithAttrs(attrs), level: h.level}
}

func (h levelHandler) WithGroup(name string) slog.Handler {
	return levelHandler{Handler: h.Handler.WithGroup(name), level: h.level}
}

func toJournalKey(str string) string {
	str = strings.ToUpper(str)
	return strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			return r
		}
		return '_'
	}, str)
}

func isSystemdService() bool {
	if os.Getenv("INVOCATION_ID") != "" {
		return true
	}
	content, err := os.ReadFile("/proc/self/cgroup")
	if err != nil {
		return false
	}
	parts := strings.Split(strings.TrimSpace(string(content)), ":")
	if len(parts) < 3 {
		return false
	}
	return strings.HasSuffix(path.Dir(parts[2]), ".service") || strings.HasSuffix(parts[2], ".service")
}
