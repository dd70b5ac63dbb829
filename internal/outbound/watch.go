// internal/outbound/watch.go
package outbound

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"
)

// watcher turns changes of one file into poll triggers.
// The directory is watched, since atomic writes replace the file by rename.
type watcher struct {
	fs      *fsnotify.Watcher
	file    string
	limiter *rate.Limiter
	log     *slog.Logger

	C chan struct{}
}

func newWatcher(path string, perSecond float64, log *slog.Logger) (*watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	file := filepath.Clean(path)
	if err := fw.Add(filepath.Dir(file)); err != nil {
		_ = fw.Close()
		return nil, err
	}

	return &watcher{
		fs:      fw,
		file:    file,
		limiter: rate.NewLimiter(rate.Limit(perSecond), 1),
		log:     log,
		C:       make(chan struct{}, 1),
	}, nil
}

func (w *watcher) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.file {
				continue
			}
			if ev.Has(fsnotify.Create) || ev.Has(fsnotify.Write) {
				w.offer()
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error", "error", err)
		}
	}
}

// offer queues one trigger if the rate allows it.
// Dropped triggers are covered by the regular poll.
func (w *watcher) offer() bool {
	if !w.limiter.Allow() {
		return false
	}
	select {
	case w.C <- struct{}{}:
		return true
	default:
		return false
	}
}

func (w *watcher) Close() error {
	return w.fs.Close()
}
