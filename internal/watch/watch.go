// Package watch re-runs a callback when a file changes.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/satishbabariya/tableshim/internal/debug"
)

// DefaultDebounce is how long the watcher waits for writes to settle.
const DefaultDebounce = 300 * time.Millisecond

// Watcher watches one file.
type Watcher struct {
	file     string
	callback func() error
	debounce time.Duration
	watcher  *fsnotify.Watcher
	log      *slog.Logger
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the settle delay.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// New creates a watcher for file. The file's directory is watched so that
// editors that replace the file on save are still noticed.
func New(file string, callback func() error, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(file)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch directory: %w", err)
	}

	w := &Watcher{
		file:     abs,
		callback: callback,
		debounce: DefaultDebounce,
		watcher:  fw,
		log:      debug.For("watch").With("file", abs),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Run invokes the callback once, then again after every change, until ctx
// is done. Callback errors after the first run are logged and reported to
// onError when it is non-nil; they do not stop the watcher.
func (w *Watcher) Run(ctx context.Context, onError func(error)) error {
	defer w.watcher.Close()

	if err := w.callback(); err != nil {
		return fmt.Errorf("initial run failed: %w", err)
	}

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	var settle <-chan time.Time

	for {
		select {
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if p, err := filepath.Abs(ev.Name); err != nil || p != w.file {
				continue
			}
			w.log.Debug("change", "op", ev.Op.String())
			timer.Reset(w.debounce)
			settle = timer.C

		case <-settle:
			settle = nil
			if err := w.callback(); err != nil {
				w.log.Debug("callback failed", "error", err)
				if onError != nil {
					onError(err)
				}
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", "error", err)

		case <-ctx.Done():
			return nil
		}
	}
}
