package fs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/folio/pkg/core"
)

// watchDebounce coalesces the burst of events an atomic replace produces.
const watchDebounce = 50 * time.Millisecond

type watchWorker struct {
	p       *Persister
	name    string
	events  chan<- core.Event
	watcher *fsnotify.Watcher
	exists  bool
}

// Watch reports changes to the state file made by other processes. Writes
// done through this Persister are not reported. The channel is closed when
// ctx is cancelled.
func (p *Persister) Watch(ctx context.Context) (<-chan core.Event, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	// The file itself is replaced on every save, so watch its directory.
	if err := watcher.Add(p.dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", p.dir, err)
	}

	events := make(chan core.Event, 16)
	_, statErr := os.Stat(p.Path)
	w := &watchWorker{
		p:       p,
		name:    filepath.Base(p.Path),
		events:  events,
		watcher: watcher,
		exists:  statErr == nil,
	}
	p.setWatcherActive(true)

	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(events)
		return w.run(ctx)
	}, lifecycle.WithErrorHandler(func(err error) {
		if p.config.ErrorHandler != nil {
			p.config.ErrorHandler(fmt.Errorf("watcher failed: %w", err))
		} else {
			p.config.Logger.Error("watcher failed", "error", err)
		}
	}))

	return events, nil
}

// relevant reports whether an fsnotify event concerns the state file.
func (w *watchWorker) relevant(event fsnotify.Event) bool {
	if isTempFile(event.Name) {
		return false
	}
	return filepath.Base(event.Name) == w.name
}

// inspect examines the file after a burst of events and decides what, if
// anything, to report.
func (w *watchWorker) inspect() (core.Event, bool) {
	e := core.Event{ID: core.StorageKey, Timestamp: time.Now().Unix()}

	data, err := os.ReadFile(w.p.Path)
	if os.IsNotExist(err) {
		if !w.exists {
			return e, false
		}
		w.exists = false
		e.Type = core.EventDelete
		return e, true
	}
	if err != nil {
		w.p.config.Logger.Debug("failed to read state after event", "error", err)
		return e, false
	}

	existed := w.exists
	w.exists = true
	if w.p.ownWrite(data) {
		return e, false
	}
	w.p.remember(data)

	e.Type = core.EventModify
	if !existed {
		e.Type = core.EventCreate
	}
	return e, true
}

func (w *watchWorker) send(ctx context.Context, e core.Event) {
	w.p.config.Logger.Debug("state changed externally", "event", e.String())
	select {
	case w.events <- e:
	case <-ctx.Done():
	}
}

// run is the main event loop for the watcher.
func (w *watchWorker) run(ctx context.Context) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("watcher panic: %v", recovered)
			if w.p.config.Logger.Enabled(ctx, slog.LevelDebug) {
				w.p.config.Logger.Error("watcher panic", "error", err, "stack", string(debug.Stack()))
			} else {
				w.p.config.Logger.Error("watcher panic", "error", err)
			}
		}
	}()
	defer w.p.setWatcherActive(false)
	defer w.watcher.Close()

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			if !w.relevant(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
			} else {
				timer.Reset(watchDebounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			if e, ok := w.inspect(); ok {
				w.send(ctx, e)
			}

		case wErr, ok := <-w.watcher.Errors:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			w.p.config.Logger.Error("fsnotify error", "error", wErr)
			if w.p.config.ErrorHandler != nil {
				w.p.config.ErrorHandler(wErr)
			}
		}
	}
}
