// Package watcher wraps an OS-level recursive filesystem watcher
// (fsnotify) and republishes changed absolute paths on a bounded queue,
// grounded on the teacher's fsnotify.NewWatcher/Events/Errors channel
// pattern (cmd/dittofs/commands/logs.go's followLogs).
package watcher

import (
	"sync/atomic"

	"github.com/fsnotify/fsnotify"

	"github.com/syncr-go/syncr/internal/logger"
	"github.com/syncr-go/syncr/pkg/syncerr"
)

// QueueCapacity bounds the number of pending change events. Once full,
// further events are dropped rather than blocking the fsnotify callback.
const QueueCapacity = 100

// Watcher recursively monitors a set of directory trees and emits one
// absolute path per create/modify/remove event.
type Watcher struct {
	fsw     *fsnotify.Watcher
	events  chan string
	dropped atomic.Int64
	done    chan struct{}
	onDrop  func()
}

// Option configures a Watcher at construction time.
type Option func(*Watcher)

// WithDropHook registers a callback invoked every time an event is
// discarded because the bounded queue is full, so a caller can surface
// the drop as a metric without this package depending on pkg/metrics.
func WithDropHook(hook func()) Option {
	return func(w *Watcher) { w.onDrop = hook }
}

// New starts a Watcher. Call Close when done.
func New(opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, syncerr.Wrap(syncerr.FilesystemIO, "", err)
	}

	w := &Watcher{
		fsw:    fsw,
		events: make(chan string, QueueCapacity),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	go w.pump()
	return w, nil
}

// pump drains the fsnotify channels and republishes onto the bounded
// events queue, dropping rather than blocking when it is full so the
// callback driving fsnotify's OS integration is never stalled.
func (w *Watcher) pump() {
	defer close(w.done)
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			select {
			case w.events <- ev.Name:
			default:
				w.dropped.Add(1)
				logger.Warn("watcher queue full, dropping event", logger.Path(ev.Name))
				if w.onDrop != nil {
					w.onDrop()
				}
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logger.Warn("watcher error", logger.Err(err))
		}
	}
}

// Watch begins recursively monitoring path. fsnotify itself only watches
// the directory given, so Watch walks the tree and adds every
// subdirectory; new subdirectories created later are picked up lazily the
// next time Watch is called for that root (no live re-walk).
func (w *Watcher) Watch(path string) error {
	for _, dir := range directoriesUnder(path) {
		if err := w.fsw.Add(dir); err != nil {
			return syncerr.Wrap(syncerr.FilesystemIO, dir, err)
		}
	}
	return nil
}

// Unwatch stops monitoring path (and, best-effort, its known subdirectories).
func (w *Watcher) Unwatch(path string) error {
	for _, dir := range directoriesUnder(path) {
		if err := w.fsw.Remove(dir); err != nil {
			return syncerr.Wrap(syncerr.FilesystemIO, dir, err)
		}
	}
	return nil
}

// NextEvent blocks for the next changed path. It returns ok=false once the
// watcher has been closed and drained.
func (w *Watcher) NextEvent() (path string, ok bool) {
	path, ok = <-w.events
	return path, ok
}

// Dropped returns the number of events discarded because the queue was full.
func (w *Watcher) Dropped() int64 {
	return w.dropped.Load()
}

// Close stops the underlying fsnotify watcher and releases its resources.
func (w *Watcher) Close() error {
	err := w.fsw.Close()
	<-w.done
	close(w.events)
	if err != nil {
		return syncerr.Wrap(syncerr.FilesystemIO, "", err)
	}
	return nil
}
