// Package watcher is a polling file-system observer: a fixed-interval
// (2 seconds by default) scan of the active root set that diffs against its last
// snapshot to report create/modify/delete events, content-comparison
// disabled (events are kind-only). It deliberately does not use fsnotify -
// see DESIGN.md for why a genuine polling observer is required here
// instead of an OS push-event subscription.
package watcher

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mvp-joe/fastsearch/internal/errs"
	"github.com/mvp-joe/fastsearch/internal/events"
)

// DefaultPollInterval is the recursive poll cadence used when New is not
// given an explicit interval.
const DefaultPollInterval = 2 * time.Second

// EventKind classifies one change surfaced by the Watcher.
type EventKind string

const (
	EventCreated  EventKind = "created"
	EventModified EventKind = "modified"
	EventDeleted  EventKind = "deleted"
)

// ChangeEvent is one create/modify/delete notification carrying the
// absolute path affected.
type ChangeEvent struct {
	Kind      EventKind
	Path      string
	Timestamp int64
}

// Status reports the Watcher's current state on demand.
type Status struct {
	IsWatching   bool
	WatchedPaths []string
	PathCount    int
}

// state is the Watcher's lifecycle: Idle -> Running (Start) -> Idle (Stop),
// Running -> Running (Restart).
type state int

const (
	stateIdle state = iota
	stateRunning
)

// Watcher owns one OS-level subscription equivalent (here, a poll loop) for
// the process's active root set. It is held process-wide.
type Watcher struct {
	bus          *events.Bus
	pollInterval time.Duration

	mu     sync.Mutex
	state  state
	roots  []string
	cancel context.CancelFunc
	done   chan struct{}

	snapshots map[string]map[string]int64 // root -> path -> last_modified
}

// New returns an Idle Watcher publishing events on bus. pollInterval <= 0
// falls back to DefaultPollInterval.
func New(bus *events.Bus, pollInterval time.Duration) *Watcher {
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	return &Watcher{bus: bus, pollInterval: pollInterval, state: stateIdle}
}

// Start validates every root exists, takes an initial snapshot for all of
// them, and spawns the poll loop. On failure to validate any root, it
// fails entirely with no partial subscriptions.
func (w *Watcher) Start(ctx context.Context, roots []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state == stateRunning {
		return errs.New(errs.Internal, "watcher.Start", "already running; call Restart instead")
	}

	snapshots := make(map[string]map[string]int64, len(roots))
	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil || !info.IsDir() {
			err := errs.New(errs.Validation, "watcher.Start", fmt.Sprintf("root does not exist or is not a directory: %s", root))
			w.publish(events.WatcherError, err.Error())
			return err
		}
		snapshots[root] = snapshotDir(root)
	}

	runCtx, cancel := context.WithCancel(ctx)
	w.roots = append([]string(nil), roots...)
	w.snapshots = snapshots
	w.cancel = cancel
	w.done = make(chan struct{})
	w.state = stateRunning

	go w.pollLoop(runCtx, w.done)

	w.publish(events.WatcherStarted, Status{IsWatching: true, WatchedPaths: w.roots, PathCount: len(w.roots)})
	return nil
}

// Stop cancels the poll loop and waits for it to exit. It is idempotent;
// calling it on an already-stopped Watcher is a no-op.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.state != stateRunning {
		w.mu.Unlock()
		return nil
	}
	cancel := w.cancel
	done := w.done
	w.state = stateIdle
	w.mu.Unlock()

	cancel()
	<-done

	w.publish(events.WatcherStopped, nil)
	return nil
}

// Restart is stop+start with a new root set.
func (w *Watcher) Restart(ctx context.Context, roots []string) error {
	if err := w.Stop(); err != nil {
		return err
	}
	return w.Start(ctx, roots)
}

// GetStatus reports the Watcher's current state on demand.
func (w *Watcher) GetStatus() Status {
	w.mu.Lock()
	defer w.mu.Unlock()
	return Status{
		IsWatching:   w.state == stateRunning,
		WatchedPaths: append([]string(nil), w.roots...),
		PathCount:    len(w.roots),
	}
}

func (w *Watcher) pollLoop(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.pollOnce()
		}
	}
}

func (w *Watcher) pollOnce() {
	w.mu.Lock()
	roots := append([]string(nil), w.roots...)
	w.mu.Unlock()

	for _, root := range roots {
		current := snapshotDir(root)

		w.mu.Lock()
		previous := w.snapshots[root]
		w.snapshots[root] = current
		w.mu.Unlock()

		diffAndEmit(previous, current, w.emitChange)
	}
}

func (w *Watcher) emitChange(kind EventKind, path string) {
	evt := ChangeEvent{Kind: kind, Path: path, Timestamp: time.Now().Unix()}
	switch kind {
	case EventCreated:
		w.publish(events.FileCreated, evt)
	case EventModified:
		w.publish(events.FileModified, evt)
	case EventDeleted:
		w.publish(events.FileDeleted, evt)
	}
}

func (w *Watcher) publish(name string, payload interface{}) {
	if w.bus != nil {
		w.bus.Publish(name, payload)
	}
}

// diffAndEmit compares two path->last_modified snapshots and calls emit for
// every created, modified, or deleted path found.
func diffAndEmit(previous, current map[string]int64, emit func(EventKind, string)) {
	for path, mtime := range current {
		prevMtime, existed := previous[path]
		if !existed {
			emit(EventCreated, path)
			continue
		}
		if prevMtime != mtime {
			emit(EventModified, path)
		}
	}
	for path := range previous {
		if _, stillExists := current[path]; !stillExists {
			emit(EventDeleted, path)
		}
	}
}

// snapshotDir walks root recursively, returning every entry's absolute
// path mapped to its modification time in unix seconds. Errors accessing
// individual entries are logged and the entry is skipped, mirroring the
// Scanner's tolerance for single-entry failures.
func snapshotDir(root string) map[string]int64 {
	snap := make(map[string]int64)

	var walk func(path string)
	walk = func(path string) {
		info, err := os.Lstat(path)
		if err != nil {
			log.Printf("[WARN] watcher: stat %s: %v", path, err)
			return
		}
		snap[path] = info.ModTime().Unix()
		if !info.IsDir() {
			return
		}
		entries, err := os.ReadDir(path)
		if err != nil {
			log.Printf("[WARN] watcher: readdir %s: %v", path, err)
			return
		}
		for _, e := range entries {
			walk(filepath.Join(path, e.Name()))
		}
	}
	walk(root)
	return snap
}
