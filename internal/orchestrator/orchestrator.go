// Package orchestrator composes the Scanner, the Store, and the Content
// Indexer around one user-initiated scan, owning the progress/event stream
// and the per-root soft timeout and chunk-failure tolerance.
package orchestrator

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/mvp-joe/fastsearch/internal/contentindex"
	"github.com/mvp-joe/fastsearch/internal/errs"
	"github.com/mvp-joe/fastsearch/internal/events"
	"github.com/mvp-joe/fastsearch/internal/model"
	"github.com/mvp-joe/fastsearch/internal/retry"
)

const (
	insertChunkSize     = 500
	maxChunkFailures    = 5
	perRootSoftTimeout  = 5 * time.Minute
	progressGateTimeout = 500 * time.Millisecond
)

// Options configures one Orchestrator. A zero field falls back to the
// package default it replaces.
type Options struct {
	InsertChunkSize  int
	MaxChunkFailures int
	PerRootTimeout   time.Duration
	ProgressInterval time.Duration
}

// Scanner is the subset of *scanner.Scanner the Orchestrator depends on.
type Scanner interface {
	Walk(ctx context.Context, root string, progress func(processedSoFar int, message string)) ([]model.FileRecord, error)
}

// Store is the subset of *storage.Store the Orchestrator depends on.
type Store interface {
	Insert(files []model.FileRecord) error
	GetStat() (model.Stat, error)
}

// Orchestrator drives full-path scans: Scanner -> chunked Store.Insert ->
// Content Indexer, emitting the event sequence a UI needs to render progress.
type Orchestrator struct {
	scanner Scanner
	store   Store
	indexer *contentindex.Indexer
	bus     *events.Bus

	insertChunkSize  int
	maxChunkFailures int
	perRootTimeout   time.Duration
	progressInterval time.Duration
}

// New wires an Orchestrator from its three collaborators, the shared event
// bus, and opts.
func New(scanner Scanner, store Store, indexer *contentindex.Indexer, bus *events.Bus, opts Options) *Orchestrator {
	o := &Orchestrator{
		scanner:          scanner,
		store:            store,
		indexer:          indexer,
		bus:              bus,
		insertChunkSize:  opts.InsertChunkSize,
		maxChunkFailures: opts.MaxChunkFailures,
		perRootTimeout:   opts.PerRootTimeout,
		progressInterval: opts.ProgressInterval,
	}
	if o.insertChunkSize <= 0 {
		o.insertChunkSize = insertChunkSize
	}
	if o.maxChunkFailures <= 0 {
		o.maxChunkFailures = maxChunkFailures
	}
	if o.perRootTimeout <= 0 {
		o.perRootTimeout = perRootSoftTimeout
	}
	if o.progressInterval <= 0 {
		o.progressInterval = progressGateTimeout
	}
	return o
}

// Result summarises one completed scan.
type Result struct {
	ScanID       string
	SuccessCount int
	TotalFiles   int
}

// ScanAll runs the full scan sequence over roots: collect (per root, with a
// 5-minute soft timeout and existence precheck), chunked insert (tolerating
// up to maxChunkFailures chunk failures), a terminal scan_finished event,
// then an asynchronous kick of the Content Indexer.
func (o *Orchestrator) ScanAll(ctx context.Context, roots []string) (Result, error) {
	scanID := uuid.NewString()
	o.publish(events.ScanStarted, map[string]interface{}{"scan_id": scanID})

	collected := o.collect(ctx, scanID, roots)

	o.publish(events.ScanCollected, map[string]interface{}{"scan_id": scanID, "total": len(collected)})

	successCount, err := o.insertChunked(ctx, scanID, collected)
	if err != nil {
		o.publish(events.ScanError, map[string]interface{}{"scan_id": scanID, "message": err.Error()})
		o.publish(events.ScanFinished, map[string]interface{}{"scan_id": scanID, "total": successCount, "message": "aborted: " + err.Error()})
		return Result{ScanID: scanID, SuccessCount: successCount, TotalFiles: len(collected)}, err
	}

	o.publish(events.ScanFinished, map[string]interface{}{"scan_id": scanID, "total": successCount, "message": "scan complete"})
	if st, statErr := o.store.GetStat(); statErr == nil {
		o.publish(events.StatUpdated, st)
	}

	if o.indexer != nil {
		go o.indexer.Run(context.Background())
	}

	return Result{ScanID: scanID, SuccessCount: successCount, TotalFiles: len(collected)}, nil
}

// collect walks every root, skipping ones that don't exist and abandoning
// any root that exceeds its soft timeout, aggregating per-root progress
// into a throttled overall scan_progress event.
func (o *Orchestrator) collect(ctx context.Context, scanID string, roots []string) []model.FileRecord {
	var all []model.FileRecord
	throttle := events.NewThrottle(o.progressInterval)

	for _, root := range roots {
		if info, err := os.Stat(root); err != nil || !info.IsDir() {
			o.publish(events.ScanError, map[string]interface{}{
				"scan_id": scanID, "message": fmt.Sprintf("root does not exist: %s", root),
			})
			continue
		}

		rootCtx, cancel := context.WithTimeout(ctx, o.perRootTimeout)
		records, err := o.scanner.Walk(rootCtx, root, func(processed int, message string) {
			if throttle.Allow() {
				o.publish(events.ScanProgress, map[string]interface{}{
					"scan_id": scanID, "message": message, "current_path": root, "processed": processed,
				})
			}
		})
		cancel()

		if err != nil {
			o.publish(events.ScanError, map[string]interface{}{
				"scan_id": scanID, "message": fmt.Sprintf("scanning %s: %v", root, err),
			})
			continue
		}
		all = append(all, records...)
	}
	return all
}

// insertChunked inserts collected in batches of o.insertChunkSize, retrying
// each chunk's insert through the generic backoff envelope before counting
// it against the o.maxChunkFailures tolerance.
func (o *Orchestrator) insertChunked(ctx context.Context, scanID string, collected []model.FileRecord) (int, error) {
	successCount := 0
	failures := 0

	for start := 0; start < len(collected); start += o.insertChunkSize {
		end := start + o.insertChunkSize
		if end > len(collected) {
			end = len(collected)
		}
		chunk := collected[start:end]

		err := retry.Do(ctx, func() error { return o.store.Insert(chunk) })
		if err != nil {
			failures++
			o.publish(events.ScanError, map[string]interface{}{
				"scan_id": scanID, "message": fmt.Sprintf("insert chunk %d-%d: %v", start, end, err),
			})
			if failures > o.maxChunkFailures {
				return successCount, errs.New(errs.Internal, "orchestrator.insertChunked",
					fmt.Sprintf("exceeded %d tolerated chunk failures", o.maxChunkFailures))
			}
			continue
		}

		successCount += len(chunk)
		o.publish(events.ScanInsertProgress, map[string]interface{}{
			"scan_id": scanID, "processed": end, "total": len(collected),
		})
		if st, err := o.store.GetStat(); err == nil {
			o.publish(events.StatUpdated, st)
		}
	}
	return successCount, nil
}

// DiagnoseScanIssues checks each candidate root for existence, directory-
// ness, and basic read permission, returning one human-readable diagnostic
// per problem found.
func DiagnoseScanIssues(paths []string) []string {
	var issues []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			issues = append(issues, fmt.Sprintf("%s: does not exist (%v)", p, err))
			continue
		}
		if !info.IsDir() {
			issues = append(issues, fmt.Sprintf("%s: is not a directory", p))
			continue
		}
		f, err := os.Open(p)
		if err != nil {
			issues = append(issues, fmt.Sprintf("%s: cannot be read (%v)", p, err))
			continue
		}
		f.Close()
	}
	return issues
}

func (o *Orchestrator) publish(name string, payload interface{}) {
	if o.bus != nil {
		o.bus.Publish(name, payload)
	}
}
