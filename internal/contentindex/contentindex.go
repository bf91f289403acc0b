// Package contentindex is the Content Indexer: it drains the Store's
// pending-file queue, dispatches each file to the extractor, and writes
// the result back through Store.UpdateFileIndexStatus, chunked and
// parallelised across a file batch.
package contentindex

import (
	"context"
	"log"
	"os"
	"sync"
	"time"

	"github.com/mvp-joe/fastsearch/internal/events"
	"github.com/mvp-joe/fastsearch/internal/extract"
	"github.com/mvp-joe/fastsearch/internal/model"
)

// Store is the subset of *storage.Store the Content Indexer depends on.
type Store interface {
	GetUncontentIndexedFiles() ([]model.FileRecord, error)
	UpdateFileIndexStatus(path, content string, isIndexable bool) error
	GetStat() (model.Stat, error)
}

const (
	maxChunkSize = 50
	chunkWorkers = 8

	defaultThrottleInterval = 500 * time.Millisecond
)

// Totals is the completion summary emitted with IndexFinished.
type Totals struct {
	Processed  int
	Successful int
	Failed     int
}

// Indexer brings files.content_indexed up to date by repeatedly draining
// the Store's pending set.
type Indexer struct {
	store     Store
	bus       *events.Bus
	extractor *extract.Extractor
}

// New returns an Indexer publishing lifecycle events on bus. A nil extractor
// falls back to the package's default-capped Extractor.
func New(store Store, bus *events.Bus, extractor *extract.Extractor) *Indexer {
	if extractor == nil {
		extractor = extract.New(extract.Options{})
	}
	return &Indexer{store: store, bus: bus, extractor: extractor}
}

// Run processes every currently pending file to completion, chunked into
// groups of at most maxChunkSize processed in parallel, emitting a
// throttled progress event and refreshed Stat after each chunk.
func (idx *Indexer) Run(ctx context.Context) (Totals, error) {
	idx.publish(events.IndexStarted, nil)

	pending, err := idx.store.GetUncontentIndexedFiles()
	if err != nil {
		idx.publish(events.IndexError, err.Error())
		return Totals{}, err
	}

	var totals Totals
	throttle := events.NewThrottle(defaultThrottleInterval)

	for _, chunk := range chunks(pending, maxChunkSize) {
		if ctx.Err() != nil {
			break
		}
		processed, successful, failed := idx.processChunk(chunk)
		totals.Processed += processed
		totals.Successful += successful
		totals.Failed += failed

		if throttle.Allow() {
			idx.publish(events.IndexProgress, map[string]interface{}{
				"processed": totals.Processed,
				"total":     len(pending),
				"message":   "indexing content",
			})
		}
		if st, err := idx.store.GetStat(); err == nil {
			idx.publish(events.StatUpdated, st)
		}
	}

	idx.publish(events.IndexFinished, map[string]interface{}{
		"total":   totals.Processed,
		"message": "content indexing complete",
	})
	return totals, nil
}

func (idx *Indexer) processChunk(chunk []model.FileRecord) (processed, successful, failed int) {
	var wg sync.WaitGroup
	var mu sync.Mutex
	sem := make(chan struct{}, chunkWorkers)

	for _, f := range chunk {
		wg.Add(1)
		sem <- struct{}{}
		go func(f model.FileRecord) {
			defer wg.Done()
			defer func() { <-sem }()
			ok := idx.processOne(f)
			mu.Lock()
			processed++
			if ok {
				successful++
			} else {
				failed++
			}
			mu.Unlock()
		}(f)
	}
	wg.Wait()
	return processed, successful, failed
}

// processOne extracts and writes content for one file. It returns true on
// a successful, indexable extraction; false for both non-indexable skips
// and genuine extraction failures, since treats a missing/
// unreadable file as a non-error skip rather than a propagated error.
func (idx *Indexer) processOne(f model.FileRecord) bool {
	if !extract.CanExtract(f.FileType) || !regularFileAt(f.Path) {
		if err := idx.store.UpdateFileIndexStatus(f.Path, "", false); err != nil {
			log.Printf("[ERROR] contentindex: mark non-indexable %s: %v", f.Path, err)
		}
		return false
	}

	text, err := idx.extractor.Extract(f.Path, f.FileType)
	if err != nil {
		if uerr := idx.store.UpdateFileIndexStatus(f.Path, "", false); uerr != nil {
			log.Printf("[ERROR] contentindex: mark failed-extraction %s: %v", f.Path, uerr)
		}
		return false
	}

	if err := idx.store.UpdateFileIndexStatus(f.Path, text, true); err != nil {
		log.Printf("[ERROR] contentindex: update status %s: %v", f.Path, err)
		return false
	}
	return true
}

func regularFileAt(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// chunks splits recs into groups of at most size, never producing an empty
// slice for a non-empty input.
func chunks(recs []model.FileRecord, size int) [][]model.FileRecord {
	if len(recs) == 0 {
		return nil
	}
	var out [][]model.FileRecord
	for i := 0; i < len(recs); i += size {
		end := i + size
		if end > len(recs) {
			end = len(recs)
		}
		out = append(out, recs[i:end])
	}
	return out
}

func (idx *Indexer) publish(name string, payload interface{}) {
	if idx.bus != nil {
		idx.bus.Publish(name, payload)
	}
}
