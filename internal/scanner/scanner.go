// Package scanner implements a parallel tree walker: it enumerates one or
// more root paths, applies skip rules, and fans per-entry metadata
// extraction out to a bounded worker pool (jobs channel, results channel,
// ordered reassembly).
package scanner

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/gobwas/glob"

	"github.com/mvp-joe/fastsearch/internal/model"
)

const (
	defaultMaxDepth     = 100
	defaultMaxFileSize  = 100 * 1024 * 1024
	defaultProgressStep = 500
)

// ProgressFunc is invoked at most every defaultProgressStep processed
// entries. Implementations must be non-blocking.
type ProgressFunc func(processedSoFar int, message string)

// Options configures one Scanner.
type Options struct {
	IgnorePatterns   []string // additional gobwas/glob patterns, '/'-separated; empty uses DefaultIgnoreGlobs
	Workers          int      // 0 selects runtime.NumCPU(), capped at 8
	MaxDepth         int      // 0 selects defaultMaxDepth
	MaxFileSizeBytes int64    // 0 selects defaultMaxFileSize
}

// Scanner walks directory trees under one or more roots and emits
// model.FileRecord values.
type Scanner struct {
	ignoreGlobs []glob.Glob
	workers     int
	maxDepth    int
	maxFileSize int64
}

// New compiles ignore patterns and returns a ready Scanner. An empty
// IgnorePatterns falls back to DefaultIgnoreGlobs. The built-in deny lists
// in skiprules.go apply in every case, whatever the ignore patterns are.
func New(opts Options) (*Scanner, error) {
	patterns := opts.IgnorePatterns
	if len(patterns) == 0 {
		patterns = DefaultIgnoreGlobs()
	}
	globs, err := compileGlobs(patterns)
	if err != nil {
		return nil, err
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > 8 {
		workers = 8
	}
	if workers < 1 {
		workers = 1
	}
	maxDepth := opts.MaxDepth
	if maxDepth <= 0 {
		maxDepth = defaultMaxDepth
	}
	maxFileSize := opts.MaxFileSizeBytes
	if maxFileSize <= 0 {
		maxFileSize = defaultMaxFileSize
	}
	return &Scanner{
		ignoreGlobs: globs,
		workers:     workers,
		maxDepth:    maxDepth,
		maxFileSize: maxFileSize,
	}, nil
}

type walkEntry struct {
	path string
	info os.FileInfo
}

// Walk enumerates root, skipping deny-listed subtrees and symlink chains
// deeper than s.maxDepth, and returns every accepted metadata record.
// progress is called at most every 500 processed entries; a nil progress
// is accepted. Per-entry I/O errors are logged and the entry is skipped -
// the scan never aborts on a single bad entry.
func (s *Scanner) Walk(ctx context.Context, root string, progress ProgressFunc) ([]model.FileRecord, error) {
	entries, err := s.collect(ctx, root)
	if err != nil {
		return nil, err
	}
	return s.buildRecords(ctx, entries, progress)
}

// collect performs the sequential directory walk, applying skip rules and
// the depth cap before any metadata beyond os.Lstat is read.
func (s *Scanner) collect(ctx context.Context, root string) ([]walkEntry, error) {
	var entries []walkEntry

	var walk func(path string, depth int) error
	walk = func(path string, depth int) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if depth > s.maxDepth {
			return nil
		}
		if shouldSkip(path, s.ignoreGlobs) {
			return nil
		}

		info, err := os.Lstat(path)
		if err != nil {
			log.Printf("[WARN] scanner: stat %s: %v", path, err)
			return nil
		}

		if info.Mode()&os.ModeSymlink != 0 {
			target, err := filepath.EvalSymlinks(path)
			if err != nil {
				log.Printf("[WARN] scanner: resolve symlink %s: %v", path, err)
				return nil
			}
			targetInfo, err := os.Stat(target)
			if err != nil {
				log.Printf("[WARN] scanner: stat symlink target %s: %v", path, err)
				return nil
			}
			entries = append(entries, walkEntry{path: path, info: symlinkInfo{targetInfo}})
			if targetInfo.IsDir() {
				return walkDir(path, depth, walk)
			}
			return nil
		}

		entries = append(entries, walkEntry{path: path, info: info})

		if info.IsDir() {
			return walkDir(path, depth, walk)
		}
		return nil
	}

	if err := walk(root, 0); err != nil && err != context.Canceled {
		return nil, err
	}
	return entries, nil
}

func walkDir(path string, depth int, walk func(string, int) error) error {
	children, err := os.ReadDir(path)
	if err != nil {
		log.Printf("[WARN] scanner: readdir %s: %v", path, err)
		return nil
	}
	for _, child := range children {
		if err := walk(filepath.Join(path, child.Name()), depth+1); err != nil {
			return err
		}
	}
	return nil
}

// symlinkInfo wraps a symlink target's os.FileInfo unchanged; buildRecords
// detects the wrapper by type and sets IsSymlink on the record, since the
// resolved target's FileInfo has no symlink flag of its own.
type symlinkInfo struct{ os.FileInfo }

type fileProcessResult struct {
	index int
	rec   model.FileRecord
	ok    bool
}

// buildRecords fans metadata extraction for each collected entry out to a
// bounded worker pool, preserving input order in the output, and throttles
// progress callbacks to every defaultProgressStep entries.
func (s *Scanner) buildRecords(ctx context.Context, entries []walkEntry, progress ProgressFunc) ([]model.FileRecord, error) {
	if len(entries) == 0 {
		return nil, nil
	}

	jobs := make(chan int, len(entries))
	results := make(chan fileProcessResult, len(entries))

	var wg sync.WaitGroup
	for w := 0; w < s.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				e := entries[idx]
				_, isSymlink := e.info.(symlinkInfo)
				rec, ok := buildRecord(e.path, e.info, s.maxFileSize)
				if ok && isSymlink {
					rec.IsSymlink = true
				}
				results <- fileProcessResult{index: idx, rec: rec, ok: ok}
			}
		}()
	}

	for i := range entries {
		jobs <- i
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	ordered := make([]fileProcessResult, len(entries))
	processed := 0
	for res := range results {
		ordered[res.index] = res
		processed++
		if progress != nil && processed%defaultProgressStep == 0 {
			progress(processed, "scanning")
		}
	}

	out := make([]model.FileRecord, 0, len(entries))
	for _, res := range ordered {
		if res.ok {
			out = append(out, res.rec)
		}
	}
	if progress != nil {
		progress(processed, "scan collect complete")
	}
	return out, nil
}
