package scanner

import (
	"bufio"
	"io"
	"os"
	"os/user"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/mvp-joe/fastsearch/internal/model"
)

const (
	maxPathLen       = 4096
	maxTextSizeForLC = 10 * 1024 * 1024
	maxLineCountScan = 100_000
)

var textualExtensions = map[string]struct{}{
	"txt": {}, "md": {}, "json": {}, "log": {}, "csv": {}, "tsv": {},
	"js": {}, "ts": {}, "jsx": {}, "tsx": {}, "py": {}, "java": {}, "c": {}, "h": {},
	"cpp": {}, "hpp": {}, "rs": {}, "go": {}, "php": {}, "rb": {}, "pl": {}, "sh": {},
	"sql": {}, "html": {}, "htm": {}, "css": {}, "xml": {}, "yaml": {}, "yml": {},
	"toml": {}, "ini": {}, "cfg": {}, "conf": {},
}

// buildRecord converts one walked directory entry (already skip-rule
// filtered) into a model.FileRecord, applying the discards and optional-
// attribute computation. Returns ok=false when the entry must be silently
// discarded (oversize, path too long, invalid basename).
func buildRecord(path string, info os.FileInfo, maxFileSize int64) (rec model.FileRecord, ok bool) {
	if len(path) > maxPathLen {
		return model.FileRecord{}, false
	}
	name := filepath.Base(path)
	if !isValidUTF8Basename(name) {
		return model.FileRecord{}, false
	}

	now := time.Now().Unix()
	rec = model.FileRecord{
		Path:         path,
		Name:         name,
		IsDir:        info.IsDir(),
		LastModified: safeModTime(info, now),
		CreatedAt:    now, // POSIX has no portable birth time; fall back to now.
		AccessedAt:   now,
		IsIndexed:    true,
	}

	rec.IsSystem = isSystemPath(path)

	if info.IsDir() {
		rec.Size = 0
		rec.ContentIndexed = true
		rec.IsIndexable = true
		rec.IsHidden = strings.HasPrefix(name, ".")
		fillPlatformAttrs(&rec, info)
		return rec, true
	}

	if info.Size() > maxFileSize {
		return model.FileRecord{}, false
	}
	rec.Size = info.Size()
	rec.IsIndexable = true // pending for the Content Indexer until it decides otherwise
	rec.FileType = strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	rec.IsExecutable = info.Mode()&0o100 != 0
	rec.IsSymlink = info.Mode()&os.ModeSymlink != 0
	rec.IsHidden = strings.HasPrefix(name, ".")
	rec.IsReadonly = info.Mode().Perm()&0o200 == 0

	fillPlatformAttrs(&rec, info)

	if _, textual := textualExtensions[rec.FileType]; textual && rec.Size <= maxTextSizeForLC {
		if lc, wc, err := countLinesWords(path); err == nil {
			rec.LineCount = &lc
			rec.WordCount = &wc
		}
	}

	return rec, true
}

func safeModTime(info os.FileInfo, fallback int64) int64 {
	if info.ModTime().IsZero() {
		return fallback
	}
	return info.ModTime().Unix()
}

func isValidUTF8Basename(name string) bool {
	return strings.ToValidUTF8(name, "") == name
}

// systemPathSubstrings mirrors the scanner's deny-list system trees but is
// applied as a softer heuristic here: paths that mention one of these
// segments are tagged is_system rather than being skipped outright, so a
// user-configured root that happens to contain e.g. "AppData" still gets
// its entries recorded with the flag set.
var systemPathSubstrings = []string{
	"/proc/", "/sys/", "/System/", "$RECYCLE.BIN", "System Volume Information",
	`Windows\System32\`, `AppData\Local\`, "/.Trash", "/.fseventsd",
}

func isSystemPath(path string) bool {
	for _, sub := range systemPathSubstrings {
		if strings.Contains(path, sub) {
			return true
		}
	}
	return false
}

// fillPlatformAttrs fills permissions/owner/group from the POSIX stat_t
// embedded in info.Sys(), when available.
func fillPlatformAttrs(rec *model.FileRecord, info os.FileInfo) {
	sys, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return
	}
	perm := uint32(info.Mode().Perm())
	rec.Permissions = &perm

	if u, err := user.LookupId(strconv.FormatUint(uint64(sys.Uid), 10)); err == nil {
		name := u.Username
		rec.Owner = &name
	}
	if g, err := user.LookupGroupId(strconv.FormatUint(uint64(sys.Gid), 10)); err == nil {
		name := g.Name
		rec.Group = &name
	}
}

// countLinesWords performs a single bounded pass over a textual file,
// capped at maxLineCountScan lines.
func countLinesWords(path string) (lines int64, words int64, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() && lines < maxLineCountScan {
		lines++
		words += int64(len(strings.Fields(scanner.Text())))
	}
	if err := scanner.Err(); err != nil && err != io.EOF {
		return lines, words, err
	}
	return lines, words, nil
}
