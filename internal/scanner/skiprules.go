package scanner

import (
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// denyPathSubstrings are absolute-path substrings that mark an OS virtual,
// system, or trash tree.
var denyPathSubstrings = []string{
	"/proc", "/sys", "/System/", "$RECYCLE.BIN", "System Volume Information",
	`Windows\System32\`, `AppData\Local\Temp\`,
	".Trash", ".Trashes", ".fseventsd", ".Spotlight-V100",
}

// denyBasenames are heavyweight developer subtrees and noise files skipped
// regardless of where they appear.
var denyBasenames = map[string]struct{}{
	"node_modules": {}, ".git": {}, ".vscode": {}, ".idea": {},
	"dist": {}, "build": {}, "target": {}, "tmp": {}, "var": {}, "private": {},
	".DS_Store": {},
}

var denySuffixes = []string{".tmp", ".temp"}

// DefaultIgnoreGlobs returns one relative "name/**" glob pattern per
// deny-listed basename. shouldSkip matches ignore globs against the
// absolute slash-separated path, which these relative patterns do not
// match; the deny-basename list itself is checked by shouldSkip directly.
func DefaultIgnoreGlobs() []string {
	names := make([]string, 0, len(denyBasenames))
	for n := range denyBasenames {
		names = append(names, n+"/**")
	}
	return names
}

func compileGlobs(patterns []string) ([]glob.Glob, error) {
	compiled := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, g)
	}
	return compiled, nil
}

func matchesAny(path string, globs []glob.Glob) bool {
	for _, g := range globs {
		if g.Match(path) {
			return true
		}
	}
	return false
}

// shouldSkip reports whether path (absolute) or base should be excluded
// from the walk before any metadata is read.
func shouldSkip(absPath string, extraIgnore []glob.Glob) bool {
	base := filepath.Base(absPath)

	if _, deny := denyBasenames[base]; deny {
		return true
	}
	if strings.HasPrefix(base, "~") {
		return true
	}
	for _, suf := range denySuffixes {
		if strings.HasSuffix(base, suf) {
			return true
		}
	}
	for _, sub := range denyPathSubstrings {
		if strings.Contains(absPath, sub) {
			return true
		}
	}
	if matchesAny(filepath.ToSlash(absPath), extraIgnore) {
		return true
	}
	return false
}
