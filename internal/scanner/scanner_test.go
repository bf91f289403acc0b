package scanner

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestWalk_DiscoversFilesAndDirs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a", "one.txt"), "hello world\nsecond line\n")
	writeFile(t, filepath.Join(root, "a", "two.md"), "# title")

	s, err := New(Options{})
	require.NoError(t, err)

	records, err := s.Walk(context.Background(), root, nil)
	require.NoError(t, err)

	byPath := map[string]bool{}
	for _, r := range records {
		byPath[r.Path] = r.IsDir
	}
	assert.True(t, byPath[root])
	assert.True(t, byPath[filepath.Join(root, "a")])
	assert.False(t, byPath[filepath.Join(root, "a", "one.txt")])
	assert.Contains(t, byPath, filepath.Join(root, "a", "two.md"))
}

func TestWalk_SkipsNodeModules(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "node_modules", "pkg", "index.js"), "x")
	writeFile(t, filepath.Join(root, "src", "main.go"), "package main")

	s, err := New(Options{})
	require.NoError(t, err)

	records, err := s.Walk(context.Background(), root, nil)
	require.NoError(t, err)

	for _, r := range records {
		assert.NotContains(t, r.Path, "node_modules")
	}
}

func TestWalk_ComputesLineAndWordCounts(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "notes.txt"), "one two three\nfour five\n")

	s, err := New(Options{})
	require.NoError(t, err)

	records, err := s.Walk(context.Background(), root, nil)
	require.NoError(t, err)

	var found bool
	for _, r := range records {
		if r.Name == "notes.txt" {
			found = true
			require.NotNil(t, r.LineCount)
			require.NotNil(t, r.WordCount)
			assert.Equal(t, int64(2), *r.LineCount)
			assert.Equal(t, int64(5), *r.WordCount)
		}
	}
	assert.True(t, found)
}

func TestWalk_ReportsThrottledProgress(t *testing.T) {
	root := t.TempDir()
	for i := 0; i < 3; i++ {
		writeFile(t, filepath.Join(root, "f"+string(rune('a'+i))+".txt"), "x")
	}

	s, err := New(Options{})
	require.NoError(t, err)

	var calls int
	_, err = s.Walk(context.Background(), root, func(processed int, msg string) {
		calls++
	})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, calls, 1)
}
