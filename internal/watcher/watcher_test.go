package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiffAndEmit_CreatedModifiedDeleted(t *testing.T) {
	var got []ChangeEvent
	emit := func(kind EventKind, path string) {
		got = append(got, ChangeEvent{Kind: kind, Path: path})
	}

	previous := map[string]int64{"/a": 1, "/b": 1}
	current := map[string]int64{"/a": 1, "/b": 2, "/c": 1}

	diffAndEmit(previous, current, emit)

	byPath := map[string]EventKind{}
	for _, e := range got {
		byPath[e.Path] = e.Kind
	}
	assert.Equal(t, EventModified, byPath["/b"])
	assert.Equal(t, EventCreated, byPath["/c"])
	_, sawA := byPath["/a"]
	assert.False(t, sawA)
}

func TestDiffAndEmit_Deleted(t *testing.T) {
	var got []ChangeEvent
	emit := func(kind EventKind, path string) {
		got = append(got, ChangeEvent{Kind: kind, Path: path})
	}
	diffAndEmit(map[string]int64{"/a": 1}, map[string]int64{}, emit)
	require.Len(t, got, 1)
	assert.Equal(t, "/a", got[0].Path)
	assert.Equal(t, EventDeleted, got[0].Kind)
}

func TestStart_FailsOnMissingRoot(t *testing.T) {
	w := New(nil, 0)
	err := w.Start(context.Background(), []string{filepath.Join(t.TempDir(), "does-not-exist")})
	require.Error(t, err)
	assert.False(t, w.GetStatus().IsWatching)
}

func TestStartStop_Lifecycle(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("x"), 0o644))

	w := New(nil, 0)
	require.NoError(t, w.Start(context.Background(), []string{root}))
	assert.True(t, w.GetStatus().IsWatching)

	require.NoError(t, w.Stop())
	assert.False(t, w.GetStatus().IsWatching)
}

func TestRestart_ReplacesRootSet(t *testing.T) {
	rootA := t.TempDir()
	rootB := t.TempDir()

	w := New(nil, 0)
	require.NoError(t, w.Start(context.Background(), []string{rootA}))
	require.NoError(t, w.Restart(context.Background(), []string{rootB}))

	status := w.GetStatus()
	assert.True(t, status.IsWatching)
	assert.Equal(t, []string{rootB}, status.WatchedPaths)
	require.NoError(t, w.Stop())
}
