package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/fastsearch/internal/model"
)

// TestEndToEnd_ScanSearchReset exercises the same wiring the scan/search/
// reset cobra commands drive, end to end against a real temp-dir tree,
// proving the App bootstrap composes the engine packages correctly.
func TestEndToEnd_ScanSearchReset(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "one.txt"), []byte("hello world"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "two.md"), []byte("# notes"), 0o644))

	a, err := newApp(testConfigFile(t, t.TempDir()))
	require.NoError(t, err)
	defer a.Close()

	added, err := a.Store.InsertPaths([]string{root})
	require.NoError(t, err)
	require.Equal(t, []string{root}, added)

	result, err := a.Orch.ScanAll(context.Background(), []string{root})
	require.NoError(t, err)
	require.Equal(t, 3, result.TotalFiles) // root dir + two.md + one.txt

	found, err := a.Store.Search(model.SearchRequest{
		Text:   "two",
		SortBy: model.SortByName,
		Limit:  10,
	})
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, filepath.Join(root, "two.md"), found[0].Path)

	totals, err := a.Indexer.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, totals.Processed)

	contentHits, err := a.Store.Search(model.SearchRequest{
		Text:            "hello",
		SearchInContent: true,
		Limit:           10,
		Filters:         model.Filters{SearchInContent: true},
	})
	require.NoError(t, err)
	require.Len(t, contentHits, 1)
	require.Equal(t, filepath.Join(root, "one.txt"), contentHits[0].Path)

	require.NoError(t, a.Store.ResetData())
	paths, err := a.Store.GetAllPaths()
	require.NoError(t, err)
	require.Empty(t, paths)
}
