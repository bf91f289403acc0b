package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func testConfigFile(t *testing.T, dataDir string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fastsearch.yaml")
	contents := "store:\n  data_dir: \"" + dataDir + "\"\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestNewApp_WiresAllCollaborators(t *testing.T) {
	a, err := newApp(testConfigFile(t, t.TempDir()))
	require.NoError(t, err)
	defer a.Close()

	require.NotNil(t, a.Store)
	require.NotNil(t, a.Scanner)
	require.NotNil(t, a.Indexer)
	require.NotNil(t, a.Watcher)
	require.NotNil(t, a.Orch)
	require.NotNil(t, a.Bus)

	paths, err := a.Store.GetAllPaths()
	require.NoError(t, err)
	require.Empty(t, paths)
}

func TestNewApp_OpensDBFileUnderDataDir(t *testing.T) {
	dataDir := t.TempDir()
	a, err := newApp(testConfigFile(t, dataDir))
	require.NoError(t, err)
	defer a.Close()

	_, err = os.Stat(filepath.Join(dataDir, a.Config.Store.DBFileName))
	require.NoError(t, err)
}

func TestApp_Close_StopsWatcherAndClosesStore(t *testing.T) {
	a, err := newApp(testConfigFile(t, t.TempDir()))
	require.NoError(t, err)
	require.NoError(t, a.Close())
}
