package contentindex

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/mvp-joe/fastsearch/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	mu       sync.Mutex
	pending  []model.FileRecord
	updates  map[string]string
	indexable map[string]bool
}

func newFakeStore(pending []model.FileRecord) *fakeStore {
	return &fakeStore{pending: pending, updates: map[string]string{}, indexable: map[string]bool{}}
}

func (f *fakeStore) GetUncontentIndexedFiles() ([]model.FileRecord, error) {
	return f.pending, nil
}

func (f *fakeStore) UpdateFileIndexStatus(path, content string, isIndexable bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates[path] = content
	f.indexable[path] = isIndexable
	return nil
}

func (f *fakeStore) GetStat() (model.Stat, error) {
	return model.Stat{}, nil
}

func TestIndexer_Run_ExtractsIndexableFiles(t *testing.T) {
	dir := t.TempDir()
	txtPath := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(txtPath, []byte("hello world"), 0o644))
	docxPath := filepath.Join(dir, "b.docx")
	require.NoError(t, os.WriteFile(docxPath, []byte("binary"), 0o644))

	store := newFakeStore([]model.FileRecord{
		{Path: txtPath, FileType: "txt"},
		{Path: docxPath, FileType: "docx"},
	})

	idx := New(store, nil, nil)
	totals, err := idx.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, totals.Processed)
	assert.Equal(t, 1, totals.Successful)
	assert.Equal(t, 1, totals.Failed)

	assert.Equal(t, "hello world", store.updates[txtPath])
	assert.True(t, store.indexable[txtPath])
	assert.False(t, store.indexable[docxPath])
}

func TestIndexer_Run_MissingFileMarkedNonIndexable(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "gone.txt")
	store := newFakeStore([]model.FileRecord{{Path: missing, FileType: "txt"}})

	idx := New(store, nil, nil)
	totals, err := idx.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, totals.Failed)
	assert.False(t, store.indexable[missing])
}

func TestIndexer_Run_EmptyPendingSet(t *testing.T) {
	store := newFakeStore(nil)
	idx := New(store, nil, nil)
	totals, err := idx.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Totals{}, totals)
}
