package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/fastsearch/internal/model"
)

func rec(path, name, fileType string, size int64) model.FileRecord {
	return model.FileRecord{
		Path: path, Name: name, FileType: fileType, Size: size,
		IsIndexed: true, IsIndexable: true,
	}
}

func dirRec(path, name string) model.FileRecord {
	return model.FileRecord{
		Path: path, Name: name, IsDir: true, ContentIndexed: true, IsIndexable: true,
	}
}

func paths(files []model.FileRecord) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Path
	}
	return out
}

// Scenario A: insert + search by name.
func TestScenarioA_InsertAndSearchByName(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Insert([]model.FileRecord{
		rec("/a/one.txt", "one.txt", "txt", 100),
		rec("/a/two.txt", "two.txt", "txt", 200),
		rec("/a/sub/three.md", "three.md", "md", 50),
	}))

	results, err := s.Search(model.SearchRequest{Text: "two", Limit: 10})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "/a/two.txt", results[0].Path)
}

// Scenario B: filter by extension and size.
func TestScenarioB_FilterByExtensionAndSize(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Insert([]model.FileRecord{
		rec("/a/one.txt", "one.txt", "txt", 100),
		rec("/a/two.txt", "two.txt", "txt", 200),
		rec("/a/sub/three.md", "three.md", "md", 50),
		rec("/a/big.log", "big.log", "log", 2*1024*1024),
	}))

	byExt, err := s.Search(model.SearchRequest{
		Limit:   10,
		Filters: model.Filters{FileTypes: []string{"txt"}},
		SortBy:  model.SortByName,
	})
	require.NoError(t, err)
	require.Len(t, byExt, 2)
	assert.Equal(t, []string{"/a/one.txt", "/a/two.txt"}, paths(byExt))

	bySize, err := s.Search(model.SearchRequest{
		Limit:   10,
		Filters: model.Filters{SizeLimitMB: [2]int64{1, 0}},
	})
	require.NoError(t, err)
	require.Len(t, bySize, 1)
	assert.Equal(t, "/a/big.log", bySize[0].Path)
}

// Scenario C: root-CTE filter.
func TestScenarioC_RootFilter(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Insert([]model.FileRecord{
		rec("/x/a.txt", "a.txt", "txt", 10),
		rec("/y/b.txt", "b.txt", "txt", 10),
	}))

	results, err := s.Search(model.SearchRequest{
		Limit:   10,
		Filters: model.Filters{Folders: []string{"/x"}},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "/x/a.txt", results[0].Path)
}

// Scenario D: FTS search ordered by relevance.
func TestScenarioD_FTSSearch(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Insert([]model.FileRecord{
		rec("/docs/readme.md", "readme.md", "md", 20),
	}))
	require.NoError(t, s.UpdateFileIndexStatus("/docs/readme.md", "hello world", true))

	results, err := s.Search(model.SearchRequest{
		Text:    "hello",
		Limit:   10,
		Filters: model.Filters{SearchInContent: true},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "/docs/readme.md", results[0].Path)
}

// Scenario E: root withdrawal cascades file + fts_content deletion.
func TestScenarioE_RootWithdrawal(t *testing.T) {
	s := newTestStore(t)
	_, err := s.InsertPaths([]string{"/p", "/q"})
	require.NoError(t, err)
	require.NoError(t, s.Insert([]model.FileRecord{
		rec("/p/a.txt", "a.txt", "txt", 1),
		rec("/q/b.txt", "b.txt", "txt", 1),
	}))
	require.NoError(t, s.UpdateFileIndexStatus("/p/a.txt", "content", true))

	_, err = s.InsertPaths([]string{"/q"})
	require.NoError(t, err)

	allPaths, err := s.GetAllPaths()
	require.NoError(t, err)
	assert.Equal(t, []string{"/q"}, allPaths)

	remaining, err := s.Search(model.SearchRequest{Limit: 10})
	require.NoError(t, err)
	for _, f := range remaining {
		assert.NotContains(t, f.Path, "/p/")
	}

	var ftsCount int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM fts_content`).Scan(&ftsCount))
	assert.Equal(t, 0, ftsCount)
}

// Scenario G: cursor pagination concatenation equals offset pagination.
func TestScenarioG_CursorPagination(t *testing.T) {
	s := newTestStore(t)
	var batch []model.FileRecord
	for i := 0; i < 20; i++ {
		name := "file" + string(rune('a'+i)) + ".txt"
		batch = append(batch, rec("/r/"+name, name, "txt", int64(i)))
	}
	require.NoError(t, s.Insert(batch))

	full, err := s.Search(model.SearchRequest{Limit: 20, Offset: 0, SortBy: model.SortByName})
	require.NoError(t, err)
	require.Len(t, full, 20)

	var paged []model.FileRecord
	var cursor *int64
	for i := 0; i < 4; i++ {
		page, err := s.Search(model.SearchRequest{Limit: 5, Cursor: cursor, SortBy: model.SortByName})
		require.NoError(t, err)
		// Cursor pagination requires an order compatible with id to stay
		// stable; names here were inserted in ascending order, so sorting
		// by name matches id order and exercises the keyset branch itself.
		paged = append(paged, page...)
		if len(page) == 0 {
			break
		}
		last := page[len(page)-1].ID
		cursor = &last
	}
	assert.Len(t, paged, 20)
	assert.Equal(t, paths(full), paths(paged))
}

func TestDirectoryInvariants(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Insert([]model.FileRecord{dirRec("/a", "a")}))

	results, err := s.Search(model.SearchRequest{Limit: 10, Filters: model.Filters{IsDir: true}})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, int64(0), results[0].Size)
	assert.True(t, results[0].ContentIndexed)
	assert.True(t, results[0].IsIndexable)
}

func TestInsert_IgnoresDuplicatePaths(t *testing.T) {
	s := newTestStore(t)
	f := rec("/a/one.txt", "one.txt", "txt", 100)
	require.NoError(t, s.Insert([]model.FileRecord{f}))
	require.NoError(t, s.Insert([]model.FileRecord{f}))

	results, err := s.Search(model.SearchRequest{Limit: 10})
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestInsert_EmptyBatchIsNoop(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Insert(nil))
}

func TestUpdateFileIndexStatus_NotFound(t *testing.T) {
	s := newTestStore(t)
	err := s.UpdateFileIndexStatus("/missing", "x", true)
	require.Error(t, err)
}

func TestResetData_ClearsEverything(t *testing.T) {
	s := newTestStore(t)
	_, err := s.InsertPaths([]string{"/p"})
	require.NoError(t, err)
	require.NoError(t, s.Insert([]model.FileRecord{rec("/p/a.txt", "a.txt", "txt", 1)}))
	require.NoError(t, s.UpdateFileIndexStatus("/p/a.txt", "hi", true))

	require.NoError(t, s.ResetData())

	allTypes, err := s.GetAllTypes()
	require.NoError(t, err)
	assert.Empty(t, allTypes)

	allPaths, err := s.GetAllPaths()
	require.NoError(t, err)
	assert.Empty(t, allPaths)

	results, err := s.Search(model.SearchRequest{Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestGetStat_ComputesPercentages(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Insert([]model.FileRecord{
		rec("/a/one.txt", "one.txt", "txt", 10),
		rec("/a/two.txt", "two.txt", "txt", 20),
	}))
	require.NoError(t, s.UpdateFileIndexStatus("/a/one.txt", "hi", true))

	st, err := s.GetStat()
	require.NoError(t, err)
	assert.Equal(t, int64(2), st.NbFiles)
	assert.Equal(t, int64(30), st.TotalSize)
	assert.Equal(t, int64(1), st.ContentIndexedFiles)
	assert.InDelta(t, 50.0, st.ContentIndexedPercentage, 0.001)
}
