package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/fastsearch/internal/model"
)

func TestBuild_ParameterOrder_CTE_FTS_Cursor_Where(t *testing.T) {
	cursor := int64(42)
	req := model.SearchRequest{
		Text: "hello",
		Filters: model.Filters{
			Folders:         []string{"/x", "/y"},
			FileTypes:       []string{"txt", "md"},
			SearchInContent: true,
		},
		SortBy:    model.SortByName,
		SortOrder: model.SortAsc,
		Limit:     10,
		Cursor:    &cursor,
	}

	compiled, err := Compile(req)
	require.NoError(t, err)

	// CTE params first, in roots order.
	require.GreaterOrEqual(t, len(compiled.Params), 5)
	assert.Equal(t, "/x", compiled.Params[0])
	assert.Equal(t, "/y", compiled.Params[1])
	// FTS match param next.
	assert.Equal(t, `"hello"`, compiled.Params[2])
	// Cursor param next.
	assert.Equal(t, int64(42), compiled.Params[3])
	// Remaining WHERE params (file types) last, in attachment order.
	assert.Equal(t, "txt", compiled.Params[4])
	assert.Equal(t, "md", compiled.Params[5])

	assert.Contains(t, compiled.SQL, "WITH roots(root) AS (VALUES (?), (?))")
	assert.Contains(t, compiled.SQL, "MATCH ?")
	assert.Contains(t, compiled.SQL, "files.id > ?")
	assert.Contains(t, compiled.SQL, "bm25(fts_content) ASC")
	assert.Contains(t, compiled.SQL, "LIMIT 10")
	assert.NotContains(t, compiled.SQL, "OFFSET")
}

func TestBuild_OffsetPagination_WithoutCursor(t *testing.T) {
	req := model.SearchRequest{
		Limit:  5,
		Offset: 15,
	}
	compiled, err := Compile(req)
	require.NoError(t, err)
	assert.Contains(t, compiled.SQL, "LIMIT 5 OFFSET 15")
}

func TestBuild_NameSearch_WhenNotSearchingContent(t *testing.T) {
	req := model.SearchRequest{
		Text:  "two",
		Limit: 10,
	}
	compiled, err := Compile(req)
	require.NoError(t, err)
	assert.Contains(t, compiled.SQL, "LOWER(files.name) LIKE LOWER(?)")
	assert.Equal(t, "%two%", compiled.Params[0])
}

func TestBuild_SizeRange_MinOnly(t *testing.T) {
	req := model.SearchRequest{
		Limit: 10,
		Filters: model.Filters{
			SizeLimitMB: [2]int64{1, 0},
		},
	}
	compiled, err := Compile(req)
	require.NoError(t, err)
	assert.Contains(t, compiled.SQL, "files.size >= ? AND files.size <= ?")
	assert.Equal(t, int64(1*1024*1024), compiled.Params[0])
}

func TestBuild_DateMode_SelectsColumn(t *testing.T) {
	req := model.SearchRequest{
		Limit: 10,
		Filters: model.Filters{
			DateRange: [2]int64{100, 200},
			DateMode:  model.DateModeCreate,
		},
	}
	compiled, err := Compile(req)
	require.NoError(t, err)
	assert.Contains(t, compiled.SQL, "files.created_at >= ? AND files.created_at <= ?")
}

func TestValidate_RejectsOutOfRangeLimit(t *testing.T) {
	_, err := Compile(model.SearchRequest{Limit: 0})
	require.Error(t, err)

	_, err = Compile(model.SearchRequest{Limit: MaxLimit + 1})
	require.Error(t, err)
}

func TestValidate_RejectsOversizeText(t *testing.T) {
	big := make([]byte, MaxTextBytes+1)
	_, err := Compile(model.SearchRequest{Limit: 1, Text: string(big)})
	require.Error(t, err)
}

func TestEscapeFTS_DoublesQuotes(t *testing.T) {
	assert.Equal(t, `"a ""b"" c"`, EscapeFTS(`a "b" c`))
}
