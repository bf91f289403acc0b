// Package query compiles a model.SearchRequest into a single parameterised
// SQL statement and its ordered parameter list. The ordering contract -
// CTE parameters, then the FTS MATCH parameter, then the cursor parameter,
// then the remaining WHERE parameters - is load-bearing: it must match the
// order in which '?' placeholders appear in the emitted SQL.
package query

import (
	"fmt"
	"strings"

	"github.com/mvp-joe/fastsearch/internal/errs"
	"github.com/mvp-joe/fastsearch/internal/model"
)

const (
	MaxLimit     = 1000
	MaxOffset    = 100_000
	MaxTextBytes = 1000
)

// Builder accumulates WHERE predicates and CTE/FTS branches, mirroring the
// original query_builder's conditions/cte_conditions/fts split so that
// Build can lay parameters down in the required order.
type Builder struct {
	conditions   []string
	params       []interface{}
	cteValues    []string // one "(?)" per root
	cteParams    []interface{}
	hasFTS       bool
	ftsQuery     string
	hasRoots     bool
}

// New returns an empty Builder.
func New() *Builder { return &Builder{} }

func (b *Builder) addCondition(cond string, params ...interface{}) {
	b.conditions = append(b.conditions, cond)
	b.params = append(b.params, params...)
}

// AddRoots attaches a roots(root) CTE over the given absolute paths and a
// descendant-by-prefix predicate against it.
func (b *Builder) AddRoots(roots []string) {
	if len(roots) == 0 {
		return
	}
	b.hasRoots = true
	for _, r := range roots {
		b.cteValues = append(b.cteValues, "(?)")
		b.cteParams = append(b.cteParams, r)
	}
	b.conditions = append(b.conditions,
		"EXISTS (SELECT 1 FROM roots r WHERE files.path >= r.root AND files.path < r.root || CHAR(0x10FFFF))")
}

// AddFTS marks the text predicate as a full-text MATCH against fts_content.
// The caller passes the already-escaped, already-quoted query text.
func (b *Builder) AddFTS(escapedQuery string) {
	b.hasFTS = true
	b.ftsQuery = escapedQuery
}

// AddNameLike adds a case-insensitive substring predicate on files.name.
func (b *Builder) AddNameLike(text string) {
	b.addCondition("LOWER(files.name) LIKE LOWER(?)", "%"+text+"%")
}

// AddIsDir restricts results to directories.
func (b *Builder) AddIsDir() {
	b.addCondition("files.is_dir = 1")
}

// AddFileTypes restricts results to one of the given extensions.
func (b *Builder) AddFileTypes(types []string) {
	if len(types) == 0 {
		return
	}
	placeholders := make([]string, len(types))
	params := make([]interface{}, len(types))
	for i, t := range types {
		placeholders[i] = "?"
		params[i] = t
	}
	b.addCondition(fmt.Sprintf("files.file_type IN (%s)", strings.Join(placeholders, ",")), params...)
}

// AddSizeRange restricts results to [minBytes, maxBytes]; pass maxBytes<=0
// to mean "no upper bound".
func (b *Builder) AddSizeRange(minBytes, maxBytes int64) {
	if maxBytes <= 0 {
		maxBytes = 1<<63 - 1
	}
	b.addCondition("files.size >= ? AND files.size <= ?", minBytes, maxBytes)
}

// AddDateRange restricts results to [minSec, maxSec] on created_at or
// last_modified depending on mode.
func (b *Builder) AddDateRange(mode model.DateMode, minSec, maxSec int64) {
	column := "files.last_modified"
	if mode == model.DateModeCreate {
		column = "files.created_at"
	}
	if maxSec <= 0 {
		maxSec = 1<<63 - 1
	}
	b.addCondition(fmt.Sprintf("%s >= ? AND %s <= ?", column, column), minSec, maxSec)
}

// AddPathPattern restricts results to paths containing the given substring.
func (b *Builder) AddPathPattern(pattern string) {
	b.addCondition("files.path LIKE ?", "%"+pattern+"%")
}

// Compiled is the result of Build: one SQL statement and its ordered
// parameter list.
type Compiled struct {
	SQL    string
	Params []interface{}
}

// Build assembles the final statement. sortColumn/sortOrder must already be
// validated identifiers. cursor, when non-nil, switches to keyset
// pagination (files.id > cursor, LIMIT only); otherwise LIMIT/OFFSET is
// used.
func (b *Builder) Build(sortColumn, sortOrder string, limit, offset int, cursor *int64) Compiled {
	var sql strings.Builder
	var params []interface{}

	if b.hasRoots {
		sql.WriteString("WITH roots(root) AS (VALUES ")
		sql.WriteString(strings.Join(b.cteValues, ", "))
		sql.WriteString(") ")
		params = append(params, b.cteParams...)
	}

	if b.hasFTS {
		sql.WriteString("SELECT files.* FROM files JOIN fts_content ON files.id = fts_content.file_id WHERE fts_content.content MATCH ?")
		params = append(params, b.ftsQuery)
	} else {
		sql.WriteString("SELECT * FROM files WHERE 1=1")
	}

	if cursor != nil {
		sql.WriteString(" AND files.id > ?")
		params = append(params, *cursor)
	}

	for _, cond := range b.conditions {
		sql.WriteString(" AND ")
		sql.WriteString(cond)
	}
	params = append(params, b.params...)

	sql.WriteString(" ORDER BY ")
	if b.hasFTS {
		sql.WriteString("bm25(fts_content) ASC, ")
	}
	sql.WriteString(sortColumn)
	sql.WriteString(" ")
	sql.WriteString(sortOrder)

	if cursor != nil {
		sql.WriteString(fmt.Sprintf(" LIMIT %d", limit))
	} else {
		sql.WriteString(fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset))
	}

	return Compiled{SQL: sql.String(), Params: params}
}

// EscapeFTS doubles embedded double-quotes and wraps the result in a
// phrase so the FTS5 tokenizer treats it literally.
func EscapeFTS(text string) string {
	return `"` + strings.ReplaceAll(text, `"`, `""`) + `"`
}

func sortColumnFor(sortBy model.SortBy) (string, error) {
	switch sortBy {
	case model.SortByName, "":
		return "files.name COLLATE NOCASE", nil
	case model.SortBySize:
		return "files.size", nil
	case model.SortByLastModified:
		return "files.last_modified", nil
	case model.SortByCreatedAt:
		return "files.created_at", nil
	case model.SortByAccessedAt:
		return "files.accessed_at", nil
	default:
		return "", errs.New(errs.Validation, "query.sortColumnFor", "unknown sort_by: "+string(sortBy))
	}
}

func sortOrderFor(order model.SortOrder) string {
	if order == model.SortDesc {
		return "DESC"
	}
	return "ASC"
}

// Validate checks the bounds from before compilation.
func Validate(req model.SearchRequest) error {
	if req.Limit < 1 || req.Limit > MaxLimit {
		return errs.New(errs.Validation, "query.Validate", fmt.Sprintf("limit must be in [1,%d]", MaxLimit))
	}
	if req.Offset > MaxOffset {
		return errs.New(errs.Validation, "query.Validate", fmt.Sprintf("offset must be <= %d", MaxOffset))
	}
	if len(req.Text) > MaxTextBytes {
		return errs.New(errs.Validation, "query.Validate", fmt.Sprintf("text must be <= %d bytes", MaxTextBytes))
	}
	return nil
}

// Compile validates and translates req into a Compiled statement, applying
// clauses in order: text predicate, dir filter, extensions, roots, size,
// dates, path pattern, sort, pagination.
func Compile(req model.SearchRequest) (Compiled, error) {
	if err := Validate(req); err != nil {
		return Compiled{}, err
	}

	b := New()

	text := strings.TrimSpace(req.Text)
	if text != "" {
		if req.SearchInContent || req.Filters.SearchInContent {
			b.AddFTS(EscapeFTS(text))
		} else {
			b.AddNameLike(req.Text)
		}
	}

	if req.Filters.IsDir {
		b.AddIsDir()
	}
	if len(req.Filters.FileTypes) > 0 {
		b.AddFileTypes(req.Filters.FileTypes)
	}
	if len(req.Filters.Folders) > 0 {
		b.AddRoots(req.Filters.Folders)
	}
	if min, max := req.Filters.SizeLimitMB[0], req.Filters.SizeLimitMB[1]; min > 0 || max > 0 {
		const mib = 1024 * 1024
		maxBytes := int64(0)
		if max > 0 {
			maxBytes = max * mib
		}
		b.AddSizeRange(min*mib, maxBytes)
	}
	if min, max := req.Filters.DateRange[0], req.Filters.DateRange[1]; min > 0 || max > 0 {
		b.AddDateRange(req.Filters.DateMode, min, max)
	}
	if pattern := strings.TrimSpace(req.PathPattern); pattern != "" {
		b.AddPathPattern(pattern)
	}

	sortColumn, err := sortColumnFor(req.SortBy)
	if err != nil {
		return Compiled{}, err
	}
	sortOrder := sortOrderFor(req.SortOrder)

	limit := req.Limit
	if limit == 0 {
		limit = 100
	}

	return b.Build(sortColumn, sortOrder, limit, req.Offset, req.Cursor), nil
}
