// Package model holds the data types shared across the store, query
// compiler, scanner, extractor, and orchestrator: the FileRecord schema,
// search request shape, and the derived Stat aggregate.
package model

// FileRecord is one discovered filesystem entry, directory or file.
type FileRecord struct {
	ID             int64
	Path           string
	Name           string
	IsDir          bool
	FileType       string // lowercased extension, empty for none/dirs
	Size           int64
	LastModified   int64 // unix seconds
	CreatedAt      int64
	AccessedAt     int64
	IsIndexed      bool
	ContentIndexed bool
	IsIndexable    bool

	IsHidden     bool
	IsReadonly   bool
	IsSystem     bool
	IsExecutable bool
	IsSymlink    bool
	Permissions  *uint32
	Owner        *string
	Group        *string
	MimeType     string
	Encoding     string
	LineCount    *int64
	WordCount    *int64
	Checksum     string
	IsEncrypted  bool
}

// HasFileType reports whether the record carries a non-empty extension.
func (f *FileRecord) HasFileType() bool { return f.FileType != "" }

// DateMode selects which timestamp column a date-range filter applies to.
type DateMode string

const (
	DateModeCreate DateMode = "Create"
	DateModeModify DateMode = "Modify"
)

// SortBy selects the result ordering column.
type SortBy string

const (
	SortByName         SortBy = "Name"
	SortBySize         SortBy = "Size"
	SortByLastModified SortBy = "LastModified"
	SortByCreatedAt    SortBy = "CreatedAt"
	SortByAccessedAt   SortBy = "AccessedAt"
)

// SortOrder is the direction applied to SortBy.
type SortOrder string

const (
	SortAsc  SortOrder = "Asc"
	SortDesc SortOrder = "Desc"
)

// Filters groups the metadata predicates of a SearchRequest.
type Filters struct {
	IsDir           bool
	Folders         []string
	FileTypes       []string
	SizeLimitMB     [2]int64 // [min, max]; 0 means unset
	DateRange       [2]int64 // [min, max] unix seconds; 0 means unset
	DateMode        DateMode
	SearchInContent bool
}

// SearchRequest is the structured query accepted by Store.Search, compiled
// by the query package into a single parameterised statement.
type SearchRequest struct {
	Text            string
	Filters         Filters
	SortBy          SortBy
	SortOrder       SortOrder
	Limit           int
	Offset          int
	Cursor          *int64
	PathPattern     string
	SearchInContent bool
}

// Stat is the derived aggregate returned by Store.GetStat.
type Stat struct {
	NbFiles                  int64
	NbFolders                int64
	TotalSize                int64
	IndexedFiles             int64
	UnindexedFiles           int64
	IndexedPercentage        float64
	ContentIndexedFiles      int64
	UncontentIndexedFiles    int64
	ContentIndexedPercentage float64
	UnindexableFiles         int64
}

// ComputePercentages fills IndexedPercentage and ContentIndexedPercentage
// from the raw counts, guarding zero denominators.
func (s *Stat) ComputePercentages() {
	if denom := s.IndexedFiles + s.UnindexedFiles; denom > 0 {
		s.IndexedPercentage = float64(s.IndexedFiles) / float64(denom) * 100.0
	}
	if denom := s.ContentIndexedFiles + s.UncontentIndexedFiles; denom > 0 {
		s.ContentIndexedPercentage = float64(s.ContentIndexedFiles) / float64(denom) * 100.0
	}
}
