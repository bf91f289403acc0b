package storage

import (
	"context"
	"database/sql"

	"github.com/mvp-joe/fastsearch/internal/errs"
	"github.com/mvp-joe/fastsearch/internal/model"
	"github.com/mvp-joe/fastsearch/internal/query"
)

// Search compiles req via the query package and executes the resulting
// statement under a hard s.searchTimeout deadline, returning an
// errs.Timeout error if the query has not completed by then.
func (s *Store) Search(req model.SearchRequest) ([]model.FileRecord, error) {
	compiled, err := query.Compile(req)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.searchTimeout)
	defer cancel()

	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx, compiled.SQL, compiled.Params...)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, errs.New(errs.Timeout, "Store.Search", "search exceeded timeout")
		}
		return nil, dbErr("Store.Search", err)
	}
	defer rows.Close()

	records, err := scanFileRecords(rows)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, errs.New(errs.Timeout, "Store.Search", "search exceeded timeout")
		}
		return nil, dbErr("Store.Search", err)
	}
	return records, nil
}

// GetUncontentIndexedFiles returns every file where content_indexed = 0
// and is_indexable = 1 (the Content Indexer's work queue,.
func (s *Store) GetUncontentIndexedFiles() ([]model.FileRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT * FROM files WHERE content_indexed = 0 AND is_indexable = 1`)
	if err != nil {
		return nil, dbErr("Store.GetUncontentIndexedFiles", err)
	}
	defer rows.Close()
	records, err := scanFileRecords(rows)
	return records, dbErr("Store.GetUncontentIndexedFiles", err)
}

// GetAllTypes returns every registered extension.
func (s *Store) GetAllTypes() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return queryStrings(s.db, `SELECT name FROM types`)
}

// GetAllPaths returns every configured root, distinct.
func (s *Store) GetAllPaths() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getAllPathsLocked()
}

func (s *Store) getAllPathsLocked() ([]string, error) {
	return queryStrings(s.db, `SELECT DISTINCT path FROM paths`)
}

// GetAllFolders returns the distinct names of directory entries.
func (s *Store) GetAllFolders() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return queryStrings(s.db, `SELECT DISTINCT name FROM files WHERE is_dir = 1`)
}

func queryStrings(db *sql.DB, sqlStr string) ([]string, error) {
	rows, err := db.Query(sqlStr)
	if err != nil {
		return nil, dbErr("Store.queryStrings", err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, dbErr("Store.queryStrings", err)
		}
		out = append(out, v)
	}
	return out, dbErr("Store.queryStrings", rows.Err())
}

// scanFileRecords scans every column of the files table, in schema.go's
// column order, into model.FileRecord values.
func scanFileRecords(rows *sql.Rows) ([]model.FileRecord, error) {
	var out []model.FileRecord
	for rows.Next() {
		var (
			f           model.FileRecord
			fileType    sql.NullString
			permissions sql.NullInt64
			owner       sql.NullString
			group       sql.NullString
			mimeType    sql.NullString
			encoding    sql.NullString
			lineCount   sql.NullInt64
			wordCount   sql.NullInt64
			checksum    sql.NullString
		)
		if err := rows.Scan(
			&f.ID, &f.Path, &f.Name, &f.IsDir, &fileType, &f.Size,
			&f.LastModified, &f.CreatedAt, &f.AccessedAt,
			&f.IsIndexed, &f.ContentIndexed, &f.IsIndexable,
			&f.IsHidden, &f.IsReadonly, &f.IsSystem, &f.IsExecutable, &f.IsSymlink,
			&permissions, &owner, &group, &mimeType, &encoding,
			&lineCount, &wordCount, &checksum, &f.IsEncrypted,
		); err != nil {
			return nil, err
		}
		if fileType.Valid {
			f.FileType = fileType.String
		}
		if permissions.Valid {
			v := uint32(permissions.Int64)
			f.Permissions = &v
		}
		if owner.Valid {
			v := owner.String
			f.Owner = &v
		}
		if group.Valid {
			v := group.String
			f.Group = &v
		}
		if mimeType.Valid {
			f.MimeType = mimeType.String
		}
		if encoding.Valid {
			f.Encoding = encoding.String
		}
		if lineCount.Valid {
			v := lineCount.Int64
			f.LineCount = &v
		}
		if wordCount.Valid {
			v := wordCount.Int64
			f.WordCount = &v
		}
		if checksum.Valid {
			f.Checksum = checksum.String
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
