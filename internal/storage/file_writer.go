package storage

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"

	"github.com/mvp-joe/fastsearch/internal/errs"
	"github.com/mvp-joe/fastsearch/internal/model"
)

// Insert derives new file_type values and registers them in one
// transaction, then bulk-checks existing paths and inserts only the new
// rows in a second transaction, both under one hard s.insertTimeout
// deadline. The two steps are not atomic together: if the file insert
// fails, types registered by the first step stay in place. Empty batches
// return success without opening a transaction.
func (s *Store) Insert(files []model.FileRecord) error {
	if len(files) == 0 {
		return nil
	}

	newTypes := make([]string, 0, len(files))
	for _, f := range files {
		if f.FileType != "" {
			newTypes = append(newTypes, f.FileType)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.insertTimeout)
	defer cancel()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.insertTypesLocked(ctx, newTypes); err != nil {
		return timeoutOr("Store.Insert", ctx, err)
	}
	return timeoutOr("Store.Insert", ctx, s.insertFilesLocked(ctx, files))
}

// timeoutOr reparents err as an errs.Timeout if ctx expired, otherwise
// returns err unchanged.
func timeoutOr(op string, ctx context.Context, err error) error {
	if err != nil && ctx.Err() == context.DeadlineExceeded {
		return errs.New(errs.Timeout, op, "insert exceeded timeout")
	}
	return err
}

// InsertTypes is the exported, lock-guarded form of insertTypesLocked for
// callers that only need to register extensions.
func (s *Store) InsertTypes(names []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.insertTimeout)
	defer cancel()

	s.mu.Lock()
	defer s.mu.Unlock()
	return timeoutOr("Store.InsertTypes", ctx, s.insertTypesLocked(ctx, names))
}

func (s *Store) insertTypesLocked(ctx context.Context, names []string) error {
	if err := s.types.ensureLoaded(s.db); err != nil {
		return dbErr("Store.insertTypesLocked", err)
	}
	fresh := s.types.filterNew(names)
	if len(fresh) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return dbErr("Store.insertTypesLocked", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO types (name) VALUES (?)`)
	if err != nil {
		return dbErr("Store.insertTypesLocked", err)
	}
	defer stmt.Close()

	for _, name := range fresh {
		if _, err := stmt.ExecContext(ctx, name); err != nil {
			return dbErr("Store.insertTypesLocked", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return dbErr("Store.insertTypesLocked", err)
	}

	s.types.commit(fresh)
	return nil
}

func (s *Store) insertFilesLocked(ctx context.Context, files []model.FileRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return dbErr("Store.insertFilesLocked", err)
	}
	defer tx.Rollback()

	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path
	}

	existingRows, err := s.qb.Select("path").From("files").
		Where(sq.Eq{"path": paths}).RunWith(tx).QueryContext(ctx)
	if err != nil {
		return dbErr("Store.insertFilesLocked", err)
	}
	existing := make(map[string]struct{}, len(files))
	for existingRows.Next() {
		var p string
		if err := existingRows.Scan(&p); err != nil {
			existingRows.Close()
			return dbErr("Store.insertFilesLocked", err)
		}
		existing[p] = struct{}{}
	}
	existingRows.Close()
	if err := existingRows.Err(); err != nil {
		return dbErr("Store.insertFilesLocked", err)
	}

	insert := s.qb.Insert("files").Options("OR IGNORE").Columns(
		"path", "name", "is_dir", "file_type", "size", "last_modified", "created_at", "accessed_at",
		"is_indexed", "content_indexed", "is_indexable", "is_hidden", "is_readonly", "is_system",
		"is_executable", "is_symlink", "permissions", "owner", "group", "mime_type", "encoding",
		"line_count", "word_count", "checksum", "is_encrypted",
	)

	hasRows := false
	for _, f := range files {
		if _, already := existing[f.Path]; already {
			continue
		}
		hasRows = true
		var fileType interface{}
		if f.FileType != "" {
			fileType = f.FileType
		}
		insert = insert.Values(
			f.Path, f.Name, f.IsDir, fileType, f.Size, f.LastModified, f.CreatedAt, f.AccessedAt,
			f.IsIndexed, f.ContentIndexed, f.IsIndexable, f.IsHidden, f.IsReadonly, f.IsSystem,
			f.IsExecutable, f.IsSymlink, f.Permissions, f.Owner, f.Group, nullIfEmpty(f.MimeType),
			nullIfEmpty(f.Encoding), f.LineCount, f.WordCount, nullIfEmpty(f.Checksum), f.IsEncrypted,
		)
	}

	if hasRows {
		if _, err := insert.RunWith(tx).ExecContext(ctx); err != nil {
			return dbErr("Store.insertFilesLocked", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return dbErr("Store.insertFilesLocked", err)
	}
	return nil
}

// InsertPaths replaces the root set with newRoots, deleting any files under
// a root that was removed, and returns the roots that were actually added.
func (s *Store) InsertPaths(newRoots []string) ([]string, error) {
	s.mu.Lock()
	existingRoots, err := s.getAllPathsLocked()
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	existingSet := toSet(existingRoots)
	newSet := toSet(newRoots)

	var removed []string
	for _, r := range existingRoots {
		if _, ok := newSet[r]; !ok {
			removed = append(removed, r)
		}
	}
	var added []string
	for _, r := range newRoots {
		if _, ok := existingSet[r]; !ok {
			added = append(added, r)
		}
	}

	for _, r := range removed {
		if err := s.DeleteFilesByPathPrefix(r); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return nil, dbErr("Store.InsertPaths", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM paths`); err != nil {
		return nil, dbErr("Store.InsertPaths", err)
	}
	insertStmt, err := tx.Prepare(`INSERT INTO paths (path) VALUES (?)`)
	if err != nil {
		return nil, dbErr("Store.InsertPaths", err)
	}
	defer insertStmt.Close()
	for _, r := range newRoots {
		if _, err := insertStmt.Exec(r); err != nil {
			return nil, dbErr("Store.InsertPaths", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, dbErr("Store.InsertPaths", err)
	}

	return added, nil
}

// DeleteFilesByPathPrefix removes every file (and its fts_content row)
// whose path begins with prefix, in one transaction.
func (s *Store) DeleteFilesByPathPrefix(prefix string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return dbErr("Store.DeleteFilesByPathPrefix", err)
	}
	defer tx.Rollback()

	likePattern := prefix + "%"

	if _, err := tx.Exec(
		`DELETE FROM fts_content WHERE file_id IN (SELECT id FROM files WHERE path LIKE ?)`,
		likePattern,
	); err != nil {
		return dbErr("Store.DeleteFilesByPathPrefix", err)
	}
	if _, err := tx.Exec(`DELETE FROM files WHERE path LIKE ?`, likePattern); err != nil {
		return dbErr("Store.DeleteFilesByPathPrefix", err)
	}

	return dbErr("Store.DeleteFilesByPathPrefix", tx.Commit())
}

// UpdateFileIndexStatus writes content (or marks non-indexable) for the
// file at path. The FTS row is upserted via delete-then-insert because
// FTS5 virtual tables reject INSERT OR REPLACE.
func (s *Store) UpdateFileIndexStatus(path, content string, isIndexable bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return dbErr("Store.UpdateFileIndexStatus", err)
	}
	defer tx.Rollback()

	var fileID int64
	err = tx.QueryRow(`SELECT id FROM files WHERE path = ?`, path).Scan(&fileID)
	if err == sql.ErrNoRows {
		return errs.New(errs.NotFound, "Store.UpdateFileIndexStatus", "file not found: "+path)
	}
	if err != nil {
		return dbErr("Store.UpdateFileIndexStatus", err)
	}

	if _, err := tx.Exec(`DELETE FROM fts_content WHERE file_id = ?`, fileID); err != nil {
		return dbErr("Store.UpdateFileIndexStatus", err)
	}
	if isIndexable {
		if _, err := tx.Exec(
			`INSERT INTO fts_content (content, file_id) VALUES (?, ?)`, content, fileID,
		); err != nil {
			return dbErr("Store.UpdateFileIndexStatus", err)
		}
	}

	if _, err := tx.Exec(
		`UPDATE files SET content_indexed = 1, is_indexable = ? WHERE id = ?`, isIndexable, fileID,
	); err != nil {
		return dbErr("Store.UpdateFileIndexStatus", err)
	}

	return dbErr("Store.UpdateFileIndexStatus", tx.Commit())
}

// ResetData deletes all rows from files, types, and paths. FTS rows are
// deleted first because fts_content.file_id refers to files.id (the schema
// declares no foreign key; the application keeps the two in step).
func (s *Store) ResetData() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return dbErr("Store.ResetData", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		`DELETE FROM fts_content`,
		`DELETE FROM files`,
		`DELETE FROM types`,
		`DELETE FROM paths`,
	} {
		if _, err := tx.Exec(stmt); err != nil {
			return dbErr("Store.ResetData", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return dbErr("Store.ResetData", err)
	}

	s.types = newTypesCache()
	return nil
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, i := range items {
		set[i] = struct{}{}
	}
	return set
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
