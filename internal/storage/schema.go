package storage

import (
	"database/sql"
	"fmt"
)

const createFilesTable = `
CREATE TABLE IF NOT EXISTS files (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	path TEXT NOT NULL UNIQUE,
	name TEXT NOT NULL,
	is_dir INTEGER NOT NULL DEFAULT 0,
	file_type TEXT,
	size INTEGER NOT NULL DEFAULT 0,
	last_modified INTEGER NOT NULL DEFAULT 0,
	created_at INTEGER NOT NULL DEFAULT 0,
	accessed_at INTEGER NOT NULL DEFAULT 0,
	is_indexed INTEGER NOT NULL DEFAULT 0,
	content_indexed INTEGER NOT NULL DEFAULT 0,
	is_indexable INTEGER NOT NULL DEFAULT 0,
	is_hidden INTEGER NOT NULL DEFAULT 0,
	is_readonly INTEGER NOT NULL DEFAULT 0,
	is_system INTEGER NOT NULL DEFAULT 0,
	is_executable INTEGER NOT NULL DEFAULT 0,
	is_symlink INTEGER NOT NULL DEFAULT 0,
	permissions INTEGER,
	owner TEXT,
	"group" TEXT,
	mime_type TEXT,
	encoding TEXT,
	line_count INTEGER,
	word_count INTEGER,
	checksum TEXT,
	is_encrypted INTEGER NOT NULL DEFAULT 0
);`

const createTypesTable = `
CREATE TABLE IF NOT EXISTS types (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE
);`

const createPathsTable = `
CREATE TABLE IF NOT EXISTS paths (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	path TEXT NOT NULL UNIQUE
);`

// fts_content is a contentless-adjacent FTS5 table: content plus the owning
// file_id, kept in sync by the application layer (not by triggers) because
// it is populated asynchronously by the Content Indexer, long after the
// owning files row is written by the Scanner/Store.insert path.
const createFTSTable = `
CREATE VIRTUAL TABLE IF NOT EXISTS fts_content USING fts5(
	content,
	file_id UNINDEXED,
	tokenize = "unicode61 separators '._'"
);`

func getAllIndexes() []string {
	return []string{
		`CREATE INDEX IF NOT EXISTS idx_files_name ON files(name COLLATE NOCASE);`,
		`CREATE INDEX IF NOT EXISTS idx_files_is_dir ON files(is_dir);`,
		`CREATE INDEX IF NOT EXISTS idx_files_file_type ON files(file_type);`,
		`CREATE INDEX IF NOT EXISTS idx_files_size ON files(size);`,
		`CREATE INDEX IF NOT EXISTS idx_files_last_modified ON files(last_modified);`,
		`CREATE INDEX IF NOT EXISTS idx_files_created_at ON files(created_at);`,
		`CREATE INDEX IF NOT EXISTS idx_files_path ON files(path);`,
		`CREATE INDEX IF NOT EXISTS idx_files_content_indexed ON files(content_indexed, is_indexable);`,
	}
}

// CreateSchema creates all tables, indexes, and FTS artifacts idempotently.
func CreateSchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{createFilesTable, createTypesTable, createPathsTable} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}

	for _, stmt := range getAllIndexes() {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}

	// FTS5 virtual tables cannot be created inside the same transaction as
	// ordinary tables on some sqlite3 builds; create it standalone.
	if _, err := db.Exec(createFTSTable); err != nil {
		return fmt.Errorf("create fts table: %w", err)
	}

	return nil
}
