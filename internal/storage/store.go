// Package storage is the Store: schema ownership, transactional batched
// mutations, the on-process types cache, and the single compiled search
// entry point.
package storage

import (
	"database/sql"
	"sync"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/mvp-joe/fastsearch/internal/errs"
)

const (
	defaultSearchTimeout = 30 * time.Second
	defaultInsertTimeout = 60 * time.Second
)

// Options configures the hard timeouts wrapped around Store operations. A
// zero field falls back to the package default for that operation.
type Options struct {
	SearchTimeout time.Duration
	InsertTimeout time.Duration
}

// Store serialises all access to one SQLite connection behind a mutex: a
// single write path is acceptable given the workload.
type Store struct {
	mu    sync.Mutex
	db    *sql.DB
	types *typesCache
	qb    sq.StatementBuilderType

	searchTimeout time.Duration
	insertTimeout time.Duration
}

// New wraps an already-open, already-schema'd *sql.DB.
func New(db *sql.DB, opts Options) *Store {
	searchTimeout := opts.SearchTimeout
	if searchTimeout <= 0 {
		searchTimeout = defaultSearchTimeout
	}
	insertTimeout := opts.InsertTimeout
	if insertTimeout <= 0 {
		insertTimeout = defaultInsertTimeout
	}
	return &Store{
		db:            db,
		types:         newTypesCache(),
		qb:            sq.StatementBuilder.PlaceholderFormat(sq.Question),
		searchTimeout: searchTimeout,
		insertTimeout: insertTimeout,
	}
}

// Init (re)creates the schema idempotently. Safe to call on every startup.
func (s *Store) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return CreateSchema(s.db)
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func dbErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return errs.Wrap(errs.Database, op, err)
}
