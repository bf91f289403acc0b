package storage

import "testing"

// newTestStore opens a fresh in-memory database for a single test and
// registers a cleanup to close it.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return New(db, Options{})
}
