package db

import (
	"database/sql"
	"testing"
)

// NewTestDB returns a private in-memory database with the schema applied,
// closed when the test ends.
func NewTestDB(t testing.TB) *sql.DB {
	t.Helper()

	database, err := OpenWithSchema(MemoryPath)
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}
