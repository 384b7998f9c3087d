// Package testutil provides shared test fixtures for kbsr: a fixed clock
// matching the specification's worked examples, a scratch SQLite store, and
// a helper for writing deck fixture files.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dbalmain/kbsr/internal/store"
)

// T0 is the fixed clock start used throughout the specification's
// end-to-end scenarios.
var T0 = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// OpenTestDB opens a scratch SQLite database in a temporary directory,
// registering cleanup to close it when the test completes.
func OpenTestDB(t *testing.T) *store.DB {
	t.Helper()

	dir := t.TempDir()
	db, err := store.Open(filepath.Join(dir, "kbsr.db"))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("db.Close: %v", err)
		}
	})
	return db
}

// WriteDeckFile writes a TSV deck fixture named "<name>.tsv" into dir and
// returns its path. lines are written verbatim, one per line.
func WriteDeckFile(t *testing.T, dir, name string, lines []string) string {
	t.Helper()

	path := filepath.Join(dir, name+".tsv")
	content := ""
	for _, l := range lines {
		content += l + "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteDeckFile(%s): %v", name, err)
	}
	return path
}
