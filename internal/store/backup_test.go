package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestBackup_CopiesDatabase(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "kbsr.db")
	if err := os.WriteFile(dbPath, []byte("sqlite-bytes"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	if err := Backup(dbPath, now); err != nil {
		t.Fatalf("Backup returned error: %v", err)
	}

	backupPath := dbPath + ".backup.2025-06-01"
	data, err := os.ReadFile(backupPath)
	if err != nil {
		t.Fatalf("expected backup file to exist: %v", err)
	}
	if string(data) != "sqlite-bytes" {
		t.Errorf("backup content mismatch: %q", data)
	}
}

func TestBackup_SkipsIfTodaysBackupExists(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "kbsr.db")
	os.WriteFile(dbPath, []byte("v1"), 0644)

	now := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	if err := Backup(dbPath, now); err != nil {
		t.Fatalf("Backup returned error: %v", err)
	}

	// Database changes later the same day; backup must not be overwritten.
	os.WriteFile(dbPath, []byte("v2-changed"), 0644)
	if err := Backup(dbPath, now.Add(6*time.Hour)); err != nil {
		t.Fatalf("second Backup returned error: %v", err)
	}

	data, _ := os.ReadFile(dbPath + ".backup.2025-06-01")
	if string(data) != "v1" {
		t.Errorf("expected backup to remain from first call, got %q", data)
	}
}

func TestBackup_MissingSourceIsNoop(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "does-not-exist.db")
	if err := Backup(dbPath, time.Now()); err != nil {
		t.Fatalf("Backup on missing source should be a no-op, got error: %v", err)
	}
}
