package store

import (
	"io"
	"os"
	"path/filepath"
	"time"

	kbserrors "github.com/dbalmain/kbsr/internal/errors"
)

// Backup copies dbPath to "<dbPath>.backup.YYYY-MM-DD" if no backup for
// today already exists (§6). It is a no-op if dbPath does not yet exist
// (first run, before the schema has been created) or today's backup is
// already present.
func Backup(dbPath string, now time.Time) error {
	backupPath := dbPath + ".backup." + now.Format("2006-01-02")

	if _, err := os.Stat(backupPath); err == nil {
		return nil
	}

	src, err := os.Open(dbPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return kbserrors.NewIoError(dbPath, err)
	}
	defer src.Close()

	return atomicCopy(backupPath, src)
}

// atomicCopy writes src to dst via a temp file in dst's directory, synced
// and renamed into place, so a crash mid-backup never leaves a partial or
// corrupt backup file visible at dst.
func atomicCopy(dst string, src io.Reader) error {
	dir := filepath.Dir(dst)

	tmp, err := os.CreateTemp(dir, ".tmp-backup-*")
	if err != nil {
		return kbserrors.NewIoError(dst, err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		return kbserrors.NewIoError(dst, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return kbserrors.NewIoError(dst, err)
	}
	if err := tmp.Close(); err != nil {
		return kbserrors.NewIoError(dst, err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return kbserrors.NewIoError(dst, err)
	}
	if err := os.Rename(tmpPath, dst); err != nil {
		return kbserrors.NewIoError(dst, err)
	}

	success = true
	return nil
}
