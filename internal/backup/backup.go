// Package backup copies the database file to and from a backup directory.
package backup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"finledger/internal/core"
)

// Manager performs whole-file backup and restore for one database file.
// Copies go through a temp file in the destination directory followed by a
// rename, so a failed copy never clobbers the existing destination.
type Manager struct {
	dbPath    string
	backupDir string
}

func NewManager(dbPath, backupDir string) *Manager {
	return &Manager{dbPath: dbPath, backupDir: backupDir}
}

// BackupPath returns where backups are written: <dir>/<dbfile>-backup.
func (m *Manager) BackupPath() string {
	return filepath.Join(m.backupDir, filepath.Base(m.dbPath)+"-backup")
}

// Backup copies the live database file into the backup directory, creating
// the directory if needed and overwriting any prior backup.
func (m *Manager) Backup(ctx context.Context) error {
	if _, err := os.Stat(m.dbPath); err != nil {
		return fmt.Errorf("backup source: %w", err)
	}
	if err := os.MkdirAll(m.backupDir, 0755); err != nil {
		return fmt.Errorf("create backup directory: %w", err)
	}
	if err := copyFile(m.dbPath, m.BackupPath()); err != nil {
		return fmt.Errorf("backup database: %w", err)
	}

	slog.InfoContext(ctx, "Backup created", "path", m.BackupPath())
	return nil
}

// Restore copies the backup over the live database file. Returns
// core.ErrNoBackup when no backup exists; the live file is then untouched.
// Callers holding an open database handle must reopen it afterwards.
func (m *Manager) Restore(ctx context.Context) error {
	if _, err := os.Stat(m.BackupPath()); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return core.ErrNoBackup
		}
		return fmt.Errorf("stat backup: %w", err)
	}
	if err := copyFile(m.BackupPath(), m.dbPath); err != nil {
		return fmt.Errorf("restore database: %w", err)
	}

	slog.InfoContext(ctx, "Database restored from backup", "path", m.BackupPath())
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dst), filepath.Base(dst)+".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, in); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dst)
}
