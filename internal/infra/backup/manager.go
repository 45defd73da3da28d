// Package backup snapshots files before mutation and restores them on
// rollback. Backups are plain copies named <base>.<timestamp>.bak; nothing
// is ever pruned or overwritten.
package backup

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/yonekura-dev/docmark/internal/domain"
)

// timestampLayout sorts lexicographically, so file listings are already in
// chronological order.
const timestampLayout = "20060102T150405.000000000"

// Manager implements domain.BackupManager on a single flat directory.
type Manager struct {
	clock domain.Clock
	dir   string
}

// New creates a Manager storing backups under dir.
func New(dir string, clock domain.Clock) *Manager {
	return &Manager{clock: clock, dir: dir}
}

// Snapshot copies the file's current content into the backup directory and
// returns the backup path. A name collision bumps the timestamp instead of
// overwriting.
func (m *Manager) Snapshot(filePath string) (string, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("%w: read %s: %v", domain.ErrBackupFailed, filePath, err)
	}
	info, err := os.Stat(filePath)
	if err != nil {
		return "", fmt.Errorf("%w: stat %s: %v", domain.ErrBackupFailed, filePath, err)
	}
	if err := os.MkdirAll(m.dir, 0o750); err != nil {
		return "", fmt.Errorf("%w: create backup dir: %v", domain.ErrBackupFailed, err)
	}

	base := filepath.Base(filePath)
	now := m.clock.Now()
	var backupPath string
	for bump := 0; ; bump++ {
		stamp := now.Add(time.Duration(bump)).Format(timestampLayout)
		backupPath = filepath.Join(m.dir, fmt.Sprintf("%s.%s.bak", base, stamp))
		if _, err := os.Stat(backupPath); os.IsNotExist(err) {
			break
		}
	}

	if err := os.WriteFile(backupPath, content, info.Mode().Perm()); err != nil {
		return "", fmt.Errorf("%w: write %s: %v", domain.ErrBackupFailed, backupPath, err)
	}
	return backupPath, nil
}

// RestoreLatest overwrites the live file with its most recent backup.
// Returns false, nil when no backup exists for the file.
func (m *Manager) RestoreLatest(filePath string) (bool, error) {
	backups, err := m.List()
	if err != nil {
		return false, err
	}

	base := filepath.Base(filePath)
	for _, b := range backups {
		if b.SourceBase != base {
			continue
		}
		content, err := os.ReadFile(b.BackupPath)
		if err != nil {
			return false, fmt.Errorf("read backup %s: %w", b.BackupPath, err)
		}
		perm := os.FileMode(0o644)
		if info, err := os.Stat(filePath); err == nil {
			perm = info.Mode().Perm()
		}
		if err := os.WriteFile(filePath, content, perm); err != nil {
			return false, fmt.Errorf("restore %s: %w", filePath, err)
		}
		return true, nil
	}
	return false, nil
}

// List returns all backups, newest first.
func (m *Manager) List() ([]domain.BackupInfo, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read backup dir: %w", err)
	}

	var backups []domain.BackupInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, ok := parseBackupName(entry.Name())
		if !ok {
			continue
		}
		info.BackupPath = filepath.Join(m.dir, entry.Name())
		backups = append(backups, info)
	}

	slices.SortFunc(backups, func(a, b domain.BackupInfo) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return backups, nil
}

// parseBackupName splits <base>.<timestamp>.bak. The timestamp is the last
// two dot-separated segments before the suffix, so dots in the source name
// survive.
func parseBackupName(name string) (domain.BackupInfo, bool) {
	trimmed, ok := strings.CutSuffix(name, ".bak")
	if !ok {
		return domain.BackupInfo{}, false
	}
	parts := strings.Split(trimmed, ".")
	if len(parts) < 3 {
		return domain.BackupInfo{}, false
	}
	stamp := parts[len(parts)-2] + "." + parts[len(parts)-1]
	created, err := time.Parse(timestampLayout, stamp)
	if err != nil {
		return domain.BackupInfo{}, false
	}
	return domain.BackupInfo{
		CreatedAt:  created,
		SourceBase: strings.Join(parts[:len(parts)-2], "."),
	}, true
}

// Ensure Manager implements BackupManager.
var _ domain.BackupManager = (*Manager)(nil)
