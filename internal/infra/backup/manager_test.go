package backup

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yonekura-dev/docmark/internal/domain"
)

// fixedClock always returns the same instant, forcing name collisions.
type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestSnapshot_CreatesBackup(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "a.py", "x = 1\n")
	m := New(filepath.Join(dir, "backups"), domain.RealClock{})

	backupPath, err := m.Snapshot(src)
	require.NoError(t, err)
	assert.Contains(t, filepath.Base(backupPath), "a.py.")
	assert.Contains(t, backupPath, ".bak")

	content, err := os.ReadFile(backupPath)
	require.NoError(t, err)
	assert.Equal(t, "x = 1\n", string(content))
}

func TestSnapshot_MissingSource(t *testing.T) {
	dir := t.TempDir()
	m := New(filepath.Join(dir, "backups"), domain.RealClock{})

	_, err := m.Snapshot(filepath.Join(dir, "missing.py"))
	assert.ErrorIs(t, err, domain.ErrBackupFailed)
}

func TestSnapshot_NeverOverwrites(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "a.py", "v1\n")
	m := New(filepath.Join(dir, "backups"), fixedClock{now: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)})

	first, err := m.Snapshot(src)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(src, []byte("v2\n"), 0o644))
	second, err := m.Snapshot(src)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	content, err := os.ReadFile(first)
	require.NoError(t, err)
	assert.Equal(t, "v1\n", string(content))
}

func TestRestoreLatest(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "a.py", "original\n")
	m := New(filepath.Join(dir, "backups"), domain.RealClock{})

	_, err := m.Snapshot(src)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(src, []byte("mutated\n"), 0o644))
	time.Sleep(10 * time.Millisecond)
	_, err = m.Snapshot(src)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(src, []byte("mutated again\n"), 0o644))

	restored, err := m.RestoreLatest(src)
	require.NoError(t, err)
	assert.True(t, restored)

	content, err := os.ReadFile(src)
	require.NoError(t, err)
	assert.Equal(t, "mutated\n", string(content))
}

func TestRestoreLatest_NoBackup(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "a.py", "x\n")
	m := New(filepath.Join(dir, "backups"), domain.RealClock{})

	restored, err := m.RestoreLatest(src)
	require.NoError(t, err)
	assert.False(t, restored)
}

func TestList_NewestFirstAndDottedNames(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "my.module.py", "x\n")
	m := New(filepath.Join(dir, "backups"), domain.RealClock{})

	_, err := m.Snapshot(src)
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)
	_, err = m.Snapshot(src)
	require.NoError(t, err)

	backups, err := m.List()
	require.NoError(t, err)
	require.Len(t, backups, 2)
	assert.Equal(t, "my.module.py", backups[0].SourceBase)
	assert.True(t, !backups[0].CreatedAt.Before(backups[1].CreatedAt))
}

func TestList_EmptyDir(t *testing.T) {
	m := New(filepath.Join(t.TempDir(), "backups"), domain.RealClock{})

	backups, err := m.List()
	require.NoError(t, err)
	assert.Empty(t, backups)
}
