package domain

import "path/filepath"

// StateDirName is the per-project state directory created at the root.
const StateDirName = ".docmark"

// ConfigFileName is the configuration file name inside state directories.
const ConfigFileName = "config.toml"

// StateDir returns the state directory for a project root.
func StateDir(root string) string {
	return filepath.Join(root, StateDirName)
}

// TaskStorePath returns the task queue file for a project root.
func TaskStorePath(root string) string {
	return filepath.Join(StateDir(root), "tasks.json")
}

// FingerprintStorePath returns the fingerprint file for a project root.
func FingerprintStorePath(root string) string {
	return filepath.Join(StateDir(root), "fingerprints.json")
}

// BackupDir returns the backup directory for a project root.
func BackupDir(root string) string {
	return filepath.Join(StateDir(root), "backups")
}

// LogsDir returns the log directory for a project root.
func LogsDir(root string) string {
	return filepath.Join(StateDir(root), "logs")
}

// LogPath returns the log file for a project root.
func LogPath(root string) string {
	return filepath.Join(LogsDir(root), "docmark.log")
}

// ConfigPath returns the project config file for a project root.
func ConfigPath(root string) string {
	return filepath.Join(StateDir(root), ConfigFileName)
}
