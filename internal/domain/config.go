package domain

// Config represents the application configuration.
type Config struct {
	Scanning ScanningConfig // [scanning] settings
	Output   OutputConfig   // [output] settings
	Log      LogConfig      // [log] settings
}

// ScanningConfig holds file enumeration settings from the [scanning] section.
type ScanningConfig struct {
	Paths         []string // Roots to scan (default: ".")
	Exclude       []string // Glob/substring patterns to skip
	Extensions    []string // File extensions to include
	MaxFileSizeMB int      // Files larger than this are skipped
}

// OutputConfig holds mutation settings from the [output] section.
type OutputConfig struct {
	BackupDir string // Backup directory (default: <state dir>/backups)
	Backup    bool   // Snapshot files before applying
}

// LogConfig holds logging settings from the [log] section.
type LogConfig struct {
	Level string // Log level: debug, info, warn, error
}

// NewDefaultConfig returns the built-in defaults.
func NewDefaultConfig() *Config {
	return &Config{
		Scanning: ScanningConfig{
			Paths:         []string{"."},
			Exclude:       []string{".git", "__pycache__", ".venv", "venv", "node_modules", StateDirName},
			Extensions:    []string{".py"},
			MaxFileSizeMB: 10,
		},
		Output: OutputConfig{
			Backup: true,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
