// Package config provides configuration loading functionality.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/yonekura-dev/docmark/internal/domain"
)

// Ensure Loader implements domain.ConfigLoader.
var _ domain.ConfigLoader = (*Loader)(nil)

// Loader loads TOML configuration, merging defaults, the global file, and
// the project file in that order. Later sources win per field.
type Loader struct {
	stateDir      string // Path to the project .docmark directory
	globalConfDir string // Path to the global config directory
}

// NewLoader creates a new Loader for a project state directory.
func NewLoader(stateDir string) *Loader {
	return &Loader{
		stateDir:      stateDir,
		globalConfDir: defaultGlobalConfigDir(),
	}
}

// NewLoaderWithGlobalDir creates a new Loader with a custom global config
// directory. This is useful for testing.
func NewLoaderWithGlobalDir(stateDir, globalConfDir string) *Loader {
	return &Loader{
		stateDir:      stateDir,
		globalConfDir: globalConfDir,
	}
}

// defaultGlobalConfigDir returns the default global config directory.
func defaultGlobalConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "docmark")
}

// fileConfig mirrors domain.Config with pointer fields so that an absent
// key is distinguishable from a zero value during merging.
type fileConfig struct {
	Scanning struct {
		Paths         []string `toml:"paths"`
		Exclude       []string `toml:"exclude"`
		Extensions    []string `toml:"extensions"`
		MaxFileSizeMB *int     `toml:"max_file_size_mb"`
	} `toml:"scanning"`
	Output struct {
		BackupDir *string `toml:"backup_dir"`
		Backup    *bool   `toml:"backup"`
	} `toml:"output"`
	Log struct {
		Level *string `toml:"level"`
	} `toml:"log"`
}

// Load returns the merged configuration.
func (l *Loader) Load() (*domain.Config, error) {
	base := domain.NewDefaultConfig()

	if l.globalConfDir != "" {
		if err := mergeFile(base, filepath.Join(l.globalConfDir, domain.ConfigFileName)); err != nil {
			return nil, err
		}
	}
	if err := mergeFile(base, filepath.Join(l.stateDir, domain.ConfigFileName)); err != nil {
		return nil, err
	}

	return base, nil
}

// mergeFile overlays one config file onto base. A missing file is not an
// error; a malformed one is.
func mergeFile(base *domain.Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if fc.Scanning.Paths != nil {
		base.Scanning.Paths = fc.Scanning.Paths
	}
	if fc.Scanning.Exclude != nil {
		base.Scanning.Exclude = fc.Scanning.Exclude
	}
	if fc.Scanning.Extensions != nil {
		base.Scanning.Extensions = fc.Scanning.Extensions
	}
	if fc.Scanning.MaxFileSizeMB != nil {
		base.Scanning.MaxFileSizeMB = *fc.Scanning.MaxFileSizeMB
	}
	if fc.Output.BackupDir != nil {
		base.Output.BackupDir = *fc.Output.BackupDir
	}
	if fc.Output.Backup != nil {
		base.Output.Backup = *fc.Output.Backup
	}
	if fc.Log.Level != nil {
		base.Log.Level = *fc.Log.Level
	}
	return nil
}

// DefaultFileContent is the annotated config written by docmark init.
const DefaultFileContent = `# docmark configuration

[scanning]
# paths = ["."]
# exclude = [".git", "__pycache__", ".venv", "venv", "node_modules", ".docmark"]
# extensions = [".py"]
# max_file_size_mb = 10

[output]
# backup = true
# backup_dir = ""

[log]
# level = "info"
`
