package usecase

import (
	"context"
	"os"

	"github.com/yonekura-dev/docmark/internal/domain"
)

// InitProjectInput contains the parameters for initializing a project.
type InitProjectInput struct {
	ConfigContent string // Written to config.toml when it does not exist
}

// InitProjectOutput contains the result of initialization.
type InitProjectOutput struct {
	StateDir      string
	ConfigCreated bool
}

// InitProject creates the state directory, the stores, and a commented
// default config. Running it twice is harmless.
type InitProject struct {
	stores     []domain.StoreInitializer
	stateDir   string
	configPath string
}

// NewInitProject creates a new InitProject use case.
func NewInitProject(stateDir, configPath string, stores ...domain.StoreInitializer) *InitProject {
	return &InitProject{
		stores:     stores,
		stateDir:   stateDir,
		configPath: configPath,
	}
}

// Execute initializes the project.
func (uc *InitProject) Execute(ctx context.Context, in InitProjectInput) (*InitProjectOutput, error) {
	if err := os.MkdirAll(uc.stateDir, 0o750); err != nil {
		return nil, err
	}
	for _, store := range uc.stores {
		if err := store.Initialize(); err != nil {
			return nil, err
		}
	}

	out := &InitProjectOutput{StateDir: uc.stateDir}
	if _, err := os.Stat(uc.configPath); os.IsNotExist(err) && in.ConfigContent != "" {
		if err := os.WriteFile(uc.configPath, []byte(in.ConfigContent), 0o644); err != nil {
			return nil, err
		}
		out.ConfigCreated = true
	}
	return out, nil
}
