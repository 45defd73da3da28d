// Package app provides the dependency injection container for the application.
package app

import (
	"io"

	"github.com/yonekura-dev/docmark/internal/domain"
	"github.com/yonekura-dev/docmark/internal/infra/backup"
	"github.com/yonekura-dev/docmark/internal/infra/config"
	"github.com/yonekura-dev/docmark/internal/infra/fingerprint"
	"github.com/yonekura-dev/docmark/internal/infra/git"
	"github.com/yonekura-dev/docmark/internal/infra/jsonstore"
	"github.com/yonekura-dev/docmark/internal/infra/logging"
	"github.com/yonekura-dev/docmark/internal/usecase"
)

// Config holds the application configuration paths.
type Config struct {
	Root            string // Project root (git worktree root when available)
	StateDir        string // Path to the .docmark directory
	TaskStorePath   string // Path to tasks.json
	FingerprintPath string // Path to fingerprints.json
	BackupDir       string // Path to the backup directory
	LogsDir         string // Path to the log directory
	ConfigPath      string // Path to the project config.toml
}

// newConfig derives all state paths from the project root.
func newConfig(root string) Config {
	return Config{
		Root:            root,
		StateDir:        domain.StateDir(root),
		TaskStorePath:   domain.TaskStorePath(root),
		FingerprintPath: domain.FingerprintStorePath(root),
		BackupDir:       domain.BackupDir(root),
		LogsDir:         domain.LogsDir(root),
		ConfigPath:      domain.ConfigPath(root),
	}
}

// Container provides dependency injection for the application.
// It holds all port implementations and provides factory methods for use cases.
type Container struct {
	// Ports (interfaces bound to implementations)
	Tasks        domain.TaskRepository
	Fingerprints domain.FingerprintRepository
	Backups      domain.BackupManager
	Logger       domain.Logger
	ConfigLoader domain.ConfigLoader
	Clock        domain.Clock

	// Stores created by docmark init
	StoreInitializers []domain.StoreInitializer

	// Configuration
	AppConfig *domain.Config
	Config    Config

	initialized bool
}

// New creates a new Container by detecting the project root from the given
// directory. Outside a git repository the directory itself is the root.
func New(dir string) (*Container, error) {
	root, err := git.DiscoverRoot(dir)
	if err != nil {
		return nil, err
	}
	cfg := newConfig(root)

	configLoader := config.NewLoader(cfg.StateDir)
	appConfig, err := configLoader.Load()
	if err != nil {
		return nil, err
	}

	// The config may point backups somewhere else
	if appConfig.Output.BackupDir != "" {
		cfg.BackupDir = appConfig.Output.BackupDir
	}

	clock := domain.RealClock{}
	taskStore := jsonstore.New(cfg.TaskStorePath, clock)
	fingerprintStore := fingerprint.New(cfg.FingerprintPath, clock)
	logger := logging.New(cfg.LogsDir, logging.ParseLevel(appConfig.Log.Level))

	return &Container{
		Tasks:             taskStore,
		Fingerprints:      fingerprintStore,
		Backups:           backup.New(cfg.BackupDir, clock),
		Logger:            logger,
		ConfigLoader:      configLoader,
		Clock:             clock,
		StoreInitializers: []domain.StoreInitializer{taskStore, fingerprintStore},
		AppConfig:         appConfig,
		Config:            cfg,
		initialized:       taskStore.IsInitialized(),
	}, nil
}

// NewWithDeps creates a new Container with custom dependencies for testing.
func NewWithDeps(cfg Config, appConfig *domain.Config, tasks domain.TaskRepository, fingerprints domain.FingerprintRepository, backups domain.BackupManager, logger domain.Logger, clock domain.Clock) *Container {
	return &Container{
		Tasks:        tasks,
		Fingerprints: fingerprints,
		Backups:      backups,
		Logger:       logger,
		Clock:        clock,
		AppConfig:    appConfig,
		Config:       cfg,
		initialized:  true,
	}
}

// RequireInitialized returns ErrNotInitialized until docmark init has run.
func (c *Container) RequireInitialized() error {
	if !c.initialized {
		return domain.ErrNotInitialized
	}
	return nil
}

// Close releases resources held by the container, such as open log files.
func (c *Container) Close() error {
	if closer, ok := c.Logger.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// UseCase factory methods

// InitProjectUseCase returns a new InitProject use case.
func (c *Container) InitProjectUseCase() *usecase.InitProject {
	return usecase.NewInitProject(c.Config.StateDir, c.Config.ConfigPath, c.StoreInitializers...)
}

// ScanUseCase returns a new Scan use case.
func (c *Container) ScanUseCase() *usecase.Scan {
	return usecase.NewScan(c.Tasks, c.Fingerprints, c.Logger, c.AppConfig, c.Config.Root)
}

// ListPendingUseCase returns a new ListPending use case.
func (c *Container) ListPendingUseCase() *usecase.ListPending {
	return usecase.NewListPending(c.Tasks)
}

// ShowTaskUseCase returns a new ShowTask use case.
func (c *Container) ShowTaskUseCase() *usecase.ShowTask {
	return usecase.NewShowTask(c.Tasks)
}

// SetSuggestionUseCase returns a new SetSuggestion use case.
func (c *Container) SetSuggestionUseCase() *usecase.SetSuggestion {
	return usecase.NewSetSuggestion(c.Tasks, c.Logger)
}

// ReviewTaskUseCase returns a new ReviewTask use case.
func (c *Container) ReviewTaskUseCase() *usecase.ReviewTask {
	return usecase.NewReviewTask(c.Tasks, c.Logger)
}

// ApplyUseCase returns a new Apply use case.
func (c *Container) ApplyUseCase() *usecase.Apply {
	return usecase.NewApply(c.Tasks, c.Fingerprints, c.Backups, c.Logger, c.AppConfig, c.Config.Root)
}

// RollbackUseCase returns a new Rollback use case.
func (c *Container) RollbackUseCase() *usecase.Rollback {
	return usecase.NewRollback(c.Backups, c.Fingerprints, c.Logger, c.Config.Root)
}

// ClearQueueUseCase returns a new ClearQueue use case.
func (c *Container) ClearQueueUseCase() *usecase.ClearQueue {
	return usecase.NewClearQueue(c.Tasks, c.Fingerprints, c.Logger)
}

// QueueStatusUseCase returns a new QueueStatus use case.
func (c *Container) QueueStatusUseCase() *usecase.QueueStatus {
	return usecase.NewQueueStatus(c.Tasks, c.Backups)
}

// ExportTasksUseCase returns a new ExportTasks use case.
func (c *Container) ExportTasksUseCase() *usecase.ExportTasks {
	return usecase.NewExportTasks(c.Tasks)
}

// ImportSuggestionsUseCase returns a new ImportSuggestions use case.
func (c *Container) ImportSuggestionsUseCase() *usecase.ImportSuggestions {
	return usecase.NewImportSuggestions(c.SetSuggestionUseCase())
}
