package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/yonekura-dev/docmark/internal/domain"
)

// RollbackInput contains the parameters for a rollback.
type RollbackInput struct {
	FilePath string // File to restore, relative to the project root
}

// RollbackOutput contains the result of a rollback.
type RollbackOutput struct {
	Restored bool
}

// Rollback restores a file from its most recent backup. The restored
// content gets fresh fingerprints so the next scan treats it as the
// baseline rather than a new edit.
type Rollback struct {
	backups      domain.BackupManager
	fingerprints domain.FingerprintRepository
	changes      *ChangeDetector
	logger       domain.Logger
	root         string
}

// NewRollback creates a new Rollback use case.
func NewRollback(backups domain.BackupManager, fingerprints domain.FingerprintRepository, logger domain.Logger, root string) *Rollback {
	return &Rollback{
		backups:      backups,
		fingerprints: fingerprints,
		changes:      NewChangeDetector(fingerprints),
		logger:       logger,
		root:         root,
	}
}

// Execute restores the file. Returns ErrNoBackup when nothing was ever
// backed up for it.
func (uc *Rollback) Execute(ctx context.Context, in RollbackInput) (*RollbackOutput, error) {
	absPath := filepath.Join(uc.root, filepath.FromSlash(in.FilePath))

	restored, err := uc.backups.RestoreLatest(absPath)
	if err != nil {
		return nil, err
	}
	if !restored {
		return nil, fmt.Errorf("%w: %s", domain.ErrNoBackup, in.FilePath)
	}

	// Restoring invalidates every fingerprint for the file; record the
	// restored content as the new baseline
	if err := uc.fingerprints.DeleteFile(in.FilePath); err != nil {
		return nil, err
	}
	content, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("read restored file: %w", err)
	}
	if err := uc.changes.Record(in.FilePath, string(content), 0); err != nil {
		return nil, err
	}

	uc.logger.Info(0, "rollback", fmt.Sprintf("restored %s from backup", in.FilePath))
	return &RollbackOutput{Restored: true}, nil
}
