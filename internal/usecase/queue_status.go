package usecase

import (
	"context"

	"github.com/yonekura-dev/docmark/internal/domain"
)

// QueueStatusOutput contains queue and backup statistics.
type QueueStatusOutput struct {
	Stats   domain.QueueStats
	Backups []domain.BackupInfo
}

// QueueStatus reports what is sitting in the queue and on disk.
type QueueStatus struct {
	tasks   domain.TaskRepository
	backups domain.BackupManager
}

// NewQueueStatus creates a new QueueStatus use case.
func NewQueueStatus(tasks domain.TaskRepository, backups domain.BackupManager) *QueueStatus {
	return &QueueStatus{tasks: tasks, backups: backups}
}

// Execute gathers the statistics.
func (uc *QueueStatus) Execute(ctx context.Context) (*QueueStatusOutput, error) {
	stats, err := uc.tasks.Stats()
	if err != nil {
		return nil, err
	}
	backups, err := uc.backups.List()
	if err != nil {
		return nil, err
	}
	return &QueueStatusOutput{Stats: stats, Backups: backups}, nil
}
