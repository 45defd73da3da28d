package usecase

import (
	"context"

	"github.com/yonekura-dev/docmark/internal/domain"
)

// ClearQueueInput contains the parameters for clearing the queue.
type ClearQueueInput struct {
	Fingerprints bool // Also forget all fingerprints, forcing a full re-scan
}

// ClearQueueOutput contains the result of clearing the queue.
type ClearQueueOutput struct {
	TasksRemoved int
}

// ClearQueue removes every task, and optionally every fingerprint.
type ClearQueue struct {
	tasks        domain.TaskRepository
	fingerprints domain.FingerprintRepository
	logger       domain.Logger
}

// NewClearQueue creates a new ClearQueue use case.
func NewClearQueue(tasks domain.TaskRepository, fingerprints domain.FingerprintRepository, logger domain.Logger) *ClearQueue {
	return &ClearQueue{tasks: tasks, fingerprints: fingerprints, logger: logger}
}

// Execute clears the queue.
func (uc *ClearQueue) Execute(ctx context.Context, in ClearQueueInput) (*ClearQueueOutput, error) {
	stats, err := uc.tasks.Stats()
	if err != nil {
		return nil, err
	}
	if err := uc.tasks.ClearAll(); err != nil {
		return nil, err
	}
	if in.Fingerprints {
		if err := uc.fingerprints.ClearAll(); err != nil {
			return nil, err
		}
	}
	uc.logger.Info(0, "clear", "task queue cleared")
	return &ClearQueueOutput{TasksRemoved: stats.Total}, nil
}
