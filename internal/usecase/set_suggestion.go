package usecase

import (
	"context"

	"github.com/yonekura-dev/docmark/internal/domain"
)

// SetSuggestionInput contains the parameters for recording a suggestion.
type SetSuggestionInput struct {
	Text   string
	TaskID int
}

// SetSuggestionOutput contains the updated task.
type SetSuggestionOutput struct {
	Task *domain.Task
}

// SetSuggestion records documentation text produced by an external
// processor and walks the task to completed. A pending task passes through
// processing first; a failed task re-enters the retry loop the same way.
type SetSuggestion struct {
	tasks  domain.TaskRepository
	logger domain.Logger
}

// NewSetSuggestion creates a new SetSuggestion use case.
func NewSetSuggestion(tasks domain.TaskRepository, logger domain.Logger) *SetSuggestion {
	return &SetSuggestion{tasks: tasks, logger: logger}
}

// Execute stores the suggestion and advances the task status.
func (uc *SetSuggestion) Execute(ctx context.Context, in SetSuggestionInput) (*SetSuggestionOutput, error) {
	task, err := uc.tasks.Get(in.TaskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, domain.ErrTaskNotFound
	}

	if err := uc.tasks.SetSuggestion(in.TaskID, in.Text); err != nil {
		return nil, err
	}

	if task.Status == domain.StatusPending || task.Status == domain.StatusFailed {
		if err := uc.tasks.MarkProcessing(in.TaskID); err != nil {
			return nil, err
		}
		task.Status = domain.StatusProcessing
	}
	if task.Status == domain.StatusProcessing {
		if err := uc.tasks.MarkCompleted(in.TaskID); err != nil {
			return nil, err
		}
	}

	updated, err := uc.tasks.Get(in.TaskID)
	if err != nil {
		return nil, err
	}
	uc.logger.Info(in.TaskID, "suggest", "suggestion recorded")
	return &SetSuggestionOutput{Task: updated}, nil
}
