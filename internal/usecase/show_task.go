package usecase

import (
	"context"

	"github.com/yonekura-dev/docmark/internal/domain"
)

// ShowTaskInput contains the parameters for showing a task.
type ShowTaskInput struct {
	TaskID int
}

// ShowTaskOutput contains the task details.
type ShowTaskOutput struct {
	Task *domain.Task
}

// ShowTask retrieves one task with its full context.
type ShowTask struct {
	tasks domain.TaskRepository
}

// NewShowTask creates a new ShowTask use case.
func NewShowTask(tasks domain.TaskRepository) *ShowTask {
	return &ShowTask{tasks: tasks}
}

// Execute fetches the task.
func (uc *ShowTask) Execute(ctx context.Context, in ShowTaskInput) (*ShowTaskOutput, error) {
	task, err := uc.tasks.Get(in.TaskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, domain.ErrTaskNotFound
	}
	return &ShowTaskOutput{Task: task}, nil
}
