package usecase

import (
	"context"

	"github.com/yonekura-dev/docmark/internal/domain"
)

// ReviewTaskInput contains the reviewer's decision for a task.
type ReviewTaskInput struct {
	TaskID   int
	Accepted bool
}

// ReviewTaskOutput contains the updated task.
type ReviewTaskOutput struct {
	Task *domain.Task
}

// ReviewTask records whether a suggestion may be written to the source
// file. Only accepted tasks are ever applied.
type ReviewTask struct {
	tasks  domain.TaskRepository
	logger domain.Logger
}

// NewReviewTask creates a new ReviewTask use case.
func NewReviewTask(tasks domain.TaskRepository, logger domain.Logger) *ReviewTask {
	return &ReviewTask{tasks: tasks, logger: logger}
}

// Execute records the decision.
func (uc *ReviewTask) Execute(ctx context.Context, in ReviewTaskInput) (*ReviewTaskOutput, error) {
	if err := uc.tasks.SetAccepted(in.TaskID, in.Accepted); err != nil {
		return nil, err
	}
	task, err := uc.tasks.Get(in.TaskID)
	if err != nil {
		return nil, err
	}
	verdict := "rejected"
	if in.Accepted {
		verdict = "accepted"
	}
	uc.logger.Info(in.TaskID, "review", "suggestion "+verdict)
	return &ReviewTaskOutput{Task: task}, nil
}
