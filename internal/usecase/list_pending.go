package usecase

import (
	"context"

	"github.com/yonekura-dev/docmark/internal/domain"
)

// ListPendingInput contains the parameters for listing pending tasks.
type ListPendingInput struct {
	Kind  domain.TaskKind // "" = all kinds
	Limit int             // <= 0 = no limit
}

// ListPendingOutput contains the pending tasks in processing order.
type ListPendingOutput struct {
	Tasks []*domain.Task
}

// ListPending returns the queue in the order a processor should consume it.
type ListPending struct {
	tasks domain.TaskRepository
}

// NewListPending creates a new ListPending use case.
func NewListPending(tasks domain.TaskRepository) *ListPending {
	return &ListPending{tasks: tasks}
}

// Execute lists pending tasks.
func (uc *ListPending) Execute(ctx context.Context, in ListPendingInput) (*ListPendingOutput, error) {
	tasks, err := uc.tasks.ListPending(domain.PendingFilter{Kind: in.Kind, Limit: in.Limit})
	if err != nil {
		return nil, err
	}
	return &ListPendingOutput{Tasks: tasks}, nil
}
