package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yonekura-dev/docmark/internal/app"
	"github.com/yonekura-dev/docmark/internal/domain"
	"github.com/yonekura-dev/docmark/internal/tui"
	"github.com/yonekura-dev/docmark/internal/usecase"
)

// launchReviewTUIFunc is a function variable for launching the review TUI,
// allowing it to be mocked in tests.
var launchReviewTUIFunc = tui.Run

// newAcceptCommand creates the accept command.
func newAcceptCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "accept <id>",
		Short: "Mark a suggestion as approved for apply",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return reviewOne(cmd, c, args[0], true)
		},
	}
}

// newRejectCommand creates the reject command.
func newRejectCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "reject <id>",
		Short: "Withdraw approval from a suggestion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return reviewOne(cmd, c, args[0], false)
		},
	}
}

// reviewOne records a single accept/reject decision.
func reviewOne(cmd *cobra.Command, c *app.Container, idArg string, accepted bool) error {
	taskID, err := parseTaskID(idArg)
	if err != nil {
		return fmt.Errorf("invalid task ID: %w", err)
	}

	uc := c.ReviewTaskUseCase()
	out, err := uc.Execute(cmd.Context(), usecase.ReviewTaskInput{TaskID: taskID, Accepted: accepted})
	if err != nil {
		return err
	}

	verb := "rejected"
	if out.Task.Accepted {
		verb = "accepted"
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Task #%d %s\n", out.Task.ID, verb)
	return nil
}

// newReviewCommand creates the review command for interactive review.
func newReviewCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "review",
		Short: "Review suggestions interactively",
		Long: `Review suggestions in an interactive terminal interface.

Every task with a suggestion is listed; each one shows its marker
block and the proposed text. Decisions are saved immediately, so
quitting halfway loses nothing. Accepted tasks are written back by
docmark apply.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tasks, err := reviewableTasks(c)
			if err != nil {
				return err
			}

			uc := c.ReviewTaskUseCase()
			decide := func(taskID int, accepted bool) error {
				_, err := uc.Execute(context.Background(), usecase.ReviewTaskInput{TaskID: taskID, Accepted: accepted})
				return err
			}
			return launchReviewTUIFunc(tasks, decide)
		},
	}
}

// reviewableTasks returns tasks that carry a suggestion, file order.
func reviewableTasks(c *app.Container) ([]*domain.Task, error) {
	all, err := c.Tasks.List(domain.TaskFilter{})
	if err != nil {
		return nil, err
	}
	tasks := make([]*domain.Task, 0, len(all))
	for _, task := range all {
		if task.HasSuggestion() {
			tasks = append(tasks, task)
		}
	}
	return tasks, nil
}
