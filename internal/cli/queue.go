package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/yonekura-dev/docmark/internal/app"
	"github.com/yonekura-dev/docmark/internal/domain"
	"github.com/yonekura-dev/docmark/internal/usecase"
)

// newListCommand creates the list command.
func newListCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Kind  string
		Limit int
	}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List pending tasks in processing order",
		Long: `List pending tasks in the order a processor should consume them:
module docs first, then classes, functions and inline comments, with
lower priority values first within each kind.

Examples:
  docmark list
  docmark list --kind generate_function_doc
  docmark list --limit 10`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			kind := domain.TaskKind(opts.Kind)
			if opts.Kind != "" && !kind.IsValid() {
				return fmt.Errorf("%w: %s", domain.ErrInvalidKind, opts.Kind)
			}

			uc := c.ListPendingUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.ListPendingInput{Kind: kind, Limit: opts.Limit})
			if err != nil {
				return err
			}

			printTaskList(cmd.OutOrStdout(), out.Tasks)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Kind, "kind", "", "Show only tasks of this kind")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "Maximum number of tasks to show (0 = all)")

	return cmd
}

// printTaskList prints tasks in TSV format.
func printTaskList(w io.Writer, tasks []*domain.Task) {
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	defer func() { _ = tw.Flush() }()

	_, _ = fmt.Fprintln(tw, "ID\tKIND\tFILE\tLINE\tNAME\tSUGGESTION")

	for _, task := range tasks {
		nameStr := "-"
		if task.Name != "" {
			nameStr = task.Name
		}
		suggestionStr := "-"
		if task.HasSuggestion() {
			suggestionStr = "yes"
		}
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\t%s\n",
			task.ID,
			task.Kind,
			task.FilePath,
			task.Line,
			nameStr,
			suggestionStr,
		)
	}
}

// newShowCommand creates the show command.
func newShowCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one task with its full block context",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseTaskID(args[0])
			if err != nil {
				return fmt.Errorf("invalid task ID: %w", err)
			}

			uc := c.ShowTaskUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.ShowTaskInput{TaskID: taskID})
			if err != nil {
				return err
			}

			printTaskDetail(cmd.OutOrStdout(), out.Task)
			return nil
		},
	}
}

// printTaskDetail prints one task in a key/value layout.
func printTaskDetail(w io.Writer, task *domain.Task) {
	_, _ = fmt.Fprintf(w, "Task #%d\n", task.ID)
	_, _ = fmt.Fprintf(w, "  Kind:     %s\n", task.Kind)
	_, _ = fmt.Fprintf(w, "  File:     %s:%d\n", task.FilePath, task.Line)
	if task.Name != "" {
		_, _ = fmt.Fprintf(w, "  Name:     %s\n", task.Name)
	}
	_, _ = fmt.Fprintf(w, "  Status:   %s\n", task.Status)
	_, _ = fmt.Fprintf(w, "  Priority: %d\n", task.Priority)
	_, _ = fmt.Fprintf(w, "  Accepted: %t\n", task.Accepted)
	if task.ErrorMessage != "" {
		_, _ = fmt.Fprintf(w, "  Error:    %s\n", task.ErrorMessage)
	}
	if task.Context != "" {
		_, _ = fmt.Fprintln(w, "  Context:")
		for _, line := range strings.Split(task.Context, "\n") {
			_, _ = fmt.Fprintf(w, "    %s\n", line)
		}
	}
	if task.HasSuggestion() {
		_, _ = fmt.Fprintln(w, "  Suggestion:")
		for _, line := range strings.Split(task.Suggestion, "\n") {
			_, _ = fmt.Fprintf(w, "    %s\n", line)
		}
	}
}

// newStatusCommand creates the status command.
func newStatusCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show queue statistics and available backups",
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc := c.QueueStatusUseCase()
			out, err := uc.Execute(cmd.Context())
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "Tasks: %d total, %d accepted\n", out.Stats.Total, out.Stats.Accepted)
			for _, status := range []domain.Status{
				domain.StatusPending, domain.StatusProcessing, domain.StatusCompleted, domain.StatusFailed,
			} {
				if n := out.Stats.ByStatus[status]; n > 0 {
					_, _ = fmt.Fprintf(w, "  %-12s %d\n", status, n)
				}
			}

			kinds := make([]string, 0, len(out.Stats.ByKind))
			for kind := range out.Stats.ByKind {
				kinds = append(kinds, string(kind))
			}
			sort.Strings(kinds)
			for _, kind := range kinds {
				_, _ = fmt.Fprintf(w, "  %-26s %d\n", kind, out.Stats.ByKind[domain.TaskKind(kind)])
			}

			_, _ = fmt.Fprintf(w, "Backups: %d\n", len(out.Backups))
			return nil
		},
	}
}

// newClearCommand creates the clear command.
func newClearCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Fingerprints bool
	}

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every task from the queue",
		Long: `Remove every task from the queue.

Fingerprints survive by default, so the next scan only re-queues
blocks that actually changed. With --fingerprints the change history
is dropped too and the next scan re-queues every block.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc := c.ClearQueueUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.ClearQueueInput{Fingerprints: opts.Fingerprints})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Removed %d tasks\n", out.TasksRemoved)
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.Fingerprints, "fingerprints", false, "Also forget all fingerprints, forcing a full re-scan")

	return cmd
}

// parseTaskID parses a task ID string to int.
func parseTaskID(s string) (int, error) {
	// Remove leading # if present
	s = strings.TrimPrefix(s, "#")
	var id int
	_, err := fmt.Sscanf(s, "%d", &id)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, fmt.Errorf("task ID must be positive")
	}
	return id, nil
}
