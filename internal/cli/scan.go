package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yonekura-dev/docmark/internal/app"
	"github.com/yonekura-dev/docmark/internal/usecase"
)

// newScanCommand creates the scan command.
func newScanCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "scan [path...]",
		Short: "Scan sources for marker blocks and refresh the task queue",
		Long: `Scan sources for @llm marker blocks and reconcile the task queue.

New blocks become pending tasks, edited blocks reset their existing
task to pending, and unchanged blocks are left alone even when their
line numbers drifted. Tasks for deleted files are pruned.

With no arguments the paths from config.toml are scanned. Explicit
paths override the configuration for this run only.

Examples:
  docmark scan
  docmark scan src/ tools/cli.py`,
		RunE: func(cmd *cobra.Command, args []string) error {
			uc := c.ScanUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.ScanInput{Paths: args})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "Scanned %d files, %d marker blocks\n", out.FilesScanned, out.BlocksFound)
			_, _ = fmt.Fprintf(w, "Tasks: %d created, %d updated, %d removed\n",
				out.TasksCreated, out.TasksUpdated, out.TasksRemoved)
			for _, issue := range out.Issues {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", issue.Error())
			}
			for _, msg := range out.ReadErrors {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", msg)
			}
			return nil
		},
	}
}
