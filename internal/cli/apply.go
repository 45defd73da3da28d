package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yonekura-dev/docmark/internal/app"
	"github.com/yonekura-dev/docmark/internal/usecase"
)

// newApplyCommand creates the apply command.
func newApplyCommand(c *app.Container) *cobra.Command {
	var opts struct {
		TaskID       int
		StripMarkers bool
	}

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Write accepted suggestions back into the sources",
		Long: `Write accepted suggestions back into the source files.

Files are snapshotted into .docmark/backups/ before the first write
(unless backups are disabled in config.toml), and tasks within one
file are applied bottom-up so earlier insertions never shift later
anchors. A task whose target moved or vanished is marked failed and
the rest still apply; successfully applied tasks leave the queue.

With --strip-markers the @llm delimiter lines are removed afterwards
from files that have no remaining queued tasks.

Examples:
  docmark apply
  docmark apply --task 3
  docmark apply --strip-markers`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc := c.ApplyUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.ApplyInput{
				TaskID:       opts.TaskID,
				StripMarkers: opts.StripMarkers,
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "Applied %d tasks", out.Applied)
			if out.Failed > 0 {
				_, _ = fmt.Fprintf(w, ", %d failed", out.Failed)
			}
			_, _ = fmt.Fprintln(w)
			for _, result := range out.Results {
				if result.Error != "" {
					_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: task #%d: %s\n", result.TaskID, result.Error)
				}
			}
			if opts.StripMarkers {
				_, _ = fmt.Fprintf(w, "Stripped %d marker lines\n", out.MarkersStripped)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&opts.TaskID, "task", 0, "Apply a single task instead of all accepted ones")
	cmd.Flags().BoolVar(&opts.StripMarkers, "strip-markers", false, "Remove @llm delimiter lines from fully processed files")

	return cmd
}

// newRollbackCommand creates the rollback command.
func newRollbackCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "rollback <file>",
		Short: "Restore a file from its most recent backup",
		Long: `Restore a file from its most recent backup.

The path is relative to the project root. The restored content
becomes the new change-detection baseline, so the next scan treats
it as unmodified.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uc := c.RollbackUseCase()
			_, err := uc.Execute(cmd.Context(), usecase.RollbackInput{FilePath: args[0]})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Restored %s\n", args[0])
			return nil
		},
	}
}
