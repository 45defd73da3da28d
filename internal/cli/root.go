// Package cli provides the command-line interface for docmark.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/yonekura-dev/docmark/internal/app"
)

// Command group IDs.
const (
	groupSetup = "setup"
	groupQueue = "queue"
	groupApply = "apply"
)

// NewRootCommand creates the root command for docmark.
// It receives the container for dependency injection and version for display.
func NewRootCommand(c *app.Container, version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "docmark",
		Short: "Marker-driven documentation queue for Python sources",
		Long: `docmark finds @llm marker blocks in Python sources and turns each one
into a documentation task. An external processor (typically an LLM)
fills in suggestions, a reviewer accepts or rejects them, and docmark
writes accepted text back into the source at the right indentation.

Typical flow:
  docmark init
  docmark scan
  docmark export > tasks.yaml     # hand to the processor
  docmark import < filled.yaml
  docmark review                  # or: docmark accept <id>
  docmark apply`,
		Version: version,
		// SilenceUsage prevents usage from being printed on errors
		SilenceUsage: true,
		// SilenceErrors prevents Cobra from printing errors (we handle it in main)
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// init creates the state this check looks for
			if cmd.Name() == "init" || cmd.Name() == "help" {
				return nil
			}
			// Skip if container is nil (e.g. in tests)
			if c == nil {
				return nil
			}
			return c.RequireInitialized()
		},
	}

	root.AddGroup(
		&cobra.Group{ID: groupSetup, Title: "Setup Commands:"},
		&cobra.Group{ID: groupQueue, Title: "Task Queue:"},
		&cobra.Group{ID: groupApply, Title: "Applying Changes:"},
	)

	initCmd := newInitCommand(c)
	initCmd.GroupID = groupSetup

	scanCmd := newScanCommand(c)
	scanCmd.GroupID = groupQueue

	listCmd := newListCommand(c)
	listCmd.GroupID = groupQueue

	showCmd := newShowCommand(c)
	showCmd.GroupID = groupQueue

	statusCmd := newStatusCommand(c)
	statusCmd.GroupID = groupQueue

	clearCmd := newClearCommand(c)
	clearCmd.GroupID = groupQueue

	suggestCmd := newSuggestCommand(c)
	suggestCmd.GroupID = groupQueue

	exportCmd := newExportCommand(c)
	exportCmd.GroupID = groupQueue

	importCmd := newImportCommand(c)
	importCmd.GroupID = groupQueue

	acceptCmd := newAcceptCommand(c)
	acceptCmd.GroupID = groupApply

	rejectCmd := newRejectCommand(c)
	rejectCmd.GroupID = groupApply

	reviewCmd := newReviewCommand(c)
	reviewCmd.GroupID = groupApply

	applyCmd := newApplyCommand(c)
	applyCmd.GroupID = groupApply

	rollbackCmd := newRollbackCommand(c)
	rollbackCmd.GroupID = groupApply

	root.AddCommand(
		initCmd,
		scanCmd,
		listCmd,
		showCmd,
		statusCmd,
		clearCmd,
		suggestCmd,
		exportCmd,
		importCmd,
		acceptCmd,
		rejectCmd,
		reviewCmd,
		applyCmd,
		rollbackCmd,
	)

	return root
}
