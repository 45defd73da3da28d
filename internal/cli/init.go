package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yonekura-dev/docmark/internal/app"
	"github.com/yonekura-dev/docmark/internal/infra/config"
	"github.com/yonekura-dev/docmark/internal/usecase"
)

// newInitCommand creates the init command.
func newInitCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize the project for docmark",
		Long: `Initialize the project for docmark.

This command creates the .docmark/ directory at the project root with:
- tasks.json: empty task queue
- fingerprints.json: empty change-detection state
- config.toml: commented default configuration

The project root is the enclosing git worktree root when one exists,
otherwise the current directory. Running init twice is harmless; an
existing config.toml is never overwritten.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc := c.InitProjectUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.InitProjectInput{
				ConfigContent: config.DefaultFileContent,
			})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Initialized docmark in %s\n", out.StateDir)
			if out.ConfigCreated {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote default config to %s\n", c.Config.ConfigPath)
			}
			return nil
		},
	}
}
