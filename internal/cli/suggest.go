package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yonekura-dev/docmark/internal/app"
	"github.com/yonekura-dev/docmark/internal/domain"
	"github.com/yonekura-dev/docmark/internal/usecase"
)

// newSuggestCommand creates the suggest command.
func newSuggestCommand(c *app.Container) *cobra.Command {
	var opts struct {
		File string
	}

	cmd := &cobra.Command{
		Use:   "suggest <id> [-- text...]",
		Short: "Attach a documentation suggestion to a task",
		Long: `Attach a documentation suggestion to a task.

The text can come from arguments after --, from a file with --file,
or from piped stdin. The task moves to completed and is ready for
review.

Examples:
  docmark suggest 3 -- "Load the resource at the given path."
  docmark suggest 3 --file suggestion.txt
  my-llm-tool | docmark suggest 3`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseTaskID(args[0])
			if err != nil {
				return fmt.Errorf("invalid task ID: %w", err)
			}

			text := strings.Join(args[1:], " ")
			if text == "" && opts.File != "" {
				content, readErr := os.ReadFile(opts.File)
				if readErr != nil {
					return fmt.Errorf("read suggestion file: %w", readErr)
				}
				text = string(content)
			}
			if text == "" {
				stdinText, readErr := readStdinIfNotTerminal()
				if readErr != nil {
					return fmt.Errorf("read stdin: %w", readErr)
				}
				text = stdinText
			}
			if strings.TrimSpace(text) == "" {
				return domain.ErrEmptySuggestion
			}

			uc := c.SetSuggestionUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.SetSuggestionInput{TaskID: taskID, Text: text})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Task #%d is %s, ready for review\n", out.Task.ID, out.Task.Status)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.File, "file", "", "Read the suggestion text from a file")

	return cmd
}

// newExportCommand creates the export command.
func newExportCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Output string
		Format string
		Kind   string
		Limit  int
	}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export pending tasks as YAML for an external processor",
		Long: `Export pending tasks as YAML, in processing order.

Each entry carries the task ID, kind, location, and the full marker
block as context. The processor fills in the suggestion field and the
result is read back with docmark import.

Examples:
  docmark export > tasks.yaml
  docmark export --format json > tasks.json
  docmark export --kind generate_function_doc --limit 20 -o batch.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			kind := domain.TaskKind(opts.Kind)
			if opts.Kind != "" && !kind.IsValid() {
				return fmt.Errorf("%w: %s", domain.ErrInvalidKind, opts.Kind)
			}

			var w io.Writer = cmd.OutOrStdout()
			if opts.Output != "" {
				f, err := os.Create(opts.Output)
				if err != nil {
					return fmt.Errorf("create output file: %w", err)
				}
				defer func() { _ = f.Close() }()
				w = f
			}

			uc := c.ExportTasksUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.ExportTasksInput{
				Writer: w,
				Format: opts.Format,
				Kind:   kind,
				Limit:  opts.Limit,
			})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d tasks\n", out.Exported)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Write to a file instead of stdout")
	cmd.Flags().StringVar(&opts.Format, "format", "yaml", "Output format: yaml or json")
	cmd.Flags().StringVar(&opts.Kind, "kind", "", "Export only tasks of this kind")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "Maximum number of tasks to export (0 = all)")

	return cmd
}

// newImportCommand creates the import command.
func newImportCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import processor suggestions from YAML",
		Long: `Import suggestions produced by an external processor.

The input is the YAML written by docmark export with the suggestion
fields filled in. Entries without a suggestion are skipped; entries
that fail are reported and the rest still land.

Examples:
  docmark import filled.yaml
  my-llm-tool | docmark import`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("open import file: %w", err)
				}
				defer func() { _ = f.Close() }()
				r = f
			}

			uc := c.ImportSuggestionsUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.ImportSuggestionsInput{Reader: r})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Imported %d suggestions\n", out.Imported)
			for _, msg := range out.Errors {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", msg)
			}
			return nil
		},
	}

	return cmd
}

// readStdinIfNotTerminal reads from stdin if it's not a terminal (i.e., piped input).
func readStdinIfNotTerminal() (string, error) {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return "", err
	}

	// Check if stdin is a terminal (character device)
	if (stat.Mode() & os.ModeCharDevice) != 0 {
		return "", nil
	}

	var sb strings.Builder
	reader := bufio.NewReader(os.Stdin)
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				sb.WriteString(line)
				break
			}
			return "", err
		}
		sb.WriteString(line)
	}

	return strings.TrimSpace(sb.String()), nil
}
