package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/yonekura-dev/docmark/internal/domain"
)

// Export formats.
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// ExportTasksInput contains the parameters for exporting pending tasks.
type ExportTasksInput struct {
	Writer io.Writer
	Format string          // FormatYAML (default) or FormatJSON
	Kind   domain.TaskKind // "" = all kinds
	Limit  int             // <= 0 = no limit
}

// ExportTasksOutput contains the result of an export.
type ExportTasksOutput struct {
	Exported int
}

// exportedTask is the payload shape handed to an external processor.
type exportedTask struct {
	ID         int    `yaml:"id"         json:"id"`
	Kind       string `yaml:"kind"       json:"kind"`
	File       string `yaml:"file"       json:"file"`
	Line       int    `yaml:"line"       json:"line"`
	Name       string `yaml:"name,omitempty" json:"name,omitempty"`
	Context    string `yaml:"context"    json:"context"`
	Suggestion string `yaml:"suggestion,omitempty" json:"suggestion,omitempty"`
}

// ExportTasks writes the pending queue as YAML or JSON, in processing
// order, for an external processor to fill in suggestions.
type ExportTasks struct {
	tasks domain.TaskRepository
}

// NewExportTasks creates a new ExportTasks use case.
func NewExportTasks(tasks domain.TaskRepository) *ExportTasks {
	return &ExportTasks{tasks: tasks}
}

// Execute writes the export.
func (uc *ExportTasks) Execute(ctx context.Context, in ExportTasksInput) (*ExportTasksOutput, error) {
	tasks, err := uc.tasks.ListPending(domain.PendingFilter{Kind: in.Kind, Limit: in.Limit})
	if err != nil {
		return nil, err
	}

	exported := make([]exportedTask, 0, len(tasks))
	for _, t := range tasks {
		exported = append(exported, exportedTask{
			ID:         t.ID,
			Kind:       string(t.Kind),
			File:       t.FilePath,
			Line:       t.Line,
			Name:       t.Name,
			Context:    t.Context,
			Suggestion: t.Suggestion,
		})
	}

	switch in.Format {
	case FormatJSON:
		enc := json.NewEncoder(in.Writer)
		enc.SetIndent("", "  ")
		if err := enc.Encode(exported); err != nil {
			return nil, fmt.Errorf("encode tasks: %w", err)
		}
	case "", FormatYAML:
		enc := yaml.NewEncoder(in.Writer)
		enc.SetIndent(2)
		if err := enc.Encode(exported); err != nil {
			return nil, fmt.Errorf("encode tasks: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown export format %q", in.Format)
	}
	return &ExportTasksOutput{Exported: len(exported)}, nil
}
