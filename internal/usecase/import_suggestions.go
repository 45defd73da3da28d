package usecase

import (
	"context"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// ImportSuggestionsInput contains the parameters for importing suggestions.
type ImportSuggestionsInput struct {
	Reader io.Reader
}

// ImportSuggestionsOutput contains the result of an import.
type ImportSuggestionsOutput struct {
	Errors   []string
	Imported int
}

// importedSuggestion is one YAML entry produced by an external processor.
// Extra fields from a round-tripped export are ignored.
type importedSuggestion struct {
	ID         int    `yaml:"id"`
	Suggestion string `yaml:"suggestion"`
}

// ImportSuggestions reads processor output back into the queue. Entries
// that fail are reported and skipped; the rest still land.
type ImportSuggestions struct {
	suggest *SetSuggestion
}

// NewImportSuggestions creates a new ImportSuggestions use case.
func NewImportSuggestions(suggest *SetSuggestion) *ImportSuggestions {
	return &ImportSuggestions{suggest: suggest}
}

// Execute imports all entries.
func (uc *ImportSuggestions) Execute(ctx context.Context, in ImportSuggestionsInput) (*ImportSuggestionsOutput, error) {
	var entries []importedSuggestion
	if err := yaml.NewDecoder(in.Reader).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode suggestions: %w", err)
	}

	out := &ImportSuggestionsOutput{}
	for _, entry := range entries {
		if entry.Suggestion == "" {
			continue
		}
		sin := SetSuggestionInput{TaskID: entry.ID, Text: entry.Suggestion}
		if _, err := uc.suggest.Execute(ctx, sin); err != nil {
			out.Errors = append(out.Errors, fmt.Sprintf("task %d: %v", entry.ID, err))
			continue
		}
		out.Imported++
	}
	return out, nil
}
