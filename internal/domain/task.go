// Package domain contains core business entities and interfaces.
package domain

import "time"

// Task represents a queued unit of documentation work tied to one marker
// block. Fields are ordered to minimize memory padding.
type Task struct {
	Created      time.Time `json:"created"`                // Creation time
	Updated      time.Time `json:"updated"`                // Last mutation time
	FilePath     string    `json:"filePath"`               // Source file the block lives in
	Kind         TaskKind  `json:"kind"`                   // What to generate or validate
	Status       Status    `json:"status"`                 // Current queue status
	MarkerText   string    `json:"markerText,omitempty"`   // Start delimiter line as seen in the file
	Context      string    `json:"context,omitempty"`      // Full block text between the delimiters
	Name         string    `json:"name,omitempty"`         // Declared name of the construct (best effort)
	ErrorMessage string    `json:"errorMessage,omitempty"` // Failure detail (set when status is failed)
	Suggestion   string    `json:"suggestion,omitempty"`   // Documentation text supplied by the processor
	ID           int       `json:"-"`                      // Task ID (stored as map key, not in value)
	Line         int       `json:"line"`                   // 1-indexed anchor line for re-location
	Priority     int       `json:"priority"`               // Lower processes first within a kind
	Accepted     bool      `json:"accepted"`               // Reviewer approved the suggestion
}

// DefaultPriority is assigned to tasks created by the scanner.
const DefaultPriority = 5

// HasSuggestion returns true once the processor has filled in a suggestion.
func (t *Task) HasSuggestion() bool {
	return t.Suggestion != ""
}

// Key identifies the queue slot a task occupies. At most one non-terminal
// task may exist per key.
func (t *Task) Key() TaskKey {
	return TaskKey{FilePath: t.FilePath, Line: t.Line, Kind: t.Kind}
}

// TaskKey is the uniqueness key (file, line, kind) for queued tasks.
type TaskKey struct {
	FilePath string
	Kind     TaskKind
	Line     int
}
