package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yonekura-dev/docmark/internal/domain"
	"github.com/yonekura-dev/docmark/internal/marker"
)

// ApplyInput contains the parameters for applying suggestions.
type ApplyInput struct {
	TaskID       int  // Apply a single task (0 = all accepted tasks)
	StripMarkers bool // Remove delimiter lines from touched files afterwards
}

// ApplyResult describes the outcome for one task.
type ApplyResult struct {
	FilePath string
	Error    string // Empty on success
	TaskID   int
	Line     int
}

// ApplyOutput contains the result of an apply run.
type ApplyOutput struct {
	Results         []ApplyResult
	FilesTouched    []string
	Applied         int
	Failed          int
	MarkersStripped int
}

// Apply writes accepted suggestions into their source files. Tasks are
// processed per file in descending line order, so earlier writes never
// shift the anchors of tasks still waiting. Each success deletes the task;
// each failure marks it failed and moves on.
type Apply struct {
	tasks        domain.TaskRepository
	fingerprints domain.FingerprintRepository
	changes      *ChangeDetector
	backups      domain.BackupManager
	detector     *marker.Detector
	logger       domain.Logger
	cfg          *domain.Config
	root         string
}

// NewApply creates a new Apply use case.
func NewApply(tasks domain.TaskRepository, fingerprints domain.FingerprintRepository, backups domain.BackupManager, logger domain.Logger, cfg *domain.Config, root string) *Apply {
	return &Apply{
		tasks:        tasks,
		fingerprints: fingerprints,
		changes:      NewChangeDetector(fingerprints),
		backups:      backups,
		detector:     marker.NewDetector(),
		logger:       logger,
		cfg:          cfg,
		root:         root,
	}
}

// Execute applies the selected tasks.
func (uc *Apply) Execute(ctx context.Context, in ApplyInput) (*ApplyOutput, error) {
	tasks, err := uc.selectTasks(in.TaskID)
	if err != nil {
		return nil, err
	}

	out := &ApplyOutput{}
	touched := make(map[string]bool)
	for _, task := range tasks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result := ApplyResult{TaskID: task.ID, FilePath: task.FilePath, Line: task.Line}
		if err := uc.applyOne(task); err != nil {
			result.Error = err.Error()
			out.Failed++
			uc.logger.Error(task.ID, "apply", err.Error())
			if markErr := uc.tasks.MarkFailed(task.ID, err.Error()); markErr != nil {
				uc.logger.Error(task.ID, "apply", fmt.Sprintf("mark failed: %v", markErr))
			}
		} else {
			out.Applied++
			touched[task.FilePath] = true
			uc.logger.Info(task.ID, "apply", fmt.Sprintf("applied to %s:%d", task.FilePath, task.Line))
		}
		out.Results = append(out.Results, result)
	}

	for f := range touched {
		out.FilesTouched = append(out.FilesTouched, f)
	}

	// Marker stripping runs in a second pass over whole files: removing
	// delimiter lines during the task loop would shift every anchor below
	// them.
	if in.StripMarkers {
		stripped, err := uc.stripFiles(out.FilesTouched)
		if err != nil {
			return nil, err
		}
		out.MarkersStripped = stripped
	}

	return out, nil
}

// selectTasks returns the tasks to apply, already ordered file ascending
// and line descending.
func (uc *Apply) selectTasks(taskID int) ([]*domain.Task, error) {
	if taskID == 0 {
		return uc.tasks.ListAccepted()
	}
	task, err := uc.tasks.Get(taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, domain.ErrTaskNotFound
	}
	if !task.Accepted {
		return nil, fmt.Errorf("task %d: suggestion not accepted", taskID)
	}
	return []*domain.Task{task}, nil
}

// applyOne runs the full pipeline for a single task: re-read, locate,
// mutate, back up, write, refresh fingerprints, delete.
func (uc *Apply) applyOne(task *domain.Task) error {
	if !task.HasSuggestion() {
		return domain.ErrNoSuggestion
	}

	absPath := filepath.Join(uc.root, filepath.FromSlash(task.FilePath))
	content, err := os.ReadFile(absPath)
	if err != nil {
		return fmt.Errorf("read %s: %w", task.FilePath, err)
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return fmt.Errorf("stat %s: %w", task.FilePath, err)
	}

	mutated, err := uc.mutate(task, string(content))
	if err != nil {
		return err
	}

	if uc.cfg.Output.Backup {
		if _, err := uc.backups.Snapshot(absPath); err != nil {
			return err
		}
	}

	if err := writeFileAtomic(absPath, []byte(mutated), info.Mode().Perm()); err != nil {
		return err
	}

	// Re-fingerprint from what was actually written, so the next scan sees
	// the applied documentation as the baseline instead of re-queueing it
	if err := uc.refreshFingerprints(task.FilePath, mutated); err != nil {
		return err
	}

	return uc.tasks.Delete(task.ID)
}

// mutate produces the new file content for a task.
func (uc *Apply) mutate(task *domain.Task, content string) (string, error) {
	lines := strings.Split(content, "\n")
	indent := marker.Extract(task.MarkerText)
	anchorIdx := task.Line - 1
	category := task.Kind.Category()

	switch category {
	case domain.CategoryFunction, domain.CategoryClass:
		defIdx, err := marker.LocateDefinition(lines, anchorIdx, indent, category)
		if err != nil {
			return "", err
		}
		doc := marker.FormatDocstring(task.Suggestion, marker.Nest(indent))
		if len(doc) == 0 {
			return "", domain.ErrEmptySuggestion
		}
		lines = marker.ApplyDocstring(lines, defIdx, doc)
	case domain.CategoryModule:
		doc := marker.FormatDocstring(task.Suggestion, indent)
		if len(doc) == 0 {
			return "", domain.ErrEmptySuggestion
		}
		lines = marker.ApplyModuleDocstring(lines, anchorIdx, doc)
	case domain.CategoryComment:
		comment := marker.FormatComment(task.Suggestion, indent)
		if len(comment) == 0 {
			return "", domain.ErrEmptySuggestion
		}
		lines = marker.ApplyComment(lines, anchorIdx, comment)
	default:
		return "", fmt.Errorf("%w: %s", domain.ErrInvalidKind, task.Kind)
	}

	return strings.Join(lines, "\n"), nil
}

// refreshFingerprints re-detects blocks in the written content and records
// their new hashes, plus the whole-file hash.
func (uc *Apply) refreshFingerprints(relPath, content string) error {
	blocks, _ := uc.detector.Detect(content, relPath)
	for i := range blocks {
		b := &blocks[i]
		if err := uc.changes.Record(b.Subject(), b.Text, anchorOf(b)); err != nil {
			return err
		}
	}
	return uc.changes.Record(relPath, content, 0)
}

// stripFiles removes delimiter lines from the given files. Files that
// still have queued tasks are skipped: their anchors are still needed.
func (uc *Apply) stripFiles(files []string) (int, error) {
	total := 0
	for _, relPath := range files {
		remaining, err := uc.tasks.List(domain.TaskFilter{FilePath: relPath})
		if err != nil {
			return total, err
		}
		if len(remaining) > 0 {
			uc.logger.Warn(0, "apply", fmt.Sprintf("not stripping %s: %d tasks still queued", relPath, len(remaining)))
			continue
		}

		absPath := filepath.Join(uc.root, filepath.FromSlash(relPath))
		content, err := os.ReadFile(absPath)
		if err != nil {
			return total, fmt.Errorf("read %s: %w", relPath, err)
		}
		stripped, removed := marker.StripMarkers(string(content))
		if removed == 0 {
			continue
		}
		info, err := os.Stat(absPath)
		if err != nil {
			return total, err
		}
		if uc.cfg.Output.Backup {
			if _, err := uc.backups.Snapshot(absPath); err != nil {
				return total, err
			}
		}
		if err := writeFileAtomic(absPath, []byte(stripped), info.Mode().Perm()); err != nil {
			return total, err
		}
		if err := uc.refreshFingerprints(relPath, stripped); err != nil {
			return total, err
		}
		total += removed
		uc.logger.Info(0, "apply", fmt.Sprintf("stripped %d marker lines from %s", removed, relPath))
	}
	return total, nil
}

// writeFileAtomic writes content via a temp file and rename, so a crash
// mid-write leaves the original file intact.
func writeFileAtomic(path string, content []byte, perm os.FileMode) error {
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, content, perm); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
