package usecase

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/yonekura-dev/docmark/internal/domain"
	"github.com/yonekura-dev/docmark/internal/hashing"
	"github.com/yonekura-dev/docmark/internal/marker"
)

// ScanInput contains the parameters for scanning.
type ScanInput struct {
	Paths []string // Override the configured scan roots when non-empty
}

// ScanOutput contains the result of a scan.
type ScanOutput struct {
	Issues       []domain.Imbalance // Malformed marker pairings, one per dangling delimiter
	ReadErrors   []string           // Files that could not be read or statted, one message each
	ContentHash  string             // Order-independent digest of all scanned file contents
	FilesScanned int
	BlocksFound  int
	TasksCreated int
	TasksUpdated int
	TasksRemoved int // Tasks dropped because their file no longer exists
}

// Scan walks the configured source tree, detects marker blocks, and keeps
// the task queue in sync with what changed since the previous scan. Files
// with imbalanced markers still contribute tasks for their intact blocks,
// and unreadable files are reported without failing the rest of the scan.
type Scan struct {
	tasks        domain.TaskRepository
	fingerprints domain.FingerprintRepository
	changes      *ChangeDetector
	detector     *marker.Detector
	logger       domain.Logger
	cfg          *domain.Config
	root         string
}

// NewScan creates a new Scan use case.
func NewScan(tasks domain.TaskRepository, fingerprints domain.FingerprintRepository, logger domain.Logger, cfg *domain.Config, root string) *Scan {
	return &Scan{
		tasks:        tasks,
		fingerprints: fingerprints,
		changes:      NewChangeDetector(fingerprints),
		detector:     marker.NewDetector(),
		logger:       logger,
		cfg:          cfg,
		root:         root,
	}
}

// Execute runs the scan. Scanning twice without edits in between is a
// no-op on the queue.
func (uc *Scan) Execute(ctx context.Context, in ScanInput) (*ScanOutput, error) {
	paths := in.Paths
	if len(paths) == 0 {
		paths = uc.cfg.Scanning.Paths
	}

	out := &ScanOutput{}
	files := uc.enumerate(paths, out)

	var fileHashes []string
	for _, relPath := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		content, err := os.ReadFile(filepath.Join(uc.root, relPath))
		if err != nil {
			// One unreadable file must not starve the rest of the tree
			msg := fmt.Sprintf("read %s: %v", relPath, err)
			out.ReadErrors = append(out.ReadErrors, msg)
			uc.logger.Warn(0, "scan", msg)
			continue
		}
		if err := uc.scanFile(relPath, string(content), out); err != nil {
			return nil, err
		}
		fileHashes = append(fileHashes, hashing.Bytes(content))
		out.FilesScanned++
	}
	out.ContentHash = uc.changes.FileSetHash(fileHashes)

	removed, err := uc.pruneMissingFiles()
	if err != nil {
		return nil, err
	}
	out.TasksRemoved = removed

	uc.logger.Info(0, "scan", fmt.Sprintf(
		"scanned %d files: %d blocks, %d created, %d updated, %d removed, %d issues",
		out.FilesScanned, out.BlocksFound, out.TasksCreated, out.TasksUpdated, out.TasksRemoved,
		len(out.Issues)+len(out.ReadErrors)))
	return out, nil
}

// scanFile detects blocks in one file and reconciles the queue with them.
func (uc *Scan) scanFile(relPath, content string, out *ScanOutput) error {
	blocks, issues := uc.detector.Detect(content, relPath)
	out.BlocksFound += len(blocks)
	out.Issues = append(out.Issues, issues...)
	for _, issue := range issues {
		uc.logger.Warn(0, "scan", issue.Error())
	}

	existing, err := uc.tasks.List(domain.TaskFilter{FilePath: relPath})
	if err != nil {
		return err
	}

	for i := range blocks {
		block := &blocks[i]
		subject := block.Subject()

		changed, prior, err := uc.changes.Check(subject, block.Text)
		if err != nil {
			return err
		}
		if !changed {
			// Unchanged content may still have drifted to a new line
			if prior != nil && prior.Line != anchorOf(block) {
				if err := uc.changes.Record(subject, block.Text, anchorOf(block)); err != nil {
					return err
				}
			}
			continue
		}

		task := taskFromBlock(block)
		if prior != nil {
			if match := findTaskForBlock(existing, block, prior); match != nil {
				task.ID = match.ID
			}
		}

		id, created, err := uc.tasks.CreateOrUpdate(task)
		if err != nil {
			return fmt.Errorf("queue task for %s: %w", subject, err)
		}
		if created {
			out.TasksCreated++
		} else {
			out.TasksUpdated++
		}
		uc.logger.Debug(id, "scan", fmt.Sprintf("%s task for %s", task.Kind, subject))

		// The fingerprint is written only after the task row is durable
		if err := uc.changes.Record(subject, block.Text, anchorOf(block)); err != nil {
			return err
		}
	}

	return uc.changes.Record(relPath, content, 0)
}

// enumerate lists scannable files under the given roots, as slash-separated
// paths relative to the project root, sorted for stable output. Entries that
// cannot be walked or statted are reported on out and skipped so the rest of
// the tree still gets scanned.
func (uc *Scan) enumerate(paths []string, out *ScanOutput) []string {
	maxSize := int64(uc.cfg.Scanning.MaxFileSizeMB) * 1024 * 1024
	seen := make(map[string]bool)
	var files []string

	report := func(format string, args ...any) {
		msg := fmt.Sprintf(format, args...)
		out.ReadErrors = append(out.ReadErrors, msg)
		uc.logger.Warn(0, "scan", msg)
	}

	for _, p := range paths {
		base := filepath.Join(uc.root, p)
		_ = filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				report("walk %s: %v", path, err)
				return nil
			}
			if d.IsDir() {
				if uc.excluded(d.Name()) && path != base {
					return filepath.SkipDir
				}
				return nil
			}
			if !slices.Contains(uc.cfg.Scanning.Extensions, filepath.Ext(path)) {
				return nil
			}
			info, err := d.Info()
			if err != nil {
				report("stat %s: %v", path, err)
				return nil
			}
			if info.Size() > maxSize {
				uc.logger.Warn(0, "scan", fmt.Sprintf("skipping %s: exceeds size limit", path))
				return nil
			}
			rel, err := filepath.Rel(uc.root, path)
			if err != nil {
				report("resolve %s: %v", path, err)
				return nil
			}
			rel = filepath.ToSlash(rel)
			if !seen[rel] {
				seen[rel] = true
				files = append(files, rel)
			}
			return nil
		})
	}

	slices.Sort(files)
	return files
}

// excluded matches a directory name against the configured exclude list.
func (uc *Scan) excluded(name string) bool {
	for _, pattern := range uc.cfg.Scanning.Exclude {
		if ok, _ := filepath.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

// pruneMissingFiles drops tasks and fingerprints for files that no longer
// exist on disk.
func (uc *Scan) pruneMissingFiles() (int, error) {
	all, err := uc.tasks.List(domain.TaskFilter{})
	if err != nil {
		return 0, err
	}

	removed := 0
	droppedFiles := make(map[string]bool)
	for _, t := range all {
		if _, err := os.Stat(filepath.Join(uc.root, filepath.FromSlash(t.FilePath))); !os.IsNotExist(err) {
			continue
		}
		if err := uc.tasks.Delete(t.ID); err != nil {
			return removed, err
		}
		removed++
		droppedFiles[t.FilePath] = true
	}
	for f := range droppedFiles {
		if err := uc.fingerprints.DeleteFile(f); err != nil {
			return removed, err
		}
		uc.logger.Info(0, "scan", fmt.Sprintf("dropped tasks for missing file %s", f))
	}
	return removed, nil
}

// taskFromBlock builds a fresh pending task for a block.
func taskFromBlock(b *domain.Block) *domain.Task {
	return &domain.Task{
		FilePath:   b.FilePath,
		Kind:       domain.KindFor(b.Category, b.Doc),
		Status:     domain.StatusPending,
		MarkerText: b.MarkerLine(),
		Context:    b.Text,
		Name:       b.Name,
		Line:       anchorOf(b),
		Priority:   domain.DefaultPriority,
	}
}

// anchorOf returns the block's anchor line, falling back to the first line
// inside the delimiters when no definition was found.
func anchorOf(b *domain.Block) int {
	if b.AnchorLine > 0 {
		return b.AnchorLine
	}
	return b.StartLine + 1
}

// findTaskForBlock locates the queued task a changed block supersedes:
// same category and declared name, or same anchor as the prior fingerprint
// for unnamed blocks.
func findTaskForBlock(existing []*domain.Task, b *domain.Block, prior *domain.Fingerprint) *domain.Task {
	for _, t := range existing {
		if t.Kind.Category() != b.Category {
			continue
		}
		if b.Name != "" && t.Name == b.Name {
			return t
		}
		if b.Name == "" && t.Line == prior.Line {
			return t
		}
	}
	return nil
}
