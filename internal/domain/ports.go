package domain

import "time"

// StoreInitializer initializes a durable store.
type StoreInitializer interface {
	// Initialize creates the store if it doesn't exist.
	Initialize() error
}

// TaskRepository manages task persistence. Every mutating operation is a
// single atomic write: an interrupted process observes either the pre- or
// post-operation snapshot, never a partial row.
type TaskRepository interface {
	// Get retrieves a task by ID. Returns nil if not found.
	Get(id int) (*Task, error)

	// CreateOrUpdate persists the task. A task with ID 0 either takes over
	// the existing non-terminal row at its (file, line, kind) key or is
	// inserted fresh; a task with an ID updates that row. Returns the
	// stored ID and whether a new row was created. A second active row at
	// the same key is ErrUniquenessViolation.
	CreateOrUpdate(task *Task) (id int, created bool, err error)

	// List retrieves tasks matching the filter.
	List(filter TaskFilter) ([]*Task, error)

	// ListPending returns pending tasks in fixed processing order:
	// module before class before function before comment, then ascending
	// priority, then creation time. Limit <= 0 means no limit.
	ListPending(filter PendingFilter) ([]*Task, error)

	// ListAccepted returns accepted tasks ordered by file path ascending
	// and line descending, so in-file applies never shift later anchors.
	ListAccepted() ([]*Task, error)

	// MarkProcessing transitions a task to processing.
	MarkProcessing(id int) error

	// MarkCompleted transitions a task to completed.
	MarkCompleted(id int) error

	// MarkFailed transitions a task to failed and records the error.
	// Failed tasks stay in the queue for retry.
	MarkFailed(id int, message string) error

	// SetSuggestion stores the processor's documentation text.
	SetSuggestion(id int, text string) error

	// SetAccepted records the reviewer's decision.
	SetAccepted(id int, accepted bool) error

	// Delete removes a task. The applier calls this on confirmed success;
	// it is the only way a task leaves the queue short of ClearAll.
	Delete(id int) error

	// ClearAll removes every task.
	ClearAll() error

	// Stats returns queue statistics.
	Stats() (QueueStats, error)
}

// TaskFilter specifies criteria for listing tasks.
type TaskFilter struct {
	FilePath string   // "" = all files
	Status   Status   // "" = all statuses
	Kind     TaskKind // "" = all kinds
}

// PendingFilter narrows ListPending.
type PendingFilter struct {
	Kind  TaskKind // "" = all kinds
	Limit int      // <= 0 = no limit
}

// QueueStats summarizes the queue contents.
type QueueStats struct {
	ByStatus map[Status]int
	ByKind   map[TaskKind]int
	Accepted int
	Total    int
}

// Fingerprint maps a subject to its last observed content hash. A record
// is written only after the corresponding task or artifact has been
// durably produced, never speculatively.
type Fingerprint struct {
	Observed time.Time `json:"observed"`
	Subject  string    `json:"-"` // Stored as map key, not in value
	Hash     string    `json:"hash"`
	Line     int       `json:"line,omitempty"` // 1-indexed anchor at observation time (block subjects)
}

// FingerprintRepository persists fingerprint records.
type FingerprintRepository interface {
	// Get retrieves the record for a subject. Returns nil if none exists.
	Get(subject string) (*Fingerprint, error)

	// Put stores or replaces the record for fp.Subject.
	Put(fp Fingerprint) error

	// DeleteFile removes all block records whose subject belongs to the file.
	DeleteFile(filePath string) error

	// ClearAll removes every record.
	ClearAll() error
}

// BackupInfo describes one saved copy of a file.
type BackupInfo struct {
	CreatedAt  time.Time
	BackupPath string
	SourceBase string // Base name of the file the backup was taken from
}

// BackupManager snapshots files before mutation and restores them.
// Backups are append-only; nothing is pruned.
type BackupManager interface {
	// Snapshot copies the file's current content to the backup directory
	// and returns the backup path. Existing backups are never overwritten.
	Snapshot(filePath string) (string, error)

	// RestoreLatest overwrites the live file with its most recent backup.
	// Returns false, nil when no backup exists.
	RestoreLatest(filePath string) (bool, error)

	// List returns all backups, newest first.
	List() ([]BackupInfo, error)
}

// Logger provides leveled, task-scoped logging. taskID 0 targets only the
// global log; a positive taskID also writes a per-task log file.
type Logger interface {
	Debug(taskID int, category, msg string)
	Info(taskID int, category, msg string)
	Warn(taskID int, category, msg string)
	Error(taskID int, category, msg string)
}

// ConfigLoader loads configuration from files.
type ConfigLoader interface {
	// Load returns the merged configuration (project + global + defaults).
	Load() (*Config, error)
}

// Clock provides time operations for testability.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock implements Clock using the system clock.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time {
	return time.Now()
}
