// Package testutil provides shared test utilities and mock implementations.
package testutil

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/yonekura-dev/docmark/internal/domain"
)

// MockClock is a test double for domain.Clock.
type MockClock struct {
	NowTime time.Time
}

// Now returns the configured time.
func (m *MockClock) Now() time.Time {
	return m.NowTime
}

// NopLogger is a domain.Logger that discards everything.
type NopLogger struct{}

func (NopLogger) Debug(int, string, string) {}
func (NopLogger) Info(int, string, string)  {}
func (NopLogger) Warn(int, string, string)  {}
func (NopLogger) Error(int, string, string) {}

// MockTaskRepository is an in-memory domain.TaskRepository.
// Fields are ordered to minimize memory padding.
type MockTaskRepository struct {
	Tasks   map[int]*domain.Task
	SaveErr error
	GetErr  error
	NextID  int
}

// NewMockTaskRepository creates a new MockTaskRepository.
func NewMockTaskRepository() *MockTaskRepository {
	return &MockTaskRepository{
		Tasks:  make(map[int]*domain.Task),
		NextID: 1,
	}
}

// Get retrieves a task by ID.
func (m *MockTaskRepository) Get(id int) (*domain.Task, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	task, ok := m.Tasks[id]
	if !ok {
		return nil, nil
	}
	return task, nil
}

// CreateOrUpdate persists the task with the same slot semantics as the
// real store.
func (m *MockTaskRepository) CreateOrUpdate(task *domain.Task) (int, bool, error) {
	if m.SaveErr != nil {
		return 0, false, m.SaveErr
	}
	if task.ID != 0 {
		existing, ok := m.Tasks[task.ID]
		if !ok {
			return 0, false, domain.ErrTaskNotFound
		}
		task.Created = existing.Created
		m.Tasks[task.ID] = task
		return task.ID, false, nil
	}
	for id, t := range m.Tasks {
		if t.Key() == task.Key() {
			task.ID = id
			task.Created = t.Created
			m.Tasks[id] = task
			return id, false, nil
		}
	}
	task.ID = m.NextID
	m.NextID++
	if task.Created.IsZero() {
		task.Created = time.Now()
	}
	m.Tasks[task.ID] = task
	return task.ID, true, nil
}

// List returns tasks matching the filter, ordered by ID.
func (m *MockTaskRepository) List(filter domain.TaskFilter) ([]*domain.Task, error) {
	var tasks []*domain.Task
	for _, t := range m.Tasks {
		if filter.FilePath != "" && t.FilePath != filter.FilePath {
			continue
		}
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		if filter.Kind != "" && t.Kind != filter.Kind {
			continue
		}
		tasks = append(tasks, t)
	}
	slices.SortFunc(tasks, func(a, b *domain.Task) int { return a.ID - b.ID })
	return tasks, nil
}

// ListPending returns pending tasks in processing order.
func (m *MockTaskRepository) ListPending(filter domain.PendingFilter) ([]*domain.Task, error) {
	tasks, err := m.List(domain.TaskFilter{Status: domain.StatusPending, Kind: filter.Kind})
	if err != nil {
		return nil, err
	}
	slices.SortFunc(tasks, func(a, b *domain.Task) int {
		if d := a.Kind.Category().Rank() - b.Kind.Category().Rank(); d != 0 {
			return d
		}
		if d := a.Priority - b.Priority; d != 0 {
			return d
		}
		return a.ID - b.ID
	})
	if filter.Limit > 0 && len(tasks) > filter.Limit {
		tasks = tasks[:filter.Limit]
	}
	return tasks, nil
}

// ListAccepted returns accepted tasks, file ascending and line descending.
func (m *MockTaskRepository) ListAccepted() ([]*domain.Task, error) {
	var tasks []*domain.Task
	for _, t := range m.Tasks {
		if t.Accepted {
			tasks = append(tasks, t)
		}
	}
	slices.SortFunc(tasks, func(a, b *domain.Task) int {
		if d := strings.Compare(a.FilePath, b.FilePath); d != 0 {
			return d
		}
		return b.Line - a.Line
	})
	return tasks, nil
}

// MarkProcessing transitions a task to processing.
func (m *MockTaskRepository) MarkProcessing(id int) error {
	return m.transition(id, domain.StatusProcessing, "")
}

// MarkCompleted transitions a task to completed.
func (m *MockTaskRepository) MarkCompleted(id int) error {
	return m.transition(id, domain.StatusCompleted, "")
}

// MarkFailed transitions a task to failed.
func (m *MockTaskRepository) MarkFailed(id int, message string) error {
	return m.transition(id, domain.StatusFailed, message)
}

func (m *MockTaskRepository) transition(id int, target domain.Status, message string) error {
	task, ok := m.Tasks[id]
	if !ok {
		return domain.ErrTaskNotFound
	}
	if !task.Status.CanTransitionTo(target) {
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, task.Status, target)
	}
	task.Status = target
	task.ErrorMessage = message
	return nil
}

// SetSuggestion stores the suggestion text.
func (m *MockTaskRepository) SetSuggestion(id int, text string) error {
	if strings.TrimSpace(text) == "" {
		return domain.ErrEmptySuggestion
	}
	task, ok := m.Tasks[id]
	if !ok {
		return domain.ErrTaskNotFound
	}
	task.Suggestion = text
	return nil
}

// SetAccepted records the reviewer's decision.
func (m *MockTaskRepository) SetAccepted(id int, accepted bool) error {
	task, ok := m.Tasks[id]
	if !ok {
		return domain.ErrTaskNotFound
	}
	if accepted && !task.HasSuggestion() {
		return domain.ErrNoSuggestion
	}
	task.Accepted = accepted
	return nil
}

// Delete removes a task.
func (m *MockTaskRepository) Delete(id int) error {
	if _, ok := m.Tasks[id]; !ok {
		return domain.ErrTaskNotFound
	}
	delete(m.Tasks, id)
	return nil
}

// ClearAll removes every task.
func (m *MockTaskRepository) ClearAll() error {
	m.Tasks = make(map[int]*domain.Task)
	m.NextID = 1
	return nil
}

// Stats returns queue statistics.
func (m *MockTaskRepository) Stats() (domain.QueueStats, error) {
	stats := domain.QueueStats{
		ByStatus: make(map[domain.Status]int),
		ByKind:   make(map[domain.TaskKind]int),
	}
	for _, t := range m.Tasks {
		stats.ByStatus[t.Status]++
		stats.ByKind[t.Kind]++
		if t.Accepted {
			stats.Accepted++
		}
		stats.Total++
	}
	return stats, nil
}

// MockFingerprintRepository is an in-memory domain.FingerprintRepository.
type MockFingerprintRepository struct {
	Records map[string]*domain.Fingerprint
	PutErr  error
}

// NewMockFingerprintRepository creates a new MockFingerprintRepository.
func NewMockFingerprintRepository() *MockFingerprintRepository {
	return &MockFingerprintRepository{Records: make(map[string]*domain.Fingerprint)}
}

// Get retrieves the record for a subject.
func (m *MockFingerprintRepository) Get(subject string) (*domain.Fingerprint, error) {
	return m.Records[subject], nil
}

// Put stores the record.
func (m *MockFingerprintRepository) Put(fp domain.Fingerprint) error {
	if m.PutErr != nil {
		return m.PutErr
	}
	if fp.Observed.IsZero() {
		fp.Observed = time.Now()
	}
	m.Records[fp.Subject] = &fp
	return nil
}

// DeleteFile removes all records for a file.
func (m *MockFingerprintRepository) DeleteFile(filePath string) error {
	delete(m.Records, filePath)
	prefix := filePath + "|"
	for subject := range m.Records {
		if strings.HasPrefix(subject, prefix) {
			delete(m.Records, subject)
		}
	}
	return nil
}

// ClearAll removes every record.
func (m *MockFingerprintRepository) ClearAll() error {
	m.Records = make(map[string]*domain.Fingerprint)
	return nil
}

// MockBackupManager is an in-memory domain.BackupManager.
type MockBackupManager struct {
	Snapshots   map[string][]string // source path -> contents, oldest first
	SnapshotErr error
}

// NewMockBackupManager creates a new MockBackupManager.
func NewMockBackupManager() *MockBackupManager {
	return &MockBackupManager{Snapshots: make(map[string][]string)}
}

// Snapshot records the request without touching disk.
func (m *MockBackupManager) Snapshot(filePath string) (string, error) {
	if m.SnapshotErr != nil {
		return "", m.SnapshotErr
	}
	m.Snapshots[filePath] = append(m.Snapshots[filePath], filePath)
	return fmt.Sprintf("%s.%d.bak", filePath, len(m.Snapshots[filePath])), nil
}

// RestoreLatest reports whether a snapshot was recorded for the file.
func (m *MockBackupManager) RestoreLatest(filePath string) (bool, error) {
	return len(m.Snapshots[filePath]) > 0, nil
}

// List returns one entry per recorded snapshot.
func (m *MockBackupManager) List() ([]domain.BackupInfo, error) {
	var infos []domain.BackupInfo
	for path, snaps := range m.Snapshots {
		for range snaps {
			infos = append(infos, domain.BackupInfo{SourceBase: path})
		}
	}
	return infos, nil
}

// Compile-time interface checks.
var (
	_ domain.Clock                 = (*MockClock)(nil)
	_ domain.Logger                = NopLogger{}
	_ domain.TaskRepository        = (*MockTaskRepository)(nil)
	_ domain.FingerprintRepository = (*MockFingerprintRepository)(nil)
	_ domain.BackupManager         = (*MockBackupManager)(nil)
)
