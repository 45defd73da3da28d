// Package jsonstore provides a JSON file-based implementation of TaskRepository.
package jsonstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"syscall"

	"github.com/yonekura-dev/docmark/internal/domain"
)

// storeData represents the JSON file structure.
type storeData struct {
	Tasks map[string]*taskData `json:"tasks"`
	Meta  meta                 `json:"meta"`
}

// meta contains store metadata.
type meta struct {
	NextTaskID int `json:"nextTaskID"`
}

// taskData is the JSON representation of a task (without ID, which is the map key).
type taskData = domain.Task

// Store implements domain.TaskRepository using a JSON file. Every mutating
// operation rewrites the whole file under an exclusive lock, temp-file plus
// rename, so readers never observe a half-written queue.
type Store struct {
	clock    domain.Clock
	path     string
	lockPath string
}

// New creates a new Store for the given file path.
// The file does not need to exist until Initialize is called.
func New(path string, clock domain.Clock) *Store {
	return &Store{
		clock:    clock,
		path:     path,
		lockPath: path + ".lock",
	}
}

// IsInitialized checks if the store file exists.
func (s *Store) IsInitialized() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Initialize creates an empty store file if it doesn't exist.
func (s *Store) Initialize() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	if _, err := os.Stat(s.path); err == nil {
		return nil
	}
	return s.write(&storeData{
		Tasks: make(map[string]*taskData),
		Meta:  meta{NextTaskID: 1},
	})
}

// Get retrieves a task by ID. Returns nil if not found.
func (s *Store) Get(id int) (*domain.Task, error) {
	var task *domain.Task
	err := s.withLock(func(data *storeData) error {
		if t, ok := data.Tasks[strconv.Itoa(id)]; ok {
			t.ID = id
			task = t
		}
		return nil
	})
	return task, err
}

// CreateOrUpdate persists the task. A task with ID 0 either takes over the
// existing row at its (file, line, kind) key or is inserted under a fresh
// ID; a task with an ID set updates that row in place.
func (s *Store) CreateOrUpdate(task *domain.Task) (int, bool, error) {
	var id int
	var created bool
	err := s.withLockWrite(func(data *storeData) error {
		now := s.clock.Now()

		if task.ID != 0 {
			key := strconv.Itoa(task.ID)
			existing, ok := data.Tasks[key]
			if !ok {
				return domain.ErrTaskNotFound
			}
			if otherID, ok := findByKey(data, task.Key()); ok && otherID != task.ID {
				return fmt.Errorf("%w: task %d", domain.ErrUniquenessViolation, otherID)
			}
			task.Created = existing.Created
			task.Updated = now
			data.Tasks[key] = task
			id = task.ID
			return nil
		}

		if existingID, ok := findByKey(data, task.Key()); ok {
			existing := data.Tasks[strconv.Itoa(existingID)]
			task.ID = existingID
			task.Created = existing.Created
			task.Updated = now
			data.Tasks[strconv.Itoa(existingID)] = task
			id = existingID
			return nil
		}

		task.ID = data.Meta.NextTaskID
		data.Meta.NextTaskID++
		if task.Created.IsZero() {
			task.Created = now
		}
		task.Updated = now
		data.Tasks[strconv.Itoa(task.ID)] = task
		id = task.ID
		created = true
		return nil
	})
	return id, created, err
}

// List retrieves tasks matching the filter, ordered by ID.
func (s *Store) List(filter domain.TaskFilter) ([]*domain.Task, error) {
	var tasks []*domain.Task
	err := s.withLock(func(data *storeData) error {
		for key, t := range data.Tasks {
			t.ID, _ = strconv.Atoi(key)
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
		return nil
	})

	slices.SortFunc(tasks, func(a, b *domain.Task) int {
		return a.ID - b.ID
	})

	return tasks, err
}

// ListPending returns pending tasks in fixed processing order: category
// rank, then ascending priority, then creation time.
func (s *Store) ListPending(filter domain.PendingFilter) ([]*domain.Task, error) {
	tasks, err := s.List(domain.TaskFilter{Status: domain.StatusPending, Kind: filter.Kind})
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
		if d := a.Created.Compare(b.Created); d != 0 {
			return d
		}
		return a.ID - b.ID
	})

	if filter.Limit > 0 && len(tasks) > filter.Limit {
		tasks = tasks[:filter.Limit]
	}
	return tasks, nil
}

// ListAccepted returns accepted tasks ordered by file path ascending and
// line descending. Applying bottom-up within a file keeps every remaining
// anchor valid.
func (s *Store) ListAccepted() ([]*domain.Task, error) {
	all, err := s.List(domain.TaskFilter{})
	if err != nil {
		return nil, err
	}

	var tasks []*domain.Task
	for _, t := range all {
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
func (s *Store) MarkProcessing(id int) error {
	return s.transition(id, domain.StatusProcessing, "")
}

// MarkCompleted transitions a task to completed.
func (s *Store) MarkCompleted(id int) error {
	return s.transition(id, domain.StatusCompleted, "")
}

// MarkFailed transitions a task to failed and records the error message.
func (s *Store) MarkFailed(id int, message string) error {
	return s.transition(id, domain.StatusFailed, message)
}

func (s *Store) transition(id int, target domain.Status, message string) error {
	return s.withLockWrite(func(data *storeData) error {
		task, ok := data.Tasks[strconv.Itoa(id)]
		if !ok {
			return domain.ErrTaskNotFound
		}
		if !task.Status.CanTransitionTo(target) {
			return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, task.Status, target)
		}
		task.Status = target
		task.ErrorMessage = message
		task.Updated = s.clock.Now()
		return nil
	})
}

// SetSuggestion stores the processor's documentation text.
func (s *Store) SetSuggestion(id int, text string) error {
	if strings.TrimSpace(text) == "" {
		return domain.ErrEmptySuggestion
	}
	return s.withLockWrite(func(data *storeData) error {
		task, ok := data.Tasks[strconv.Itoa(id)]
		if !ok {
			return domain.ErrTaskNotFound
		}
		task.Suggestion = text
		task.Updated = s.clock.Now()
		return nil
	})
}

// SetAccepted records the reviewer's decision. A task without a suggestion
// cannot be accepted.
func (s *Store) SetAccepted(id int, accepted bool) error {
	return s.withLockWrite(func(data *storeData) error {
		task, ok := data.Tasks[strconv.Itoa(id)]
		if !ok {
			return domain.ErrTaskNotFound
		}
		if accepted && !task.HasSuggestion() {
			return domain.ErrNoSuggestion
		}
		task.Accepted = accepted
		task.Updated = s.clock.Now()
		return nil
	})
}

// Delete removes a task by ID.
func (s *Store) Delete(id int) error {
	return s.withLockWrite(func(data *storeData) error {
		key := strconv.Itoa(id)
		if _, ok := data.Tasks[key]; !ok {
			return domain.ErrTaskNotFound
		}
		delete(data.Tasks, key)
		return nil
	})
}

// ClearAll removes every task and resets the ID counter.
func (s *Store) ClearAll() error {
	return s.withLockWrite(func(data *storeData) error {
		data.Tasks = make(map[string]*taskData)
		data.Meta.NextTaskID = 1
		return nil
	})
}

// Stats returns queue statistics.
func (s *Store) Stats() (domain.QueueStats, error) {
	stats := domain.QueueStats{
		ByStatus: make(map[domain.Status]int),
		ByKind:   make(map[domain.TaskKind]int),
	}
	err := s.withLock(func(data *storeData) error {
		for _, t := range data.Tasks {
			stats.ByStatus[t.Status]++
			stats.ByKind[t.Kind]++
			if t.Accepted {
				stats.Accepted++
			}
			stats.Total++
		}
		return nil
	})
	return stats, err
}

// findByKey returns the ID of the task occupying the queue slot, if any.
func findByKey(data *storeData, key domain.TaskKey) (int, bool) {
	for k, t := range data.Tasks {
		if t.FilePath == key.FilePath && t.Line == key.Line && t.Kind == key.Kind {
			id, _ := strconv.Atoi(k)
			return id, true
		}
	}
	return 0, false
}

// withLock executes fn with a shared (read) lock.
func (s *Store) withLock(fn func(*storeData) error) error {
	lock, err := s.acquireLock(syscall.LOCK_SH)
	if err != nil {
		return err
	}
	defer s.releaseLock(lock)

	data, err := s.read()
	if err != nil {
		return err
	}

	return fn(data)
}

// withLockWrite executes fn with an exclusive (write) lock and writes the result.
func (s *Store) withLockWrite(fn func(*storeData) error) error {
	lock, err := s.acquireLock(syscall.LOCK_EX)
	if err != nil {
		return err
	}
	defer s.releaseLock(lock)

	data, err := s.read()
	if err != nil {
		return err
	}

	if err := fn(data); err != nil {
		return err
	}

	return s.write(data)
}

func (s *Store) acquireLock(lockType int) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(s.lockPath), 0o750); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	lock, err := os.OpenFile(s.lockPath, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}

	if err := syscall.Flock(int(lock.Fd()), lockType); err != nil {
		_ = lock.Close()
		return nil, fmt.Errorf("acquire lock: %w", err)
	}

	return lock, nil
}

func (s *Store) releaseLock(lock *os.File) {
	_ = syscall.Flock(int(lock.Fd()), syscall.LOCK_UN)
	_ = lock.Close()
}

func (s *Store) read() (*storeData, error) {
	content, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrNotInitialized
		}
		return nil, fmt.Errorf("read store file: %w", err)
	}

	var data storeData
	if err := decodeJSONStrict(content, &data); err != nil {
		return nil, fmt.Errorf("parse store file: %w", err)
	}

	if data.Tasks == nil {
		data.Tasks = make(map[string]*taskData)
	}

	return &data, nil
}

func (s *Store) write(data *storeData) error {
	content, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal store data: %w", err)
	}
	return writeAtomic(s.path, content, 0o600)
}

func decodeJSONStrict(content []byte, v any) error {
	dec := json.NewDecoder(strings.NewReader(string(content)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("unexpected trailing content")
	}
	return nil
}

func writeAtomic(path string, content []byte, perm os.FileMode) error {
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

// Ensure Store implements the repository interfaces.
var _ domain.TaskRepository = (*Store)(nil)
var _ domain.StoreInitializer = (*Store)(nil)
