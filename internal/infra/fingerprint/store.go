// Package fingerprint persists content hashes keyed by subject, the basis
// for change detection between scans.
package fingerprint

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/yonekura-dev/docmark/internal/domain"
)

// storeData represents the JSON file structure.
type storeData struct {
	Records map[string]*domain.Fingerprint `json:"records"`
}

// Store implements domain.FingerprintRepository using a JSON file with the
// same locking and atomic-rename discipline as the task store.
type Store struct {
	clock    domain.Clock
	path     string
	lockPath string
}

// New creates a new Store for the given file path.
func New(path string, clock domain.Clock) *Store {
	return &Store{
		clock:    clock,
		path:     path,
		lockPath: path + ".lock",
	}
}

// Initialize creates an empty store file if it doesn't exist.
func (s *Store) Initialize() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	if _, err := os.Stat(s.path); err == nil {
		return nil
	}
	return s.write(&storeData{Records: make(map[string]*domain.Fingerprint)})
}

// Get retrieves the record for a subject. Returns nil if none exists.
func (s *Store) Get(subject string) (*domain.Fingerprint, error) {
	var fp *domain.Fingerprint
	err := s.withLock(syscall.LOCK_SH, func(data *storeData) error {
		if r, ok := data.Records[subject]; ok {
			r.Subject = subject
			fp = r
		}
		return nil
	})
	return fp, err
}

// Put stores or replaces the record for fp.Subject.
func (s *Store) Put(fp domain.Fingerprint) error {
	return s.update(func(data *storeData) error {
		if fp.Observed.IsZero() {
			fp.Observed = s.clock.Now()
		}
		data.Records[fp.Subject] = &fp
		return nil
	})
}

// DeleteFile removes all block records belonging to the file, along with
// the file-level record itself.
func (s *Store) DeleteFile(filePath string) error {
	return s.update(func(data *storeData) error {
		delete(data.Records, filePath)
		prefix := filePath + "|"
		for subject := range data.Records {
			if strings.HasPrefix(subject, prefix) {
				delete(data.Records, subject)
			}
		}
		return nil
	})
}

// ClearAll removes every record.
func (s *Store) ClearAll() error {
	return s.update(func(data *storeData) error {
		data.Records = make(map[string]*domain.Fingerprint)
		return nil
	})
}

func (s *Store) update(fn func(*storeData) error) error {
	return s.withLock(syscall.LOCK_EX, func(data *storeData) error {
		if err := fn(data); err != nil {
			return err
		}
		return s.write(data)
	})
}

func (s *Store) withLock(lockType int, fn func(*storeData) error) error {
	if err := os.MkdirAll(filepath.Dir(s.lockPath), 0o750); err != nil {
		return fmt.Errorf("create lock directory: %w", err)
	}
	lock, err := os.OpenFile(s.lockPath, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return fmt.Errorf("open lock file: %w", err)
	}
	defer func() {
		_ = syscall.Flock(int(lock.Fd()), syscall.LOCK_UN)
		_ = lock.Close()
	}()
	if err := syscall.Flock(int(lock.Fd()), lockType); err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}

	data, err := s.read()
	if err != nil {
		return err
	}
	return fn(data)
}

func (s *Store) read() (*storeData, error) {
	content, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrNotInitialized
		}
		return nil, fmt.Errorf("read fingerprint file: %w", err)
	}

	var data storeData
	if err := json.Unmarshal(content, &data); err != nil {
		return nil, fmt.Errorf("parse fingerprint file: %w", err)
	}
	if data.Records == nil {
		data.Records = make(map[string]*domain.Fingerprint)
	}
	return &data, nil
}

func (s *Store) write(data *storeData) error {
	content, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal fingerprint data: %w", err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, content, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// Ensure Store implements the repository interfaces.
var _ domain.FingerprintRepository = (*Store)(nil)
var _ domain.StoreInitializer = (*Store)(nil)
