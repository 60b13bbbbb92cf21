package resume

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"

	"github.com/kl63/VerseVisions/internal/logging"
)

// Store persists the most recent task handle to a single-slot text file so
// an interrupted run can be checked later without re-submitting. Writes are
// last-write-wins; a flock around each access keeps concurrent runs from
// interleaving partial writes, though the newer run's handle still replaces
// the older one.
type Store struct {
	path   string
	lock   *flock.Flock
	logger *slog.Logger
}

// NewStore creates a store backed by the file at path.
func NewStore(path string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Store{
		path:   path,
		lock:   flock.New(path + ".lock"),
		logger: logging.NewComponentLogger(logger, "resume"),
	}
}

// Path returns the backing file location.
func (s *Store) Path() string {
	return s.path
}

// Save records taskID as the resume handle, replacing any previous one.
func (s *Store) Save(taskID string) error {
	taskID = strings.TrimSpace(taskID)
	if taskID == "" {
		return errors.New("task id must not be empty")
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}
	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("acquire resume lock: %w", err)
	}
	defer s.unlock()

	// The file holds the bare handle, nothing else, so other tooling can
	// read it without trimming.
	if err := os.WriteFile(s.path, []byte(taskID), 0o644); err != nil {
		return fmt.Errorf("write resume file: %w", err)
	}
	s.logger.Info("resume handle saved",
		logging.String(logging.FieldTaskID, taskID),
		logging.String("path", s.path),
	)
	return nil
}

// Load returns the saved handle. The second return is false when no handle
// has been saved; that is not an error.
func (s *Store) Load() (string, bool, error) {
	if err := s.lock.RLock(); err != nil {
		return "", false, fmt.Errorf("acquire resume lock: %w", err)
	}
	defer s.unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read resume file: %w", err)
	}
	taskID := strings.TrimSpace(string(data))
	if taskID == "" {
		return "", false, nil
	}
	return taskID, true, nil
}

// Clear removes the saved handle. Clearing an empty store is a no-op.
func (s *Store) Clear() error {
	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("acquire resume lock: %w", err)
	}
	defer s.unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove resume file: %w", err)
	}
	return nil
}

func (s *Store) unlock() {
	if err := s.lock.Unlock(); err != nil {
		s.logger.Warn("failed to release resume lock", logging.Error(err))
	}
}
