package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/breakoutsentinel/sentinel/internal/model"
)

// SnapshotFile holds the latest run's signals as a JSON array. Every Replace
// swaps the whole file; readers never observe a partial write.
type SnapshotFile struct {
	Path string
	mu   sync.Mutex
}

// NewSnapshotFile creates a snapshot store at path.
func NewSnapshotFile(path string) *SnapshotFile {
	return &SnapshotFile{Path: path}
}

// Replace overwrites the snapshot with signals. The data is written to a
// temporary file in the same directory and renamed over the target.
func (s *SnapshotFile) Replace(signals []model.Signal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if signals == nil {
		signals = []model.Signal{}
	}
	data, err := json.MarshalIndent(signals, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.Path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp snapshot: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod temp snapshot: %w", err)
	}
	if err := os.Rename(tmpName, s.Path); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

// Load reads the snapshot. A missing file yields an empty set.
func (s *SnapshotFile) Load() ([]model.Signal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return []model.Signal{}, nil
		}
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	var signals []model.Signal
	if err := json.Unmarshal(data, &signals); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if signals == nil {
		signals = []model.Signal{}
	}
	return signals, nil
}
