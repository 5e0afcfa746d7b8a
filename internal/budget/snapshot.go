package budget

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// SnapshotFile is the name of the single persistence slot inside a snapshot directory.
const SnapshotFile = "hti-budget-scenario.json"

var ErrNoSnapshot = errors.New("no saved scenario")

// Snapshot is a saved worksheet: the scenario, the raw values and what they computed to.
type Snapshot struct {
	Scenario     Scenario      `json:"scenario"`
	Streams      []StreamValue `json:"streams"`
	Calculations Result        `json:"calculations"`
	Timestamp    time.Time     `json:"timestamp"`
}

// Restore rebuilds a model from the snapshot, starting from the default streams.
func (s Snapshot) Restore() (*Model, error) {
	m := NewModel()
	if s.Scenario != "" {
		sc, err := ParseScenario(string(s.Scenario))
		if err != nil {
			return nil, err
		}
		m.SetScenario(sc)
	}
	if err := m.Apply(s.Streams); err != nil {
		return nil, err
	}
	return m, nil
}

// SnapshotStore keeps one snapshot on disk. Saves replace the previous one (last write wins).
type SnapshotStore struct {
	mu   sync.Mutex
	path string
}

// NewSnapshotStore returns a store writing into dir. The directory is created on first save.
func NewSnapshotStore(dir string) *SnapshotStore {
	return &SnapshotStore{path: filepath.Join(dir, SnapshotFile)}
}

// Path returns the snapshot file location.
func (s *SnapshotStore) Path() string {
	return s.path
}

// Save writes the snapshot via a temp file and rename so readers never see a partial file.
func (s *SnapshotStore) Save(snap Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	raw, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}
	return nil
}

// Load reads the saved snapshot, or returns ErrNoSnapshot if nothing was saved yet.
func (s *SnapshotStore) Load() (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Snapshot{}, ErrNoSnapshot
		}
		return Snapshot{}, fmt.Errorf("failed to read snapshot: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("failed to parse snapshot: %w", err)
	}
	return snap, nil
}
